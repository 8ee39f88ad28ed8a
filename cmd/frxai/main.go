package main

import (
	"fmt"
	"os"
)

var (
	version = "dev"
	exit    = os.Exit
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		exit(1)
	}
}
