package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/tidwall/pretty"
)

// printJSON writes v indented, colorized when w is a terminal.
func printJSON(w io.Writer, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	out := pretty.Pretty(raw)
	if isTerminal(w) {
		out = pretty.Color(out, nil)
	}
	_, err = w.Write(out)
	return err
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
