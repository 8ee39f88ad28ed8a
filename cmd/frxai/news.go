package main

import (
	"github.com/spf13/cobra"
)

func newNewsCmd(c *cli) *cobra.Command {
	var lang string
	cmd := &cobra.Command{
		Use:   "news [asset]",
		Short: "Fetch recent news for an asset (default EUR/USD)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sess, err := c.open(ctx, false)
			if err != nil {
				return err
			}
			defer sess.Close()

			language, err := commandLanguage(ctx, sess.core, lang)
			if err != nil {
				return err
			}
			asset := ""
			if len(args) == 1 {
				asset = args[0]
			}
			feed, err := sess.core.FetchNews(ctx, asset, language)
			if err != nil {
				return userError(err, language)
			}
			return printJSON(cmd.OutOrStdout(), feed)
		},
	}
	cmd.Flags().StringVar(&lang, "lang", "", "news language: en or id (default: stored setting)")
	return cmd
}
