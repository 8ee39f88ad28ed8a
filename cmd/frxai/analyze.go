package main

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"frxai/pkg/frxai"
)

func newAnalyzeCmd(c *cli) *cobra.Command {
	var lang string
	cmd := &cobra.Command{
		Use:   "analyze <image>",
		Short: "Analyze a chart screenshot",
		Args:  cobra.ExactArgs(1),
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
			image, err := readImageFile(args[0], language)
			if err != nil {
				return err
			}
			result, err := sess.core.AnalyzeChart(ctx, image, language)
			if err != nil {
				return userError(err, language)
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}
	cmd.Flags().StringVar(&lang, "lang", "", "response language: en or id (default: stored setting)")
	return cmd
}

func readImageFile(path string, lang frxai.Language) (frxai.ImagePart, error) {
	f, err := os.Open(path)
	if err != nil {
		return frxai.ImagePart{}, err
	}
	defer f.Close()
	if info, err := f.Stat(); err == nil {
		if err := frxai.CheckImageSize(info.Size(), lang); err != nil {
			return frxai.ImagePart{}, userError(err, lang)
		}
	}
	image, err := frxai.ReadImage(f, mime.TypeByExtension(filepath.Ext(path)), lang)
	if err != nil {
		return frxai.ImagePart{}, userError(err, lang)
	}
	return image, nil
}

// userError shows the localized message and keeps err for errors.Is.
func userError(err error, lang frxai.Language) error {
	return fmt.Errorf("%s: %w", frxai.UserMessage(err, lang), err)
}
