package main

import (
	"github.com/spf13/cobra"

	"frxai/pkg/frxai"
)

func newSettingsCmd(c *cli) *cobra.Command {
	var theme, lang string
	var onboarded bool
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change the stored theme and language",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sess, err := c.open(ctx, false)
			if err != nil {
				return err
			}
			defer sess.Close()

			flags := cmd.Flags()
			var update frxai.SettingsUpdate
			if flags.Changed("theme") {
				update.Theme = &theme
			}
			if flags.Changed("lang") {
				update.Language = &lang
			}
			settings := sess.core.LoadSettings(ctx, processLocale())
			if update.Theme != nil || update.Language != nil {
				updated, err := sess.core.UpdateSettings(ctx, update)
				if err != nil {
					return userError(err, settings.Language)
				}
				settings = updated
			}
			if onboarded {
				if err := sess.core.CompleteOnboarding(ctx); err != nil {
					return userError(err, settings.Language)
				}
			}
			return printJSON(cmd.OutOrStdout(), settingsOutput{
				Settings:  settings,
				Onboarded: sess.core.HasOnboarded(ctx),
			})
		},
	}
	cmd.Flags().StringVar(&theme, "theme", "", "light, dark or system")
	cmd.Flags().StringVar(&lang, "lang", "", "en or id")
	cmd.Flags().BoolVar(&onboarded, "complete-onboarding", false, "mark onboarding as completed")
	return cmd
}

type settingsOutput struct {
	frxai.Settings
	Onboarded bool `json:"onboarded"`
}
