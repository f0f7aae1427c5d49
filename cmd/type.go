package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/stockpipe/stockpipe/internal/browser"
)

func newTypeCmd(a *app) *cobra.Command {
	var profile int
	var sheetName string

	cmd := &cobra.Command{
		Use:   "type <prompts.xlsx>",
		Short: "Type prompts from a spreadsheet into the image-generation web app",
		Long: `Open Chrome with an existing user profile, wait for the prompt input and
submit each prompt of one sheet, typing at a human pace.

The sheet defaults to Sheet<profile>, matching the layout written by "stockpipe prompts".`,
		Example: `  stockpipe type "picture frame_prompts.xlsx" --profile 2`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			if sheetName == "" {
				sheetName = fmt.Sprintf("Sheet%d", profile)
			}

			prompts, err := browser.ReadPrompts(args[0], sheetName)
			if err != nil {
				return fmt.Errorf("failed to read prompts: %w", err)
			}
			slog.Info("Loaded prompts", "file", args[0], "sheet", sheetName, "count", len(prompts))

			page, err := browser.Launch(cmd.Context(), browser.LaunchOptions{
				ProfileDir: cfg.Browser.ProfileDir(profile),
				URL:        cfg.Browser.URL,
				Selector:   cfg.Browser.PromptSelector,
			})
			if err != nil {
				return fmt.Errorf("failed to start browser: %w", err)
			}

			timing := browser.DefaultTiming
			timing.WaitTimeout = cfg.Browser.WaitTimeout
			timing.MinTypeDelay = cfg.Browser.MinTypeDelay
			timing.MaxTypeDelay = cfg.Browser.MaxTypeDelay
			timing.ProcessingDelay = cfg.Browser.ProcessingDelay

			return browser.Run(cmd.Context(), page, page, prompts, timing, nil)
		},
	}

	cmd.Flags().IntVar(&profile, "profile", 1, "Chrome profile number")
	cmd.Flags().StringVar(&sheetName, "sheet", "", "Sheet to read (default Sheet<profile>)")

	return cmd
}
