package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/stockpipe/stockpipe/internal/config"
)

// app carries the state shared by every subcommand once the root has run.
type app struct {
	configPath string
	logLevel   string
	cfg        *config.Config
}

func NewRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "stockpipe",
		Short: "Stock photo content pipeline tools",
		Long: `Stockpipe automates a stock photo workflow.

It generates stock metadata for images with a vision model, writes that metadata
into the image files, produces image-generation prompts, strips image backgrounds,
and types prompts into an image-generation web app.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := setupLogging(a.logLevel); err != nil {
				return err
			}

			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			a.cfg = cfg
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Config file (default ./stockpipe.yaml or ./configs/stockpipe.yaml)")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(newInjectCmd(a))
	cmd.AddCommand(newGenerateCmd(a))
	cmd.AddCommand(newPromptsCmd(a))
	cmd.AddCommand(newRmbgCmd(a))
	cmd.AddCommand(newTypeCmd(a))

	return cmd
}

func setupLogging(level string) error {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})))
	return nil
}
