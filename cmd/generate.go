package cmd

import (
	"github.com/spf13/cobra"
	"github.com/stockpipe/stockpipe/internal/generator"
)

func newGenerateCmd(a *app) *cobra.Command {
	var model string
	var workers int
	var parquet bool
	var noReport bool

	cmd := &cobra.Command{
		Use:   "generate <image-dir>",
		Short: "Generate stock metadata for a directory of images",
		Long: `Send every .jpg, .jpeg, .png and .gif image in a directory to a vision model
and write the suggested title, keywords, category and description to metadata.csv
in that directory.

Requires API_KEY unless the provider is ollama.`,
		Example: `  # Gemini with the configured defaults
  stockpipe generate ./day12

  # OpenAI, 3 workers, also export parquet
  STOCKPIPE_PROVIDER=openai stockpipe generate ./day12 --model gpt-4o --workers 3 --parquet`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			p, err := newProvider(cfg)
			if err != nil {
				return err
			}

			if model == "" {
				model = cfg.VisionModel
			}
			if workers < 1 {
				workers = cfg.Generate.Workers
			}

			g := generator.New(p, generator.Options{
				Model:        model,
				Workers:      workers,
				MaxDimension: cfg.Generate.MaxDimension,
			})

			res, runErr := g.Run(cmd.Context(), args[0])
			if res == nil {
				return runErr
			}

			if err := generator.Save(res, generator.SaveOptions{
				Parquet:  parquet,
				Report:   !noReport,
				Provider: cfg.Provider,
				Model:    model,
			}); err != nil {
				return err
			}
			return runErr
		},
	}

	cmd.Flags().StringVar(&model, "model", "", "Vision model (defaults to vision_model from config)")
	cmd.Flags().IntVar(&workers, "workers", 0, "Concurrent model calls (defaults to generate.workers from config)")
	cmd.Flags().BoolVar(&parquet, "parquet", false, "Also write metadata.parquet")
	cmd.Flags().BoolVar(&noReport, "no-report", false, "Skip writing metadata_run.yaml")

	return cmd
}
