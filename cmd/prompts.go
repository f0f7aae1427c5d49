package cmd

import (
	"github.com/spf13/cobra"
	"github.com/stockpipe/stockpipe/internal/promptgen"
)

func newPromptsCmd(a *app) *cobra.Command {
	var count int
	var outputDir string
	var formatted string
	var model string

	cmd := &cobra.Command{
		Use:   "prompts <keyword>",
		Short: "Generate image prompts for a keyword into spreadsheets",
		Long: `Ask a text model for image-generation prompts about a keyword.

The raw answer is saved one line per row under a Prompt column in
<output-dir>/<keyword>_prompts.xlsx. The numbered prompts are then written to a
formatted workbook with Sheet1, Sheet2 and Sheet3 holding six prompts each,
one sheet per browser profile.

Requires API_KEY unless the provider is ollama.`,
		Example: `  stockpipe prompts "picture frame"

  stockpipe prompts "picture frame" --count 18 --formatted "D:/Ai_leonado/day24/picture frame_prompts.xlsx"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			keyword := args[0]
			cfg := a.cfg

			p, err := newProvider(cfg)
			if err != nil {
				return err
			}
			if model == "" {
				model = cfg.TextModel
			}
			if formatted == "" {
				formatted = promptgen.RawPath(".", keyword)
			}

			raw, err := promptgen.New(p, model).Generate(cmd.Context(), keyword, count, outputDir)
			if err != nil {
				return err
			}
			return promptgen.Format(raw, formatted)
		},
	}

	cmd.Flags().IntVar(&count, "count", promptgen.DefaultCount, "Number of prompts to request")
	cmd.Flags().StringVar(&outputDir, "output-dir", "output", "Directory for the raw prompts workbook")
	cmd.Flags().StringVar(&formatted, "formatted", "", "Formatted workbook path (default ./<keyword>_prompts.xlsx)")
	cmd.Flags().StringVar(&model, "model", "", "Text model (defaults to text_model from config)")

	return cmd
}
