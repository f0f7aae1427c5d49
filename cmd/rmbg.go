package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/stockpipe/stockpipe/internal/bgremove"
)

func newRmbgCmd(a *app) *cobra.Command {
	var output string
	var url string
	var model string

	cmd := &cobra.Command{
		Use:   "rmbg <input-dir>",
		Short: "Remove the background from every image in a directory",
		Long: `Send every .jpg, .jpeg, .png and .webp image in a directory to a rembg server
and save the result as no_bg_<filename> in the output directory.

Start the server with "rembg s" first. The first failure stops the run.`,
		Example: `  stockpipe rmbg ./day12

  stockpipe rmbg ./day12 --output ./cutouts --model isnet-general-use`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			if url == "" {
				url = cfg.Rembg.URL
			}
			if model == "" {
				model = cfg.Rembg.Model
			}

			r := bgremove.NewRembg(url, model, cfg.Rembg.Timeout)
			written, err := bgremove.ProcessDir(cmd.Context(), args[0], output, r)
			if err != nil {
				return err
			}

			slog.Info("Background removal complete", "images", len(written))
			return nil
		},
	}

	cmd.Flags().StringVar(&output, "output", "", "Output directory (default <input-dir>/output_images_remove_background)")
	cmd.Flags().StringVar(&url, "url", "", "rembg server URL (defaults to rembg.url from config)")
	cmd.Flags().StringVar(&model, "model", "", "rembg model (defaults to rembg.model from config)")

	return cmd
}
