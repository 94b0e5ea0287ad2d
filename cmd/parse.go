// -- cmd/parse.go --
package cmd

import (
	"fmt"
	"io"
	"os"

	json "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/visor-ai/visor/internal/vlm"
)

var (
	parseWidth  float64
	parseHeight float64
	parseScale  float64
	parseFactor float64
)

// parseCmd runs the prediction parser over a model response from a file or
// stdin and prints the structured records. Useful for debugging prompts
// without a browser.
var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse a raw model response into structured action records",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			data []byte
			err  error
		)
		if len(args) == 1 {
			data, err = os.ReadFile(args[0])
		} else {
			data, err = io.ReadAll(cmd.InOrStdin())
		}
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}

		opts := vlm.Options{
			Factors:     [2]float64{parseFactor, parseFactor},
			ScaleFactor: parseScale,
		}
		if parseWidth > 0 && parseHeight > 0 {
			opts.Screen = &vlm.ScreenContext{Width: parseWidth, Height: parseHeight}
		}

		predictions := vlm.ParsePrediction(string(data), opts)
		out, err := json.MarshalIndent(predictions, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding output: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	parseCmd.Flags().Float64Var(&parseWidth, "width", 0, "screen width in pixels (enables absolute coordinates)")
	parseCmd.Flags().Float64Var(&parseHeight, "height", 0, "screen height in pixels (enables absolute coordinates)")
	parseCmd.Flags().Float64Var(&parseScale, "scale", 1, "display scale factor")
	parseCmd.Flags().Float64Var(&parseFactor, "factor", vlm.DefaultFactor, "model coordinate grid size")
	rootCmd.AddCommand(parseCmd)
}
