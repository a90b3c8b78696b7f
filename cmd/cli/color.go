package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/egandro/thermomap/pkg/colorscale"
)

func newColorCmd() *cobra.Command {
	var min, max float64
	var step bool
	var scale string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "color VALUE",
		Short: "Print the color of a value on the temperature scale",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid value %q: %w", args[0], err)
			}
			c, err := colorFor(scale, value, min, max, !step)
			if err != nil {
				return err
			}

			if jsonOutput {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(struct {
					colorscale.RGB
					CSS string `json:"css"`
					Hex string `json:"hex"`
				}{c, c.String(), c.Hex()})
			}

			fmt.Printf("%s %s %s\n", swatch(c), c.String(), c.Hex())
			return nil
		},
	}
	cmd.Flags().Float64Var(&min, "min", 0, "Lower end of the value range")
	cmd.Flags().Float64Var(&max, "max", 1, "Upper end of the value range")
	cmd.Flags().BoolVar(&step, "step", false, "Use the stop colors without interpolation")
	cmd.Flags().StringVar(&scale, "scale", "bluered", "Color scale (bluered, violetgreen)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	return cmd
}
