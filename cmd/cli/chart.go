package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newChartCmd() *cobra.Command {
	var file, building, statistic, mode, at, hover, out string

	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Render the temperature chart of one building as SVG",
		RunE: func(cmd *cobra.Command, args []string) error {
			if building == "" {
				return fmt.Errorf("--building is required")
			}
			h, err := parseHover(hover)
			if err != nil {
				return err
			}
			store, err := loadStore(file)
			if err != nil {
				return err
			}
			s, err := stateFor(store, statistic, mode, at)
			if err != nil {
				return err
			}
			b, err := store.Get(building)
			if err != nil {
				return err
			}
			svg, err := renderChart(b, s, h)
			if err != nil {
				return err
			}

			if out == "" || out == "-" {
				_, err = os.Stdout.Write(svg)
				return err
			}
			if err := os.WriteFile(out, svg, 0600); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Wrote %s (%d bytes)\n", out, len(svg))
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "Path to the buildings GeoJSON file (default from config)")
	cmd.Flags().StringVar(&building, "building", "", "Building id")
	cmd.Flags().StringVar(&statistic, "statistic", "temp", "Statistic (temp, in-out, in-out-nature)")
	cmd.Flags().StringVar(&mode, "mode", "mean", "Display mode (mean, time)")
	cmd.Flags().StringVar(&at, "time", "", "Acquisition time or day")
	cmd.Flags().StringVar(&hover, "hover", "", "Hovered bar as LABEL or LABEL@X,Y")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default stdout)")
	return cmd
}
