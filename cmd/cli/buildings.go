package main

import (
	"encoding/json"
	"io"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/egandro/thermomap/pkg/buildings"
	"github.com/egandro/thermomap/pkg/dashboard"
)

// BuildingRow is one line of the buildings listing.
type BuildingRow struct {
	ID    string `json:"id"`
	Mean  string `json:"mean"`
	Value string `json:"value"`
	Fill  string `json:"fill"`
}

func buildingRows(store *buildings.Store, s dashboard.State) []BuildingRow {
	all := store.All()
	rows := make([]BuildingRow, 0, len(all))
	for _, b := range all {
		mean, ok := buildings.Mean(b.TimeSeries(s.Statistic))
		v, vok := dashboard.Value(b, s)
		rows = append(rows, BuildingRow{
			ID:    b.ID,
			Mean:  formatNumber(mean, ok),
			Value: formatNumber(v, vok),
			Fill:  dashboard.FillFor(b, s).String(),
		})
	}
	return rows
}

func formatNumber(v float64, ok bool) string {
	if !ok {
		return "-"
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func printBuildingTable(w io.Writer, rows []BuildingRow, s dashboard.State) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Building", "Mean", s.TimeLabel(), "Fill"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	data := make([][]string, 0, len(rows))
	for _, r := range rows {
		data = append(data, []string{r.ID, r.Mean, r.Value, r.Fill})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func newBuildingsCmd() *cobra.Command {
	var file, statistic, mode, at string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "buildings",
		Short: "List buildings with their temperature and fill color",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := loadStore(file)
			if err != nil {
				return err
			}
			s, err := stateFor(store, statistic, mode, at)
			if err != nil {
				return err
			}
			rows := buildingRows(store, s)

			if jsonOutput {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(rows)
			}
			return printBuildingTable(os.Stdout, rows, s)
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "Path to the buildings GeoJSON file (default from config)")
	cmd.Flags().StringVar(&statistic, "statistic", "temp", "Statistic (temp, in-out, in-out-nature)")
	cmd.Flags().StringVar(&mode, "mode", "mean", "Display mode (mean, time)")
	cmd.Flags().StringVar(&at, "time", "", "Acquisition time or day")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	return cmd
}
