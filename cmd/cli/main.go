package main

import (
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "thermomap-cli",
		Short:        "CLI tool for the building temperature dashboard",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newColorCmd())
	rootCmd.AddCommand(newChartCmd())
	rootCmd.AddCommand(newBuildingsCmd())
	rootCmd.AddCommand(newExportCmd())
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
