package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/egandro/thermomap/pkg/barchart"
	"github.com/egandro/thermomap/pkg/buildings"
	"github.com/egandro/thermomap/pkg/dashboard"
)

// exportCharts writes the chart of every building with readings into dir.
// Buildings without readings are skipped. It returns the number of files
// written.
func exportCharts(ctx context.Context, store *buildings.Store, s dashboard.State, dir string, workers int, onDone func(done, total int)) (int, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return 0, err
	}
	if workers < 1 {
		workers = 1
	}

	all := store.All()
	ids := make([]string, len(all))
	for i, b := range all {
		ids[i] = b.ID
	}
	files := chartFilenames(dir, ids, s.Statistic)
	var done, written atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, b := range all {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			defer func() {
				n := done.Add(1)
				if onDone != nil {
					onDone(int(n), len(all))
				}
			}()

			svg, err := renderChart(b, s, barchart.Idle())
			if errors.Is(err, buildings.ErrNoTemperature) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("building %s: %w", b.ID, err)
			}
			if err := os.WriteFile(files[b.ID], svg, 0600); err != nil {
				return err
			}
			written.Add(1)
			return nil
		})
	}
	err := g.Wait()
	return int(written.Load()), err
}

func newExportCmd() *cobra.Command {
	var file, statistic, mode, at, dir string
	var workers int
	var quiet bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render the chart of every building into a directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir == "" {
				return fmt.Errorf("--dir is required")
			}
			store, err := loadStore(file)
			if err != nil {
				return err
			}
			s, err := stateFor(store, statistic, mode, at)
			if err != nil {
				return err
			}

			var sp *spinner.Spinner
			var onDone func(done, total int)
			if !quiet {
				sp = spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
				sp.Suffix = fmt.Sprintf(" Rendering charts (0/%d)...", store.Len())
				sp.Start()
				onDone = func(done, total int) {
					sp.Lock()
					sp.Suffix = fmt.Sprintf(" Rendering charts (%d/%d)...", done, total)
					sp.Unlock()
				}
			}

			n, err := exportCharts(cmd.Context(), store, s, dir, workers, onDone)

			if sp != nil {
				sp.Stop()
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Exported %d of %d charts to %s\n", n, store.Len(), dir)
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "Path to the buildings GeoJSON file (default from config)")
	cmd.Flags().StringVar(&statistic, "statistic", "temp", "Statistic (temp, in-out, in-out-nature)")
	cmd.Flags().StringVar(&mode, "mode", "mean", "Display mode (mean, time)")
	cmd.Flags().StringVar(&at, "time", "", "Acquisition time or day")
	cmd.Flags().StringVar(&dir, "dir", "", "Output directory")
	cmd.Flags().IntVarP(&workers, "workers", "w", runtime.NumCPU(), "Number of parallel renders")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Disable progress spinner")
	return cmd
}
