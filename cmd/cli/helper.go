package main

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/egandro/thermomap/pkg/barchart"
	"github.com/egandro/thermomap/pkg/buildings"
	"github.com/egandro/thermomap/pkg/colorscale"
	"github.com/egandro/thermomap/pkg/config"
	"github.com/egandro/thermomap/pkg/dashboard"
)

// resolveBuildingsFile falls back to the configured file if path is empty.
func resolveBuildingsFile(path string) string {
	if path != "" {
		return path
	}
	cfg := config.Load(config.ConstantConfigFilename)
	return cfg.BuildingsFile
}

func loadStore(path string) (*buildings.Store, error) {
	store, err := buildings.LoadFile(resolveBuildingsFile(path))
	if err != nil {
		return nil, err
	}
	return store, nil
}

// colorFor evaluates value on the named scale.
func colorFor(scale string, value, min, max float64, smooth bool) (colorscale.RGB, error) {
	switch strings.ToLower(scale) {
	case "", "bluered":
		return colorscale.ColorOfSmooth(value, min, max, smooth), nil
	case "violetgreen":
		return colorscale.VioletGreenOfSmooth(value, min, max, smooth), nil
	}
	return colorscale.RGB{}, fmt.Errorf("unknown scale %q (bluered, violetgreen)", scale)
}

// swatch paints a few blanks in c. fatih/color drops the escape codes when
// stdout is not a terminal.
func swatch(c colorscale.RGB) string {
	return color.BgRGB(int(c.R), int(c.G), int(c.B)).Sprint("      ")
}

// parseHover accepts "LABEL" or "LABEL@X,Y".
func parseHover(s string) (barchart.HoverState, error) {
	if s == "" {
		return barchart.Idle(), nil
	}
	label, pos, found := strings.Cut(s, "@")
	if label == "" {
		return barchart.Idle(), fmt.Errorf("invalid hover %q: empty label", s)
	}
	if !found {
		return barchart.Hovering(label, 0, 0), nil
	}
	xs, ys, ok := strings.Cut(pos, ",")
	if !ok {
		return barchart.Idle(), fmt.Errorf("invalid hover position %q: want X,Y", pos)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return barchart.Idle(), fmt.Errorf("invalid hover position %q: %w", pos, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return barchart.Idle(), fmt.Errorf("invalid hover position %q: %w", pos, err)
	}
	return barchart.Hovering(label, x, y), nil
}

// renderChart writes the popup chart of b as SVG.
func renderChart(b *buildings.Building, s dashboard.State, hover barchart.HoverState) ([]byte, error) {
	p, err := dashboard.Popup(b, s, dashboard.DefaultPopupWidth, dashboard.DefaultPopupHeight)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := barchart.NewLayout(p.Chart).WriteSVG(&buf, hover); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func sanitizeID(id string) string {
	safe := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', 0:
			return '_'
		}
		return r
	}, id)
	if safe == "." || safe == ".." {
		safe = strings.Repeat("_", len(safe))
	}
	return safe
}

// chartFilename maps a building id to a file name inside dir.
func chartFilename(dir, id string, stat buildings.Statistic) string {
	return filepath.Join(dir, fmt.Sprintf("%s_%s.svg", sanitizeID(id), stat))
}

// chartFilenames assigns every id its own file inside dir. Ids whose
// sanitized names clash get a numeric suffix, in the order given.
func chartFilenames(dir string, ids []string, stat buildings.Statistic) map[string]string {
	used := make(map[string]bool, len(ids))
	out := make(map[string]string, len(ids))
	for _, id := range ids {
		base := sanitizeID(id)
		name := base
		for n := 2; used[name]; n++ {
			name = fmt.Sprintf("%s-%d", base, n)
		}
		used[name] = true
		out[id] = filepath.Join(dir, fmt.Sprintf("%s_%s.svg", name, stat))
	}
	return out
}

// stateFor builds the dashboard state for the given flags.
func stateFor(store *buildings.Store, statistic, mode, at string) (dashboard.State, error) {
	stat, err := buildings.ParseStatistic(statistic)
	if err != nil {
		return dashboard.State{}, err
	}
	m, err := dashboard.ParseMode(mode)
	if err != nil {
		return dashboard.State{}, err
	}
	s := dashboard.NewState(store.Times()).UseStatistic(stat)
	if m == dashboard.ModeTime {
		s = s.ActivateTime()
	}
	if at != "" {
		if !hasTime(s.AvailableTimes, at) {
			return dashboard.State{}, fmt.Errorf("time %q is not available", at)
		}
		s = s.At(at)
	}
	return s, nil
}

func hasTime(times []string, t string) bool {
	for _, a := range times {
		if a == t || buildings.DayLabel(a) == t {
			return true
		}
	}
	return false
}
