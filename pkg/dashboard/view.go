package dashboard

import (
	"fmt"
	"math"
	"net/url"

	"github.com/egandro/thermomap/pkg/barchart"
	"github.com/egandro/thermomap/pkg/buildings"
	"github.com/egandro/thermomap/pkg/colorscale"
)

const (
	DefaultPopupWidth  = 250
	DefaultPopupHeight = 250

	// DefaultRasterURLPattern receives the acquisition timestamp.
	DefaultRasterURLPattern = "/public/lst_%s.tif"

	legendSteps = 9
)

// PopupMargin leaves room for the rotated date labels.
var PopupMargin = barchart.Margin{Top: 20, Right: 10, Bottom: 50, Left: 50}

// Value is the statistic shown for b: the mean over all acquisitions, or the
// value of the current acquisition day in time mode.
func Value(b *buildings.Building, s State) (float64, bool) {
	ts := b.TimeSeries(s.Statistic)
	if s.Mode == ModeTime {
		return buildings.ValueAt(ts, buildings.DayLabel(s.CurrentTime))
	}
	return buildings.Mean(ts)
}

// FillFor is the choropleth fill of b.
func FillFor(b *buildings.Building, s State) colorscale.RGB {
	v, ok := Value(b, s)
	if !ok {
		return colorscale.Missing
	}
	min, max := s.Statistic.Range()
	return colorscale.ColorOf(v, min, max)
}

// Source is the building layer the dashboard is drawn from.
type Source interface {
	All() []*buildings.Building
	Get(id string) (*buildings.Building, error)
}

// Styles maps every building id to its fill.
func Styles(store Source, s State) map[string]colorscale.RGB {
	all := store.All()
	out := make(map[string]colorscale.RGB, len(all))
	for _, b := range all {
		out[b.ID] = FillFor(b, s)
	}
	return out
}

// RasterURL names the temperature raster of the current acquisition. It is
// empty in mean mode, which hides the overlay.
func RasterURL(pattern string, s State) string {
	if s.Mode != ModeTime || s.CurrentTime == "" {
		return ""
	}
	if pattern == "" {
		pattern = DefaultRasterURLPattern
	}
	return fmt.Sprintf(pattern, url.PathEscape(s.CurrentTime))
}

// PopupView is the content of the popup of a selected building.
type PopupView struct {
	ID     string          `json:"id"`
	YLabel string          `json:"ylabel"`
	Mean   string          `json:"mean"`
	Lines  []string        `json:"lines"`
	Chart  barchart.Config `json:"chart"`
}

func formatValue(v float64, ok bool) string {
	if !ok || math.IsNaN(v) {
		return "NaN"
	}
	return fmt.Sprintf("%.2f", v)
}

// Popup builds the popup of b with a width x height chart of its time
// series. Buildings without any reading yield ErrNoTemperature.
func Popup(b *buildings.Building, s State, width, height float64) (*PopupView, error) {
	if len(b.Temperature) == 0 {
		return nil, fmt.Errorf("%w: %s", buildings.ErrNoTemperature, b.ID)
	}
	ts := b.TimeSeries(s.Statistic)
	ylabel := s.Statistic.Label()
	mean, hasMean := buildings.Mean(ts)

	p := &PopupView{
		ID:     b.ID,
		YLabel: ylabel,
		Mean:   formatValue(mean, hasMean),
	}
	p.Lines = []string{ylabel, "Mean: " + p.Mean}
	if s.Mode == ModeTime && s.CurrentTime != "" {
		day := buildings.DayLabel(s.CurrentTime)
		p.Lines = append(p.Lines, day+": "+formatValue(buildings.ValueAt(ts, day)))
	}

	chart := barchart.NewBuilder().
		Width(width).
		Height(height).
		Margin(PopupMargin).
		Data(ts).
		XLabel("time").
		YLabel(ylabel)
	if hasMean {
		chart = chart.HLines([]barchart.Datum{{Label: "mean", Value: mean}})
	}
	p.Chart = chart.Build()
	return p, nil
}

// LegendEntry is one swatch of the color legend.
type LegendEntry struct {
	Value float64
	Color colorscale.RGB
}

// Legend samples the color scale of stat from min to max.
func Legend(stat buildings.Statistic) []LegendEntry {
	min, max := stat.Range()
	out := make([]LegendEntry, legendSteps)
	for i := range out {
		v := min + (max-min)*float64(i)/float64(legendSteps-1)
		out[i] = LegendEntry{Value: v, Color: colorscale.ColorOf(v, min, max)}
	}
	return out
}
