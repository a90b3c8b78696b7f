package buildings

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/egandro/thermomap/pkg/barchart"
)

// ErrUnknownStatistic is returned by ParseStatistic.
var ErrUnknownStatistic = errors.New("unknown statistic")

// Reading is the mean surface temperature of one acquisition. Missing
// values are NaN.
type Reading struct {
	Inside        float64 `json:"tMeanInside"`
	Outside       float64 `json:"tMeanOutside"`
	OutsideNature float64 `json:"tMeanOutsideNature"`
}

// Statistic selects the value derived from a Reading.
type Statistic int

const (
	// Temp is the temperature inside the footprint.
	Temp Statistic = iota
	// InMinusOut is inside minus the surroundings.
	InMinusOut
	// InMinusOutNature is inside minus the unbuilt surroundings.
	InMinusOutNature
)

// Statistics lists all statistics in selector order.
var Statistics = []Statistic{Temp, InMinusOut, InMinusOutNature}

func (s Statistic) String() string {
	switch s {
	case Temp:
		return "statisticTemp"
	case InMinusOut:
		return "statisticTinMinTout"
	case InMinusOutNature:
		return "statisticTinMinToutNature"
	}
	return fmt.Sprintf("Statistic(%d)", int(s))
}

func (s Statistic) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Statistic) UnmarshalText(text []byte) error {
	v, err := ParseStatistic(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Label is the axis caption for the statistic.
func (s Statistic) Label() string {
	switch s {
	case InMinusOut:
		return "T_in - T_out [°C]"
	case InMinusOutNature:
		return "T_in - T_out (no buildings) [°C]"
	}
	return "T [°C]"
}

// Range is the value range mapped onto the color scale.
func (s Statistic) Range() (min, max float64) {
	switch s {
	case InMinusOut, InMinusOutNature:
		return -2, 2
	}
	return -5, 35
}

// Of derives the statistic from r.
func (s Statistic) Of(r Reading) float64 {
	switch s {
	case InMinusOut:
		return r.Inside - r.Outside
	case InMinusOutNature:
		return r.Inside - r.OutsideNature
	}
	return r.Inside
}

// ParseStatistic accepts the selector ids (e.g. "statisticTemp") as well as
// the short names "temp", "in-out" and "in-out-nature". Empty means Temp.
func ParseStatistic(s string) (Statistic, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "temp", "statistictemp":
		return Temp, nil
	case "in-out", "statistictinmintout":
		return InMinusOut, nil
	case "in-out-nature", "statistictinmintoutnature":
		return InMinusOutNature, nil
	}
	return Temp, fmt.Errorf("%w: %q", ErrUnknownStatistic, s)
}

// DayLabel shortens a timestamp like "2020-11-17 10:04:26.7534760Z" to its
// date.
func DayLabel(timestamp string) string {
	r := []rune(timestamp)
	if len(r) > 10 {
		return string(r[:10])
	}
	return timestamp
}

// TimeSeries returns the statistic per acquisition day in ascending order.
// Non-finite values are dropped. When a day has several acquisitions the
// latest finite one wins.
func (b *Building) TimeSeries(stat Statistic) []barchart.Datum {
	times := make([]string, 0, len(b.Temperature))
	for t := range b.Temperature {
		times = append(times, t)
	}
	sort.Strings(times)

	series := make([]barchart.Datum, 0, len(times))
	for _, t := range times {
		v := stat.Of(b.Temperature[t])
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		label := DayLabel(t)
		if n := len(series); n > 0 && series[n-1].Label == label {
			series[n-1].Value = v
			continue
		}
		series = append(series, barchart.Datum{Label: label, Value: v})
	}
	return series
}

// Mean averages the finite values of ts. It reports false for a series
// without finite values.
func Mean(ts []barchart.Datum) (float64, bool) {
	sum := 0.0
	n := 0
	for _, d := range ts {
		if math.IsNaN(d.Value) || math.IsInf(d.Value, 0) {
			continue
		}
		sum += d.Value
		n++
	}
	if n == 0 {
		return math.NaN(), false
	}
	return sum / float64(n), true
}

// ValueAt returns the value labeled label.
func ValueAt(ts []barchart.Datum, label string) (float64, bool) {
	for _, d := range ts {
		if d.Label == label {
			return d.Value, true
		}
	}
	return math.NaN(), false
}
