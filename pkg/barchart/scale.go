package barchart

import (
	"math"
	"strconv"
)

// BandScale maps an ordered set of labels onto evenly spaced bands within
// Range. Padding is the fraction of a step left empty between bands and at
// both ends.
type BandScale struct {
	Domain  []string   `json:"domain"`
	Range   [2]float64 `json:"range"`
	Padding float64    `json:"padding"`

	index map[string]int
}

// NewBandScale returns a band scale over labels.
func NewBandScale(labels []string, start, end, padding float64) BandScale {
	s := BandScale{
		Domain:  append([]string(nil), labels...),
		Range:   [2]float64{start, end},
		Padding: padding,
		index:   make(map[string]int, len(labels)),
	}
	for i, l := range labels {
		if _, ok := s.index[l]; !ok {
			s.index[l] = i
		}
	}
	return s
}

// Step is the distance between the starts of two adjacent bands.
func (s BandScale) Step() float64 {
	n := float64(len(s.Domain))
	return (s.Range[1] - s.Range[0]) / math.Max(1, n-s.Padding+2*s.Padding)
}

// Bandwidth is the width of a single band without padding.
func (s BandScale) Bandwidth() float64 {
	return s.Step() * (1 - s.Padding)
}

func (s BandScale) offset() float64 {
	n := float64(len(s.Domain))
	return s.Range[0] + (s.Range[1]-s.Range[0]-s.Step()*(n-s.Padding))*0.5
}

// Position returns the start of label's band.
func (s BandScale) Position(label string) (float64, bool) {
	i, ok := s.index[label]
	if !ok {
		return 0, false
	}
	return s.offset() + s.Step()*float64(i), true
}

// LinearScale maps Domain linearly onto Range.
type LinearScale struct {
	Domain [2]float64 `json:"domain"`
	Range  [2]float64 `json:"range"`
}

// Apply maps v into the range. A zero-width or non-finite domain maps
// everything onto the middle of the range.
func (s LinearScale) Apply(v float64) float64 {
	// Halved ends keep the span finite up to the full float64 range.
	lo, hi := s.Domain[0]/2, s.Domain[1]/2
	d := hi - lo
	if d == 0 || !isFinite(d) {
		return (s.Range[0] + s.Range[1]) / 2
	}
	t := (v/2 - lo) / d
	return s.Range[0] + t*(s.Range[1]-s.Range[0])
}

// Ticks returns roughly count evenly spaced round values (1, 2 or 5 times a
// power of ten) covering the domain.
func (s LinearScale) Ticks(count int) []float64 {
	start, stop := s.Domain[0], s.Domain[1]
	if start > stop {
		start, stop = stop, start
	}
	if math.IsNaN(start) || math.IsNaN(stop) || math.IsInf(start, 0) || math.IsInf(stop, 0) {
		return nil
	}
	if start == stop {
		return []float64{start}
	}
	if count <= 0 {
		return nil
	}

	step := (stop - start) / float64(count)
	if math.IsInf(step, 0) {
		step = stop/float64(count) - start/float64(count)
	}
	if step <= 0 || !isFinite(step) {
		return []float64{start, stop}
	}
	power := math.Floor(math.Log10(step))
	e := step / math.Pow(10, power)
	factor := 1.0
	switch {
	case e >= math.Sqrt(50):
		factor = 10
	case e >= math.Sqrt(10):
		factor = 5
	case e >= math.Sqrt2:
		factor = 2
	}

	var ticks []float64
	if power < 0 {
		// Divide by an integer increment to keep decimal ticks exact.
		inc := math.Pow(10, -power) / factor
		for i := math.Ceil(start * inc); i <= math.Floor(stop*inc); i++ {
			ticks = append(ticks, i/inc)
		}
		return ticks
	}
	inc := math.Pow(10, power) * factor
	for i := math.Ceil(start / inc); i <= math.Floor(stop/inc); i++ {
		ticks = append(ticks, i*inc)
	}
	return ticks
}

// YDomain returns the value axis domain for data. It always includes 0 and
// is padded by 10% of the span on both ends, except that a minimum of
// exactly 0 is not padded. Non-finite values are ignored.
func YDomain(data []Datum) [2]float64 {
	minVal, maxVal := math.Inf(1), math.Inf(-1)
	for _, d := range data {
		if !isFinite(d.Value) {
			continue
		}
		minVal = math.Min(minVal, d.Value)
		maxVal = math.Max(maxVal, d.Value)
	}
	minVal = math.Min(minVal, 0)
	maxVal = math.Max(maxVal, 0)

	padding := 0.1 * (maxVal - minVal)
	if math.IsInf(padding, 0) {
		padding = 0.1*maxVal - 0.1*minVal
	}
	start := minVal
	if minVal != 0 {
		start = math.Max(minVal-padding, -math.MaxFloat64)
	}
	return [2]float64{start, math.Min(maxVal+padding, math.MaxFloat64)}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// formatValue renders a number the shortest way that round-trips.
func formatValue(v float64) string {
	if v == 0 {
		// Avoid "-0".
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
