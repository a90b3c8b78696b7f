// Package colorscale maps scalar values onto piecewise color gradients.
//
// A Table is an ordered list of stops, each pairing a key in [0,1] with a
// color. Values between two stops are interpolated in HSL space.
package colorscale

import (
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/lucasb-eyer/go-colorful"
)

// minDistance is the smallest range width Fraction divides by.
const minDistance = 1e-7

// RGB is an 8-bit per channel color.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

func (c RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
}

// Hex returns the color as #rrggbb.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func (c RGB) colorful() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255.0, G: float64(c.G) / 255.0, B: float64(c.B) / 255.0}
}

var (
	// Neutral is used for dimmed elements.
	Neutral = RGB{211, 211, 211}
	// Missing fills items that have no value to show.
	Missing = RGB{50, 50, 50}
)

// Stop is a single gradient keypoint.
type Stop struct {
	Key   float64 `json:"key"`
	Color RGB     `json:"color"`
}

// Table is a gradient. Stops are always in ascending key order.
type Table []Stop

// NewTable returns a Table holding a sorted copy of stops.
func NewTable(stops ...Stop) Table {
	t := make(Table, len(stops))
	copy(t, stops)
	sort.SliceStable(t, func(i, j int) bool {
		return t[i].Key < t[j].Key
	})
	return t
}

// BlueRed runs from blue (cold) to red (hot).
var BlueRed = NewTable(
	Stop{0.1, RGB{69, 117, 180}}, // blue
	Stop{0.3, RGB{145, 191, 219}},
	Stop{0.4, RGB{224, 243, 248}},
	Stop{0.5, RGB{254, 224, 144}},
	Stop{0.6, RGB{252, 141, 89}},
	Stop{0.9, RGB{215, 48, 39}}, // red
)

// VioletGreen runs from violet over yellow to green.
var VioletGreen = NewTable(
	Stop{0.2, RGB{184, 53, 131}},
	Stop{0.35, RGB{213, 62, 79}},
	Stop{0.5, RGB{252, 141, 89}},
	Stop{0.7, RGB{254, 224, 139}},
	Stop{0.8, RGB{230, 245, 152}},
	Stop{0.9, RGB{153, 213, 148}},
)

// Fraction returns the relative position of value within [start, end].
// A range narrower than 1e-7 yields 0.
func Fraction(value, start, end float64) float64 {
	if math.Abs(end-start) < minDistance {
		slog.Warn("Fraction range start and end are too close", "start", start, "end", end, "distance", end-start)
		return 0.0
	}
	return (value - start) / (end - start)
}

// At returns the color at fraction. Fractions below the first key return
// the first color, fractions at or past the last key (and NaN) return the
// last one. With smooth unset the color of the enclosing stop is returned
// unchanged.
func (t Table) At(fraction float64, smooth bool) RGB {
	if len(t) == 0 {
		return Missing
	}
	if fraction < t[0].Key {
		return t[0].Color
	}
	for i := 0; i < len(t)-1; i++ {
		start, end := t[i], t[i+1]
		if start.Key <= fraction && fraction < end.Key {
			if !smooth {
				return start.Color
			}
			return interpolateHSL(start.Color, end.Color, Fraction(fraction, start.Key, end.Key))
		}
	}
	return t[len(t)-1].Color
}

func interpolateHSL(from, to RGB, degree float64) RGB {
	h1, s1, l1 := from.colorful().Hsl()
	h2, s2, l2 := to.colorful().Hsl()
	c := colorful.Hsl(
		lerp(h1, h2, degree),
		lerp(s1, s2, degree),
		lerp(l1, l2, degree),
	).Clamped()
	r, g, b := c.RGB255()
	return RGB{r, g, b}
}

// lerp interpolates linearly with degree clamped to [0,1].
func lerp(start, end, degree float64) float64 {
	degree = math.Max(math.Min(degree, 1), 0)
	return degree*(end-start) + start
}

// ColorOf maps value in [min, max] onto the BlueRed gradient.
func ColorOf(value, min, max float64) RGB {
	return ColorOfSmooth(value, min, max, true)
}

// ColorOfSmooth is ColorOf with interpolation switchable.
func ColorOfSmooth(value, min, max float64, smooth bool) RGB {
	return BlueRed.At(Fraction(value, min, max), smooth)
}

// VioletGreenOf maps value in [min, max] onto the reversed VioletGreen
// gradient, so that min is green and max is violet.
func VioletGreenOf(value, min, max float64) RGB {
	return VioletGreenOfSmooth(value, min, max, true)
}

// VioletGreenOfSmooth is VioletGreenOf with interpolation switchable.
func VioletGreenOfSmooth(value, min, max float64, smooth bool) RGB {
	return VioletGreen.At(1.0-Fraction(value, min, max), smooth)
}
