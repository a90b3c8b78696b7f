package barchart

import (
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/egandro/thermomap/pkg/colorscale"
)

/*
 *   -------------------------svg-----------------  Width * Height
 *   |    -----------------graph---------------  |  minus margins
 *   |    | y  |--------center---------------| | |
 *   | y  | a  |                             | | |
 *   | l  | x  |                             | | |
 *   | a  | i  |                             | | |
 *   | b  | s  |                             | | |
 *   | e  |    |-----------------------------| | |
 *   | l  |           x-axis                   | |
 *   |    -------------------------------------  |
 *   |          x-label                          |
 *   ---------------------------------------------
 */

const (
	// letterSize is the estimated width of one label character, used for
	// the tick rotation decision and reference line label placement.
	letterSize    = 10.0
	tickSize      = 6.0
	tickPadding   = 3.0
	bandPadding   = 0.2
	labelRotation = 45
	yTickCount    = 10

	// glyphWidth and lineHeight estimate the rendered size of axis text at
	// the default font size. There is no font metrics source here.
	glyphWidth = 6.0
	lineHeight = 10.0

	hlineLabelOffsetY = -4.0
)

// Bar fills are colored on this fixed value range.
const (
	fillMin = -2.0
	fillMax = 2.0
)

// Layout is the fully computed geometry of a chart. Coordinates of bars and
// reference lines are relative to Center, axes are placed by their Offset
// inside Graph, and Graph is placed inside the Width x Height canvas.
type Layout struct {
	Width  float64     `json:"width"`
	Height float64     `json:"height"`
	XLabel Text        `json:"xLabel"`
	YLabel Text        `json:"yLabel"`
	Graph  Rect        `json:"graph"`
	Center Rect        `json:"center"`
	XScale BandScale   `json:"xScale"`
	YScale LinearScale `json:"yScale"`
	XAxis  Axis        `json:"xAxis"`
	YAxis  Axis        `json:"yAxis"`
	Bars   []Bar       `json:"bars"`
	HLines []RefLine   `json:"hlines"`
}

// NewLayout lays out cfg. The axes depend on each other: the x-axis height
// limits the value axis range, and the value axis width limits the band
// range. The x-axis is measured first (its height only depends on the
// labels), then the value axis is built and measured, then both are
// anchored and the band scale is fitted to the remaining width.
func NewLayout(cfg Config) *Layout {
	m := cfg.Margin
	graphW := math.Max(0, cfg.Width-m.Left-m.Right)
	graphH := math.Max(0, cfg.Height-m.Top-m.Bottom)

	l := &Layout{
		Width:  cfg.Width,
		Height: cfg.Height,
		XLabel: Text{Text: cfg.XLabel, X: 3 * letterSize, Y: cfg.Height - m.Bottom*0.3},
		YLabel: Text{Text: cfg.YLabel, X: m.Left * 0.75, Y: 1.5 * letterSize},
		Graph:  Rect{X: m.Left, Y: m.Top, Width: graphW, Height: graphH},
	}

	labels := make([]string, len(cfg.Data))
	for i, d := range cfg.Data {
		labels[i] = d.Label
	}

	// Phase 1: measure the x-axis.
	xHeight, rotated := measureXAxis(labels)
	plotH := math.Max(0, graphH-xHeight)

	// Phase 2: build and measure the value axis.
	l.YScale = LinearScale{Domain: YDomain(cfg.Data), Range: [2]float64{plotH, 0}}
	l.YAxis = buildYAxis(l.YScale)

	// Phase 3: anchor.
	centerW := math.Max(0, graphW-l.YAxis.Width)
	l.Center = Rect{X: l.YAxis.Width, Y: 0, Width: centerW, Height: plotH}
	l.XScale = NewBandScale(labels, 0, centerW, bandPadding)
	l.XAxis = buildXAxis(l.XScale, xHeight, rotated)
	l.XAxis.Offset = Point{X: l.YAxis.Width, Y: plotH}
	l.YAxis.Offset = Point{X: l.YAxis.Width, Y: 0}

	l.Bars = buildBars(cfg.Data, l.XScale, l.YScale)
	l.HLines = buildRefLines(cfg.HLines, l.YScale, centerW)
	return l
}

func textLength(s string) int {
	return utf8.RuneCountInString(s)
}

func textWidth(s string) float64 {
	return float64(textLength(s)) * glyphWidth
}

// rotatedTickTransform moves rotated labels off the axis line.
func rotatedTickTransform() string {
	return fmt.Sprintf("translate(%s, %s) rotate(%d)", formatCoord(letterSize/2), formatCoord(letterSize/2), labelRotation)
}

// measureXAxis decides whether tick labels are rotated and returns the
// resulting axis height. Labels are rotated as soon as the longest one
// (estimated at letterSize per character) is wider than the tick size.
func measureXAxis(labels []string) (float64, bool) {
	maxLen := 0
	maxWidth := 0.0
	for _, l := range labels {
		if n := textLength(l); n > maxLen {
			maxLen = n
		}
		maxWidth = math.Max(maxWidth, textWidth(l))
	}
	rotated := float64(maxLen)*letterSize > tickSize
	if !rotated {
		return tickSize + tickPadding + lineHeight, false
	}
	sin := math.Sin(labelRotation * math.Pi / 180)
	return tickSize + tickPadding + letterSize/2 + (maxWidth+lineHeight)*sin, true
}

func buildXAxis(scale BandScale, height float64, rotated bool) Axis {
	axis := Axis{
		Height:  height,
		Width:   scale.Range[1] - scale.Range[0],
		Length:  scale.Range[1] - scale.Range[0],
		Rotated: rotated,
	}
	transform := ""
	anchor := "middle"
	if rotated {
		transform = rotatedTickTransform()
		anchor = "start"
	}
	for _, label := range scale.Domain {
		pos, _ := scale.Position(label)
		axis.Ticks = append(axis.Ticks, Tick{
			Label:     label,
			Position:  pos + scale.Bandwidth()/2,
			Transform: transform,
			Anchor:    anchor,
		})
	}
	return axis
}

func buildYAxis(scale LinearScale) Axis {
	axis := Axis{
		Height: scale.Range[0] - scale.Range[1],
		Length: scale.Range[0] - scale.Range[1],
	}
	maxWidth := 0.0
	for _, v := range scale.Ticks(yTickCount) {
		label := formatValue(v)
		maxWidth = math.Max(maxWidth, textWidth(label))
		axis.Ticks = append(axis.Ticks, Tick{
			Label:    label,
			Position: scale.Apply(v),
			Anchor:   "end",
		})
	}
	axis.Width = tickSize + tickPadding + maxWidth
	return axis
}

// FillFor returns the bar color for value.
func FillFor(value float64) string {
	if !isFinite(value) {
		return colorscale.Missing.String()
	}
	return colorscale.ColorOf(value, fillMin, fillMax).String()
}

func buildBars(data []Datum, x BandScale, y LinearScale) []Bar {
	bars := make([]Bar, 0, len(data))
	zero := y.Apply(0)
	for _, d := range data {
		pos, _ := x.Position(d.Label)
		bar := Bar{
			Label: d.Label,
			Value: d.Value,
			X:     pos,
			Y:     zero,
			Width: x.Step(),
			Fill:  FillFor(d.Value),
		}
		if isFinite(d.Value) {
			v := y.Apply(d.Value)
			if d.Value > 0 {
				bar.Y = v
				bar.Height = zero - v
			} else {
				bar.Height = v - zero
			}
		}
		bars = append(bars, bar)
	}
	return bars
}

func buildRefLines(hlines []Datum, y LinearScale, width float64) []RefLine {
	lines := make([]RefLine, 0, len(hlines))
	for _, h := range hlines {
		if !isFinite(h.Value) {
			continue
		}
		lines = append(lines, RefLine{
			Label:  h.Label,
			Value:  h.Value,
			Y:      y.Apply(h.Value),
			X1:     0,
			X2:     width,
			LabelX: width - letterSize*float64(textLength(h.Label)+1),
			LabelY: hlineLabelOffsetY,
		})
	}
	return lines
}
