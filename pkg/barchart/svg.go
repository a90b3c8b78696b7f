package barchart

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"math"
	"strconv"
	"text/template"
)

//go:embed templates/barchart.svg.tmpl
var svgTemplateStr string

type svgTick struct {
	Tick
	Color string
}

type svgBar struct {
	Bar
	Fill string
}

type svgData struct {
	L        *Layout
	XTicks   []svgTick
	YTicks   []svgTick
	Bars     []svgBar
	Tooltip  Tooltip
	TipWidth float64

	TickSize    float64
	TickOffset  float64
	LabelOffset float64
}

var svgFuncs = template.FuncMap{
	"num": formatCoord,
}

// formatCoord renders a coordinate rounded to two decimals.
func formatCoord(v float64) string {
	v = math.Round(v*100) / 100
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Render lays out cfg and writes it as an idle SVG chart.
func Render(w io.Writer, cfg Config) error {
	return NewLayout(cfg).WriteSVG(w, Idle())
}

// WriteSVG writes the layout as SVG with the colors and tooltip of s
// applied. The output only depends on the layout and s.
func (l *Layout) WriteSVG(w io.Writer, s HoverState) error {
	h := l.Apply(s)

	data := svgData{
		L:           l,
		Tooltip:     h.Tooltip,
		TipWidth:    h.Tooltip.Width(),
		TickSize:    tickSize,
		TickOffset:  tickSize + tickPadding,
		LabelOffset: -(tickSize + tickPadding),
	}
	for i, t := range l.XAxis.Ticks {
		data.XTicks = append(data.XTicks, svgTick{Tick: t, Color: h.TickColors[i]})
	}
	for _, t := range l.YAxis.Ticks {
		data.YTicks = append(data.YTicks, svgTick{Tick: t, Color: tickColorDefault})
	}
	for i, b := range l.Bars {
		data.Bars = append(data.Bars, svgBar{Bar: b, Fill: h.Fills[i]})
	}

	tmpl, err := template.New("svg").Funcs(svgFuncs).Parse(svgTemplateStr)
	if err != nil {
		return fmt.Errorf("failed to parse SVG template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to execute SVG template: %w", err)
	}
	if _, err := buf.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write SVG: %w", err)
	}
	return nil
}
