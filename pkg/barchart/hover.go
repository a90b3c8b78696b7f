package barchart

import (
	"fmt"
	"math"

	"github.com/egandro/thermomap/pkg/colorscale"
)

const (
	tooltipMaxWidth = 200.0
	// tooltipGap keeps the tooltip off the pointer. A tooltip under the
	// pointer would immediately produce a leave event and flicker.
	tooltipGap = 20.0

	tickColorDefault   = "currentColor"
	tickColorDimmed    = "lightgray"
	tickColorHighlight = "black"
)

// HoverState is either idle or hovering over the bar with Label.
type HoverState struct {
	Active   bool    `json:"active"`
	Label    string  `json:"label,omitempty"`
	PointerX float64 `json:"pointerX,omitempty"`
	PointerY float64 `json:"pointerY,omitempty"`
}

// Idle is the state without a hovered bar.
func Idle() HoverState {
	return HoverState{}
}

// Hovering is the state with the pointer at (x, y) over the bar for label.
func Hovering(label string, x, y float64) HoverState {
	return HoverState{Active: true, Label: label, PointerX: x, PointerY: y}
}

// Hover tracks pointer enter and leave events of one chart. Entering a bar
// while another one is hovered replaces the hovered bar; no leave is needed
// in between.
type Hover struct {
	state HoverState
}

func (h *Hover) Enter(label string, x, y float64) HoverState {
	h.state = Hovering(label, x, y)
	return h.state
}

func (h *Hover) Leave() HoverState {
	h.state = Idle()
	return h.state
}

func (h *Hover) State() HoverState {
	return h.state
}

// Tooltip is the hover info box, positioned in canvas coordinates.
type Tooltip struct {
	Visible  bool    `json:"visible"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	MaxWidth float64 `json:"maxWidth"`
	Text     string  `json:"text"`
}

// Width is the estimated rendered width of the tooltip box.
func (t Tooltip) Width() float64 {
	return math.Min(t.MaxWidth, textWidth(t.Text)+2*tickPadding)
}

// Highlight holds the colors of every bar and x tick label (in layout
// order) and the tooltip for a hover state.
type Highlight struct {
	Fills      []string `json:"fills"`
	TickColors []string `json:"tickColors"`
	Tooltip    Tooltip  `json:"tooltip"`
}

// TooltipX places the tooltip left of the pointer when the pointer is in
// the right half of the plot, and right of it otherwise.
func TooltipX(pointerX, centerWidth float64) float64 {
	if pointerX > centerWidth/2 {
		return pointerX - tooltipMaxWidth - tooltipGap
	}
	return pointerX + tooltipGap
}

// Apply computes the colors for s. A state whose label matches no bar is
// treated as idle.
func (l *Layout) Apply(s HoverState) Highlight {
	h := Highlight{
		Fills:      make([]string, len(l.Bars)),
		TickColors: make([]string, len(l.XAxis.Ticks)),
		Tooltip:    Tooltip{MaxWidth: tooltipMaxWidth},
	}

	hovered := -1
	if s.Active {
		for i, b := range l.Bars {
			if b.Label == s.Label {
				hovered = i
				break
			}
		}
	}

	if hovered < 0 {
		for i, b := range l.Bars {
			h.Fills[i] = b.Fill
		}
		for i := range h.TickColors {
			h.TickColors[i] = tickColorDefault
		}
		return h
	}

	for i := range h.Fills {
		h.Fills[i] = colorscale.Neutral.String()
	}
	h.Fills[hovered] = l.Bars[hovered].Fill

	matched := false
	for i, t := range l.XAxis.Ticks {
		h.TickColors[i] = tickColorDimmed
		if !matched && t.Label == s.Label {
			h.TickColors[i] = tickColorHighlight
			matched = true
		}
	}

	h.Tooltip.Visible = true
	h.Tooltip.X = TooltipX(s.PointerX, l.Center.Width)
	h.Tooltip.Y = s.PointerY
	h.Tooltip.Text = fmt.Sprintf("%s: %s", l.YLabel.Text, formatValue(l.Bars[hovered].Value))
	return h
}
