package barchart

// Datum is a single bar, or a reference line when passed as an hline.
type Datum struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Margin reserves room for the axis labels around the graph.
type Margin struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// Config describes one chart. Treat it as a value: Builder hands out copies.
type Config struct {
	Data   []Datum `json:"data"`
	XLabel string  `json:"xLabel"`
	YLabel string  `json:"yLabel"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	HLines []Datum `json:"hlines"`
	Margin Margin  `json:"margin"`
}

const (
	DefaultWidth  = 300
	DefaultHeight = 250
)

// DefaultMargin is the margin used when none is configured.
var DefaultMargin = Margin{Top: 10, Right: 10, Bottom: 30, Left: 30}

// DefaultConfig returns an empty chart with the default size and margin.
func DefaultConfig() Config {
	return Config{
		Width:  DefaultWidth,
		Height: DefaultHeight,
		Margin: DefaultMargin,
	}
}

// Builder accumulates chart settings. Every setter returns the builder so
// calls can be chained:
//
//	cfg := NewBuilder().Width(400).Height(300).Data(ts).YLabel("T [°C]").Build()
type Builder struct {
	cfg Config
}

// NewBuilder starts from DefaultConfig.
func NewBuilder() *Builder {
	return &Builder{cfg: DefaultConfig()}
}

func (b *Builder) Data(data []Datum) *Builder {
	b.cfg.Data = cloneData(data)
	return b
}

func (b *Builder) XLabel(label string) *Builder {
	b.cfg.XLabel = label
	return b
}

func (b *Builder) YLabel(label string) *Builder {
	b.cfg.YLabel = label
	return b
}

func (b *Builder) Width(width float64) *Builder {
	b.cfg.Width = width
	return b
}

func (b *Builder) Height(height float64) *Builder {
	b.cfg.Height = height
	return b
}

func (b *Builder) HLines(hlines []Datum) *Builder {
	b.cfg.HLines = cloneData(hlines)
	return b
}

func (b *Builder) Margin(margin Margin) *Builder {
	b.cfg.Margin = margin
	return b
}

// Build returns the accumulated Config. Later setter calls do not affect
// configs returned earlier.
func (b *Builder) Build() Config {
	cfg := b.cfg
	cfg.Data = cloneData(b.cfg.Data)
	cfg.HLines = cloneData(b.cfg.HLines)
	return cfg
}

func cloneData(data []Datum) []Datum {
	if data == nil {
		return nil
	}
	out := make([]Datum, len(data))
	copy(out, data)
	return out
}

// Rect is an axis-aligned box in the coordinate space of its parent.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Point is a translation or position.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Text is a positioned caption.
type Text struct {
	Text string  `json:"text"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// Tick is one axis tick. Position runs along the axis; the label is drawn
// with Transform relative to the tick.
type Tick struct {
	Label     string  `json:"label"`
	Position  float64 `json:"position"`
	Transform string  `json:"transform,omitempty"`
	Anchor    string  `json:"anchor"`
}

// Axis is a laid out axis. Offset is its final translation inside the graph.
type Axis struct {
	Offset  Point   `json:"offset"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Length  float64 `json:"length"`
	Rotated bool    `json:"rotated"`
	Ticks   []Tick  `json:"ticks"`
}

// Bar is a bar in center coordinates.
type Bar struct {
	Label  string  `json:"label"`
	Value  float64 `json:"value"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Fill   string  `json:"fill"`
}

// RefLine is a dashed horizontal reference line in center coordinates.
type RefLine struct {
	Label  string  `json:"label"`
	Value  float64 `json:"value"`
	Y      float64 `json:"y"`
	X1     float64 `json:"x1"`
	X2     float64 `json:"x2"`
	LabelX float64 `json:"labelX"`
	LabelY float64 `json:"labelY"`
}
