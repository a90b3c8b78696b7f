package dashboard

import (
	"fmt"
	"io"
	"net/url"

	"github.com/google/safehtml"
	"github.com/google/safehtml/template"

	"github.com/egandro/thermomap/pkg/buildings"
	"github.com/egandro/thermomap/pkg/colorscale"
)

const pageTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Building temperatures</title>
</head>
<body>
<div id="app">
<nav class="selectors">
  <div class="modeSelector">
    {{range .Modes}}<a class="{{if .Active}}active{{else}}inactive{{end}}" href="{{.Href}}">{{.Text}}</a>
    {{end}}
  </div>
  <div class="timeControl">
    {{if .Back.Active}}<a class="active" href="{{.Back.Href}}">&lt;</a>{{else}}<span class="inactive">&lt;</span>{{end}}
    <span class="currentTime">{{.TimeLabel}}</span>
    {{if .Forward.Active}}<a class="active" href="{{.Forward.Href}}">&gt;</a>{{else}}<span class="inactive">&gt;</span>{{end}}
  </div>
  <div class="statisticSelector">
    {{range .Statistics}}<a class="{{if .Active}}active{{else}}inactive{{end}}" href="{{.Href}}">{{.Text}}</a>
    {{end}}
  </div>
</nav>
{{if .RasterURL}}<p class="raster">{{.RasterURL}}</p>{{end}}
<div class="legend">
  {{range .Legend}}<span class="swatch" style="{{.Style}}" title="{{.Color}}">{{.Text}}</span>
  {{end}}
</div>
{{with .Popup}}<div id="popup">
  <img class="chart" src="{{.ChartURL}}" alt="time series">
  {{range .Lines}}<p>{{.}}</p>
  {{end}}
  <a href="{{.CloseHref}}">close</a>
</div>{{end}}
<table class="buildings">
  <tr><th>building</th><th>value</th><th>fill</th></tr>
  {{range .Rows}}<tr class="{{if .Selected}}selected{{else}}building{{end}}">
    <td><a href="{{.Href}}">{{.ID}}</a></td><td>{{.Value}}</td><td><span class="swatch" style="{{.Style}}">{{.Color}}</span></td>
  </tr>
  {{end}}
</table>
</div>
</body>
</html>
`

var page = template.Must(template.New("page").Parse(pageTemplate))

// PageOptions configure the rendered dashboard.
type PageOptions struct {
	RasterURLPattern string
	// ChartURL returns the chart image location of a building.
	ChartURL func(id string, s State) string
}

type pageLink struct {
	Text   string
	Href   string
	Active bool
}

type pageSwatch struct {
	Text  string
	Color string
	Style safehtml.Style
}

type pageRow struct {
	ID       string
	Href     string
	Value    string
	Color    string
	Style    safehtml.Style
	Selected bool
}

type pagePopup struct {
	ChartURL  string
	CloseHref string
	Lines     []string
}

type pageData struct {
	Modes      []pageLink
	Statistics []pageLink
	Back       pageLink
	Forward    pageLink
	TimeLabel  string
	RasterURL  string
	Legend     []pageSwatch
	Rows       []pageRow
	Popup      *pagePopup
}

// Query encodes s as dashboard page parameters.
func (s State) Query() url.Values {
	q := url.Values{}
	q.Set("mode", string(s.Mode))
	q.Set("statistic", s.Statistic.String())
	if s.CurrentTime != "" {
		q.Set("time", s.CurrentTime)
	}
	if s.Selected != "" {
		q.Set("selected", s.Selected)
	}
	return q
}

// StateFromQuery parses page parameters on top of NewState(times).
func StateFromQuery(q url.Values, times []string) (State, error) {
	s := NewState(times)
	mode, err := ParseMode(q.Get("mode"))
	if err != nil {
		return s, err
	}
	stat, err := buildings.ParseStatistic(q.Get("statistic"))
	if err != nil {
		return s, err
	}
	s.Mode = mode
	s.Statistic = stat
	if t := q.Get("time"); t != "" {
		s = s.At(t)
	}
	s.Selected = q.Get("selected")
	return s, nil
}

func href(s State) string {
	return "?" + s.Query().Encode()
}

func swatchStyle(c colorscale.RGB) safehtml.Style {
	return safehtml.StyleFromProperties(safehtml.StyleProperties{BackgroundColor: c.Hex()})
}

// DefaultChartURL points at the chart endpoint of the service.
func DefaultChartURL(id string, s State) string {
	q := url.Values{}
	q.Set("statistic", s.Statistic.String())
	return "/api/buildings/" + url.PathEscape(id) + "/chart.svg?" + q.Encode()
}

// WritePage renders the dashboard for s.
func WritePage(w io.Writer, store Source, s State, opts PageOptions) error {
	if opts.ChartURL == nil {
		opts.ChartURL = DefaultChartURL
	}

	data := pageData{
		Modes: []pageLink{
			{Text: "mean", Href: href(s.ActivateMean()), Active: s.Mode == ModeMean},
			{Text: "time", Href: href(s.ActivateTime()), Active: s.Mode == ModeTime},
		},
		Back:      pageLink{Href: href(s.TimeBack()), Active: s.CanGoBack()},
		Forward:   pageLink{Href: href(s.TimeForward()), Active: s.CanGoForward()},
		TimeLabel: s.TimeLabel(),
		RasterURL: RasterURL(opts.RasterURLPattern, s),
	}
	for _, stat := range buildings.Statistics {
		data.Statistics = append(data.Statistics, pageLink{
			Text:   stat.Label(),
			Href:   href(s.UseStatistic(stat)),
			Active: s.Statistic == stat,
		})
	}
	for _, e := range Legend(s.Statistic) {
		data.Legend = append(data.Legend, pageSwatch{
			Text:  fmt.Sprintf("%g", e.Value),
			Color: e.Color.String(),
			Style: swatchStyle(e.Color),
		})
	}

	for _, b := range store.All() {
		fill := FillFor(b, s)
		data.Rows = append(data.Rows, pageRow{
			ID:       b.ID,
			Href:     href(s.Select(b.ID)),
			Value:    formatValue(Value(b, s)),
			Color:    fill.String(),
			Style:    swatchStyle(fill),
			Selected: b.ID == s.Selected,
		})
	}

	if s.Selected != "" {
		b, err := store.Get(s.Selected)
		if err != nil {
			return err
		}
		p, err := Popup(b, s, DefaultPopupWidth, DefaultPopupHeight)
		if err == nil {
			data.Popup = &pagePopup{
				ChartURL:  opts.ChartURL(b.ID, s),
				CloseHref: href(s.ClearSelection()),
				Lines:     p.Lines,
			}
		}
	}

	if err := page.Execute(w, data); err != nil {
		return fmt.Errorf("failed to render dashboard page: %w", err)
	}
	return nil
}
