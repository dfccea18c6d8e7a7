// Package charts draws the dashboard views as SVG or PNG images.
package charts

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"saludcl/internal/aggregate"
	"saludcl/internal/config"
	"saludcl/internal/models"
	"saludcl/internal/views"
)

// Chart errors.
var (
	ErrNoData        = errors.New("nothing to draw")
	ErrUnknownChart  = errors.New("unknown chart")
	ErrUnknownFormat = errors.New("unknown image format")
	ErrInvalidColor  = errors.New("theme color must be #rrggbb")
)

// Format is an output image format.
type Format string

// Supported formats.
const (
	SVG Format = "svg"
	PNG Format = "png"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case SVG, PNG:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// ContentType is the HTTP media type of the format.
func (f Format) ContentType() string {
	if f == PNG {
		return "image/png"
	}

	return "image/svg+xml"
}

func (f Format) provider() chart.RendererProvider {
	if f == PNG {
		return chart.PNG
	}

	return chart.SVG
}

// Chart names.
const (
	Regional     = "regional"
	Decades      = "decades"
	Growth       = "growth"
	CareLevel    = "care-level"
	Emergency    = "emergency"
	TypesPublic  = "types-public"
	TypesPrivate = "types-private"
)

// Names lists every chart in display order.
var Names = []string{Regional, Decades, Growth, CareLevel, Emergency, TypesPublic, TypesPrivate}

// Renderer draws charts with one theme and size.
type Renderer struct {
	theme  Theme
	width  int
	height int
}

// NewRenderer creates a renderer.
func NewRenderer(theme Theme, size config.ChartsConfig) *Renderer {
	return &Renderer{theme: theme, width: size.Width, height: size.Height}
}

// Theme returns the renderer's palette.
func (r *Renderer) Theme() Theme {
	return r.theme
}

// Render computes the view behind name from table and draws it.
// View errors such as views.ErrMissingColumn are returned unchanged.
func (r *Renderer) Render(name string, table *models.AnalysisTable, f Format, w io.Writer) error {
	switch name {
	case Regional:
		v, err := views.Regional(table)
		if err != nil {
			return err
		}

		return r.stacked("Establecimientos por región", v.Distribution, f, w)
	case Decades:
		v, err := views.Historical(table)
		if err != nil {
			return err
		}

		return r.grouped("Inicio de funcionamiento por década", v.ByDecade, f, w)
	case Growth:
		v, err := views.Historical(table)
		if err != nil {
			return err
		}

		return r.growth(v.Growth, f, w)
	case CareLevel:
		v, err := views.CareLevel(table)
		if err != nil {
			return err
		}

		return r.stacked("Nivel de atención por sistema", v.Distribution, f, w)
	case Emergency:
		v, err := views.Emergency(table)
		if err != nil {
			return err
		}

		return r.stacked("Servicio de urgencia por sistema", v.Distribution, f, w)
	case TypesPublic, TypesPrivate:
		v, err := views.EstablishmentTypes(table)
		if err != nil {
			return err
		}

		if name == TypesPublic {
			return r.bars("Tipos de establecimiento: "+models.SystemPublic, v.Public, r.theme.Public, f, w)
		}

		return r.bars("Tipos de establecimiento: "+models.SystemPrivate, v.Private, r.theme.Private, f, w)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownChart, name)
	}
}

// stacked draws one bar per pivot row, split by system type.
func (r *Renderer) stacked(title string, p *aggregate.Pivot[string], f Format, w io.Writer) error {
	if p.Len() == 0 {
		return ErrNoData
	}

	bars := make([]chart.StackedBar, 0, p.Len())

	for _, row := range p.Rows {
		values := make([]chart.Value, len(p.Columns))
		for i, col := range p.Columns {
			values[i] = chart.Value{
				Label: col,
				Value: float64(row.Counts[i]),
				Style: chart.Style{FillColor: r.theme.Color(col), StrokeColor: r.theme.Color(col)},
			}
		}

		bars = append(bars, chart.StackedBar{Name: row.Key, Values: values})
	}

	sbc := chart.StackedBarChart{
		Title:      title,
		Width:      r.width,
		Height:     r.height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		BarSpacing: 12,
		Bars:       bars,
	}

	return sbc.Render(f.provider(), w)
}

// grouped draws one bar per system side by side for each pivot row, so
// heights are absolute counts.
func (r *Renderer) grouped(title string, p *aggregate.Pivot[int], f Format, w io.Writer) error {
	if p.Len() == 0 {
		return ErrNoData
	}

	peak := 1
	values := make([]chart.Value, 0, p.Len()*len(p.Columns))

	for _, row := range p.Rows {
		for i, col := range p.Columns {
			color := r.theme.Color(col)
			peak = max(peak, row.Counts[i])
			values = append(values, chart.Value{
				Label: strconv.Itoa(row.Key) + " " + shortLabel(col),
				Value: float64(row.Counts[i]),
				Style: chart.Style{FillColor: color, StrokeColor: color},
			})
		}
	}

	bc := chart.BarChart{
		Title:      title,
		Width:      r.width,
		Height:     r.height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		BarWidth:   max(r.width/(2*len(values)+1), 1),
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: float64(peak) * 1.1},
		},
		Bars: values,
	}

	return bc.Render(f.provider(), w)
}

// growth draws the cumulative count per system as one line each.
func (r *Renderer) growth(p *aggregate.Pivot[int], f Format, w io.Writer) error {
	if p.Len() == 0 {
		return ErrNoData
	}

	years := make([]float64, p.Len())
	for i, k := range p.Keys() {
		years[i] = float64(k)
	}

	peak := 0
	series := make([]chart.Series, 0, len(p.Columns))

	for _, col := range p.Columns {
		counts := p.Column(col)
		ys := make([]float64, len(counts))

		for i, c := range counts {
			ys[i] = float64(c)
			peak = max(peak, c)
		}

		color := r.theme.Color(col)
		series = append(series, chart.ContinuousSeries{
			Name:    col,
			XValues: years,
			YValues: ys,
			Style:   chart.Style{StrokeColor: color, StrokeWidth: 2, DotColor: color, DotWidth: 3},
		})
	}

	minX, maxX := years[0], years[len(years)-1]
	if minX == maxX {
		minX, maxX = minX-1, maxX+1
	}

	ch := chart.Chart{
		Title:      "Crecimiento acumulado de establecimientos",
		Width:      r.width,
		Height:     r.height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis: chart.XAxis{
			Name:           "Año",
			Range:          &chart.ContinuousRange{Min: minX, Max: maxX},
			ValueFormatter: yearFormatter,
		},
		YAxis: chart.YAxis{
			Name:  "Establecimientos",
			Range: &chart.ContinuousRange{Min: 0, Max: float64(peak) + 1},
		},
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	return ch.Render(f.provider(), w)
}

// bars draws a single-color ranking.
func (r *Renderer) bars(title string, counts []aggregate.Count[string], color drawing.Color, f Format, w io.Writer) error {
	if len(counts) == 0 {
		return ErrNoData
	}

	peak := 0
	values := make([]chart.Value, len(counts))

	for i, c := range counts {
		peak = max(peak, c.Count)
		values[i] = chart.Value{
			Label: c.Key,
			Value: float64(c.Count),
			Style: chart.Style{FillColor: color, StrokeColor: color},
		}
	}

	bc := chart.BarChart{
		Title:      title,
		Width:      r.width,
		Height:     r.height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		BarWidth:   r.width / (2*len(values) + 1),
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: float64(peak) * 1.1},
		},
		Bars: values,
	}

	return bc.Render(f.provider(), w)
}

func yearFormatter(v any) string {
	if f, ok := v.(float64); ok {
		return strconv.Itoa(int(f))
	}

	return ""
}

// shortLabel abbreviates a system name for crowded axis labels.
func shortLabel(system string) string {
	switch system {
	case models.SystemPublic:
		return "Púb."
	case models.SystemPrivate:
		return "Priv."
	default:
		return system
	}
}
