// Package report renders every dashboard view as a signed markdown document.
package report

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"saludcl/internal/aggregate"
	"saludcl/internal/formatter"
	"saludcl/internal/models"
	"saludcl/internal/views"
	"saludcl/pkg/metadata"
)

// DefaultTitle heads the report.
const DefaultTitle = "Establecimientos de salud en Chile: público vs. privado"

// Section headings, in report order.
const (
	SectionSummary    = "Resumen"
	SectionRegional   = "Distribución regional"
	SectionHistorical = "Evolución histórica"
	SectionCareLevel  = "Nivel de atención"
	SectionEmergency  = "Servicio de urgencia"
	SectionTypes      = "Tipos de establecimiento"
)

// Sections lists every heading a complete report carries.
var Sections = []string{
	SectionSummary,
	SectionRegional,
	SectionHistorical,
	SectionCareLevel,
	SectionEmergency,
	SectionTypes,
}

// Options control the report layout.
type Options struct {
	Title string
	// Charts maps a chart name to an image path linked under its section.
	Charts map[string]string
}

// Builder renders reports. It is not safe for concurrent use.
type Builder struct {
	opts    Options
	printer *message.Printer
	sb      strings.Builder
}

// NewBuilder creates a builder with Spanish number formatting.
func NewBuilder(opts Options) *Builder {
	if opts.Title == "" {
		opts.Title = DefaultTitle
	}

	return &Builder{opts: opts, printer: message.NewPrinter(language.Spanish)}
}

// Build renders the unsigned report body.
func (b *Builder) Build(table *models.AnalysisTable) string {
	b.sb.Reset()

	fmt.Fprintf(&b.sb, "# %s\n", b.opts.Title)

	b.summary(views.Summarize(table))

	b.section(SectionRegional, "regional", func() error {
		v, err := views.Regional(table)
		if err != nil {
			return err
		}

		b.table([]string{"Región", models.SystemPublic, models.SystemPrivate, "Total"}, totalRows(v.Top, b.count))

		return nil
	})

	b.section(SectionHistorical, "decades", func() error {
		v, err := views.Historical(table)
		if err != nil {
			return err
		}

		b.table(pivotHeader("Década", v.ByDecade.Columns), pivotRows(v.ByDecade, b.count))

		if v.Undated > 0 {
			fmt.Fprintf(&b.sb, "\n%s establecimientos sin fecha válida no se incluyen.\n", b.count(v.Undated))
		}

		if n := v.Growth.Len(); n > 0 {
			last := v.Growth.Rows[n-1]
			fmt.Fprintf(&b.sb, "\nAcumulado a %d: %s públicos y %s privados.\n",
				last.Key, b.count(last.Counts[0]), b.count(last.Counts[1]))
		}

		b.chart("growth")

		return nil
	})

	b.section(SectionCareLevel, "care-level", func() error {
		v, err := views.CareLevel(table)
		if err != nil {
			return err
		}

		b.shares("Nivel", v)

		return nil
	})

	b.section(SectionEmergency, "emergency", func() error {
		v, err := views.Emergency(table)
		if err != nil {
			return err
		}

		b.shares("Urgencia", v)

		return nil
	})

	b.section(SectionTypes, "", func() error {
		v, err := views.EstablishmentTypes(table)
		if err != nil {
			return err
		}

		fmt.Fprintf(&b.sb, "\n### %s\n", models.SystemPublic)
		b.table([]string{"Tipo", "Cantidad"}, countRows(v.Public, b.count))
		b.chart("types-public")

		fmt.Fprintf(&b.sb, "\n### %s\n", models.SystemPrivate)
		b.table([]string{"Tipo", "Cantidad"}, countRows(v.Private, b.count))
		b.chart("types-private")

		return nil
	})

	return b.sb.String()
}

// Sign builds the report and appends a verifiable metadata block.
// FetchedAt defaults to when the analysis table was built.
func (b *Builder) Sign(table *models.AnalysisTable, meta metadata.Metadata) string {
	meta.Records = table.Len()
	if meta.FetchedAt.IsZero() {
		meta.FetchedAt = table.BuiltAt()
	}

	return metadata.Sign(b.Build(table), meta)
}

func (b *Builder) summary(s views.Summary) {
	fmt.Fprintf(&b.sb, "\n## %s\n\n", SectionSummary)
	fmt.Fprintf(&b.sb, "Total de establecimientos analizados: **%s**.\n\n", b.count(s.Total))

	b.table([]string{"Sistema", "Establecimientos", "Porcentaje"}, [][]string{
		{models.SystemPublic, b.count(s.Public), percent(s.PublicPercent)},
		{models.SystemPrivate, b.count(s.Private), percent(s.PrivatePercent)},
	})
}

// section writes a heading and the body, or a notice when the view is unavailable.
func (b *Builder) section(title, chartName string, body func() error) {
	fmt.Fprintf(&b.sb, "\n## %s\n", title)

	if err := body(); err != nil {
		fmt.Fprintf(&b.sb, "\n> No disponible: %v\n", err)

		return
	}

	b.chart(chartName)
}

func (b *Builder) shares(label string, v *views.ShareView) {
	header := []string{label}
	for _, c := range v.Distribution.Columns {
		header = append(header, c, "% "+c)
	}

	header = append(header, "Total")

	rows := make([][]string, len(v.Rows))
	for i, r := range v.Rows {
		row := []string{r.Key}
		for j := range r.Counts {
			row = append(row, b.count(r.Counts[j]), percent(r.Percents[j]))
		}

		rows[i] = append(row, b.count(r.Total))
	}

	b.table(header, rows)
}

func (b *Builder) table(header []string, rows [][]string) {
	b.sb.WriteString("\n")
	b.sb.WriteString(formatter.Table(header, rows))
	b.sb.WriteString("\n")
}

func (b *Builder) chart(name string) {
	if path, ok := b.opts.Charts[name]; ok {
		fmt.Fprintf(&b.sb, "\n![%s](%s)\n", name, path)
	}
}

func (b *Builder) count(n int) string {
	return b.printer.Sprintf("%d", n)
}

func percent(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}

func pivotHeader(label string, columns []string) []string {
	return append([]string{label}, columns...)
}

func pivotRows(p *aggregate.Pivot[int], count func(int) string) [][]string {
	rows := make([][]string, p.Len())
	for i, r := range p.Rows {
		row := []string{strconv.Itoa(r.Key)}
		for _, c := range r.Counts {
			row = append(row, count(c))
		}

		rows[i] = row
	}

	return rows
}

func totalRows(top []aggregate.TotalRow[string], count func(int) string) [][]string {
	rows := make([][]string, len(top))
	for i, r := range top {
		row := []string{r.Key}
		for _, c := range r.Counts {
			row = append(row, count(c))
		}

		rows[i] = append(row, count(r.Total))
	}

	return rows
}

func countRows(counts []aggregate.Count[string], count func(int) string) [][]string {
	rows := make([][]string, len(counts))
	for i, c := range counts {
		rows[i] = []string{c.Key, count(c.Count)}
	}

	return rows
}
