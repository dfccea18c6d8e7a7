// Package formatter renders and tidies markdown tables.
package formatter

import (
	"strings"

	"saludcl/pkg/metadata"

	"github.com/mattn/go-runewidth"
)

// Table renders a markdown table whose columns are padded to the widest cell.
// Widths are display widths, so accented and wide characters line up.
func Table(headers []string, rows [][]string) string {
	cells := make([][]string, 0, len(rows)+1)
	cells = append(cells, headers)
	cells = append(cells, rows...)

	return strings.Join(render(cells, len(headers)), "\n")
}

// FormatMarkdown realigns every table in content. A metadata block, if
// present, is re-signed so the hash matches the new layout.
func FormatMarkdown(content string) (string, error) {
	meta, clean := metadata.Extract(content)

	lines := strings.Split(clean, "\n")

	var (
		out    []string
		buffer []string
	)

	flush := func() {
		if len(buffer) > 0 {
			out = append(out, processTable(buffer)...)
			buffer = nil
		}
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "|") && strings.HasSuffix(trimmed, "|") {
			buffer = append(buffer, line)

			continue
		}

		flush()

		out = append(out, line)
	}

	flush()

	formatted := strings.Join(out, "\n")
	if meta == nil {
		return formatted, nil
	}

	return metadata.Sign(formatted, *meta), nil
}

func processTable(rows []string) []string {
	// Needs at least header + separator.
	if len(rows) < 2 {
		return rows
	}

	table := make([][]string, 0, len(rows))
	colCount := 0

	for _, row := range rows {
		parts := strings.Split(strings.TrimSpace(row), "|")
		parts = parts[1 : len(parts)-1]

		cells := make([]string, len(parts))
		for i, p := range parts {
			cells[i] = strings.TrimSpace(p)
		}

		colCount = max(colCount, len(cells))
		table = append(table, cells)
	}

	if isSeparator(table[1]) {
		table = append(table[:1:1], table[2:]...)
	}

	return render(table, colCount)
}

func isSeparator(cells []string) bool {
	for _, cell := range cells {
		if strings.Trim(cell, "-: ") != "" {
			return false
		}
	}

	return true
}

// render lays out cells with a dash separator after the first row.
func render(table [][]string, colCount int) []string {
	widths := make([]int, colCount)
	for i := range widths {
		widths[i] = 3
	}

	for _, row := range table {
		for i := 0; i < len(row) && i < colCount; i++ {
			widths[i] = max(widths[i], runewidth.StringWidth(row[i]))
		}
	}

	separator := make([]string, colCount)
	for i, w := range widths {
		separator[i] = strings.Repeat("-", w)
	}

	result := make([]string, 0, len(table)+1)

	for i, row := range table {
		result = append(result, line(row, widths))

		if i == 0 {
			result = append(result, line(separator, widths))
		}
	}

	return result
}

func line(row []string, widths []int) string {
	var sb strings.Builder

	sb.WriteString("|")

	for j, w := range widths {
		content := ""
		if j < len(row) {
			content = row[j]
		}

		sb.WriteString(" ")
		sb.WriteString(runewidth.FillRight(content, w))
		sb.WriteString(" |")
	}

	return sb.String()
}
