// Package validator checks the structure of generated markdown reports before signing.
package validator

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"saludcl/internal/report"
	"saludcl/pkg/metadata"
)

// Validation errors.
var (
	ErrMissingTitle     = errors.New("report has no title")
	ErrMissingSection   = errors.New("report section is missing")
	ErrMissingSeparator = errors.New("table has no separator row")
	ErrColumnCount      = errors.New("table row has the wrong number of cells")
	ErrEmptyCell        = errors.New("table header cell is empty")
)

// ValidationError represents a validation error with context.
type ValidationError struct {
	Err     error
	Section string
	Value   string
	Line    int
}

func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}

	return e.Err.Error()
}

func (e ValidationError) Unwrap() error {
	return e.Err
}

// ValidationResult contains validation results.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []string
	Stats    ValidationStats
	IsValid  bool
}

// ValidationStats counts what was inspected.
type ValidationStats struct {
	Sections    int
	Tables      int
	TableRows   int
	Unavailable int
}

var headingPattern = regexp.MustCompile(`^(#{1,3})\s+(.+?)\s*$`)

// ReportValidator validates report markdown.
type ReportValidator struct {
	required []string
}

// NewReportValidator creates a validator requiring every report section.
func NewReportValidator() *ReportValidator {
	return &ReportValidator{required: report.Sections}
}

// Validate inspects content, ignoring any metadata block.
func (v *ReportValidator) Validate(content string) *ValidationResult {
	_, clean := metadata.Extract(content)
	lines := strings.Split(clean, "\n")

	result := &ValidationResult{}
	seen := make(map[string]bool)
	hasTitle := false
	section := ""

	var table []int

	flush := func() {
		if len(table) > 0 {
			v.validateTable(lines, table, section, result)
			table = nil
		}
	}

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "|") && strings.HasSuffix(trimmed, "|") {
			table = append(table, i)

			continue
		}

		flush()

		if m := headingPattern.FindStringSubmatch(trimmed); m != nil {
			switch len(m[1]) {
			case 1:
				hasTitle = true
			case 2:
				section = m[2]
				seen[section] = true
				result.Stats.Sections++
			}

			continue
		}

		if strings.HasPrefix(trimmed, "> No disponible") {
			result.Stats.Unavailable++
			result.Warnings = append(result.Warnings, fmt.Sprintf("section %q is unavailable: %s", section, trimmed))
		}
	}

	flush()

	if !hasTitle {
		result.Errors = append(result.Errors, ValidationError{Err: ErrMissingTitle})
	}

	for _, name := range v.required {
		if !seen[name] {
			result.Errors = append(result.Errors, ValidationError{Err: ErrMissingSection, Section: name, Value: name})
		}
	}

	result.IsValid = len(result.Errors) == 0

	return result
}

func (v *ReportValidator) validateTable(lines []string, rows []int, section string, result *ValidationResult) {
	result.Stats.Tables++

	header := cells(lines[rows[0]])
	for _, c := range header {
		if c == "" {
			result.Errors = append(result.Errors, ValidationError{Err: ErrEmptyCell, Section: section, Line: rows[0] + 1})

			break
		}
	}

	if len(rows) < 2 || !isSeparator(cells(lines[rows[1]])) {
		result.Errors = append(result.Errors, ValidationError{Err: ErrMissingSeparator, Section: section, Line: rows[0] + 1})

		return
	}

	for _, idx := range rows[1:] {
		got := cells(lines[idx])
		if len(got) != len(header) {
			result.Errors = append(result.Errors, ValidationError{
				Err:     ErrColumnCount,
				Section: section,
				Value:   strings.TrimSpace(lines[idx]),
				Line:    idx + 1,
			})
		}
	}

	result.Stats.TableRows += len(rows) - 2
}

func cells(line string) []string {
	parts := strings.Split(strings.TrimSpace(line), "|")
	parts = parts[1 : len(parts)-1]

	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}

	return parts
}

func isSeparator(cells []string) bool {
	for _, c := range cells {
		if c == "" || strings.Trim(c, "-:") != "" {
			return false
		}
	}

	return len(cells) > 0
}

// String returns string representation of validation result.
func (r *ValidationResult) String() string {
	status := "✅ VALID"
	if !r.IsValid {
		status = "❌ INVALID"
	}

	return fmt.Sprintf(
		"%s | Sections: %d | Tables: %d | Rows: %d | Unavailable: %d | Errors: %d",
		status,
		r.Stats.Sections,
		r.Stats.Tables,
		r.Stats.TableRows,
		r.Stats.Unavailable,
		len(r.Errors),
	)
}

// PrintErrors prints validation errors in readable format.
func (r *ValidationResult) PrintErrors() {
	if len(r.Errors) == 0 {
		return
	}

	fmt.Println("❌ Validation Errors:")

	for _, err := range r.Errors {
		fmt.Printf("  %s", err.Error())

		if err.Section != "" {
			fmt.Printf(" [%s]", err.Section)
		}

		fmt.Println()

		if err.Value != "" && err.Line > 0 {
			fmt.Printf("    Found: %q\n", err.Value)
		}
	}
}

// PrintWarnings prints validation warnings.
func (r *ValidationResult) PrintWarnings() {
	if len(r.Warnings) == 0 {
		return
	}

	fmt.Println("⚠️  Validation Warnings:")

	for _, warn := range r.Warnings {
		fmt.Printf("  %s\n", warn)
	}
}
