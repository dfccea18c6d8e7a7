// Package export writes analysis-table snapshots to Parquet files.
package export

import (
	"fmt"
	"os"

	"github.com/parquet-go/parquet-go"

	"saludcl/internal/models"
	"saludcl/internal/views"
)

// EstablishmentParquet is one exported row. Null source values stay null.
type EstablishmentParquet struct {
	SystemType        string   `parquet:"system_type"`
	Region            *string  `parquet:"region,optional"`
	Commune           *string  `parquet:"commune,optional"`
	CareLevel         *string  `parquet:"care_level,optional"`
	Emergency         *string  `parquet:"emergency,optional"`
	EstablishmentType *string  `parquet:"establishment_type,optional"`
	StartDate         *string  `parquet:"start_date,optional"`
	StartYear         *int32   `parquet:"start_year,optional"`
	Latitude          *float64 `parquet:"latitude,optional"`
	Longitude         *float64 `parquet:"longitude,optional"`
	Name              *string  `parquet:"name,optional"`
}

const flushInterval = 10_000

// ParquetWriter writes establishments to a Parquet file.
type ParquetWriter struct {
	file   *os.File
	writer *parquet.GenericWriter[EstablishmentParquet]
	count  int
}

// NewParquetWriter creates the file at path.
func NewParquetWriter(path string) (*ParquetWriter, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create parquet file: %w", err)
	}

	writer := parquet.NewGenericWriter[EstablishmentParquet](file,
		parquet.Compression(&parquet.Snappy),
	)

	return &ParquetWriter{file: file, writer: writer}, nil
}

// Write appends one establishment.
func (pw *ParquetWriter) Write(e models.Establishment) error {
	if _, err := pw.writer.Write([]EstablishmentParquet{FromEstablishment(e)}); err != nil {
		return fmt.Errorf("failed to write parquet record: %w", err)
	}

	pw.count++

	if pw.count%flushInterval == 0 {
		if err := pw.writer.Flush(); err != nil {
			return fmt.Errorf("failed to flush parquet row group: %w", err)
		}
	}

	return nil
}

// Close flushes and closes the file.
func (pw *ParquetWriter) Close() error {
	if err := pw.writer.Close(); err != nil {
		pw.file.Close()

		return fmt.Errorf("failed to close parquet writer: %w", err)
	}

	return pw.file.Close()
}

// Count returns the number of rows written.
func (pw *ParquetWriter) Count() int {
	return pw.count
}

// WriteTable exports every row of table to path.
func WriteTable(path string, table *models.AnalysisTable) (int, error) {
	pw, err := NewParquetWriter(path)
	if err != nil {
		return 0, err
	}

	for _, e := range table.Records() {
		if err := pw.Write(e); err != nil {
			pw.Close()

			return pw.Count(), err
		}
	}

	return pw.Count(), pw.Close()
}

// FromEstablishment converts a record to its Parquet row.
func FromEstablishment(e models.Establishment) EstablishmentParquet {
	row := EstablishmentParquet{
		SystemType:        e.SystemType.String,
		Region:            ptr(e.Region),
		Commune:           ptr(e.Commune),
		CareLevel:         ptr(e.CareLevel),
		Emergency:         ptr(e.Emergency),
		EstablishmentType: ptr(e.EstablishmentType),
		StartDate:         ptr(e.StartDate),
		Name:              ptr(e.Name),
	}

	if year, ok := views.ParseYear(e.StartDate.String); ok {
		y := int32(year)
		row.StartYear = &y
	}

	if lat, ok := views.ParseCoordinate(e.Latitude); ok {
		row.Latitude = &lat
	}

	if lon, ok := views.ParseCoordinate(e.Longitude); ok {
		row.Longitude = &lon
	}

	return row
}

func ptr(v models.NullString) *string {
	if !v.Valid {
		return nil
	}

	s := v.String

	return &s
}
