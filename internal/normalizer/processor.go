// Package normalizer cleans fetched records and filters them into the analysis table.
package normalizer

import (
	"fmt"

	"saludcl/internal/logger"
	"saludcl/internal/models"
)

// Processor runs validate → normalize → filter.
type Processor struct {
	validator   *Validator
	transformer *Transformer
	logger      *logger.Logger
}

// NewProcessor creates a new processor instance.
func NewProcessor(log *logger.Logger) *Processor {
	return &Processor{
		validator:   NewValidator(),
		transformer: NewTransformer(),
		logger:      log.With("component", "normalizer"),
	}
}

// Process turns a raw table into the analysis table.
func (p *Processor) Process(raw *models.Table) (*models.AnalysisTable, error) {
	missing, err := p.validator.Validate(raw)
	if err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if len(missing) > 0 {
		p.logger.Warn("source is missing expected columns", "columns", missing)
	}

	analysis := Filter(p.transformer.Transform(raw))

	p.logger.Info("analysis table built",
		"input_rows", raw.Len(),
		"kept_rows", analysis.Len(),
		"dropped_rows", raw.Len()-analysis.Len(),
	)

	return analysis, nil
}
