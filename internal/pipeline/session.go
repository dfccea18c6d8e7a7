// Package pipeline wires fetch → normalize → filter and memoizes the analysis table.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"saludcl/internal/fetcher"
	"saludcl/internal/logger"
	"saludcl/internal/models"
	"saludcl/internal/normalizer"
)

// ErrInvalidLimit is returned for a non-positive record limit.
var ErrInvalidLimit = errors.New("limit must be a positive integer")

// Session owns the process-wide caches. Entries live until Clear.
// Concurrent first loads of the same limit share one fetch, which is not
// cancelled when the caller that started it goes away.
type Session struct {
	fetch     *fetcher.Cache
	processor *normalizer.Processor
	tables    *cache.Cache
	loads     singleflight.Group
	logger    *logger.Logger
}

// NewSession builds a session reading from source.
func NewSession(source fetcher.Source, log *logger.Logger) *Session {
	return &Session{
		fetch:     fetcher.NewCache(source, log),
		processor: normalizer.NewProcessor(log),
		tables:    cache.New(cache.NoExpiration, 0),
		logger:    log.With("component", "session"),
	}
}

// Analysis returns the analysis table for limit, building it on first use.
func (s *Session) Analysis(ctx context.Context, limit int) (*models.AnalysisTable, error) {
	if limit < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, limit)
	}

	key := fetcher.CacheKey("analysis", limit)
	if v, ok := s.tables.Get(key); ok {
		return v.(*models.AnalysisTable), nil
	}

	// The shared load outlives any single caller; each caller still stops
	// waiting when its own context ends.
	loadCtx := context.WithoutCancel(ctx)

	ch := s.loads.DoChan(key, func() (any, error) {
		if v, ok := s.tables.Get(key); ok {
			return v, nil
		}

		return s.build(loadCtx, key, limit)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}

		if res.Shared {
			s.logger.Debug("joined in-flight load", "limit", limit)
		}

		return res.Val.(*models.AnalysisTable), nil
	}
}

func (s *Session) build(ctx context.Context, key string, limit int) (*models.AnalysisTable, error) {
	raw, err := s.fetch.Fetch(ctx, limit)
	if err != nil {
		return nil, err
	}

	table, err := s.processor.Process(raw)
	if err != nil {
		return nil, err
	}

	s.tables.Set(key, table, cache.NoExpiration)
	s.logger.Info("analysis table cached", "limit", limit, "rows", table.Len())

	return table, nil
}

// Clear drops both the fetched records and the analysis tables.
func (s *Session) Clear() {
	s.fetch.Clear()
	s.tables.Flush()
	s.logger.Info("session cleared")
}

// Cached returns the number of analysis tables held.
func (s *Session) Cached() int {
	return s.tables.ItemCount()
}
