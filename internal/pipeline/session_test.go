package pipeline

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"saludcl/internal/logger"
	"saludcl/internal/models"
)

type stubSource struct {
	calls   atomic.Int32
	err     error
	release chan struct{}
}

func (s *stubSource) Fetch(ctx context.Context, limit int) (*models.Table, error) {
	s.calls.Add(1)

	if s.release != nil {
		select {
		case <-s.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if s.err != nil {
		return nil, s.err
	}

	rows := []models.Row{
		{models.ColSystemType: models.Some("Publico"), models.ColRegion: models.Some("  biobío ")},
		{models.ColSystemType: models.Some("Privado"), models.ColRegion: models.Some("Ñuble")},
		{models.ColSystemType: models.Some("Otro"), models.ColRegion: models.Some("Ñuble")},
	}

	if limit < len(rows) {
		rows = rows[:limit]
	}

	return &models.Table{Columns: models.ExpectedColumns, Rows: rows}, nil
}

func TestSession_AnalysisIsMemoized(t *testing.T) {
	src := &stubSource{}
	s := NewSession(src, logger.Discard())

	first, err := s.Analysis(context.Background(), 10)
	if err != nil {
		t.Fatalf("Analysis() error = %v", err)
	}

	if first.Len() != 2 {
		t.Errorf("Len() = %d, want 2", first.Len())
	}

	second, err := s.Analysis(context.Background(), 10)
	if err != nil {
		t.Fatalf("Analysis() error = %v", err)
	}

	if first != second {
		t.Error("second call built a new table")
	}

	if got := src.calls.Load(); got != 1 {
		t.Errorf("source called %d times, want 1", got)
	}

	if _, err := s.Analysis(context.Background(), 1); err != nil {
		t.Fatalf("Analysis() error = %v", err)
	}

	if s.Cached() != 2 {
		t.Errorf("Cached() = %d, want 2", s.Cached())
	}
}

func TestSession_ClearRefetches(t *testing.T) {
	src := &stubSource{}
	s := NewSession(src, logger.Discard())

	for i := 0; i < 2; i++ {
		if _, err := s.Analysis(context.Background(), 10); err != nil {
			t.Fatalf("Analysis() error = %v", err)
		}

		s.Clear()
	}

	if got := src.calls.Load(); got != 2 {
		t.Errorf("source called %d times, want 2", got)
	}

	if s.Cached() != 0 {
		t.Errorf("Cached() = %d after Clear, want 0", s.Cached())
	}
}

func TestSession_Errors(t *testing.T) {
	errDown := errors.New("upstream down")
	s := NewSession(&stubSource{err: errDown}, logger.Discard())

	if _, err := s.Analysis(context.Background(), 10); !errors.Is(err, errDown) {
		t.Errorf("Analysis() error = %v, want %v", err, errDown)
	}

	if s.Cached() != 0 {
		t.Error("failed load was cached")
	}

	if _, err := s.Analysis(context.Background(), 0); !errors.Is(err, ErrInvalidLimit) {
		t.Errorf("Analysis(0) error = %v, want ErrInvalidLimit", err)
	}
}

func TestSession_ConcurrentFirstLoadFetchesOnce(t *testing.T) {
	src := &stubSource{release: make(chan struct{})}
	s := NewSession(src, logger.Discard())

	var wg sync.WaitGroup

	tables := make([]*models.AnalysisTable, 8)

	for i := range tables {
		i := i
		wg.Add(1)

		go func() {
			defer wg.Done()

			table, err := s.Analysis(context.Background(), 10)
			if err != nil {
				t.Errorf("Analysis() error = %v", err)
			}

			tables[i] = table
		}()
	}

	// Let every caller reach the in-flight load before the fetch completes.
	time.Sleep(100 * time.Millisecond)
	close(src.release)
	wg.Wait()

	if got := src.calls.Load(); got != 1 {
		t.Errorf("source called %d times, want 1", got)
	}

	for _, table := range tables[1:] {
		if table != tables[0] {
			t.Error("callers received different tables")
		}
	}
}

func TestSession_CancelledCallerDoesNotFailOthers(t *testing.T) {
	src := &stubSource{release: make(chan struct{})}
	s := NewSession(src, logger.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)

	go func() {
		_, err := s.Analysis(ctx, 10)
		firstErr <- err
	}()

	for src.calls.Load() == 0 {
		time.Sleep(time.Millisecond)
	}

	type result struct {
		table *models.AnalysisTable
		err   error
	}

	second := make(chan result, 1)

	go func() {
		table, err := s.Analysis(context.Background(), 10)
		second <- result{table, err}
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	if err := <-firstErr; !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled caller error = %v, want context.Canceled", err)
	}

	close(src.release)

	got := <-second
	if got.err != nil {
		t.Fatalf("second caller error = %v", got.err)
	}

	if got.table.Len() != 2 {
		t.Errorf("Len() = %d, want 2", got.table.Len())
	}

	if n := src.calls.Load(); n != 1 {
		t.Errorf("source called %d times, want 1", n)
	}

	if s.Cached() != 1 {
		t.Errorf("Cached() = %d, want 1", s.Cached())
	}
}
