package server

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"saludcl/internal/charts"
	"saludcl/internal/fetcher"
	"saludcl/internal/models"
	"saludcl/internal/pipeline"
	"saludcl/internal/report"
	"saludcl/internal/views"
	"saludcl/pkg/metadata"
)

var errBadLimit = errors.New("limit must be a positive integer")

// parseLimit reads ?limit=, falling back to the configured default.
func (s *Server) parseLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return s.cfg.Source.Limit, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: %q", errBadLimit, raw)
	}

	return n, nil
}

// analysis loads the table for the request's limit. It writes the error
// response itself and returns nil when loading failed.
func (s *Server) analysis(w http.ResponseWriter, r *http.Request) (*models.AnalysisTable, int) {
	limit, err := s.parseLimit(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())

		return nil, 0
	}

	table, err := s.session.Analysis(r.Context(), limit)
	if err != nil {
		status := statusFor(err)
		s.logger.Error("failed to load analysis table",
			"request_id", RequestID(r.Context()),
			"limit", limit,
			"status", status,
			"error", err,
		)
		writeError(w, r, status, err.Error())

		return nil, 0
	}

	return table, limit
}

func statusFor(err error) int {
	var te *fetcher.TransportError

	switch {
	case errors.As(err, &te) && te.Timeout():
		return http.StatusGatewayTimeout
	case fetcher.IsTransportError(err):
		return http.StatusBadGateway
	case errors.Is(err, pipeline.ErrInvalidLimit), errors.Is(err, fetcher.ErrInvalidLimit):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeView answers with the view's data, or an unavailable notice when the
// dataset lacks the columns it needs.
func writeView(w http.ResponseWriter, r *http.Request, name string, limit int, data any, err error) {
	if errors.Is(err, views.ErrMissingColumn) {
		writeJSON(w, http.StatusOK, Envelope{View: name, Available: false, Notice: err.Error(), Limit: limit})

		return
	}

	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err.Error())

		return
	}

	writeJSON(w, http.StatusOK, Envelope{View: name, Available: true, Limit: limit, Data: data})
}

func selectionFrom(r *http.Request) views.Selection {
	q := r.URL.Query()

	return views.NewSelection(q.Get("region"), q.Get("commune"), q.Get("system"))
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"cached": s.session.Cached(),
		"theme":  s.renderer.Theme().Name,
	})
}

func (s *Server) summary(w http.ResponseWriter, r *http.Request) {
	table, limit := s.analysis(w, r)
	if table == nil {
		return
	}

	writeView(w, r, "summary", limit, views.Summarize(table), nil)
}

func (s *Server) filterOptions(w http.ResponseWriter, r *http.Request) {
	table, limit := s.analysis(w, r)
	if table == nil {
		return
	}

	opts := views.FilterOptions(table, r.URL.Query().Get("region"))
	writeView(w, r, "filters", limit, opts, nil)
}

// clearFilters returns the default selection and its unscoped options.
func (s *Server) clearFilters(w http.ResponseWriter, r *http.Request) {
	table, limit := s.analysis(w, r)
	if table == nil {
		return
	}

	sel := selectionFrom(r).Clear()

	writeView(w, r, "filters", limit, map[string]any{
		"selection": sel,
		"options":   views.FilterOptions(table, sel.Region),
	}, nil)
}

func (s *Server) mapView(w http.ResponseWriter, r *http.Request) {
	table, limit := s.analysis(w, r)
	if table == nil {
		return
	}

	v, err := views.Map(table, selectionFrom(r))
	writeView(w, r, "map", limit, v, err)
}

func (s *Server) regionalView(w http.ResponseWriter, r *http.Request) {
	table, limit := s.analysis(w, r)
	if table == nil {
		return
	}

	v, err := views.Regional(table)
	writeView(w, r, "regional", limit, v, err)
}

func (s *Server) historicalView(w http.ResponseWriter, r *http.Request) {
	table, limit := s.analysis(w, r)
	if table == nil {
		return
	}

	v, err := views.Historical(table)
	writeView(w, r, "historical", limit, v, err)
}

func (s *Server) careLevelView(w http.ResponseWriter, r *http.Request) {
	table, limit := s.analysis(w, r)
	if table == nil {
		return
	}

	v, err := views.CareLevel(table)
	writeView(w, r, "care-level", limit, v, err)
}

func (s *Server) emergencyView(w http.ResponseWriter, r *http.Request) {
	table, limit := s.analysis(w, r)
	if table == nil {
		return
	}

	v, err := views.Emergency(table)
	writeView(w, r, "emergency", limit, v, err)
}

func (s *Server) typesView(w http.ResponseWriter, r *http.Request) {
	table, limit := s.analysis(w, r)
	if table == nil {
		return
	}

	v, err := views.EstablishmentTypes(table)
	writeView(w, r, "establishment-types", limit, v, err)
}

func (s *Server) chart(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	format, err := charts.ParseFormat(vars["format"])
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())

		return
	}

	table, limit := s.analysis(w, r)
	if table == nil {
		return
	}

	var buf bytes.Buffer

	err = s.renderer.Render(vars["chart"], table, format, &buf)

	switch {
	case errors.Is(err, charts.ErrUnknownChart):
		writeError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, charts.ErrNoData), errors.Is(err, views.ErrMissingColumn):
		writeJSON(w, http.StatusOK, Envelope{View: "chart:" + vars["chart"], Available: false, Notice: err.Error(), Limit: limit})
	case err != nil:
		s.logger.Error("chart render failed", "chart", vars["chart"], "error", err)
		writeError(w, r, http.StatusInternalServerError, "chart render failed")
	default:
		w.Header().Set("Content-Type", format.ContentType())
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(buf.Bytes())
	}
}

func (s *Server) report(w http.ResponseWriter, r *http.Request) {
	table, limit := s.analysis(w, r)
	if table == nil {
		return
	}

	body := report.NewBuilder(report.Options{}).Sign(table, metadata.Metadata{
		Source:   s.cfg.Source.BaseURL,
		Resource: s.cfg.Source.ResourceID,
		Limit:    limit,
	})

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}

func (s *Server) clearCache(w http.ResponseWriter, r *http.Request) {
	s.session.Clear()
	s.logger.Info("cache cleared", "request_id", RequestID(r.Context()))

	writeJSON(w, http.StatusOK, map[string]any{"cleared": true})
}
