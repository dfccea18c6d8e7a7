package server

import (
	"encoding/json"
	"net/http"
)

// Envelope wraps every view response.
type Envelope struct {
	View      string `json:"view"`
	Available bool   `json:"available"`
	Notice    string `json:"notice,omitempty"`
	Limit     int    `json:"limit,omitempty"`
	Data      any    `json:"data,omitempty"`
}

// ErrorResponse is the body of every non-2xx JSON answer.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      int    `json:"code"`
	RequestID string `json:"requestId,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, status, ErrorResponse{
		Error:     msg,
		Code:      status,
		RequestID: RequestID(r.Context()),
	})
}
