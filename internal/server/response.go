package server

import (
	"bytes"
	"encoding/json"
	"net/http"
)

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// writeJSON encodes v before touching the response, so an encoding failure
// leaves the status unsent and is returned to the caller.
func writeJSON(w http.ResponseWriter, status int, v any) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err := w.Write(buf.Bytes())
	return err
}

// writeError writes the standard JSON error body.
func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	_ = writeJSON(w, status, errorResponse{
		Error:     msg,
		RequestID: RequestIDFromContext(r.Context()),
	})
}
