package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/aashikantkumar/cheifidea/internal/apperr"
	"github.com/aashikantkumar/cheifidea/internal/logger"
)

type success struct {
	StatusCode int    `json:"status_code"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

type failure struct {
	StatusCode int      `json:"status_code"`
	Data       any      `json:"data"`
	Message    string   `json:"message"`
	Success    bool     `json:"success"`
	Errors     []string `json:"errors"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func respond(w http.ResponseWriter, status int, data any, message string) {
	writeJSON(w, status, success{StatusCode: status, Data: data, Message: message, Success: true})
}

// writeError renders err in the failure envelope. Internal errors are
// redacted in production.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.StatusCode(err)
	message := apperr.Message(err)
	details := apperr.Details(err)
	if status >= http.StatusInternalServerError && h.Production {
		message = "Internal server error"
		details = nil
	}
	if details == nil {
		details = []string{}
	}

	event := logger.FromContext(r.Context()).Warn()
	if status >= http.StatusInternalServerError {
		event = logger.FromContext(r.Context()).Error()
	}
	event.Err(err).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Msg("request failed")

	writeJSON(w, status, failure{StatusCode: status, Message: message, Errors: details})
}

// decode reads a JSON body into dst.
func decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.BadRequest("Invalid JSON body: %s", err.Error())
	}
	return nil
}
