package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/studiohaven/cms-api/internal/errs"
)

// envelope is the uniform response body. Unlike the legacy API, the
// HTTP status code always agrees with the embedded status field.
type envelope struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, message string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(envelope{
		Status:  "success",
		Message: message,
		Data:    data,
	})
}

func writeError(w http.ResponseWriter, logger zerolog.Logger, err error) {
	code := errs.HTTPStatus(err)
	message := err.Error()
	if code >= http.StatusInternalServerError {
		logger.Error().Err(err).Msg("request failed")
		message = "internal error"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(envelope{
		Status:  "error",
		Message: message,
	})
}

// pageParams reads 0-indexed page/size query parameters.
func pageParams(r *http.Request) (page, size int) {
	page, size = 0, 10
	if raw := strings.TrimSpace(r.URL.Query().Get("page")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed >= 0 {
			page = parsed
		}
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("size")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 100 {
			size = parsed
		}
	}
	return page, size
}

// paged wraps a list with its paging metadata.
type paged struct {
	Items interface{} `json:"items"`
	Page  int         `json:"page"`
	Size  int         `json:"size"`
	Total int64       `json:"total"`
}

func intQuery(r *http.Request, name string) (int, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, false
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return parsed, true
}
