package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rpupo63/blog-admin-backend/errs"
	"github.com/rs/zerolog"
)

var unexpectedErrors = promauto.NewCounter(prometheus.CounterOpts{
	Name: "blog_admin_unexpected_errors_total",
	Help: "Errors rendered as 500 without an ApiErr.",
})

type Responder struct {
	logger zerolog.Logger
}

func NewResponder(logger zerolog.Logger) Responder {
	return Responder{logger}
}

func (r Responder) WriteJSON(w http.ResponseWriter, data any) {
	r.WriteJSONStatus(w, http.StatusOK, data)
}

func (r Responder) WriteJSONStatus(w http.ResponseWriter, status int, data any) {
	// Marshal the data first so a failure can still produce a 500
	jsonData, err := json.Marshal(data)
	if err != nil {
		r.logger.Error().Err(err).Msg("error marshaling response data")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	// Check if response is too large (e.g., > 10MB)
	const maxResponseSize = 10 * 1024 * 1024 // 10MB
	if len(jsonData) > maxResponseSize {
		r.logger.Error().
			Int("responseSize", len(jsonData)).
			Int("maxSize", maxResponseSize).
			Msg("response too large, truncating")

		truncatedJSON, _ := json.Marshal(map[string]interface{}{
			"error":        "Response too large",
			"message":      "The requested data exceeds the maximum response size",
			"maxSizeMB":    maxResponseSize / (1024 * 1024),
			"actualSizeMB": len(jsonData) / (1024 * 1024),
		})
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusRequestEntityTooLarge)
		w.Write(truncatedJSON)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(jsonData); err != nil {
		r.logger.Error().Err(err).Msg("error writing response")
	}
}

// WriteError renders err as JSON. Message keys are translated for the request's Accept-Language.
func (r Responder) WriteError(w http.ResponseWriter, req *http.Request, err error) {
	if req != nil && timedOut(req.Context(), err) {
		r.logger.Warn().Err(err).Str("endpoint", req.URL.Path).Msg("request timed out")
		r.WriteTimeoutError(w, ctxGetRequestTimeout(req.Context()), req.URL.Path)
		return
	}

	var apiErr *errs.ApiErr

	// For unexpected errors, log and return generic internal error
	if !errors.As(err, &apiErr) {
		r.logger.Error().Err(err).Msg("unexpected error")
		unexpectedErrors.Inc()
		r.WriteJSONStatus(w, http.StatusInternalServerError, ErrorResponse{
			Error:   "Internal Server Error",
			Message: "An unexpected error occurred",
			Status:  "error",
		})
		return
	}

	response := ErrorResponse{
		Error:   apiErr.Error(),
		Status:  "error",
		Field:   apiErr.Field,
		Details: apiErr.Details,
	}

	if apiErr.MessageKey != "" {
		acceptLanguage := ""
		if req != nil {
			acceptLanguage = req.Header.Get("Accept-Language")
		}
		response.Message = errs.Translate(apiErr.MessageKey, acceptLanguage)
		response.Error = response.Message
	}

	if apiErr.Cause != nil {
		if apiErr.StatusCode >= http.StatusInternalServerError {
			r.logger.Error().Str("cause", apiErr.GetFullError()).Msg(apiErr.Error())
		} else {
			response.Cause = apiErr.GetFullError()
		}
	}

	r.WriteJSONStatus(w, apiErr.StatusCode, response)
}

// WriteTimeoutError writes a standardized timeout error response
func (r Responder) WriteTimeoutError(w http.ResponseWriter, timeout time.Duration, endpoint string) {
	r.WriteJSONStatus(w, http.StatusRequestTimeout, map[string]interface{}{
		"error":           "Request timeout",
		"message":         "The request took too long to process",
		"timeout_seconds": int(timeout.Seconds()),
		"status":          "timeout",
		"endpoint":        endpoint,
	})
}

// timedOut reports whether err stems from the request deadline. ApiErr does not unwrap
// to its Cause, so the request context is consulted as well.
func timedOut(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var apiErr *errs.ApiErr
	if errors.As(err, &apiErr) && errors.Is(apiErr.Cause, context.DeadlineExceeded) {
		return true
	}
	return errors.Is(ctx.Err(), context.DeadlineExceeded)
}

// wrapDatabaseError wraps a database error with context information
func wrapDatabaseError(operation, entity string, cause error) error {
	return errs.NewDatabaseError(operation, entity, cause)
}
