package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"bookcatalog/internal/apperr"

	"go.uber.org/zap"
)

const (
	CodeValidation      = "VALIDATION_ERROR"
	CodeNotFound        = "NOT_FOUND"
	CodeInternal        = "INTERNAL_ERROR"
	CodeRateLimited     = "RATE_LIMIT_EXCEEDED"
	CodePayloadTooLarge = "PAYLOAD_TOO_LARGE"
)

// ErrorResponse is the body of every non-2xx response. Message is a string,
// or a list of strings for validation failures.
type ErrorResponse struct {
	Message   any    `json:"message"`
	Status    int    `json:"status"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// MessageResponse is a body that only carries a message.
type MessageResponse struct {
	Message string `json:"message"`
}

func WriteJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("encode response", zap.Error(err))
	}
}

// WriteError translates err into a status code and JSON body. Handlers and
// middleware forward every failure here instead of writing error bodies.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validationErr *apperr.ValidationError
		notFoundErr   *apperr.NotFoundError
		maxBytesErr   *http.MaxBytesError
	)

	switch {
	case errors.As(err, &validationErr):
		writeErrorBody(w, r, http.StatusBadRequest, CodeValidation, validationErr.Messages)
	case errors.As(err, &notFoundErr):
		writeErrorBody(w, r, http.StatusNotFound, CodeNotFound, notFoundErr.Error())
	case errors.As(err, &maxBytesErr):
		writeErrorBody(w, r, http.StatusRequestEntityTooLarge, CodePayloadTooLarge, "Request body too large")
	default:
		zap.L().Error("request failed",
			zap.Error(err),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", RequestIDFrom(r)),
		)
		writeErrorBody(w, r, http.StatusInternalServerError, CodeInternal, "Internal server error")
	}
}

// WriteErrorStatus writes an error body for failures that have no domain
// error behind them, such as rate limiting.
func WriteErrorStatus(w http.ResponseWriter, r *http.Request, statusCode int, code, message string) {
	writeErrorBody(w, r, statusCode, code, message)
}

func writeErrorBody(w http.ResponseWriter, r *http.Request, statusCode int, code string, message any) {
	WriteJSON(w, statusCode, ErrorResponse{
		Message:   message,
		Status:    statusCode,
		Code:      code,
		RequestID: RequestIDFrom(r),
	})
}
