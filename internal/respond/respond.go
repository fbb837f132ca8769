// Package respond writes JSON bodies and maps errors to HTTP statuses.
package respond

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"hospital-management-api/internal/service"
)

// MaxBodyBytes caps request bodies.
const MaxBodyBytes = 1 << 20

// ErrTooManyRequests is returned by rate limiters.
var ErrTooManyRequests = errors.New("rate_limited")

type ErrorBody struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func JSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes err as an ErrorBody. Anything that is not a client error is
// logged and answered with a generic 500.
func Error(log *zap.Logger, w http.ResponseWriter, r *http.Request, err error) {
	var se *service.Error
	switch {
	case errors.As(err, &se):
		JSON(w, Status(se.Kind), ErrorBody{Error: se.Kind.Error(), Message: se.Msg, Fields: se.Fields})
	case errors.Is(err, ErrTooManyRequests):
		JSON(w, http.StatusTooManyRequests, ErrorBody{Error: ErrTooManyRequests.Error(), Message: "too many requests"})
	default:
		log.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", w.Header().Get("X-Request-ID")),
			zap.Error(err),
		)
		JSON(w, http.StatusInternalServerError, ErrorBody{Error: "internal_error", Message: "internal server error"})
	}
}

func Status(kind error) int {
	switch kind {
	case service.ErrValidation:
		return http.StatusBadRequest
	case service.ErrUnauthorized:
		return http.StatusUnauthorized
	case service.ErrNotFound:
		return http.StatusNotFound
	case service.ErrDuplicateIdentity, service.ErrConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Decode reads exactly one JSON object into dst. Unknown fields, trailing
// data, wrong types and oversized bodies are validation errors.
func Decode(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return badBody(err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return badBody(errors.New("body must contain a single JSON object"))
	}
	return nil
}

func badBody(err error) error {
	var tooBig *http.MaxBytesError
	var msg string
	switch {
	case errors.As(err, &tooBig):
		msg = fmt.Sprintf("body exceeds %d bytes", tooBig.Limit)
	case errors.Is(err, io.EOF):
		msg = "body is empty"
	default:
		msg = fmt.Sprintf("malformed JSON body: %v", err)
	}
	return &service.Error{Kind: service.ErrValidation, Msg: msg}
}
