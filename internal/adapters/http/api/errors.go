package api

import (
	"errors"
	"net/http"

	"github.com/okian/candidates/internal/adapters/repository"
	service "github.com/okian/candidates/internal/app"
	"github.com/okian/candidates/internal/domain/candidate"
	"github.com/okian/candidates/pkg/logger"
	"github.com/okian/candidates/pkg/requesttime"
)

// Sentinel kinds for request-shape errors detected before the domain runs.
var (
	ErrValidation = errors.New("validation failed")
	ErrBadRequest = errors.New("bad request")
	ErrTooLarge   = errors.New("request body too large")
)

// Error codes returned in the envelope.
const (
	CodeValidation       = "validation_error"
	CodeBadRequest       = "bad_request"
	CodePayloadTooLarge  = "payload_too_large"
	CodeInvalidDate      = "invalid_date"
	CodeInvalidAge       = "invalid_age"
	CodeAgeMismatch      = "age_mismatch"
	CodeNoData           = "no_data"
	CodeDataIntegrity    = "data_integrity"
	CodeNotFound         = "not_found"
	CodeMethodNotAllowed = "method_not_allowed"
	CodeUnauthorized     = "unauthorized"
	CodeInternal         = "internal_error"
)

const timestampLayout = "2006-01-02 15:04:05"

// errorResponse is the body of every non-2xx response.
type errorResponse struct {
	Timestamp string `json:"timestamp"`
	Status    int    `json:"status"`
	Error     string `json:"error"`
	Code      string `json:"code"`
	Message   string `json:"message"`
}

// requestError carries a request-shape failure with its own message.
type requestError struct {
	kind error
	msg  string
}

func (e *requestError) Error() string { return e.msg }
func (e *requestError) Unwrap() error { return e.kind }

func validationError(msg string) error { return &requestError{kind: ErrValidation, msg: msg} }
func badRequest(msg string) error      { return &requestError{kind: ErrBadRequest, msg: msg} }
func tooLarge(msg string) error        { return &requestError{kind: ErrTooLarge, msg: msg} }

// classify maps err to its status and code. Every candidate kind has its own
// pair; anything unrecognised is an internal error.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest, CodeValidation
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, CodeBadRequest
	case errors.Is(err, ErrTooLarge):
		return http.StatusRequestEntityTooLarge, CodePayloadTooLarge
	}

	switch candidate.KindOf(err) {
	case candidate.KindInvalidDate:
		return http.StatusBadRequest, CodeInvalidDate
	case candidate.KindInvalidAge:
		return http.StatusUnprocessableEntity, CodeInvalidAge
	case candidate.KindAgeMismatch:
		return http.StatusConflict, CodeAgeMismatch
	case candidate.KindNoData:
		return http.StatusNotFound, CodeNoData
	case candidate.KindUnknown:
	}

	if errors.Is(err, repository.ErrIntegrity) {
		return http.StatusUnprocessableEntity, CodeDataIntegrity
	}
	return http.StatusInternalServerError, CodeInternal
}

// writeError renders err as an envelope. Internal errors are logged and their
// detail is not exposed.
func writeError(w http.ResponseWriter, r *http.Request, log logger.Logger, err error) {
	status, code := classify(err)
	msg := err.Error()
	switch {
	case status >= http.StatusInternalServerError:
		log.Error(r.Context(), "request failed",
			logger.String("method", r.Method),
			logger.String("path", r.URL.Path),
			logger.Error(err),
		)
		msg = "an unexpected error occurred"
	case code == CodeDataIntegrity:
		log.Warn(r.Context(), "data integrity violation", logger.Error(err))
		msg = "the candidate violates a storage constraint"
	default:
		log.Debug(r.Context(), "request rejected", logger.String("code", code), logger.Error(err))
	}
	writeEnvelope(w, r, status, code, msg)
}

func writeEnvelope(w http.ResponseWriter, r *http.Request, status int, code, msg string) {
	writeJSON(w, status, errorResponse{
		Timestamp: requesttime.Now(r.Context()).Format(timestampLayout),
		Status:    status,
		Error:     http.StatusText(status),
		Code:      code,
		Message:   msg,
	})
}

// WriteUnauthorized renders the 401 envelope. It is meant to be installed on
// the authenticator so auth failures share the API error shape.
func WriteUnauthorized(w http.ResponseWriter, r *http.Request, _ error) {
	writeEnvelope(w, r, http.StatusUnauthorized, CodeUnauthorized, "authentication required")
}

func handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeEnvelope(w, r, http.StatusNotFound, CodeNotFound, "endpoint does not exist")
}

func handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeEnvelope(w, r, http.StatusMethodNotAllowed, CodeMethodNotAllowed, "method "+r.Method+" not allowed")
}
