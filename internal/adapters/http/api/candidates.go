package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/okian/candidates/internal/domain/candidate"
	"github.com/okian/candidates/pkg/logger"
)

const maxBodyBytes = 1 << 20

var errTrailingData = errors.New("trailing data after JSON object")

// createCandidateRequest mirrors the OpenAPI schema for POST /candidatos.
// Pointers distinguish absent fields from zero values.
type createCandidateRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Age       *int    `json:"age"`
	BirthDate *string `json:"birthDate"`
}

// toDomain checks that every field is present and well formed. Business
// rules are left to the domain.
func (r createCandidateRequest) toDomain() (candidate.CreateRequest, error) {
	var problems []string
	if r.FirstName == nil || strings.TrimSpace(*r.FirstName) == "" {
		problems = append(problems, "firstName: must not be blank")
	}
	if r.LastName == nil || strings.TrimSpace(*r.LastName) == "" {
		problems = append(problems, "lastName: must not be blank")
	}
	if r.Age == nil {
		problems = append(problems, "age: is required")
	}
	if r.BirthDate == nil || strings.TrimSpace(*r.BirthDate) == "" {
		problems = append(problems, "birthDate: is required")
	}
	if len(problems) > 0 {
		return candidate.CreateRequest{}, validationError("validation errors: " + strings.Join(problems, ", "))
	}

	birth, err := candidate.ParseDate(strings.TrimSpace(*r.BirthDate))
	if err != nil {
		return candidate.CreateRequest{}, badRequest("birthDate must be a date in YYYY-MM-DD format")
	}
	return candidate.CreateRequest{
		FirstName: *r.FirstName,
		LastName:  *r.LastName,
		Age:       *r.Age,
		BirthDate: birth,
	}, nil
}

type candidateResponse struct {
	ID                 int64  `json:"id"`
	FirstName          string `json:"firstName"`
	LastName           string `json:"lastName"`
	Age                int    `json:"age"`
	BirthDate          string `json:"birthDate"`
	EstimatedEventDate string `json:"estimatedEventDate"`
	NextBirthday       string `json:"nextBirthday"`
	DaysToNextBirthday int64  `json:"daysToNextBirthday"`
	AgeInMonths        int64  `json:"ageInMonths"`
}

func newCandidateResponse(v candidate.View) candidateResponse {
	return candidateResponse{
		ID:                 v.ID,
		FirstName:          v.FirstName,
		LastName:           v.LastName,
		Age:                v.Age,
		BirthDate:          candidate.FormatDate(v.BirthDate),
		EstimatedEventDate: candidate.FormatDate(v.EstimatedEventDate),
		NextBirthday:       candidate.FormatDate(v.NextBirthday),
		DaysToNextBirthday: v.DaysToNextBirthday,
		AgeInMonths:        v.AgeInMonths,
	}
}

type metricsResponse struct {
	AverageAge      float64 `json:"averageAge"`
	AgeStdDeviation float64 `json:"ageStdDeviation"`
}

// CandidatesHandler serves /candidatos.
type CandidatesHandler struct {
	svc    CandidateService
	logger logger.Logger
}

// NewCandidatesHandler creates a candidates handler.
func NewCandidatesHandler(svc CandidateService, l logger.Logger) *CandidatesHandler {
	return &CandidatesHandler{svc: svc, logger: l}
}

// HandleCreate handles POST /candidatos.
func (h *CandidatesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	body, err := decodeCreateRequest(w, r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	req, err := body.toDomain()
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	view, err := h.svc.CreateCandidate(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, newCandidateResponse(view))
}

// decodeCreateRequest reads exactly one JSON object of at most maxBodyBytes.
func decodeCreateRequest(w http.ResponseWriter, r *http.Request) (createCandidateRequest, error) {
	var body createCandidateRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))

	err := dec.Decode(&body)
	if err == nil {
		if _, err = dec.Token(); errors.Is(err, io.EOF) {
			return body, nil
		}
		if err == nil {
			err = errTrailingData
		}
	}

	var tooBig *http.MaxBytesError
	switch {
	case errors.As(err, &tooBig):
		return body, tooLarge(fmt.Sprintf("request body exceeds %d bytes", tooBig.Limit))
	case errors.Is(err, io.EOF):
		return body, badRequest("request body is empty")
	case errors.Is(err, errTrailingData):
		return body, badRequest("request body must hold a single JSON object")
	default:
		return body, badRequest("malformed JSON body")
	}
}

// HandleList handles GET /candidatos.
func (h *CandidatesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	views, err := h.svc.ListCandidates(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	out := make([]candidateResponse, 0, len(views))
	for _, v := range views {
		out = append(out, newCandidateResponse(v))
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleMetrics handles GET /candidatos/metrics.
func (h *CandidatesHandler) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.GetMetrics(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, metricsResponse{
		AverageAge:      snap.AverageAge,
		AgeStdDeviation: snap.AgeStdDeviation,
	})
}
