package web

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	apperrors "loan-predictor/internal/common/errors"
	"loan-predictor/internal/common/logger"
	"loan-predictor/internal/common/validation"
	"loan-predictor/internal/models"
	"loan-predictor/internal/scoring"
)

// ==========================
// HTML form
// ==========================

func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, s.newPage(models.DefaultApplicationRequest()))
}

func (s *Server) handleFormSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes)
	if err := r.ParseForm(); err != nil {
		page := s.newPage(models.DefaultApplicationRequest())
		page.ErrorMessage = "The form could not be read."
		s.render(w, r, http.StatusBadRequest, page)
		return
	}

	req, parseErrs := requestFromForm(r.Form)
	page := s.newPage(req)

	result := validation.ValidateRequest(req)
	for field, msg := range parseErrs {
		result.Errors = append(result.Errors, validation.ValidationError{Field: field, Message: msg, Code: validation.CodeInvalidType})
		result.Valid = false
	}
	if !result.Valid {
		page.Errors = result.FieldErrors()
		for field, msg := range parseErrs {
			page.Errors[field] = msg
		}
		page.ErrorMessage = "Please correct the highlighted fields."
		s.render(w, r, http.StatusUnprocessableEntity, page)
		return
	}

	prediction, err := s.predictor.PredictRequest(r.Context(), req, scoring.SourceWeb)
	if err != nil {
		stdErr := apperrors.Normalize(err)
		s.logPredictionError(r, stdErr)
		page.ErrorMessage = stdErr.Message
		s.render(w, r, apperrors.HTTPStatus(stdErr.Code), page)
		return
	}

	page.Result = newResultView(prediction)
	s.render(w, r, http.StatusOK, page)
}

// requestFromForm reads the form fields. Numbers that do not parse are
// reported by field and left at zero.
func requestFromForm(form map[string][]string) (models.ApplicationRequest, map[string]string) {
	errs := make(map[string]string)
	get := func(key string) string {
		if v := form[key]; len(v) > 0 {
			return strings.TrimSpace(v[0])
		}
		return ""
	}
	intField := func(key string) int {
		raw := get(key)
		n, err := strconv.Atoi(raw)
		if err != nil {
			errs[key] = fmt.Sprintf("%q is not a whole number", raw)
		}
		return n
	}
	floatField := func(key string) float64 {
		raw := strings.ReplaceAll(get(key), ",", "")
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			errs[key] = fmt.Sprintf("%q is not a number", raw)
		}
		return f
	}

	req := models.ApplicationRequest{
		Age:              intField("age"),
		Gender:           get("gender"),
		MaritalStatus:    get("maritalStatus"),
		EducationLevel:   get("educationLevel"),
		EmploymentStatus: get("employmentStatus"),
		AnnualIncome:     floatField("annualIncome"),
		LoanAmount:       floatField("loanAmount"),
		PurposeOfLoan:    get("purposeOfLoan"),
		ExistingLoans:    intField("existingLoans"),
		LatePayments:     intField("latePayments"),
		CreditScore:      intField("creditScore"),
	}
	return req, errs
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, page *pageData) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "index.html", page); err != nil {
		s.logger.Error("render template", map[string]interface{}{
			logger.FieldRequestID: RequestID(r.Context()),
			"error":               err,
		})
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// ==========================
// JSON API
// ==========================

type errorResponse struct {
	Error  *apperrors.StandardError     `json:"error"`
	Fields []validation.ValidationError `json:"fields,omitempty"`
}

type schemaResponse struct {
	Name         string          `json:"name"`
	Version      string          `json:"version"`
	Algorithm    string          `json:"algorithm,omitempty"`
	TrainedAt    string          `json:"trainedAt,omitempty"`
	FeatureNames []string        `json:"featureNames"`
	InputSchema  json.RawMessage `json:"inputSchema"`
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes))
	if err != nil {
		writeError(w, apperrors.NewInvalidRequestError(err), nil)
		return
	}

	req, fields, stdErr := validation.DecodeApplication(body)
	if stdErr != nil {
		writeError(w, stdErr, fields)
		return
	}

	prediction, err := s.predictor.PredictRequest(r.Context(), req, scoring.SourceAPI)
	if err != nil {
		stdErr := apperrors.Normalize(err)
		s.logPredictionError(r, stdErr)
		writeError(w, stdErr, nil)
		return
	}

	writeJSON(w, http.StatusOK, prediction)
}

func (s *Server) handleSchema(w http.ResponseWriter, _ *http.Request) {
	info := s.predictor.Info()
	writeJSON(w, http.StatusOK, schemaResponse{
		Name:         info.Name,
		Version:      info.Version,
		Algorithm:    info.Algorithm,
		TrainedAt:    info.TrainedAt,
		FeatureNames: s.predictor.Schema().Names(),
		InputSchema:  validation.SchemaDocument(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	if !s.ready.Load() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"time":   time.Now().Format(time.RFC3339),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":       "ready",
		"modelVersion": s.predictor.Info().Version,
		"time":         time.Now().Format(time.RFC3339),
	})
}

func (s *Server) logPredictionError(r *http.Request, stdErr *apperrors.StandardError) {
	s.logger.Error("prediction request failed", map[string]interface{}{
		logger.FieldRequestID:         RequestID(r.Context()),
		"errorCode":                   stdErr.Code,
		"details":                     stdErr.Details,
		"classifierContractViolation": stderrors.Is(stdErr, scoring.ErrUnrecognizedPrediction),
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, stdErr *apperrors.StandardError, fields []validation.ValidationError) {
	writeJSON(w, apperrors.HTTPStatus(stdErr.Code), errorResponse{Error: stdErr, Fields: fields})
}
