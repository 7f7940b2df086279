// internal/workers/loan/predict-loan-approval/handler_test.go
package predictloanapproval

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loan-predictor/internal/classifier"
	"loan-predictor/internal/common/config"
	apperrors "loan-predictor/internal/common/errors"
	"loan-predictor/internal/common/logger"
	"loan-predictor/internal/models"
	"loan-predictor/internal/scoring"
)

// ==========================
// Test Helper Functions
// ==========================

type fixedClassifier struct {
	schema classifier.Schema
	label  int
}

func (c *fixedClassifier) Schema() classifier.Schema { return c.schema }

func (c *fixedClassifier) Predict(_ context.Context, _ []float64) (int, error) {
	return c.label, nil
}

type failingClassifier struct {
	schema classifier.Schema
}

func (c *failingClassifier) Schema() classifier.Schema { return c.schema }

func (c *failingClassifier) Predict(context.Context, []float64) (int, error) {
	return 0, errors.New("model backend unavailable")
}

func createTestHandler(t *testing.T, label int) *Handler {
	model := &fixedClassifier{schema: classifier.MustSchema(scoring.FeatureNames()...), label: label}
	predictor := scoring.NewPredictor(model, newTestLogger(t), nil)
	return NewHandler(DefaultConfig(), predictor, newTestLogger(t))
}

func createTestInput(t *testing.T, applicationID string, app interface{}) *Input {
	raw, err := json.Marshal(app)
	require.NoError(t, err)
	return &Input{ApplicationID: applicationID, Application: raw}
}

func createScenarioApplication() models.ApplicationRequest {
	return models.ApplicationRequest{
		Age:              30,
		Gender:           "Male",
		MaritalStatus:    "Married",
		EducationLevel:   "Bachelor",
		EmploymentStatus: "Employed",
		AnnualIncome:     80000,
		LoanAmount:       20000,
		PurposeOfLoan:    "Home",
		ExistingLoans:    1,
		LatePayments:     0,
		CreditScore:      720,
	}
}

type testLogger struct {
	t *testing.T
}

func (tl *testLogger) Debug(msg string, fields map[string]interface{}) {
	tl.t.Logf("DEBUG: %s %v", msg, fields)
}

func (tl *testLogger) Info(msg string, fields map[string]interface{}) {
	tl.t.Logf("INFO: %s %v", msg, fields)
}

func (tl *testLogger) Warn(msg string, fields map[string]interface{}) {
	tl.t.Logf("WARN: %s %v", msg, fields)
}

func (tl *testLogger) Error(msg string, fields map[string]interface{}) {
	tl.t.Logf("ERROR: %s %v", msg, fields)
}

func (tl *testLogger) WithFields(fields map[string]interface{}) logger.Logger {
	return tl
}

func (tl *testLogger) WithError(err error) logger.Logger {
	return tl.WithFields(map[string]interface{}{"error": err})
}

func (tl *testLogger) With(fields map[string]interface{}) logger.Logger {
	return tl
}

func newTestLogger(t *testing.T) logger.Logger {
	return &testLogger{t: t}
}

func requireCode(t *testing.T, err error, code apperrors.ErrorCode) *apperrors.StandardError {
	t.Helper()
	var stdErr *apperrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, code, stdErr.Code)
	return stdErr
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_Success(t *testing.T) {
	tests := []struct {
		name            string
		label           int
		expectedVerdict models.Verdict
		expectedApprove bool
	}{
		{"approved", 1, models.VerdictApproved, true},
		{"rejected", 0, models.VerdictRejected, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := createTestHandler(t, tt.label)

			output, err := h.Execute(context.Background(), createTestInput(t, "app-001", createScenarioApplication()))

			require.NoError(t, err)
			assert.Equal(t, "app-001", output.ApplicationID)
			assert.NotEmpty(t, output.PredictionID)
			assert.Equal(t, tt.expectedVerdict, output.Verdict)
			assert.Equal(t, tt.expectedApprove, output.Approved)
			assert.Equal(t, tt.label, output.Label)
			require.Len(t, output.Comparison, 4)
			assert.False(t, output.Comparison[2].Highlighted)
		})
	}
}

func TestHandler_Execute_LenientCategories(t *testing.T) {
	h := createTestHandler(t, 1)
	app := createScenarioApplication()
	app.EducationLevel = "HighSchool"
	app.EmploymentStatus = "self-employed"

	output, err := h.Execute(context.Background(), createTestInput(t, "app-002", app))

	require.NoError(t, err)
	assert.True(t, output.Approved)
}

func TestHandler_Execute_WholeNumberFloats(t *testing.T) {
	h := createTestHandler(t, 1)
	input := &Input{
		ApplicationID: "app-006",
		Application: json.RawMessage(`{
			"age": 30.0, "gender": "Male", "maritalStatus": "Married",
			"educationLevel": "Bachelor", "employmentStatus": "Employed",
			"annualIncome": 80000, "loanAmount": 20000, "purposeOfLoan": "Home",
			"existingLoans": 1.0, "latePayments": 0, "creditScore": 720.0
		}`),
	}

	output, err := h.Execute(context.Background(), input)

	require.NoError(t, err)
	assert.True(t, output.Approved)
}

// ==========================
// Error Handling Tests
// ==========================

func TestHandler_Execute_ValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(app map[string]interface{})
	}{
		{"age below minimum", func(app map[string]interface{}) { app["age"] = 17 }},
		{"credit score above maximum", func(app map[string]interface{}) { app["creditScore"] = 851 }},
		{"missing loan amount", func(app map[string]interface{}) { delete(app, "loanAmount") }},
		{"fractional late payments", func(app map[string]interface{}) { app["latePayments"] = 1.5 }},
		{"unknown purpose", func(app map[string]interface{}) { app["purposeOfLoan"] = "Vacation" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := createTestHandler(t, 1)

			raw, err := json.Marshal(createScenarioApplication())
			require.NoError(t, err)
			var app map[string]interface{}
			require.NoError(t, json.Unmarshal(raw, &app))
			tt.mutate(app)

			output, err := h.Execute(context.Background(), createTestInput(t, "app-003", app))

			assert.Nil(t, output)
			stdErr := requireCode(t, err, apperrors.ErrCodeApplicationValidation)
			assert.False(t, stdErr.Retryable)
		})
	}
}

func TestHandler_Execute_MissingApplication(t *testing.T) {
	h := createTestHandler(t, 1)

	_, err := h.Execute(context.Background(), &Input{ApplicationID: "app-004"})
	requireCode(t, err, apperrors.ErrCodeApplicationValidation)

	_, err = h.Execute(context.Background(), &Input{ApplicationID: "app-004", Application: json.RawMessage("null")})
	requireCode(t, err, apperrors.ErrCodeApplicationValidation)
}

func TestHandler_Execute_UnrecognizedPrediction(t *testing.T) {
	h := createTestHandler(t, 2)

	_, err := h.Execute(context.Background(), createTestInput(t, "app-005", createScenarioApplication()))

	stdErr := requireCode(t, err, apperrors.ErrCodeUnrecognizedPrediction)
	assert.Equal(t, "app-005", stdErr.Metadata["applicationId"])
	assert.ErrorIs(t, err, scoring.ErrUnrecognizedPrediction)

	bpmn := apperrors.ConvertToBPMNError(stdErr)
	assert.Equal(t, 0, bpmn.Retries)
}

// ==========================
// Configuration Tests
// ==========================

func TestConfig(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
	assert.Error(t, (&Config{MaxJobsActive: 1}).Validate())
	assert.Error(t, (&Config{Timeout: time.Second}).Validate())

	cfg := ConfigFromApp(&config.Config{Workers: map[string]config.WorkerConfig{
		TaskType: {Enabled: false, MaxJobsActive: 2, Timeout: 1500, MaxRetries: 1},
	}})
	assert.False(t, cfg.Enabled)
	assert.Equal(t, 2, cfg.MaxJobsActive)
	assert.Equal(t, 1500*time.Millisecond, cfg.Timeout)
	assert.Equal(t, 1, cfg.MaxRetries)

	fallback := ConfigFromApp(&config.Config{})
	assert.True(t, fallback.Enabled)
	assert.Equal(t, 30*time.Second, fallback.Timeout)
}

func TestHandler_MaxRetriesCapsJobRetries(t *testing.T) {
	model := &failingClassifier{schema: classifier.MustSchema(scoring.FeatureNames()...)}
	predictor := scoring.NewPredictor(model, newTestLogger(t), nil)

	tests := []struct {
		name        string
		maxRetries  int
		wantRetries int
	}{
		{"configured cap", 1, 1},
		{"no cap", 0, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.MaxRetries = tt.maxRetries
			h := NewHandler(cfg, predictor, newTestLogger(t))

			_, err := h.Execute(context.Background(), createTestInput(t, "app-007", createScenarioApplication()))
			stdErr := requireCode(t, err, apperrors.ErrCodePredictionFailed)
			assert.True(t, stdErr.Retryable)

			assert.Equal(t, tt.wantRetries, h.errors.Convert(err).Retries)
		})
	}
}

func TestNewHandler_DefaultsTimeout(t *testing.T) {
	h := NewHandler(&Config{MaxJobsActive: 1}, nil, newTestLogger(t))
	assert.Equal(t, 30*time.Second, h.config.Timeout)
}
