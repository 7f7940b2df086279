package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "loan-predictor/internal/common/errors"
	"loan-predictor/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

func writeTestConfig(t *testing.T) string {
	t.Helper()
	artifact, err := filepath.Abs("../../configs/loan_model.json")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "model:\n  artifact_path: " + artifact + "\nlogging:\n  level: error\n  format: json\n  output: stderr\nmetrics:\n  enabled: false\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

const scenario = `{"age": 30, "gender": "Male", "maritalStatus": "Married", "educationLevel": "Bachelor",
 "employmentStatus": "Employed", "annualIncome": 80000, "loanAmount": 20000, "purposeOfLoan": "Home",
 "existingLoans": 1, "latePayments": 0, "creditScore": 720}`

const poorApplicant = `{"age": 25, "gender": "Female", "maritalStatus": "Single", "educationLevel": "High School",
 "employmentStatus": "Unemployed", "annualIncome": 20000, "loanAmount": 50000, "purposeOfLoan": "Personal",
 "existingLoans": 3, "latePayments": 5, "creditScore": 520}`

// ==========================
// Command Tests
// ==========================

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "", "version")

	require.NoError(t, err)
	assert.Equal(t, "loan-predictor version: dev\n", out)
}

func TestPredictCommand(t *testing.T) {
	cfg := writeTestConfig(t)

	tests := []struct {
		name     string
		input    string
		verdict  models.Verdict
		approved bool
		flagged  bool
	}{
		{"scenario is approved", scenario, models.VerdictApproved, true, false},
		{"poor applicant is rejected", poorApplicant, models.VerdictRejected, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, tt.input, "predict", "--config", cfg, "--input", "-")
			require.NoError(t, err)

			var pred models.Prediction
			require.NoError(t, json.Unmarshal([]byte(out), &pred))
			assert.Equal(t, tt.verdict, pred.Verdict)
			assert.Equal(t, tt.approved, pred.Approved)
			assert.Equal(t, "2024.06.1", pred.ModelVersion)
			require.Len(t, pred.Comparison, 4)
			assert.Equal(t, tt.flagged, pred.Comparison[2].Highlighted)
			assert.Empty(t, pred.DefaultedFeatures)
			assert.Empty(t, pred.IgnoredFeatures)
		})
	}
}

func TestPredictCommand_FromFile(t *testing.T) {
	cfg := writeTestConfig(t)
	input := filepath.Join(t.TempDir(), "application.json")
	require.NoError(t, os.WriteFile(input, []byte(scenario), 0o600))

	out, err := run(t, "", "predict", "--config", cfg, "--input", input)

	require.NoError(t, err)
	assert.Contains(t, out, `"verdict": "Approved"`)
}

func TestPredictCommand_InvalidInput(t *testing.T) {
	cfg := writeTestConfig(t)
	input := strings.Replace(scenario, `"creditScore": 720`, `"creditScore": 200`, 1)

	_, err := run(t, input, "predict", "--config", cfg)

	var stdErr *apperrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, apperrors.ErrCodeApplicationValidation, stdErr.Code)
	assert.Contains(t, stdErr.Details, "creditScore")
}

func TestPredictCommand_MissingArtifact(t *testing.T) {
	cfg := writeTestConfig(t)

	_, err := run(t, scenario, "predict", "--config", cfg, "--model", filepath.Join(t.TempDir(), "missing.json"))

	var stdErr *apperrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, apperrors.ErrCodeModelLoadFailed, stdErr.Code)
}

func TestSchemaCommand(t *testing.T) {
	cfg := writeTestConfig(t)

	out, err := run(t, "", "schema", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "21 features")
	assert.Contains(t, out, " 0  Age\n")
	assert.Contains(t, out, "20  PurposeOfLoan_Personal\n")

	out, err = run(t, "", "schema", "--config", cfg, "--json")
	require.NoError(t, err)
	var doc struct {
		Name         string   `json:"name"`
		FeatureNames []string `json:"featureNames"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "loan-approval-logreg", doc.Name)
	assert.Len(t, doc.FeatureNames, 21)
}

func TestLoadConfig_FlagOverrides(t *testing.T) {
	opts := &globalOptions{
		configFile: writeTestConfig(t),
		logLevel:   "DEBUG",
		logFormat:  "console",
		modelPath:  "other.json",
	}

	cfg, err := opts.loadConfig()

	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, "other.json", cfg.Model.ArtifactPath)
}
