package classifier

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	apperrors "loan-predictor/internal/common/errors"
)

const AlgorithmLogisticRegression = "logistic_regression"

// Artifact is the on-disk form of a trained model, JSON or YAML.
type Artifact struct {
	Name         string    `json:"name" yaml:"name"`
	Version      string    `json:"version" yaml:"version"`
	TrainedAt    string    `json:"trainedAt" yaml:"trainedAt"`
	Algorithm    string    `json:"algorithm" yaml:"algorithm"`
	FeatureNames []string  `json:"featureNames" yaml:"featureNames"`
	Coefficients []float64 `json:"coefficients" yaml:"coefficients"`
	Intercept    float64   `json:"intercept" yaml:"intercept"`
	Threshold    float64   `json:"threshold,omitempty" yaml:"threshold,omitempty"`
	Scaler       *Scaler   `json:"scaler,omitempty" yaml:"scaler,omitempty"`
}

type Scaler struct {
	Mean  []float64 `json:"mean" yaml:"mean"`
	Scale []float64 `json:"scale" yaml:"scale"`
}

// Load reads the artifact at path and builds its classifier. Failures are
// StandardErrors with codes MODEL_LOAD_FAILED, SCHEMA_MISSING or
// INCOMPATIBLE_ARTIFACT; callers treat all of them as fatal at startup.
func Load(path string) (*LinearModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewModelLoadFailedError(path, err)
	}

	artifact, err := DecodeArtifact(data, filepath.Ext(path))
	if err != nil {
		return nil, apperrors.NewModelLoadFailedError(path, err)
	}

	model, err := artifact.Build()
	if err != nil {
		if isSchemaMissing(err) {
			return nil, apperrors.NewSchemaMissingError(path, err)
		}
		return nil, apperrors.NewIncompatibleArtifactError(path, err)
	}
	return model, nil
}

// DecodeArtifact parses data as YAML for .yaml/.yml and JSON otherwise.
func DecodeArtifact(data []byte, ext string) (*Artifact, error) {
	var artifact Artifact
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &artifact); err != nil {
			return nil, fmt.Errorf("decode yaml artifact: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &artifact); err != nil {
			return nil, fmt.Errorf("decode json artifact: %w", err)
		}
	}
	return &artifact, nil
}

// Build validates the artifact and returns its classifier.
func (a *Artifact) Build() (*LinearModel, error) {
	schema, err := NewSchema(a.FeatureNames)
	if err != nil {
		return nil, err
	}

	algorithm := a.Algorithm
	if algorithm == "" {
		algorithm = AlgorithmLogisticRegression
	}
	if algorithm != AlgorithmLogisticRegression {
		return nil, fmt.Errorf("%w: unsupported algorithm %q", ErrIncompatibleArtifact, a.Algorithm)
	}

	var mean, scale []float64
	if a.Scaler != nil {
		mean, scale = a.Scaler.Mean, a.Scaler.Scale
	}

	info := Info{
		Name:      a.Name,
		Version:   a.Version,
		Algorithm: algorithm,
		TrainedAt: a.TrainedAt,
	}
	return NewLinearModel(info, schema, a.Coefficients, a.Intercept, a.Threshold, mean, scale)
}

func isSchemaMissing(err error) bool {
	return errors.Is(err, ErrSchemaMissing)
}
