package validation

import (
	"encoding/json"
	"fmt"
	"math"

	apperrors "loan-predictor/internal/common/errors"
	"loan-predictor/internal/models"
)

// applicationDocument is the JSON form of models.ApplicationRequest. Integer
// fields are decoded as float64 because the schema accepts 30.0 as an
// integer and encoding/json does not.
type applicationDocument struct {
	Age              float64 `json:"age"`
	Gender           string  `json:"gender"`
	MaritalStatus    string  `json:"maritalStatus"`
	EducationLevel   string  `json:"educationLevel"`
	EmploymentStatus string  `json:"employmentStatus"`
	AnnualIncome     float64 `json:"annualIncome"`
	LoanAmount       float64 `json:"loanAmount"`
	PurposeOfLoan    string  `json:"purposeOfLoan"`
	ExistingLoans    float64 `json:"existingLoans"`
	LatePayments     float64 `json:"latePayments"`
	CreditScore      float64 `json:"creditScore"`
}

// DecodeApplication validates data against the application schema, decodes
// it and resolves its categories. Input that is not JSON fails with
// INVALID_REQUEST; anything else that fails is APPLICATION_VALIDATION_FAILED
// and comes with its field errors.
func DecodeApplication(data []byte) (models.ApplicationRequest, []ValidationError, *apperrors.StandardError) {
	result, err := ValidateApplicationJSON(data)
	if err != nil {
		return models.ApplicationRequest{}, nil, apperrors.NewInvalidRequestError(err)
	}
	if !result.Valid {
		return models.ApplicationRequest{}, result.Errors, apperrors.NewApplicationValidationError(result.Error())
	}

	var doc applicationDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return models.ApplicationRequest{}, nil, apperrors.NewInvalidRequestError(err)
	}

	req, result := doc.request()
	if !result.Valid {
		return models.ApplicationRequest{}, result.Errors, apperrors.NewApplicationValidationError(result.Error())
	}

	if result := ValidateRequest(req); !result.Valid {
		return models.ApplicationRequest{}, result.Errors, apperrors.NewApplicationValidationError(result.Error())
	}
	return req, nil, nil
}

func (d applicationDocument) request() (models.ApplicationRequest, *ValidationResult) {
	result := &ValidationResult{}
	whole := func(field string, v float64) int {
		if v != math.Trunc(v) || math.IsInf(v, 0) {
			result.Errors = append(result.Errors, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("must be a whole number, got %v", v),
				Code:    CodeInvalidType,
			})
		}
		return int(v)
	}

	req := models.ApplicationRequest{
		Age:              whole("age", d.Age),
		Gender:           d.Gender,
		MaritalStatus:    d.MaritalStatus,
		EducationLevel:   d.EducationLevel,
		EmploymentStatus: d.EmploymentStatus,
		AnnualIncome:     d.AnnualIncome,
		LoanAmount:       d.LoanAmount,
		PurposeOfLoan:    d.PurposeOfLoan,
		ExistingLoans:    whole("existingLoans", d.ExistingLoans),
		LatePayments:     whole("latePayments", d.LatePayments),
		CreditScore:      whole("creditScore", d.CreditScore),
	}
	result.Valid = len(result.Errors) == 0
	return req, result
}
