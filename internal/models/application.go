// internal/models/application.go
package models

import (
	"errors"
	"fmt"
)

// Bounds enforced by the input form and the request schema.
const (
	MinAge           = 18
	MaxAge           = 100
	MinAnnualIncome  = 1000
	MinLoanAmount    = 1000
	MinCreditScore   = 300
	MaxCreditScore   = 850
	MaxExistingLoans = 10
	MaxLatePayments  = 10
)

// Application is one applicant's raw attributes. It is built fresh for every
// submission and never mutated afterwards.
type Application struct {
	Age              int              `json:"age"`
	Gender           Gender           `json:"gender"`
	MaritalStatus    MaritalStatus    `json:"maritalStatus"`
	EducationLevel   EducationLevel   `json:"educationLevel"`
	EmploymentStatus EmploymentStatus `json:"employmentStatus"`
	AnnualIncome     float64          `json:"annualIncome"`
	LoanAmount       float64          `json:"loanAmount"`
	PurposeOfLoan    PurposeOfLoan    `json:"purposeOfLoan"`
	ExistingLoans    int              `json:"existingLoans"`
	LatePayments     int              `json:"latePayments"`
	CreditScore      int              `json:"creditScore"`
}

// DebtBurden is existing loans plus late payments.
func (a Application) DebtBurden() int {
	return a.ExistingLoans + a.LatePayments
}

// ApplicationRequest is the wire form of an Application as submitted by the
// web form, the JSON API and job variables. Categorical fields are free text
// until ToApplication resolves them.
type ApplicationRequest struct {
	Age              int     `json:"age"`
	Gender           string  `json:"gender"`
	MaritalStatus    string  `json:"maritalStatus"`
	EducationLevel   string  `json:"educationLevel"`
	EmploymentStatus string  `json:"employmentStatus"`
	AnnualIncome     float64 `json:"annualIncome"`
	LoanAmount       float64 `json:"loanAmount"`
	PurposeOfLoan    string  `json:"purposeOfLoan"`
	ExistingLoans    int     `json:"existingLoans"`
	LatePayments     int     `json:"latePayments"`
	CreditScore      int     `json:"creditScore"`
}

// DefaultApplicationRequest mirrors the initial state of the input form.
func DefaultApplicationRequest() ApplicationRequest {
	return ApplicationRequest{
		Age:              MinAge,
		Gender:           string(GenderMale),
		MaritalStatus:    string(MaritalSingle),
		EducationLevel:   string(EducationHighSchool),
		EmploymentStatus: string(EmploymentEmployed),
		AnnualIncome:     MinAnnualIncome,
		LoanAmount:       MinLoanAmount,
		PurposeOfLoan:    string(PurposePersonal),
		ExistingLoans:    0,
		LatePayments:     0,
		CreditScore:      MinCreditScore,
	}
}

// ToApplication resolves the categorical fields. Numeric bounds are the
// validation package's concern; this only fails on unrecognized categories.
func (r ApplicationRequest) ToApplication() (Application, error) {
	var errs []error

	gender, err := ParseGender(r.Gender)
	errs = append(errs, err)
	marital, err := ParseMaritalStatus(r.MaritalStatus)
	errs = append(errs, err)
	education, err := ParseEducationLevel(r.EducationLevel)
	errs = append(errs, err)
	employment, err := ParseEmploymentStatus(r.EmploymentStatus)
	errs = append(errs, err)
	purpose, err := ParsePurposeOfLoan(r.PurposeOfLoan)
	errs = append(errs, err)

	if err := errors.Join(errs...); err != nil {
		return Application{}, fmt.Errorf("resolve application: %w", err)
	}

	return Application{
		Age:              r.Age,
		Gender:           gender,
		MaritalStatus:    marital,
		EducationLevel:   education,
		EmploymentStatus: employment,
		AnnualIncome:     r.AnnualIncome,
		LoanAmount:       r.LoanAmount,
		PurposeOfLoan:    purpose,
		ExistingLoans:    r.ExistingLoans,
		LatePayments:     r.LatePayments,
		CreditScore:      r.CreditScore,
	}, nil
}

// Request converts an Application back to its wire form.
func (a Application) Request() ApplicationRequest {
	return ApplicationRequest{
		Age:              a.Age,
		Gender:           string(a.Gender),
		MaritalStatus:    string(a.MaritalStatus),
		EducationLevel:   string(a.EducationLevel),
		EmploymentStatus: string(a.EmploymentStatus),
		AnnualIncome:     a.AnnualIncome,
		LoanAmount:       a.LoanAmount,
		PurposeOfLoan:    string(a.PurposeOfLoan),
		ExistingLoans:    a.ExistingLoans,
		LatePayments:     a.LatePayments,
		CreditScore:      a.CreditScore,
	}
}
