package web

import (
	"html/template"
	"strconv"

	"loan-predictor/internal/models"
)

type fieldBounds struct {
	Min int
	Max int
}

type pageData struct {
	Title        string
	Subtitle     string
	Version      string
	Form         models.ApplicationRequest
	Errors       map[string]string
	ErrorMessage string
	Result       *resultView

	Genders            []string
	MaritalStatuses    []string
	EducationLevels    []string
	EmploymentStatuses []string
	PurposesOfLoan     []string

	Age           fieldBounds
	ExistingLoans fieldBounds
	LatePayments  fieldBounds
	CreditScore   fieldBounds
	MinIncome     int
	MinLoanAmount int
}

type resultView struct {
	Approved     bool
	Message      string
	Class        string
	PredictionID string
	ModelVersion string
	Charts       []chartView
}

func (s *Server) newPage(form models.ApplicationRequest) *pageData {
	return &pageData{
		Title:    "Loan Approval Predictor",
		Subtitle: "Compare your info with averages & predict loan approval",
		Version:  s.opts.Version,
		Form:     form,
		Errors:   map[string]string{},

		Genders:            optionStrings(models.Genders),
		MaritalStatuses:    optionStrings(models.MaritalStatuses),
		EducationLevels:    optionStrings(models.EducationLevels),
		EmploymentStatuses: optionStrings(models.EmploymentStatuses),
		PurposesOfLoan:     optionStrings(models.PurposesOfLoan),

		Age:           fieldBounds{models.MinAge, models.MaxAge},
		ExistingLoans: fieldBounds{0, models.MaxExistingLoans},
		LatePayments:  fieldBounds{0, models.MaxLatePayments},
		CreditScore:   fieldBounds{models.MinCreditScore, models.MaxCreditScore},
		MinIncome:     models.MinAnnualIncome,
		MinLoanAmount: models.MinLoanAmount,
	}
}

func newResultView(p *models.Prediction) *resultView {
	class := "result-rejected"
	if p.Approved {
		class = "result-approved"
	}
	return &resultView{
		Approved:     p.Approved,
		Message:      p.Verdict.Message(),
		Class:        class,
		PredictionID: p.ID,
		ModelVersion: p.ModelVersion,
		Charts:       buildCharts(p.Comparison),
	}
}

func optionStrings[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

var templateFuncs = template.FuncMap{
	"number": func(v float64) string {
		return strconv.FormatFloat(v, 'f', -1, 64)
	},
	"half": func(v float64) float64 {
		return v / 2
	},
	"add": func(a, b float64) float64 {
		return a + b
	},
}
