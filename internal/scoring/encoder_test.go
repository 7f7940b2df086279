package scoring

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loan-predictor/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

func scenarioApplication() models.Application {
	return models.Application{
		Age:              30,
		Gender:           models.GenderMale,
		MaritalStatus:    models.MaritalMarried,
		EducationLevel:   models.EducationBachelor,
		EmploymentStatus: models.EmploymentEmployed,
		AnnualIncome:     80000,
		LoanAmount:       20000,
		PurposeOfLoan:    models.PurposeHome,
		ExistingLoans:    1,
		LatePayments:     0,
		CreditScore:      720,
	}
}

func allApplications() []models.Application {
	var apps []models.Application
	for _, g := range models.Genders {
		for _, m := range models.MaritalStatuses {
			for _, e := range models.EducationLevels {
				for _, emp := range models.EmploymentStatuses {
					for _, p := range models.PurposesOfLoan {
						apps = append(apps, models.Application{
							Age:              models.MinAge,
							Gender:           g,
							MaritalStatus:    m,
							EducationLevel:   e,
							EmploymentStatus: emp,
							AnnualIncome:     models.MinAnnualIncome,
							LoanAmount:       models.MinLoanAmount,
							PurposeOfLoan:    p,
							ExistingLoans:    models.MaxExistingLoans,
							LatePayments:     models.MaxLatePayments,
							CreditScore:      models.MaxCreditScore,
						})
					}
				}
			}
		}
	}
	return apps
}

// ==========================
// Encode
// ==========================

func TestEncode_Scenario(t *testing.T) {
	fs := Encode(scenarioApplication())

	expected := models.FeatureSet{
		"Age":                            30,
		"AnnualIncome":                   80000,
		"LoanAmountRequested":            20000,
		"CreditScore":                    720,
		"LatePaymentsLastYear":           0,
		"IncomePerLoan":                  4.0,
		"DebtBurden":                     1,
		"Gender_Male":                    1,
		"MaritalStatus_Married":          1,
		"MaritalStatus_Divorced":         0,
		"MaritalStatus_Widowed":          0,
		"EducationLevel_Bachelor":        1,
		"EducationLevel_Master":          0,
		"EducationLevel_PhD":             0,
		"EducationLevel_Other":           0,
		"EmploymentStatus_Self-employed": 0,
		"EmploymentStatus_Unemployed":    0,
		"PurposeOfLoan_Car":              0,
		"PurposeOfLoan_Education":        0,
		"PurposeOfLoan_Home":             1,
		"PurposeOfLoan_Personal":         0,
	}
	assert.Equal(t, expected, fs)
}

func TestEncode_ExistingLoansOnlyThroughDebtBurden(t *testing.T) {
	app := scenarioApplication()
	app.ExistingLoans = 7
	app.LatePayments = 2

	fs := Encode(app)

	assert.NotContains(t, fs, "ExistingLoans")
	assert.Equal(t, 9.0, fs[FeatureDebtBurden])
	assert.Equal(t, 2.0, fs[FeatureLatePayments])
}

func TestEncode_ReferenceCategoriesHaveNoIndicator(t *testing.T) {
	app := scenarioApplication()
	app.Gender = models.GenderFemale
	app.MaritalStatus = models.MaritalSingle
	app.EducationLevel = models.EducationHighSchool
	app.EmploymentStatus = models.EmploymentEmployed

	fs := Encode(app)

	for name, v := range fs {
		switch name {
		case "PurposeOfLoan_Home":
			assert.Equal(t, 1.0, v, name)
		case "Gender_Male", "MaritalStatus_Married", "MaritalStatus_Divorced", "MaritalStatus_Widowed",
			"EducationLevel_Bachelor", "EducationLevel_Master", "EducationLevel_PhD", "EducationLevel_Other",
			"EmploymentStatus_Self-employed", "EmploymentStatus_Unemployed",
			"PurposeOfLoan_Car", "PurposeOfLoan_Education", "PurposeOfLoan_Personal":
			assert.Equal(t, 0.0, v, name)
		}
	}
}

func TestEncode_PurposeOfLoanKeepsAllIndicators(t *testing.T) {
	for _, purpose := range models.PurposesOfLoan {
		app := scenarioApplication()
		app.PurposeOfLoan = purpose

		fs := Encode(app)

		sum := fs["PurposeOfLoan_Car"] + fs["PurposeOfLoan_Education"] + fs["PurposeOfLoan_Home"] + fs["PurposeOfLoan_Personal"]
		assert.Equal(t, 1.0, sum, string(purpose))
		assert.Equal(t, 1.0, fs["PurposeOfLoan_"+string(purpose)], string(purpose))
	}
}

func TestEncode_TotalAndFinite(t *testing.T) {
	names := FeatureNames()

	for _, app := range allApplications() {
		var fs models.FeatureSet
		require.NotPanics(t, func() { fs = Encode(app) })
		assert.Len(t, fs, len(names))
		for name, v := range fs {
			assert.False(t, math.IsNaN(v) || math.IsInf(v, 0), "feature %s is not finite", name)
		}
	}
}

func TestEncode_ZeroLoanAmount(t *testing.T) {
	app := scenarioApplication()
	app.LoanAmount = 0

	fs := Encode(app)

	assert.Equal(t, 0.0, fs[FeatureIncomePerLoan])
}

func TestFeatureNames_MatchEncode(t *testing.T) {
	fs := Encode(scenarioApplication())
	names := FeatureNames()

	assert.Len(t, names, 21)
	for _, name := range names {
		assert.Contains(t, fs, name)
	}
}

// ==========================
// IncomePerLoan
// ==========================

func TestIncomePerLoan(t *testing.T) {
	tests := []struct {
		name       string
		income     float64
		loanAmount float64
		expected   float64
	}{
		{"scenario", 80000, 20000, 4.0},
		{"fractional", 1000, 4000, 0.25},
		{"zero income", 0, 5000, 0},
		{"zero loan", 80000, 0, 0},
		{"negative sentinel", 80000, -1, 0},
		{"large negative", 80000, -20000, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IncomePerLoan(tt.income, tt.loanAmount))
		})
	}
}
