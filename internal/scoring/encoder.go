// Package scoring turns a raw application into the classifier's feature
// vector and interprets the result.
package scoring

import (
	"loan-predictor/internal/models"
)

// Feature names as fixed by the training encoding.
const (
	FeatureAge           = "Age"
	FeatureAnnualIncome  = "AnnualIncome"
	FeatureLoanAmount    = "LoanAmountRequested"
	FeatureCreditScore   = "CreditScore"
	FeatureLatePayments  = "LatePaymentsLastYear"
	FeatureIncomePerLoan = "IncomePerLoan"
	FeatureDebtBurden    = "DebtBurden"
)

// indicator is one one-hot feature: it is 1 when the field equals value.
type indicator[T comparable] struct {
	name  string
	value T
}

// Reference categories (no indicator): Gender Female, MaritalStatus Single,
// EducationLevel High School, EmploymentStatus Employed. PurposeOfLoan has no
// reference category and gets all four indicators; the trained model expects
// exactly this, so it must not be "fixed" without retraining.
var (
	genderIndicators = []indicator[models.Gender]{
		{"Gender_Male", models.GenderMale},
	}
	maritalIndicators = []indicator[models.MaritalStatus]{
		{"MaritalStatus_Married", models.MaritalMarried},
		{"MaritalStatus_Divorced", models.MaritalDivorced},
		{"MaritalStatus_Widowed", models.MaritalWidowed},
	}
	educationIndicators = []indicator[models.EducationLevel]{
		{"EducationLevel_Bachelor", models.EducationBachelor},
		{"EducationLevel_Master", models.EducationMaster},
		{"EducationLevel_PhD", models.EducationPhD},
		{"EducationLevel_Other", models.EducationOther},
	}
	employmentIndicators = []indicator[models.EmploymentStatus]{
		{"EmploymentStatus_Self-employed", models.EmploymentSelfEmployed},
		{"EmploymentStatus_Unemployed", models.EmploymentUnemployed},
	}
	purposeIndicators = []indicator[models.PurposeOfLoan]{
		{"PurposeOfLoan_Car", models.PurposeCar},
		{"PurposeOfLoan_Education", models.PurposeEducation},
		{"PurposeOfLoan_Home", models.PurposeHome},
		{"PurposeOfLoan_Personal", models.PurposePersonal},
	}
)

// Encode maps an application to its named features. It is pure and total;
// inputs are assumed to be within the form bounds already.
func Encode(app models.Application) models.FeatureSet {
	fs := models.FeatureSet{
		FeatureAge:           float64(app.Age),
		FeatureAnnualIncome:  app.AnnualIncome,
		FeatureLoanAmount:    app.LoanAmount,
		FeatureCreditScore:   float64(app.CreditScore),
		FeatureLatePayments:  float64(app.LatePayments),
		FeatureIncomePerLoan: IncomePerLoan(app.AnnualIncome, app.LoanAmount),
		FeatureDebtBurden:    float64(app.DebtBurden()),
	}

	oneHot(fs, app.Gender, genderIndicators)
	oneHot(fs, app.MaritalStatus, maritalIndicators)
	oneHot(fs, app.EducationLevel, educationIndicators)
	oneHot(fs, app.EmploymentStatus, employmentIndicators)
	oneHot(fs, app.PurposeOfLoan, purposeIndicators)

	return fs
}

// IncomePerLoan is income/loanAmount, or 0 when loanAmount is not positive.
func IncomePerLoan(income, loanAmount float64) float64 {
	if loanAmount <= 0 {
		return 0
	}
	return income / loanAmount
}

// FeatureNames lists every feature Encode produces, in encoding order.
func FeatureNames() []string {
	names := []string{
		FeatureAge, FeatureAnnualIncome, FeatureLoanAmount, FeatureCreditScore,
		FeatureLatePayments, FeatureIncomePerLoan, FeatureDebtBurden,
	}
	names = appendIndicatorNames(names, genderIndicators)
	names = appendIndicatorNames(names, maritalIndicators)
	names = appendIndicatorNames(names, educationIndicators)
	names = appendIndicatorNames(names, employmentIndicators)
	names = appendIndicatorNames(names, purposeIndicators)
	return names
}

func oneHot[T comparable](fs models.FeatureSet, value T, indicators []indicator[T]) {
	for _, ind := range indicators {
		if value == ind.value {
			fs[ind.name] = 1
		} else {
			fs[ind.name] = 0
		}
	}
}

func appendIndicatorNames[T comparable](names []string, indicators []indicator[T]) []string {
	for _, ind := range indicators {
		names = append(names, ind.name)
	}
	return names
}
