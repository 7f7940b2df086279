package scoring

import "loan-predictor/internal/models"

// Reference averages the applicant is compared against.
const (
	ReferenceIncome      = 75000
	ReferenceLoanAmount  = 25000
	ReferenceCreditScore = 680
	ReferenceDebtBurden  = 4

	// CreditScoreWarning is the credit score below which the panel is flagged.
	CreditScoreWarning = 600
)

const (
	PanelIncome      = "Income"
	PanelLoanAmount  = "Loan Amount"
	PanelCreditScore = "Credit Score"
	PanelDebtBurden  = "Debt Burden"
)

// BuildComparison returns the four user-versus-average panels. Only the
// credit score panel is ever highlighted, when the score is below 600.
func BuildComparison(app models.Application) []models.ComparisonPanel {
	return []models.ComparisonPanel{
		{
			Label:          PanelIncome,
			UserValue:      app.AnnualIncome,
			ReferenceValue: ReferenceIncome,
		},
		{
			Label:          PanelLoanAmount,
			UserValue:      app.LoanAmount,
			ReferenceValue: ReferenceLoanAmount,
		},
		{
			Label:          PanelCreditScore,
			UserValue:      float64(app.CreditScore),
			ReferenceValue: ReferenceCreditScore,
			Highlighted:    app.CreditScore < CreditScoreWarning,
		},
		{
			Label:          PanelDebtBurden,
			UserValue:      float64(app.DebtBurden()),
			ReferenceValue: ReferenceDebtBurden,
		},
	}
}
