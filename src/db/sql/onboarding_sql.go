package db

import (
	"context"
	"moneywise-server/src/models"

	"github.com/google/uuid"
)

const onboardingColumns = `
	id, user_id, monthly_income, monthly_spending, current_savings, monthly_emi,
	COALESCE(financial_goals, '{}'), COALESCE(risk_tolerance, ''), COALESCE(investment_experience, ''),
	COALESCE(five_year_plan, ''), created_at`

func scanOnboarding(row scanner) (*models.OnboardingRecord, error) {
	var o models.OnboardingRecord
	err := row.Scan(&o.ID, &o.UserID, &o.MonthlyIncome, &o.MonthlySpending, &o.CurrentSavings, &o.MonthlyEMI,
		&o.FinancialGoals, &o.RiskTolerance, &o.InvestmentExperience, &o.FiveYearPlan, &o.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// GetOnboarding returns the most recent questionnaire the user submitted.
func GetOnboarding(ctx context.Context, q Querier, userID uuid.UUID) (*models.OnboardingRecord, error) {
	query := `SELECT ` + onboardingColumns + ` FROM financial_onboarding WHERE user_id = $1 ORDER BY created_at DESC LIMIT 1`
	o, err := scanOnboarding(q.QueryRow(ctx, query, userID))
	if err != nil {
		return nil, notFound(err)
	}
	return o, nil
}

func CreateOnboarding(ctx context.Context, q Querier, rec *models.OnboardingRecord) (*models.OnboardingRecord, error) {
	query := `
		INSERT INTO financial_onboarding (user_id, monthly_income, monthly_spending, current_savings, monthly_emi,
			financial_goals, risk_tolerance, investment_experience, five_year_plan)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + onboardingColumns
	goals := rec.FinancialGoals
	if goals == nil {
		goals = []string{}
	}
	return scanOnboarding(q.QueryRow(ctx, query, rec.UserID, rec.MonthlyIncome, rec.MonthlySpending, rec.CurrentSavings,
		rec.MonthlyEMI, goals, rec.RiskTolerance, rec.InvestmentExperience, rec.FiveYearPlan))
}
