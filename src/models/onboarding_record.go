package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OnboardingRecord struct {
	ID                   uuid.UUID       `json:"id"`
	UserID               uuid.UUID       `json:"user_id"`
	MonthlyIncome        decimal.Decimal `json:"monthly_income"`
	MonthlySpending      decimal.Decimal `json:"monthly_spending"`
	CurrentSavings       decimal.Decimal `json:"current_savings"`
	MonthlyEMI           decimal.Decimal `json:"monthly_emi"`
	FinancialGoals       []string        `json:"financial_goals"`
	RiskTolerance        string          `json:"risk_tolerance"`
	InvestmentExperience string          `json:"investment_experience"`
	FiveYearPlan         string          `json:"five_year_plan"`
	CreatedAt            time.Time       `json:"created_at"`
}
