package services

import (
	"context"
	"errors"
	"fmt"
	"moneywise-server/src/models"
	"moneywise-server/src/repository"
	"moneywise-server/src/util"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ProfileInput struct {
	FullName string
	Email    string
}

type OnboardingInput struct {
	MonthlyIncome        string
	MonthlySpending      string
	CurrentSavings       string
	MonthlyEMI           string
	FinancialGoals       []string
	RiskTolerance        string
	InvestmentExperience string
	FiveYearPlan         string
}

type OnboardingStatus struct {
	Completed bool                     `json:"completed"`
	Record    *models.OnboardingRecord `json:"record,omitempty"`
}

// NameCache is dropped whenever a profile name changes, since marketplace
// reads carry creator and reviewer names.
type NameCache interface {
	ClearAllTemplates()
}

type ProfileService struct {
	repo  repository.Repository
	names NameCache
}

// NewProfileService builds the service. names may be nil.
func NewProfileService(repo repository.Repository, names NameCache) *ProfileService {
	return &ProfileService{repo: repo, names: names}
}

// Get returns the stored profile, or one built from the session when the user
// has never saved theirs.
func (s *ProfileService) Get(ctx context.Context, userID uuid.UUID, email string) (*models.Profile, error) {
	profile, err := s.repo.GetProfile(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return &models.Profile{ID: userID, Email: email}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return profile, nil
}

func (s *ProfileService) Update(ctx context.Context, userID uuid.UUID, sessionEmail string, in ProfileInput) (*models.Profile, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" {
		email = sessionEmail
	}
	if email != "" && !util.ValidateEmail(email) {
		return nil, invalid("email is not valid")
	}
	profile, err := s.repo.UpsertProfile(ctx, &models.Profile{
		ID:       userID,
		FullName: strings.TrimSpace(in.FullName),
		Email:    email,
	})
	if err != nil {
		return nil, err
	}
	if s.names != nil {
		s.names.ClearAllTemplates()
	}
	return profile, nil
}

func (s *ProfileService) Onboarding(ctx context.Context, userID uuid.UUID) (*OnboardingStatus, error) {
	rec, err := s.repo.GetOnboarding(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return &OnboardingStatus{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load onboarding: %w", err)
	}
	return &OnboardingStatus{Completed: true, Record: rec}, nil
}

// CompleteOnboarding stores the questionnaire. Income and spending are
// required; the other amounts default to zero.
func (s *ProfileService) CompleteOnboarding(ctx context.Context, userID uuid.UUID, in OnboardingInput) (*models.OnboardingRecord, error) {
	income, err := parseAmount("monthly_income", in.MonthlyIncome)
	if err != nil {
		return nil, err
	}
	spending, err := parseAmount("monthly_spending", in.MonthlySpending)
	if err != nil {
		return nil, err
	}
	amounts := make([]decimal.Decimal, 2)
	for i, field := range []struct{ name, raw string }{
		{"current_savings", in.CurrentSavings},
		{"monthly_emi", in.MonthlyEMI},
	} {
		if amounts[i], err = parseOptionalAmount(field.name, field.raw); err != nil {
			return nil, err
		}
	}
	if !util.ValidateRiskTolerance(in.RiskTolerance) {
		return nil, invalid("risk_tolerance must be low, medium or high")
	}
	if !util.ValidateInvestmentExperience(in.InvestmentExperience) {
		return nil, invalid("investment_experience must be beginner, intermediate or advanced")
	}

	goals := make([]string, 0, len(in.FinancialGoals))
	for _, g := range in.FinancialGoals {
		if g = strings.TrimSpace(g); g != "" {
			goals = append(goals, g)
		}
	}

	return s.repo.CreateOnboarding(ctx, &models.OnboardingRecord{
		UserID:               userID,
		MonthlyIncome:        income,
		MonthlySpending:      spending,
		CurrentSavings:       amounts[0],
		MonthlyEMI:           amounts[1],
		FinancialGoals:       goals,
		RiskTolerance:        in.RiskTolerance,
		InvestmentExperience: in.InvestmentExperience,
		FiveYearPlan:         strings.TrimSpace(in.FiveYearPlan),
	})
}
