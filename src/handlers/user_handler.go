package handlers

import (
	"moneywise-server/src/logger"
	"moneywise-server/src/services"
	"net/http"

	"go.uber.org/zap"
)

func GetProfile(svc *services.ProfileService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := principal(r)
		profile, err := svc.Get(r.Context(), p.UserID, p.Email)
		if err != nil {
			fail(w, "failed to load profile", err, userField(p))
			return
		}
		writeJSON(w, http.StatusOK, profile)
	}
}

func UpdateProfile(svc *services.ProfileService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := principal(r)
		var req struct {
			FullName string `json:"full_name"`
			Email    string `json:"email"`
		}
		if err := decodeBody(r, &req); err != nil {
			logger.Get().Error("failed to decode update profile request body", userField(p), zap.Error(err))
			writeError(w, http.StatusBadRequest, "invalid request")
			return
		}
		profile, err := svc.Update(r.Context(), p.UserID, p.Email, services.ProfileInput{
			FullName: req.FullName,
			Email:    req.Email,
		})
		if err != nil {
			fail(w, "failed to update profile", err, userField(p))
			return
		}
		writeJSON(w, http.StatusOK, profile)
	}
}

func GetOnboarding(svc *services.ProfileService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := principal(r)
		status, err := svc.Onboarding(r.Context(), p.UserID)
		if err != nil {
			fail(w, "failed to load onboarding", err, userField(p))
			return
		}
		writeJSON(w, http.StatusOK, status)
	}
}

func CompleteOnboarding(svc *services.ProfileService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := principal(r)
		var req struct {
			MonthlyIncome        formValue `json:"monthly_income"`
			MonthlySpending      formValue `json:"monthly_spending"`
			CurrentSavings       formValue `json:"current_savings"`
			MonthlyEMI           formValue `json:"monthly_emi"`
			FinancialGoals       []string  `json:"financial_goals"`
			RiskTolerance        string    `json:"risk_tolerance"`
			InvestmentExperience string    `json:"investment_experience"`
			FiveYearPlan         string    `json:"five_year_plan"`
		}
		if err := decodeBody(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request")
			return
		}
		record, err := svc.CompleteOnboarding(r.Context(), p.UserID, services.OnboardingInput{
			MonthlyIncome:        req.MonthlyIncome.String(),
			MonthlySpending:      req.MonthlySpending.String(),
			CurrentSavings:       req.CurrentSavings.String(),
			MonthlyEMI:           req.MonthlyEMI.String(),
			FinancialGoals:       req.FinancialGoals,
			RiskTolerance:        req.RiskTolerance,
			InvestmentExperience: req.InvestmentExperience,
			FiveYearPlan:         req.FiveYearPlan,
		})
		if err != nil {
			fail(w, "failed to complete onboarding", err, userField(p))
			return
		}
		logger.Get().Info("completed onboarding", userField(p))
		writeJSON(w, http.StatusCreated, map[string]interface{}{
			"record": record,
			"next":   "/dashboard",
		})
	}
}
