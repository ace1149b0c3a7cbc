package handlers

import (
	"moneywise-server/src/logger"
	"moneywise-server/src/services"
	"net/http"

	"go.uber.org/zap"
)

func CreateBudget(svc *services.BudgetService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := principal(r)
		var req struct {
			CategoryID formValue `json:"category_id"`
			Amount     formValue `json:"amount"`
			Period     string    `json:"period"`
			StartDate  string    `json:"start_date"`
			EndDate    string    `json:"end_date"`
		}
		if err := decodeBody(r, &req); err != nil {
			logger.Get().Error("failed to decode create budget request body", userField(p), zap.Error(err))
			writeError(w, http.StatusBadRequest, "invalid request")
			return
		}
		budget, err := svc.Create(r.Context(), p.UserID, services.BudgetInput{
			CategoryID: req.CategoryID.String(),
			Amount:     req.Amount.String(),
			Period:     req.Period,
			StartDate:  req.StartDate,
			EndDate:    req.EndDate,
		})
		if err != nil {
			fail(w, "failed to create budget", err, userField(p))
			return
		}
		logger.Get().Info("created budget", userField(p),
			zap.Stringer("budget_id", budget.ID),
			zap.Int64("category_id", budget.CategoryID))
		writeJSON(w, http.StatusCreated, budget)
	}
}

func GetAllBudgetsForUser(svc *services.BudgetService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := principal(r)
		view, err := svc.List(r.Context(), p.UserID)
		if err != nil {
			fail(w, "failed to list budgets", err, userField(p))
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}
