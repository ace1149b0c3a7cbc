package handlers

import (
	"errors"
	"moneywise-server/src/logger"
	"moneywise-server/src/repository"
	"moneywise-server/src/services"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const SavingsPath = "/dashboard/savings"

type savingsItemRequest struct {
	Title   string    `json:"title"`
	Amount  formValue `json:"amount"`
	Notes   string    `json:"notes"`
	DueDate string    `json:"due_date"`
}

type savingsPlanRequest struct {
	Title        string               `json:"title"`
	Description  string               `json:"description"`
	TargetAmount formValue            `json:"target_amount"`
	TargetDate   string               `json:"target_date"`
	Category     string               `json:"category"`
	Priority     string               `json:"priority"`
	Items        []savingsItemRequest `json:"items"`
}

func (req savingsPlanRequest) input() services.PlanInput {
	in := services.PlanInput{
		Title:        req.Title,
		Description:  req.Description,
		TargetAmount: req.TargetAmount.String(),
		TargetDate:   req.TargetDate,
		Category:     req.Category,
		Priority:     req.Priority,
		Items:        make([]services.ItemInput, len(req.Items)),
	}
	for i, it := range req.Items {
		in.Items[i] = services.ItemInput{
			Title:   it.Title,
			Amount:  it.Amount.String(),
			Notes:   it.Notes,
			DueDate: it.DueDate,
		}
	}
	return in
}

func CreateSavingsPlan(svc *services.SavingsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := principal(r)
		var req savingsPlanRequest
		if err := decodeBody(r, &req); err != nil {
			logger.Get().Error("failed to decode create savings plan request body", userField(p), zap.Error(err))
			writeError(w, http.StatusBadRequest, "invalid request")
			return
		}
		created, err := svc.CreatePlan(r.Context(), p.UserID, req.input())
		if err != nil {
			fail(w, "failed to create savings plan", err, userField(p))
			return
		}
		logger.Get().Info("created savings plan", userField(p),
			zap.Stringer("plan_id", created.Plan.ID),
			zap.Int("items", len(created.Items)))
		writeJSON(w, http.StatusCreated, map[string]interface{}{
			"plan":  created.Plan,
			"items": created.Items,
			"next":  SavingsPath,
		})
	}
}

func ListSavingsPlans(svc *services.SavingsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := principal(r)
		plans, err := svc.ListPlans(r.Context(), p.UserID)
		if err != nil {
			fail(w, "failed to list savings plans", err, userField(p))
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"plans": plans})
	}
}

// GetSavingsPlan sends the user back to their plans when the plan is missing
// or not theirs.
func GetSavingsPlan(svc *services.SavingsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := principal(r)
		planID, err := uuid.Parse(chi.URLParam(r, "plan_id"))
		if err != nil {
			http.Redirect(w, r, SavingsPath, http.StatusSeeOther)
			return
		}
		detail, err := svc.GetPlan(r.Context(), p.UserID, planID)
		if errors.Is(err, repository.ErrNotFound) {
			http.Redirect(w, r, SavingsPath, http.StatusSeeOther)
			return
		}
		if err != nil {
			fail(w, "failed to load savings plan", err, userField(p), zap.Stringer("plan_id", planID))
			return
		}
		writeJSON(w, http.StatusOK, detail)
	}
}
