package handlers

import (
	"moneywise-server/src/logger"
	"moneywise-server/src/services"
	"net/http"

	"go.uber.org/zap"
)

func ListGoals(svc *services.GoalService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := principal(r)
		view, err := svc.List(r.Context(), p.UserID)
		if err != nil {
			fail(w, "failed to list goals", err, userField(p))
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

func CreateGoal(svc *services.GoalService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := principal(r)
		var req struct {
			Name          string    `json:"name"`
			Description   string    `json:"description"`
			TargetAmount  formValue `json:"target_amount"`
			CurrentAmount formValue `json:"current_amount"`
			TargetDate    string    `json:"target_date"`
		}
		if err := decodeBody(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request")
			return
		}
		goal, err := svc.Create(r.Context(), p.UserID, services.GoalInput{
			Name:          req.Name,
			Description:   req.Description,
			TargetAmount:  req.TargetAmount.String(),
			CurrentAmount: req.CurrentAmount.String(),
			TargetDate:    req.TargetDate,
		})
		if err != nil {
			fail(w, "failed to create goal", err, userField(p))
			return
		}
		logger.Get().Info("created goal", userField(p), zap.Stringer("goal_id", goal.ID))
		writeJSON(w, http.StatusCreated, goal)
	}
}
