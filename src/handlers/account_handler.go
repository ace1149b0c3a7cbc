package handlers

import (
	"moneywise-server/src/logger"
	"moneywise-server/src/services"
	"net/http"

	"go.uber.org/zap"
)

func ListAccounts(svc *services.AccountService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := principal(r)
		view, err := svc.List(r.Context(), p.UserID)
		if err != nil {
			fail(w, "failed to list accounts", err, userField(p))
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

func CreateAccount(svc *services.AccountService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := principal(r)
		var req struct {
			Name     string    `json:"name"`
			Type     string    `json:"type"`
			Balance  formValue `json:"balance"`
			Currency string    `json:"currency"`
		}
		if err := decodeBody(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request")
			return
		}
		account, err := svc.Create(r.Context(), p.UserID, services.AccountInput{
			Name:     req.Name,
			Type:     req.Type,
			Balance:  req.Balance.String(),
			Currency: req.Currency,
		})
		if err != nil {
			fail(w, "failed to create account", err, userField(p))
			return
		}
		logger.Get().Info("created account", userField(p), zap.Stringer("account_id", account.ID))
		writeJSON(w, http.StatusCreated, account)
	}
}

func ListCategories(svc *services.TransactionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := svc.Categories(r.Context())
		if err != nil {
			fail(w, "failed to list categories", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"categories": categories})
	}
}
