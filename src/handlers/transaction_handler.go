package handlers

import (
	"moneywise-server/src/logger"
	"moneywise-server/src/services"
	"net/http"

	"go.uber.org/zap"
)

func ListTransactions(svc *services.TransactionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := principal(r)
		q := r.URL.Query()
		view, err := svc.List(r.Context(), p.UserID, services.TransactionQuery{
			Type:       q.Get("type"),
			CategoryID: q.Get("category_id"),
			From:       q.Get("from"),
			To:         q.Get("to"),
			Limit:      q.Get("limit"),
		})
		if err != nil {
			fail(w, "failed to list transactions", err, userField(p))
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

func CreateTransaction(svc *services.TransactionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := principal(r)
		var req struct {
			AccountID   string    `json:"account_id"`
			CategoryID  formValue `json:"category_id"`
			Type        string    `json:"type"`
			Amount      formValue `json:"amount"`
			Description string    `json:"description"`
			Date        string    `json:"date"`
		}
		if err := decodeBody(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request")
			return
		}
		txn, err := svc.Create(r.Context(), p.UserID, services.TransactionInput{
			AccountID:   req.AccountID,
			CategoryID:  req.CategoryID.String(),
			Type:        req.Type,
			Amount:      req.Amount.String(),
			Description: req.Description,
			Date:        req.Date,
		})
		if err != nil {
			fail(w, "failed to create transaction", err, userField(p))
			return
		}
		logger.Get().Info("created transaction", userField(p), zap.Stringer("transaction_id", txn.ID), zap.String("type", txn.Type))
		writeJSON(w, http.StatusCreated, txn)
	}
}
