package handlers

import (
	"moneywise-server/src/logger"
	"moneywise-server/src/services"
	"net/http"

	"go.uber.org/zap"
)

func CreateLinkToken(svc *services.AccountService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := principal(r)
		token, err := svc.CreateLinkToken(r.Context(), p.UserID)
		if err != nil {
			fail(w, "plaid link token creation failed", err, userField(p))
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"link_token": token})
	}
}

func ExchangePublicToken(svc *services.AccountService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := principal(r)
		var req struct {
			PublicToken string `json:"public_token"`
		}
		if err := decodeBody(r, &req); err != nil || req.PublicToken == "" {
			writeError(w, http.StatusBadRequest, "public_token is required")
			return
		}
		linked, err := svc.ExchangePublicToken(r.Context(), p.UserID, req.PublicToken)
		if err != nil {
			fail(w, "plaid public token exchange failed", err, userField(p))
			return
		}
		logger.Get().Info("linked bank item", userField(p), zap.Int("accounts", linked))
		writeJSON(w, http.StatusCreated, map[string]int{"accounts_linked": linked})
	}
}

func SyncAccounts(svc *services.AccountService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := principal(r)
		synced, err := svc.Sync(r.Context(), p.UserID)
		if err != nil {
			fail(w, "plaid account sync failed", err, userField(p))
			return
		}
		writeJSON(w, http.StatusOK, map[string]int{"accounts_synced": synced})
	}
}
