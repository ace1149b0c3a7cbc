package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"moneywise-server/src/logger"
	"moneywise-server/src/middleware"
	"moneywise-server/src/repository"
	"moneywise-server/src/services"
	"net/http"

	"go.uber.org/zap"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// fail reports err to the client as an inline error message. Unexpected
// errors are also logged under msg.
func fail(w http.ResponseWriter, msg string, err error, fields ...zap.Field) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Get().Error(msg, append(fields, zap.Error(err))...)
	}
	writeError(w, status, err.Error())
}

// statusFor maps service and repository errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrNotPurchased), errors.Is(err, services.ErrTemplateOwned):
		return http.StatusForbidden
	case errors.Is(err, services.ErrPriceChanged):
		return http.StatusConflict
	case errors.Is(err, services.ErrLinkingDisabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// principal returns the session principal. Routes using it sit behind the
// session middleware, which always sets one.
func principal(r *http.Request) middleware.Principal {
	p, _ := middleware.PrincipalFrom(r.Context())
	return p
}

func userField(p middleware.Principal) zap.Field {
	return zap.String("user_id", p.UserID.String())
}

// decodeBody decodes a JSON body into v. An empty body leaves v untouched.
func decodeBody(r *http.Request, v interface{}) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// formValue accepts a JSON string or number, as form inputs send either.
type formValue string

func (v *formValue) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*v = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*v = formValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*v = formValue(n.String())
	return nil
}

func (v formValue) String() string {
	return string(v)
}
