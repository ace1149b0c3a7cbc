package middleware

import (
	"fmt"
	"moneywise-server/src/logger"
	"moneywise-server/src/models"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	SessionCookie = "sb-access-token"
	LoginPath     = "/auth/login"

	serviceRole = "service_role"
)

type Authenticator struct {
	secret []byte
	issuer string
}

// NewAuthenticator verifies HS256 tokens signed with secret. When supabaseURL
// is set the issuer must be its auth endpoint.
func NewAuthenticator(secret, supabaseURL string) *Authenticator {
	a := &Authenticator{secret: []byte(secret)}
	if supabaseURL != "" {
		a.issuer = strings.TrimSuffix(supabaseURL, "/") + "/auth/v1"
	}
	return a
}

// extractToken prefers the Authorization header over the session cookie.
func extractToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		return cookie.Value
	}
	return ""
}

// ParseTokenFromRequest extracts and validates the access token, returning the
// principal it names.
func (a *Authenticator) ParseTokenFromRequest(r *http.Request) (Principal, error) {
	tokenString := extractToken(r)
	if tokenString == "" {
		return Principal{}, fmt.Errorf("missing token")
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if a.issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.issuer))
	}

	claims := &models.SupabaseClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.secret, nil
	}, opts...)
	if err != nil || !token.Valid {
		return Principal{}, fmt.Errorf("invalid token: %w", err)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return Principal{}, fmt.Errorf("invalid token subject %q", claims.Subject)
	}
	return Principal{UserID: userID, Email: claims.Email, Role: claims.Role}, nil
}

// SessionMiddleware requires a valid session and redirects to the login page
// otherwise.
func (a *Authenticator) SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, err := a.ParseTokenFromRequest(r)
		if err != nil {
			logger.Get().Debug("session rejected", zap.String("path", r.URL.Path), zap.Error(err))
			http.Redirect(w, r, LoginPath, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
	})
}
