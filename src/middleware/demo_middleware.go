package middleware

import (
	"net/http"
)

// DemoModeMiddleware makes the routes it wraps read-only for everyone but
// service-role principals. It must run after the session middleware.
func DemoModeMiddleware(isDemo bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !isDemo || r.Method == http.MethodGet || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}
			if p, ok := PrincipalFrom(r.Context()); ok && p.Role == serviceRole {
				next.ServeHTTP(w, r)
				return
			}
			http.Error(w, "Demo mode: only GET requests are allowed", http.StatusForbidden)
		})
	}
}
