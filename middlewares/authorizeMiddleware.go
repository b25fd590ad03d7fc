package middleware

import "net/http"

// Authorized checks the caller's role against a required set. This is a
// plain capability check independent of route declaration order.
func Authorized(callerRole string, required ...string) bool {
	for _, role := range required {
		if callerRole == role {
			return true
		}
	}
	return false
}

// RequireRoles wraps a handler with a role-set check. Must run inside the
// Authentication middleware so the role claim is in context.
func RequireRoles(required ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !Authorized(GetRoleFromContext(r), required...) {
				http.Error(w, `{"success": false, "message": "Forbidden"}`, http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
