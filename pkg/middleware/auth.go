package middleware

import (
	"net/http"
	"strings"

	"account-portal/pkg/utils"

	"go.uber.org/zap"
)

// Auth validates the stateless session token and stores its claims in the
// request context. The token is taken from the Authorization header
// (Bearer scheme) or, failing that, from the session cookie the login
// endpoint sets.
func Auth(secret string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				utils.ResponseUnauthorized(w, "Missing authorization token")
				return
			}

			claims, err := utils.ParseToken(token, secret)
			if err != nil {
				logger.Warn("Invalid or expired session token",
					zap.String("path", r.URL.Path),
					zap.Error(err))
				utils.ResponseUnauthorized(w, "Invalid or expired session")
				return
			}

			ctx := utils.SetClaimsContext(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Admin gates admin-only routes. Must run after Auth so the claims are in
// the context; the decision is made from the claims alone, no store lookup.
func Admin(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := utils.GetClaimsFromContext(r.Context())
			if !ok {
				utils.ResponseUnauthorized(w, "Authentication required")
				return
			}

			if !claims.IsAdmin {
				logger.Warn("Non-admin access attempt",
					zap.String("user_id", claims.UserID),
					zap.String("path", r.URL.Path))
				utils.ResponseForbidden(w, "Admin access required")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
		return ""
	}

	cookie, err := r.Cookie(utils.SessionCookie)
	if err != nil {
		return ""
	}
	return cookie.Value
}
