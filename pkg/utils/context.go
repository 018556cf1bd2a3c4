package utils

import "context"

type contextKey string

const ClaimsKey contextKey = "claims"

// SetClaimsContext stores verified session claims for downstream handlers.
func SetClaimsContext(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, ClaimsKey, claims)
}

// GetClaimsFromContext returns the session claims set by the auth middleware.
func GetClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claimsVal := ctx.Value(ClaimsKey)
	if claimsVal == nil {
		return nil, false
	}

	claims, ok := claimsVal.(*Claims)
	return claims, ok
}
