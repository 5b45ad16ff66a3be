package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/raulgonca/projectsync/logging"
	"github.com/raulgonca/projectsync/utils"
)

type contextKey string

const claimsKey contextKey = "claims"

// CallerFromContext returns the authenticated caller's claims, placed
// there by the auth middleware.
func CallerFromContext(ctx context.Context) (*utils.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*utils.Claims)
	return claims, ok
}

// JWTAuth rejects requests without a valid bearer token and stores the
// claims in the request context.
func JWTAuth(next http.Handler) http.Handler {
	return authHandler(next, false)
}

// JWTAuthWithQueryToken additionally accepts the token as a `token` query
// parameter. Only the ZIP download route uses it, so that plain browser
// download links work.
func JWTAuthWithQueryToken(next http.Handler) http.Handler {
	return authHandler(next, true)
}

func authHandler(next http.Handler, allowQuery bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr := ""
		if authHeader := r.Header.Get("Authorization"); authHeader != "" {
			tokenStr = strings.TrimPrefix(authHeader, "Bearer ")
		} else if allowQuery {
			tokenStr = r.URL.Query().Get("token")
		}
		if tokenStr == "" {
			logging.Logger.Warnf("Event ID: JWT_AUTH_MISSING_TOKEN, Description: No token for request to %s %s", r.Method, r.URL.Path)
			http.Error(w, "Authorization header missing", http.StatusUnauthorized)
			return
		}

		claims, err := utils.ValidateToken(tokenStr)
		if err != nil {
			logging.Logger.Warnf("Event ID: JWT_AUTH_INVALID_TOKEN, Description: Invalid token for request to %s %s: %v", r.Method, r.URL.Path, err)
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey, claims)))
	})
}
