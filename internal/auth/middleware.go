package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
)

// contextKey is an unexported type for this package's context keys, so no
// other package can read or shadow the claims we store on a request.
type contextKey string

const claimsKey contextKey = "claims"

// RequireAuth enforces authentication on protected routes.
//
// It reads the bearer token from the Authorization header and validates it.
// A missing token is 401; a present-but-invalid token (malformed, tampered,
// expired) is 403. Beyond that split, all invalid tokens get the identical
// response — the reason is only logged, never reported, so a caller can't
// probe which check failed.
func RequireAuth(tokens *TokenService, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := bearerToken(r)
			if tokenStr == "" {
				http.Error(w, `{"error":"unauthorized","message":"authentication token required"}`, http.StatusUnauthorized)
				return
			}

			claims, err := tokens.Validate(tokenStr)
			if err != nil {
				// Expired vs malformed matters for the logs, not the response.
				if errors.Is(err, ErrTokenExpired) {
					logger.Info("rejected expired token", slog.String("path", r.URL.Path))
				} else {
					logger.Warn("rejected invalid token",
						slog.String("path", r.URL.Path),
						slog.String("error", err.Error()),
					)
				}
				http.Error(w, `{"error":"forbidden","message":"invalid or expired token"}`, http.StatusForbidden)
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext retrieves the authenticated identity from the request
// context. The second return is false for anonymous requests.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(claimsKey).(*Claims)
	return c, ok && c != nil && c.UserID != ""
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header. Returns "" if the header is absent or not in bearer form.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
