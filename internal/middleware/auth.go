package middleware

import (
	"context"
	"net/http"
	"strings"

	"food-orders/internal/auth"

	"github.com/rs/zerolog"
)

// TokenCookie is the name of the session cookie set at login.
const TokenCookie = "token"

// TokenVerifier validates bearer tokens.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

type claimsKey struct{}

// ClaimsFrom returns the authenticated user's claims stored in ctx.
func ClaimsFrom(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*auth.Claims)
	return claims, ok && claims != nil
}

// WithClaims returns a copy of ctx carrying claims.
func WithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// Authenticate requires a valid token, read from the token cookie or an
// "Authorization: Bearer" header. A missing token is rejected with 401 and
// an invalid or expired one with 403.
func Authenticate(verifier TokenVerifier, logger zerolog.Logger) func(http.Handler) http.Handler {
	logger = logger.With().Str("middleware", "auth").Logger()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromRequest(r)
			if token == "" {
				logger.Debug().Str("path", r.URL.Path).Msg("missing token")
				writeError(w, r, http.StatusUnauthorized, "access denied, token required")
				return
			}

			claims, err := verifier.Verify(token)
			if err != nil {
				logger.Warn().
					Str("path", r.URL.Path).
					Str("request_id", RequestIDFrom(r.Context())).
					Msg("invalid token")
				writeError(w, r, http.StatusForbidden, "invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

func tokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(TokenCookie); err == nil && c.Value != "" {
		return c.Value
	}

	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(token)
	}

	return ""
}
