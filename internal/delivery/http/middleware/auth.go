package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	h "blogapi/internal/delivery/http/helpers"
	"blogapi/internal/domain"
)

// CookieName is the cookie carrying the session token.
const CookieName = "jwt"

type contextKey string

const principalKey contextKey = "principal"

// WithPrincipal returns a context carrying the authenticated caller.
func WithPrincipal(ctx context.Context, p domain.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromContext returns the authenticated caller from the context, if present.
func PrincipalFromContext(ctx context.Context) (domain.Principal, bool) {
	p, ok := ctx.Value(principalKey).(domain.Principal)
	return p, ok
}

var errNoCredential = errors.New("no credential")

// tokenFromRequest prefers the session cookie and falls back to a Bearer header.
func tokenFromRequest(r *http.Request) (string, error) {
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		return c.Value, nil
	}
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if strings.HasPrefix(auth, prefix) {
		if token := strings.TrimSpace(auth[len(prefix):]); token != "" {
			return token, nil
		}
	}
	return "", errNoCredential
}

// RequireRole returns a middleware that verifies the session token and checks the caller's role.
// A missing, invalid or expired token gets 401; a valid token with an insufficient role gets 403.
func RequireRole(verifier domain.TokenVerifier, level domain.AccessLevel, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := tokenFromRequest(r)
			if err != nil {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "missing session")
				return
			}
			claims, err := verifier.Verify(token)
			if err != nil {
				logger.DebugContext(r.Context(), "token rejected", "path", r.URL.Path, "err", err)
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid or expired session")
				return
			}
			if !claims.Satisfies(level) {
				h.WriteJSONError(w, http.StatusForbidden, h.ErrCodeForbidden, "insufficient role")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), claims.Principal)))
		})
	}
}

// RequireSession admits any caller holding a valid session token.
func RequireSession(verifier domain.TokenVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return RequireRole(verifier, domain.LevelSession, logger)
}
