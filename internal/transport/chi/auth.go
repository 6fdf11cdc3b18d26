package chi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/riskboard/internal/domain"
	"github.com/kailas-cloud/riskboard/internal/logger"
	authuc "github.com/kailas-cloud/riskboard/internal/usecase/auth"
)

// exemptPaths are routes that bypass authentication (health, metrics, login).
var exemptPaths = map[string]struct{}{
	"/health":                    {},
	"/metrics":                   {},
	apiPrefix + "/auth/login":    {},
	apiPrefix + "/auth/register": {},
}

// Authenticator resolves bearer tokens to principals.
type Authenticator interface {
	Enabled() bool
	Authenticate(ctx context.Context, token string) (authuc.Principal, error)
}

type principalKey struct{}

// anonymous is the principal used when authentication is disabled.
var anonymous = authuc.Principal{ProfileID: authuc.APIKeyProfile, APIKey: true}

// ContextWithPrincipal stores the authenticated caller in ctx.
func ContextWithPrincipal(ctx context.Context, p authuc.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the caller stored by BearerAuthMiddleware,
// or the anonymous api principal.
func PrincipalFromContext(ctx context.Context) authuc.Principal {
	if p, ok := ctx.Value(principalKey{}).(authuc.Principal); ok {
		return p
	}
	return anonymous
}

func profileOf(r *http.Request) string { return PrincipalFromContext(r.Context()).ProfileID }

// bearerToken extracts the token of a "Bearer" Authorization header.
func bearerToken(r *http.Request) (token string, present bool, ok bool) {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return "", false, false
	}
	const bearerPrefix = "Bearer "
	if !strings.HasPrefix(auth, bearerPrefix) {
		return "", true, false
	}
	return strings.TrimSpace(auth[len(bearerPrefix):]), true, true
}

// BearerAuthMiddleware returns a middleware that validates Bearer tokens
// (static API keys or login sessions) and stores the principal in the context.
// If authn has no API keys and no demo users, requests without a token pass
// through as the shared api profile.
func BearerAuthMiddleware(authn Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Exempt paths
			if _, ok := exemptPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			token, present, ok := bearerToken(r)
			switch {
			case !present && !authn.Enabled():
				next.ServeHTTP(w, r.WithContext(ContextWithPrincipal(r.Context(), anonymous)))
				return
			case !present:
				writeError(w, http.StatusUnauthorized, CodeUnauthorized, "missing authorization header")
				return
			case !ok:
				writeError(w, http.StatusUnauthorized, CodeUnauthorized, "authorization header must use Bearer scheme")
				return
			}

			p, err := authn.Authenticate(r.Context(), token)
			if err != nil {
				if errors.Is(err, domain.ErrUnauthorized) {
					writeError(w, http.StatusUnauthorized, CodeUnauthorized, "invalid or expired token")
					return
				}
				logger.FromContext(r.Context()).Error("authenticate", zap.Error(err))
				writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
				return
			}

			ctx := ContextWithPrincipal(r.Context(), p)
			ctx = logger.With(ctx, zap.String("profile", p.ProfileID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
