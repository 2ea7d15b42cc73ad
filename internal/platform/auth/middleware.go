package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"

	"github.com/janisto/huma-contacts/internal/platform/logging"
)

type userContextKey struct{}

type middlewareConfig struct {
	loginURL string
}

// Option configures NewAuthMiddleware.
type Option func(*middlewareConfig)

// WithLoginURL sends unauthenticated callers a 303 to url instead of a 401.
func WithLoginURL(url string) Option {
	return func(c *middlewareConfig) { c.loginURL = url }
}

// NewAuthMiddleware authenticates operations that declare Security.
// A verified token without an email is treated as unauthenticated, since the email is the owner key.
func NewAuthMiddleware(api huma.API, verifier Verifier, opts ...Option) func(huma.Context, func(huma.Context)) {
	cfg := middlewareConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	unauthenticated := func(ctx huma.Context, msg string) {
		if cfg.loginURL != "" {
			ctx.SetHeader("Location", cfg.loginURL)
			_ = huma.WriteErr(api, ctx, http.StatusSeeOther, http.StatusText(http.StatusSeeOther))
			return
		}
		ctx.SetHeader("WWW-Authenticate", "Bearer")
		_ = huma.WriteErr(api, ctx, http.StatusUnauthorized, msg)
	}

	return func(ctx huma.Context, next func(huma.Context)) {
		if len(ctx.Operation().Security) == 0 {
			next(ctx)
			return
		}

		token, err := ExtractBearerToken(ctx.Header("Authorization"))
		if err != nil {
			logging.LogWarn(ctx.Context(), "auth failed: missing or invalid header",
				zap.String("reason", "no_token"))
			unauthenticated(ctx, "missing or invalid authorization header")
			return
		}

		user, err := verifier.Verify(ctx.Context(), token)
		if err == nil && user.Identity() == "" {
			err = ErrNoIdentity
		}
		if err != nil {
			logging.LogWarn(ctx.Context(), "auth failed: token verification failed",
				zap.String("reason", categorizeAuthError(err)))
			if errors.Is(err, ErrCertificateFetch) {
				ctx.SetHeader("Retry-After", "30")
				_ = huma.WriteErr(api, ctx, http.StatusServiceUnavailable,
					"authentication service temporarily unavailable")
				return
			}
			unauthenticated(ctx, "invalid or expired token")
			return
		}

		goCtx := context.WithValue(ctx.Context(), userContextKey{}, user)
		goCtx = logging.WithFields(goCtx, zap.String("userId", user.UID))
		next(huma.WithContext(ctx, goCtx))
	}
}

func categorizeAuthError(err error) string {
	switch {
	case errors.Is(err, ErrTokenExpired):
		return "token_expired"
	case errors.Is(err, ErrTokenRevoked):
		return "token_revoked"
	case errors.Is(err, ErrUserDisabled):
		return "user_disabled"
	case errors.Is(err, ErrCertificateFetch):
		return "certificate_fetch_failed"
	case errors.Is(err, ErrNoIdentity):
		return "no_identity"
	case errors.Is(err, ErrInvalidToken):
		return "invalid_token"
	default:
		return "unknown"
	}
}

// UserFromContext returns the authenticated caller, or nil.
func UserFromContext(ctx context.Context) *User {
	user, _ := ctx.Value(userContextKey{}).(*User)
	return user
}

// IdentityFromContext returns the caller's normalized email, or "".
func IdentityFromContext(ctx context.Context) string {
	return UserFromContext(ctx).Identity()
}
