package account

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/janisto/huma-contacts/internal/platform/logging"
	"github.com/janisto/huma-contacts/internal/platform/timeutil"
	accountsvc "github.com/janisto/huma-contacts/internal/service/account"
)

// TokenIssuer signs bearer tokens for an account.
type TokenIssuer interface {
	Issue(uid, email string) (string, time.Time, error)
}

// Register registers local account endpoints. They are unauthenticated.
func Register(api huma.API, svc *accountsvc.Service, tokens TokenIssuer) {
	huma.Register(api, huma.Operation{
		OperationID:   "register-account",
		Method:        http.MethodPost,
		Path:          "/auth/register",
		Summary:       "Register a local account",
		Description:   "Creates an account and returns a bearer token for it.",
		Tags:          []string{"Auth"},
		DefaultStatus: http.StatusCreated,
	}, func(ctx context.Context, input *RegisterInput) (*RegisterOutput, error) {
		u, err := svc.Register(ctx, input.Body.Email, input.Body.Password)
		if err != nil {
			return nil, mapServiceError(ctx, err)
		}
		tok, err := issue(ctx, tokens, u)
		if err != nil {
			return nil, err
		}
		return &RegisterOutput{Body: tok}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/auth/login",
		Summary:     "Log in with a local account",
		Description: "Verifies the email and password and returns a bearer token.",
		Tags:        []string{"Auth"},
	}, func(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
		u, err := svc.Authenticate(ctx, input.Body.Email, input.Body.Password)
		if err != nil {
			return nil, mapServiceError(ctx, err)
		}
		tok, err := issue(ctx, tokens, u)
		if err != nil {
			return nil, err
		}
		return &LoginOutput{Body: tok}, nil
	})
}

func issue(ctx context.Context, tokens TokenIssuer, u *accountsvc.User) (Token, error) {
	signed, exp, err := tokens.Issue(u.ID, u.Email)
	if err != nil {
		logging.LogError(ctx, "token issue failed", err)
		return Token{}, huma.Error500InternalServerError("internal error")
	}
	return Token{
		AccessToken: signed,
		TokenType:   "Bearer",
		ExpiresAt:   timeutil.NewTime(exp),
		Email:       u.Email,
	}, nil
}

func mapServiceError(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, accountsvc.ErrEmailExists):
		return huma.Error409Conflict("email already registered")
	case errors.Is(err, accountsvc.ErrInvalidCredentials):
		return huma.Error401Unauthorized("invalid email or password")
	case errors.Is(err, accountsvc.ErrInvalidEmail),
		errors.Is(err, accountsvc.ErrWeakPassword),
		errors.Is(err, accountsvc.ErrPasswordTooLong):
		return huma.Error422UnprocessableEntity(err.Error())
	default:
		logging.LogError(ctx, "account operation failed", err)
		return huma.Error500InternalServerError("internal error")
	}
}
