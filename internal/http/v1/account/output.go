package account

import "github.com/janisto/huma-contacts/internal/platform/timeutil"

// Token is an issued bearer token.
type Token struct {
	AccessToken string        `json:"accessToken" doc:"Bearer token for the Authorization header"`
	TokenType   string        `json:"tokenType"   doc:"Always Bearer" example:"Bearer"`
	ExpiresAt   timeutil.Time `json:"expiresAt"   doc:"Token expiry"  example:"2024-01-16T10:30:00.000Z"`
	Email       string        `json:"email"       doc:"Account email" example:"jo@example.com"`
}

// RegisterOutput for POST /auth/register (201 Created)
type RegisterOutput struct {
	Body Token
}

// LoginOutput for POST /auth/login
type LoginOutput struct {
	Body Token
}
