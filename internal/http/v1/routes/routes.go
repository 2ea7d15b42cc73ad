package routes

import (
	"net/url"

	"github.com/danielgtaylor/huma/v2"

	accounthandler "github.com/janisto/huma-contacts/internal/http/v1/account"
	"github.com/janisto/huma-contacts/internal/http/v1/contacts"
	"github.com/janisto/huma-contacts/internal/platform/auth"
	accountsvc "github.com/janisto/huma-contacts/internal/service/account"
	contactsvc "github.com/janisto/huma-contacts/internal/service/contact"
)

// Dependencies are the services the HTTP routes call into.
type Dependencies struct {
	Verifier auth.Verifier
	// LoginURL, when set, receives unauthenticated callers via 303.
	LoginURL string
	Contacts *contactsvc.Workflow
	// Accounts and Tokens are set only when the service issues its own tokens.
	Accounts *accountsvc.Service
	Tokens   accounthandler.TokenIssuer
}

// Register wires all HTTP routes into the provided API router.
func Register(api huma.API, deps Dependencies) {
	prefix := apiPrefix(api)

	var opts []auth.Option
	if deps.LoginURL != "" {
		opts = append(opts, auth.WithLoginURL(deps.LoginURL))
	}
	// Apply auth middleware for protected endpoints
	api.UseMiddleware(auth.NewAuthMiddleware(api, deps.Verifier, opts...))

	contacts.Register(api, deps.Contacts, prefix)
	if deps.Accounts != nil && deps.Tokens != nil {
		accounthandler.Register(api, deps.Accounts, deps.Tokens)
	}
}

func apiPrefix(api huma.API) string {
	for _, s := range api.OpenAPI().Servers {
		if u, err := url.Parse(s.URL); err == nil && u.Path != "" {
			return u.Path
		}
	}
	return ""
}
