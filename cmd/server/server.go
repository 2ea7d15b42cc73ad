package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/janisto/huma-contacts/internal/http/health"
	"github.com/janisto/huma-contacts/internal/http/v1/routes"
	"github.com/janisto/huma-contacts/internal/platform/auth"
	"github.com/janisto/huma-contacts/internal/platform/config"
	"github.com/janisto/huma-contacts/internal/platform/firebase"
	"github.com/janisto/huma-contacts/internal/platform/logging"
	"github.com/janisto/huma-contacts/internal/platform/metrics"
	"github.com/janisto/huma-contacts/internal/platform/middleware"
	"github.com/janisto/huma-contacts/internal/platform/respond"
	"github.com/janisto/huma-contacts/internal/platform/sqlitedb"
	accountsvc "github.com/janisto/huma-contacts/internal/service/account"
	contactsvc "github.com/janisto/huma-contacts/internal/service/contact"
)

const (
	apiPrefix = "/v1"
	docsPath  = "/api-docs"
)

// backends are the stores and identity pieces selected by the config.
type backends struct {
	contacts contactsvc.Store
	// accounts and tokens are nil when Firebase issues the tokens.
	accounts accountsvc.Store
	tokens   *auth.JWTManager
	verifier auth.Verifier
	checks   map[string]health.Check
	closers  []func() error
}

// Close releases the backends in reverse order of creation.
func (b *backends) Close() error {
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		errs = append(errs, b.closers[i]())
	}
	return errors.Join(errs...)
}

// openBackends connects the configured store and identity provider.
// On error every resource opened so far is released.
func openBackends(ctx context.Context, cfg config.Config) (_ *backends, err error) {
	b := &backends{checks: make(map[string]health.Check)}
	defer func() {
		if err != nil {
			_ = b.Close()
		}
	}()

	var clients *firebase.Clients
	if cfg.NeedsFirebase() {
		clients, err = firebase.InitializeClients(ctx, firebase.Config{
			ProjectID:       cfg.FirebaseProjectID,
			CredentialsFile: cfg.CredentialsFile,
			EnableAuth:      cfg.AuthMode == config.AuthFirebase,
			EnableFirestore: cfg.Store == config.StoreFirestore,
		})
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, clients.Close)
	}

	switch cfg.Store {
	case config.StoreSQLite:
		db, err := sqlitedb.Open(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, db.Close)
		b.checks["sqlite"] = db.PingContext

		if b.contacts, err = contactsvc.NewSQLiteStore(ctx, db); err != nil {
			return nil, err
		}
		if cfg.AuthMode == config.AuthLocal {
			if b.accounts, err = accountsvc.NewSQLiteStore(ctx, db); err != nil {
				return nil, err
			}
		}
	case config.StoreFirestore:
		store := contactsvc.NewFirestoreStore(clients.Firestore)
		b.contacts = store
		b.checks["firestore"] = store.Ping
	case config.StoreMemory:
		b.contacts = contactsvc.NewMockStore()
		if cfg.AuthMode == config.AuthLocal {
			b.accounts = accountsvc.NewMockStore()
		}
	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}

	switch cfg.AuthMode {
	case config.AuthLocal:
		b.tokens = auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
		b.verifier = b.tokens
	case config.AuthFirebase:
		b.verifier = auth.NewFirebaseVerifier(clients.Auth)
	default:
		return nil, fmt.Errorf("unknown auth mode %q", cfg.AuthMode)
	}

	return b, nil
}

// addCBORContentTypes mirrors every JSON request and response body as CBOR in the OpenAPI document.
func addCBORContentTypes(_ *huma.OpenAPI, op *huma.Operation) {
	if op.RequestBody != nil && op.RequestBody.Content != nil {
		if jsonContent, ok := op.RequestBody.Content["application/json"]; ok {
			op.RequestBody.Content["application/cbor"] = jsonContent
		}
	}
	for _, resp := range op.Responses {
		if resp.Content == nil {
			continue
		}
		if jsonContent, ok := resp.Content["application/json"]; ok {
			resp.Content["application/cbor"] = jsonContent
		}
	}
}

// newAPI builds the versioned huma API on r. The server URL carries the
// mount prefix so generated links and docs resolve under it.
func newAPI(r chi.Router) huma.API {
	cfg := huma.DefaultConfig("Contacts API", Version)
	cfg.DocsPath = docsPath
	cfg.Servers = []*huma.Server{{URL: apiPrefix}}
	cfg.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearerAuth": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "JWT",
		},
	}
	// Allow JSON fallback for wildcard Accept headers (e.g., */*) since Huma's
	// negotiation uses exact matching and doesn't interpret wildcards per
	// RFC 9110 section 12.5.1.
	api := humachi.New(r, cfg)
	api.OpenAPI().OnAddOperation = append(api.OpenAPI().OnAddOperation, addCBORContentTypes)
	return api
}

// newRouter assembles the middleware stack, the operational endpoints and the v1 API.
func newRouter(cfg config.Config, b *backends) (*chi.Mux, error) {
	m, err := metrics.New(prometheus.NewRegistry())
	if err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}

	router := chi.NewRouter()
	router.NotFound(respond.NotFoundHandler())
	router.MethodNotAllowed(respond.MethodNotAllowedHandler())

	router.Use(
		middleware.Security(apiPrefix+docsPath),
		middleware.Vary(),
		middleware.CORS(cfg.CORSAllowedOrigins...),
		middleware.RequestID(),
		// RealIP extracts client IP from X-Real-IP or X-Forwarded-For headers.
		// SECURITY: Only use behind a trusted reverse proxy (e.g., Cloud Run, nginx).
		chimiddleware.RealIP,
		chimiddleware.RequestSize(cfg.MaxBodyBytes),
		logging.RequestLogger(),
		logging.AccessLogger(),
		m.Middleware(),
		respond.Recoverer(),
	)

	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		respond.WriteRedirect(w, r, apiPrefix+"/contacts", http.StatusSeeOther)
	})
	router.Get("/health", health.Handler(Version, b.checks))
	router.Method(http.MethodGet, "/metrics", m.Handler())

	deps := routes.Dependencies{
		Verifier: b.verifier,
		LoginURL: cfg.LoginURL,
		Contacts: contactsvc.NewWorkflow(b.contacts, m),
	}
	if b.accounts != nil && b.tokens != nil {
		deps.Accounts = accountsvc.NewService(b.accounts)
		deps.Tokens = b.tokens
	}

	router.Route(apiPrefix, func(r chi.Router) {
		routes.Register(newAPI(r), deps)
	})
	return router, nil
}
