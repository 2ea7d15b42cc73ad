// Package firebase builds the Firebase Admin clients the server needs.
package firebase

import (
	"context"
	"errors"
	"fmt"
	"os"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// Config selects the project and which clients to create.
type Config struct {
	ProjectID       string
	CredentialsFile string // service account JSON; empty means ADC or the emulators
	EnableAuth      bool
	EnableFirestore bool
}

// Clients holds the created clients. A client is nil when it was not enabled.
type Clients struct {
	Auth      *auth.Client
	Firestore *firestore.Client
}

// InitializeClients creates the enabled clients for cfg.ProjectID.
func InitializeClients(ctx context.Context, cfg Config) (*Clients, error) {
	if cfg.ProjectID == "" {
		return nil, errors.New("firebase: project ID is required")
	}

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		creds, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("firebase: read credentials: %w", err)
		}
		opts = append(opts, option.WithCredentialsJSON(creds))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase: new app: %w", err)
	}

	clients := &Clients{}
	if cfg.EnableAuth {
		if clients.Auth, err = app.Auth(ctx); err != nil {
			return nil, fmt.Errorf("firebase: auth client: %w", err)
		}
	}
	if cfg.EnableFirestore {
		if clients.Firestore, err = app.Firestore(ctx); err != nil {
			return nil, fmt.Errorf("firebase: firestore client: %w", err)
		}
	}
	return clients, nil
}

// Close releases the Firestore client, if any.
func (c *Clients) Close() error {
	if c == nil || c.Firestore == nil {
		return nil
	}
	return c.Firestore.Close()
}
