// Package config loads runtime settings from the environment, optionally seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends.
const (
	StoreSQLite    = "sqlite"
	StoreFirestore = "firestore"
	StoreMemory    = "memory"
)

// Identity providers.
const (
	AuthLocal    = "local"
	AuthFirebase = "firebase"
)

const minJWTSecretLength = 32

// Config holds the server settings.
type Config struct {
	Port string

	Store  string
	DBPath string

	FirebaseProjectID string
	CredentialsFile   string

	AuthMode  string
	JWTSecret string
	JWTTTL    time.Duration
	// LoginURL, when set, is where unauthenticated requests are redirected.
	LoginURL string

	CORSAllowedOrigins []string
	MaxBodyBytes       int64
}

// Load reads the optional .env files and then the process environment.
// Variables already present in the environment win over the files.
func Load(files ...string) (Config, error) {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment and validates it.
func FromEnv() (Config, error) {
	cfg := Config{
		Port:               getenv("PORT", "8080"),
		Store:              strings.ToLower(getenv("STORE", StoreSQLite)),
		DBPath:             getenv("DB_PATH", "./data/contacts.db"),
		FirebaseProjectID:  os.Getenv("FIREBASE_PROJECT_ID"),
		CredentialsFile:    os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		AuthMode:           strings.ToLower(getenv("AUTH_MODE", AuthLocal)),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		LoginURL:           strings.TrimSpace(os.Getenv("LOGIN_URL")),
		CORSAllowedOrigins: splitList(getenv("CORS_ALLOWED_ORIGINS", "*")),
	}

	ttl, err := time.ParseDuration(getenv("JWT_TTL", "24h"))
	if err != nil {
		return Config{}, fmt.Errorf("JWT_TTL: %w", err)
	}
	cfg.JWTTTL = ttl

	maxBody, err := strconv.ParseInt(getenv("MAX_BODY_BYTES", "1048576"), 10, 64)
	if err != nil {
		return Config{}, fmt.Errorf("MAX_BODY_BYTES: %w", err)
	}
	cfg.MaxBodyBytes = maxBody

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints.
func (c Config) Validate() error {
	var errs []error

	switch c.Store {
	case StoreSQLite:
		if c.DBPath == "" {
			errs = append(errs, errors.New("DB_PATH is required for the sqlite store"))
		}
	case StoreFirestore:
		if c.FirebaseProjectID == "" {
			errs = append(errs, errors.New("FIREBASE_PROJECT_ID is required for the firestore store"))
		}
	case StoreMemory:
	default:
		errs = append(errs, fmt.Errorf("STORE must be one of sqlite, firestore, memory; got %q", c.Store))
	}

	switch c.AuthMode {
	case AuthLocal:
		if len(c.JWTSecret) < minJWTSecretLength {
			errs = append(errs, fmt.Errorf("JWT_SECRET must be at least %d bytes in local auth mode", minJWTSecretLength))
		}
		if c.Store == StoreFirestore {
			errs = append(errs, errors.New("local auth mode needs the sqlite or memory store for accounts"))
		}
	case AuthFirebase:
		if c.FirebaseProjectID == "" {
			errs = append(errs, errors.New("FIREBASE_PROJECT_ID is required for firebase auth"))
		}
	default:
		errs = append(errs, fmt.Errorf("AUTH_MODE must be local or firebase; got %q", c.AuthMode))
	}

	if c.JWTTTL <= 0 {
		errs = append(errs, errors.New("JWT_TTL must be positive"))
	}
	if c.MaxBodyBytes <= 0 {
		errs = append(errs, errors.New("MAX_BODY_BYTES must be positive"))
	}
	if c.LoginURL != "" && !strings.HasPrefix(c.LoginURL, "/") && !strings.HasPrefix(c.LoginURL, "http") {
		errs = append(errs, fmt.Errorf("LOGIN_URL must be a path or absolute URL; got %q", c.LoginURL))
	}

	return errors.Join(errs...)
}

// NeedsFirebase reports whether the Firebase app must be initialized.
func (c Config) NeedsFirebase() bool {
	return c.Store == StoreFirestore || c.AuthMode == AuthFirebase
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
