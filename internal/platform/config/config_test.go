package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "STORE", "DB_PATH", "FIREBASE_PROJECT_ID", "GOOGLE_APPLICATION_CREDENTIALS",
		"AUTH_MODE", "JWT_SECRET", "JWT_TTL", "LOGIN_URL", "CORS_ALLOWED_ORIGINS", "MAX_BODY_BYTES",
	} {
		t.Setenv(key, "")
	}
}

func TestFromEnvDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", testSecret)

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("expected port 8080, got %q", cfg.Port)
	}
	if cfg.Store != StoreSQLite {
		t.Errorf("expected sqlite store, got %q", cfg.Store)
	}
	if cfg.DBPath != "./data/contacts.db" {
		t.Errorf("unexpected DB path %q", cfg.DBPath)
	}
	if cfg.AuthMode != AuthLocal {
		t.Errorf("expected local auth, got %q", cfg.AuthMode)
	}
	if cfg.JWTTTL != 24*time.Hour {
		t.Errorf("expected 24h TTL, got %v", cfg.JWTTTL)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
		t.Errorf("unexpected CORS origins %v", cfg.CORSAllowedOrigins)
	}
	if cfg.MaxBodyBytes != 1<<20 {
		t.Errorf("expected 1 MB body limit, got %d", cfg.MaxBodyBytes)
	}
	if cfg.NeedsFirebase() {
		t.Error("did not expect firebase for local sqlite config")
	}
}

func TestFromEnvLocalAuthRequiresSecret(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "short")

	_, err := FromEnv()
	if err == nil || !strings.Contains(err.Error(), "JWT_SECRET") {
		t.Fatalf("expected JWT_SECRET error, got %v", err)
	}
}

func TestFromEnvFirebaseMode(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE", "Firestore")
	t.Setenv("AUTH_MODE", "firebase")
	t.Setenv("FIREBASE_PROJECT_ID", "demo-contacts")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example ,")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Store != StoreFirestore {
		t.Errorf("expected firestore store, got %q", cfg.Store)
	}
	if !cfg.NeedsFirebase() {
		t.Error("expected firebase to be needed")
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://b.example" {
		t.Errorf("unexpected CORS origins %v", cfg.CORSAllowedOrigins)
	}
}

func TestFromEnvRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"unknown store", map[string]string{"STORE": "redis"}, "STORE"},
		{"unknown auth", map[string]string{"AUTH_MODE": "basic"}, "AUTH_MODE"},
		{"bad ttl", map[string]string{"JWT_TTL": "soon"}, "JWT_TTL"},
		{"negative ttl", map[string]string{"JWT_TTL": "-1h"}, "JWT_TTL"},
		{"bad body limit", map[string]string{"MAX_BODY_BYTES": "lots"}, "MAX_BODY_BYTES"},
		{"firestore without project", map[string]string{"STORE": "firestore", "AUTH_MODE": "firebase"}, "FIREBASE_PROJECT_ID"},
		{"local auth with firestore", map[string]string{"STORE": "firestore", "FIREBASE_PROJECT_ID": "p"}, "local auth"},
		{"relative login url", map[string]string{"LOGIN_URL": "login"}, "LOGIN_URL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("JWT_SECRET", testSecret)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := FromEnv()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error mentioning %s, got %v", tt.want, err)
			}
		})
	}
}

func TestLoadReadsDotEnvWithoutOverriding(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("PORT", "9090")

	path := filepath.Join(t.TempDir(), ".env")
	content := "PORT=7070\nLOGIN_URL=/login\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	// godotenv sets variables that are unset; t.Setenv above registered cleanup for both.
	if err := os.Unsetenv("LOGIN_URL"); err != nil {
		t.Fatalf("unset: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("expected environment to win, got port %q", cfg.Port)
	}
	if cfg.LoginURL != "/login" {
		t.Errorf("expected LOGIN_URL from file, got %q", cfg.LoginURL)
	}
}

func TestLoadMissingFileIsIgnored(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", testSecret)

	if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("expected missing .env to be ignored, got %v", err)
	}
}
