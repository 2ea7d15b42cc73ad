package auth

import (
	"errors"
	"testing"
)

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr error
	}{
		{"uppercase Bearer", "Bearer token123", "token123", nil},
		{"lowercase bearer", "bearer token123", "token123", nil},
		{"jwt-like token", "Bearer aaa.bbb.ccc", "aaa.bbb.ccc", nil},
		{"empty", "", "", ErrNoToken},
		{"basic scheme", "Basic dXNlcjpwYXNz", "", ErrInvalidToken},
		{"missing token", "Bearer", "", ErrInvalidToken},
		{"extra parts", "Bearer a b", "", ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractBearerToken(tt.header)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
			if got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUserIdentityNormalizesEmail(t *testing.T) {
	u := &User{Email: "  Jo.Doe@X.com "}
	if got := u.Identity(); got != "jo.doe@x.com" {
		t.Fatalf("expected normalized identity, got %q", got)
	}

	var nilUser *User
	if got := nilUser.Identity(); got != "" {
		t.Fatalf("expected empty identity for nil user, got %q", got)
	}
}
