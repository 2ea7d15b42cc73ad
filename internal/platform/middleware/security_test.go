package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSecuritySetsHeaders(t *testing.T) {
	h := Security()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/contacts", nil))

	for _, kv := range securityHeaders {
		if got := resp.Header().Get(kv[0]); got != kv[1] {
			t.Errorf("%s: expected %q, got %q", kv[0], kv[1], got)
		}
	}
	if got := resp.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("expected X-Frame-Options DENY, got %q", got)
	}
}

func TestSecurityKeepsRedirectResponse(t *testing.T) {
	h := Security()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Location", "/contacts")
		w.WriteHeader(http.StatusSeeOther)
	}))
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/contacts", nil))

	if resp.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", resp.Code)
	}
	if resp.Header().Get("Location") != "/contacts" {
		t.Fatal("expected Location header to be preserved")
	}
	if resp.Header().Get("Cache-Control") != "no-store" {
		t.Fatal("expected Cache-Control no-store on redirect")
	}
}

func TestSecurityDownstreamOverride(t *testing.T) {
	h := Security()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "max-age=3600")
		w.WriteHeader(http.StatusOK)
	}))
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if got := resp.Header().Get("Cache-Control"); got != "max-age=3600" {
		t.Errorf("expected downstream Cache-Control to win, got %q", got)
	}
}

func TestSecuritySkipsExcludedPaths(t *testing.T) {
	h := Security("/api-docs", "/health")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		path        string
		wantHeaders bool
	}{
		{"/api-docs", false},
		{"/api-docs/", false},
		{"/health", false},
		{"/contacts", true},
		{"/contacts/abc/phones", true},
	}

	for _, tt := range tests {
		resp := httptest.NewRecorder()
		h.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, tt.path, nil))

		hasHeaders := resp.Header().Get("X-Content-Type-Options") == "nosniff"
		if hasHeaders != tt.wantHeaders {
			t.Errorf("%s: expected headers=%v, got headers=%v", tt.path, tt.wantHeaders, hasHeaders)
		}
	}
}
