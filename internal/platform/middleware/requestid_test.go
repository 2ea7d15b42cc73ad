package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

func serveRequestID(t *testing.T, incoming string, set bool) (string, *httptest.ResponseRecorder) {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/contacts", nil)
	if set {
		req.Header.Set(chimiddleware.RequestIDHeader, incoming)
	}

	var captured string
	h := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = chimiddleware.GetReqID(r.Context())
	}))
	h.ServeHTTP(rec, req)
	return captured, rec
}

func TestRequestIDGeneratesUUIDv4(t *testing.T) {
	captured, rec := serveRequestID(t, "", false)

	if header := rec.Header().Get(chimiddleware.RequestIDHeader); header != captured {
		t.Fatalf("expected response header %q, got %q", captured, header)
	}
	parsed, err := uuid.Parse(captured)
	if err != nil {
		t.Fatalf("request ID %q is not a valid UUID: %v", captured, err)
	}
	if parsed.Version() != 4 {
		t.Fatalf("expected UUIDv4, got version %d", parsed.Version())
	}
}

func TestRequestIDHeaderHandling(t *testing.T) {
	tests := []struct {
		name    string
		inputID string
		wantNew bool
	}{
		{"alphanumeric is preserved", "abc123-XYZ", false},
		{"traceparent is preserved", "00-ab42124a3c573678d4d8b21ba52df3bf-d21f7bc17caa5aba-01", false},
		{"spaces are preserved", "trace id 123", false},
		{"exactly max length is preserved", strings.Repeat("x", 128), false},
		{"newline is rejected", "valid\ninjected-line", true},
		{"null byte is rejected", "valid\x00null", true},
		{"DEL is rejected", "valid\x7Fdel", true},
		{"high byte is rejected", "valid\x80high", true},
		{"too long is rejected", strings.Repeat("a", 129), true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			captured, _ := serveRequestID(t, tc.inputID, true)
			if !tc.wantNew {
				if captured != tc.inputID {
					t.Fatalf("expected %q, got %q", tc.inputID, captured)
				}
				return
			}
			if captured == tc.inputID {
				t.Fatalf("expected new UUID, got original %q", captured)
			}
			if _, err := uuid.Parse(captured); err != nil {
				t.Fatalf("expected valid UUID, got %q: %v", captured, err)
			}
		})
	}
}

func TestValidRequestIDBoundaries(t *testing.T) {
	for c := range byte(0x20) {
		if validRequestID("test" + string(c) + "value") {
			t.Errorf("control character 0x%02X should be rejected", c)
		}
	}
	for c := byte(0x20); c <= 0x7E; c++ {
		if !validRequestID(string(c)) {
			t.Errorf("printable character 0x%02X should be accepted", c)
		}
	}
	if validRequestID("") {
		t.Error("empty ID should be rejected")
	}
}

func TestRequestIDUniquePerRequest(t *testing.T) {
	ids := make(map[string]bool)
	for i := range 10 {
		id, _ := serveRequestID(t, "", false)
		if ids[id] {
			t.Fatalf("duplicate request ID on iteration %d: %s", i, id)
		}
		ids[id] = true
	}
}
