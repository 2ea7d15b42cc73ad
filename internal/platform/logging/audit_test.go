package logging

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogAuditEvent(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	ctx := contextWithLogger(context.Background(), zap.New(core))

	LogAuditEvent(ctx, AuditEvent{
		Action:       "create",
		Actor:        "a@x.com",
		ResourceType: "person",
		ResourceID:   "p-1",
		Result:       AuditSuccess,
	})

	entries := recorded.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	if entries[0].Message != "Audit event" {
		t.Fatalf("unexpected message: %s", entries[0].Message)
	}
	fields := fieldMap(entries[0])
	want := map[string]string{
		"audit.action":        "create",
		"audit.actor":         "a@x.com",
		"audit.resource_type": "person",
		"audit.resource_id":   "p-1",
		"audit.result":        "success",
	}
	for key, value := range want {
		if f, ok := fields[key]; !ok || f.String != value {
			t.Errorf("expected %s=%q, got %+v", key, value, f)
		}
	}
	if _, ok := fields["audit.details"]; ok {
		t.Error("did not expect audit.details without details")
	}
}

func TestLogAuditEventWithDetails(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	ctx := contextWithLogger(context.Background(), zap.New(core))

	LogAuditEvent(ctx, AuditEvent{
		Action:       "delete",
		Actor:        "b@x.com",
		ResourceType: "person",
		ResourceID:   "p-2",
		Result:       AuditDenied,
		Details:      map[string]any{"reason": "denied"},
	})

	entries := recorded.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	fields := fieldMap(entries[0])
	if f := fields["audit.result"]; f.String != "denied" {
		t.Errorf("expected audit.result denied, got %+v", f)
	}
	details, ok := fields["audit.details"].Interface.(map[string]any)
	if !ok || details["reason"] != "denied" {
		t.Errorf("expected details with reason, got %+v", fields["audit.details"])
	}
}
