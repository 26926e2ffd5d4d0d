package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestNewEmitsJSONWithServiceName(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, slog.LevelInfo)

	logger.Info("startup", "port", 8080)

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("expected JSON output, got %q: %v", buf.String(), err)
	}
	if record["service"] != "clinic-planner" {
		t.Fatalf("expected service attribute, got %v", record["service"])
	}
	if record["msg"] != "startup" {
		t.Fatalf("unexpected message: %v", record["msg"])
	}
}

func TestNewHonorsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, slog.LevelWarn)

	logger.Info("filtered out")
	if buf.Len() != 0 {
		t.Fatalf("expected info record to be dropped, got %q", buf.String())
	}

	logger.Warn("kept")
	if buf.Len() == 0 {
		t.Fatal("expected warn record to be emitted")
	}
}

func TestContextRoundTrip(t *testing.T) {
	logger := slog.Default()
	ctx := ContextWithLogger(context.Background(), logger)

	if got := FromContext(ctx); got != logger {
		t.Fatal("expected the attached logger back from the context")
	}
	if got := FromContext(context.Background()); got != nil {
		t.Fatal("expected nil for a bare context")
	}
}
