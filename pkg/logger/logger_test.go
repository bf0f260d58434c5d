package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestCriticalLevelRendered(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, slog.LevelInfo, "json")

	log.Critical("app: init failed", "err", "boom")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected json output, got %q", buf.String())
	}
	if entry["level"] != "CRITICAL" {
		t.Fatalf("expected CRITICAL level, got %v", entry["level"])
	}
}

func TestBusinessErrorLogsWarnWithErr(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, slog.LevelInfo, "text")

	log.BusinessError("approvals.handle: request not found", errors.New("missing"), "request_id", 4)
	log.BusinessError("ignored", nil)

	out := buf.String()
	if !strings.Contains(out, "level=WARN") || !strings.Contains(out, "err=missing") {
		t.Fatalf("unexpected output %q", out)
	}
	if strings.Contains(out, "ignored") {
		t.Fatalf("nil error should not be logged")
	}
}

func TestParseLevelDefaultsByEnv(t *testing.T) {
	if parseLevel("", "development") != slog.LevelDebug {
		t.Fatalf("expected debug in development")
	}
	if parseLevel("", "production") != slog.LevelInfo {
		t.Fatalf("expected info outside development")
	}
	if parseLevel("fatal", "") != LevelCritical {
		t.Fatalf("expected fatal to map to critical")
	}
}
