package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	prev := GetLevel()
	t.Cleanup(func() {
		SetOutput(os.Stdout)
		SetLevel(prev)
	})
	return &buf
}

func TestInfoCF_WritesComponentAndFields(t *testing.T) {
	buf := captureLogs(t)
	SetLevel(INFO)

	InfoCF("gateway", "Reply sent", map[string]any{"sid": "SM123"})

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("unmarshal log line: %v (%q)", err, buf.String())
	}
	if entry["component"] != "gateway" {
		t.Errorf("component = %v, want gateway", entry["component"])
	}
	if entry["sid"] != "SM123" {
		t.Errorf("sid = %v, want SM123", entry["sid"])
	}
	if entry["message"] != "Reply sent" {
		t.Errorf("message = %v, want %q", entry["message"], "Reply sent")
	}
	if entry["level"] != "info" {
		t.Errorf("level = %v, want info", entry["level"])
	}
}

func TestSetLevel_FiltersDebug(t *testing.T) {
	buf := captureLogs(t)

	SetLevel(INFO)
	DebugC("test", "hidden")
	if buf.Len() != 0 {
		t.Errorf("expected debug line to be filtered, got %q", buf.String())
	}

	SetLevel(DEBUG)
	DebugC("test", "visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Errorf("expected debug line after SetLevel(DEBUG), got %q", buf.String())
	}
}

func TestErrorCF_AlwaysLogged(t *testing.T) {
	buf := captureLogs(t)
	SetLevel(WARN)

	InfoC("test", "dropped")
	ErrorCF("test", "Send failed", map[string]any{"error": "boom"})

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Errorf("info line should be filtered at WARN: %q", out)
	}
	if !strings.Contains(out, `"error":"boom"`) {
		t.Errorf("expected error field in %q", out)
	}
}

func TestLogLevel_String(t *testing.T) {
	tests := map[LogLevel]string{
		DEBUG:        "DEBUG",
		INFO:         "INFO",
		WARN:         "WARN",
		ERROR:        "ERROR",
		LogLevel(42): "UNKNOWN",
	}
	for lvl, want := range tests {
		if got := lvl.String(); got != want {
			t.Errorf("LogLevel(%d).String() = %q, want %q", lvl, got, want)
		}
	}
}
