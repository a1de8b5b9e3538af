package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"
)

func TestNewDefault(t *testing.T) {
	l := NewDefault("test-svc")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	if l.service != "test-svc" {
		t.Errorf("expected service 'test-svc', got %q", l.service)
	}
}

func TestNewInvalidLevel(t *testing.T) {
	cfg := &Config{
		Level:  "invalid-level",
		Format: "json",
		Output: "stdout",
	}
	l := New(cfg, "test")
	if l == nil {
		t.Fatal("expected logger to be created even with invalid level")
	}
}

func TestNewFromEnv(t *testing.T) {
	os.Setenv("LOG_LEVEL", "debug")
	os.Setenv("LOG_FORMAT", "json")
	defer os.Unsetenv("LOG_LEVEL")
	defer os.Unsetenv("LOG_FORMAT")

	l := NewFromEnv("env-svc")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
}

func TestNewWithWriter_EmitsFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, "debug").WithComponent("di")

	l.Debug("wiring registered", Fields(FieldKey, "repo", FieldStrategy, "singleton"))

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON output, got %q: %v", buf.String(), err)
	}
	if entry[FieldComponent] != "di" {
		t.Errorf("expected component=di, got %v", entry[FieldComponent])
	}
	if entry[FieldKey] != "repo" {
		t.Errorf("expected key=repo, got %v", entry[FieldKey])
	}
	if entry["message"] != "wiring registered" {
		t.Errorf("unexpected message %v", entry["message"])
	}
}

func TestNewWithWriter_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, "warn")
	l.Debug("hidden")
	l.Info("hidden")
	if buf.Len() != 0 {
		t.Errorf("expected no output below warn, got %q", buf.String())
	}
	l.Warn("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("expected warn output, got %q", buf.String())
	}
}

func TestWithFieldsAndError(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, "info").
		WithFields(map[string]interface{}{FieldContextID: "ctx-1"}).
		WithError(errors.New("boom"))
	l.Error("failed")

	out := buf.String()
	if !strings.Contains(out, `"context_id":"ctx-1"`) {
		t.Errorf("expected context_id field, got %q", out)
	}
	if !strings.Contains(out, `"error":"boom"`) {
		t.Errorf("expected error field, got %q", out)
	}
}

func TestNewNop(t *testing.T) {
	l := NewNop()
	l.Error("nothing happens")
}

func TestInit(t *testing.T) {
	cfg := Config{Format: "json", ServiceName: "svc"}
	Init(&cfg)
	if cfg.Level != "info" {
		t.Errorf("expected defaults applied, level=%q", cfg.Level)
	}
	gl := GetGlobalLogger()
	if gl == nil || gl.service != "svc" {
		t.Fatal("expected global logger to be set after Init")
	}
}

func TestGetGlobalLoggerDefault(t *testing.T) {
	globalLogger = nil
	if GetGlobalLogger() == nil {
		t.Fatal("expected default global logger to be created")
	}
}

func TestRegistry(t *testing.T) {
	l := NewNop()
	Register("custom", l)
	if Get("custom") != l {
		t.Error("expected registered logger")
	}
	if Get("unregistered") == nil {
		t.Error("expected fallback logger")
	}
	RegisterDefaults("bus")
	if Get("bus") == nil {
		t.Error("expected default logger for bus")
	}
}

func TestRegisterDefaultsSeedsComponents(t *testing.T) {
	var buf bytes.Buffer
	prev := globalLogger
	defer func() { globalLogger = prev }()
	globalLogger = NewWithWriter(&buf, "info")

	RegisterDefaults()
	for _, name := range DefaultComponents {
		Get(name).Info("seeded")
	}
	out := buf.String()
	for _, name := range DefaultComponents {
		if !strings.Contains(out, `"component":"`+name+`"`) {
			t.Errorf("expected a record tagged %q, got %s", name, out)
		}
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{Level: "debug", Format: "json"}, false},
		{"pretty", Config{Level: "info", Format: "pretty"}, false},
		{"bad level", Config{Level: "loud", Format: "json"}, true},
		{"bad format", Config{Level: "info", Format: "xml"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestFields(t *testing.T) {
	m := Fields("a", 1, "b")
	if len(m) != 1 || m["a"] != 1 {
		t.Errorf("unexpected fields %v", m)
	}
	ef := ErrorFields("resolve", errors.New("x"))
	if ef[FieldOperation] != "resolve" || ef[FieldError] != "x" {
		t.Errorf("unexpected error fields %v", ef)
	}
	merged := MergeWithError(nil, errors.New("y"))
	if merged[FieldError] != "y" {
		t.Errorf("unexpected merged fields %v", merged)
	}
}
