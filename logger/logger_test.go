package logger

import (
	"errors"
	"os"
	"testing"
	"time"
)

func TestNewDefault(t *testing.T) {
	l := NewDefault("proxy")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	if l.component != "proxy" {
		t.Errorf("expected component 'proxy', got %q", l.component)
	}
}

func TestNew(t *testing.T) {
	cfg := &Config{
		Level:  "debug",
		Format: "json",
		Output: "stderr",
	}
	l := New(cfg, "advisor")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	if l.component != "advisor" {
		t.Errorf("expected component 'advisor', got %q", l.component)
	}
}

func TestNewInvalidLevel(t *testing.T) {
	cfg := &Config{
		Level:  "invalid-level",
		Format: "json",
		Output: "stderr",
	}
	l := New(cfg, "test")
	if l == nil {
		t.Fatal("expected logger to be created even with invalid level")
	}
}

func TestNewFromEnv(t *testing.T) {
	os.Setenv("AOPKIT_LOG_LEVEL", "debug")
	os.Setenv("AOPKIT_LOG_FORMAT", "json")
	defer os.Unsetenv("AOPKIT_LOG_LEVEL")
	defer os.Unsetenv("AOPKIT_LOG_FORMAT")

	l := NewFromEnv("env-test")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
}

func TestWithComponent(t *testing.T) {
	l := NewDefault("aopkit")
	cl := l.WithComponent("container")
	if cl == nil {
		t.Fatal("expected non-nil logger")
	}
	if cl.component != "container" {
		t.Errorf("expected component 'container', got %q", cl.component)
	}
}

func TestConfig_ApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.Level != "info" {
		t.Errorf("expected default level info, got %q", cfg.Level)
	}
	if cfg.Format != "console" {
		t.Errorf("expected default format console, got %q", cfg.Format)
	}
	if !cfg.Timestamp {
		t.Error("expected timestamps on by default")
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := Config{Level: "info", Format: "json"}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}

	cfg.Level = "loud"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for invalid level")
	}

	cfg = Config{Level: "info", Format: "xml"}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for invalid format")
	}
}

func TestFields(t *testing.T) {
	m := Fields("method", "Hello", "duration_ms", int64(5))
	if m["method"] != "Hello" {
		t.Errorf("expected method field, got %v", m["method"])
	}
	if m["duration_ms"] != int64(5) {
		t.Errorf("expected duration field, got %v", m["duration_ms"])
	}
}

func TestFields_OddArgs(t *testing.T) {
	m := Fields("method", "Hello", "dangling")
	if len(m) != 1 {
		t.Errorf("expected dangling key to be dropped, got %v", m)
	}
}

func TestErrorFields(t *testing.T) {
	m := ErrorFields("build", errors.New("boom"))
	if m[FieldOperation] != "build" {
		t.Errorf("expected operation field, got %v", m[FieldOperation])
	}
	if m[FieldError] != "boom" {
		t.Errorf("expected error field, got %v", m[FieldError])
	}
}

func TestDurationFields(t *testing.T) {
	m := DurationFields("invoke", 1500*time.Millisecond)
	if m[FieldDuration] != int64(1500) {
		t.Errorf("expected 1500ms, got %v", m[FieldDuration])
	}
}

func TestRegistry_GetUnregistered(t *testing.T) {
	l := Get("never-registered")
	if l == nil {
		t.Fatal("expected fallback logger")
	}
	if l.component != "never-registered" {
		t.Errorf("expected component tag, got %q", l.component)
	}
}

func TestRegistry_Register(t *testing.T) {
	custom := NewDefault("custom")
	Register("custom", custom)
	if Get("custom") != custom {
		t.Error("expected registered logger to be returned")
	}
}
