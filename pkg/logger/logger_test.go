package logger

import (
	"path/filepath"
	"sync"
	"testing"

	"go.uber.org/zap"
)

func resetGlobal() {
	globalLogger = nil
	once = sync.Once{}
}

func TestInit(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"json format", Config{Level: "info", Format: "json"}},
		{"text format", Config{Level: "debug", Format: "text"}},
		{"unknown level falls back to info", Config{Level: "loud", Format: "json"}},
		{"empty config", Config{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetGlobal()
			if err := Init(tt.cfg); err != nil {
				t.Fatalf("Init() error = %v", err)
			}
			// repeated Init is a no-op, not an error
			if err := Init(tt.cfg); err != nil {
				t.Errorf("Init() second call error = %v", err)
			}
		})
	}
}

func TestInit_WithRotatingFile(t *testing.T) {
	resetGlobal()
	cfg := Config{
		Level:      "info",
		Format:     "json",
		File:       filepath.Join(t.TempDir(), "paperforge.log"),
		MaxSize:    10,
		MaxAge:     7,
		MaxBackups: 5,
	}
	if err := Init(cfg); err != nil {
		t.Fatalf("Init() with file error = %v", err)
	}
	Info("rotation smoke test", zap.String("job_id", "job-test"))
}

func TestGet_BeforeInit(t *testing.T) {
	resetGlobal()
	if Get() == nil {
		t.Fatal("Get() returned nil before Init")
	}
}

func TestDerivedLoggers(t *testing.T) {
	resetGlobal()
	if err := Init(Config{Level: "debug", Format: "json"}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	if Sugar() == nil {
		t.Error("Sugar() returned nil")
	}
	if With(zap.String("paper_id", "paper-1")) == nil {
		t.Error("With() returned nil")
	}
	if Named("export") == nil {
		t.Error("Named() returned nil")
	}

	// level functions must not panic at any level
	Debug("debug line")
	Info("info line")
	Warn("warn line")
	Error("error line")
}

func TestSync_Uninitialized(t *testing.T) {
	resetGlobal()
	if err := Sync(); err != nil {
		t.Errorf("Sync() before Init error = %v", err)
	}
}

func TestParseLevel(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", ""} {
		if _, err := parseLevel(level); err != nil {
			t.Errorf("parseLevel(%q) error = %v", level, err)
		}
	}
	if _, err := parseLevel("verbose"); err == nil {
		t.Error("parseLevel(\"verbose\") expected error")
	}
}
