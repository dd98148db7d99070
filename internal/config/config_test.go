package config

import (
	"testing"
	"time"

	"github.com/rs/zerolog"

	"cortex/internal/oracle"
)

func TestParseDefaults(t *testing.T) {
	for _, k := range []string{"CORTEX_API_HOST", "CORTEX_API_PORT", "CORTEX_WORKERS", "CORTEX_PROVIDER", "CORTEX_API_KEY", "CORTEX_ORACLE_TIMEOUT", "CORTEX_STORAGE_PATH", "LOG_LEVEL"} {
		t.Setenv(k, "")
	}
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Addr() != "localhost:8080" || cfg.Workers != 2 || cfg.StoragePath != "" {
		t.Fatalf("defaults = %+v", cfg)
	}
	if cfg.Oracle.Provider != oracle.ProviderGemini || cfg.Oracle.Timeout != oracle.DefaultTimeout || cfg.LogLevel != "info" {
		t.Fatalf("oracle defaults = %+v", cfg.Oracle)
	}
}

func TestParseEnvAndFlags(t *testing.T) {
	t.Setenv("CORTEX_API_PORT", "9000")
	t.Setenv("CORTEX_PROVIDER", "openai")
	t.Setenv("CORTEX_API_KEY", "sk-env")
	t.Setenv("CORTEX_ORACLE_TIMEOUT", "5s")

	cfg, err := Parse([]string{"-api-port", "9100", "-workers", "4", "-dev"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.APIPort != 9100 {
		t.Errorf("flag should win over env, port = %d", cfg.APIPort)
	}
	if cfg.Workers != 4 || !cfg.Dev {
		t.Errorf("flags = %+v", cfg)
	}
	if cfg.Oracle.Provider != oracle.ProviderOpenAI || cfg.Oracle.APIKey != "sk-env" || cfg.Oracle.Timeout != 5*time.Second {
		t.Errorf("oracle = %+v", cfg.Oracle)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
	}{
		{"bad env port", map[string]string{"CORTEX_API_PORT": "http"}, nil},
		{"bad env duration", map[string]string{"CORTEX_ORACLE_TIMEOUT": "soon"}, nil},
		{"bad provider", map[string]string{"CORTEX_PROVIDER": "acme"}, nil},
		{"pid lock without pid", nil, []string{"-pid-lock"}},
		{"zero workers", nil, []string{"-workers", "0"}},
		{"port out of range", nil, []string{"-api-port", "70000"}},
		{"unknown flag", nil, []string{"-jwt"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Parse(tt.args); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestSetupLogging(t *testing.T) {
	prev := zerolog.GlobalLevel()
	defer zerolog.SetGlobalLevel(prev)
	if err := SetupLogging("warn", false); err != nil {
		t.Fatal(err)
	}
	if zerolog.GlobalLevel() != zerolog.WarnLevel {
		t.Fatalf("level = %v", zerolog.GlobalLevel())
	}
	if err := SetupLogging("loud", false); err == nil {
		t.Fatal("expected error for unknown level")
	}
}
