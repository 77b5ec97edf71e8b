package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/skillsenselab/scribe/validation"
)

func TestApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	if cfg.Name != "scribe" {
		t.Errorf("name = %q", cfg.Name)
	}
	if cfg.Environment != "development" || !cfg.Debug {
		t.Errorf("environment = %q debug = %v", cfg.Environment, cfg.Debug)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	if cfg.Server.MaxBodySize != "26MB" {
		t.Errorf("max body size = %q", cfg.Server.MaxBodySize)
	}
	if cfg.Transcription.Provider != "groq" {
		t.Errorf("provider = %q", cfg.Transcription.Provider)
	}
	if cfg.Transcription.CredentialEnvVar != "GROQ_API_KEY" {
		t.Errorf("credential env var = %q", cfg.Transcription.CredentialEnvVar)
	}
	if cfg.Fetch.MaxBytes != 25*1024*1024 {
		t.Errorf("fetch max bytes = %d", cfg.Fetch.MaxBytes)
	}
	if cfg.Observability.ServiceName != "scribe" {
		t.Errorf("observability service name = %q", cfg.Observability.ServiceName)
	}
}

func TestValidate(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaulted config should validate: %v", err)
	}

	bad := cfg
	bad.Environment = "qa"
	if err := bad.Validate(); err == nil {
		t.Error("expected error for unknown environment")
	}

	bad = cfg
	bad.Server.Port = 70000
	if err := bad.Validate(); err == nil {
		t.Error("expected error for out-of-range port")
	}

	bad = cfg
	bad.Transcription.Provider = ""
	if err := bad.Validate(); err == nil {
		t.Error("expected error for empty provider")
	}

	bad = cfg
	bad.Server.ReadTimeout = -time.Second
	if err := bad.Validate(); err == nil {
		t.Error("expected error for negative read timeout")
	}

	bad = cfg
	bad.Server.MaxBodySize = "huge"
	if err := bad.Validate(); err == nil {
		t.Error("expected error for unparsable max body size")
	}
}

// Tag-declared constraints must surface their mapstructure field names so
// the message matches the config key the operator has to fix.
func TestValidateReportsFieldNames(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	cfg.Environment = "qa"
	cfg.Transcription.CredentialEnvVar = ""

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	var verr *validation.Error
	if !errors.As(err, &verr) {
		t.Fatalf("error type = %T, want *validation.Error", err)
	}
	got := make(map[string]bool, len(verr.Fields))
	for _, f := range verr.Fields {
		got[f.Field] = true
	}
	for _, want := range []string{"environment", "credential_env_var"} {
		if !got[want] {
			t.Errorf("missing field %q in %v", want, verr.Fields)
		}
	}
}

func TestLoadFromFiles(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yml")
	envFile := filepath.Join(dir, ".env")

	yml := `
name: scribe
environment: staging
server:
  port: 9090
transcription:
  model: whisper-large-v3-turbo
  timeout: 90s
`
	if err := os.WriteFile(configFile, []byte(yml), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(envFile, []byte("LOGGING_LEVEL=debug\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(WithConfigFile(configFile), WithEnvFile(envFile))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Environment != "staging" {
		t.Errorf("environment = %q", cfg.Environment)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	if cfg.Transcription.Timeout != 90*time.Second {
		t.Errorf("timeout = %v", cfg.Transcription.Timeout)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("logging level = %q (env file should win over default)", cfg.Logging.Level)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yml")
	if err := os.WriteFile(configFile, []byte("server:\n  port: 9090\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("SERVER_PORT", "7070")
	cfg, err := Load(WithConfigFile(configFile))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("port = %d, process environment should win", cfg.Server.Port)
	}
}
