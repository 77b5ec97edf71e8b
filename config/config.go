// Package config defines the service configuration and loads it from a
// config.yml file, a .env file, and process environment variables, in
// ascending order of precedence.
package config

import (
	"fmt"
	"time"

	"github.com/skillsenselab/scribe/credential"
	"github.com/skillsenselab/scribe/fetch"
	"github.com/skillsenselab/scribe/logger"
	"github.com/skillsenselab/scribe/observability"
	"github.com/skillsenselab/scribe/util"
	"github.com/skillsenselab/scribe/validation"
)

// Transcription configures the transcription backend.
type Transcription struct {
	// Provider selects the registered backend implementation.
	Provider string `yaml:"provider" mapstructure:"provider" validate:"required"`
	// BaseURL overrides the backend API base URL.
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	// Model is the model identifier sent with every request.
	Model string `yaml:"model" mapstructure:"model"`
	// Language optionally pins the transcription language (ISO 639-1).
	Language string `yaml:"language" mapstructure:"language"`
	// Timeout bounds a single transcription call.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
	// CredentialEnvVar names the environment variable consulted first
	// during credential resolution.
	CredentialEnvVar string `yaml:"credential_env_var" mapstructure:"credential_env_var" validate:"required"`
}

// Server configures the HTTP listener.
type Server struct {
	Host            string        `yaml:"host" mapstructure:"host"`
	Port            int           `yaml:"port" mapstructure:"port" validate:"gt=0,lt=65536"`
	ReadTimeout     time.Duration `yaml:"read_timeout" mapstructure:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" mapstructure:"write_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
	// MaxBodySize caps inbound request bodies, e.g. "26MB". The default
	// leaves headroom above the source ceiling for multipart framing.
	MaxBodySize string `yaml:"max_body_size" mapstructure:"max_body_size"`
}

// Config is the full service configuration.
type Config struct {
	Name        string `yaml:"name" mapstructure:"name" validate:"required"`
	Environment string `yaml:"environment" mapstructure:"environment" validate:"oneof=development staging production"`
	Version     string `yaml:"version" mapstructure:"version"`
	Debug       bool   `yaml:"debug" mapstructure:"debug"`

	Logging       logger.Config        `yaml:"logging" mapstructure:"logging"`
	Server        Server               `yaml:"server" mapstructure:"server"`
	Transcription Transcription        `yaml:"transcription" mapstructure:"transcription"`
	Fetch         fetch.Config         `yaml:"fetch" mapstructure:"fetch"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
}

// ApplyDefaults fills zero-value fields with development defaults.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "scribe"
	}
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Environment == "development" {
		c.Debug = true
	}
	c.Logging.ApplyDefaults()

	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 60 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 180 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Server.MaxBodySize == "" {
		c.Server.MaxBodySize = "26MB"
	}

	if c.Transcription.Provider == "" {
		c.Transcription.Provider = "groq"
	}
	if c.Transcription.CredentialEnvVar == "" {
		c.Transcription.CredentialEnvVar = credential.DefaultEnvVar
	}

	c.Fetch.ApplyDefaults()

	if c.Observability.ServiceName == "" {
		c.Observability.ServiceName = c.Name
	}
	if c.Observability.ServiceVersion == "" && c.Version != "" {
		c.Observability.ServiceVersion = c.Version
	}
	if c.Observability.Environment == "" {
		c.Observability.Environment = c.Environment
	}
	c.Observability.ApplyDefaults()
}

// Validate checks the configuration for values the service cannot run with.
// Field-level constraints are declared as `validate` struct tags; checks a
// tag cannot express go through the fluent checker.
func (c *Config) Validate() error {
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if err := validation.Validate(c); err != nil {
		return err
	}
	return validation.NewChecker().
		Custom(util.ParseSize(c.Server.MaxBodySize, 0) > 0, "server.max_body_size", "must be a size such as 26MB").
		Positive("fetch.max_bytes", c.Fetch.MaxBytes).
		Err()
}
