package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// loaderOptions holds optional explicit file paths for Load.
type loaderOptions struct {
	configFile string
	envFile    string
}

// Option customizes Load.
type Option func(*loaderOptions)

// WithConfigFile sets an explicit config file path, skipping the search.
func WithConfigFile(path string) Option {
	return func(o *loaderOptions) { o.configFile = path }
}

// WithEnvFile sets an explicit .env file path, skipping the search.
func WithEnvFile(path string) Option {
	return func(o *loaderOptions) { o.envFile = path }
}

// Load reads the service configuration. Values layer in ascending
// precedence: config.yml, .env file, process environment. The result has
// defaults applied and is validated before it is returned.
func Load(opts ...Option) (*Config, error) {
	var lo loaderOptions
	for _, opt := range opts {
		opt(&lo)
	}

	if lo.configFile == "" {
		lo.configFile = findFirst(
			"./config.yml",
			"./config/config.yml",
			"./cmd/scribe/config.yml",
		)
	}
	if lo.envFile == "" {
		lo.envFile = findFirst("./.env", "./config/.env")
	}

	// .env loads first so viper's env binding sees its variables.
	if lo.envFile != "" {
		if err := godotenv.Load(lo.envFile); err != nil {
			return nil, fmt.Errorf("load env file %s: %w", lo.envFile, err)
		}
	}

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvKeys(v)

	if lo.configFile != "" {
		v.SetConfigFile(lo.configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", lo.configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// bindEnvKeys registers every key the Config struct can unmarshal so
// AutomaticEnv finds its UPPER_SNAKE twin. Viper only consults the
// environment for keys it knows about.
func bindEnvKeys(v *viper.Viper) {
	keys := []string{
		"name", "environment", "version", "debug",
		"logging.level", "logging.format", "logging.output", "logging.no_color",
		"server.host", "server.port", "server.read_timeout",
		"server.write_timeout", "server.shutdown_timeout", "server.max_body_size",
		"transcription.provider", "transcription.base_url", "transcription.model",
		"transcription.language", "transcription.timeout", "transcription.credential_env_var",
		"fetch.probe_timeout", "fetch.download_timeout", "fetch.max_bytes",
		"observability.enabled", "observability.service_name", "observability.service_version",
		"observability.environment", "observability.endpoint", "observability.insecure",
		"observability.sample_rate",
	}
	for _, key := range keys {
		_ = v.BindEnv(key)
	}
}

func findFirst(paths ...string) string {
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
