package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	// DefaultEndpoint is where the local classification service listens.
	DefaultEndpoint = "http://127.0.0.1:8000/classify"
	DefaultModel    = "llama3.1"
	EnvPrefix       = "CLASSIFY"
)

// The global, read-only config variable.
var (
	cfg  *Config
	once sync.Once
)

// LoadConfig reads the optional config file, the environment and the CLI
// overrides, and initializes the global cfg variable. It ensures that the
// configuration is set only once.
func LoadConfig(configFile string) (*Config, error) {
	var err error
	once.Do(func() {
		var configuration *Config
		configuration, err = Load(configFile, CliArgs)
		if err != nil {
			return
		}
		cfg = configuration
	})

	if err != nil {
		return nil, err
	}

	if cfg == nil {
		return nil, errors.New("configuration was not set")
	}

	return cfg, nil
}

// Load builds a Config from defaults, an optional .env file, CLASSIFY_*
// environment variables, an optional yaml file and the CLI overrides in cli
// (which may be nil). It does not touch the global config.
func Load(configFile string, cli *CliConfig) (*Config, error) {
	// A missing .env is normal.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigType("yaml")

	v.SetDefault("endpoint", DefaultEndpoint)
	v.SetDefault("timeout", "0s")
	v.SetDefault("serialize_activations", false)
	v.SetDefault("default_limit", 0)
	v.SetDefault("default_model", DefaultModel)
	v.SetDefault("log_file", "")
	v.SetDefault("models", map[string]ModelConfigEntry{})

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	if cli != nil && cli.Endpoint != "" {
		v.Set("endpoint", cli.Endpoint)
	}

	var configuration Config
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Validation
	if configuration.Endpoint == "" {
		return nil, errors.New("endpoint is required")
	}
	if _, err := url.ParseRequestURI(configuration.Endpoint); err != nil {
		return nil, fmt.Errorf("invalid endpoint %q: %w", configuration.Endpoint, err)
	}
	if configuration.Timeout < 0 {
		return nil, errors.New("timeout must not be negative")
	}
	if configuration.DefaultLimit < 0 {
		return nil, errors.New("default_limit must not be negative")
	}
	for name, m := range configuration.Models {
		if m.Size < 0 {
			return nil, fmt.Errorf("model %q has negative size %d", name, m.Size)
		}
	}

	return &configuration, nil
}

// GetConfig returns the loaded configuration.
// It panics if the configuration has not been set.
func GetConfig() *Config {
	if cfg == nil {
		panic("Config has not been set! Call LoadConfig first.")
	}
	return cfg
}
