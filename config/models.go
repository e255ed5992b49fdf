package config

import "time"

// ModelConfigEntry represents the configuration for a single model.
type ModelConfigEntry struct {
	// Size is the number of activations allowed in flight for the model. 0 means unbounded.
	Size int `mapstructure:"size"`
}

// Config holds the application configuration.
type Config struct {
	Endpoint             string                      `mapstructure:"endpoint"`
	Timeout              time.Duration               `mapstructure:"timeout"`
	SerializeActivations bool                        `mapstructure:"serialize_activations"`
	DefaultLimit         int                         `mapstructure:"default_limit"`
	DefaultModel         string                      `mapstructure:"default_model"`
	LogFile              string                      `mapstructure:"log_file"`
	Models               map[string]ModelConfigEntry `mapstructure:"models"`
}
