package config

import "github.com/spf13/cobra"

var CliArgs *CliConfig

type CliConfig struct {
	ConfigFile string
	Endpoint   string
	Debug      bool
}

// RegisterFlags binds the global flags onto the root command.
func RegisterFlags(cmd *cobra.Command) {
	if CliArgs != nil {
		panic("already defined")
	}
	CliArgs = &CliConfig{}
	flags := cmd.PersistentFlags()
	flags.StringVar(&CliArgs.ConfigFile, "config", "", "Path to the config file")
	flags.StringVar(&CliArgs.Endpoint, "endpoint", "", "Classify endpoint URL (overrides config)")
	flags.BoolVarP(&CliArgs.Debug, "debug", "d", false, "Enable debug mode")
}
