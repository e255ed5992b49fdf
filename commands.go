package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"classifyform/backend"
	"classifyform/config"
	"classifyform/form"
	"classifyform/logging"
	"classifyform/manager"
	"classifyform/tui"
)

var version = "dev"

var (
	log = logging.GetLogger()

	// submit flags
	description string
	categories  string
	modelName   string
)

var rootCmd = &cobra.Command{
	Use:   "classify-form",
	Short: "Submit product descriptions to a local classification service",
	Long: `classify-form reads a product description, a comma separated list of
categories and a model name, posts them to the /classify endpoint and shows the
JSON response.

Run without arguments to open the interactive form.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if config.CliArgs.Debug {
			logging.InitLogger(logrus.DebugLevel)
		} else {
			logging.InitLogger(logrus.InfoLevel)
		}

		cfg, err := config.LoadConfig(config.CliArgs.ConfigFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		log.Debugf("Using classify endpoint %s", cfg.Endpoint)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive(cmd.Context(), config.GetConfig())
	},
}

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit the form once and print the output area",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		values := form.Values{
			DescriptionText: description,
			CategoriesText:  categories,
			ModelNameText:   modelName,
		}
		runSubmit(cmd.Context(), config.GetConfig(), values, cmd.OutOrStdout())
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version and exit",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version)
	},
}

func init() {
	config.RegisterFlags(rootCmd)

	submitCmd.Flags().StringVar(&description, "description", "", "Product description")
	submitCmd.Flags().StringVar(&categories, "categories", "", "Comma separated categories")
	submitCmd.Flags().StringVar(&modelName, "model-name", "", "Model name")

	rootCmd.AddCommand(submitCmd, versionCmd)
}

// newSubmitter wires the classify client and activation accounting from cfg.
// The returned func releases the background resources.
func newSubmitter(cfg *config.Config) (*form.Submitter, func()) {
	client := backend.NewBackendClient(cfg.Endpoint, cfg.Timeout)
	activations := manager.NewActivationManager(cfg.Models, cfg.DefaultLimit, cfg.SerializeActivations)
	return form.NewSubmitter(client, activations), activations.Shutdown
}

// runSubmit performs one activation and writes the output area text to w.
func runSubmit(ctx context.Context, cfg *config.Config, values form.Values, w io.Writer) {
	submitter, shutdown := newSubmitter(cfg)
	defer shutdown()

	submitter.Submit(ctx, values, form.OutputFunc(func(text string) {
		fmt.Fprintln(w, text)
	}))
}

func runInteractive(ctx context.Context, cfg *config.Config) error {
	// The form owns the terminal; keep log lines off the screen.
	var logOut io.Writer = io.Discard
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	logging.SetOutput(logOut)
	defer logging.SetOutput(os.Stderr)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	submitter, shutdown := newSubmitter(cfg)
	defer shutdown()

	return tui.Run(ctx, submitter, cfg.DefaultModel)
}
