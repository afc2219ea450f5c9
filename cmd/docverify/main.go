package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/phuslu/log"
	"github.com/spf13/cobra"

	"docverify/internal/client"
	"docverify/internal/cli"
	"docverify/internal/config"
	"docverify/internal/logging"
	"docverify/internal/port"
	"docverify/internal/workspace"
)

var version = "dev"

// options holds the global flags.
type options struct {
	configFile string
	baseURL    string
	logLevel   string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "docverify",
		Short: "Review and correct fields extracted from identity documents",
		Long: `docverify talks to a document extraction service: upload a passport,
driver license or EAD card, inspect the extracted fields, correct them,
and delete documents you no longer need.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file (YAML)")
	cmd.PersistentFlags().StringVar(&opts.baseURL, "base-url", "", "document service base URL (overrides client.base_url)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "show error details in notifications")

	cmd.AddCommand(
		newListCmd(opts),
		newShowCmd(opts),
		newExtractCmd(opts),
		newSetCmd(opts),
		newDeleteCmd(opts),
		newExportCmd(opts),
		newReviewCmd(opts),
	)
	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, cli.FormatError(err.Error()))
		os.Exit(1)
	}
}

// loadConfig reads configuration and applies the global flag overrides.
func loadConfig(opts *options) (*config.Config, error) {
	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if opts.baseURL != "" {
		cfg.Client.BaseURL = opts.baseURL
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logging.Setup(cfg.Log)
	return cfg, nil
}

// newSession builds a session against the configured service. Notifications
// go to stdout.
func newSession(cmd *cobra.Command, opts *options, confirmer port.Confirmer) (*workspace.Session, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}
	api := client.New(cfg.Client.BaseURL, client.WithTimeout(cfg.Client.Timeout))
	log.Debug().Str("base_url", cfg.Client.BaseURL).Msg("docverify: client configured")

	return workspace.NewSession(api,
		workspace.WithNotifier(cli.NewPrinter(cmd.OutOrStdout(), opts.verbose)),
		workspace.WithConfirmer(confirmer),
		workspace.WithListLimit(cfg.Client.ListLimit),
	), nil
}
