// Package root contains the root command for the application
package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"spendwise/internal/config"
	"spendwise/internal/container"
	"spendwise/internal/logging"
)

var (
	// Log is the shared logger instance for commands
	Log logging.Logger = logging.NewLogrusAdapter("info", "text")

	// AppContainer holds the wired dependencies of the running command
	AppContainer *container.Container

	// ConfigFile overrides the config file search
	ConfigFile string

	// LogLevel overrides log.level from the configuration
	LogLevel string

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "spendwise",
		Short: "A CLI expense assistant that answers questions about bank statements.",
		Long: `spendwise ingests bank statements (PDF, CSV or XLSX), extracts card purchases,
classifies merchants into spending categories and stores each statement as a collection.
Questions in plain language are then answered from the stored collections.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to spendwise!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup()
		},
	}
)

// Execute runs the command tree. Learned merchant mappings are written back and the
// container is closed whether or not the command failed.
func Execute(ctx context.Context) error {
	defer teardown()
	return Cmd.ExecuteContext(ctx)
}

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVar(&ConfigFile, "config", "", "Config file (default: $HOME/.spendwise/config.yaml)")
	Cmd.PersistentFlags().StringVar(&LogLevel, "log-level", "", "Log level override (trace, debug, info, warn, error)")
}

func setup() error {
	config.LoadEnv()

	var (
		cfg *config.Config
		err error
	)
	if ConfigFile == "" {
		cfg, err = config.InitializeConfig()
	} else {
		cfg, err = config.LoadConfig(ConfigFile)
	}
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if LogLevel != "" {
		cfg.Log.Level = LogLevel
	}

	Log = logging.NewLogrusAdapterFromLogger(config.ConfigureLoggingFromConfig(cfg))

	AppContainer, err = container.NewContainer(cfg, container.WithLogger(Log))
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	return nil
}

func teardown() {
	if AppContainer == nil {
		return
	}
	if err := AppContainer.GetClassifier().SaveLearned(); err != nil {
		Log.WithError(err).Warn("Failed to save merchant mappings")
	}
	if err := AppContainer.Close(); err != nil {
		Log.WithError(err).Warn("Failed to close resources")
	}
	AppContainer = nil
}

// GetContainer returns the container built for the running command.
func GetContainer() (*container.Container, error) {
	if AppContainer == nil {
		return nil, fmt.Errorf("application is not initialized")
	}
	return AppContainer, nil
}
