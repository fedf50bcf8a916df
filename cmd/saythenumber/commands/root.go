package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"saythenumber/config"
)

var (
	apiURL    string
	maxDigits int
	verbose   bool
	logFile   string

	cfg    *config.Config
	logger *zap.Logger
)

// Execute runs the CLI
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "saythenumber",
		Short: "Say a number in English words",
		Long: `saythenumber turns whatever you type into a canonical number and asks the
conversion service for its English word form.

Run without arguments to start the interactive terminal UI.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("api-url") {
				cfg.APIURL = apiURL
			}
			if cmd.Flags().Changed("max-digits") {
				if maxDigits <= 0 {
					return fmt.Errorf("--max-digits must be positive, got %d", maxDigits)
				}
				cfg.MaxDigits = maxDigits
			}

			logger, err = buildLogger(!cmd.HasParent())
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
		RunE: runTUI,
	}

	root.PersistentFlags().StringVar(&apiURL, "api-url", "", "conversion service base URL (default $SAYTHENUMBER_API_URL or http://localhost:8000)")
	root.PersistentFlags().IntVar(&maxDigits, "max-digits", 0, "largest number of digits sent to the service (default $MAX_DIGITS or 21)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	root.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to this file (the UI discards logs otherwise)")

	root.AddCommand(serveCmd(), sayCmd(), watchCmd())
	return root
}

// buildLogger returns a production logger. The UI owns the terminal, so it
// logs only to --log-file.
func buildLogger(interactive bool) (*zap.Logger, error) {
	if interactive && logFile == "" {
		return zap.NewNop(), nil
	}

	zapConfig := zap.NewProductionConfig()
	if verbose {
		zapConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	if logFile != "" {
		zapConfig.OutputPaths = []string{logFile}
		zapConfig.ErrorOutputPaths = []string{logFile}
	}
	l, err := zapConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return l, nil
}
