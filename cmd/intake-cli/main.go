package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JakeSchindel1/JHOnboard-sub001/common/logger"
)

var (
	serverURL string
	logLevel  string
	timeout   string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "intake-cli",
		Short:         "Operator tool for the participant intake service",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&serverURL, "server", envOr("INTAKE_SERVER_URL", "http://localhost:8080"), "intake-data base URL")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug|info|warn|error)")
	root.PersistentFlags().StringVar(&timeout, "timeout", "2m", "request timeout")

	root.AddCommand(
		newSubmitCmd(),
		newValidateCmd(),
		newPDFCmd(),
		newExportCmd(),
		newWatchCmd(),
	)
	return root
}

func newLogger() *zap.Logger {
	lg, err := logger.NewLogger(logLevel, "console", "intake-cli")
	if err != nil {
		return zap.NewNop()
	}
	return lg
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
