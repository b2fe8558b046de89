package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mahdiidarabi/rsa-wiener/pkg/wiener"
)

// exitNotVulnerable is the exit status when no key could be recovered.
const exitNotVulnerable = 2

var (
	verbose   bool
	logFormat string

	logger = logrus.New()
)

var rootCmd = &cobra.Command{
	Use:           "wiener",
	Short:         "Recover small RSA private exponents with Wiener's attack",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return configureLogger()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log attack progress to stderr")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format (text or json)")
}

func configureLogger() error {
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.WarnLevel)
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	switch logFormat {
	case "text":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return errors.Errorf("unknown log format %q", logFormat)
	}
	return nil
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	err := rootCmd.Execute()
	if err == nil {
		return
	}

	if errors.Is(err, wiener.ErrNotVulnerable) {
		os.Exit(exitNotVulnerable)
	}
	fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: "+err.Error()))
	os.Exit(1)
}
