package main

import (
	"errors"
	"fmt"
	"io"

	"quiz-repair/internal/config"
	"quiz-repair/internal/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfgFile      string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "quizfix",
	Short: "Repair a malformed quiz database so that it parses as JSON again",
	Long: `quizfix applies a small set of targeted corrections to a broken quiz
database (quizzes -> difficulty -> section -> quiz records) and checks the
result by parsing it.

Strategies:
  - patch:    insert missing section headers and closing tokens in place
  - rebuild:  reconstruct the document line by line under a fixed prefix
  - tolerant: hand the document to a general-purpose JSON repairer`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ./config/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "format", "f", string(formatYAML), "output format for inspect and upload: yaml or json",
	)

	rootCmd.AddCommand(
		newStrategyCmd("patch", "Insert missing headers and closing tokens, then validate"),
		newStrategyCmd("rebuild", "Rebuild the document line by line, then validate the written file"),
		repairCmd,
		inspectCmd,
		uploadCmd,
		watchCmd,
		versionCmd,
	)
}

// bootstrap loads the configuration and initializes the global logger.
func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, logger.Get(), nil
}

// reported marks an error whose message the command already printed.
type reported struct{ error }

func (r reported) Unwrap() error { return r.error }

// printError writes err to w unless the failing command already did.
func printError(w io.Writer, err error) {
	var r reported
	if errors.As(err, &r) {
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)
}
