package main

import (
	"fmt"
	"os"

	"quiz-repair/internal/domain"

	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [FILE]",
	Short: "Summarize the sections and record counts of a valid quiz database",
	Long: `inspect decodes a quiz database (by default the configured repair output)
and prints, per difficulty level, every section with its number of quizzes and
questions.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := bootstrap()
		if err != nil {
			return err
		}
		path := cfg.Repair.Output
		if len(args) == 1 {
			path = args[0]
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return domain.NewIOError(path, err)
		}
		doc, err := domain.ParseDocument(data)
		if err != nil {
			return fmt.Errorf("cannot inspect %s: %w", path, err)
		}
		return writeOutput(cmd.OutOrStdout(), format(outputFormat), doc.Summarize())
	},
}
