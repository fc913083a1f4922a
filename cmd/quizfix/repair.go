package main

import (
	"fmt"
	"io"

	"quiz-repair/internal/domain"
	"quiz-repair/internal/logger"
	"quiz-repair/internal/repair"
	"quiz-repair/internal/service"

	"github.com/spf13/cobra"
)

var (
	inputPath  string
	outputPath string
	strategy   string
)

var repairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Run one repair with the strategy given by --strategy (or the configured one)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRepair(cmd, strategy)
	},
}

func init() {
	repairCmd.Flags().StringVar(&strategy, "strategy", "", fmt.Sprintf("repair strategy, one of %v", repair.StrategyNames()))
	addPathFlags(repairCmd)
}

func newStrategyCmd(name, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   name,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepair(cmd, name)
		},
	}
	addPathFlags(cmd)
	return cmd
}

func addPathFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&inputPath, "input", "", "source document (overrides repair.input)")
	cmd.Flags().StringVar(&outputPath, "out", "", "repaired document (overrides repair.output)")
}

func runRepair(cmd *cobra.Command, name string) error {
	out := cmd.OutOrStdout()
	cfg, log, err := bootstrap()
	if err != nil {
		fmt.Fprintf(out, "Error while repairing the JSON file: %v\n", err)
		return reported{err}
	}
	defer logger.Sync()

	if inputPath != "" {
		cfg.Repair.Input = inputPath
	}
	if outputPath != "" {
		cfg.Repair.Output = outputPath
	}

	report, err := service.NewRepairService(cfg, log).Run(cmd.Context(), name)
	if err != nil {
		fmt.Fprintf(out, "Error while repairing the JSON file: %v\n", err)
		return reported{err}
	}
	printReport(out, report)
	return nil
}

// printReport writes the operator status lines for one run.
func printReport(w io.Writer, r *domain.RepairReport) {
	if r.Valid {
		fmt.Fprintln(w, "The JSON is valid after correction!")
		fmt.Fprintf(w, "Correction finished. File saved as %s\n", r.Output)
		return
	}

	fmt.Fprintf(w, "The JSON is still invalid after correction: %s\n", r.ParseError)
	if r.Strategy == repair.StrategyRebuild {
		fmt.Fprintf(w, "Reconstructed file kept as %s\n", r.Output)
		return
	}
	fmt.Fprintf(w, "Error position: %d\n", r.ErrorOffset)
	fmt.Fprintf(w, "Error context: \n%s\n", r.ErrorContext)
	fmt.Fprintf(w, "Partially corrected JSON saved for debugging as %s\n", r.DebugPath)
}
