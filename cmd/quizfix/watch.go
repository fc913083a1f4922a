package main

import (
	"fmt"
	"time"

	"quiz-repair/internal/domain"
	"quiz-repair/internal/logger"
	"quiz-repair/internal/service"

	"github.com/spf13/cobra"
)

var debounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-run the configured repair whenever the source document changes",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := bootstrap()
		if err != nil {
			return err
		}
		defer logger.Sync()

		out := cmd.OutOrStdout()
		svc := service.NewRepairService(cfg, log)
		w := service.NewWatcher(svc, cfg.Repair.Input, cfg.Repair.Strategy, log, func(r *domain.RepairReport, err error) {
			if err != nil {
				fmt.Fprintf(out, "Error while repairing the JSON file: %v\n", err)
				return
			}
			printReport(out, r)
		})
		w.Debounce = debounce
		return w.Run(cmd.Context())
	},
}

func init() {
	watchCmd.Flags().DurationVar(&debounce, "debounce", service.DefaultDebounce, "quiet period before a change triggers a repair")
}
