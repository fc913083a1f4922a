package main

import (
	"quiz-repair/internal/adapter"
	"quiz-repair/internal/cache"
	"quiz-repair/internal/logger"
	"quiz-repair/internal/service"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var uploadCmd = &cobra.Command{
	Use:   "upload [FILE]",
	Short: "Replace the quiz tree stored in Redis with a repaired document",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := bootstrap()
		if err != nil {
			return err
		}
		defer logger.Sync()

		path := cfg.Repair.Output
		if len(args) == 1 {
			path = args[0]
		}

		client, err := cache.NewRedisClient(cmd.Context(), cfg.Redis)
		if err != nil {
			log.Error("Failed to initialize Redis client", zap.Error(err))
			return err
		}
		defer client.Close()

		store := adapter.NewRedisStoreAdapter(client)
		report, err := service.NewUploadService(store, cfg.Upload, log).Upload(cmd.Context(), path)
		if err != nil {
			log.Error("Upload failed", zap.String("path", path), zap.Error(err))
			return err
		}
		return writeOutput(cmd.OutOrStdout(), format(outputFormat), report)
	},
}
