package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	"quiz-repair/internal/cache"
	"quiz-repair/internal/config"
	"quiz-repair/internal/domain"

	"github.com/avast/retry-go/v4"
	"go.uber.org/zap"
)

// uploadService implements the domain.UploadService interface.
type uploadService struct {
	store  domain.QuizStore
	cfg    config.UploadConfig
	logger *zap.Logger
}

// NewUploadService creates a new instance of uploadService.
func NewUploadService(store domain.QuizStore, cfg config.UploadConfig, logger *zap.Logger) domain.UploadService {
	return &uploadService{store: store, cfg: cfg, logger: logger}
}

// Upload replaces the stored quiz tree with the content of path: one hash per
// difficulty level, one field per section holding the section's JSON list.
// The whole tree is written in one transaction, then read back.
func (s *uploadService) Upload(ctx context.Context, path string) (*domain.UploadReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.NewIOError(path, err)
	}
	doc, err := domain.ParseRawDocument(data)
	if err != nil {
		return nil, err
	}

	report := &domain.UploadReport{Difficulties: []string{}}
	hashes := make(map[string]map[string]string, len(doc.Quizzes))
	for _, level := range sortedNames(doc.Quizzes) {
		sections := doc.Quizzes[level]
		fields := make(map[string]string, len(sections))
		for name, raw := range sections {
			var compact bytes.Buffer
			if err := json.Compact(&compact, raw); err != nil {
				return nil, domain.NewParseFailureError(err)
			}
			fields[name] = compact.String()
		}
		hashes[cache.DifficultyKey(level)] = fields
		report.Difficulties = append(report.Difficulties, level)
		report.Sections += len(fields)
	}

	if err := s.do(ctx, "ping", func() error { return s.store.Ping(ctx) }); err != nil {
		return nil, domain.NewStoreError("quiz store is unreachable", err)
	}
	if err := s.do(ctx, "replace", func() error {
		return s.store.ReplaceTree(ctx, cache.IndexKey(), hashes, s.cfg.TTL)
	}); err != nil {
		return nil, domain.NewStoreError("failed to replace the quiz tree", err)
	}

	for _, level := range report.Difficulties {
		key := cache.DifficultyKey(level)
		want := len(hashes[key])
		if want == 0 {
			continue
		}
		var stored map[string]string
		if err := s.do(ctx, "hgetall", func() (err error) {
			stored, err = s.store.HGetAll(ctx, key)
			return err
		}); err != nil {
			return nil, domain.NewStoreError(fmt.Sprintf("failed to read back %s", key), err)
		}
		if len(stored) != want {
			return nil, domain.NewStoreError(
				fmt.Sprintf("%s holds %d sections, expected %d", key, len(stored), want), nil)
		}
		report.Verified += len(stored)
		s.logger.Info("Uploaded difficulty level", zap.String("key", key), zap.Int("sections", want))
	}
	return report, nil
}

// do runs op with the configured retry policy.
func (s *uploadService) do(ctx context.Context, op string, fn func() error) error {
	attempts := s.cfg.Attempts
	if attempts == 0 {
		attempts = 1
	}
	return retry.Do(
		fn,
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(s.cfg.Delay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool { return !errors.Is(err, domain.ErrCacheMiss) }),
		retry.OnRetry(func(n uint, err error) {
			s.logger.Warn("Retrying store operation", zap.String("op", op), zap.Uint("attempt", n+1), zap.Error(err))
		}),
	)
}

func sortedNames[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
