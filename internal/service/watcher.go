package service

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"quiz-repair/internal/domain"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is how long the source must stay quiet before a re-run.
const DefaultDebounce = 250 * time.Millisecond

// Watcher re-runs a repair every time the source document changes. Bursts of
// events closer together than Debounce trigger a single run.
type Watcher struct {
	Debounce time.Duration

	svc      domain.RepairService
	path     string
	strategy string
	logger   *zap.Logger
	onReport func(*domain.RepairReport, error)
}

func NewWatcher(svc domain.RepairService, path, strategy string, logger *zap.Logger, onReport func(*domain.RepairReport, error)) *Watcher {
	return &Watcher{
		Debounce: DefaultDebounce,
		svc:      svc,
		path:     filepath.Clean(path),
		strategy: strategy,
		logger:   logger,
		onReport: onReport,
	}
}

// Run performs one repair immediately, then one per change until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fw.Close()

	// Watch the directory: editors replace the file on save.
	dir := filepath.Dir(w.path)
	if err := fw.Add(dir); err != nil {
		return domain.NewIOError(dir, err)
	}
	w.logger.Info("Watching source document", zap.String("path", w.path))

	timer := time.NewTimer(w.Debounce)
	timer.Stop()
	defer timer.Stop()

	w.runOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path || !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			w.logger.Debug("Source document changed", zap.String("op", ev.Op.String()))
			timer.Reset(w.Debounce)
		case <-timer.C:
			w.runOnce(ctx)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("File watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) runOnce(ctx context.Context) {
	report, err := w.svc.Run(ctx, w.strategy)
	if w.onReport != nil {
		w.onReport(report, err)
	}
}
