package service

import (
	"context"
	"os"
	"time"

	"quiz-repair/internal/config"
	"quiz-repair/internal/domain"
	"quiz-repair/internal/repair"
	"quiz-repair/internal/util"

	"go.uber.org/zap"
)

// repairService implements the domain.RepairService interface.
type repairService struct {
	cfg    *config.Config
	opts   repair.Options
	logger *zap.Logger
}

// NewRepairService creates a new instance of repairService.
func NewRepairService(cfg *config.Config, logger *zap.Logger) domain.RepairService {
	return &repairService{
		cfg:    cfg,
		opts:   RepairOptions(cfg.Repair),
		logger: logger,
	}
}

// RepairOptions maps the repair section of the configuration onto the
// heuristics understood by the strategies.
func RepairOptions(rc config.RepairConfig) repair.Options {
	opts := repair.Options{
		Difficulty:    rc.Difficulty,
		SkipLines:     rc.SkipLines,
		SectionPrefix: rc.SectionPrefix,
		RecordField:   rc.RecordField,
	}
	for _, r := range rc.Recoveries {
		opts.Recoveries = append(opts.Recoveries, repair.RecoverySpec{
			Section:   r.Section,
			RecordID:  r.RecordID,
			AfterLine: r.AfterLine,
		})
	}
	for _, f := range rc.LineFixes {
		opts.LineFixes = append(opts.LineFixes, repair.LineFix{
			Line:    f.Line,
			Expect:  f.Expect,
			Replace: f.Replace,
		})
	}
	return opts
}

// Run reads the source once, applies one strategy and persists the result.
func (s *repairService) Run(ctx context.Context, strategyName string) (*domain.RepairReport, error) {
	if strategyName == "" {
		strategyName = s.cfg.Repair.Strategy
	}
	strategy, err := repair.NewStrategy(strategyName, s.opts)
	if err != nil {
		return nil, domain.NewUnknownStrategyError(strategyName)
	}

	start := time.Now()
	report := &domain.RepairReport{
		RunID:    util.NewULID(),
		Strategy: strategy.Name(),
		Input:    s.cfg.Repair.Input,
	}
	log := s.logger.With(zap.String("run_id", report.RunID), zap.String("strategy", report.Strategy))

	log.Info("Reading source document", zap.String("path", report.Input))
	raw, err := os.ReadFile(report.Input)
	if err != nil {
		log.Error("Failed to read source document", zap.Error(err))
		return nil, domain.NewIOError(report.Input, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	outcome, err := strategy.Repair(string(raw))
	if err != nil {
		log.Error("Repair strategy failed", zap.Error(err))
		return nil, domain.NewInternalError("repair strategy failed", err)
	}
	log.Info("Applied corrections", zap.Strings("rules", outcome.Applied), zap.Int("bytes", len(outcome.Text)))
	report.Sections = outcome.Sections
	report.DroppedLines = len(outcome.Dropped)
	if len(outcome.Dropped) > 0 {
		log.Debug("Dropped lines outside any section", zap.Ints("line_indexes", outcome.Dropped))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if strategy.Name() == repair.StrategyRebuild {
		err = s.writeAndVerify(log, report, outcome.Text)
	} else {
		err = s.validateAndWrite(log, report, outcome.Text)
	}
	report.Duration = time.Since(start)
	if err != nil {
		return nil, err
	}
	return report, nil
}

// validateAndWrite parses in memory: a valid document is written re-indented,
// an invalid one is saved verbatim next to the output for inspection.
func (s *repairService) validateAndWrite(log *zap.Logger, report *domain.RepairReport, text string) error {
	res := repair.Validate(text, s.cfg.Repair.Indent, s.cfg.Repair.ContextWidth)
	if res.Valid {
		if err := writeFile(s.cfg.Repair.Output, res.Canonical); err != nil {
			log.Error("Failed to write repaired document", zap.Error(err))
			return err
		}
		report.Valid = true
		report.Output = s.cfg.Repair.Output
		log.Info("Document is valid after correction", zap.String("output", report.Output))
		return nil
	}

	fillParseFailure(report, res)
	log.Warn("Document is still invalid after correction",
		zap.Error(res.Err),
		zap.Int("offset", res.Offset),
		zap.String("context", res.Context),
	)
	debugPath := s.cfg.DebugPath()
	if err := writeFile(debugPath, []byte(text)); err != nil {
		log.Error("Failed to write debug document", zap.Error(err))
		return err
	}
	report.DebugPath = debugPath
	return nil
}

// writeAndVerify writes the reconstructed text as is, then re-opens the file
// and parses it. No debug copy is produced.
func (s *repairService) writeAndVerify(log *zap.Logger, report *domain.RepairReport, text string) error {
	output := s.cfg.Repair.Output
	if err := writeFile(output, []byte(text)); err != nil {
		log.Error("Failed to write reconstructed document", zap.Error(err))
		return err
	}
	report.Output = output

	written, err := os.ReadFile(output)
	if err != nil {
		return domain.NewIOError(output, err)
	}
	res := repair.Validate(string(written), s.cfg.Repair.Indent, s.cfg.Repair.ContextWidth)
	report.Valid = res.Valid
	if !res.Valid {
		fillParseFailure(report, res)
		log.Warn("Reconstructed document is still invalid", zap.Error(res.Err), zap.Int("offset", res.Offset))
		return nil
	}
	log.Info("Reconstructed document is valid", zap.Strings("sections", report.Sections))
	return nil
}

func fillParseFailure(report *domain.RepairReport, res repair.Result) {
	report.Valid = false
	report.ParseError = res.Err.Error()
	report.ErrorOffset = res.Offset
	report.ErrorContext = res.Context
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return domain.NewIOError(path, err)
	}
	return nil
}
