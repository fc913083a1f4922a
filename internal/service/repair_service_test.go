package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"quiz-repair/internal/config"
	"quiz-repair/internal/domain"
	"quiz-repair/internal/repair"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig(dir string) *config.Config {
	return &config.Config{
		Repair: config.RepairConfig{
			Input:         filepath.Join(dir, "quizzes.json"),
			Output:        filepath.Join(dir, "quizzes_fixed.json"),
			DebugSuffix:   ".debug",
			Strategy:      "patch",
			ContextWidth:  50,
			Indent:        "  ",
			Difficulty:    "facile",
			SkipLines:     3,
			SectionPrefix: "maladies_",
			RecordField:   "quizId",
			Recoveries: []config.RecoveryConfig{
				{Section: "maladies_hematologiques", RecordID: "maladies_hematologiques_quiz_1", AfterLine: 5},
			},
		},
	}
}

func writeInput(t *testing.T, cfg *config.Config, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(cfg.Repair.Input, []byte(content), 0o644))
}

func TestRepairService_PatchValid(t *testing.T) {
	cfg := testConfig(t.TempDir())
	writeInput(t, cfg, `{"quizzes":{"facile":{"a":[{"quizId":"a_1","title":"Hématologie"}`)
	svc := NewRepairService(cfg, zap.NewNop())

	report, err := svc.Run(context.Background(), "")
	require.NoError(t, err)

	assert.True(t, report.Valid)
	assert.Equal(t, "patch", report.Strategy)
	assert.Len(t, report.RunID, 26)
	assert.Equal(t, cfg.Repair.Output, report.Output)
	assert.Empty(t, report.DebugPath)

	written, err := os.ReadFile(cfg.Repair.Output)
	require.NoError(t, err)
	assert.Equal(t, `{
  "quizzes": {
    "facile": {
      "a": [
        {
          "quizId": "a_1",
          "title": "Hématologie"
        }
      ]
    }
  }
}`, string(written))
	assert.NoFileExists(t, cfg.DebugPath())
}

func TestRepairService_PatchStillInvalid(t *testing.T) {
	cfg := testConfig(t.TempDir())
	raw := `{"quizzes": {"facile": {"a": [1,, 2]`
	writeInput(t, cfg, raw)
	svc := NewRepairService(cfg, zap.NewNop())

	report, err := svc.Run(context.Background(), "patch")
	require.NoError(t, err)

	assert.False(t, report.Valid)
	assert.NotEmpty(t, report.ParseError)
	assert.Equal(t, strings.Index(raw, ",,")+1, report.ErrorOffset)
	assert.LessOrEqual(t, len([]rune(report.ErrorContext)), 50)
	assert.Contains(t, report.ErrorContext, ",,")
	assert.Equal(t, cfg.DebugPath(), report.DebugPath)
	assert.NoFileExists(t, cfg.Repair.Output)

	debug, err := os.ReadFile(cfg.DebugPath())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(debug), raw))
	assert.True(t, strings.HasSuffix(string(debug), "}"))
}

func TestRepairService_Rebuild(t *testing.T) {
	cfg := testConfig(t.TempDir())
	writeInput(t, cfg, strings.Join([]string{
		`{`,
		`  "quizzes": {`,
		`    "facile": {`,
		`  "stray": true,`,
		`      "maladies_digestives": [`,
		`        {"quizId": "maladies_digestives_quiz_1"}`,
		`      ],`,
		`  {`,
		`    "quizId": "maladies_hematologiques_quiz_1",`,
		`    "title": "H"`,
		`  }`,
	}, "\n"))
	svc := NewRepairService(cfg, zap.NewNop())

	report, err := svc.Run(context.Background(), "rebuild")
	require.NoError(t, err)

	assert.True(t, report.Valid)
	assert.Equal(t, []string{"maladies_digestives", "maladies_hematologiques"}, report.Sections)
	assert.Equal(t, 2, report.DroppedLines)

	written, err := os.ReadFile(cfg.Repair.Output)
	require.NoError(t, err)
	assert.NotContains(t, string(written), "stray")
	doc, err := domain.ParseDocument(written)
	require.NoError(t, err)
	assert.Equal(t, "H", doc.Quizzes["facile"]["maladies_hematologiques"][0].Title)
}

func TestRepairService_RebuildInvalidWritesNoDebugFile(t *testing.T) {
	cfg := testConfig(t.TempDir())
	writeInput(t, cfg, strings.Join([]string{
		`{`, `  "quizzes": {`, `    "facile": {`,
		`      "maladies_digestives": [`,
		`        {"quizId": "maladies_digestives_quiz_1",, }`,
	}, "\n"))
	svc := NewRepairService(cfg, zap.NewNop())

	report, err := svc.Run(context.Background(), "rebuild")
	require.NoError(t, err)

	assert.False(t, report.Valid)
	assert.NotEmpty(t, report.ParseError)
	assert.Empty(t, report.DebugPath)
	assert.FileExists(t, cfg.Repair.Output)
	assert.NoFileExists(t, cfg.DebugPath())
}

func TestRepairService_Tolerant(t *testing.T) {
	cfg := testConfig(t.TempDir())
	writeInput(t, cfg, `{"quizzes": {"facile": {"a": [{"quizId": "a_1",}]}}}`)
	svc := NewRepairService(cfg, zap.NewNop())

	report, err := svc.Run(context.Background(), "tolerant")
	require.NoError(t, err)
	assert.True(t, report.Valid)

	written, err := os.ReadFile(cfg.Repair.Output)
	require.NoError(t, err)
	assert.JSONEq(t, `{"quizzes":{"facile":{"a":[{"quizId":"a_1"}]}}}`, string(written))
}

func TestRepairService_Errors(t *testing.T) {
	t.Run("missing input", func(t *testing.T) {
		cfg := testConfig(t.TempDir())
		_, err := NewRepairService(cfg, zap.NewNop()).Run(context.Background(), "patch")
		require.Error(t, err)
		assert.True(t, domain.HasCode(err, domain.ErrIO))
	})

	t.Run("unknown strategy", func(t *testing.T) {
		cfg := testConfig(t.TempDir())
		_, err := NewRepairService(cfg, zap.NewNop()).Run(context.Background(), "magic")
		require.Error(t, err)
		assert.True(t, domain.HasCode(err, domain.ErrUnknownStrategy))
	})

	t.Run("output directory missing", func(t *testing.T) {
		dir := t.TempDir()
		cfg := testConfig(dir)
		cfg.Repair.Output = filepath.Join(dir, "missing", "out.json")
		writeInput(t, cfg, `{"quizzes":{}}`)
		_, err := NewRepairService(cfg, zap.NewNop()).Run(context.Background(), "patch")
		require.Error(t, err)
		assert.True(t, domain.HasCode(err, domain.ErrIO))
	})

	t.Run("cancelled context", func(t *testing.T) {
		cfg := testConfig(t.TempDir())
		writeInput(t, cfg, `{"quizzes":{}}`)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := NewRepairService(cfg, zap.NewNop()).Run(ctx, "patch")
		assert.ErrorIs(t, err, context.Canceled)
		assert.NoFileExists(t, cfg.Repair.Output)
	})
}

func TestRepairOptions(t *testing.T) {
	cfg := testConfig(t.TempDir())
	opts := RepairOptions(cfg.Repair)

	assert.Equal(t, "facile", opts.Difficulty)
	assert.Equal(t, 3, opts.SkipLines)
	require.Len(t, opts.Recoveries, 1)
	assert.Equal(t, 5, opts.Recoveries[0].AfterLine)
	assert.Empty(t, opts.LineFixes)

	cfg.Repair.LineFixes = []config.LineFixConfig{{Line: 12, Expect: "{", Replace: []string{"],"}}}
	opts = RepairOptions(cfg.Repair)
	assert.Equal(t, []repair.LineFix{{Line: 12, Expect: "{", Replace: []string{"],"}}}, opts.LineFixes)
}
