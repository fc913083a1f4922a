package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("backend", "firebase_import", "quizzes.json"), cfg.Repair.Input)
	assert.Equal(t, "patch", cfg.Repair.Strategy)
	assert.Equal(t, 50, cfg.Repair.ContextWidth)
	assert.Equal(t, 3, cfg.Repair.SkipLines)
	assert.Equal(t, "facile", cfg.Repair.Difficulty)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, uint(3), cfg.Upload.Attempts)
	assert.Equal(t, time.Second, cfg.Upload.Delay)

	require.Len(t, cfg.Repair.Recoveries, 1)
	assert.Equal(t, RecoveryConfig{
		Section:   "maladies_hematologiques",
		RecordID:  "maladies_hematologiques_quiz_1",
		AfterLine: 2000,
	}, cfg.Repair.Recoveries[0])
	assert.Equal(t, cfg.Repair.Output+".debug", cfg.DebugPath())
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "quizfix.yaml")
	content := `
repair:
  input: in.json
  output: out.json
  strategy: rebuild
  recoveries:
    - section: maladies_renales
      record_id: maladies_renales_quiz_1
      after_line: 10
  line_fixes:
    - line: 747
      expect: "{"
      replace:
        - '"options": ["a", "b"],'
        - '"points": 20'
logger:
  level: debug
redis:
  address: localhost:6379
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("QUIZFIX_REPAIR_DIFFICULTY", "difficile")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "in.json", cfg.Repair.Input)
	assert.Equal(t, "out.json", cfg.Repair.Output)
	assert.Equal(t, "rebuild", cfg.Repair.Strategy)
	assert.Equal(t, "difficile", cfg.Repair.Difficulty)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, "localhost:6379", cfg.Redis.Address)
	require.Len(t, cfg.Repair.Recoveries, 1)
	assert.Equal(t, "maladies_renales", cfg.Repair.Recoveries[0].Section)
	assert.Equal(t, 10, cfg.Repair.Recoveries[0].AfterLine)
	assert.Equal(t, []LineFixConfig{{
		Line:    747,
		Expect:  "{",
		Replace: []string{`"options": ["a", "b"],`, `"points": 20`},
	}}, cfg.Repair.LineFixes)
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{Repair: RepairConfig{Input: "a", Output: "b", ContextWidth: 50}}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"missing input", func(c *Config) { c.Repair.Input = "" }, true},
		{"missing output", func(c *Config) { c.Repair.Output = "" }, true},
		{"zero context width", func(c *Config) { c.Repair.ContextWidth = 0 }, true},
		{"negative skip lines", func(c *Config) { c.Repair.SkipLines = -1 }, true},
		{"recovery without section", func(c *Config) {
			c.Repair.Recoveries = []RecoveryConfig{{RecordID: "x"}}
		}, true},
		{"line fix without line", func(c *Config) {
			c.Repair.LineFixes = []LineFixConfig{{Replace: []string{"{"}}}
		}, true},
		{"line fix without replacement", func(c *Config) {
			c.Repair.LineFixes = []LineFixConfig{{Line: 3}}
		}, true},
		{"valid line fix", func(c *Config) {
			c.Repair.LineFixes = []LineFixConfig{{Line: 3, Replace: []string{"{"}}}
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
