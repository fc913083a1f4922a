package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "QUIZFIX"

type Config struct {
	Repair RepairConfig
	Logger LoggerConfig
	Redis  RedisConfig
	Upload UploadConfig
}

// RepairConfig holds the paths and heuristics used by the repair strategies.
type RepairConfig struct {
	Input         string
	Output        string
	DebugSuffix   string
	Strategy      string
	ContextWidth  int
	Indent        string
	Difficulty    string
	SkipLines     int
	SectionPrefix string
	RecordField   string
	Recoveries    []RecoveryConfig
	LineFixes     []LineFixConfig
}

// RecoveryConfig describes one known-bad section: the record that should open
// it and the line index after which the reconstructor looks for it.
type RecoveryConfig struct {
	Section   string `mapstructure:"section"`
	RecordID  string `mapstructure:"record_id"`
	AfterLine int    `mapstructure:"after_line"`
}

// LineFixConfig replaces one input line, addressed by its 1-based number.
// Expect, when set, must equal the trimmed line for the fix to apply.
type LineFixConfig struct {
	Line    int      `mapstructure:"line"`
	Expect  string   `mapstructure:"expect"`
	Replace []string `mapstructure:"replace"`
}

type LoggerConfig struct {
	Level string
	Env   string
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type UploadConfig struct {
	Attempts uint
	Delay    time.Duration
	TTL      time.Duration
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("repair.input", filepath.Join("backend", "firebase_import", "quizzes.json"))
	v.SetDefault("repair.output", filepath.Join("backend", "firebase_import", "quizzes_fixed.json"))
	v.SetDefault("repair.debug_suffix", ".debug")
	v.SetDefault("repair.strategy", "patch")
	v.SetDefault("repair.context_width", 50)
	v.SetDefault("repair.indent", "  ")
	v.SetDefault("repair.difficulty", "facile")
	v.SetDefault("repair.skip_lines", 3)
	v.SetDefault("repair.section_prefix", "maladies_")
	v.SetDefault("repair.record_field", "quizId")
	v.SetDefault("repair.recoveries", []map[string]any{
		{
			"section":    "maladies_hematologiques",
			"record_id":  "maladies_hematologiques_quiz_1",
			"after_line": 2000,
		},
	})

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.env", "development")

	v.SetDefault("redis.address", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("upload.attempts", 3)
	v.SetDefault("upload.delay", "1s")
	v.SetDefault("upload.ttl", "0s")
}

// LoadConfig reads config.yaml (optional) from cfgFile or the default search
// paths, then applies QUIZFIX_* environment overrides.
func LoadConfig(cfgFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if configFile := v.ConfigFileUsed(); configFile != "" {
		if _, err := os.Stat(configFile); err == nil {
			absPath, _ := filepath.Abs(configFile)
			fmt.Fprintf(os.Stderr, "Using config file: %s\n", absPath)
		}
	}

	config := &Config{
		Repair: RepairConfig{
			Input:         v.GetString("repair.input"),
			Output:        v.GetString("repair.output"),
			DebugSuffix:   v.GetString("repair.debug_suffix"),
			Strategy:      v.GetString("repair.strategy"),
			ContextWidth:  v.GetInt("repair.context_width"),
			Indent:        v.GetString("repair.indent"),
			Difficulty:    v.GetString("repair.difficulty"),
			SkipLines:     v.GetInt("repair.skip_lines"),
			SectionPrefix: v.GetString("repair.section_prefix"),
			RecordField:   v.GetString("repair.record_field"),
		},
		Logger: LoggerConfig{
			Level: v.GetString("logger.level"),
			Env:   v.GetString("logger.env"),
		},
		Redis: RedisConfig{
			Address:  v.GetString("redis.address"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Upload: UploadConfig{
			Attempts: v.GetUint("upload.attempts"),
			Delay:    v.GetDuration("upload.delay"),
			TTL:      v.GetDuration("upload.ttl"),
		},
	}

	if err := v.UnmarshalKey("repair.recoveries", &config.Repair.Recoveries); err != nil {
		return nil, fmt.Errorf("failed to parse repair.recoveries: %w", err)
	}
	if err := v.UnmarshalKey("repair.line_fixes", &config.Repair.LineFixes); err != nil {
		return nil, fmt.Errorf("failed to parse repair.line_fixes: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate rejects settings the repair strategies cannot work with.
func (c *Config) Validate() error {
	if c.Repair.Input == "" {
		return fmt.Errorf("repair.input must be set")
	}
	if c.Repair.Output == "" {
		return fmt.Errorf("repair.output must be set")
	}
	if c.Repair.ContextWidth <= 0 {
		return fmt.Errorf("repair.context_width must be positive, got %d", c.Repair.ContextWidth)
	}
	if c.Repair.SkipLines < 0 {
		return fmt.Errorf("repair.skip_lines must not be negative, got %d", c.Repair.SkipLines)
	}
	for i, r := range c.Repair.Recoveries {
		if r.Section == "" || r.RecordID == "" {
			return fmt.Errorf("repair.recoveries[%d]: section and record_id are required", i)
		}
	}
	for i, f := range c.Repair.LineFixes {
		if f.Line <= 0 {
			return fmt.Errorf("repair.line_fixes[%d]: line must be positive, got %d", i, f.Line)
		}
		if len(f.Replace) == 0 {
			return fmt.Errorf("repair.line_fixes[%d]: replace must not be empty", i)
		}
	}
	return nil
}

// DebugPath is where the unparsed text is saved when a patch run fails.
func (c *Config) DebugPath() string {
	return c.Repair.Output + c.Repair.DebugSuffix
}
