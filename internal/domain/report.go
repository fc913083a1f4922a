package domain

import "time"

// RepairReport is what one repair run hands back to the operator.
type RepairReport struct {
	RunID     string        `json:"runId" yaml:"runId"`
	Strategy  string        `json:"strategy" yaml:"strategy"`
	Input     string        `json:"input" yaml:"input"`
	Output    string        `json:"output,omitempty" yaml:"output,omitempty"`
	DebugPath string        `json:"debugPath,omitempty" yaml:"debugPath,omitempty"`
	Valid     bool          `json:"valid" yaml:"valid"`
	Duration  time.Duration `json:"duration" yaml:"duration"`

	// Set when the repaired text still fails to parse.
	ParseError   string `json:"parseError,omitempty" yaml:"parseError,omitempty"`
	ErrorOffset  int    `json:"errorOffset,omitempty" yaml:"errorOffset,omitempty"`
	ErrorContext string `json:"errorContext,omitempty" yaml:"errorContext,omitempty"`

	// Line-oriented reconstruction only.
	Sections     []string `json:"sections,omitempty" yaml:"sections,omitempty"`
	DroppedLines int      `json:"droppedLines,omitempty" yaml:"droppedLines,omitempty"`
}

// UploadReport summarises what was written to the quiz store.
type UploadReport struct {
	Difficulties []string `json:"difficulties" yaml:"difficulties"`
	Sections     int      `json:"sections" yaml:"sections"`
	// Sections read back from the store after the write.
	Verified int `json:"verified" yaml:"verified"`
}
