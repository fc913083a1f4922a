package repair

import (
	"fmt"
	"regexp"
	"strings"
)

type sectionState int

const (
	stateOutside sectionState = iota
	stateInSection
)

// Recognizer decides whether line, at zero-based index, calls for a recovery.
// current is the name of the open section, empty when none is open.
type Recognizer func(line string, index int, current string) bool

// Recovery is one entry of the reconstructor's recovery table: when Recognize
// fires, Section is opened and Lines are emitted in place of the matched line.
// With an empty Section the open section is kept and Lines are classified
// like input lines.
type Recovery struct {
	Name      string
	Recognize Recognizer
	Section   string
	Lines     []string
}

// RecordRecovery opens section at the first record recordID found after
// line afterLine, unless that section is already the open one.
func RecordRecovery(field, section, recordID string, afterLine int) Recovery {
	re := regexp.MustCompile(`"` + regexp.QuoteMeta(field) + `"\s*:\s*"` + regexp.QuoteMeta(recordID) + `"`)
	return Recovery{
		Name: "open-section:" + section,
		Recognize: func(line string, index int, current string) bool {
			return index > afterLine && current != section && re.MatchString(line)
		},
		Section: section,
		Lines: []string{
			"        {",
			"          " + jsonString(field) + ": " + jsonString(recordID) + ",",
		},
	}
}

// LineRecovery substitutes fix.Replace for the line fix points at.
func LineRecovery(fix LineFix) Recovery {
	return Recovery{
		Name: fmt.Sprintf("replace-line:%d", fix.Line),
		Recognize: func(line string, index int, current string) bool {
			return fix.matches(line, index)
		},
		Lines: fix.Replace,
	}
}

// Trace records what the reconstructor saw while scanning.
type Trace struct {
	Sections []string
	Dropped  []int
	Applied  []string
}

// Reconstructor rebuilds a document line by line under a fixed prefix. Lines
// are copied only while a section is open; everything else is dropped.
type Reconstructor struct {
	difficulty string
	skipLines  int
	sectionKey *regexp.Regexp
	recoveries []Recovery
}

func NewReconstructor(opts Options, extra ...Recovery) *Reconstructor {
	recoveries := make([]Recovery, 0, len(opts.LineFixes)+len(opts.Recoveries)+len(extra))
	for _, fix := range opts.LineFixes {
		recoveries = append(recoveries, LineRecovery(fix))
	}
	for _, rec := range opts.Recoveries {
		recoveries = append(recoveries, RecordRecovery(opts.RecordField, rec.Section, rec.RecordID, rec.AfterLine))
	}
	recoveries = append(recoveries, extra...)
	return &Reconstructor{
		difficulty: opts.Difficulty,
		skipLines:  opts.SkipLines,
		sectionKey: regexp.MustCompile(`^\s*"(` + regexp.QuoteMeta(opts.SectionPrefix) + `[^"]*)"\s*:\s*\[`),
		recoveries: recoveries,
	}
}

func (r *Reconstructor) Name() string { return StrategyRebuild }

func (r *Reconstructor) Repair(raw string) (Outcome, error) {
	text, trace := r.Reconstruct(strings.Split(raw, "\n"))
	return Outcome{
		Text:     text,
		Applied:  trace.Applied,
		Sections: trace.Sections,
		Dropped:  trace.Dropped,
	}, nil
}

// Reconstruct scans lines once and returns the rebuilt document.
func (r *Reconstructor) Reconstruct(lines []string) (string, Trace) {
	s := &scan{out: make([]string, 0, len(lines)+8)}
	s.emit("{")
	s.emit(`  "quizzes": {`)
	s.emit("    " + jsonString(r.difficulty) + ": {")

	for i, line := range lines {
		if i < r.skipLines {
			continue
		}

		if r.openSection(s, i, line) {
			continue
		}

		if rec, ok := r.recognize(line, i, s.current); ok {
			s.trace.Applied = append(s.trace.Applied, rec.Name)
			if rec.Section == "" {
				for _, l := range rec.Lines {
					if !r.openSection(s, i, l) {
						s.handle(i, l)
					}
				}
				continue
			}
			s.discardPending()
			s.open(rec.Section)
			for _, l := range rec.Lines {
				s.emit(l)
				s.tracker.Feed(l)
			}
			continue
		}

		s.handle(i, line)
	}
	s.flushPending()

	if s.opened {
		s.closeSection("      ]")
	}
	s.emit("    }")
	s.emit("  }")
	s.emit("}")
	return strings.Join(s.out, "\n"), s.trace
}

// openSection starts a section when line declares one at record depth 0.
func (r *Reconstructor) openSection(s *scan, index int, line string) bool {
	m := r.sectionKey.FindStringSubmatchIndex(line)
	if m == nil || s.tracker.Depth() != 0 {
		return false
	}
	s.discardPending()
	s.open(line[m[2]:m[3]])
	// Data sharing the header line, including an inline "]".
	if rest := strings.TrimSpace(line[m[1]:]); rest != "" {
		s.handle(index, "        "+rest)
	}
	return true
}

func (r *Reconstructor) recognize(line string, index int, current string) (Recovery, bool) {
	for _, rec := range r.recoveries {
		if rec.Recognize(line, index, current) {
			return rec, true
		}
	}
	return Recovery{}, false
}

type pendingLine struct {
	index int
	text  string
}

// scan is the mutable state of one Reconstruct call.
type scan struct {
	out     []string
	state   sectionState
	current string
	opened  bool
	tracker bracketTracker

	// A bare "{" is held back one line: if the next line triggers a
	// recovery the opener belongs to the malformed record and is discarded.
	pending    pendingLine
	hasPending bool

	trace Trace
}

func (s *scan) emit(line string) {
	s.out = append(s.out, line)
}

func (s *scan) open(name string) {
	if s.opened {
		s.closeSection("      ],")
	}
	s.emit("      " + jsonString(name) + ": [")
	s.tracker.Reset()
	s.state = stateInSection
	s.current = name
	s.opened = true
	s.trace.Sections = append(s.trace.Sections, name)
}

// closeSection balances whatever the section left open, then closes its list.
func (s *scan) closeSection(closer string) {
	s.dropTrailingComma()
	closers := s.tracker.Closers()
	for i, c := range closers {
		depth := len(closers) - 1 - i
		s.emit(strings.Repeat("  ", 4+depth) + string(c))
	}
	s.emit(closer)
}

func (s *scan) dropTrailingComma() {
	for i := len(s.out) - 1; i >= 0; i-- {
		trimmed := strings.TrimRight(s.out[i], " \t\r")
		if trimmed == "" {
			continue
		}
		s.out[i] = strings.TrimSuffix(trimmed, ",")
		return
	}
}

// handle copies line, holding back a bare "{" until the next line is seen.
func (s *scan) handle(index int, line string) {
	s.flushPending()
	if s.state == stateInSection && strings.TrimSpace(line) == "{" {
		s.pending, s.hasPending = pendingLine{index: index, text: line}, true
		return
	}
	s.passThrough(index, line)
}

func (s *scan) passThrough(index int, line string) {
	if s.state == stateOutside {
		s.trace.Dropped = append(s.trace.Dropped, index)
		return
	}
	if s.tracker.Depth() == 0 && !s.tracker.InString() {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "]"):
			// The section's own closer; its list is closed by open or termination.
			s.state = stateOutside
			return
		case strings.HasPrefix(trimmed, "}"):
			s.trace.Dropped = append(s.trace.Dropped, index)
			return
		}
	}
	s.emit(line)
	s.tracker.Feed(line)
}

func (s *scan) flushPending() {
	if !s.hasPending {
		return
	}
	s.hasPending = false
	s.passThrough(s.pending.index, s.pending.text)
}

func (s *scan) discardPending() {
	if !s.hasPending {
		return
	}
	s.hasPending = false
	s.trace.Dropped = append(s.trace.Dropped, s.pending.index)
}
