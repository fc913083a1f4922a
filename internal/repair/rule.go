package repair

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Rule is one find/replace correction applied to the whole text.
type Rule interface {
	Name() string
	// Apply returns the corrected text and whether anything changed.
	Apply(text string) (string, bool)
}

// HeaderRule restores a missing section header: a list closed with "],"
// directly followed by the object whose first field is Field == RecordID
// gets `"Section": [` inserted in front of that object.
type HeaderRule struct {
	Section  string
	Field    string
	RecordID string
	pattern  *regexp.Regexp
}

func NewHeaderRule(section, field, recordID string) *HeaderRule {
	return &HeaderRule{
		Section:  section,
		Field:    field,
		RecordID: recordID,
		pattern: regexp.MustCompile(`\],\s*\n\s*\{(\s*"` + regexp.QuoteMeta(field) +
			`"\s*:\s*"` + regexp.QuoteMeta(recordID) + `")`),
	}
}

func (r *HeaderRule) Name() string { return "insert-header:" + r.Section }

func (r *HeaderRule) Apply(text string) (string, bool) {
	changed := false
	out := r.pattern.ReplaceAllStringFunc(text, func(match string) string {
		sub := r.pattern.FindStringSubmatch(match)
		changed = true
		return "],\n      " + jsonString(r.Section) + ": [\n  {" + sub[1]
	})
	return out, changed
}

// LineFix replaces the input line numbered Line (1-based) with Replace. When
// Expect is set the trimmed line must equal it, otherwise the fix is skipped.
type LineFix struct {
	Line    int
	Expect  string
	Replace []string
}

func (f LineFix) matches(line string, index int) bool {
	return index == f.Line-1 && (f.Expect == "" || strings.TrimSpace(line) == f.Expect)
}

// LineRule applies every LineFix in a single pass, so all line numbers refer
// to the text as it was before any fix.
type LineRule struct {
	Fixes []LineFix
}

func (r LineRule) Name() string { return "replace-lines" }

func (r LineRule) Apply(text string) (string, bool) {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	changed := false
	for i, line := range lines {
		if fix, ok := r.match(line, i); ok {
			out = append(out, fix.Replace...)
			changed = true
			continue
		}
		out = append(out, line)
	}
	if !changed {
		return text, false
	}
	return strings.Join(out, "\n"), true
}

func (r LineRule) match(line string, index int) (LineFix, bool) {
	for _, fix := range r.Fixes {
		if fix.matches(line, index) {
			return fix, true
		}
	}
	return LineFix{}, false
}

func jsonString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
