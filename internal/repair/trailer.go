package repair

import (
	"strings"
	"unicode"
)

// Trailer returns the minimal closing sequence that balances text, innermost
// first. It is empty for a balanced document or when text ends inside a
// string literal, where no bracket sequence can help.
func Trailer(text string) string {
	var t bracketTracker
	t.Feed(text)
	if t.InString() {
		return ""
	}
	return string(t.Closers())
}

// TrailerRule appends the missing closing tokens when the document does not
// end with its expected terminator.
type TrailerRule struct{}

func (TrailerRule) Name() string { return "complete-trailer" }

func (TrailerRule) Apply(text string) (string, bool) {
	closers := Trailer(text)
	if closers == "" {
		return text, false
	}

	var b strings.Builder
	body := strings.TrimRightFunc(text, unicode.IsSpace)
	body = strings.TrimSuffix(body, ",")
	b.WriteString(body)
	for i := 0; i < len(closers); i++ {
		depth := len(closers) - 1 - i
		b.WriteByte('\n')
		b.WriteString(strings.Repeat("  ", depth))
		b.WriteByte(closers[i])
	}
	return b.String(), true
}
