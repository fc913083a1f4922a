package repair

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"unicode/utf8"
)

const DefaultContextWidth = 50

// Result is the outcome of parsing repaired text.
type Result struct {
	Valid bool
	// Canonical is the indented serialization; key order and non-ASCII
	// characters are kept as they appear in the input.
	Canonical []byte

	// Offset is the character (rune) position of the parse error, within [0, len].
	Offset  int
	Context string
	Err     error
}

// Validate parses text and either re-serializes it or locates the error.
func Validate(text, indent string, width int) Result {
	data := []byte(text)

	var raw json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		offset := errorOffset(data, err)
		return Result{
			Offset:  offset,
			Context: ContextWindow(text, offset, width),
			Err:     err,
		}
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, bytes.TrimSpace(data), "", indent); err != nil {
		return Result{Err: err}
	}
	return Result{Valid: true, Canonical: buf.Bytes()}
}

// errorOffset converts the decoder's byte count into the rune index of the
// offending character, or the text length for a truncated document.
func errorOffset(data []byte, err error) int {
	var syntaxErr *json.SyntaxError
	if !errors.As(err, &syntaxErr) {
		return 0
	}
	pos := int(syntaxErr.Offset)
	if !strings.HasPrefix(syntaxErr.Error(), "unexpected end") {
		pos--
	}
	pos = max(0, min(pos, len(data)))
	return utf8.RuneCount(data[:pos])
}

// ContextWindow returns at most width characters of text centred on offset,
// clipped at the text boundaries.
func ContextWindow(text string, offset, width int) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(text)
	half := width / 2
	lo := max(0, offset-half)
	hi := min(len(runes), offset+half)
	if lo >= hi {
		return ""
	}
	return string(runes[lo:hi])
}
