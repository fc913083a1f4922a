package repair

// bracketTracker follows JSON nesting across successive chunks of text.
// Brackets inside string literals are ignored and mismatched closers are
// skipped, so the stack always describes what is still open.
type bracketTracker struct {
	stack    []byte
	inString bool
	escaped  bool
}

func (t *bracketTracker) Feed(s string) {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if t.inString {
			switch {
			case t.escaped:
				t.escaped = false
			case c == '\\':
				t.escaped = true
			case c == '"':
				t.inString = false
			}
			continue
		}
		switch c {
		case '"':
			t.inString = true
		case '{', '[':
			t.stack = append(t.stack, c)
		case '}', ']':
			if n := len(t.stack); n > 0 && t.stack[n-1] == openerOf(c) {
				t.stack = t.stack[:n-1]
			}
		}
	}
}

func (t *bracketTracker) Depth() int {
	return len(t.stack)
}

func (t *bracketTracker) InString() bool {
	return t.inString
}

// Closers returns the tokens that balance the open brackets, innermost first.
func (t *bracketTracker) Closers() []byte {
	out := make([]byte, 0, len(t.stack))
	for i := len(t.stack) - 1; i >= 0; i-- {
		out = append(out, closerOf(t.stack[i]))
	}
	return out
}

func (t *bracketTracker) Reset() {
	t.stack = t.stack[:0]
	t.inString = false
	t.escaped = false
}

func openerOf(c byte) byte {
	if c == '}' {
		return '{'
	}
	return '['
}

func closerOf(c byte) byte {
	if c == '{' {
		return '}'
	}
	return ']'
}
