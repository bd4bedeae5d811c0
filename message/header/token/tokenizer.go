package token

import (
	"strings"
	"unicode/utf8"
)

// Delimiter sets understood by the Tokenizer. Either may be passed to New, or
// a caller may supply a set of its own.
const (
	// RFC822 is the set of specials defined for RFC 822 structured fields
	// (address lists, message IDs, and the like).
	RFC822 = "()<>@,;:\\\"\t .[]"

	// MIME is the tspecials set of RFC 2045, used by Content-type and
	// Content-disposition.
	MIME = "()<>@,;:\\\"\t []/?="
)

// Tokenizer reads tokens from a header field body one at a time. It is not
// safe for concurrent use.
type Tokenizer struct {
	s            string
	delimiters   string
	skipComments bool
	pos          int
}

// New returns a Tokenizer over s that treats every character in delimiters as
// a Special. If skipComments is true, comments are consumed silently rather
// than returned.
func New(s, delimiters string, skipComments bool) *Tokenizer {
	return &Tokenizer{
		s:            s,
		delimiters:   delimiters,
		skipComments: skipComments,
	}
}

// NewMIME returns a Tokenizer using the MIME delimiters that skips comments.
func NewMIME(s string) *Tokenizer {
	return New(s, MIME, true)
}

// Next returns the next token. At the end of input it returns an EOF token
// (and keeps returning it).
func (t *Tokenizer) Next() (Token, error) {
	return t.next(0, false)
}

// NextUntil works like Next, but treats endOfAtom as the expected terminator
// of the token. If an atom or special stops on any other character, the text
// up to endOfAtom (or the end of input) is returned as a QuotedString with
// trailing whitespace trimmed. The endOfAtom character itself is left unread.
//
// When keepEscapes is true, backslashes inside quoted text are kept rather
// than resolved.
func (t *Tokenizer) NextUntil(endOfAtom byte, keepEscapes bool) (Token, error) {
	return t.next(endOfAtom, keepEscapes)
}

// Peek returns the token Next would return without consuming it.
func (t *Tokenizer) Peek() (Token, error) {
	saved := t.pos
	tok, err := t.next(0, false)
	t.pos = saved
	return tok, err
}

// Remainder returns the unread portion of the input.
func (t *Tokenizer) Remainder() string {
	if t.pos >= len(t.s) {
		return ""
	}
	return t.s[t.pos:]
}

func (t *Tokenizer) errorf(msg string) *ParseError {
	return &ParseError{Input: t.s, Pos: t.pos, Msg: msg}
}

func isControl(c byte) bool {
	return c < 0x20 || c >= 0x7f
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

// skipSpace moves past whitespace and returns false if the end of input was
// reached.
func (t *Tokenizer) skipSpace() bool {
	for ; t.pos < len(t.s); t.pos++ {
		if !isSpace(t.s[t.pos]) {
			return true
		}
	}
	return false
}

func (t *Tokenizer) next(eos byte, keepEscapes bool) (Token, error) {
	if t.pos >= len(t.s) || !t.skipSpace() {
		return Token{Type: EOF}, nil
	}

	c := t.s[t.pos]
	for c == '(' {
		t.pos++
		start := t.pos
		filter := false
		nesting := 1
		for ; nesting > 0 && t.pos < len(t.s); t.pos++ {
			switch t.s[t.pos] {
			case '\\':
				t.pos++
				filter = true
			case '\r':
				filter = true
			case '(':
				nesting++
			case ')':
				nesting--
			}
		}

		if nesting != 0 {
			return Token{}, t.errorf("Unbalanced comments")
		}

		if !t.skipComments {
			end := t.pos - 1
			if filter {
				return Token{Comment, filterToken(t.s[start:end], keepEscapes)}, nil
			}
			return Token{Comment, t.s[start:end]}, nil
		}

		if !t.skipSpace() {
			return Token{Type: EOF}, nil
		}
		c = t.s[t.pos]
	}

	if c == '"' {
		t.pos++
		return t.collectString('"', keepEscapes)
	}

	if isControl(c) || strings.IndexByte(t.delimiters, c) >= 0 {
		if eos != 0 && c != eos {
			return t.collectString(eos, keepEscapes)
		}

		if c >= utf8.RuneSelf {
			_, size := utf8.DecodeRuneInString(t.s[t.pos:])
			v := t.s[t.pos : t.pos+size]
			t.pos += size
			return Token{Special, v}, nil
		}

		t.pos++
		return Token{Special, string(c)}, nil
	}

	start := t.pos
	for ; t.pos < len(t.s); t.pos++ {
		c = t.s[t.pos]
		if isControl(c) || c == '(' || c == ' ' || c == '"' || strings.IndexByte(t.delimiters, c) >= 0 {
			if eos != 0 && c != eos {
				t.pos = start
				return t.collectString(eos, keepEscapes)
			}
			break
		}
	}

	return Token{Atom, t.s[start:t.pos]}, nil
}

// collectString reads up to eos. A real quoted string (eos is '"') consumes
// the closing quote. Any other terminator is left unread and the result is
// trimmed of trailing whitespace.
func (t *Tokenizer) collectString(eos byte, keepEscapes bool) (Token, error) {
	start := t.pos
	filter := false
	for ; t.pos < len(t.s); t.pos++ {
		c := t.s[t.pos]
		switch {
		case c == '\\':
			t.pos++
			filter = true
		case c == '\r':
			filter = true
		case c == eos:
			s := t.s[start:t.pos]
			if filter {
				s = filterToken(s, keepEscapes)
			}

			if c == '"' {
				t.pos++
			} else {
				s = trimTrailingSpace(s)
			}

			return Token{QuotedString, s}, nil
		}
	}

	if eos == '"' {
		return Token{}, t.errorf("Missing '\"'")
	}

	if t.pos > len(t.s) {
		t.pos = len(t.s)
	}

	s := t.s[start:t.pos]
	if filter {
		s = filterToken(s, keepEscapes)
	}

	return Token{QuotedString, trimTrailingSpace(s)}, nil
}

// filterToken resolves backslash escapes and drops CR (and any LF directly
// following a CR). A bare LF is kept.
func filterToken(s string, keepEscapes bool) string {
	var sb strings.Builder
	sb.Grow(len(s))

	gotEscape, gotCR := false, false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\n' && gotCR {
			gotCR = false
			continue
		}
		gotCR = false

		if gotEscape {
			if keepEscapes {
				sb.WriteByte('\\')
			}
			sb.WriteByte(c)
			gotEscape = false
			continue
		}

		switch c {
		case '\\':
			gotEscape = true
		case '\r':
			gotCR = true
		default:
			sb.WriteByte(c)
		}
	}

	return sb.String()
}

func trimTrailingSpace(s string) string {
	return strings.TrimRight(s, " \t\r\n")
}
