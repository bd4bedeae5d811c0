// Package field holds the low-level representation of a single header field
// along with the helpers needed to read and write field bodies: folding,
// RFC 2047 encoded words, and character set conversion.
package field

import (
	"strings"
)

// Field is a single header field. A real field keeps the raw line exactly as
// it was read (including any folding) so that it can be written back out
// unchanged. A placeholder field has a name but no line. It reserves an
// ordering slot in a header and is never visible as a real field.
type Field struct {
	name string
	raw  []byte
}

// New creates a field from a name and a body. The raw line is constructed as
// "Name: body".
func New(name, body string) *Field {
	return &Field{
		name: name,
		raw:  []byte(name + ": " + body),
	}
}

// NewPlaceholder creates a placeholder field for the given name.
func NewPlaceholder(name string) *Field {
	return &Field{name: name}
}

// Parse creates a field from a raw header line, which may contain folded
// continuation lines. The name is the text before the first colon. A line
// without a colon is kept as a degenerate field whose name and body are both
// the trimmed line.
func Parse(line string) *Field {
	name := line
	if colon := strings.IndexByte(line, ':'); colon >= 0 {
		name = line[:colon]
	}

	return &Field{
		name: strings.TrimSpace(name),
		raw:  []byte(line),
	}
}

// Name returns the field name as it appears in the line.
func (f *Field) Name() string {
	return f.name
}

// Matches returns true if the field has the given name, ignoring case.
func (f *Field) Matches(name string) bool {
	return strings.EqualFold(f.name, name)
}

// IsPlaceholder returns true if this field only reserves an ordering slot.
func (f *Field) IsPlaceholder() bool {
	return f.raw == nil
}

// Body returns the text following the colon with leading whitespace removed.
// Folding is left in place. A placeholder has an empty body.
func (f *Field) Body() string {
	if f.raw == nil {
		return ""
	}

	line := string(f.raw)
	colon := strings.IndexByte(line, ':')
	if colon < 0 {
		return strings.TrimSpace(line)
	}

	return strings.TrimLeft(line[colon+1:], " \t\r\n")
}

// Raw returns the complete line, or nil for a placeholder.
func (f *Field) Raw() []byte {
	return f.raw
}

// String returns the complete line as a string.
func (f *Field) String() string {
	return string(f.raw)
}

// SetBody replaces the body of the field. The name portion of an existing line
// is preserved as written, so a field read as "content-type" stays that way.
func (f *Field) SetBody(body string) {
	if f.raw != nil {
		if colon := strings.IndexByte(string(f.raw), ':'); colon >= 0 {
			f.raw = []byte(string(f.raw[:colon+1]) + " " + body)
			return
		}
	}

	f.raw = []byte(f.name + ": " + body)
}

// Clear turns the field into a placeholder.
func (f *Field) Clear() {
	f.raw = nil
}

// AppendContinuation adds a folded continuation line to the field. The line
// must start with whitespace to remain a valid fold on output.
func (f *Field) AppendContinuation(line string) {
	f.raw = append(f.raw, '\r', '\n')
	f.raw = append(f.raw, line...)
}

// Clone returns a copy of the field.
func (f *Field) Clone() *Field {
	c := &Field{name: f.name}
	if f.raw != nil {
		c.raw = make([]byte, len(f.raw))
		copy(c.raw, f.raw)
	}
	return c
}
