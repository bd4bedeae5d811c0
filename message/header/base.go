package header

import (
	"io"
	"strings"

	"github.com/zostay/go-mime/message/header/field"
)

// insertionPoint is the name of the placeholder marking where fields without
// a canonical slot are inserted by Add.
const insertionPoint = ":"

// canonicalOrder is the order in which well-known fields are written when
// they are added to a header built from scratch. Each name is seeded into a
// new header as a placeholder.
var canonicalOrder = [...]string{
	"Return-Path",
	"Received",
	"Resent-Date",
	"Resent-From",
	"Resent-Sender",
	"Resent-To",
	"Resent-Cc",
	"Resent-Bcc",
	"Resent-Message-Id",
	"Date",
	"From",
	"Sender",
	"Reply-To",
	"To",
	"Cc",
	"Bcc",
	"Message-Id",
	"In-Reply-To",
	"References",
	"Subject",
	"Comments",
	"Keywords",
	"Errors-To",
	"MIME-Version",
	"Content-Type",
	"Content-Transfer-Encoding",
	"Content-MD5",
	insertionPoint,
	"Content-Length",
	"Status",
}

// Base is the low-level store of header fields. It keeps an ordered list of
// fields, some of which may be placeholders that reserve the position of a
// well-known field that has not been set. Placeholders are never returned
// from any accessor and are never written.
//
// The zero value is an empty header ready to use. A Base is not safe for
// concurrent modification.
type Base struct {
	fields []*field.Field

	// last is the most recent field read by AddLine, which receives any
	// continuation lines that follow it.
	last *field.Field

	// terminated is set when Load stops at a blank line.
	terminated bool

	// partial is set when the last line read by Load ended at the end of
	// input rather than with a line break.
	partial bool
}

// initBase seeds the placeholders on first use.
func (h *Base) initBase() {
	if h.fields != nil {
		return
	}

	h.fields = make([]*field.Field, 0, len(canonicalOrder)+8)
	for _, name := range canonicalOrder {
		h.fields = append(h.fields, field.NewPlaceholder(name))
	}
}

func (h *Base) insert(ix int, f *field.Field) {
	h.fields = append(h.fields, nil)
	copy(h.fields[ix+1:], h.fields[ix:])
	h.fields[ix] = f
}

func (h *Base) delete(ix int) {
	if h.fields[ix] == h.last {
		h.last = nil
	}

	copy(h.fields[ix:], h.fields[ix+1:])
	h.fields[len(h.fields)-1] = nil
	h.fields = h.fields[:len(h.fields)-1]
}

// isTrace returns true for fields that are prepended rather than appended as
// a message travels, so the newest comes first.
func isTrace(name string) bool {
	return strings.EqualFold(name, "Received") ||
		strings.EqualFold(name, "Return-Path")
}

// Add adds a new field with the given name and body. The body is stored as
// given, so any folding is up to the caller.
//
// A field named Received or Return-Path is placed before every other field of
// the same name, or at the very top if there are none. Any other field is
// placed after the last field of the same name. If there is none, the field
// takes its canonical position (see canonicalOrder). A field with no canonical
// position is added just before the Content-Length position, which keeps
// added fields ahead of the fields describing the message length and status.
func (h *Base) Add(name, body string) {
	h.initBase()

	f := field.New(name, body)

	if isTrace(name) {
		for i, g := range h.fields {
			if !g.Matches(name) {
				continue
			}

			if g.IsPlaceholder() {
				h.fields[i] = f
			} else {
				h.insert(i, f)
			}
			return
		}

		h.insert(0, f)
		return
	}

	pos := len(h.fields)
	for i := len(h.fields) - 1; i >= 0; i-- {
		g := h.fields[i]
		if g.Matches(name) {
			if g.IsPlaceholder() {
				h.fields[i] = f
			} else {
				h.insert(i+1, f)
			}
			return
		}

		if g.IsPlaceholder() && g.Name() == insertionPoint && pos == len(h.fields) {
			pos = i
		}
	}

	h.insert(pos, f)
}

// firstReal returns the index of the first non-placeholder field with the
// given name or -1.
func (h *Base) firstReal(name string) int {
	for i, f := range h.fields {
		if f.Matches(name) && !f.IsPlaceholder() {
			return i
		}
	}
	return -1
}

// Set replaces the body of the first field with the given name, keeping the
// name as it was written and the position of the field. All later fields with
// the same name are removed. If there is no such field, Set works like Add.
func (h *Base) Set(name, body string) {
	first := h.firstReal(name)
	if first < 0 {
		h.Add(name, body)
		return
	}

	h.fields[first].SetBody(body)
	h.deleteAfter(first, name)
}

// deleteAfter removes every field or placeholder with the given name
// following the given index.
func (h *Base) deleteAfter(ix int, name string) {
	for i := len(h.fields) - 1; i > ix; i-- {
		if h.fields[i].Matches(name) {
			h.delete(i)
		}
	}
}

// Remove removes all fields with the given name. The position of the first
// one is retained as a placeholder, so adding the field again puts it back
// where it was.
func (h *Base) Remove(name string) {
	first := h.firstReal(name)
	if first < 0 {
		return
	}

	if h.fields[first] == h.last {
		h.last = nil
	}

	h.fields[first].Clear()
	h.deleteAfter(first, name)
}

// Values returns the bodies of every field with the given name in the order
// they appear. It returns nil if there are none.
func (h *Base) Values(name string) []string {
	var vs []string
	for _, f := range h.fields {
		if f.Matches(name) && !f.IsPlaceholder() {
			vs = append(vs, f.Body())
		}
	}
	return vs
}

// First returns the body of the first field with the given name. The second
// value is false if there is no such field.
func (h *Base) First(name string) (string, bool) {
	if ix := h.firstReal(name); ix >= 0 {
		return h.fields[ix].Body(), true
	}
	return "", false
}

// Joined returns the bodies of all the fields with the given name joined by
// delim. The second value is false if there are no such fields.
func (h *Base) Joined(name, delim string) (string, bool) {
	vs := h.Values(name)
	if vs == nil {
		return "", false
	}
	return strings.Join(vs, delim), true
}

// Fields returns the real fields in order. The fields are shared with the
// header, so changes made to them are visible in the header.
func (h *Base) Fields() []*field.Field {
	return h.selectFields(func(*field.Field) bool { return true })
}

func matchesAny(f *field.Field, names []string) bool {
	for _, n := range names {
		if f.Matches(n) {
			return true
		}
	}
	return false
}

// MatchingFields returns the real fields whose name is one of names.
func (h *Base) MatchingFields(names ...string) []*field.Field {
	return h.selectFields(func(f *field.Field) bool { return matchesAny(f, names) })
}

// NonMatchingFields returns the real fields whose name is none of names.
func (h *Base) NonMatchingFields(names ...string) []*field.Field {
	return h.selectFields(func(f *field.Field) bool { return !matchesAny(f, names) })
}

func (h *Base) selectFields(keep func(*field.Field) bool) []*field.Field {
	fs := make([]*field.Field, 0, len(h.fields))
	for _, f := range h.fields {
		if !f.IsPlaceholder() && keep(f) {
			fs = append(fs, f)
		}
	}
	return fs
}

func lines(fs []*field.Field) []string {
	ls := make([]string, len(fs))
	for i, f := range fs {
		ls[i] = f.String()
	}
	return ls
}

// Lines returns the raw lines of all the real fields, including any folding.
func (h *Base) Lines() []string {
	return lines(h.Fields())
}

// MatchingLines returns the raw lines of the fields named.
func (h *Base) MatchingLines(names ...string) []string {
	return lines(h.MatchingFields(names...))
}

// NonMatchingLines returns the raw lines of the fields not named.
func (h *Base) NonMatchingLines(names ...string) []string {
	return lines(h.NonMatchingFields(names...))
}

// AddLine adds a raw header line at the end of the header. A line starting
// with a space or tab continues the field added by the previous call. An
// empty line is ignored.
func (h *Base) AddLine(line string) {
	if line == "" {
		return
	}

	h.initBase()

	if (line[0] == ' ' || line[0] == '\t') && h.last != nil {
		h.last.AppendContinuation(line)
		return
	}

	f := field.Parse(line)
	h.fields = append(h.fields, f)
	h.last = f
}

// Len returns the number of real fields.
func (h *Base) Len() int {
	n := 0
	for _, f := range h.fields {
		if !f.IsPlaceholder() {
			n++
		}
	}
	return n
}

// Clone returns a deep copy of the header.
func (h *Base) Clone() *Base {
	c := &Base{terminated: h.terminated, partial: h.partial}
	if h.fields == nil {
		return c
	}

	c.fields = make([]*field.Field, len(h.fields))
	for i, f := range h.fields {
		c.fields[i] = f.Clone()
		if f == h.last {
			c.last = c.fields[i]
		}
	}
	return c
}

// Terminated returns true if the header was read by Load and ended with a
// blank line rather than the end of input.
func (h *Base) Terminated() bool {
	return h.terminated
}

// Partial returns true if the last line read by Load was cut off by the end of
// input without a line break.
func (h *Base) Partial() bool {
	return h.partial
}

// WriteTo writes each real field followed by CRLF and then the blank line
// that ends the header.
func (h *Base) WriteTo(w io.Writer) (int64, error) {
	total, err := h.WriteFieldsTo(w)
	if err != nil {
		return total, err
	}

	n, err := io.WriteString(w, "\r\n")
	total += int64(n)
	return total, err
}

// WriteFieldsTo writes each real field followed by CRLF without the blank
// line that ends the header.
func (h *Base) WriteFieldsTo(w io.Writer) (int64, error) {
	total := int64(0)
	for _, f := range h.fields {
		if f.IsPlaceholder() {
			continue
		}

		n, err := w.Write(f.Raw())
		total += int64(n)
		if err != nil {
			return total, err
		}

		n, err = io.WriteString(w, "\r\n")
		total += int64(n)
		if err != nil {
			return total, err
		}
	}

	return total, nil
}
