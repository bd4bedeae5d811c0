package param

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/zostay/go-mime/message/header/field"
	"github.com/zostay/go-mime/message/header/token"
)

// These are the names of commonly used parameters.
const (
	// Charset is the name of the charset parameter that may be present in the
	// Content-type header.
	Charset = "charset"

	// Boundary is the name of the boundary parameter that may be present in
	// the Content-type header.
	Boundary = "boundary"

	// Filename is the name of the filename parameter that may be present in
	// the Content-disposition header.
	Filename = "filename"

	// Name is the name of the name parameter that may be present in the
	// Content-type header. Older mailers use it for the file name.
	Name = "name"
)

// DefaultCharset is used to decode RFC 2231 values that do not declare a
// charset.
const DefaultCharset = "utf-8"

// Lengths that govern serialization of a List.
const (
	// MaxLineLength is the line length output is folded to fit.
	MaxLineLength = 76

	// MaxValueLength is the longest value written as a single parameter.
	// Longer values are split into RFC 2231 continuation segments.
	MaxValueLength = 60
)

type value struct {
	value   string
	charset string // set only for RFC 2231 encoded values
	encoded string // charset'lang'%XX form of value
}

type segment struct {
	value   string
	encoded bool
}

// List is a set of parameters keyed by lower-cased name. Multi-segment RFC
// 2231 parameters are held separately until they are combined, which happens
// on Get, Names, Combine, or serialization.
//
// The zero value is an empty list ready to use. A List is not safe for
// concurrent use.
type List struct {
	params   map[string]*value
	segments map[string]map[int]segment
}

// NewList returns an empty List.
func NewList() *List {
	return &List{}
}

func (l *List) init() {
	if l.params == nil {
		l.params = make(map[string]*value)
	}
	if l.segments == nil {
		l.segments = make(map[string]map[int]segment)
	}
}

// Parse parses a string of ";name=value" pairs into a List. Values may be
// atoms or quoted strings. A trailing ";" is permitted. Anything else results
// in a *token.ParseError.
func Parse(s string) (*List, error) {
	return parse(s, false)
}

// ParseLenient parses parameters the way Parse does, but accepts values that
// contain unquoted specials and whitespace by reading each value up to the
// next ";". Backslashes in name and filename values are kept as-is so that
// Windows paths survive. A stray atom found after a value is appended to that
// value.
func ParseLenient(s string) (*List, error) {
	return parse(s, true)
}

func parseError(s string, tz *token.Tokenizer, format string, args ...any) error {
	return &token.ParseError{
		Input: s,
		Pos:   len(s) - len(tz.Remainder()),
		Msg:   fmt.Sprintf(format, args...),
	}
}

func parse(s string, lenient bool) (*List, error) {
	l := &List{}
	l.init()

	tz := token.NewMIME(s)
	lastName := ""
	for {
		tok, err := tz.Next()
		if err != nil {
			return nil, err
		}

		if tok.Type == token.EOF {
			break
		}

		if !tok.IsSpecial(';') {
			if lenient && lastName != "" && (tok.Type == token.Atom || tok.Type == token.QuotedString) {
				l.appendValue(lastName, " "+tok.Value)
				continue
			}
			return nil, parseError(s, tz, "expected ';', got %s", tok)
		}

		tok, err = tz.Next()
		if err != nil {
			return nil, err
		}

		if tok.Type == token.EOF {
			break
		}

		if tok.Type != token.Atom {
			return nil, parseError(s, tz, "expected parameter name, got %s", tok)
		}

		name := strings.ToLower(tok.Value)

		tok, err = tz.Next()
		if err != nil {
			return nil, err
		}

		if !tok.IsSpecial('=') {
			return nil, parseError(s, tz, "expected '=', got %s", tok)
		}

		if lenient {
			tok, err = tz.NextUntil(';', name == Name || name == Filename)
		} else {
			tok, err = tz.Next()
		}
		if err != nil {
			return nil, err
		}

		if tok.Type != token.Atom && tok.Type != token.QuotedString {
			return nil, parseError(s, tz, "expected parameter value, got %s", tok)
		}

		l.store(name, tok.Value)
		lastName = name
	}

	return l, nil
}

// store files a parsed name/value pair as a plain value, a single encoded
// value (name*), or a continuation segment (name*N or name*N*).
func (l *List) store(name, raw string) {
	star := strings.IndexByte(name, '*')
	if star < 0 {
		l.params[name] = &value{value: raw}
		return
	}

	base, rest := name[:star], name[star+1:]
	if rest == "" {
		l.params[base] = decodeExtended(raw)
		return
	}

	encoded := strings.HasSuffix(rest, "*")
	num := strings.TrimSuffix(rest, "*")
	if n, err := strconv.Atoi(num); err == nil && n >= 0 && isDigits(num) {
		segs := l.segments[base]
		if segs == nil {
			segs = make(map[int]segment)
			l.segments[base] = segs
		}
		segs[n] = segment{raw, encoded}
		return
	}

	l.params[name] = &value{value: raw}
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}

func (l *List) appendValue(name, more string) {
	base, _, _ := strings.Cut(name, "*")
	for _, n := range []string{name, base} {
		if v, ok := l.params[n]; ok {
			v.value += more
			v.charset, v.encoded = "", ""
			return
		}
	}

	// the value went into a segment
	if segs := l.segments[base]; len(segs) > 0 {
		maxIx := -1
		for ix := range segs {
			if ix > maxIx {
				maxIx = ix
			}
		}
		sg := segs[maxIx]
		sg.value += more
		segs[maxIx] = sg
	}
}

// combine joins the pending segments of the named parameter into a single
// value, which is stored in place of the segments.
func (l *List) combine(name string) (*value, bool) {
	segs := l.segments[name]
	if len(segs) == 0 {
		return nil, false
	}

	ixs := make([]int, 0, len(segs))
	for ix := range segs {
		ixs = append(ixs, ix)
	}
	sort.Ints(ixs)

	var (
		buf     []byte
		charset string
	)
	for _, ix := range ixs {
		sg := segs[ix]
		if !sg.encoded {
			buf = append(buf, sg.value...)
			continue
		}

		v := sg.value
		if charset == "" {
			if cs, rest, ok := splitCharset(v); ok {
				charset, v = cs, rest
			}
		}
		buf = append(buf, percentDecode(v)...)
	}

	cs := charset
	if cs == "" {
		cs = DefaultCharset
	}

	s, err := field.CharsetDecoder(cs, buf)
	if err != nil {
		s = string(buf)
	}

	v := &value{value: s}
	if charset != "" {
		v.charset = charset
		v.encoded = charset + "''" + percentEncode(buf)
	}

	l.params[name] = v
	delete(l.segments, name)

	return v, true
}

// Combine joins all pending RFC 2231 continuation segments into their logical
// parameters.
func (l *List) Combine() {
	for name := range l.segments {
		if _, ok := l.params[name]; ok {
			// a direct value wins over segments with the same name
			delete(l.segments, name)
			continue
		}
		l.combine(name)
	}
}

// Get returns the value of the named parameter. The name is matched without
// regard to case. If the parameter was sent as RFC 2231 segments, they are
// combined and decoded first. The second return value is false if no such
// parameter exists.
func (l *List) Get(name string) (string, bool) {
	name = strings.ToLower(name)
	if v, ok := l.params[name]; ok {
		return v.value, true
	}

	if v, ok := l.combine(name); ok {
		return v.value, true
	}

	return "", false
}

// Charset returns the charset the named parameter was RFC 2231 encoded with or
// an empty string if the parameter was not encoded (or does not exist).
func (l *List) Charset(name string) string {
	if _, ok := l.Get(name); !ok {
		return ""
	}
	return l.params[strings.ToLower(name)].charset
}

// Set stores a literal value for the named parameter, replacing any previous
// value.
func (l *List) Set(name, v string) {
	l.init()
	name = strings.ToLower(name)
	l.params[name] = &value{value: v}
	delete(l.segments, name)
}

// SetEncoded stores the value for the named parameter and arranges for it to
// be written in the RFC 2231 extended form using the given charset. It fails
// if the value cannot be represented in that charset.
func (l *List) SetEncoded(name, v, charset string) error {
	b, err := field.CharsetEncoder(charset, v)
	if err != nil {
		return err
	}

	l.init()
	name = strings.ToLower(name)
	l.params[name] = &value{
		value:   v,
		charset: charset,
		encoded: charset + "''" + percentEncode(b),
	}
	delete(l.segments, name)

	return nil
}

// Delete removes the named parameter.
func (l *List) Delete(name string) {
	name = strings.ToLower(name)
	delete(l.params, name)
	delete(l.segments, name)
}

// Names returns the names of all parameters in sorted order.
func (l *List) Names() []string {
	l.Combine()
	names := make([]string, 0, len(l.params))
	for name := range l.params {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of parameters.
func (l *List) Len() int {
	l.Combine()
	return len(l.params)
}

// Clone returns a deep copy of the List.
func (l *List) Clone() *List {
	c := &List{}
	c.init()
	for name, v := range l.params {
		vc := *v
		c.params[name] = &vc
	}
	for name, segs := range l.segments {
		sc := make(map[int]segment, len(segs))
		for ix, sg := range segs {
			sc[ix] = sg
		}
		c.segments[name] = sc
	}
	return c
}

// String serializes the list as though it were at the start of a line.
func (l *List) String() string {
	return l.StringUsed(0)
}

// StringUsed serializes the list as a sequence of "; name=value" pairs sorted
// by name. The used argument is the number of characters already present on
// the current line. Whenever the next pair would run past MaxLineLength, the
// output is folded onto a new line starting with a tab. Values that need it
// are quoted and values longer than MaxValueLength are split into RFC 2231
// continuation segments.
func (l *List) StringUsed(used int) string {
	var sb strings.Builder
	for _, name := range l.Names() {
		for _, nv := range l.params[name].pairs(name) {
			sb.WriteString("; ")
			used += 2

			if used+len(nv.name)+len(nv.value)+1 > MaxLineLength {
				sb.WriteString("\r\n\t")
				used = 8
			}

			sb.WriteString(nv.name)
			sb.WriteByte('=')
			used += len(nv.name) + 1

			if used+len(nv.value) > MaxLineLength {
				s := field.Fold(used, nv.value)
				sb.WriteString(s)
				if lf := strings.LastIndexByte(s, '\n'); lf >= 0 {
					used = len(s) - lf - 1
				} else {
					used += len(s)
				}
				continue
			}

			sb.WriteString(nv.value)
			used += len(nv.value)
		}
	}
	return sb.String()
}

type pair struct {
	name, value string
}

// pairs returns the name=value pairs needed to write the value, splitting it
// into segments when it is too long.
func (v *value) pairs(name string) []pair {
	if v.charset != "" {
		if len(v.encoded) <= MaxValueLength {
			return []pair{{name + "*", v.encoded}}
		}

		chunks := splitEncoded(v.encoded, MaxValueLength)
		ps := make([]pair, len(chunks))
		for i, chunk := range chunks {
			ps[i] = pair{name + "*" + strconv.Itoa(i) + "*", chunk}
		}
		return ps
	}

	if len(v.value) <= MaxValueLength {
		return []pair{{name, quote(v.value)}}
	}

	chunks := splitPlain(v.value, MaxValueLength)
	ps := make([]pair, len(chunks))
	for i, chunk := range chunks {
		ps[i] = pair{name + "*" + strconv.Itoa(i), quote(chunk)}
	}
	return ps
}
