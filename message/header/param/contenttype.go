package param

import (
	"fmt"
	"strings"

	"github.com/zostay/go-mime/message/header/token"
)

// Offsets used when serializing the parameters of a header to account for
// the field name at the start of the line.
const (
	contentTypeOffset        = len("Content-Type: ")
	contentDispositionOffset = len("Content-Disposition: ")
)

// ContentType is a parsed Content-type field body: a primary type, a sub-type,
// and a List of parameters.
type ContentType struct {
	primary, sub string
	params       *List
}

// NewContentType creates a ContentType with no parameters.
func NewContentType(primary, sub string) *ContentType {
	return &ContentType{
		primary: primary,
		sub:     sub,
		params:  NewList(),
	}
}

func expected(s string, tz *token.Tokenizer, what string, tok token.Token) error {
	return &token.ParseError{
		Input: s,
		Pos:   len(s) - len(tz.Remainder()),
		Msg:   fmt.Sprintf("expected %s, got %s", what, tok),
	}
}

// ParseContentType parses a field body of the form type/subtype followed by
// parameters. It returns a *token.ParseError if the body is malformed.
func ParseContentType(s string) (*ContentType, error) {
	tz := token.NewMIME(s)

	tok, err := tz.Next()
	if err != nil {
		return nil, err
	}
	if tok.Type != token.Atom {
		return nil, expected(s, tz, "MIME type", tok)
	}
	primary := tok.Value

	tok, err = tz.Next()
	if err != nil {
		return nil, err
	}
	if !tok.IsSpecial('/') {
		return nil, expected(s, tz, "'/'", tok)
	}

	tok, err = tz.Next()
	if err != nil {
		return nil, err
	}
	if tok.Type != token.Atom {
		return nil, expected(s, tz, "MIME subtype", tok)
	}
	sub := tok.Value

	params, err := Parse(tz.Remainder())
	if err != nil {
		return nil, err
	}

	return &ContentType{primary, sub, params}, nil
}

// PrimaryType returns the primary type, e.g., "text" in "text/plain".
func (ct *ContentType) PrimaryType() string { return ct.primary }

// SubType returns the sub-type, e.g., "plain" in "text/plain".
func (ct *ContentType) SubType() string { return ct.sub }

// SetPrimaryType replaces the primary type.
func (ct *ContentType) SetPrimaryType(p string) { ct.primary = p }

// SetSubType replaces the sub-type.
func (ct *ContentType) SetSubType(s string) { ct.sub = s }

// BaseType returns the lower-cased type/subtype without any parameters.
func (ct *ContentType) BaseType() string {
	return strings.ToLower(ct.primary + "/" + ct.sub)
}

// Params returns the parameter list. Changes made to it affect the
// ContentType.
func (ct *ContentType) Params() *List {
	if ct.params == nil {
		ct.params = NewList()
	}
	return ct.params
}

// SetParams replaces the parameter list.
func (ct *ContentType) SetParams(l *List) { ct.params = l }

// Parameter returns the named parameter.
func (ct *ContentType) Parameter(name string) (string, bool) {
	return ct.Params().Get(name)
}

// SetParameter sets the named parameter.
func (ct *ContentType) SetParameter(name, v string) {
	ct.Params().Set(name, v)
}

// Match compares two content types. The primary types must be equal, ignoring
// case. The sub-types match if they are equal, ignoring case, or if either one
// is "*". Parameters are not compared.
func (ct *ContentType) Match(other *ContentType) bool {
	if other == nil || !strings.EqualFold(ct.primary, other.primary) {
		return false
	}

	if ct.sub == "*" || other.sub == "*" {
		return true
	}

	return strings.EqualFold(ct.sub, other.sub)
}

// MatchString parses s and compares it with Match. It returns false if s
// cannot be parsed.
func (ct *ContentType) MatchString(s string) bool {
	other, err := ParseContentType(s)
	if err != nil {
		return false
	}
	return ct.Match(other)
}

// Clone returns a deep copy.
func (ct *ContentType) Clone() *ContentType {
	return &ContentType{ct.primary, ct.sub, ct.Params().Clone()}
}

// String returns the field body. It returns an empty string if the primary
// type is not set.
func (ct *ContentType) String() string {
	if ct.primary == "" {
		return ""
	}

	base := ct.primary + "/" + ct.sub
	return base + ct.Params().StringUsed(len(base)+contentTypeOffset)
}
