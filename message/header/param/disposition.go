package param

import (
	"strings"

	"github.com/zostay/go-mime/message/header/token"
)

// Disposition values defined by RFC 2183.
const (
	Inline     = "inline"
	Attachment = "attachment"
)

// Disposition is a parsed Content-disposition field body: a disposition type
// and a List of parameters.
type Disposition struct {
	disposition string
	params      *List
}

// NewDisposition creates a Disposition with no parameters.
func NewDisposition(d string) *Disposition {
	return &Disposition{d, NewList()}
}

// ParseDisposition parses a field body made of a single atom followed by
// parameters. It returns a *token.ParseError if the body is malformed.
func ParseDisposition(s string) (*Disposition, error) {
	tz := token.NewMIME(s)

	tok, err := tz.Next()
	if err != nil {
		return nil, err
	}
	if tok.Type != token.Atom {
		return nil, expected(s, tz, "disposition", tok)
	}

	params, err := Parse(tz.Remainder())
	if err != nil {
		return nil, err
	}

	return &Disposition{tok.Value, params}, nil
}

// Disposition returns the disposition type, e.g., "attachment".
func (d *Disposition) Disposition() string { return d.disposition }

// SetDisposition replaces the disposition type, keeping the parameters.
func (d *Disposition) SetDisposition(v string) { d.disposition = v }

// IsAttachment returns true for the attachment disposition.
func (d *Disposition) IsAttachment() bool {
	return strings.EqualFold(d.disposition, Attachment)
}

// IsInline returns true for the inline disposition.
func (d *Disposition) IsInline() bool {
	return strings.EqualFold(d.disposition, Inline)
}

// Params returns the parameter list. Changes made to it affect the
// Disposition.
func (d *Disposition) Params() *List {
	if d.params == nil {
		d.params = NewList()
	}
	return d.params
}

// SetParams replaces the parameter list.
func (d *Disposition) SetParams(l *List) { d.params = l }

// Parameter returns the named parameter.
func (d *Disposition) Parameter(name string) (string, bool) {
	return d.Params().Get(name)
}

// SetParameter sets the named parameter.
func (d *Disposition) SetParameter(name, v string) {
	d.Params().Set(name, v)
}

// Clone returns a deep copy.
func (d *Disposition) Clone() *Disposition {
	return &Disposition{d.disposition, d.Params().Clone()}
}

// String returns the field body. It returns an empty string if no disposition
// type is set.
func (d *Disposition) String() string {
	if d.disposition == "" {
		return ""
	}
	return d.disposition + d.Params().StringUsed(len(d.disposition)+contentDispositionOffset)
}
