// Package token provides the lexer used to break structured header field
// bodies into atoms, quoted strings, comments, and special characters as
// described by RFC 822 and RFC 2045. The param package builds the
// Content-type and Content-disposition parsers on top of it.
package token

import "fmt"

// Type identifies what kind of Token was read.
type Type int

// These are the token types returned by the Tokenizer.
const (
	EOF          Type = iota // end of input
	Atom                     // a run of non-special characters
	QuotedString             // text between double quotes, unescaped
	Comment                  // text between balanced parentheses
	Special                  // a single delimiter or control character
)

// String returns a readable name for the token type.
func (t Type) String() string {
	switch t {
	case EOF:
		return "EOF"
	case Atom:
		return "Atom"
	case QuotedString:
		return "QuotedString"
	case Comment:
		return "Comment"
	case Special:
		return "Special"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// Token is a single lexical item read from a header field body. For Special
// tokens, Value holds the character itself.
type Token struct {
	Type  Type
	Value string
}

// IsSpecial returns true if this is a Special token for the given character.
func (t Token) IsSpecial(c byte) bool {
	return t.Type == Special && len(t.Value) == 1 && t.Value[0] == c
}

// String returns a debugging representation of the token.
func (t Token) String() string {
	if t.Type == EOF {
		return "EOF"
	}
	return fmt.Sprintf("%s(%q)", t.Type, t.Value)
}

// ParseError is returned whenever the input cannot be tokenized or whenever a
// parser built on the Tokenizer finds a token it did not expect.
type ParseError struct {
	// Input is the complete string being parsed.
	Input string

	// Pos is the byte offset at which the problem was found.
	Pos int

	// Msg describes the problem.
	Msg string
}

// Error returns the error message with the position and input attached.
func (e *ParseError) Error() string {
	return fmt.Sprintf("%s (at offset %d of %q)", e.Msg, e.Pos, e.Input)
}
