// Package encoding widens the charsets understood when reading and writing
// mail. Import it for its side effect:
//
//	import _ "github.com/zostay/go-mime/message/header/encoding"
//
// On init it replaces field.CharsetEncoder and field.CharsetDecoder with
// versions backed by the IANA charset index of golang.org/x/text. After that,
// RFC 2231 parameter values, RFC 2047 encoded words, and Part.Text() can use
// any registered charset, such as koi8-r or iso-2022-jp, rather than only
// us-ascii, iso-8859-1, and utf-8. The extra tables add noticeably to binary
// size.
package encoding

import (
	"fmt"

	xencoding "golang.org/x/text/encoding"
	_ "golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"

	"github.com/zostay/go-mime/message/header/field"
)

func init() {
	field.CharsetEncoder = CharsetEncoder
	field.CharsetDecoder = CharsetDecoder
}

// lookup finds the named charset by its MIME name or alias.
func lookup(charset string) (xencoding.Encoding, error) {
	enc, err := ianaindex.MIME.Encoding(charset)
	if err != nil {
		return nil, err
	}

	if enc == nil {
		return nil, fmt.Errorf("charset %q is registered but not supported", charset)
	}

	return enc, nil
}

// CharsetEncoder is a field.Encoder for every charset in the IANA index. An
// empty charset is handled by field.DefaultCharsetEncoder.
func CharsetEncoder(charset, s string) ([]byte, error) {
	if charset == "" {
		return field.DefaultCharsetEncoder(charset, s)
	}

	enc, err := lookup(charset)
	if err != nil {
		return nil, err
	}

	return enc.NewEncoder().Bytes([]byte(s))
}

// CharsetDecoder is a field.Decoder for every charset in the IANA index. An
// empty charset is handled by field.DefaultCharsetDecoder.
func CharsetDecoder(charset string, b []byte) (string, error) {
	if charset == "" {
		return field.DefaultCharsetDecoder(charset, b)
	}

	enc, err := lookup(charset)
	if err != nil {
		return "", err
	}

	out, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", err
	}

	return string(out), nil
}
