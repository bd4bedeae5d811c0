package field

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Encoder represents the character encoding function used to transform native
// unicode strings into bytes of the named charset.
//
// If the target charset is not supported, bytes should be returned as nil and
// an error should be returned.
type Encoder func(charset, s string) ([]byte, error)

// Decoder represents the character decoding function used to transform bytes
// in the named charset into native unicode. Bytes invalid for the charset
// should become unicode.ReplacementChar.
//
// If the source charset is not supported, an error should be returned.
type Decoder func(charset string, b []byte) (string, error)

var (
	// CharsetEncoder is the Encoder used whenever text must be turned into the
	// bytes of a declared charset, e.g., RFC 2231 parameter values. To handle
	// a wide variety of encodings, import the encoding package:
	//  import _ "github.com/zostay/go-mime/message/header/encoding"
	CharsetEncoder Encoder = DefaultCharsetEncoder

	// CharsetDecoder is the Decoder used whenever bytes in a declared charset
	// must become unicode text, e.g., RFC 2231 parameter values, RFC 2047
	// words, and text bodies. To handle a wide variety of encodings, import
	// the encoding package:
	//  import _ "github.com/zostay/go-mime/message/header/encoding"
	CharsetDecoder Decoder = DefaultCharsetDecoder
)

// DefaultCharsetEncoder is the default encoder. It is able to handle us-ascii,
// iso-8859-1 (a.k.a. latin1), and utf-8 only. Anything else will result in an
// error.
//
// Characters that do not fit in the target charset are replaced with "\x1a",
// the ASCII SUB character.
func DefaultCharsetEncoder(charset, s string) ([]byte, error) {
	switch strings.ToLower(charset) {
	case "us-ascii", "ascii", "":
		return substitute(s, unicode.MaxASCII), nil
	case "iso-8859-1", "latin1":
		return substitute(s, unicode.MaxLatin1), nil
	case "utf-8", "utf8":
		return []byte(s), nil
	default:
		return nil, fmt.Errorf("unsupported byte encoding %q", charset)
	}
}

func substitute(s string, maxRune rune) []byte {
	var buf bytes.Buffer
	for _, c := range s {
		if c > maxRune {
			buf.WriteByte('\x1a')
		} else {
			buf.WriteByte(byte(c))
		}
	}
	return buf.Bytes()
}

// DefaultCharsetDecoder is the default decoder. It is able to handle us-ascii,
// iso-8859-1 (a.k.a. latin1), and utf-8 only. Anything else will result in an
// error.
//
// When us-ascii is input, any 8-bit byte is translated into
// unicode.ReplacementChar. When utf-8 is input, invalid sequences are
// translated the same way.
func DefaultCharsetDecoder(charset string, b []byte) (string, error) {
	var s strings.Builder
	switch strings.ToLower(charset) {
	case "us-ascii", "ascii", "":
		for _, c := range b {
			if c > unicode.MaxASCII {
				s.WriteRune(unicode.ReplacementChar)
			} else {
				s.WriteByte(c)
			}
		}
	case "iso-8859-1", "latin1":
		for _, c := range b {
			s.WriteRune(rune(c))
		}
	case "utf-8", "utf8":
		for len(b) > 0 {
			r, size := utf8.DecodeRune(b)
			s.WriteRune(r)
			b = b[size:]
		}
	default:
		return "", fmt.Errorf("unsupported byte encoding %q", charset)
	}
	return s.String(), nil
}

// CharsetDecoderToCharsetReader transforms a Decoder into the interface used by
// mime.WordDecoder.
func CharsetDecoderToCharsetReader(decode Decoder) func(string, io.Reader) (io.Reader, error) {
	return func(charset string, r io.Reader) (io.Reader, error) {
		bs, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}

		s, err := decode(charset, bs)
		if err != nil {
			return nil, err
		}

		return strings.NewReader(s), nil
	}
}
