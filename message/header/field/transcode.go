package field

import (
	"mime"
	"strings"
)

// Encode transforms a field body into RFC 2047 encoded words if it contains
// anything that cannot appear in a header as-is. It always outputs b-type
// (Base-64) encoding using UTF-8 as the character set. Plain ASCII is returned
// unchanged.
func Encode(body string) string {
	return mime.BEncoding.Encode("utf-8", body)
}

// Decode transforms a field body by looking for RFC 2047 encoded words. When
// they are found, these are decoded into native unicode using CharsetDecoder.
func Decode(body string) (string, error) {
	if !strings.Contains(body, "=?") {
		return body, nil
	}

	dec := &mime.WordDecoder{
		CharsetReader: CharsetDecoderToCharsetReader(CharsetDecoder),
	}

	return dec.DecodeHeader(body)
}
