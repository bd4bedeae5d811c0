package param

import (
	"strings"
	"unicode/utf8"

	"github.com/zostay/go-mime/message/header/field"
	"github.com/zostay/go-mime/message/header/token"
)

const upperHex = "0123456789ABCDEF"

// decodeExtended decodes a single RFC 2231 extended value of the form
// charset'language'percent-encoded-bytes. If the bytes cannot be decoded in
// the declared charset, the raw text is kept as the value.
func decodeExtended(raw string) *value {
	charset, rest, ok := splitCharset(raw)
	if !ok {
		rest = raw
	}

	cs := charset
	if cs == "" {
		cs = DefaultCharset
	}

	s, err := field.CharsetDecoder(cs, percentDecode(rest))
	if err != nil {
		s = raw
	}

	return &value{
		value:   s,
		charset: cs,
		encoded: raw,
	}
}

// splitCharset splits charset'language'rest and returns the charset and the
// rest. It returns false if the value has no charset prefix.
func splitCharset(v string) (charset, rest string, ok bool) {
	q1 := strings.IndexByte(v, '\'')
	if q1 < 0 {
		return "", v, false
	}

	q2 := strings.IndexByte(v[q1+1:], '\'')
	if q2 < 0 {
		return "", v, false
	}

	return v[:q1], v[q1+1+q2+1:], true
}

func unhex(c byte) (byte, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// percentDecode resolves %XX escapes. A malformed escape is kept literally.
func percentDecode(s string) []byte {
	b := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) {
			hi, okHi := unhex(s[i+1])
			lo, okLo := unhex(s[i+2])
			if okHi && okLo {
				b = append(b, hi<<4|lo)
				i += 2
				continue
			}
		}
		b = append(b, s[i])
	}
	return b
}

// isAttributeChar reports whether c may appear unescaped in an RFC 2231
// extended value.
func isAttributeChar(c byte) bool {
	if c <= ' ' || c >= 0x7f {
		return false
	}
	return strings.IndexByte("*'%"+token.MIME, c) < 0
}

func percentEncode(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b) * 3)
	for _, c := range b {
		if isAttributeChar(c) {
			sb.WriteByte(c)
			continue
		}
		sb.WriteByte('%')
		sb.WriteByte(upperHex[c>>4])
		sb.WriteByte(upperHex[c&0x0f])
	}
	return sb.String()
}

// splitEncoded breaks an encoded value into chunks of at most n bytes without
// splitting a %XX escape.
func splitEncoded(s string, n int) []string {
	var chunks []string
	for len(s) > n {
		end := n
		if pct := strings.LastIndexByte(s[:end], '%'); pct >= 0 && pct > end-3 {
			end = pct
		}
		chunks = append(chunks, s[:end])
		s = s[end:]
	}
	return append(chunks, s)
}

// splitPlain breaks a value into chunks of at most n bytes without splitting
// a UTF-8 sequence.
func splitPlain(s string, n int) []string {
	var chunks []string
	for len(s) > n {
		end := n
		for end > 0 && !utf8.RuneStart(s[end]) {
			end--
		}
		if end == 0 {
			end = n
		}
		chunks = append(chunks, s[:end])
		s = s[end:]
	}
	return append(chunks, s)
}

// quote returns the value as-is if it is a valid token. Otherwise, it is
// returned as a quoted string with '"', '\', CR, and LF escaped. The empty
// string is always quoted.
func quote(word string) string {
	if word == "" {
		return `""`
	}

	needQuoting := false
	for i := 0; i < len(word); i++ {
		c := word[i]
		if c == '"' || c == '\\' || c == '\r' || c == '\n' {
			return quoteEscaped(word)
		}

		if c < ' ' || c >= 0x7f || strings.IndexByte(token.MIME, c) >= 0 {
			needQuoting = true
		}
	}

	if needQuoting {
		return `"` + word + `"`
	}

	return word
}

func quoteEscaped(word string) string {
	var sb strings.Builder
	sb.Grow(len(word) + 4)
	sb.WriteByte('"')

	var lastc byte
	for i := 0; i < len(word); i++ {
		c := word[i]
		switch {
		case c == '\n' && lastc == '\r':
			// the CR was already escaped
		case c == '"' || c == '\\' || c == '\r' || c == '\n':
			sb.WriteByte('\\')
		}
		sb.WriteByte(c)
		lastc = c
	}

	sb.WriteByte('"')
	return sb.String()
}
