package transfer

// MaxLineLength is the longest line, not counting the line break, permitted
// in content sent without a transfer encoding.
const MaxLineLength = 998

type asciiClass int

const (
	allASCII asciiClass = iota
	mostlyASCII
	mostlyNonASCII
)

func isNonASCII(c byte) bool {
	return c >= 0x7f || (c < ' ' && c != '\r' && c != '\n' && c != '\t')
}

// classify counts ASCII and non-ASCII bytes. Content with lines that are too
// long, or binary content with line breaks other than CRLF, is never
// all-ASCII.
func classify(b []byte, text bool) asciiClass {
	ascii, nonASCII := 0, 0
	lineLen := 0
	longLine, badEOL := false, false

	for i, c := range b {
		switch c {
		case '\r':
			if i+1 >= len(b) || b[i+1] != '\n' {
				badEOL = true
			}
			lineLen = 0
			ascii++
			continue
		case '\n':
			if i == 0 || b[i-1] != '\r' {
				badEOL = true
			}
			lineLen = 0
			ascii++
			continue
		}

		lineLen++
		if lineLen > MaxLineLength {
			longLine = true
		}

		if isNonASCII(c) {
			nonASCII++
		} else {
			ascii++
		}
	}

	switch {
	case !text && badEOL:
		return mostlyNonASCII
	case nonASCII == 0 && !longLine:
		return allASCII
	case ascii > nonASCII:
		return mostlyASCII
	default:
		return mostlyNonASCII
	}
}

// Detect picks the transfer encoding needed to send b. Content made entirely
// of ASCII text in short lines needs no encoding and gets Bit7. Otherwise,
// text that is mostly ASCII gets QuotedPrintable and everything else gets
// Base64.
func Detect(b []byte, text bool) string {
	switch classify(b, text) {
	case allASCII:
		return Bit7
	case mostlyASCII:
		if text {
			return QuotedPrintable
		}
	}
	return Base64
}
