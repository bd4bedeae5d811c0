package field

import "strings"

// MaxLineLength is the line length that Fold aims to stay within.
const MaxLineLength = 76

func isSpace(c byte) bool { return c == ' ' || c == '\t' }

// Fold breaks s into lines no longer than MaxLineLength where possible. The
// used argument is the number of characters already on the first line, such
// as the field name and colon. Breaks are made at the last run of whitespace
// that fits, which is carried to the start of the next line. Text without any
// usable whitespace is left long. Trailing whitespace is removed.
func Fold(used int, s string) string {
	s = strings.TrimRight(s, " \t\r\n")
	if used+len(s) <= MaxLineLength {
		return s
	}

	var sb strings.Builder
	sb.Grow(len(s) + 4)

	var lastc byte
	for used+len(s) > MaxLineLength {
		lastSpace := -1
		for i := 0; i < len(s); i++ {
			if lastSpace != -1 && used+i > MaxLineLength {
				break
			}

			c := s[i]
			if isSpace(c) && !isSpace(lastc) {
				lastSpace = i
			}
			lastc = c
		}

		if lastSpace == -1 {
			break
		}

		sb.WriteString(s[:lastSpace])
		sb.WriteString("\r\n")
		lastc = s[lastSpace]
		sb.WriteByte(lastc)
		s = s[lastSpace+1:]
		used = 1
	}

	sb.WriteString(s)
	return sb.String()
}

// Unfold removes folding from a field body. Each line break followed by
// whitespace is replaced by a single space. A line break escaped with a
// backslash is kept with the backslash dropped, and a line break not followed
// by whitespace is kept as-is.
func Unfold(s string) string {
	if !strings.ContainsAny(s, "\r\n") {
		return s
	}

	var sb strings.Builder
	sb.Grow(len(s))

	for {
		start := strings.IndexAny(s, "\r\n")
		if start < 0 {
			break
		}

		i := start + 1
		if s[start] == '\r' && i < len(s) && s[i] == '\n' {
			i++
		}

		if start > 0 && s[start-1] == '\\' {
			sb.WriteString(s[:start-1])
			sb.WriteString(s[start:i])
			s = s[i:]
			continue
		}

		if i >= len(s) {
			sb.WriteString(s[:start])
			s = ""
			break
		}

		if isSpace(s[i]) {
			for i < len(s) && isSpace(s[i]) {
				i++
			}
			sb.WriteString(s[:start])
			sb.WriteByte(' ')
			s = s[i:]
			continue
		}

		sb.WriteString(s[:i])
		s = s[i:]
	}

	sb.WriteString(s)
	return sb.String()
}
