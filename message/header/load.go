package header

import (
	"bufio"
	"bytes"
	"errors"
	"io"
)

// DefaultMaxHeaderLength is the default limit on the size of a header read by
// Load.
const DefaultMaxHeaderLength = 64 * 1024

// ErrLargeHeader is returned by Load when the header is larger than the
// allowed maximum.
var ErrLargeHeader = errors.New("header exceeds maximum allowed length")

// readLine reads one line, accepting CRLF, LF, or a bare CR as the line
// ending, which is not included in the result. The eof result is true if
// input ended before a line ending was seen, in which case line holds any
// partial line.
func readLine(br *bufio.Reader) (line []byte, n int, eof bool, err error) {
	for {
		c, err := br.ReadByte()
		if errors.Is(err, io.EOF) {
			return line, n, true, nil
		} else if err != nil {
			return line, n, false, err
		}
		n++

		switch c {
		case '\n':
			return line, n, false, nil
		case '\r':
			if next, err := br.Peek(1); err == nil && next[0] == '\n' {
				_, _ = br.ReadByte()
				n++
			}
			return line, n, false, nil
		}

		line = append(line, c)
	}
}

// Load reads header lines from br into h until it reaches a blank line or the
// end of input. The blank line is consumed. Each line is added with AddLine,
// so fields keep the order they were read in and folded lines are kept
// exactly as read.
//
// If maxLen is greater than zero and the header is longer than maxLen bytes,
// it returns ErrLargeHeader.
func (h *Base) Load(br *bufio.Reader, maxLen int) error {
	h.initBase()
	h.terminated = false
	h.partial = false

	total := 0
	for {
		line, n, eof, err := readLine(br)
		if err != nil {
			return err
		}

		total += n
		if maxLen > 0 && total > maxLen {
			return ErrLargeHeader
		}

		if len(line) == 0 {
			h.terminated = !eof
			return nil
		}

		h.AddLine(string(line))

		if eof {
			h.partial = true
			return nil
		}
	}
}

// Parse reads a header from the given bytes.
func Parse(b []byte) (*Header, error) {
	h := &Header{}
	err := h.Load(bufio.NewReader(bytes.NewReader(b)), 0)
	return h, err
}
