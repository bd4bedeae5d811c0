package message

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
)

// lwspSlack is the most linear white space allowed after a boundary for it to
// still be recognized.
const lwspSlack = 64

type boundaryKind int

const (
	noBoundary boundaryKind = iota
	separator
	terminator
)

// splitter breaks multipart content into its parts.
type splitter struct {
	br   *bufio.Reader
	dash []byte
	pr   *parser
}

func newSplitter(r io.Reader, boundary string, pr *parser) *splitter {
	dash := []byte("--" + boundary)

	size := pr.chunkSize
	if need := 1 + len(dash) + 2 + lwspSlack + 2; size < need {
		size = need
	}

	return &splitter{
		br:   bufio.NewReaderSize(r, size),
		dash: dash,
		pr:   pr,
	}
}

func isLWSP(c byte) bool { return c == ' ' || c == '\t' }

// boundaryAhead checks whether a boundary starts off bytes into the unread
// input. It returns the kind of boundary found and how many bytes to discard
// to consume it. A separator is consumed with its line ending. A terminator is
// consumed only through its closing "--", leaving the rest for the epilogue.
func (s *splitter) boundaryAhead(off int) (boundaryKind, int) {
	b, err := s.br.Peek(off + len(s.dash) + 2 + lwspSlack + 2)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return noBoundary, 0
	}

	if len(b) < off || !bytes.HasPrefix(b[off:], s.dash) {
		return noBoundary, 0
	}

	i := off + len(s.dash)
	kind := separator
	if bytes.HasPrefix(b[i:], []byte("--")) {
		kind = terminator
		i += 2
	}

	j := i
	for j < len(b) && isLWSP(b[j]) {
		j++
	}

	if kind == terminator {
		if j == len(b) && errors.Is(err, io.EOF) || j < len(b) && (b[j] == '\r' || b[j] == '\n') {
			return terminator, i
		}
		return noBoundary, 0
	}

	switch {
	case j < len(b) && b[j] == '\n':
		return separator, j + 1
	case j+1 < len(b) && b[j] == '\r' && b[j+1] == '\n':
		return separator, j + 2
	}

	return noBoundary, 0
}

// trimLine removes the line ending and any trailing white space.
func trimLine(line []byte) []byte {
	line = bytes.TrimRight(line, "\r\n")
	return bytes.TrimRight(line, " \t")
}

// readPreamble reads up to and including the first boundary line. It returns
// the bytes before it and the kind of boundary found, which is noBoundary if
// the input ended first. For a terminator, tail holds the rest of its line.
func (s *splitter) readPreamble() (pre []byte, kind boundaryKind, tail []byte, err error) {
	for {
		line, rerr := s.br.ReadBytes('\n')
		if rerr != nil && !errors.Is(rerr, io.EOF) {
			return nil, noBoundary, nil, fmt.Errorf("reading multipart preamble: %w", rerr)
		}

		t := trimLine(line)
		switch {
		case bytes.Equal(t, s.dash):
			return pre, separator, nil, nil
		case len(t) == len(s.dash)+2 && bytes.HasPrefix(t, s.dash) && bytes.HasSuffix(t, []byte("--")):
			return pre, terminator, line[len(t):], nil
		}

		pre = append(pre, line...)
		if rerr != nil {
			return pre, noBoundary, nil, nil
		}
	}
}

// readPart reads the bytes of a part up to the next boundary. The line ending
// before the boundary belongs to the boundary and is not included. It
// returns noBoundary if the input ended first.
func (s *splitter) readPart() ([]byte, boundaryKind, error) {
	part := []byte{}
	if kind, n := s.boundaryAhead(0); kind != noBoundary {
		_, _ = s.br.Discard(n)
		return part, kind, nil
	}

	max := s.pr.maxPartLen
	for {
		c, err := s.br.ReadByte()
		if errors.Is(err, io.EOF) {
			return part, noBoundary, nil
		} else if err != nil {
			return nil, noBoundary, fmt.Errorf("reading multipart part: %w", err)
		}

		switch c {
		case '\n':
			if kind, n := s.boundaryAhead(0); kind != noBoundary {
				_, _ = s.br.Discard(n)
				return part, kind, nil
			}
		case '\r':
			if next, _ := s.br.Peek(1); len(next) == 1 && next[0] == '\n' {
				if kind, n := s.boundaryAhead(1); kind != noBoundary {
					_, _ = s.br.Discard(n)
					return part, kind, nil
				}
			}
		}

		part = append(part, c)

		// copy the run of bytes up to the next line break
		buffered, _ := s.br.Peek(s.br.Buffered())
		run := bytes.IndexAny(buffered, "\r\n")
		if run < 0 {
			run = len(buffered)
		}
		part = append(part, buffered[:run]...)
		_, _ = s.br.Discard(run)

		if max > 0 && len(part) > max {
			return nil, noBoundary, ErrLargePart
		}
	}
}

// rest returns everything left in the input.
func (s *splitter) rest() ([]byte, error) {
	b, err := io.ReadAll(s.br)
	if err != nil {
		return nil, fmt.Errorf("reading multipart epilogue: %w", err)
	}
	if b == nil {
		b = []byte{}
	}
	return b, nil
}

// inferBoundary returns the boundary named by the first line of b that starts
// with "--", or "" if there is none.
func inferBoundary(b []byte) string {
	for len(b) > 0 {
		var line []byte
		line, b, _ = bytes.Cut(b, []byte("\n"))
		t := trimLine(line)
		if len(t) > 2 && bytes.HasPrefix(t, []byte("--")) {
			return string(bytes.TrimSuffix(t[2:], []byte("--")))
		}
	}
	return ""
}
