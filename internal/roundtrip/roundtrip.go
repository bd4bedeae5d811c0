// Package roundtrip checks that a message written back out matches the bytes
// it was parsed from.
package roundtrip

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/zostay/go-mime/message"
	"github.com/zostay/go-mime/message/walker"
)

// Result is the outcome of a round trip of a single message.
type Result struct {
	Original []byte
	Output   []byte
}

// Same reports whether the output matches the original once line endings
// have been normalized. The header is always written with CRLF, so a message
// stored with bare LF only differs in that respect.
func (r *Result) Same() bool {
	return bytes.Equal(normalize(r.Original), normalize(r.Output))
}

// Exact reports whether the output is byte-for-byte identical to the
// original.
func (r *Result) Exact() bool {
	return bytes.Equal(r.Original, r.Output)
}

// Diff returns a line oriented diff of the normalized original and output.
// Removed lines start with "-", added lines with "+". It returns an empty
// string when Same is true.
func (r *Result) Diff() string {
	if r.Same() {
		return ""
	}

	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(
		string(normalize(r.Original)),
		string(normalize(r.Output)),
	)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var out strings.Builder
	for _, d := range diffs {
		prefix := " "
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		}

		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			out.WriteString(prefix)
			out.WriteString(line)
			if !strings.HasSuffix(line, "\n") {
				out.WriteString("\n\\ No newline at end of file\n")
			}
		}
	}

	return out.String()
}

func normalize(b []byte) []byte {
	return bytes.ReplaceAll(b, []byte("\r\n"), []byte("\n"))
}

// Check reads a message from r, parses it, splits every nested part, and
// writes it back out. Splitting the parts makes the output come from the
// parsed structure rather than the bytes held by the top-level message.
func Check(r io.Reader, opts ...message.ParseOption) (*Result, error) {
	orig, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading message: %w", err)
	}

	m, err := message.Parse(bytes.NewReader(orig), opts...)
	if err != nil {
		return nil, err
	}

	var split walker.PartWalker = func(int, int, *message.Part) error { return nil }
	if err := split.Walk(&m.Part); err != nil {
		return nil, err
	}

	out := &bytes.Buffer{}
	if _, err := m.WriteTo(out); err != nil {
		return nil, fmt.Errorf("writing message: %w", err)
	}

	return &Result{Original: orig, Output: out.Bytes()}, nil
}

// Tree writes one line per part of msg to w, indented by depth. Each line
// gives the media type of the part, its size, and its file name, if any.
func Tree(w io.Writer, msg *message.Part) error {
	var pw walker.PartWalker = func(depth, i int, part *message.Part) error {
		mt, err := part.GetMediaType()
		if err != nil {
			mt = message.DefaultContentType
		}

		line := fmt.Sprintf("%s%d. %s", strings.Repeat("  ", depth), i+1, mt)
		if !part.IsMimeType("multipart/*") && !part.IsMimeType("message/rfc822") {
			line += fmt.Sprintf(" (%d bytes)", part.Size())
		}
		if fn, err := part.FileName(); err == nil {
			line += " " + fn
		}

		_, err = fmt.Fprintln(w, line)
		return err
	}

	return pw.Walk(msg)
}
