package transfer

import (
	"io"
	"mime/quotedprintable"
)

// closer wraps an io.Writer with a Close that flushes whatever is buffered by
// the encoder. A nil flush makes Close a no-op.
type closer struct {
	io.Writer
	flush func() error
}

func (c *closer) Close() error {
	if c.flush == nil {
		return nil
	}
	return c.flush()
}

// NewAsIsEncoder returns an io.WriteCloser that writes bytes to w unchanged.
// Closing it does not close w.
func NewAsIsEncoder(w io.Writer) io.WriteCloser {
	return &closer{Writer: w}
}

// NewAsIsDecoder returns r.
func NewAsIsDecoder(r io.Reader) io.Reader {
	return r
}

// NewQuotedPrintableEncoder returns an io.WriteCloser that writes the
// quoted-printable form of the bytes written to it to w. Line breaks in the
// input are kept as line breaks and output lines are soft broken at 76
// characters. Close must be called to write the final line.
func NewQuotedPrintableEncoder(w io.Writer) io.WriteCloser {
	qpw := quotedprintable.NewWriter(w)
	return &closer{Writer: qpw, flush: qpw.Close}
}

// NewQuotedPrintableDecoder returns an io.Reader that decodes the
// quoted-printable content read from r. Soft line breaks are removed.
func NewQuotedPrintableDecoder(r io.Reader) io.Reader {
	return quotedprintable.NewReader(r)
}
