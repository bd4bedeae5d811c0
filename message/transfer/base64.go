package transfer

import (
	"encoding/base64"
	"io"
)

const defaultBase64LineLength = 76

var defaultBase64LineBreak = []byte{'\r', '\n'}

// newlineWriter breaks the output into lines of every bytes. A line break is
// written before the first byte of each new line and after the last line on
// Close, so there is never an empty line.
type newlineWriter struct {
	every int
	acc   int
	lbr   []byte
	w     io.Writer
}

func (nw *newlineWriter) Write(b []byte) (int, error) {
	n := 0
	for len(b) > 0 {
		if nw.acc == nw.every {
			if _, err := nw.w.Write(nw.lbr); err != nil {
				return n, err
			}
			nw.acc = 0
		}

		chunk := b
		if room := nw.every - nw.acc; len(chunk) > room {
			chunk = chunk[:room]
		}

		ln, err := nw.w.Write(chunk)
		n += ln
		nw.acc += ln
		if err != nil {
			return n, err
		}

		b = b[ln:]
	}

	return n, nil
}

// Close ends the last line.
func (nw *newlineWriter) Close() error {
	if nw.acc == 0 {
		return nil
	}

	nw.acc = 0
	_, err := nw.w.Write(nw.lbr)
	return err
}

// base64Writer flushes the encoder before ending the last line.
type base64Writer struct {
	enc io.WriteCloser
	nw  *newlineWriter
}

func (bw *base64Writer) Write(b []byte) (int, error) {
	return bw.enc.Write(b)
}

func (bw *base64Writer) Close() error {
	if err := bw.enc.Close(); err != nil {
		return err
	}
	return bw.nw.Close()
}

// NewBase64Encoder will translate all bytes written to the returned
// io.WriteCloser into base64 encoding and write those to the give io.Writer.
// The output is broken into CRLF terminated lines of 76 characters.
func NewBase64Encoder(w io.Writer) io.WriteCloser {
	nw := &newlineWriter{
		every: defaultBase64LineLength,
		lbr:   defaultBase64LineBreak,
		w:     w,
	}

	return &base64Writer{
		enc: base64.NewEncoder(base64.StdEncoding, nw),
		nw:  nw,
	}
}

// NewBase64Decoder will translate all bytes read from the given io.Reader as
// base64 and return the binary data to the returned io.Reader. Line breaks in
// the input are ignored.
func NewBase64Decoder(r io.Reader) io.Reader {
	return base64.NewDecoder(base64.StdEncoding, r)
}
