package transfer

import (
	"io"
	"strings"

	"github.com/zostay/go-mime/message/header"
)

const (
	None            = ""                 // bytes will be left as-is
	Bit7            = "7bit"             // bytes will be left as-is
	Bit8            = "8bit"             // bytes will be left as-is
	Binary          = "binary"           // bytes will be left as-is
	QuotedPrintable = "quoted-printable" // bytes will be transformed between quoted-printable and binary data
	Base64          = "base64"           // bytes will be transformed between base64 and binary data
)

// Transcoding is a pair of functions that can be used to transform to and from
// a transfer encoding.
type Transcoding struct {
	// Encoder returns an io.WriteCloser, which will encode binary data and
	// write the encoded form to the given io.Writer. You must call Close() on
	// the returned io.WriteCloser when you are finished.
	Encoder func(io.Writer) io.WriteCloser

	// Decoder returns an io.Reader, which will read from the given io.Reader
	// when read and decode the encoded data back into binary form the encoded
	// form.
	Decoder func(io.Reader) io.Reader
}

// AsIsTranscoder is just a shortcut to a no-op encoder/decoder.
var AsIsTranscoder = Transcoding{NewAsIsEncoder, NewAsIsDecoder}

// Transcodings defines the supported Content-Transfer-Encodings and how to
// handle them. Keys are lower case. It can be modified to change the global
// handling of transfer encodings.
var Transcodings = map[string]Transcoding{
	None:            AsIsTranscoder,
	Bit7:            AsIsTranscoder,
	Bit8:            AsIsTranscoder,
	Binary:          AsIsTranscoder,
	QuotedPrintable: {NewQuotedPrintableEncoder, NewQuotedPrintableDecoder},
	Base64:          {NewBase64Encoder, NewBase64Decoder},
}

// Lookup returns the Transcoding for the named encoding, ignoring case. The
// second value is false if the encoding is unknown.
func Lookup(cte string) (Transcoding, bool) {
	tc, ok := Transcodings[strings.ToLower(strings.TrimSpace(cte))]
	return tc, ok
}

// isMultipart returns true if the header declares a multipart type, which
// never has a transfer encoding applied to it as a whole.
func isMultipart(h *header.Header) bool {
	ct, err := h.GetContentType()
	return err == nil && strings.EqualFold(ct.PrimaryType(), "multipart")
}

// ApplyTransferEncoding is a helper that will check the given header to see if
// transfer encoding ought to be performed. It will return an io.WriteCloser
// that will write the encoding (or just pass data through if no encoding is
// necessary).
//
// You must call Close() on the returned io.WriteCloser when you are finished
// writing.
func ApplyTransferEncoding(h *header.Header, w io.Writer) io.WriteCloser {
	if isMultipart(h) {
		return NewAsIsEncoder(w)
	}

	cte, err := h.GetTransferEncoding()
	if err != nil {
		return NewAsIsEncoder(w)
	}

	if tc, hasCode := Lookup(cte); hasCode {
		return tc.Encoder(w)
	}

	return NewAsIsEncoder(w)
}

// ApplyTransferDecoding returns an io.Reader that will modify incoming bytes
// according to the transfer encoding detected from the given header. (Or the
// io.Reader will leave the bytes as is if there's no transfer encoding or the
// transfer encoding is one that is interpreted as-is).
func ApplyTransferDecoding(h *header.Header, r io.Reader) io.Reader {
	if isMultipart(h) {
		return r
	}

	cte, err := h.GetTransferEncoding()
	if err != nil {
		return r
	}

	if tc, hasCode := Lookup(cte); hasCode {
		return tc.Decoder(r)
	}

	return r
}
