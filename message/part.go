package message

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/zostay/go-mime/message/header"
	"github.com/zostay/go-mime/message/header/field"
	"github.com/zostay/go-mime/message/header/param"
	"github.com/zostay/go-mime/message/transfer"
)

// DefaultContentType is the Content-Type assumed for a part that does not
// declare one.
const DefaultContentType = "text/plain"

// Part is a MIME body part: a header and its content. The content is either
// the bytes read for the part, which are kept exactly as they appeared in the
// input, or content set by one of the content setters.
//
// A parsed part reads its content from the input the first time it is
// needed. Nested multipart or message/rfc822 content is parsed on demand and,
// when Config.CacheMultipart is set, kept so that changes made to it are
// written out. These lazy operations are safe to call from multiple
// goroutines. Changing a part is not.
//
// The zero value is an empty part ready to use.
type Part struct {
	// Header is the header of the part.
	header.Header

	pr *parser

	mu sync.Mutex

	// content holds the body and stream, when not nil, holds the unread
	// remainder of the input that will become the body.
	content []byte
	stream  io.Reader
	readErr error

	// encoded is true when content holds transfer encoded bytes.
	encoded bool

	// loaded is true for a part read from input and not yet given new
	// content.
	loaded bool

	// cached is the *Multipart or *Message parsed from or set as the content.
	cached any

	// dataType is the Content-Type to use for content set by SetContent when
	// the header has none.
	dataType string
}

func (p *Part) parser() *parser {
	if p.pr == nil {
		return defaultParser
	}
	return p.pr
}

// materialize reads the input stream into content if that has not happened
// yet. The caller must hold the lock.
func (p *Part) materialize() ([]byte, error) {
	if p.readErr != nil {
		return nil, p.readErr
	}

	if p.stream == nil {
		return p.content, nil
	}

	r := p.stream
	max := p.parser().maxPartLen
	if max > 0 {
		r = io.LimitReader(r, int64(max)+1)
	}

	b, err := io.ReadAll(r)
	switch {
	case err != nil:
		p.readErr = fmt.Errorf("reading content: %w", err)
	case max > 0 && len(b) > max:
		p.readErr = ErrLargePart
	}

	if p.readErr != nil {
		p.stream = nil
		return nil, p.readErr
	}

	p.content = b
	p.stream = nil
	return p.content, nil
}

func (p *Part) contentBytes() ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.materialize()
}

// ContentType returns the unfolded body of the Content-Type header or
// DefaultContentType if the header is not set.
func (p *Part) ContentType() string {
	body, err := p.Get(header.ContentType)
	if err != nil && !errors.Is(err, header.ErrManyFields) {
		return DefaultContentType
	}
	return field.Unfold(body)
}

// contentType parses ContentType(), returning the default if it cannot be
// parsed.
func (p *Part) contentType() *param.ContentType {
	ct, err := param.ParseContentType(p.ContentType())
	if err != nil {
		p.parser().log().Debug("unparseable Content-Type", "error", err)
		primary, sub, _ := strings.Cut(DefaultContentType, "/")
		return param.NewContentType(primary, sub)
	}
	return ct
}

// IsMimeType returns true if the Content-Type of the part matches mt. Case is
// ignored and "*" as the sub-type of either matches any sub-type. Parameters
// are ignored.
func (p *Part) IsMimeType(mt string) bool {
	ct, err := param.ParseContentType(p.ContentType())
	if err != nil {
		base, _, _ := strings.Cut(p.ContentType(), ";")
		return strings.EqualFold(strings.TrimSpace(base), mt)
	}
	return ct.MatchString(mt)
}

// Disposition returns the disposition type of the Content-Disposition
// header, such as "attachment". If the header cannot be parsed, the text
// before the first ";" is returned. It returns header.ErrNoSuchField if there
// is no Content-Disposition.
func (p *Part) Disposition() (string, error) {
	d, err := p.GetPresentation()
	if err == nil || errors.Is(err, header.ErrNoSuchField) {
		return d, err
	}

	body, gerr := p.Get(header.ContentDisposition)
	if gerr != nil && !errors.Is(gerr, header.ErrManyFields) {
		return "", gerr
	}

	p.parser().log().Debug("unparseable Content-Disposition", "error", err)
	d, _, _ = strings.Cut(field.Unfold(body), ";")
	return strings.TrimSpace(d), nil
}

// SetDisposition sets the disposition type of the Content-Disposition header,
// keeping any parameters it already has. An empty string removes the header.
func (p *Part) SetDisposition(d string) {
	if d == "" {
		p.Remove(header.ContentDisposition)
		return
	}
	p.SetPresentation(d)
}

// Encoding returns the Content-Transfer-Encoding of the part, lower-cased.
func (p *Part) Encoding() (string, error) {
	return p.GetTransferEncoding()
}

// paramsOf returns the parameters of a structured header. If the field does
// not parse strictly, the parameters are parsed leniently from the text after
// the first ";".
func (p *Part) paramsOf(name string) (*param.List, error) {
	body, err := p.Get(name)
	if err != nil && !errors.Is(err, header.ErrManyFields) {
		return nil, err
	}

	var strict func(string) (*param.List, error)
	switch name {
	case header.ContentDisposition:
		strict = func(s string) (*param.List, error) {
			d, err := param.ParseDisposition(s)
			if err != nil {
				return nil, err
			}
			return d.Params(), nil
		}
	default:
		strict = func(s string) (*param.List, error) {
			ct, err := param.ParseContentType(s)
			if err != nil {
				return nil, err
			}
			return ct.Params(), nil
		}
	}

	l, err := strict(body)
	if err == nil {
		return l, nil
	}

	p.parser().log().Debug("parsing parameters leniently", "field", name, "error", err)

	_, rest, found := strings.Cut(body, ";")
	if !found {
		return param.NewList(), nil
	}
	return param.ParseLenient(";" + rest)
}

// FileName returns the file name of the part. It is the filename parameter of
// the Content-Disposition or, failing that, the name parameter of the
// Content-Type. If Config.DecodeFilename is set, RFC 2047 encoded words in the
// name are decoded.
//
// It returns header.ErrNoSuchFieldParameter if neither parameter is set.
func (p *Part) FileName() (string, error) {
	name, found := "", false
	if l, err := p.paramsOf(header.ContentDisposition); err == nil {
		name, found = l.Get(param.Filename)
	}

	if !found {
		if l, err := p.paramsOf(header.ContentType); err == nil {
			name, found = l.Get(param.Name)
		}
	}

	if !found {
		return "", header.ErrNoSuchFieldParameter
	}

	if p.parser().cfg.DecodeFilename {
		dec, err := field.Decode(name)
		if err != nil {
			return name, err
		}
		name = dec
	}

	return name, nil
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

// setFileParam sets the named parameter to a file name, encoding it as
// configured.
func (p *Part) setFileParam(l *param.List, name, v string) error {
	switch {
	case isASCII(v):
		l.Set(name, v)
	case p.parser().cfg.EncodeFilename:
		l.Set(name, field.Encode(v))
	default:
		return l.SetEncoded(name, v, param.DefaultCharset)
	}
	return nil
}

// SetFileName sets the filename parameter of the Content-Disposition, creating
// an attachment disposition if there is none. A non-ASCII name is written as
// an RFC 2231 parameter or, if Config.EncodeFilename is set, as RFC 2047
// encoded words.
//
// If Config.SetContentTypeFilename is set and the part has a Content-Type that
// can be parsed, the name parameter of the Content-Type is set as well.
func (p *Part) SetFileName(name string) error {
	cd, err := p.GetContentDisposition()
	if err != nil {
		cd = param.NewDisposition(param.Attachment)
	}

	if err := p.setFileParam(cd.Params(), param.Filename, name); err != nil {
		return err
	}
	p.SetContentDisposition(cd)

	if !p.parser().cfg.SetContentTypeFilename {
		return nil
	}

	ct, err := p.GetContentType()
	if err != nil {
		return nil
	}

	if err := p.setFileParam(ct.Params(), param.Name, name); err != nil {
		return err
	}
	p.SetContentType(ct)

	return nil
}

// Size returns the length of the content held by the part, or -1 if the
// content cannot be read. For a parsed part, that is the length before any
// transfer decoding.
func (p *Part) Size() int {
	b, err := p.contentBytes()
	if err != nil {
		return -1
	}
	return len(b)
}

// writeBody writes the content of the part as it appears on the wire.
func (p *Part) writeBody(w io.Writer) (int64, error) {
	p.mu.Lock()
	cached := p.cached
	p.mu.Unlock()

	switch c := cached.(type) {
	case *Multipart:
		return c.WriteTo(w)
	case *Message:
		return c.WriteTo(w)
	}

	b, err := p.contentBytes()
	if err != nil {
		return 0, err
	}

	if p.encoded {
		n, err := w.Write(b)
		return int64(n), err
	}

	cw := &countingWriter{w: w}
	tw := transfer.ApplyTransferEncoding(&p.Header, cw)
	if _, err := tw.Write(b); err != nil {
		return cw.n, err
	}
	err = tw.Close()
	return cw.n, err
}

// RawReader returns the content as it appears on the wire, with any transfer
// encoding still applied.
func (p *Part) RawReader() (io.Reader, error) {
	buf := &bytes.Buffer{}
	if _, err := p.writeBody(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// Reader returns the content with any transfer encoding decoded.
func (p *Part) Reader() (io.Reader, error) {
	p.mu.Lock()
	cached := p.cached
	p.mu.Unlock()

	if cached != nil {
		return p.RawReader()
	}

	b, err := p.contentBytes()
	if err != nil {
		return nil, err
	}

	if p.encoded {
		return transfer.ApplyTransferDecoding(&p.Header, bytes.NewReader(b)), nil
	}

	return bytes.NewReader(b), nil
}

// Bytes returns the content with any transfer encoding decoded.
func (p *Part) Bytes() ([]byte, error) {
	r, err := p.Reader()
	if err != nil {
		return nil, err
	}

	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("decoding content: %w", err)
	}
	return b, nil
}

// Text returns the content decoded to a string using the charset parameter of
// the Content-Type. Content without a charset is assumed to be UTF-8. If the
// charset is not known, the bytes are returned unconverted.
func (p *Part) Text() (string, error) {
	b, err := p.Bytes()
	if err != nil {
		return "", err
	}

	cs, err := p.GetCharset()
	if err != nil || cs == "" {
		return string(b), nil
	}

	s, err := field.CharsetDecoder(cs, b)
	if err != nil {
		p.parser().log().Debug("cannot decode charset", "charset", cs, "error", err)
		return string(b), nil
	}

	return s, nil
}

// Multipart returns the content of a multipart/* part split into its parts.
// It returns ErrNotMultipart for any other type of part.
//
// When Config.CacheMultipart is set, the result is kept: every call returns
// the same *Multipart and changes made to it are written by WriteTo.
func (p *Part) Multipart() (*Multipart, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if mp, ok := p.cached.(*Multipart); ok {
		return mp, nil
	}

	ct, err := param.ParseContentType(p.ContentType())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotMultipart, err)
	}

	if !strings.EqualFold(ct.PrimaryType(), "multipart") {
		return nil, ErrNotMultipart
	}

	b, err := p.materialize()
	if err != nil {
		return nil, err
	}

	mp := newParsedMultipart(ct, b, p.parser())
	if err := mp.parse(); err != nil {
		return nil, err
	}

	if p.parser().cfg.CacheMultipart {
		p.cached = mp
	}

	return mp, nil
}

// Message returns the content of a message/rfc822 part as a message. It
// returns ErrNotMessage for any other type of part. Caching works as it does
// for Multipart.
func (p *Part) Message() (*Message, error) {
	if !p.IsMimeType("message/rfc822") {
		return nil, ErrNotMessage
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if m, ok := p.cached.(*Message); ok {
		return m, nil
	}

	b, err := p.materialize()
	if err != nil {
		return nil, err
	}

	r := bytes.NewReader(b)
	var rr io.Reader = r
	if p.encoded {
		rr = transfer.ApplyTransferDecoding(&p.Header, r)
	}

	pr := p.parser()
	m := &Message{}
	if err := pr.parseStream(&m.Part, rr); err != nil {
		return nil, err
	}

	if pr.cfg.CacheMultipart {
		p.cached = m
	}

	return m, nil
}

// Content returns the content in its most natural form: a *Multipart for
// multipart/* parts, a *Message for message/rfc822, a string for text/* and a
// []byte for anything else.
func (p *Part) Content() (any, error) {
	switch {
	case p.IsMimeType("multipart/*"):
		return p.Multipart()
	case p.IsMimeType("message/rfc822"):
		return p.Message()
	case p.IsMimeType("text/*"):
		return p.Text()
	}
	return p.Bytes()
}

// invalidate drops the headers that describe the previous content.
func (p *Part) invalidate() {
	p.Remove(header.ContentType)
	p.Remove(header.ContentTransferEncoding)
}

// SetContent replaces the content with the given unencoded bytes. The
// Content-Type and Content-Transfer-Encoding headers are removed and
// UpdateHeaders will replace them, using contentType as the Content-Type.
func (p *Part) SetContent(b []byte, contentType string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.content = b
	p.stream = nil
	p.readErr = nil
	p.encoded = false
	p.loaded = false
	p.cached = nil
	p.dataType = contentType
	p.invalidate()
}

// SetText replaces the content with text/subtype content. If charset is empty,
// us-ascii is used for ASCII text and utf-8 for anything else. It fails if
// the text cannot be represented in the charset.
func (p *Part) SetText(text, charset, subtype string) error {
	if charset == "" {
		charset = "us-ascii"
		if !isASCII(text) {
			charset = param.DefaultCharset
		}
	}

	if subtype == "" {
		subtype = "plain"
	}

	b, err := field.CharsetEncoder(charset, text)
	if err != nil {
		return err
	}

	ct := param.NewContentType("text", subtype)
	ct.SetParameter(param.Charset, charset)
	p.SetContent(b, ct.String())
	return nil
}

// SetMultipart replaces the content with the given multipart.
func (p *Part) SetMultipart(mp *Multipart) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.content = nil
	p.stream = nil
	p.readErr = nil
	p.encoded = false
	p.loaded = false
	p.cached = mp
	p.dataType = ""
	p.invalidate()
}

// UpdateHeaders makes the header consistent with the content before the part
// is written. Nested parts are updated first. A Content-Transfer-Encoding is
// chosen for leaf content that lacks one. If there is no Content-Type, one is
// made from the content: a charset is added to text types when
// Config.SetDefaultTextCharset is set and the name parameter is copied from
// the Content-Disposition filename when Config.SetContentTypeFilename is set.
func (p *Part) UpdateHeaders() error {
	p.mu.Lock()
	cached := p.cached
	p.mu.Unlock()

	_, ctErr := p.Get(header.ContentType)
	needCT := errors.Is(ctErr, header.ErrNoSuchField)

	switch c := cached.(type) {
	case *Multipart:
		if err := c.UpdateHeaders(); err != nil {
			return err
		}
		if needCT {
			ct, err := c.ContentType()
			if err != nil {
				return err
			}
			p.SetContentType(ct)
		}
		return nil
	case *Message:
		if err := c.UpdateHeaders(); err != nil {
			return err
		}
		if needCT {
			p.Set(header.ContentType, "message/rfc822")
		}
		return nil
	}

	dataType := p.dataType
	if dataType == "" {
		dataType = p.ContentType()
	}

	ct, err := param.ParseContentType(dataType)
	if err != nil {
		p.parser().log().Debug("unparseable content type", "type", dataType, "error", err)
		ct = p.contentType()
	}

	composite := strings.EqualFold(ct.PrimaryType(), "multipart") ||
		ct.Match(param.NewContentType("message", "rfc822"))

	cte, cteErr := p.GetTransferEncoding()
	if !composite && !p.encoded && errors.Is(cteErr, header.ErrNoSuchField) {
		b, err := p.contentBytes()
		if err != nil {
			return err
		}

		cte = transfer.Detect(b, strings.EqualFold(ct.PrimaryType(), "text"))
		p.SetTransferEncoding(cte)
	}

	if !needCT {
		return nil
	}

	cfg := p.parser().cfg
	if cfg.SetDefaultTextCharset && strings.EqualFold(ct.PrimaryType(), "text") {
		if _, ok := ct.Parameter(param.Charset); !ok {
			charset := param.DefaultCharset
			if cte == transfer.Bit7 {
				charset = "us-ascii"
			}
			ct.SetParameter(param.Charset, charset)
		}
	}

	if cfg.SetContentTypeFilename {
		if fn, err := p.GetFilename(); err == nil {
			if err := p.setFileParam(ct.Params(), param.Name, fn); err != nil {
				return err
			}
		}
	}

	p.SetContentType(ct)
	return nil
}

// WriteTo writes the header and content. Content that was read from input is
// written as it was read. New content is written with its transfer encoding
// applied. It may be called more than once.
func (p *Part) WriteTo(w io.Writer) (int64, error) {
	p.mu.Lock()
	b, err := p.materialize()
	headerOnly := err == nil && p.loaded && !p.Terminated() &&
		p.cached == nil && len(b) == 0
	p.mu.Unlock()

	if headerOnly {
		return p.writeHeaderOnly(w)
	}

	total, err := p.Header.WriteTo(w)
	if err != nil {
		return total, err
	}

	n, err := p.writeBody(w)
	total += n
	return total, err
}

// writeHeaderOnly writes a part that was read without the blank line ending
// its header and without content, so it is written back the same way.
func (p *Part) writeHeaderOnly(w io.Writer) (int64, error) {
	if !p.Partial() {
		return p.Header.WriteFieldsTo(w)
	}

	buf := &bytes.Buffer{}
	if _, err := p.Header.WriteFieldsTo(buf); err != nil {
		return 0, err
	}

	n, err := w.Write(bytes.TrimSuffix(buf.Bytes(), []byte("\r\n")))
	return int64(n), err
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(b []byte) (int, error) {
	n, err := cw.w.Write(b)
	cw.n += int64(n)
	return n, err
}
