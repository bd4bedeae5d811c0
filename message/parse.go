package message

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"log/slog"

	"github.com/zostay/go-mime/message/header"
)

// Constants related to Parse() options.
const (
	// DefaultChunkSize is the default size of the read buffer used while
	// reading the header and splitting multipart content.
	DefaultChunkSize = 16_384

	// DefaultMaxHeaderLength is the default maximum byte length of a header.
	DefaultMaxHeaderLength = header.DefaultMaxHeaderLength

	// DefaultMaxPartLength is the default maximum byte length of a part. Zero
	// means there is no limit.
	DefaultMaxPartLength = 0
)

type parser struct {
	cfg          Config
	maxHeaderLen int
	maxPartLen   int
	chunkSize    int
	logger       *slog.Logger
}

func (pr *parser) clone() *parser {
	p := *pr
	return &p
}

// log returns the configured logger or the default logger at the time of the
// call.
func (pr *parser) log() *slog.Logger {
	if pr.logger == nil {
		return slog.Default()
	}
	return pr.logger
}

var defaultParser = &parser{
	cfg:          DefaultConfig(),
	maxHeaderLen: DefaultMaxHeaderLength,
	maxPartLen:   DefaultMaxPartLength,
	chunkSize:    DefaultChunkSize,
}

func newParser(opts []ParseOption) *parser {
	pr := defaultParser.clone()
	for _, opt := range opts {
		opt(pr)
	}
	return pr
}

// ParseOption refers to options that may be passed to the Parse function to
// modify how the parser works. The options are kept with the parsed message
// and used by all of its parts.
type ParseOption func(pr *parser)

// WithConfig is a ParseOption that replaces the Config. The default is
// DefaultConfig().
func WithConfig(cfg Config) ParseOption {
	return func(pr *parser) { pr.cfg = cfg }
}

// WithMaxHeaderLength is a ParseOption that sets the maximum size of a header.
// If a header is longer, parsing fails with header.ErrLargeHeader. Setting
// this to a value less than or equal to 0 will result in there being no
// maximum length. The default value is DefaultMaxHeaderLength.
func WithMaxHeaderLength(n int) ParseOption {
	return func(pr *parser) { pr.maxHeaderLen = n }
}

// WithMaxPartLength is a ParseOption that sets the maximum size of the content
// of the message and of each part in a multipart. If a part gets too large,
// reading it fails with ErrLargePart. Setting this to a value less than or
// equal to 0 will result in there being no maximum length, which is the
// default.
func WithMaxPartLength(n int) ParseOption {
	return func(pr *parser) { pr.maxPartLen = n }
}

// WithChunkSize is a ParseOption that controls the size of the buffer used to
// read input. The default chunk size is DefaultChunkSize.
func WithChunkSize(chunkSize int) ParseOption {
	return func(pr *parser) { pr.chunkSize = chunkSize }
}

// WithLogger is a ParseOption that sets the logger used to report problems
// with the input that the parser recovers from. These are logged at debug
// level. By default, slog.Default() is used.
func WithLogger(logger *slog.Logger) ParseOption {
	return func(pr *parser) { pr.logger = logger }
}

// StrictBoundaries is a ParseOption that makes a multipart without its start
// or end boundary an error. It turns off Config.IgnoreMissingEndBoundary.
func StrictBoundaries() ParseOption {
	return func(pr *parser) { pr.cfg.IgnoreMissingEndBoundary = false }
}

// loadHeader reads the header of p from br and logs any lines that are not
// proper fields.
func (pr *parser) loadHeader(p *Part, br *bufio.Reader) error {
	if err := p.Load(br, pr.maxHeaderLen); err != nil {
		return fmt.Errorf("reading header: %w", err)
	}

	for _, f := range p.Fields() {
		if !bytes.ContainsRune(f.Raw(), ':') {
			pr.log().Debug("header line without a colon", "line", f.String())
		}
	}

	p.pr = pr
	p.loaded = true
	p.encoded = true
	return nil
}

// parseStream reads the header from r and leaves the rest as the content
// stream to be read when it is first needed.
func (pr *parser) parseStream(p *Part, r io.Reader) error {
	br := bufio.NewReaderSize(r, pr.chunkSize)
	if err := pr.loadHeader(p, br); err != nil {
		return err
	}

	p.stream = br
	return nil
}

// parseBytes reads the header from b and keeps the remainder of b as the
// content.
func (pr *parser) parseBytes(b []byte) (*Part, error) {
	rd := bytes.NewReader(b)
	br := bufio.NewReaderSize(rd, pr.chunkSize)

	p := &Part{}
	if err := pr.loadHeader(p, br); err != nil {
		return nil, err
	}

	p.content = b[len(b)-br.Buffered()-rd.Len():]
	return p, nil
}

// Parse reads a message from r. The header is read immediately. If the
// header is longer than WithMaxHeaderLength() allows, it fails with an error
// wrapping header.ErrLargeHeader.
//
// The content is left unread until it is first needed. It is read at most
// once and kept, so the message may be written any number of times. Nested
// multipart and message/rfc822 content is only split into parts when asked for
// via Multipart() or Message().
//
// Unless the message is changed, WriteTo() writes the original bytes. The
// header is written with CRLF line endings, whatever the input used.
func Parse(r io.Reader, opts ...ParseOption) (*Message, error) {
	pr := newParser(opts)
	m := &Message{}
	if err := pr.parseStream(&m.Part, r); err != nil {
		return nil, err
	}
	return m, nil
}

// ParsePart works like Parse, but returns a body part rather than a message.
func ParsePart(r io.Reader, opts ...ParseOption) (*Part, error) {
	pr := newParser(opts)
	p := &Part{}
	if err := pr.parseStream(p, r); err != nil {
		return nil, err
	}
	return p, nil
}
