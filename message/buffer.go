package message

import (
	"bytes"
	"errors"

	"github.com/zostay/go-mime/message/header"
)

const (
	// DefaultMultipartContentType is the Content-Type to use with a multipart
	// message when no explicit Content-Type header has been set.
	DefaultMultipartContentType = "multipart/mixed"
)

type BufferMode int

const (
	// ModeUnset indicates that the Buffer has not yet been modified.
	ModeUnset BufferMode = iota

	// ModeSingle indicates that the Buffer has been used as an io.Writer.
	ModeSingle

	// ModeMultipart indicates that the Buffer has had the parts manipulated.
	ModeMultipart
)

var (
	// ErrPartsBuffer is returned by Write() if that method is called after
	// calling the Add() method.
	ErrPartsBuffer = errors.New("message buffer is in parts mode")

	// ErrSingleBuffer is returned by Add() if that method is called after
	// calling the Write() method.
	ErrSingleBuffer = errors.New("message buffer is in single mode")

	// ErrModeUnset is returned by Part() and Message() when they are called
	// before anything has been written to the current buffer.
	ErrModeUnset = errors.New("no message has been built")
)

// Buffer provides tools for constructing email messages. It can operate in
// either of two modes, depending on how you want to construct your message.
//
// * Single mode. When you use the Buffer as an io.Writer by calling the Write()
// method, you have chosen to treat the content as a collection of bytes.
//
// * Multipart mode. When you use the Buffer to manipulate the parts of the
// message, such as calling the Add() method, you have chosen to treat the email
// message as a collection of sub-parts.
//
// You may not use a Buffer in both modes. If you call the Write() method first,
// then any subsequent call to the Add() method will panic with
// ErrSingleBuffer. If you call the Add() method first, then any call to the
// Write() method will panic with ErrPartsBuffer.
//
// The bytes written in single mode are the content before any transfer
// encoding. The transfer encoding is chosen by UpdateHeaders unless the
// header sets one.
type Buffer struct {
	header.Header
	parts []*Part
	buf   *bytes.Buffer
}

// Mode returns a constant that indicates what mode the Buffer is in. Until a
// modification method is called, this will return ModeUnset. Once a
// modification method is called, it will return ModeSingle if the Buffer has
// been used as an io.Writer or ModeMultipart if parts have been added to the
// Buffer.
func (b *Buffer) Mode() BufferMode {
	if b.parts != nil {
		return ModeMultipart
	} else if b.buf != nil {
		return ModeSingle
	}
	return ModeUnset
}

// SetMultipart sets the Mode of the buffer to ModeMultipart. When calling this
// method, you need to pass the expected capacity of the multipart message.
// This will panic if the mode is already ModeSingle.
func (b *Buffer) SetMultipart(capacity int) {
	if err := b.initParts(capacity); err != nil {
		panic(err)
	}
}

// SetSingle sets the Mode of the buffer to ModeSingle. This is useful when the
// content is to be empty. This will panic if the mode is already
// ModeMultipart.
func (b *Buffer) SetSingle() {
	if err := b.initBuffer(); err != nil {
		panic(err)
	}
}

func (b *Buffer) initBuffer() error {
	if b.parts != nil {
		return ErrPartsBuffer
	}
	if b.buf == nil {
		b.buf = &bytes.Buffer{}
	}
	return nil
}

func (b *Buffer) initParts(capacity int) error {
	if capacity == 0 {
		capacity = 10
	}
	if b.buf != nil {
		return ErrSingleBuffer
	}
	if b.parts == nil {
		b.parts = make([]*Part, 0, capacity)
	}
	return nil
}

// Add will add one or more parts to the message. It will panic if you attempt
// to call this function after already calling Write() or using this object as
// an io.Writer.
func (b *Buffer) Add(parts ...*Part) {
	if err := b.initParts(0); err != nil {
		panic(err)
	}
	b.parts = append(b.parts, parts...)
}

// Write implements io.Writer so you can write the content to this buffer.
// This will panic if you attempt to call this method or use this object as an
// io.Writer after calling Add.
func (b *Buffer) Write(p []byte) (int, error) {
	if err := b.initBuffer(); err != nil {
		panic(err)
	}
	return b.buf.Write(p)
}

func (b *Buffer) prepareForMultipartOutput() {
	if _, err := b.GetMediaType(); errors.Is(err, header.ErrNoSuchField) {
		b.SetMediaType(DefaultMultipartContentType)
	}

	if _, err := b.GetBoundary(); errors.Is(err, header.ErrNoSuchFieldParameter) {
		_ = b.SetBoundary(GenerateBoundary())
	}
}

// build fills in p from the contents of the buffer.
func (b *Buffer) build(p *Part) error {
	switch b.Mode() {
	case ModeSingle:
		p.Header = *b.Header.Clone()
		p.content = b.buf.Bytes()
	case ModeMultipart:
		b.prepareForMultipartOutput()
		ct, err := b.GetContentType()
		if err != nil {
			return err
		}

		mp := &Multipart{
			ct:       ct,
			parts:    b.parts,
			complete: true,
			pr:       p.pr,
		}
		mp.once.Do(func() {})

		p.Header = *b.Header.Clone()
		p.cached = mp
	default:
		return ErrModeUnset
	}

	return p.UpdateHeaders()
}

// Part returns a new part made from the header and the content of the buffer.
// In multipart mode, the header should set the Content-Type to one of the
// multipart/* types. If it does not, DefaultMultipartContentType is used. A
// boundary is generated if the Content-Type does not have one.
//
// It returns ErrModeUnset if nothing has been written or added to the buffer.
// After this method is called, the Buffer should be disposed of and no longer
// used.
func (b *Buffer) Part() (*Part, error) {
	p := &Part{}
	if err := b.build(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Message works just like Part, but returns a new message configured with the
// given options. The message is saved with SaveChanges when it is written.
func (b *Buffer) Message(opts ...ParseOption) (*Message, error) {
	m := NewMessage(opts...)
	if err := b.build(&m.Part); err != nil {
		return nil, err
	}
	return m, nil
}
