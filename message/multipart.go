package message

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/zostay/go-mime/message/header/param"
)

// Multipart is the content of a multipart/* part: a list of parts separated
// by a boundary, with an optional preamble before the first boundary and an
// epilogue after the last.
//
// A Multipart returned by Part.Multipart is split into parts the first time
// any part is asked for. That is safe to call from multiple goroutines, but
// changing the list of parts is not.
type Multipart struct {
	ct       *param.ContentType
	preamble []byte
	epilogue []byte
	parts    []*Part
	complete bool

	pr *parser

	once     sync.Once
	src      []byte
	parseErr error
}

// NewMultipart returns an empty multipart/subtype with a newly generated
// boundary.
func NewMultipart(subtype string) *Multipart {
	ct := param.NewContentType("multipart", subtype)
	ct.SetParameter(param.Boundary, GenerateBoundary())

	mp := &Multipart{
		ct:       ct,
		complete: true,
	}
	mp.once.Do(func() {})
	return mp
}

// newParsedMultipart returns a multipart that will split src into parts when
// first used.
func newParsedMultipart(ct *param.ContentType, src []byte, pr *parser) *Multipart {
	return &Multipart{
		ct:  ct,
		src: src,
		pr:  pr,
	}
}

func (mp *Multipart) parser() *parser {
	if mp.pr == nil {
		return defaultParser
	}
	return mp.pr
}

func (mp *Multipart) parse() error {
	mp.once.Do(func() {
		mp.parseErr = mp.split()
		mp.src = nil
	})
	return mp.parseErr
}

func (mp *Multipart) split() error {
	pr := mp.parser()

	boundary, ok := mp.ct.Parameter(param.Boundary)
	if !ok || boundary == "" {
		boundary = inferBoundary(mp.src)
		if boundary == "" {
			return ErrNoBoundary
		}

		pr.log().Debug("multipart boundary parameter missing, using first boundary line",
			"boundary", boundary)
		mp.ct.SetParameter(param.Boundary, boundary)
	}

	s := newSplitter(bytes.NewReader(mp.src), boundary, pr)

	pre, kind, tail, err := s.readPreamble()
	if err != nil {
		return err
	}
	mp.preamble = pre

	if kind == noBoundary {
		if !pr.cfg.IgnoreMissingEndBoundary {
			return &MissingBoundaryError{Boundary: boundary, Start: true}
		}
		pr.log().Debug("multipart start boundary not found", "boundary", boundary)
		return nil
	}

	for kind == separator {
		var b []byte
		b, kind, err = s.readPart()
		if err != nil {
			return err
		}

		p, err := pr.parseBytes(b)
		if err != nil {
			return err
		}
		mp.parts = append(mp.parts, p)
	}

	if kind == noBoundary {
		if !pr.cfg.IgnoreMissingEndBoundary {
			return &MissingBoundaryError{Boundary: boundary}
		}
		pr.log().Debug("multipart end boundary not found", "boundary", boundary)
		return nil
	}

	rest, err := s.rest()
	if err != nil {
		return err
	}

	mp.epilogue = append(append([]byte{}, tail...), rest...)
	mp.complete = true
	return nil
}

// Count returns the number of parts. It returns an error if the content could
// not be split into parts.
func (mp *Multipart) Count() (int, error) {
	if err := mp.parse(); err != nil {
		return 0, err
	}
	return len(mp.parts), nil
}

func (mp *Multipart) checkIndex(i, max int) error {
	if i < 0 || i >= max {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, i)
	}
	return nil
}

// Part returns the part at index i.
func (mp *Multipart) Part(i int) (*Part, error) {
	if err := mp.parse(); err != nil {
		return nil, err
	}

	if err := mp.checkIndex(i, len(mp.parts)); err != nil {
		return nil, err
	}

	return mp.parts[i], nil
}

// Parts returns all the parts. The slice is a copy, but the parts are shared.
func (mp *Multipart) Parts() ([]*Part, error) {
	if err := mp.parse(); err != nil {
		return nil, err
	}

	parts := make([]*Part, len(mp.parts))
	copy(parts, mp.parts)
	return parts, nil
}

// AddPart appends a part.
func (mp *Multipart) AddPart(p *Part) error {
	if err := mp.parse(); err != nil {
		return err
	}

	mp.parts = append(mp.parts, p)
	return nil
}

// InsertPart inserts a part before index i. An index equal to the number of
// parts appends.
func (mp *Multipart) InsertPart(p *Part, i int) error {
	if err := mp.parse(); err != nil {
		return err
	}

	if err := mp.checkIndex(i, len(mp.parts)+1); err != nil {
		return err
	}

	mp.parts = append(mp.parts, nil)
	copy(mp.parts[i+1:], mp.parts[i:])
	mp.parts[i] = p
	return nil
}

// RemovePart removes and returns the part at index i.
func (mp *Multipart) RemovePart(i int) (*Part, error) {
	if err := mp.parse(); err != nil {
		return nil, err
	}

	if err := mp.checkIndex(i, len(mp.parts)); err != nil {
		return nil, err
	}

	p := mp.parts[i]
	mp.parts = append(mp.parts[:i], mp.parts[i+1:]...)
	return p, nil
}

// Preamble returns the text before the first boundary.
func (mp *Multipart) Preamble() ([]byte, error) {
	if err := mp.parse(); err != nil {
		return nil, err
	}
	return mp.preamble, nil
}

// SetPreamble replaces the text before the first boundary.
func (mp *Multipart) SetPreamble(pre []byte) error {
	if err := mp.parse(); err != nil {
		return err
	}

	mp.preamble = pre
	return nil
}

// IsComplete returns false if the content ended before the terminating
// boundary was found.
func (mp *Multipart) IsComplete() bool {
	if err := mp.parse(); err != nil {
		return false
	}
	return mp.complete
}

// ContentType returns a copy of the Content-Type of the multipart, including
// its boundary. It returns ErrNoBoundary if the multipart has no boundary.
func (mp *Multipart) ContentType() (*param.ContentType, error) {
	if b, ok := mp.ct.Parameter(param.Boundary); !ok || b == "" {
		return nil, ErrNoBoundary
	}
	return mp.ct.Clone(), nil
}

// SetSubType changes the sub-type of the multipart, such as "alternative".
func (mp *Multipart) SetSubType(st string) {
	mp.ct.SetSubType(st)
}

// Boundary returns the boundary that separates the parts.
func (mp *Multipart) Boundary() string {
	b, _ := mp.ct.Parameter(param.Boundary)
	return b
}

// UpdateHeaders updates the headers of every part and makes sure the multipart
// has a boundary.
func (mp *Multipart) UpdateHeaders() error {
	if err := mp.parse(); err != nil {
		return err
	}

	if mp.Boundary() == "" {
		mp.ct.SetParameter(param.Boundary, GenerateBoundary())
	}

	for _, p := range mp.parts {
		if err := p.UpdateHeaders(); err != nil {
			return err
		}
	}

	return nil
}

// WriteTo writes the preamble, each part preceded by a boundary, and the
// terminating boundary followed by the epilogue.
func (mp *Multipart) WriteTo(w io.Writer) (int64, error) {
	if err := mp.parse(); err != nil {
		return 0, err
	}

	cw := &countingWriter{w: w}
	dash := "--" + mp.Boundary()

	if len(mp.preamble) > 0 {
		if _, err := cw.Write(mp.preamble); err != nil {
			return cw.n, err
		}

		if last := mp.preamble[len(mp.preamble)-1]; last != '\n' && last != '\r' {
			if _, err := io.WriteString(cw, "\r\n"); err != nil {
				return cw.n, err
			}
		}
	}

	for _, p := range mp.parts {
		if _, err := io.WriteString(cw, dash+"\r\n"); err != nil {
			return cw.n, err
		}

		if _, err := p.WriteTo(cw); err != nil {
			return cw.n, err
		}

		if _, err := io.WriteString(cw, "\r\n"); err != nil {
			return cw.n, err
		}
	}

	if _, err := io.WriteString(cw, dash+"--"); err != nil {
		return cw.n, err
	}

	epilogue := mp.epilogue
	if epilogue == nil {
		epilogue = []byte("\r\n")
	}

	_, err := cw.Write(epilogue)
	return cw.n, err
}
