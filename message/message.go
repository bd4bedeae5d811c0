package message

import (
	"errors"
	"io"
	"time"

	"github.com/zostay/go-mime/message/header"
)

// MIMEVersion is the value written to the MIME-Version header by SaveChanges.
const MIMEVersion = "1.0"

// Message is a top-level message: a Part that also carries the headers that
// only belong at the top, such as MIME-Version and Message-ID.
type Message struct {
	Part

	built bool
	saved bool
}

// NewMessage returns an empty message to be built up. The options configure
// the message the same way they configure Parse. When written, the headers of
// a built message are updated with SaveChanges first.
func NewMessage(opts ...ParseOption) *Message {
	return &Message{
		Part:  Part{pr: newParser(opts)},
		built: true,
	}
}

// SaveChanges makes the headers consistent with the content and adds the
// MIME-Version header. A Date and a Message-ID are added if missing.
func (m *Message) SaveChanges() error {
	if err := m.UpdateHeaders(); err != nil {
		return err
	}

	m.Set(header.MIMEVersion, MIMEVersion)

	if _, err := m.Get(header.Date); errors.Is(err, header.ErrNoSuchField) {
		m.SetDate(time.Now())
	}

	if _, err := m.Get(header.MessageID); errors.Is(err, header.ErrNoSuchField) {
		m.SetMessageID(GenerateMessageID())
	}

	m.saved = true
	return nil
}

// WriteTo writes the message. A message built with NewMessage that has not
// been saved is saved first. A parsed message is written as it was read,
// apart from any changes made to it.
func (m *Message) WriteTo(w io.Writer) (int64, error) {
	if m.built && !m.saved {
		if err := m.SaveChanges(); err != nil {
			return 0, err
		}
	}

	return m.Part.WriteTo(w)
}
