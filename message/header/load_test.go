package header_test

import (
	"bufio"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/go-mime/message/header"
)

func TestLoad(t *testing.T) {
	t.Parallel()

	const msg = "Subject: one\r\n" +
		"To: a@example.com,\r\n" +
		"  b@example.com\n" +
		"X-Bare-CR: yes\r" +
		"\r\n" +
		"body\r\n"

	br := bufio.NewReader(strings.NewReader(msg))
	h := &header.Header{}
	require.NoError(t, h.Load(br, 0))
	assert.True(t, h.Terminated())
	assert.False(t, h.Partial())

	assert.Equal(t, []string{
		"Subject: one",
		"To: a@example.com,\r\n  b@example.com",
		"X-Bare-CR: yes",
	}, h.Lines())

	rest, err := io.ReadAll(br)
	require.NoError(t, err)
	assert.Equal(t, "body\r\n", string(rest))

	to, err := h.GetTo()
	require.NoError(t, err)
	if assert.Len(t, to, 2) {
		assert.Equal(t, "b@example.com", to[1].Address())
	}
}

func TestLoad_EOF(t *testing.T) {
	t.Parallel()

	h, err := header.Parse([]byte("Subject: no blank line"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Subject: no blank line"}, h.Lines())
	assert.False(t, h.Terminated())
	assert.True(t, h.Partial())

	h, err = header.Parse([]byte("Subject: no blank line\r\n"))
	require.NoError(t, err)
	assert.False(t, h.Terminated())
	assert.False(t, h.Partial())

	h, err = header.Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, h.Len())
}

func TestLoad_Malformed(t *testing.T) {
	t.Parallel()

	h, err := header.Parse([]byte("\tstarts folded\njunk line\nSubject: ok\n\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"\tstarts folded", "junk line", "Subject: ok"}, h.Lines())

	s, err := h.GetSubject()
	assert.NoError(t, err)
	assert.Equal(t, "ok", s)
}

func TestLoad_MaxLength(t *testing.T) {
	t.Parallel()

	long := "X-Long: " + strings.Repeat("x", 100) + "\r\n\r\n"
	h := &header.Base{}
	err := h.Load(bufio.NewReader(strings.NewReader(long)), 50)
	assert.ErrorIs(t, err, header.ErrLargeHeader)

	h = &header.Base{}
	err = h.Load(bufio.NewReader(strings.NewReader(long)), 0)
	assert.NoError(t, err)
}

func TestLoad_RoundTrip(t *testing.T) {
	t.Parallel()

	const in = "Received: from a\r\n\tby b\r\n" +
		"subject: lower case\r\n" +
		"Content-Type: text/plain;\r\n charset=us-ascii\r\n" +
		"\r\n"

	h, err := header.Parse([]byte(in))
	require.NoError(t, err)

	buf := &strings.Builder{}
	_, err = h.WriteTo(buf)
	require.NoError(t, err)
	assert.Equal(t, in, buf.String())
}
