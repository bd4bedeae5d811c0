package message_test

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/go-mime/message"
)

func parseMultipart(t *testing.T, msg string, opts ...message.ParseOption) (*message.Message, *message.Multipart) {
	t.Helper()

	m, err := message.Parse(strings.NewReader(msg), opts...)
	require.NoError(t, err)

	mp, err := m.Multipart()
	require.NoError(t, err)

	return m, mp
}

func partText(t *testing.T, mp *message.Multipart, i int) string {
	t.Helper()

	p, err := mp.Part(i)
	require.NoError(t, err)

	txt, err := p.Text()
	require.NoError(t, err)
	return txt
}

func TestMultipart_NearBoundaries(t *testing.T) {
	t.Parallel()

	const msg = "Content-Type: multipart/mixed; boundary=b\r\n" +
		"\r\n" +
		"--b \t\r\n" +
		"\r\n" +
		"line\r\n" +
		"--b-x\r\n" +
		"--bx\r\n" +
		"--b--x\r\n" +
		" --b\r\n" +
		"end\r\n" +
		"--b--\r\n"

	m, mp := parseMultipart(t, msg)

	n, err := mp.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.True(t, mp.IsComplete())
	assert.Equal(t, "line\r\n--b-x\r\n--bx\r\n--b--x\r\n --b\r\nend", partText(t, mp, 0))

	out := roundTrip(t, m)
	assert.True(t, strings.HasSuffix(out, "--b\r\n\r\nline\r\n--b-x\r\n--bx\r\n--b--x\r\n --b\r\nend\r\n--b--\r\n"))
}

func TestMultipart_Truncated(t *testing.T) {
	t.Parallel()

	const msg = "Content-Type: multipart/mixed; boundary=b\r\n" +
		"\r\n" +
		"--b\r\n" +
		"\r\n" +
		"first\r\n" +
		"--b\r\n" +
		"\r\n" +
		"cut off\r\n"

	m, mp := parseMultipart(t, msg)

	n, err := mp.Count()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.False(t, mp.IsComplete())
	assert.Equal(t, "first", partText(t, mp, 0))
	assert.Equal(t, "cut off\r\n", partText(t, mp, 1))

	assert.True(t, strings.HasSuffix(roundTrip(t, m), "cut off\r\n\r\n--b--\r\n"))
}

func TestMultipart_Strict(t *testing.T) {
	t.Parallel()

	m, err := message.Parse(strings.NewReader(
		"Content-Type: multipart/mixed; boundary=b\r\n\r\n--b\r\n\r\nno end\r\n"),
		message.StrictBoundaries())
	require.NoError(t, err)

	_, err = m.Multipart()
	var mbe *message.MissingBoundaryError
	require.True(t, errors.As(err, &mbe))
	assert.Equal(t, "b", mbe.Boundary)
	assert.False(t, mbe.Start)

	m, err = message.Parse(strings.NewReader(
		"Content-Type: multipart/mixed; boundary=b\r\n\r\nno start\r\n"),
		message.StrictBoundaries())
	require.NoError(t, err)

	_, err = m.Multipart()
	require.True(t, errors.As(err, &mbe))
	assert.True(t, mbe.Start)
	assert.Equal(t, `missing start boundary "b"`, mbe.Error())
}

func TestMultipart_NoStartBoundary(t *testing.T) {
	t.Parallel()

	_, mp := parseMultipart(t, "Content-Type: multipart/mixed; boundary=b\r\n\r\njust text\r\n")

	n, err := mp.Count()
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.False(t, mp.IsComplete())

	pre, err := mp.Preamble()
	require.NoError(t, err)
	assert.Equal(t, "just text\r\n", string(pre))
}

func TestMultipart_ZeroParts(t *testing.T) {
	t.Parallel()

	const msg = "Content-Type: multipart/mixed; boundary=b\r\n" +
		"\r\n" +
		"preamble\r\n" +
		"--b--  \r\n" +
		"after\r\n"

	m, mp := parseMultipart(t, msg)

	n, err := mp.Count()
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.True(t, mp.IsComplete())
	assert.Equal(t, msg, roundTrip(t, m))
}

func TestMultipart_HeaderOnlyPart(t *testing.T) {
	t.Parallel()

	const msg = "Content-Type: multipart/mixed; boundary=b\r\n" +
		"\r\n" +
		"--b\r\n" +
		"Content-Type: text/plain\r\n" +
		"--b\r\n" +
		"Content-Type: text/html\r\n" +
		"\r\n" +
		"--b--\r\n"

	m, mp := parseMultipart(t, msg)

	n, err := mp.Count()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, "", partText(t, mp, 0))
	assert.Equal(t, msg, roundTrip(t, m))
}

func TestMultipart_Nested(t *testing.T) {
	t.Parallel()

	const msg = "Content-Type: multipart/mixed; boundary=outer\r\n" +
		"\r\n" +
		"--outer\r\n" +
		"Content-Type: multipart/alternative; boundary=inner\r\n" +
		"\r\n" +
		"--inner\r\n" +
		"Content-Type: text/plain\r\n" +
		"\r\n" +
		"plain\r\n" +
		"--inner\r\n" +
		"Content-Type: text/html\r\n" +
		"\r\n" +
		"<b>html</b>\r\n" +
		"--inner--\r\n" +
		"\r\n" +
		"--outer\r\n" +
		"Content-Type: application/octet-stream\r\n" +
		"Content-Transfer-Encoding: base64\r\n" +
		"\r\n" +
		"AAEC\r\n" +
		"--outer--\r\n"

	m, mp := parseMultipart(t, msg)

	alt, err := mp.Part(0)
	require.NoError(t, err)

	inner, err := alt.Multipart()
	require.NoError(t, err)
	assert.Equal(t, "plain", partText(t, inner, 0))
	assert.Equal(t, "<b>html</b>", partText(t, inner, 1))

	bin, err := mp.Part(1)
	require.NoError(t, err)
	b, err := bin.Bytes()
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 1, 2}, b)

	c, err := bin.Content()
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 1, 2}, c)

	assert.Equal(t, msg, roundTrip(t, m))

	html, err := inner.Part(1)
	require.NoError(t, err)
	require.NoError(t, html.SetText("<i>changed</i>", "", "html"))
	require.NoError(t, m.UpdateHeaders())

	out := roundTrip(t, m)
	assert.Contains(t, out, "Content-Type: text/html; charset=us-ascii\r\n")
	assert.Contains(t, out, "Content-Transfer-Encoding: 7bit\r\n")
	assert.Contains(t, out, "\r\n\r\n<i>changed</i>\r\n--inner--\r\n")
	assert.NotContains(t, out, "<b>html</b>")
}

func TestMultipart_Edit(t *testing.T) {
	t.Parallel()

	m, mp := parseMultipart(t, mixedMessage)

	extra := &message.Part{}
	require.NoError(t, extra.SetText("added", "", ""))
	require.NoError(t, mp.AddPart(extra))

	removed, err := mp.RemovePart(1)
	require.NoError(t, err)
	assert.True(t, removed.IsMimeType("text/html"))

	_, err = mp.RemovePart(5)
	assert.ErrorIs(t, err, message.ErrIndexOutOfRange)

	first := &message.Part{}
	first.SetContent([]byte{0xff, 0xfe}, "application/octet-stream")
	require.NoError(t, mp.InsertPart(first, 0))
	assert.ErrorIs(t, mp.InsertPart(first, 9), message.ErrIndexOutOfRange)

	require.NoError(t, mp.SetPreamble(nil))
	require.NoError(t, m.UpdateHeaders())

	const want = "--xyz\r\n" +
		"Content-Type: application/octet-stream\r\n" +
		"Content-Transfer-Encoding: base64\r\n" +
		"\r\n" +
		"//4=\r\n" +
		"\r\n" +
		"--xyz\r\n" +
		"Content-Type: text/plain\r\n" +
		"\r\n" +
		"Hello\r\n" +
		"--xyz\r\n"

	out := roundTrip(t, m)
	assert.Contains(t, out, "\r\n\r\n"+want)
	assert.Contains(t, out, "Content-Type: text/plain; charset=us-ascii\r\n")
	assert.True(t, strings.HasSuffix(out, "\r\n\r\nadded\r\n--xyz--\r\nthe epilogue\r\n"))
}

func TestMultipart_Concurrent(t *testing.T) {
	t.Parallel()

	m, err := message.Parse(strings.NewReader(mixedMessage))
	require.NoError(t, err)

	const n = 8
	results := make([]*message.Multipart, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			mp, err := m.Multipart()
			assert.NoError(t, err)
			results[i] = mp
		}(i)
	}
	wg.Wait()

	for _, mp := range results {
		assert.Same(t, results[0], mp)
	}
}

func TestMultipart_NoCache(t *testing.T) {
	t.Parallel()

	cfg := message.DefaultConfig()
	cfg.CacheMultipart = false

	m, err := message.Parse(strings.NewReader(mixedMessage), message.WithConfig(cfg))
	require.NoError(t, err)

	a, err := m.Multipart()
	require.NoError(t, err)

	b, err := m.Multipart()
	require.NoError(t, err)
	assert.NotSame(t, a, b)

	p, err := a.Part(0)
	require.NoError(t, err)
	p.SetSubject("ignored")
	assert.Equal(t, mixedMessage, roundTrip(t, m))
}

func TestMultipart_NotMultipart(t *testing.T) {
	t.Parallel()

	m, err := message.Parse(strings.NewReader("Subject: plain\r\n\r\nbody"))
	require.NoError(t, err)

	_, err = m.Multipart()
	assert.ErrorIs(t, err, message.ErrNotMultipart)

	_, err = m.Message()
	assert.ErrorIs(t, err, message.ErrNotMessage)
}

func TestNewMultipart(t *testing.T) {
	t.Parallel()

	mp := message.NewMultipart("alternative")
	assert.True(t, strings.HasPrefix(mp.Boundary(), "----=_Part_"))
	assert.True(t, mp.IsComplete())

	mp.SetSubType("related")
	ct, err := mp.ContentType()
	require.NoError(t, err)
	assert.Equal(t, "multipart/related", ct.BaseType())

	require.NoError(t, mp.SetPreamble([]byte("no line break")))

	buf := &bytes.Buffer{}
	_, err = mp.WriteTo(buf)
	require.NoError(t, err)
	assert.Equal(t, "no line break\r\n--"+mp.Boundary()+"--\r\n", buf.String())
}
