package roundtrip_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/go-mime/internal/roundtrip"
	"github.com/zostay/go-mime/message"
)

const attached = "Subject: files\n" +
	"Content-Type: multipart/mixed; boundary=b\n" +
	"\n" +
	"--b\n" +
	"Content-Type: text/plain\n" +
	"\n" +
	"hello\n" +
	"--b\n" +
	"Content-Type: application/pdf\n" +
	"Content-Disposition: attachment; filename=a.pdf\n" +
	"\n" +
	"%PDF\n" +
	"--b--\n"

func TestCheck(t *testing.T) {
	t.Parallel()

	res, err := roundtrip.Check(strings.NewReader(attached))
	require.NoError(t, err)
	assert.True(t, res.Same())
	assert.False(t, res.Exact())
	assert.Empty(t, res.Diff())

	crlf := strings.ReplaceAll(attached, "\n", "\r\n")
	res, err = roundtrip.Check(strings.NewReader(crlf))
	require.NoError(t, err)
	assert.True(t, res.Exact())
	assert.Equal(t, crlf, string(res.Output))
}

func TestCheck_Strict(t *testing.T) {
	t.Parallel()

	truncated := strings.TrimSuffix(attached, "--b--\n")
	_, err := roundtrip.Check(strings.NewReader(truncated), message.StrictBoundaries())

	var mbe *message.MissingBoundaryError
	assert.ErrorAs(t, err, &mbe)
}

func TestResult_Diff(t *testing.T) {
	t.Parallel()

	res := &roundtrip.Result{
		Original: []byte("a\nb\nc\n"),
		Output:   []byte("a\r\nB\r\nc\r\n"),
	}

	assert.False(t, res.Same())
	assert.Equal(t, " a\n-b\n+B\n c\n", res.Diff())
}

func TestTree(t *testing.T) {
	t.Parallel()

	m, err := message.Parse(strings.NewReader(attached))
	require.NoError(t, err)

	buf := &bytes.Buffer{}
	require.NoError(t, roundtrip.Tree(buf, &m.Part))
	assert.Equal(t,
		"1. multipart/mixed\n"+
			"  1. text/plain (5 bytes)\n"+
			"  2. application/pdf (4 bytes) a.pdf\n",
		buf.String())
}
