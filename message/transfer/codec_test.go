package transfer_test

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/go-mime/message/transfer"
)

func TestCodecs(t *testing.T) {
	t.Parallel()

	raw := "a=b\xff\r\n" + strings.Repeat("x", 80) + "\r\n\t\b"

	tests := []struct {
		name    string
		encoded string
	}{
		{transfer.Bit7, raw},
		{transfer.Binary, raw},
		{transfer.QuotedPrintable, "a=3Db=FF\r\n" + strings.Repeat("x", 75) + "=\r\nxxxxx\r\n\t=08"},
		{transfer.Base64, "YT1i/w0KeHh4eHh4eHh4eHh4eHh4eHh4eHh4eHh4eHh4eHh4eHh4eHh4eHh4eHh4eHh4eHh4eHh4\r\neHh4eHh4eHh4eHh4eHh4eHh4eHh4eHh4eHh4eHgNCgkI\r\n"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			tcd, ok := transfer.Lookup(tc.name)
			require.True(t, ok)

			buf := &bytes.Buffer{}
			enc := tcd.Encoder(buf)
			n, err := enc.Write([]byte(raw))
			assert.NoError(t, err)
			assert.Equal(t, len(raw), n)
			assert.NoError(t, enc.Close())
			assert.Equal(t, tc.encoded, buf.String())

			dec, err := io.ReadAll(tcd.Decoder(strings.NewReader(tc.encoded)))
			assert.NoError(t, err)
			assert.Equal(t, raw, string(dec))
		})
	}
}

func TestNewAsIsEncoder_Close(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	enc := transfer.NewAsIsEncoder(buf)
	assert.NoError(t, enc.Close())
	assert.NoError(t, enc.Close())
	assert.Equal(t, 0, buf.Len())
}
