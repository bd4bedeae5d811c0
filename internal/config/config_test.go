package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/go-mime/internal/config"
	"github.com/zostay/go-mime/message"
)

func TestParse_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.Parse([]byte("message:\n  decodeFilename: true\n"))
	require.NoError(t, err)

	want := message.DefaultConfig()
	want.DecodeFilename = true
	assert.Equal(t, want, cfg.Message)
	assert.Equal(t, config.Default().Limits, cfg.Limits)
}

func TestParse_Empty(t *testing.T) {
	t.Parallel()

	cfg, err := config.Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestParse_Invalid(t *testing.T) {
	t.Parallel()

	_, err := config.Parse([]byte("limits:\n  chunkSize: 0\n"))
	assert.ErrorContains(t, err, "chunkSize")

	_, err = config.Parse([]byte("message: [\n"))
	assert.ErrorContains(t, err, "parsing config file")
}

func TestLoad(t *testing.T) {
	t.Setenv("GO_MIME_TEST_MAX_HEADER", "10")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"message:\n"+
			"  ignoreMissingEndBoundary: false\n"+
			"limits:\n"+
			"  maxHeaderLength: ${GO_MIME_TEST_MAX_HEADER}\n"), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.False(t, cfg.Message.IgnoreMissingEndBoundary)
	assert.True(t, cfg.Message.CacheMultipart)
	assert.Equal(t, 10, cfg.Limits.MaxHeaderLength)

	_, err = message.Parse(strings.NewReader("Subject: far too long\r\n\r\n"), cfg.Options()...)
	assert.Error(t, err)

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "reading config file")
}
