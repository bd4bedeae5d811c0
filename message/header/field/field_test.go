package field_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zostay/go-mime/message/header/field"
)

func TestNew(t *testing.T) {
	t.Parallel()

	f := field.New("Subject", "testing")

	assert.Equal(t, "Subject: testing", f.String())
	assert.Equal(t, []byte("Subject: testing"), f.Raw())
	assert.Equal(t, "Subject", f.Name())
	assert.Equal(t, "testing", f.Body())
	assert.False(t, f.IsPlaceholder())
	assert.True(t, f.Matches("SUBJECT"))

	f.SetBody("foo bar baz")
	assert.Equal(t, "Subject: foo bar baz", f.String())
	assert.Equal(t, "foo bar baz", f.Body())
}

func TestParse(t *testing.T) {
	t.Parallel()

	f := field.Parse("content-type:\ttext/plain;\r\n charset=us-ascii")
	assert.Equal(t, "content-type", f.Name())
	assert.Equal(t, "text/plain;\r\n charset=us-ascii", f.Body())

	f.SetBody("text/html")
	assert.Equal(t, "content-type: text/html", f.String())

	f = field.Parse("  no colon here  ")
	assert.Equal(t, "no colon here", f.Name())
	assert.Equal(t, "no colon here", f.Body())
	assert.Equal(t, "  no colon here  ", f.String())
}

func TestPlaceholder(t *testing.T) {
	t.Parallel()

	f := field.NewPlaceholder("Date")
	assert.True(t, f.IsPlaceholder())
	assert.Nil(t, f.Raw())
	assert.Equal(t, "", f.Body())

	f.SetBody("Sat, 31 Jan 2015 03:23:09 +0000")
	assert.False(t, f.IsPlaceholder())
	assert.Equal(t, "Date: Sat, 31 Jan 2015 03:23:09 +0000", f.String())

	f.Clear()
	assert.True(t, f.IsPlaceholder())
	assert.Equal(t, "Date", f.Name())
}

func TestField_AppendContinuation(t *testing.T) {
	t.Parallel()

	f := field.Parse("Received: from a")
	f.AppendContinuation("\tby b")
	assert.Equal(t, "Received: from a\r\n\tby b", f.String())
	assert.Equal(t, "from a\r\n\tby b", f.Body())

	c := f.Clone()
	c.SetBody("x")
	assert.Equal(t, "Received: from a\r\n\tby b", f.String())
	assert.Equal(t, "Received: x", c.String())
}
