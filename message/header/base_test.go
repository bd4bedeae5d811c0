package header_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zostay/go-mime/message/header"
)

func TestBase_SetReplacesFirstInPlace(t *testing.T) {
	t.Parallel()

	h := &header.Base{}
	h.Add("Subject", "hello")
	h.Add("X-A", "one")
	h.Add("X-B", "middle")
	h.Add("X-A", "two")
	h.Set("X-A", "v")

	assert.Equal(t, []string{"v"}, h.Values("X-A"))
	assert.Equal(t, []string{
		"Subject: hello",
		"X-A: v",
		"X-B: middle",
	}, h.Lines())
}

func TestBase_CanonicalOrder(t *testing.T) {
	t.Parallel()

	h := &header.Base{}
	h.Add("Content-Length", "10")
	h.Add("Subject", "s")
	h.Add("X-Custom", "c")
	h.Add("From", "f@example.com")
	h.Add("X-Another", "a")
	h.Add("MIME-Version", "1.0")

	assert.Equal(t, []string{
		"From: f@example.com",
		"Subject: s",
		"MIME-Version: 1.0",
		"X-Custom: c",
		"X-Another: a",
		"Content-Length: 10",
	}, h.Lines())
}

func TestBase_Received(t *testing.T) {
	t.Parallel()

	h := &header.Base{}
	h.Add("Subject", "s")
	h.Add("Received", "first")
	h.Add("Received", "second")
	h.Add("Return-Path", "<a@example.com>")

	assert.Equal(t, []string{"second", "first"}, h.Values("received"))
	assert.Equal(t, []string{
		"Return-Path: <a@example.com>",
		"Received: second",
		"Received: first",
		"Subject: s",
	}, h.Lines())
}

func TestBase_AddAfterLast(t *testing.T) {
	t.Parallel()

	h := &header.Base{}
	h.Add("X-A", "1")
	h.Add("X-B", "2")
	h.Add("x-a", "3")

	assert.Equal(t, []string{"X-A: 1", "x-a: 3", "X-B: 2"}, h.Lines())
}

func TestBase_Remove(t *testing.T) {
	t.Parallel()

	h := &header.Base{}
	h.Add("Subject", "s")
	h.Add("X-A", "1")
	h.Add("X-A", "2")
	h.Add("X-B", "b")

	h.Remove("x-a")
	assert.Nil(t, h.Values("X-A"))
	assert.Equal(t, 2, h.Len())

	// the removed field's position is kept
	h.Add("X-A", "3")
	assert.Equal(t, []string{"Subject: s", "X-A: 3", "X-B: b"}, h.Lines())

	// removing a missing field is harmless
	h.Remove("X-Missing")
	assert.Equal(t, 3, h.Len())
}

func TestBase_Values(t *testing.T) {
	t.Parallel()

	h := &header.Base{}
	assert.Nil(t, h.Values("Subject"))
	assert.Nil(t, h.Values("Date"))

	v, ok := h.First("Subject")
	assert.False(t, ok)
	assert.Equal(t, "", v)

	_, ok = h.Joined("Subject", ",")
	assert.False(t, ok)

	h.Add("Comments", "one")
	h.Add("Comments", "two")

	v, ok = h.First("Comments")
	assert.True(t, ok)
	assert.Equal(t, "one", v)

	v, ok = h.Joined("Comments", ", ")
	assert.True(t, ok)
	assert.Equal(t, "one, two", v)
}

func TestBase_Matching(t *testing.T) {
	t.Parallel()

	h := &header.Base{}
	h.Add("Subject", "s")
	h.Add("To", "t@example.com")
	h.Add("Content-Type", "text/plain")

	assert.Equal(t, []string{"To: t@example.com", "Content-Type: text/plain"},
		h.MatchingLines("content-type", "TO"))
	assert.Equal(t, []string{"Subject: s"},
		h.NonMatchingLines("Content-Type", "To"))

	fs := h.MatchingFields("Subject")
	if assert.Len(t, fs, 1) {
		assert.Equal(t, "s", fs[0].Body())
	}
	assert.Len(t, h.NonMatchingFields("Subject"), 2)
	assert.Len(t, h.Fields(), 3)
}

func TestBase_AddLine(t *testing.T) {
	t.Parallel()

	h := &header.Base{}
	h.AddLine(" orphan continuation")
	h.AddLine("Subject: a long")
	h.AddLine("\tsubject")
	h.AddLine("")
	h.AddLine("no colon here")

	assert.Equal(t, []string{
		" orphan continuation",
		"Subject: a long\r\n\tsubject",
		"no colon here",
	}, h.Lines())
	assert.Equal(t, []string{"no colon here"}, h.Values("no colon here"))
}

func TestBase_AddLineAfterSet(t *testing.T) {
	t.Parallel()

	h := &header.Base{}
	h.AddLine("X: 1")
	h.AddLine("X: 2")
	h.Set("X", "new")
	h.AddLine(" continued")

	assert.Equal(t, []string{"X: new", " continued"}, h.Lines())

	h = &header.Base{}
	h.AddLine("Y: 1")
	h.AddLine("Y: 2")
	h.Remove("Y")
	h.AddLine("\tcontinued")

	assert.Equal(t, []string{"\tcontinued"}, h.Lines())
}

func TestBase_Clone(t *testing.T) {
	t.Parallel()

	h := &header.Base{}
	h.AddLine("Subject: one")

	c := h.Clone()
	c.Set("Subject", "two")
	c.AddLine(" more")

	assert.Equal(t, []string{"one"}, h.Values("Subject"))
	assert.Equal(t, []string{"two\r\n more"}, c.Values("Subject"))
}

func TestBase_WriteTo(t *testing.T) {
	t.Parallel()

	h := &header.Base{}
	h.AddLine("subject: kept as written")
	h.AddLine("X-Folded: a")
	h.AddLine("  b")
	h.Add("Date", "Mon, 2 Jan 2006 15:04:05 -0700")

	buf := &strings.Builder{}
	n, err := h.WriteTo(buf)
	assert.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)
	assert.Equal(t, "Date: Mon, 2 Jan 2006 15:04:05 -0700\r\n"+
		"subject: kept as written\r\n"+
		"X-Folded: a\r\n  b\r\n"+
		"\r\n", buf.String())

	empty := &strings.Builder{}
	_, err = (&header.Base{}).WriteTo(empty)
	assert.NoError(t, err)
	assert.Equal(t, "\r\n", empty.String())
}
