package html

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClosedByOpening(t *testing.T) {
	tests := []struct {
		open, next string
		want       bool
	}{
		{"li", "li", true},
		{"li", "ul", false},
		{"p", "h3", true},
		{"h3", "p", true},
		{"h1", "h6", true},
		{"p", "div", false},
		{"b", "div", true},
		{"td", "th", true},
		{"th", "td", true},
		{"colgroup", "tr", true},
		{"tbody", "tfoot", true},
		{"tr", "td", false},
		{"ul", "ol", true},
		{"nav", "nav", true},
		{"nav", "main", false},
		{"main", "main", true},
		{"div", "div", false},
		{"", "p", false},
		{"LI", "li", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClosedByOpening(tt.open, tt.next), "ClosedByOpening(%q, %q)", tt.open, tt.next)
	}
}

func TestTagTables(t *testing.T) {
	for _, tag := range []string{"area", "base", "br", "col", "hr", "img", "input", "link", "meta", "source"} {
		assert.True(t, IsVoid(tag), "IsVoid(%q)", tag)
	}
	assert.False(t, IsVoid("BR"))
	assert.False(t, IsVoid("div"))

	for _, tag := range []string{"script", "noscript", "style", "pre"} {
		assert.True(t, IsRawText(tag), "IsRawText(%q)", tag)
	}
	assert.False(t, IsRawText("textarea"))

	assert.True(t, RendersSelfClosed("IMG"))
	assert.True(t, RendersSelfClosed("doctype"))
	assert.True(t, RendersSelfClosed("DOCTYPE"))
	assert.False(t, RendersSelfClosed("col"))
	assert.False(t, RendersSelfClosed("source"))

	assert.True(t, BreaksText("br"))
	assert.False(t, BreaksText("ul"))

	assert.True(t, IsBlock("DIV"))
	assert.True(t, IsBlock("h6"))
	assert.False(t, IsBlock("span"))
	assert.False(t, IsBlock(""))
}

func TestEntities(t *testing.T) {
	assert.Equal(t, "!$$&", Entities.Decode("!$$&amp;"))
	assert.Equal(t, "a\u00a0b<", Entities.Decode("a&nbsp;b&#60;"))
	assert.Equal(t, "&lt;a href=&#34;x&#34;&gt;", Entities.Encode(`<a href="x">`))
	assert.Equal(t, "x & y", Entities.Decode(Entities.Encode("x & y")))
}

func TestNewReader(t *testing.T) {
	// "café" in ISO-8859-1.
	r, err := NewReader(strings.NewReader("caf\xe9"), "text/html; charset=iso-8859-1")
	require.NoError(t, err)
	b, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "café", string(b))
}
