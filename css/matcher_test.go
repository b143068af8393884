package css

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type node struct {
	tag, id  string
	classes  []string
	attrs    map[string]string
	children []*node
}

func (n *node) TagName() string        { return n.tag }
func (n *node) ID() string             { return n.id }
func (n *node) HasClass(c string) bool { return slices.Contains(n.classes, c) }
func (n *node) ChildElements() []*node { return n.children }
func (n *node) Attribute(k string) (string, bool) {
	v, ok := n.attrs[k]
	return v, ok
}

func el(tag, id string, children ...*node) *node {
	return &node{tag: tag, id: id, children: children}
}

func ids(nodes []*node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.id
	}
	return out
}

func TestStateAdvance(t *testing.T) {
	m := MustCompile("#id .a a.b *.a.b .a.b * a", WithLogger(zaptest.NewLogger(t)))
	star := &node{tag: "_"}
	withID := &node{tag: "p", id: "id"}
	withClass := &node{tag: "a", classes: []string{"a", "b"}}

	st := m.Start()
	steps := []struct {
		el   *node
		want bool
	}{
		{star, false}, {withClass, false}, {withID, true}, // #id
		{star, false}, {withID, false}, {withClass, true}, // .a
		{star, false}, {withID, false}, {withClass, true}, // a.b
		{withID, false}, {star, false}, {withClass, true}, // *.a.b
		{withID, false}, {star, false}, {withClass, true}, // .a.b
	}
	for i, s := range steps {
		assert.Equal(t, s.want, st.Advance(s.el), "step %d", i)
	}

	// *
	assert.True(t, st.Advance(withID))
	st.Rewind()
	assert.True(t, st.Advance(star))
	st.Rewind()
	assert.True(t, st.Advance(withClass))

	// a
	assert.False(t, st.Advance(withID))
	assert.False(t, st.Advance(star))
	assert.True(t, st.Advance(withClass))

	assert.True(t, st.Matched())
	assert.Equal(t, 7, st.Level())
	assert.False(t, st.Advance(withClass), "advance past the end")

	st.Reset()
	assert.Equal(t, 0, st.Level())
	assert.False(t, st.Matched())
}

func TestStateIsCopiedByValue(t *testing.T) {
	m := MustCompile("div span")
	a := m.Start()
	require.True(t, a.Advance(&node{tag: "div"}))
	b := a
	require.True(t, b.Advance(&node{tag: "span"}))
	assert.Equal(t, 1, a.Level())
	assert.True(t, b.Matched())
}

func TestAttributeMatch(t *testing.T) {
	n := &node{tag: "x", attrs: map[string]string{
		"lang":  "en-US",
		"class": " btn  primary ",
		"title": "  Hello World  ",
		"empty": "",
	}}
	tests := []struct {
		selector string
		want     bool
	}{
		{"[lang]", true},
		{"[missing]", false},
		{`[lang="en-US"]`, true},
		{`[lang="en"]`, false},
		{`[lang!="en"]`, true},
		{`[missing!="en"]`, true},
		{`[lang!="en-US"]`, false},
		{`[lang^="en"]`, true},
		{`[lang$="US"]`, true},
		{`[lang*="n-U"]`, true},
		{`[lang|="en"]`, true},
		{`[lang|="e"]`, false},
		{`[class~="btn"]`, true},
		{`[class~="primary"]`, true},
		{`[class~="btn primary"]`, false},
		{`[title^="  Hello"]`, true},
		{`[empty=""]`, true},
		{`[empty^=""]`, true},
		{`[missing^=""]`, false},
		{`[LANG]`, false},
		{`[lang="en-us"]`, false},
	}
	for _, tt := range tests {
		m := MustCompile(tt.selector)
		st := m.Start()
		assert.Equal(t, tt.want, st.Advance(n), "%s", tt.selector)
	}
}

// tree:
//
//	root
//	  div#1
//	    div#2
//	      span#3.a
//	    p#4
//	      div#5
//	        span#6
//	  span#7
func testTree() *node {
	return el("", "",
		el("div", "1",
			el("div", "2", &node{tag: "span", id: "3", classes: []string{"a"}}),
			el("p", "4", el("div", "5", el("span", "6"))),
		),
		el("span", "7"),
	)
}

func TestAll(t *testing.T) {
	root := testTree()
	tests := []struct {
		selector string
		want     []string
	}{
		{"div", []string{"1", "2", "5"}},
		{"div div", []string{"2", "5"}},
		{"div span", []string{"3", "6"}},
		{"div div span", []string{"3", "6"}},
		{"p span", []string{"6"}},
		{"span", []string{"3", "6", "7"}},
		{".a", []string{"3"}},
		{"*", []string{"1", "2", "3", "4", "5", "6", "7"}},
		{"p p", nil},
		{"span div", nil},
		{"", nil},
	}
	for _, tt := range tests {
		ms, err := CompileList(tt.selector)
		require.NoError(t, err)
		got := ids(All(root, ms...))
		if diff := cmp.Diff(tt.want, got, cmpopts.EquateEmpty()); diff != "" {
			t.Errorf("All(%q) mismatch (-want +got):\n%s", tt.selector, diff)
		}
	}
}

func TestAllUnion(t *testing.T) {
	root := testTree()
	ms, err := CompileList("span, div span, #1")
	require.NoError(t, err)
	assert.Equal(t, []string{"3", "6", "7", "1"}, ids(All(root, ms...)))
}

func TestFirst(t *testing.T) {
	root := testTree()
	tests := []struct {
		selector string
		want     string
		found    bool
	}{
		{"span", "3", true},
		{"p span", "6", true},
		{"div div span", "3", true},
		{"#7, #1", "7", true},
		{"#nope, div", "1", true},
		{"table", "", false},
	}
	for _, tt := range tests {
		ms, err := CompileList(tt.selector)
		require.NoError(t, err)
		got, ok := First(root, ms...)
		require.Equal(t, tt.found, ok, "First(%q)", tt.selector)
		if ok {
			assert.Equal(t, tt.want, got.id, "First(%q)", tt.selector)
		}
	}
}

func TestQueryIncludesStartElement(t *testing.T) {
	root := testTree()
	div := root.children[0]
	got, ok := First(div, MustCompile("div"))
	require.True(t, ok)
	assert.Equal(t, "1", got.id)
	assert.Equal(t, []string{"1", "2", "5"}, ids(All(div, MustCompile("div"))))
}

func TestAllDeepNesting(t *testing.T) {
	// A chain of 200 nested divs must not explode combinatorially.
	root := el("", "")
	cur := root
	for i := 0; i < 200; i++ {
		next := el("div", "")
		cur.children = []*node{next}
		cur = next
	}
	got := All(root, MustCompile("div div div div"))
	assert.Len(t, got, 197)
}

func TestMatcherReuse(t *testing.T) {
	root := testTree()
	m := MustCompile("div span")
	first := ids(All(root, m))
	second := ids(All(root, m))
	assert.Equal(t, first, second)
	assert.Equal(t, "div span", m.String())
}
