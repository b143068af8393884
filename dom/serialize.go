package dom

import (
	"bytes"
	"regexp"
	"strings"
	"unicode"

	"github.com/goccy/go-json"

	"github.com/chrisuehlinger/quickhtml/html"
)

// String serializes the element. Tags in the self-closed set are written
// as <tag attrs /> and lose their children; the root writes only its
// children.
func (e *Element) String() string {
	if e.tagName == "" {
		return e.InnerHTML()
	}
	attrs := ""
	if e.rawAttrs != "" {
		attrs = " " + e.rawAttrs
	}
	if html.RendersSelfClosed(e.tagName) {
		return "<" + e.tagName + attrs + " />"
	}
	return "<" + e.tagName + attrs + ">" + e.InnerHTML() + "</" + e.tagName + ">"
}

// OuterHTML is an alias of String.
func (e *Element) OuterHTML() string {
	return e.String()
}

// InnerHTML serializes the children.
func (e *Element) InnerHTML() string {
	var b strings.Builder
	for _, n := range e.childNodes {
		b.WriteString(n.String())
	}
	return b.String()
}

// Structure returns an indented outline of the subtree, one line per
// element as tag#id.class1.class2 and #text for non-blank text.
func (e *Element) Structure() string {
	var lines []string
	var walk func(el *Element, depth int)
	walk = func(el *Element, depth int) {
		indent := strings.Repeat("  ", depth)
		line := el.tagName
		if el.id != "" {
			line += "#" + el.id
		}
		if len(el.classNames) > 0 {
			line += "." + strings.Join(el.classNames, ".")
		}
		lines = append(lines, indent+line)
		for _, n := range el.childNodes {
			switch n := n.(type) {
			case *Element:
				walk(n, depth+1)
			case *Text:
				if !n.IsWhitespace() {
					lines = append(lines, indent+"  #text")
				}
			}
		}
	}
	walk(e, 0)
	return strings.Join(lines, "\n")
}

var spaceRun = regexp.MustCompile(`\s{2,}`)

type textBlock struct {
	parts       []string
	pendingTail bool
}

// StructuredText returns the decoded text with a line break around every
// text-breaking block element. Runs of whitespace collapse to one space.
func (e *Element) StructuredText() string {
	current := &textBlock{}
	blocks := []*textBlock{current}
	newBlock := func() {
		if len(current.parts) > 0 {
			current = &textBlock{}
			blocks = append(blocks, current)
		}
	}
	var walk func(n Node)
	walk = func(n Node) {
		switch n := n.(type) {
		case *Element:
			breaks := html.BreaksText(n.tagName)
			if breaks {
				newBlock()
			}
			for _, c := range n.childNodes {
				walk(c)
			}
			if breaks {
				newBlock()
			}
		case *Text:
			if n.IsWhitespace() {
				current.pendingTail = true
				return
			}
			text := n.Text()
			if current.pendingTail {
				text = " " + text
				current.pendingTail = false
			}
			current.parts = append(current.parts, text)
		}
	}
	walk(e)

	lines := make([]string, len(blocks))
	for i, b := range blocks {
		lines[i] = spaceRun.ReplaceAllString(strings.TrimSpace(strings.Join(b.parts, "")), " ")
	}
	return strings.TrimRightFunc(strings.Join(lines, "\n"), unicode.IsSpace)
}

// RemoveWhitespace drops blank text nodes from the subtree and trims the
// others. It returns e.
func (e *Element) RemoveWhitespace() *Element {
	kept := e.childNodes[:0]
	for _, n := range e.childNodes {
		switch n := n.(type) {
		case *Text:
			if n.IsWhitespace() {
				n.setParent(nil)
				continue
			}
			n.value = strings.TrimSpace(n.value)
		case *Element:
			n.RemoveWhitespace()
		}
		kept = append(kept, n)
	}
	clear(e.childNodes[len(kept):])
	e.childNodes = kept
	return e
}

// TrimRight cuts the subtree at the first text or comment whose raw text
// matches pattern: the node keeps what precedes the match and its later
// siblings are dropped. Element children are trimmed recursively. It
// returns e.
func (e *Element) TrimRight(pattern *regexp.Regexp) *Element {
	for i := 0; i < len(e.childNodes); i++ {
		switch n := e.childNodes[i].(type) {
		case *Element:
			n.TrimRight(pattern)
		case *Text:
			if e.cutAt(i, &n.value, pattern) {
				return e
			}
		case *Comment:
			if e.cutAt(i, &n.value, pattern) {
				return e
			}
		}
	}
	return e
}

func (e *Element) cutAt(i int, value *string, pattern *regexp.Regexp) bool {
	loc := pattern.FindStringIndex(*value)
	if loc == nil {
		return false
	}
	*value = (*value)[:loc[0]]
	for _, n := range e.childNodes[i+1:] {
		n.setParent(nil)
	}
	clear(e.childNodes[i+1:])
	e.childNodes = e.childNodes[:i+1]
	return true
}

// MarshalJSON implements json.Marshaler. Attributes are written decoded,
// in source order.
func (e *Element) MarshalJSON() ([]byte, error) {
	children := e.childNodes
	if children == nil {
		children = []Node{}
	}
	return json.Marshal(elementJSON{
		Type:       "element",
		TagName:    e.tagName,
		Attributes: attributesJSON(e.attributeList()),
		Children:   children,
	})
}

type elementJSON struct {
	Type       string         `json:"type"`
	TagName    string         `json:"tagName"`
	Attributes attributesJSON `json:"attributes"`
	Children   []Node         `json:"children"`
}

type attributesJSON []Attribute

func (a attributesJSON) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, attr := range a {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(attr.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(attr.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
