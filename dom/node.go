package dom

import (
	"regexp"

	"github.com/goccy/go-json"

	"github.com/chrisuehlinger/quickhtml/html"
)

// entities decodes text on access and encodes attribute values on write.
var entities = html.Entities

// Node is one of *Element, *Text or *Comment. The set is closed.
type Node interface {
	NodeType() NodeType
	// ParentNode returns the element holding the node, or nil when detached.
	ParentNode() *Element
	// RawText returns the text content as written in the source.
	RawText() string
	// Text returns the entity-decoded text content.
	Text() string
	// String serializes the node back to markup.
	String() string
	// Remove detaches the node from its parent, if any.
	Remove()

	setParent(*Element)
}

var whitespacePattern = regexp.MustCompile(`^(\s|&nbsp;)*$`)

// Text represents a text node. Its value is kept escaped as written.
type Text struct {
	parent *Element
	value  string
}

// NewText returns a detached text node.
func NewText(value string) *Text {
	return &Text{value: value}
}

// NodeType returns TextNode (3).
func (t *Text) NodeType() NodeType {
	return TextNode
}

// ParentNode returns the containing element, or nil when detached.
func (t *Text) ParentNode() *Element {
	return t.parent
}

func (t *Text) setParent(p *Element) {
	t.parent = p
}

// RawText returns the value as written.
func (t *Text) RawText() string {
	return t.value
}

// Text returns the entity-decoded value.
func (t *Text) Text() string {
	return entities.Decode(t.value)
}

// String returns the value as written.
func (t *Text) String() string {
	return t.value
}

// Value returns the raw value.
func (t *Text) Value() string {
	return t.value
}

// SetValue replaces the raw value.
func (t *Text) SetValue(value string) {
	t.value = value
}

// Remove detaches the node from its parent.
func (t *Text) Remove() {
	detach(t)
}

// IsWhitespace reports whether the text holds only whitespace and &nbsp;
// references.
func (t *Text) IsWhitespace() bool {
	return whitespacePattern.MatchString(t.value)
}

// MarshalJSON implements json.Marshaler.
func (t *Text) MarshalJSON() ([]byte, error) {
	return json.Marshal(valueJSON{Type: "text", Value: t.value})
}

// Comment represents a comment node. Its value is the content between the
// delimiters.
type Comment struct {
	parent *Element
	value  string
}

// NewComment returns a detached comment node.
func NewComment(value string) *Comment {
	return &Comment{value: value}
}

// NodeType returns CommentNode (8).
func (c *Comment) NodeType() NodeType {
	return CommentNode
}

// ParentNode returns the containing element, or nil when detached.
func (c *Comment) ParentNode() *Element {
	return c.parent
}

func (c *Comment) setParent(p *Element) {
	c.parent = p
}

// RawText returns the comment content.
func (c *Comment) RawText() string {
	return c.value
}

// Text returns the entity-decoded comment content.
func (c *Comment) Text() string {
	return entities.Decode(c.value)
}

// String returns the comment with its delimiters.
func (c *Comment) String() string {
	return "<!--" + c.value + "-->"
}

// Value returns the comment content.
func (c *Comment) Value() string {
	return c.value
}

// SetValue replaces the comment content.
func (c *Comment) SetValue(value string) {
	c.value = value
}

// Remove detaches the node from its parent.
func (c *Comment) Remove() {
	detach(c)
}

// MarshalJSON implements json.Marshaler.
func (c *Comment) MarshalJSON() ([]byte, error) {
	return json.Marshal(valueJSON{Type: "comment", Value: c.value})
}

type valueJSON struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

func detach(n Node) {
	if p := n.ParentNode(); p != nil {
		p.RemoveChild(n)
	}
}

// IsBlock reports whether n is an element with a block-level tag name.
func IsBlock(n Node) bool {
	el, ok := n.(*Element)
	return ok && el.tagName != "" && html.IsBlock(el.tagName)
}
