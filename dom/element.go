package dom

import (
	"slices"
	"strings"
)

// Element represents an element in the tree. The root returned by Parse is
// an Element with an empty tag name.
type Element struct {
	parent     *Element
	tagName    string
	rawAttrs   string
	childNodes []Node

	// id and classNames mirror the id and class attributes.
	id         string
	classNames []string

	// attrs is parsed from rawAttrs on first access.
	attrs       []Attribute
	attrsParsed bool

	valid bool
}

// NewElement returns a detached element. rawAttrs is the attribute text as
// it appears inside the start tag.
func NewElement(tagName, rawAttrs string) *Element {
	e := &Element{tagName: tagName, rawAttrs: rawAttrs}
	e.id, e.classNames = keyAttributes(rawAttrs)
	return e
}

// NodeType returns ElementNode (1).
func (e *Element) NodeType() NodeType {
	return ElementNode
}

// TagName returns the tag name as written, or lower-cased when parsed with
// LowerCaseTagName.
func (e *Element) TagName() string {
	return e.tagName
}

// ID returns the value of the id attribute.
func (e *Element) ID() string {
	return e.id
}

// ClassNames returns the whitespace-separated tokens of the class attribute.
func (e *Element) ClassNames() []string {
	return slices.Clone(e.classNames)
}

// HasClass reports whether name is one of the element's class names.
func (e *Element) HasClass(name string) bool {
	return slices.Contains(e.classNames, name)
}

// Valid reports, for a parse root, whether the input needed no structural
// recovery.
func (e *Element) Valid() bool {
	return e.valid
}

// ParentNode returns the parent element, or nil.
func (e *Element) ParentNode() *Element {
	return e.parent
}

func (e *Element) setParent(p *Element) {
	e.parent = p
}

// ChildNodes returns the children of every node type.
func (e *Element) ChildNodes() []Node {
	return slices.Clone(e.childNodes)
}

// Children returns the element children only.
func (e *Element) Children() []*Element {
	var out []*Element
	for _, n := range e.childNodes {
		if el, ok := n.(*Element); ok {
			out = append(out, el)
		}
	}
	return out
}

// ChildElements is Children under the name the selector engine expects.
func (e *Element) ChildElements() []*Element {
	return e.Children()
}

// FirstChild returns the first child node, or nil.
func (e *Element) FirstChild() Node {
	if len(e.childNodes) == 0 {
		return nil
	}
	return e.childNodes[0]
}

// LastChild returns the last child node, or nil.
func (e *Element) LastChild() Node {
	if len(e.childNodes) == 0 {
		return nil
	}
	return e.childNodes[len(e.childNodes)-1]
}

// RawText returns the concatenated raw text of all descendants.
func (e *Element) RawText() string {
	var b strings.Builder
	for _, n := range e.childNodes {
		b.WriteString(n.RawText())
	}
	return b.String()
}

// Text returns the entity-decoded text of all descendants.
func (e *Element) Text() string {
	return entities.Decode(e.RawText())
}

// AppendChild adds node as the last child, detaching it from its previous
// parent first. It returns node.
func (e *Element) AppendChild(node Node) Node {
	detach(node)
	e.childNodes = append(e.childNodes, node)
	node.setParent(e)
	return node
}

// PrependChild adds node as the first child, detaching it from its
// previous parent first. It returns node.
func (e *Element) PrependChild(node Node) Node {
	detach(node)
	e.childNodes = slices.Insert(e.childNodes, 0, node)
	node.setParent(e)
	return node
}

// RemoveChild removes node from the children and clears its parent.
func (e *Element) RemoveChild(node Node) {
	before := len(e.childNodes)
	e.childNodes = slices.DeleteFunc(e.childNodes, func(n Node) bool { return n == node })
	if len(e.childNodes) != before && node.ParentNode() == e {
		node.setParent(nil)
	}
}

// ExchangeChild puts newNode in the position of oldNode. It does nothing
// when oldNode is not a child.
func (e *Element) ExchangeChild(oldNode, newNode Node) {
	if oldNode == newNode || slices.Index(e.childNodes, oldNode) < 0 {
		return
	}
	detach(newNode)
	i := slices.Index(e.childNodes, oldNode)
	e.childNodes[i] = newNode
	newNode.setParent(e)
	oldNode.setParent(nil)
}

// Remove detaches the element from its parent.
func (e *Element) Remove() {
	detach(e)
}

// SetContent replaces all children with nodes.
func (e *Element) SetContent(nodes ...Node) {
	for _, n := range e.childNodes {
		n.setParent(nil)
	}
	e.childNodes = nil
	for _, n := range nodes {
		e.AppendChild(n)
	}
}

// SetContentHTML replaces all children with the nodes parsed from content.
// When content holds no markup or text at all it becomes a single text
// node.
func (e *Element) SetContentHTML(content string) {
	root, _ := Parse(content, nil)
	if len(root.childNodes) == 0 {
		e.SetContent(NewText(content))
		return
	}
	e.SetContent(root.ChildNodes()...)
}

// SetInnerHTML parses content and replaces all children with the result.
func (e *Element) SetInnerHTML(content string) {
	root, _ := Parse(content, nil)
	e.SetContent(root.ChildNodes()...)
}
