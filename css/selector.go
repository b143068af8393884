// Package css compiles descendant-combinator selectors and evaluates them
// against any element tree through a small accessor contract.
package css

import (
	"fmt"
	"strings"
)

// Subject is the view of an element a selector is tested against.
type Subject interface {
	TagName() string
	ID() string
	HasClass(name string) bool
	// Attribute returns the decoded value of key and whether it is present.
	Attribute(key string) (string, bool)
}

// Segment is one whitespace-delimited compound of a selector. Every
// non-empty field must hold for a Subject to match.
type Segment struct {
	Tag        string // "" for no constraint ("*" compiles to "")
	ID         string
	Classes    []string
	Attributes []AttributeMatcher
}

// AttributeMatcher represents an attribute selector.
type AttributeMatcher struct {
	Name     string
	Operator AttributeOperator
	Value    string
}

// AttributeOperator represents the operator in an attribute selector.
type AttributeOperator int

const (
	AttrExists    AttributeOperator = iota // [attr]
	AttrEquals                             // [attr=value]
	AttrNotEquals                          // [attr!=value]
	AttrPrefix                             // [attr^=value]
	AttrSuffix                             // [attr$=value]
	AttrSubstring                          // [attr*=value]
	AttrDashMatch                          // [attr|=value]
	AttrIncludes                           // [attr~=value]
)

var operators = map[string]AttributeOperator{
	"=":  AttrEquals,
	"!=": AttrNotEquals,
	"^=": AttrPrefix,
	"$=": AttrSuffix,
	"*=": AttrSubstring,
	"|=": AttrDashMatch,
	"~=": AttrIncludes,
}

// String returns the operator as written in a selector.
func (op AttributeOperator) String() string {
	for s, o := range operators {
		if o == op {
			return s
		}
	}
	return ""
}

// Match tests a single element against the segment.
func (s *Segment) Match(el Subject) bool {
	if s.Tag != "" && el.TagName() != s.Tag {
		return false
	}
	if s.ID != "" && el.ID() != s.ID {
		return false
	}
	for _, c := range s.Classes {
		if !el.HasClass(c) {
			return false
		}
	}
	for i := range s.Attributes {
		if !s.Attributes[i].Match(el) {
			return false
		}
	}
	return true
}

// Match tests the attribute selector against el. Only != matches an
// absent attribute.
func (a *AttributeMatcher) Match(el Subject) bool {
	v, ok := el.Attribute(a.Name)
	if a.Operator == AttrNotEquals {
		return !ok || v != a.Value
	}
	if !ok {
		return false
	}
	switch a.Operator {
	case AttrExists:
		return true
	case AttrEquals:
		return v == a.Value
	case AttrPrefix:
		return strings.HasPrefix(v, a.Value)
	case AttrSuffix:
		return strings.HasSuffix(v, a.Value)
	case AttrSubstring:
		return strings.Contains(v, a.Value)
	case AttrDashMatch:
		return v == a.Value || strings.HasPrefix(v, a.Value+"-")
	case AttrIncludes:
		for _, word := range strings.Fields(v) {
			if word == a.Value {
				return true
			}
		}
	}
	return false
}

// String renders the segment back into selector syntax.
func (s *Segment) String() string {
	var b strings.Builder
	b.WriteString(s.Tag)
	if s.ID != "" {
		b.WriteString("#" + s.ID)
	}
	for _, c := range s.Classes {
		b.WriteString("." + c)
	}
	for _, a := range s.Attributes {
		b.WriteString("[" + a.Name)
		if a.Operator != AttrExists {
			fmt.Fprintf(&b, "%s%q", a.Operator, a.Value)
		}
		b.WriteString("]")
	}
	if b.Len() == 0 {
		return "*"
	}
	return b.String()
}

// compiler scans one selector (no top-level commas) into segments.
type compiler struct {
	src string
	pos int
}

func parseSegments(selector string) ([]Segment, error) {
	c := &compiler{src: selector}
	var segments []Segment
	c.skipSpace()
	for !c.eof() {
		seg, err := c.segment()
		if err != nil {
			return nil, err
		}
		segments = append(segments, seg)
		if !c.eof() && !isSpace(c.peek()) {
			return nil, c.errorf(ErrInvalidSelector, "unexpected %q", c.peek())
		}
		c.skipSpace()
	}
	return segments, nil
}

func (c *compiler) segment() (Segment, error) {
	var seg Segment
	start := c.pos
	switch ch := c.peek(); {
	case ch == '*':
		c.pos++
	case isTagStart(ch):
		seg.Tag = c.scan(isTagChar)
	}
	for !c.eof() {
		switch c.peek() {
		case '#':
			c.pos++
			name := c.scan(isNameChar)
			if name == "" {
				return seg, c.errorf(ErrInvalidSelector, "empty id")
			}
			seg.ID = name
		case '.':
			c.pos++
			name := c.scan(isNameChar)
			if name == "" {
				return seg, c.errorf(ErrInvalidSelector, "empty class name")
			}
			seg.Classes = append(seg.Classes, name)
		case '[':
			attr, err := c.attribute()
			if err != nil {
				return seg, err
			}
			seg.Attributes = append(seg.Attributes, attr)
		default:
			if c.pos == start {
				return seg, c.errorf(ErrInvalidSelector, "unexpected %q", c.peek())
			}
			return seg, nil
		}
	}
	return seg, nil
}

func (c *compiler) attribute() (AttributeMatcher, error) {
	var attr AttributeMatcher
	open := c.pos
	c.pos++ // [
	c.skipSpace()
	attr.Name = c.scan(func(ch byte) bool {
		return !isSpace(ch) && ch != ']' && !isOperatorChar(ch)
	})
	if attr.Name == "" {
		return attr, c.errorf(ErrInvalidSelector, "missing attribute name")
	}
	c.skipSpace()
	if c.eof() {
		return attr, &SyntaxError{Selector: c.src, Offset: open, Msg: "unclosed '['", Err: ErrInvalidSelector}
	}
	if c.peek() == ']' {
		c.pos++
		return attr, nil
	}
	opStart := c.pos
	op := c.scan(isOperatorChar)
	o, ok := operators[op]
	if !ok {
		return attr, &SyntaxError{Selector: c.src, Offset: opStart, Msg: fmt.Sprintf("operator %q", op), Err: ErrUnsupportedOperator}
	}
	attr.Operator = o
	c.skipSpace()
	if c.eof() {
		return attr, &SyntaxError{Selector: c.src, Offset: open, Msg: "unclosed '['", Err: ErrInvalidSelector}
	}
	if q := c.peek(); q == '"' || q == '\'' {
		end := strings.IndexByte(c.src[c.pos+1:], q)
		if end < 0 {
			return attr, c.errorf(ErrInvalidSelector, "unterminated string")
		}
		attr.Value = c.src[c.pos+1 : c.pos+1+end]
		c.pos += end + 2
		c.skipSpace()
		if c.eof() || c.peek() != ']' {
			return attr, &SyntaxError{Selector: c.src, Offset: open, Msg: "unclosed '['", Err: ErrInvalidSelector}
		}
		c.pos++
		return attr, nil
	}
	end := strings.IndexByte(c.src[c.pos:], ']')
	if end < 0 {
		return attr, &SyntaxError{Selector: c.src, Offset: open, Msg: "unclosed '['", Err: ErrInvalidSelector}
	}
	attr.Value = strings.TrimSpace(c.src[c.pos : c.pos+end])
	c.pos += end + 1
	return attr, nil
}

func (c *compiler) eof() bool { return c.pos >= len(c.src) }

func (c *compiler) peek() byte { return c.src[c.pos] }

func (c *compiler) skipSpace() {
	for !c.eof() && isSpace(c.peek()) {
		c.pos++
	}
}

func (c *compiler) scan(accept func(byte) bool) string {
	start := c.pos
	for !c.eof() && accept(c.peek()) {
		c.pos++
	}
	return c.src[start:c.pos]
}

func (c *compiler) errorf(err error, format string, args ...any) error {
	return &SyntaxError{Selector: c.src, Offset: c.pos, Msg: fmt.Sprintf(format, args...), Err: err}
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == '\f'
}

func isTagStart(ch byte) bool {
	return ch == '_' || 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z'
}

func isNameChar(ch byte) bool {
	return isTagStart(ch) || '0' <= ch && ch <= '9' || ch == '-'
}

func isTagChar(ch byte) bool {
	return isNameChar(ch) || ch == ':'
}

func isOperatorChar(ch byte) bool {
	return strings.IndexByte("~|^$*!=%<>&?+@/#", ch) >= 0
}
