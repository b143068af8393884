package html

import (
	"strings"

	"golang.org/x/net/html/atom"
)

// voidElements never have content and close as soon as they open.
var voidElements = map[atom.Atom]bool{
	atom.Area:   true,
	atom.Base:   true,
	atom.Br:     true,
	atom.Col:    true,
	atom.Hr:     true,
	atom.Img:    true,
	atom.Input:  true,
	atom.Link:   true,
	atom.Meta:   true,
	atom.Source: true,
}

// rawTextElements hold content that is not tokenized as markup.
var rawTextElements = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Noscript: true,
	atom.Style:    true,
	atom.Pre:      true,
}

// selfClosedOnOutput are serialized as <tag attrs /> whatever the input
// syntax was. doctype has no atom and is handled separately.
var selfClosedOnOutput = map[atom.Atom]bool{
	atom.Img:   true,
	atom.Br:    true,
	atom.Hr:    true,
	atom.Area:  true,
	atom.Base:  true,
	atom.Input: true,
	atom.Link:  true,
	atom.Meta:  true,
}

// textBreaks start a new line in structured text.
var textBreaks = map[atom.Atom]bool{
	atom.Div:     true,
	atom.P:       true,
	atom.Li:      true,
	atom.Td:      true,
	atom.Section: true,
	atom.Br:      true,
}

var blockElements = map[atom.Atom]bool{
	atom.Html: true, atom.Body: true, atom.Address: true, atom.Article: true,
	atom.Aside: true, atom.Blockquote: true, atom.Canvas: true, atom.Dd: true,
	atom.Div: true, atom.Dl: true, atom.Dt: true, atom.Fieldset: true,
	atom.Figcaption: true, atom.Figure: true, atom.Footer: true, atom.Form: true,
	atom.Header: true, atom.Hr: true, atom.Li: true, atom.Main: true,
	atom.Nav: true, atom.Noscript: true, atom.Ol: true, atom.P: true,
	atom.Pre: true, atom.Section: true, atom.Tfoot: true, atom.Table: true,
	atom.Tbody: true, atom.Ul: true, atom.Video: true, atom.Th: true,
	atom.Td: true, atom.Tr: true, atom.H1: true, atom.H2: true,
	atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
}

var (
	headingBreakers = set(atom.P, atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6)
	cellBreakers    = set(atom.Td, atom.Th)
	rowBreakers     = set(atom.Tr, atom.Thead, atom.Tbody, atom.Tfoot)
	listBreakers    = set(atom.Ul, atom.Ol)
)

// closedByOpening maps an open element to the start tags that implicitly
// close it.
var closedByOpening = map[atom.Atom]map[atom.Atom]bool{
	atom.Li: set(atom.Li),
	atom.P:  headingBreakers,
	atom.B:  set(atom.Div),
	atom.Td: cellBreakers,
	atom.Th: cellBreakers,
	atom.H1: headingBreakers,
	atom.H2: headingBreakers,
	atom.H3: headingBreakers,
	atom.H4: headingBreakers,
	atom.H5: headingBreakers,
	atom.H6: headingBreakers,

	atom.Colgroup: rowBreakers,
	atom.Tr:       rowBreakers,
	atom.Thead:    rowBreakers,
	atom.Tbody:    rowBreakers,
	atom.Tfoot:    rowBreakers,

	atom.Ul: listBreakers,
	atom.Ol: listBreakers,

	atom.Aside:  set(atom.Aside),
	atom.Nav:    set(atom.Nav),
	atom.Form:   set(atom.Form),
	atom.Header: set(atom.Header),
	atom.Footer: set(atom.Footer),
	atom.Main:   set(atom.Main),
}

func set(atoms ...atom.Atom) map[atom.Atom]bool {
	m := make(map[atom.Atom]bool, len(atoms))
	for _, a := range atoms {
		m[a] = true
	}
	return m
}

// lookup is case-sensitive: only lower-case names resolve to an atom.
func lookup(tag string) atom.Atom {
	return atom.Lookup([]byte(tag))
}

// IsVoid reports whether tag is a void element that self-closes.
func IsVoid(tag string) bool {
	return voidElements[lookup(tag)]
}

// IsRawText reports whether the content of tag is kept as literal text.
func IsRawText(tag string) bool {
	return rawTextElements[lookup(tag)]
}

// ClosedByOpening reports whether an open element named open is
// implicitly closed when a start tag named next is seen.
func ClosedByOpening(open, next string) bool {
	closers := closedByOpening[lookup(open)]
	if closers == nil {
		return false
	}
	return closers[lookup(next)]
}

// RendersSelfClosed reports whether tag is serialized in self-closed form.
// The comparison is case-insensitive.
func RendersSelfClosed(tag string) bool {
	lower := strings.ToLower(tag)
	return lower == "doctype" || selfClosedOnOutput[lookup(lower)]
}

// BreaksText reports whether tag starts a new line in structured text.
func BreaksText(tag string) bool {
	return textBreaks[lookup(tag)]
}

// IsBlock reports whether tag names a block-level element. The comparison
// is case-insensitive.
func IsBlock(tag string) bool {
	return blockElements[lookup(strings.ToLower(tag))]
}
