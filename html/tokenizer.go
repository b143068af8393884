// Package html provides the low-level markup scanner used by the dom tree
// builder, the static tag tables that drive its error recovery, and the
// entity codec shared by the text and attribute accessors.
package html

import (
	"io"
	"regexp"
	"strconv"
	"strings"
)

// TokenType represents the type of a markup token.
type TokenType int

const (
	ErrorToken TokenType = iota
	TextToken
	StartTagToken
	EndTagToken
	SelfClosingTagToken
	CommentToken
)

// String returns a string representation of the TokenType.
func (t TokenType) String() string {
	switch t {
	case ErrorToken:
		return "Error"
	case TextToken:
		return "Text"
	case StartTagToken:
		return "StartTag"
	case EndTagToken:
		return "EndTag"
	case SelfClosingTagToken:
		return "SelfClosingTag"
	case CommentToken:
		return "Comment"
	}
	return "Invalid(" + strconv.Itoa(int(t)) + ")"
}

// Token represents a markup token.
type Token struct {
	Type TokenType
	// Data is the tag name for tag tokens, the literal text for text tokens
	// and the content between the delimiters for comment tokens.
	Data string
	// RawAttrs is the trimmed, undecoded attribute substring of a tag token.
	RawAttrs string
}

// markupPattern matches either a comment span or a start, end or
// self-closing tag. Groups: 1 end-tag slash, 2 tag name, 3 attributes,
// 9 self-closing slash.
var markupPattern = regexp.MustCompile(`(?i)<!--[\s\S]*?-->|<(/?)([a-z][-.:0-9_a-z]*)((\s*(?:[a-z][-.:0-9_a-z]*(\s*=\s*("[^"]*?"|'([^']*?')|([^</>]+)))?|[^</>\s]+))*)\s*(/?)>`)

// Tokenizer scans markup in a single forward pass. Text between two
// markup matches is reported as a TextToken before the tag that ends it;
// text after the last match is available through Trailing once Next
// returns ErrorToken.
type Tokenizer struct {
	src string
	// pos is where the next markup search starts.
	pos int
	// textPos is the end of the last consumed markup.
	textPos int
	tok     Token
	pending *Token
	err     error
}

// NewTokenizer returns a Tokenizer over src.
func NewTokenizer(src string) *Tokenizer {
	return &Tokenizer{src: src}
}

// Next advances the tokenizer and returns the type of the next token.
func (z *Tokenizer) Next() TokenType {
	if z.pending != nil {
		z.tok, z.pending = *z.pending, nil
		return z.tok.Type
	}
	if z.err != nil || z.pos > len(z.src) {
		return z.eof()
	}
	rest := z.src[z.pos:]
	loc := markupPattern.FindStringSubmatchIndex(rest)
	if loc == nil {
		return z.eof()
	}
	tok := markupToken(rest, loc)
	start, end := z.pos+loc[0], z.pos+loc[1]
	text := ""
	if z.textPos < start {
		text = z.src[z.textPos:start]
	}
	z.pos, z.textPos = end, end
	if text != "" {
		z.pending = &tok
		z.tok = Token{Type: TextToken, Data: text}
		return TextToken
	}
	z.tok = tok
	return tok.Type
}

func (z *Tokenizer) eof() TokenType {
	z.err = io.EOF
	z.tok = Token{Type: ErrorToken}
	return ErrorToken
}

// Token returns the current token.
func (z *Tokenizer) Token() Token {
	return z.tok
}

// Err returns the error associated with the most recent ErrorToken. It is
// io.EOF once the input is exhausted.
func (z *Tokenizer) Err() error {
	return z.err
}

// RawText consumes the content of a raw-text element whose start tag was
// just returned, without tokenizing it. It returns the literal content up
// to the closing tag and whether the closing tag was found. When it is
// missing the rest of the input is consumed and scanning ends.
func (z *Tokenizer) RawText(tag string) (string, bool) {
	if z.pending != nil || z.pos > len(z.src) {
		return "", false
	}
	closeMarkup := "</" + tag + ">"
	rest := z.src[z.pos:]
	idx := strings.Index(rest, closeMarkup)
	if idx < 0 {
		z.pos = len(z.src) + 1
		z.textPos = len(z.src)
		return rest, false
	}
	z.pos = z.pos + idx + len(closeMarkup)
	z.textPos = z.pos
	return rest[:idx], true
}

// Trailing returns the text that follows the last markup match.
func (z *Tokenizer) Trailing() string {
	if z.textPos < len(z.src) {
		return z.src[z.textPos:]
	}
	return ""
}

func markupToken(s string, loc []int) Token {
	group := func(i int) string {
		if loc[2*i] < 0 {
			return ""
		}
		return s[loc[2*i]:loc[2*i+1]]
	}
	whole := group(0)
	if strings.HasPrefix(whole, "<!--") {
		return Token{Type: CommentToken, Data: whole[4 : len(whole)-3]}
	}
	tok := Token{Data: group(2), RawAttrs: strings.TrimSpace(group(3))}
	switch {
	case group(1) == "/":
		tok.Type = EndTagToken
	case group(9) == "/":
		tok.Type = SelfClosingTagToken
	default:
		tok.Type = StartTagToken
	}
	return tok
}
