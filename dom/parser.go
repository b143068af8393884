package dom

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/chrisuehlinger/quickhtml/html"
)

// ErrInputTooLarge is returned by ParseReader when the input exceeds
// ParseOptions.MaxInputBytes.
var ErrInputTooLarge = errors.New("html input exceeds size limit")

// ParseOptions controls what Parse materializes. The zero value keeps tag
// case and drops comments and the content of script, style and pre.
type ParseOptions struct {
	LowerCaseTagName bool
	Script           bool
	Style            bool
	Pre              bool
	Comment          bool

	// MaxInputBytes caps the bytes ParseReader reads. Zero means no limit.
	MaxInputBytes int64

	// Logger receives debug traces of tree construction. Nil disables them.
	Logger *zap.Logger
}

func (o *ParseOptions) keepRawText(tag string) bool {
	switch tag {
	case "script":
		return o.Script
	case "style":
		return o.Style
	case "pre":
		return o.Pre
	}
	return false
}

type treeBuilder struct {
	opts  ParseOptions
	log   *zap.Logger
	root  *Element
	stack []*Element
}

// Parse builds a tree from source. It never fails: malformed markup is
// repaired and valid reports whether any repair at the end of input was
// needed. The returned root has an empty tag name.
func Parse(source string, opts *ParseOptions) (root *Element, valid bool) {
	b := &treeBuilder{root: NewElement("", "")}
	if opts != nil {
		b.opts = *opts
	}
	b.log = b.opts.Logger
	if b.log == nil {
		b.log = zap.NewNop()
	}
	b.log = b.log.Named("parser")
	b.stack = []*Element{b.root}

	z := html.NewTokenizer(source)
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		tok := z.Token()
		switch tt {
		case html.TextToken:
			b.top().AppendChild(NewText(tok.Data))
		case html.CommentToken:
			if b.opts.Comment {
				b.top().AppendChild(NewComment(tok.Data))
			}
		default:
			b.tag(z, tt, tok)
		}
	}
	if trailing := z.Trailing(); trailing != "" {
		b.root.AppendChild(NewText(trailing))
	}

	b.root.valid = len(b.stack) == 1
	b.repair()
	return b.root, b.root.valid
}

// ParseReader reads r, converting it to UTF-8 according to contentType or
// the sniffed encoding, and parses the result. MaxInputBytes applies to the
// bytes read from r, before decoding.
func ParseReader(r io.Reader, contentType string, opts *ParseOptions) (*Element, bool, error) {
	var limit int64
	if opts != nil {
		limit = opts.MaxInputBytes
	}
	if limit > 0 {
		raw, err := io.ReadAll(io.LimitReader(r, limit+1))
		if err != nil {
			return nil, false, fmt.Errorf("read html: %w", err)
		}
		if int64(len(raw)) > limit {
			return nil, false, fmt.Errorf("read html: %w (%d bytes)", ErrInputTooLarge, limit)
		}
		r = bytes.NewReader(raw)
	}
	cr, err := html.NewReader(r, contentType)
	if err != nil {
		return nil, false, fmt.Errorf("detect charset: %w", err)
	}
	var sb strings.Builder
	if _, err := io.Copy(&sb, cr); err != nil {
		return nil, false, fmt.Errorf("read html: %w", err)
	}
	root, valid := Parse(sb.String(), opts)
	return root, valid, nil
}

func (b *treeBuilder) top() *Element {
	return b.stack[len(b.stack)-1]
}

func (b *treeBuilder) pop() {
	if len(b.stack) > 1 {
		b.stack = b.stack[:len(b.stack)-1]
	}
}

func (b *treeBuilder) tag(z *html.Tokenizer, tt html.TokenType, tok html.Token) {
	name := tok.Data
	if b.opts.LowerCaseTagName {
		name = strings.ToLower(name)
	}
	closing := tt == html.EndTagToken
	selfClosing := tt == html.SelfClosingTagToken

	if !closing {
		if !selfClosing && html.ClosedByOpening(b.top().tagName, name) {
			if ce := b.log.Check(zap.DebugLevel, "implicit close"); ce != nil {
				ce.Write(zap.String("open", b.top().tagName), zap.String("next", name))
			}
			b.pop()
		}
		el := NewElement(name, tok.RawAttrs)
		b.top().AppendChild(el)
		b.stack = append(b.stack, el)
		if html.IsRawText(name) {
			text, found := z.RawText(name)
			if b.opts.keepRawText(name) && text != "" {
				el.AppendChild(NewText(text))
			}
			if ce := b.log.Check(zap.DebugLevel, "raw text"); ce != nil {
				ce.Write(zap.String("tag", name), zap.Int("len", len(text)), zap.Bool("closed", found))
			}
			closing = found
		}
	}

	void := html.IsVoid(name)
	if !closing && !selfClosing && !void {
		return
	}
	// Void elements close themselves, so </br> and friends are noise.
	if tt == html.EndTagToken && void {
		return
	}
	for {
		if b.top().tagName == name {
			b.pop()
			return
		}
		if len(b.stack) == 1 {
			return
		}
		if ce := b.log.Check(zap.DebugLevel, "closing unclosed child"); ce != nil {
			ce.Write(zap.String("child", b.top().tagName), zap.String("closing", name))
		}
		b.pop()
	}
}

// repair resolves elements still open at the end of input. An element
// whose parent is open with the same tag is taken as a mistyped end tag
// for it; any other open element is unwrapped into its parent.
func (b *treeBuilder) repair() {
	for len(b.stack) > 1 {
		last := b.top()
		b.pop()
		oneBefore := b.top()
		parent := last.parent
		if parent == nil || parent.parent == nil {
			continue
		}
		children := slices.Clone(last.childNodes)
		if parent == oneBefore && last.tagName == oneBefore.tagName {
			if ce := b.log.Check(zap.DebugLevel, "pair recovered"); ce != nil {
				ce.Write(zap.String("tag", last.tagName))
			}
			oneBefore.RemoveChild(last)
			for _, c := range children {
				oneBefore.parent.AppendChild(c)
			}
			b.pop()
			continue
		}
		if ce := b.log.Check(zap.DebugLevel, "unclosed element removed"); ce != nil {
			ce.Write(zap.String("tag", last.tagName))
		}
		oneBefore.RemoveChild(last)
		for _, c := range children {
			oneBefore.AppendChild(c)
		}
	}
}
