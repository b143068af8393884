package html

import (
	"io"

	xhtml "golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

// Codec converts between entity-escaped text as written in markup and
// plain text.
type Codec interface {
	Decode(escaped string) string
	Encode(raw string) string
}

// Entities is the Codec backed by the HTML5 named character reference
// table of golang.org/x/net/html.
var Entities Codec = entityCodec{}

type entityCodec struct{}

// Decode unescapes every entity, including numeric references.
func (entityCodec) Decode(escaped string) string {
	return xhtml.UnescapeString(escaped)
}

// Encode escapes <, >, &, ' and ".
func (entityCodec) Encode(raw string) string {
	return xhtml.EscapeString(raw)
}

// NewReader returns a reader that converts the content of r to UTF-8. The
// encoding is taken from contentType when it names a charset, otherwise it
// is sniffed from the first bytes of the input.
func NewReader(r io.Reader, contentType string) (io.Reader, error) {
	return charset.NewReader(r, contentType)
}
