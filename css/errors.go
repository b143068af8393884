package css

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedOperator is returned for an attribute selector whose
	// operator is not one of = != ^= $= *= |= ~=.
	ErrUnsupportedOperator = errors.New("unsupported selector operator")
	// ErrInvalidSelector is returned for selectors outside the supported
	// grammar: combinators other than whitespace, pseudo-classes, unbalanced
	// brackets or quotes.
	ErrInvalidSelector = errors.New("invalid selector")
)

// SyntaxError describes where compiling a selector failed. It unwraps to
// ErrUnsupportedOperator or ErrInvalidSelector.
type SyntaxError struct {
	Selector string
	Offset   int
	Msg      string
	Err      error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%v: %s at offset %d in %q", e.Err, e.Msg, e.Offset, e.Selector)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}
