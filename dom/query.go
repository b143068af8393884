package dom

import (
	"github.com/chrisuehlinger/quickhtml/css"
)

// QuerySelector returns the first element in the subtree, e included,
// matching selector. A comma-separated list is tried branch by branch and
// the first branch with a hit wins. It returns nil, nil when nothing
// matches.
func (e *Element) QuerySelector(selector string) (*Element, error) {
	matchers, err := css.CompileList(selector)
	if err != nil {
		return nil, err
	}
	return e.Query(matchers...), nil
}

// QuerySelectorAll returns every element in the subtree, e included,
// matching selector, without duplicates.
func (e *Element) QuerySelectorAll(selector string) ([]*Element, error) {
	matchers, err := css.CompileList(selector)
	if err != nil {
		return nil, err
	}
	return e.QueryAll(matchers...), nil
}

// Query is QuerySelector with precompiled matchers. Each call starts from
// a fresh cursor, so matchers can be reused.
func (e *Element) Query(matchers ...*css.Matcher) *Element {
	el, _ := css.First(e, matchers...)
	return el
}

// QueryAll is QuerySelectorAll with precompiled matchers.
func (e *Element) QueryAll(matchers ...*css.Matcher) []*Element {
	return css.All(e, matchers...)
}
