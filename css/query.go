package css

import "strings"

// Element is a node of a tree that can be queried. The synthetic root of
// a tree reports an empty TagName; it is traversed but never matched.
type Element[E any] interface {
	comparable
	Subject
	ChildElements() []E
}

// First returns the first element under root, root included, matched by
// any of the matchers. Matchers are tried in order and the first one with
// a hit wins; within one matcher the search is depth-first in document
// order.
func First[E Element[E]](root E, matchers ...*Matcher) (E, bool) {
	for _, m := range matchers {
		if el, ok := first(root, m.Start()); ok {
			return el, true
		}
	}
	var zero E
	return zero, false
}

func first[E Element[E]](node E, st State) (E, bool) {
	if node.TagName() != "" && st.Advance(node) && st.Matched() {
		return node, true
	}
	for _, child := range node.ChildElements() {
		if el, ok := first(child, st); ok {
			return el, true
		}
	}
	var zero E
	return zero, false
}

// All returns every element under root, root included, matched by any of
// the matchers. Each matcher's hits are in document order; hits of later
// matchers that were already found are dropped.
func All[E Element[E]](root E, matchers ...*Matcher) []E {
	var out []E
	seen := make(map[E]struct{})
	for _, m := range matchers {
		for _, el := range all(root, m) {
			if _, dup := seen[el]; dup {
				continue
			}
			seen[el] = struct{}{}
			out = append(out, el)
		}
	}
	return out
}

type visit[E comparable] struct {
	node  E
	level int
}

// walker explores a tree for one matcher. A node that advances the cursor
// is explored twice: its children are searched with the cursor rewound to
// where it was before the node, and, unless the node completed the match,
// with the advanced cursor too. The outcome of exploring a node depends
// only on the cursor level, so each (node, level) pair is visited once.
type walker[E Element[E]] struct {
	found   map[E]struct{}
	visited map[visit[E]]struct{}
}

func all[E Element[E]](root E, m *Matcher) []E {
	w := &walker[E]{
		found:   make(map[E]struct{}),
		visited: make(map[visit[E]]struct{}),
	}
	w.explore(root, m.Start())
	if len(w.found) == 0 {
		return nil
	}
	out := make([]E, 0, len(w.found))
	var collect func(E)
	collect = func(node E) {
		if _, ok := w.found[node]; ok {
			out = append(out, node)
		}
		for _, child := range node.ChildElements() {
			collect(child)
		}
	}
	collect(root)
	return out
}

func (w *walker[E]) explore(node E, st State) {
	key := visit[E]{node: node, level: st.Level()}
	if _, done := w.visited[key]; done {
		return
	}
	w.visited[key] = struct{}{}

	children := node.ChildElements()
	if node.TagName() == "" || !st.Advance(node) {
		for _, child := range children {
			w.explore(child, st)
		}
		return
	}
	rewound := st
	rewound.Rewind()
	for _, child := range children {
		w.explore(child, rewound)
	}
	if st.Matched() {
		w.found[node] = struct{}{}
		return
	}
	for _, child := range children {
		w.explore(child, st)
	}
}

// SplitList splits a selector list on its top-level commas. Commas inside
// brackets or quotes belong to the selector. Branches are trimmed and empty
// branches dropped.
func SplitList(selector string) []string {
	var (
		parts []string
		depth int
		quote byte
		start int
	)
	add := func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	for i := 0; i < len(selector); i++ {
		ch := selector[i]
		switch {
		case quote != 0:
			if ch == quote {
				quote = 0
			}
		case ch == '"' || ch == '\'':
			quote = ch
		case ch == '[':
			depth++
		case ch == ']':
			if depth > 0 {
				depth--
			}
		case ch == ',' && depth == 0:
			add(selector[start:i])
			start = i + 1
		}
	}
	add(selector[start:])
	return parts
}

// CompileList compiles every branch of a comma-separated selector list.
func CompileList(selector string, opts ...Option) ([]*Matcher, error) {
	branches := SplitList(selector)
	matchers := make([]*Matcher, 0, len(branches))
	for _, b := range branches {
		m, err := Compile(b, opts...)
		if err != nil {
			return nil, err
		}
		matchers = append(matchers, m)
	}
	return matchers, nil
}
