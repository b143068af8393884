package css

import (
	"strings"

	"go.uber.org/zap"
)

// Matcher is a compiled selector. It is immutable and safe to reuse across
// queries; per-query progress lives in a State.
type Matcher struct {
	selector string
	segments []Segment
	log      *zap.Logger
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithLogger traces segment advances at debug level.
func WithLogger(log *zap.Logger) Option {
	return func(m *Matcher) {
		if log != nil {
			m.log = log
		}
	}
}

// Compile compiles a single selector (no top-level commas). An empty
// selector compiles to a Matcher that matches nothing.
func Compile(selector string, opts ...Option) (*Matcher, error) {
	segments, err := parseSegments(selector)
	if err != nil {
		return nil, err
	}
	m := &Matcher{selector: strings.TrimSpace(selector), segments: segments, log: zap.NewNop()}
	for _, opt := range opts {
		opt(m)
	}
	m.log = m.log.Named("selector")
	return m, nil
}

// MustCompile is like Compile but panics if the selector cannot be compiled.
func MustCompile(selector string, opts ...Option) *Matcher {
	m, err := Compile(selector, opts...)
	if err != nil {
		panic(err)
	}
	return m
}

// Segments returns the compiled segments in selector order.
func (m *Matcher) Segments() []Segment {
	return m.segments
}

// String returns the source selector.
func (m *Matcher) String() string {
	return m.selector
}

// Start returns a cursor positioned before the first segment.
func (m *Matcher) Start() State {
	return State{m: m}
}

// State is a cursor into a Matcher's segments. It is a value: copying a
// State clones the cursor, so sibling branches of a traversal never see
// each other's progress.
type State struct {
	m    *Matcher
	next int
}

// Advance tests el against the next unmatched segment. On success the
// cursor moves forward and Advance returns true; otherwise the state is
// unchanged.
func (s *State) Advance(el Subject) bool {
	if s.next >= len(s.m.segments) || !s.m.segments[s.next].Match(el) {
		return false
	}
	s.next++
	if ce := s.m.log.Check(zap.DebugLevel, "advanced"); ce != nil {
		ce.Write(zap.String("tag", el.TagName()), zap.Int("level", s.next), zap.Bool("matched", s.Matched()))
	}
	return true
}

// Rewind moves the cursor back one segment.
func (s *State) Rewind() {
	if s.next > 0 {
		s.next--
	}
}

// Matched reports whether every segment has been consumed.
func (s State) Matched() bool {
	return s.next == len(s.m.segments)
}

// Reset moves the cursor back to the first segment.
func (s *State) Reset() {
	s.next = 0
}

// Level returns the number of segments consumed so far.
func (s State) Level() int {
	return s.next
}
