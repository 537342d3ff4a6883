package scanner

import "path"

// DefaultIgnore are skipped by content scanning and asset copying.
var DefaultIgnore = []string{".*", "_*"}

// Matcher tests base names against shell glob patterns.
type Matcher struct {
	patterns []string
}

// NewMatcher returns a Matcher over the given patterns.
func NewMatcher(patterns ...[]string) *Matcher {
	m := &Matcher{}
	for _, ps := range patterns {
		m.patterns = append(m.patterns, ps...)
	}
	return m
}

// Match reports whether name matches any pattern. Malformed patterns never
// match.
func (m *Matcher) Match(name string) bool {
	for _, p := range m.patterns {
		if ok, err := path.Match(p, name); err == nil && ok {
			return true
		}
	}
	return false
}
