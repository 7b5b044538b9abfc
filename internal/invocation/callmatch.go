package invocation

import "strings"

// CallMatcher matches a resolved callee identifier ("Foo::bar", "strlen")
// against a set of dotted wildcard patterns, the same shape plugin hooks
// use to opt into specific methods ("Illuminate\\Database\\Eloquent\\
// Model::*", "*::save").
type CallMatcher struct {
	patterns []string
}

// NewCallMatcher builds a matcher from a pattern list.
func NewCallMatcher(patterns []string) *CallMatcher {
	return &CallMatcher{patterns: patterns}
}

// Matches reports whether target matches any configured pattern.
func (m *CallMatcher) Matches(target string) bool {
	for _, p := range m.patterns {
		if matchesPattern(target, p) {
			return true
		}
	}
	return false
}

// matchesPattern supports a single trailing or leading "*" wildcard
// segment (e.g. "Foo::*", "*::save"); a pattern with no "*" must match
// target exactly.
func matchesPattern(target, pattern string) bool {
	if pattern == target {
		return true
	}
	if strings.HasSuffix(pattern, "*") {
		prefix := strings.TrimSuffix(pattern, "*")
		return strings.HasPrefix(target, prefix)
	}
	if strings.HasPrefix(pattern, "*") {
		suffix := strings.TrimPrefix(pattern, "*")
		return strings.HasSuffix(target, suffix)
	}
	return false
}
