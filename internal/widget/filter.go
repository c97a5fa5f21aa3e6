package widget

import (
	"regexp"
	"strings"

	"github.com/charliek/errboard/internal/constants"
)

// MaxPatternLength is the longest filter text compiled as a pattern. Longer
// text is always matched literally.
const MaxPatternLength = 256

// MatchMode selects how filter text is interpreted.
type MatchMode int

const (
	// MatchPattern compiles the text as a case-insensitive regular expression,
	// falling back to a literal match when it does not compile.
	MatchPattern MatchMode = iota
	// MatchSubstring always treats the text as a literal substring.
	MatchSubstring
)

// ParseMatchMode maps a config value to a MatchMode. Unknown values mean
// MatchPattern.
func ParseMatchMode(s string) MatchMode {
	if strings.EqualFold(s, constants.FilterModeSubstring) {
		return MatchSubstring
	}
	return MatchPattern
}

// String returns the config name of the mode.
func (m MatchMode) String() string {
	if m == MatchSubstring {
		return constants.FilterModeSubstring
	}
	return constants.FilterModePattern
}

// PathMatcher tests host-paths against the text typed into the filter box.
// A PathMatcher is immutable and safe to share.
type PathMatcher struct {
	text  string
	lower string
	regex *regexp.Regexp
}

// NewPathMatcher builds a matcher for text. It never fails: text that is not
// a valid pattern degrades to a literal, case-insensitive substring match.
func NewPathMatcher(text string, mode MatchMode) *PathMatcher {
	m := &PathMatcher{text: text, lower: strings.ToLower(text)}

	if text == "" || mode == MatchSubstring || len(text) > MaxPatternLength {
		return m
	}

	if re, err := regexp.Compile("(?i)" + text); err == nil {
		m.regex = re
	}
	return m
}

// Text returns the raw filter text.
func (m *PathMatcher) Text() string {
	return m.text
}

// Literal reports whether the matcher compares substrings rather than a
// compiled pattern.
func (m *PathMatcher) Literal() bool {
	return m.regex == nil
}

// Match reports whether path passes the filter. Empty filter text matches
// everything.
func (m *PathMatcher) Match(path string) bool {
	if m.text == "" {
		return true
	}
	if m.regex != nil {
		return m.regex.MatchString(path)
	}
	return strings.Contains(strings.ToLower(path), m.lower)
}
