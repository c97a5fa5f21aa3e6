package widget

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPathMatcher_EmptyMatchesAll(t *testing.T) {
	m := NewPathMatcher("", MatchPattern)

	assert.True(t, m.Match("/api/users"))
	assert.True(t, m.Match(""))
}

func TestPathMatcher_CaseInsensitive(t *testing.T) {
	m := NewPathMatcher("API", MatchPattern)

	assert.True(t, m.Match("/api/users"))
	assert.True(t, m.Match("app.io/Api/orders"))
	assert.False(t, m.Match("/health"))
}

func TestPathMatcher_Pattern(t *testing.T) {
	m := NewPathMatcher("users|orders", MatchPattern)
	assert.False(t, m.Literal())

	assert.True(t, m.Match("/api/users"))
	assert.True(t, m.Match("/api/orders"))
	assert.False(t, m.Match("/api/carts"))

	anchored := NewPathMatcher("^/api", MatchPattern)
	assert.True(t, anchored.Match("/api/users"))
	assert.False(t, anchored.Match("cdn.io/api/users"))
}

func TestPathMatcher_InvalidPatternFallsBackToLiteral(t *testing.T) {
	m := NewPathMatcher("users(", MatchPattern)
	assert.True(t, m.Literal())

	assert.True(t, m.Match("/api/USERS(1)"))
	assert.False(t, m.Match("/api/users"))
}

func TestPathMatcher_SubstringMode(t *testing.T) {
	m := NewPathMatcher("a.c", MatchSubstring)
	assert.True(t, m.Literal())

	assert.True(t, m.Match("/static/a.css"))
	assert.False(t, m.Match("/abc"), "dot must not act as a wildcard")
}

func TestPathMatcher_LongTextIsLiteral(t *testing.T) {
	text := strings.Repeat("a", MaxPatternLength+1)
	m := NewPathMatcher(text, MatchPattern)

	assert.True(t, m.Literal())
	assert.True(t, m.Match("/"+text))
}

func TestParseMatchMode(t *testing.T) {
	assert.Equal(t, MatchSubstring, ParseMatchMode("substring"))
	assert.Equal(t, MatchSubstring, ParseMatchMode("SUBSTRING"))
	assert.Equal(t, MatchPattern, ParseMatchMode("pattern"))
	assert.Equal(t, MatchPattern, ParseMatchMode(""))
	assert.Equal(t, "substring", MatchSubstring.String())
	assert.Equal(t, "pattern", MatchPattern.String())
}
