package api

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/charliek/errboard/internal/domain"
	"github.com/charliek/errboard/internal/metrics"
	"github.com/charliek/errboard/internal/snapshot"
	"github.com/charliek/errboard/internal/widget"
)

func testutilValue(c *metrics.PrometheusCounter, labels ...string) float64 {
	return testutil.ToFloat64(c.With(labels...))
}

func TestToEventSummary(t *testing.T) {
	ev := domain.StackEvent{Name: "boom", Source: domain.Datadog{}}
	assert.Equal(t, EventSummary{Index: 2, Name: "boom", Source: "datadog"}, ToEventSummary(2, ev))

	assert.Equal(t, "", ToEventSummary(0, domain.StackEvent{}).Source)
}

func TestToUpdateResponse(t *testing.T) {
	at := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	resp := ToUpdateResponse(snapshot.Update{LoadedAt: at, Calls: 3, Events: 1})

	assert.Equal(t, "2026-03-04T05:06:07Z", resp.LoadedAt)
	assert.Equal(t, 3, resp.Calls)
	assert.Equal(t, 1, resp.Events)
}

func TestMatchModeName(t *testing.T) {
	assert.Equal(t, "", matchModeName(nil))
	assert.Equal(t, MatchModeRegex, matchModeName(widget.NewPathMatcher("api", widget.MatchPattern)))
	assert.Equal(t, MatchModeLiteral, matchModeName(widget.NewPathMatcher("(", widget.MatchPattern)))
	assert.Equal(t, MatchModeLiteral, matchModeName(widget.NewPathMatcher("api", widget.MatchSubstring)))
}
