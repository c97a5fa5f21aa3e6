package metrics

import "github.com/prometheus/client_golang/prometheus"

type Counter interface {
	Inc(labels ...string)
}

type Counters struct {
	APIRequests Counter

	FilterQueries Counter

	EventViews Counter
}

type PrometheusCounter struct {
	counter *prometheus.CounterVec
}

type counterSpec struct {
	name   string
	help   string
	labels []string
}

var (
	apiRequestsSpec = counterSpec{
		name:   "errboard_api_requests_total",
		help:   "Number of API requests by route and status",
		labels: []string{"route", "status"},
	}
	filterQueriesSpec = counterSpec{
		name:   "errboard_filter_queries_total",
		help:   "Number of calls table queries by filter mode",
		labels: []string{"mode"},
	}
	eventViewsSpec = counterSpec{
		name:   "errboard_event_views_total",
		help:   "Number of stack event views by viewer",
		labels: []string{"viewer"},
	}
)

func newCounter(spec counterSpec) *PrometheusCounter {
	return &PrometheusCounter{
		counter: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: spec.name,
			Help: spec.help,
		}, spec.labels),
	}
}

func NewPrometheusCounter(name, help string, labels []string) *PrometheusCounter {
	c := newCounter(counterSpec{name: name, help: help, labels: labels})
	prometheus.MustRegister(c.counter)
	return c
}

func (p *PrometheusCounter) Inc(labels ...string) {
	p.counter.WithLabelValues(labels...).Inc()
}

// With returns the counter for one label combination.
func (p *PrometheusCounter) With(labels ...string) prometheus.Counter {
	return p.counter.WithLabelValues(labels...)
}

// Collector exposes the underlying vector, e.g. for testutil.
func (p *PrometheusCounter) Collector() prometheus.Collector {
	return p.counter
}

// New registers the counters with the default registry. Call it once per
// process.
func New() *Counters {
	return &Counters{
		APIRequests:   NewPrometheusCounter(apiRequestsSpec.name, apiRequestsSpec.help, apiRequestsSpec.labels),
		FilterQueries: NewPrometheusCounter(filterQueriesSpec.name, filterQueriesSpec.help, filterQueriesSpec.labels),
		EventViews:    NewPrometheusCounter(eventViewsSpec.name, eventViewsSpec.help, eventViewsSpec.labels),
	}
}

// NewTestCounters registers the counters with a private registry, so tests
// can create as many sets as they like.
func NewTestCounters() *Counters {
	reg := prometheus.NewRegistry()

	apiRequests := newCounter(apiRequestsSpec)
	filterQueries := newCounter(filterQueriesSpec)
	eventViews := newCounter(eventViewsSpec)

	reg.MustRegister(apiRequests.counter)
	reg.MustRegister(filterQueries.counter)
	reg.MustRegister(eventViews.counter)

	return &Counters{
		APIRequests:   apiRequests,
		FilterQueries: filterQueries,
		EventViews:    eventViews,
	}
}
