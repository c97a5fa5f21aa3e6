package domain

// Vendor tags as they appear in captured events.
const (
	TagSentry      = "sentry"
	TagDatadog     = "datadog"
	TagStackdriver = "stackdriver"
)

// Source identifies the monitoring vendor a stack event came from.
//
// The set of implementations is closed: Sentry, Datadog, Stackdriver and
// Other. Code that needs to branch on the vendor goes through MatchSource.
type Source interface {
	// Tag returns the wire tag of the vendor.
	Tag() string
	isSource()
}

// Sentry is the Sentry error tracker.
type Sentry struct{}

// Datadog is the Datadog log/APM vendor.
type Datadog struct{}

// Stackdriver is Google Cloud's Stackdriver logging.
type Stackdriver struct{}

// Other is any vendor without a dedicated viewer.
type Other struct {
	Name string
}

func (Sentry) Tag() string      { return TagSentry }
func (Datadog) Tag() string     { return TagDatadog }
func (Stackdriver) Tag() string { return TagStackdriver }
func (o Other) Tag() string     { return o.Name }

func (Sentry) isSource()      {}
func (Datadog) isSource()     {}
func (Stackdriver) isSource() {}
func (Other) isSource()       {}

// ParseSource maps a wire tag to its variant. It never fails: tags without a
// dedicated variant become Other carrying the tag unchanged.
func ParseSource(tag string) Source {
	switch tag {
	case TagSentry:
		return Sentry{}
	case TagDatadog:
		return Datadog{}
	case TagStackdriver:
		return Stackdriver{}
	default:
		return Other{Name: tag}
	}
}

// SourceCases has one method per Source variant. Adding a variant adds a
// method here, so every implementation stops compiling until it handles it.
type SourceCases[T any] interface {
	Sentry() T
	Datadog() T
	Stackdriver() T
	Other(tag string) T
}

// MatchSource resolves s to exactly one case. A nil Source is an Other with
// an empty tag.
func MatchSource[T any](s Source, cases SourceCases[T]) T {
	switch v := s.(type) {
	case Sentry:
		return cases.Sentry()
	case Datadog:
		return cases.Datadog()
	case Stackdriver:
		return cases.Stackdriver()
	case Other:
		return cases.Other(v.Name)
	default:
		return cases.Other("")
	}
}
