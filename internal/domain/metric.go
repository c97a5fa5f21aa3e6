package domain

import (
	"strconv"
	"strings"
)

// HTTPMethod is the verb of an aggregated endpoint.
type HTTPMethod string

const (
	MethodGet     HTTPMethod = "GET"
	MethodPost    HTTPMethod = "POST"
	MethodPut     HTTPMethod = "PUT"
	MethodPatch   HTTPMethod = "PATCH"
	MethodDelete  HTTPMethod = "DELETE"
	MethodHead    HTTPMethod = "HEAD"
	MethodOptions HTTPMethod = "OPTIONS"
)

// Normalize returns the upper-cased verb with surrounding space removed.
func (m HTTPMethod) Normalize() HTTPMethod {
	return HTTPMethod(strings.ToUpper(strings.TrimSpace(string(m))))
}

// Known reports whether the verb is one of the standard HTTP methods.
func (m HTTPMethod) Known() bool {
	switch m.Normalize() {
	case MethodGet, MethodPost, MethodPut, MethodPatch, MethodDelete, MethodHead, MethodOptions:
		return true
	}
	return false
}

// MetricRecord is one row of aggregated HTTP call statistics for an endpoint.
//
// Every field is optional. Counts are pointers so a missing count can be told
// apart from a zero count and displayed as a blank cell.
type MetricRecord struct {
	Method      HTTPMethod `json:"method,omitempty"`
	URLHostpath string     `json:"urlHostpath,omitempty"`
	AllRequests *int64     `json:"allRequests,omitempty"`
	Count4xx    *int64     `json:"4xx,omitempty"`
	Count5xx    *int64     `json:"5xx,omitempty"`
}

// MetricSet is an ordered sequence of records as delivered by the dashboard.
type MetricSet []MetricRecord

// Count returns a pointer to v, for building records by hand.
func Count(v int64) *int64 { return &v }

// FormatCount renders a count for display; a missing count renders as "".
func FormatCount(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}
