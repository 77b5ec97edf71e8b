// Package request models inbound request metadata as an explicit value
// passed by parameter, never as ambient state. It carries header-based
// credential material into the pipeline and backs the header snapshot
// diagnostic endpoint.
package request

import (
	"net/http"
	"strings"
)

// Meta is an immutable snapshot of inbound request metadata. A nil *Meta is
// valid and means "no request context available" (e.g. a direct library
// call outside any transport).
type Meta struct {
	headers map[string]string
}

// NewMeta creates a Meta from a flat header map. Keys are canonicalized so
// lookups behave the same regardless of the caller's casing.
func NewMeta(headers map[string]string) *Meta {
	m := &Meta{headers: make(map[string]string, len(headers))}
	for k, v := range headers {
		m.headers[http.CanonicalHeaderKey(k)] = v
	}
	return m
}

// FromHeader creates a Meta from an http.Header, flattening multi-value
// headers to their first value.
func FromHeader(h http.Header) *Meta {
	m := &Meta{headers: make(map[string]string, len(h))}
	for k, v := range h {
		if len(v) > 0 {
			m.headers[k] = v[0]
		}
	}
	return m
}

// Get returns the value of a header by its canonical name.
func (m *Meta) Get(name string) string {
	if m == nil {
		return ""
	}
	return m.headers[http.CanonicalHeaderKey(name)]
}

// BearerToken extracts a bearer token from the Authorization header.
// Returns "" when the header is absent or not a well-formed bearer value.
func (m *Meta) BearerToken() string {
	auth := m.Get("Authorization")
	if auth == "" {
		return ""
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return ""
	}
	return strings.TrimSpace(auth[len(prefix):])
}

// Snapshot returns every metadata field as key-value pairs, verbatim and
// unfiltered. This is a diagnostic surface: it will echo an Authorization
// header if one is present. A nil Meta yields an empty map.
func (m *Meta) Snapshot() map[string]string {
	if m == nil {
		return map[string]string{}
	}
	out := make(map[string]string, len(m.headers))
	for k, v := range m.headers {
		out[k] = v
	}
	return out
}
