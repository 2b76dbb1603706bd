// Package frontend defines the Frontend interface and an ordered registry
// of frontends, selected per request by URI predicate.
package frontend

import (
	"net/http"

	"github.com/arung-agamani/aimpctl/internal/value"
)

// ParsedEnvelope is the result of parsing a request body: method, params,
// and an id that each frontend's Parse sets to null when absent (§4.2).
type ParsedEnvelope struct {
	Method string
	Params value.Value
	ID     value.Value
}

// Frontend bundles a URI predicate with a parser and a serializer — the
// on-the-wire dialect for one class of request.
type Frontend interface {
	// CanHandle reports whether this frontend should parse r.
	CanHandle(r *http.Request) bool
	// Parse decodes the request body (and, for compat, the query string)
	// into an envelope.
	Parse(r *http.Request) (ParsedEnvelope, error)
	// SerializeSuccess encodes a successful result, echoing id from the
	// original envelope.
	SerializeSuccess(id value.Value, result value.Value) ([]byte, string, error)
	// SerializeFault encodes an error response, echoing id from the
	// original envelope.
	SerializeFault(id value.Value, code int, message string) ([]byte, string)
}

// Registry is an ordered list of Frontends; the first whose CanHandle
// matches wins (registration order, per §4.2).
type Registry struct {
	frontends []Frontend
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry { return &Registry{} }

// Add appends a frontend to the selection order.
func (r *Registry) Add(f Frontend) { r.frontends = append(r.frontends, f) }

// Select returns the first frontend whose CanHandle matches r, or nil.
func (r *Registry) Select(req *http.Request) Frontend {
	for _, f := range r.frontends {
		if f.CanHandle(req) {
			return f
		}
	}
	return nil
}
