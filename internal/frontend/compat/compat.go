// Package compat implements the legacy query-string frontend: requests of
// the form "?k1=v1&k2=v2&..." are parsed into a single synthetic
// "EmulationOfWebCtlPlugin" method invocation, bridging the query-string
// dialect into the uniform value model.
package compat

import (
	"net/http"
	"strconv"

	"github.com/arung-agamani/aimpctl/internal/frontend"
	"github.com/arung-agamani/aimpctl/internal/value"
)

// SyntheticMethod is the method name every query-string request is routed
// to; the compat method handler bridges from there to the real data model.
const SyntheticMethod = "EmulationOfWebCtlPlugin"

// Frontend is the query-string implementation of frontend.Frontend.
type Frontend struct{}

// New returns a query-string frontend.
func New() *Frontend { return &Frontend{} }

// CanHandle matches any request whose raw URI contains a "?", per §4.2.
func (f *Frontend) CanHandle(r *http.Request) bool {
	return r.URL.RawQuery != "" || r.URL.ForceQuery
}

// Parse coerces each query value to int, then uint, then string, and
// injects the synthetic method name. No request body is consulted.
func (f *Frontend) Parse(r *http.Request) (frontend.ParsedEnvelope, error) {
	params := value.Object()
	for k, vs := range r.URL.Query() {
		if len(vs) == 0 {
			continue
		}
		params.Set(k, coerce(vs[0]))
	}
	return frontend.ParsedEnvelope{
		Method: SyntheticMethod,
		Params: params,
		ID:     value.Null(),
	}, nil
}

func coerce(s string) value.Value {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return value.Int(n)
	}
	if u, err := strconv.ParseUint(s, 10, 64); err == nil {
		return value.Uint(u)
	}
	return value.String(s)
}

// SerializeSuccess emits the bare result as JSON (the legacy dialect has
// no envelope of its own); MIME is application/json per scenario C.
func (f *Frontend) SerializeSuccess(_ value.Value, result value.Value) ([]byte, string, error) {
	b, err := value.ToJSON(result)
	return b, "application/json", err
}

// SerializeFault emits a bare {"error":{"code":...,"message":...}} object.
func (f *Frontend) SerializeFault(_ value.Value, code int, message string) ([]byte, string) {
	root := value.Object()
	errObj := value.Object()
	errObj.Set("code", value.Int(int64(code)))
	errObj.Set("message", value.String(message))
	root.Set("error", errObj)
	b, _ := value.ToJSON(root)
	return b, "application/json"
}
