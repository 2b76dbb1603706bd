// Package jsonrpc implements the JSON-RPC 2.0 frontend: request bodies are
// JSON objects {"jsonrpc":"2.0","method":...,"params":...,"id":...}, parsed
// and serialized into/from the dynamic value tree shared by every
// frontend. gorilla/rpc's json2 codec was evaluated and rejected for this
// role — it binds into static Go argument structs per method, but the
// dispatch core needs one dynamic tree shared across three wire formats.
package jsonrpc

import (
	"fmt"
	"io"
	"net/http"

	"github.com/arung-agamani/aimpctl/internal/frontend"
	"github.com/arung-agamani/aimpctl/internal/value"
)

// Frontend is the JSON-RPC 2.0 implementation of frontend.Frontend. It
// matches any POST request — the catch-all "POST <any>" route from §6 —
// and Parse rejects a body that is not a JSON object carrying a "method".
type Frontend struct{}

// New returns a JSON-RPC frontend.
func New() *Frontend { return &Frontend{} }

// CanHandle matches any POST request; body shape is confirmed at Parse
// time. It is expected to be registered last among POST-eligible
// frontends so XML-RPC's stricter URI predicate (/RPC_XML) wins first.
func (f *Frontend) CanHandle(r *http.Request) bool {
	return r.Method == http.MethodPost
}

// Parse decodes a JSON-RPC request body into an envelope.
func (f *Frontend) Parse(r *http.Request) (frontend.ParsedEnvelope, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return frontend.ParsedEnvelope{}, fmt.Errorf("jsonrpc: reading body: %w", err)
	}
	root, err := value.FromJSON(body)
	if err != nil {
		return frontend.ParsedEnvelope{}, fmt.Errorf("jsonrpc: parsing body: %w", err)
	}

	methodVal, ok := root.Get("method")
	if !ok {
		return frontend.ParsedEnvelope{}, fmt.Errorf("jsonrpc: missing method")
	}
	method, err := methodVal.AsString()
	if err != nil {
		return frontend.ParsedEnvelope{}, fmt.Errorf("jsonrpc: method must be a string")
	}

	params, ok := root.Get("params")
	if !ok {
		params = value.Object()
	}

	id, ok := root.Get("id")
	if !ok {
		id = value.Null()
	}

	return frontend.ParsedEnvelope{Method: method, Params: params, ID: id}, nil
}

// SerializeSuccess encodes {"jsonrpc":"2.0","result":...,"id":...}.
func (f *Frontend) SerializeSuccess(id value.Value, result value.Value) ([]byte, string, error) {
	root := value.Object()
	root.Set("jsonrpc", value.String("2.0"))
	root.Set("result", result)
	root.Set("id", id)
	b, err := value.ToJSON(root)
	return b, "application/json", err
}

// SerializeFault encodes {"jsonrpc":"2.0","error":{"code":...,"message":...},"id":...}.
func (f *Frontend) SerializeFault(id value.Value, code int, message string) ([]byte, string) {
	root := value.Object()
	root.Set("jsonrpc", value.String("2.0"))
	errObj := value.Object()
	errObj.Set("code", value.Int(int64(code)))
	errObj.Set("message", value.String(message))
	root.Set("error", errObj)
	root.Set("id", id)
	b, _ := value.ToJSON(root)
	return b, "application/json"
}
