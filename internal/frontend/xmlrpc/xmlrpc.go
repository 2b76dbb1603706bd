// Package xmlrpc implements a subset of XML-RPC: enough of
// <methodCall>/<methodResponse> to carry the dynamic value tree the other
// frontends share. No XML-RPC library exists anywhere in the reference
// corpus, so this is hand-rolled over the standard library's encoding/xml
// — the one place in the RPC stack that falls back to the standard
// library rather than a third-party dependency.
package xmlrpc

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/arung-agamani/aimpctl/internal/frontend"
	"github.com/arung-agamani/aimpctl/internal/value"
)

// Frontend is the XML-RPC implementation of frontend.Frontend.
type Frontend struct{}

// New returns an XML-RPC frontend.
func New() *Frontend { return &Frontend{} }

// CanHandle matches POST /RPC_XML, per §6.
func (f *Frontend) CanHandle(r *http.Request) bool {
	return r.Method == http.MethodPost && r.URL.Path == "/RPC_XML"
}

// --- wire structs for decoding <methodCall> ---

type xmlMethodCall struct {
	XMLName    xml.Name   `xml:"methodCall"`
	MethodName string     `xml:"methodName"`
	Params     xmlParams  `xml:"params"`
}

type xmlParams struct {
	Param []xmlParam `xml:"param"`
}

type xmlParam struct {
	Value xmlValue `xml:"value"`
}

// xmlValue models the <value> element generously: any of its children may
// be present, or none (bare string content, per §4.2's "<value> may be
// omitted around <string> content").
type xmlValue struct {
	Chardata    string       `xml:",chardata"`
	String      *string      `xml:"string"`
	Int         *string      `xml:"int"`
	I4          *string      `xml:"i4"`
	Boolean     *string      `xml:"boolean"`
	Double      *string      `xml:"double"`
	Nil         *struct{}    `xml:"nil"`
	DateTime    *string      `xml:"dateTime.iso8601"`
	Base64      *string      `xml:"base64"`
	Array       *xmlArray    `xml:"array"`
	Struct      *xmlStruct   `xml:"struct"`
}

type xmlArray struct {
	Data struct {
		Value []xmlValue `xml:"value"`
	} `xml:"data"`
}

type xmlStruct struct {
	Member []xmlMember `xml:"member"`
}

type xmlMember struct {
	Name  string   `xml:"name"`
	Value xmlValue `xml:"value"`
}

func (v xmlValue) toValue() (value.Value, error) {
	switch {
	case v.Nil != nil:
		return value.Null(), nil
	case v.String != nil:
		return value.String(*v.String), nil
	case v.Int != nil:
		n, err := strconv.ParseInt(strings.TrimSpace(*v.Int), 10, 64)
		if err != nil {
			return value.Value{}, fmt.Errorf("xmlrpc: bad <int>: %w", err)
		}
		return value.Int(n), nil
	case v.I4 != nil:
		n, err := strconv.ParseInt(strings.TrimSpace(*v.I4), 10, 64)
		if err != nil {
			return value.Value{}, fmt.Errorf("xmlrpc: bad <i4>: %w", err)
		}
		return value.Int(n), nil
	case v.Boolean != nil:
		return value.Bool(strings.TrimSpace(*v.Boolean) == "1"), nil
	case v.Double != nil:
		d, err := strconv.ParseFloat(strings.TrimSpace(*v.Double), 64)
		if err != nil {
			return value.Value{}, fmt.Errorf("xmlrpc: bad <double>: %w", err)
		}
		return value.Double(d), nil
	case v.DateTime != nil:
		// Accepted on input, not produced: the uniform value model has no
		// date variant, so it round-trips as its literal string form.
		return value.String(*v.DateTime), nil
	case v.Base64 != nil:
		return value.String(*v.Base64), nil
	case v.Array != nil:
		items := make([]value.Value, len(v.Array.Data.Value))
		for i, e := range v.Array.Data.Value {
			ev, err := e.toValue()
			if err != nil {
				return value.Value{}, err
			}
			items[i] = ev
		}
		return value.Array(items...), nil
	case v.Struct != nil:
		o := value.Object()
		for _, m := range v.Struct.Member {
			mv, err := m.Value.toValue()
			if err != nil {
				return value.Value{}, err
			}
			o.Set(m.Name, mv)
		}
		return o, nil
	default:
		// Bare string content with no child element.
		return value.String(v.Chardata), nil
	}
}

// Parse decodes an XML-RPC methodCall body into an envelope. A call with
// exactly one param uses that param's value as the params (a single struct
// argument, matching how the legacy client encodes calls); any other count
// is assembled positionally into an array Value (XML-RPC has no named
// params).
func (f *Frontend) Parse(r *http.Request) (frontend.ParsedEnvelope, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return frontend.ParsedEnvelope{}, fmt.Errorf("xmlrpc: reading body: %w", err)
	}

	var call xmlMethodCall
	if err := xml.Unmarshal(body, &call); err != nil {
		return frontend.ParsedEnvelope{}, fmt.Errorf("xmlrpc: parsing body: %w", err)
	}

	var params value.Value
	if len(call.Params.Param) == 1 {
		p, err := call.Params.Param[0].Value.toValue()
		if err != nil {
			return frontend.ParsedEnvelope{}, err
		}
		params = p
	} else {
		items := make([]value.Value, len(call.Params.Param))
		for i, p := range call.Params.Param {
			pv, err := p.Value.toValue()
			if err != nil {
				return frontend.ParsedEnvelope{}, err
			}
			items[i] = pv
		}
		params = value.Array(items...)
	}

	return frontend.ParsedEnvelope{
		Method: call.MethodName,
		Params: params,
		ID:     value.Null(), // XML-RPC has no envelope id to echo
	}, nil
}

// SerializeSuccess emits <methodResponse><params><param><value>...
func (f *Frontend) SerializeSuccess(_ value.Value, result value.Value) ([]byte, string, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	buf.WriteString("<methodResponse><params><param>")
	if err := writeValue(&buf, result); err != nil {
		return nil, "", err
	}
	buf.WriteString("</param></params></methodResponse>")
	return buf.Bytes(), "text/xml", nil
}

// SerializeFault emits <methodResponse><fault><value> carrying a struct
// {faultCode, faultString}.
func (f *Frontend) SerializeFault(_ value.Value, code int, message string) ([]byte, string) {
	fault := value.Object()
	fault.Set("faultCode", value.Int(int64(code)))
	fault.Set("faultString", value.String(message))

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	buf.WriteString("<methodResponse><fault>")
	_ = writeValue(&buf, fault)
	buf.WriteString("</fault></methodResponse>")
	return buf.Bytes(), "text/xml"
}

func writeValue(buf *bytes.Buffer, v value.Value) error {
	buf.WriteString("<value>")
	switch v.Kind() {
	case value.KindNone, value.KindNull:
		buf.WriteString("<nil/>")
	case value.KindBool:
		b, _ := v.AsBool()
		if b {
			buf.WriteString("<boolean>1</boolean>")
		} else {
			buf.WriteString("<boolean>0</boolean>")
		}
	case value.KindInt, value.KindUint:
		n, err := v.AsInt32Narrow()
		if err != nil {
			return err
		}
		fmt.Fprintf(buf, "<int>%d</int>", n)
	case value.KindDouble:
		d, _ := v.AsDouble()
		fmt.Fprintf(buf, "<double>%g</double>", d)
	case value.KindString:
		s, _ := v.AsString()
		buf.WriteString("<string>")
		xml.EscapeText(buf, []byte(s))
		buf.WriteString("</string>")
	case value.KindArray:
		buf.WriteString("<array><data>")
		for _, e := range v.Items() {
			if err := writeValue(buf, e); err != nil {
				return err
			}
		}
		buf.WriteString("</data></array>")
	case value.KindObject:
		buf.WriteString("<struct>")
		for _, m := range v.Members() {
			buf.WriteString("<member><name>")
			xml.EscapeText(buf, []byte(m.Key))
			buf.WriteString("</name>")
			if err := writeValue(buf, m.Val); err != nil {
				return err
			}
			buf.WriteString("</member>")
		}
		buf.WriteString("</struct>")
	}
	buf.WriteString("</value>")
	return nil
}
