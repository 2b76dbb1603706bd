package value

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// FromJSON decodes a single JSON value into a Value tree. Integers that fit
// in an int64 are kept as KindInt; values too large for int64 but fitting
// uint64 are kept as KindUint; everything else numeric becomes KindDouble.
func FromJSON(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return Value{}, err
	}
	return fromAny(raw), nil
}

func fromAny(raw any) Value {
	switch t := raw.(type) {
	case nil:
		return Null()
	case bool:
		return Bool(t)
	case string:
		return String(t)
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return Int(i)
		}
		if u, err := strconv.ParseUint(t.String(), 10, 64); err == nil {
			return Uint(u)
		}
		if d, err := t.Float64(); err == nil {
			return Double(d)
		}
		return String(t.String())
	case []any:
		items := make([]Value, len(t))
		for i, e := range t {
			items[i] = fromAny(e)
		}
		return Value{kind: KindArray, a: items}
	case map[string]any:
		o := Object()
		for k, e := range t {
			_ = o.Set(k, fromAny(e))
		}
		return o
	default:
		return Null()
	}
}

// ToJSON encodes a Value tree to JSON bytes.
func ToJSON(v Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeJSON(buf *bytes.Buffer, v Value) error {
	switch v.kind {
	case KindNone, KindNull:
		buf.WriteString("null")
	case KindBool:
		if v.b {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case KindInt:
		fmt.Fprintf(buf, "%d", v.i)
	case KindUint:
		fmt.Fprintf(buf, "%d", v.u)
	case KindDouble:
		fmt.Fprintf(buf, "%g", v.d)
	case KindString:
		enc, err := json.Marshal(v.s)
		if err != nil {
			return err
		}
		buf.Write(enc)
	case KindArray:
		buf.WriteByte('[')
		for i, e := range v.a {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(buf, e); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindObject:
		buf.WriteByte('{')
		for i, m := range v.o {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(m.Key)
			if err != nil {
				return err
			}
			buf.Write(key)
			buf.WriteByte(':')
			if err := writeJSON(buf, m.Val); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	}
	return nil
}
