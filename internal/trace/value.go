package trace

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Kind identifies the scalar type carried by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
)

// Value is a tagged scalar: string, number, boolean or null.
// Step output and attribute entries are always scalars; nested
// structures in the input are rejected by the parser.
type Value struct {
	kind Kind
	str  string
	num  float64
	b    bool
}

func NullValue() Value            { return Value{kind: KindNull} }
func StringValue(s string) Value  { return Value{kind: KindString, str: s} }
func NumberValue(f float64) Value { return Value{kind: KindNumber, num: f} }
func BoolValue(v bool) Value      { return Value{kind: KindBool, b: v} }

func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

// Str returns the string payload. Zero value for non-string kinds.
func (v Value) Str() string { return v.str }

func (v Value) Float() float64 { return v.num }
func (v Value) Bool() bool     { return v.b }

func (v Value) Equal(o Value) bool { return v == o }

// String renders the value the way it would appear in JSON, minus
// string quoting. Used for log lines and replay substitution.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return formatNumber(v.num)
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return "null"
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return marshalString(v.str)
	case KindNumber:
		return []byte(formatNumber(v.num)), nil
	case KindBool:
		return []byte(strconv.FormatBool(v.b)), nil
	default:
		return []byte("null"), nil
	}
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	dec := newNumberDecoder(data)
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	val, err := valueFromAny(raw)
	if err != nil {
		return err
	}
	*v = val
	return nil
}

// marshalString quotes without HTML escaping. json.Marshal writes
// the angle brackets of placeholder tokens as \u003c escapes, and
// bytes returned from a custom MarshalJSON bypass whatever
// SetEscapeHTML the outer encoder was given.
func marshalString(s string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Integers survive the float64 round-trip untouched, so whole
// numbers are written without a fractional part.
func formatNumber(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func valueFromAny(raw any) (Value, error) {
	switch x := raw.(type) {
	case nil:
		return NullValue(), nil
	case string:
		return StringValue(x), nil
	case bool:
		return BoolValue(x), nil
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("invalid number %q: %v", x.String(), err)
		}
		return NumberValue(f), nil
	case float64:
		return NumberValue(x), nil
	default:
		return Value{}, fmt.Errorf("unsupported value type %T", raw)
	}
}
