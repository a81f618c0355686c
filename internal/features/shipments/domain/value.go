package domain

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Kind enumerates the shapes a shipment field can take.
type Kind int

const (
	// KindNull is an explicit JSON null.
	KindNull Kind = iota
	// KindString is a JSON string.
	KindString
	// KindNumber is a JSON number.
	KindNumber
	// KindBool is a JSON boolean.
	KindBool
	// KindObject is a nested object or array, kept as an opaque blob.
	KindObject
)

// Value is one field of a shipment record.
type Value struct {
	kind Kind
	str  string
	num  float64
	b    bool
	raw  json.RawMessage
}

// Null returns the null value.
func Null() Value { return Value{kind: KindNull} }

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Number returns a numeric value.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Object returns an opaque nested value from raw JSON.
func Object(raw json.RawMessage) Value {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return Value{kind: KindObject, raw: append(json.RawMessage(nil), raw...)}
	}
	return Value{kind: KindObject, raw: buf.Bytes()}
}

// Kind reports the value's shape.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Str returns the string payload and whether v is a string.
func (v Value) Str() (string, bool) { return v.str, v.kind == KindString }

// Float returns the numeric payload and whether v is a number.
func (v Value) Float() (float64, bool) { return v.num, v.kind == KindNumber }

// Raw returns the compact JSON of an object value.
func (v Value) Raw() json.RawMessage { return v.raw }

// Text is the plain string conversion of v: strings as-is, numbers in
// shortest form, booleans as true/false, objects as compact JSON and null
// as "null".
func (v Value) Text() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return numberText(v.num)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindObject:
		return string(v.raw)
	default:
		return "null"
	}
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.str)
	case KindNumber:
		return json.Marshal(v.num)
	case KindBool:
		return json.Marshal(v.b)
	case KindObject:
		return v.raw, nil
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		*v = Null()
		return nil
	}

	switch data[0] {
	case 'n':
		*v = Null()
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = String(s)
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*v = Bool(b)
	case '{', '[':
		*v = Object(data)
	default:
		var f float64
		if err := json.Unmarshal(data, &f); err != nil {
			return err
		}
		*v = Number(f)
	}
	return nil
}

// Record is one shipment: an open mapping from field name to value.
type Record map[string]Value

// Get returns the field and whether it is present.
func (r Record) Get(key string) (Value, bool) {
	v, ok := r[key]
	return v, ok
}

// numberText writes n the way a JavaScript string conversion does: plain
// digits for magnitudes in [1e-6, 1e21), exponent form outside it.
func numberText(n float64) string {
	abs := math.Abs(n)
	if abs == 0 || (abs >= 1e-6 && abs < 1e21) || math.IsNaN(n) || math.IsInf(n, 0) {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	s := strconv.FormatFloat(n, 'e', -1, 64)
	mantissa, exp, _ := strings.Cut(s, "e")
	sign, digits := exp[:1], strings.TrimLeft(exp[1:], "0")
	return mantissa + "e" + sign + digits
}
