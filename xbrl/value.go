package xbrl

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// ValueKind is the JSON type a [Value] was decoded from.
type ValueKind int

const (
	NullValue ValueKind = iota
	NumberValue
	TextValue
	BoolValue
)

// Value is a loosely typed fact value. Most facts are numeric, but a
// handful of dei and srt concepts carry strings or booleans, so the
// accessors report whether the requested form is available instead of
// failing.
type Value struct {
	kind ValueKind
	num  json.Number
	text string
	b    bool
}

func NumberOf(f float64) Value {
	return Value{kind: NumberValue, num: json.Number(fmt.Sprint(f))}
}

func TextOf(s string) Value {
	return Value{kind: TextValue, text: s}
}

func BoolOf(b bool) Value {
	return Value{kind: BoolValue, b: b}
}

func (v Value) Kind() ValueKind { return v.kind }

func (v Value) IsNull() bool { return v.kind == NullValue }

// Number returns the value as a float64 when it was a JSON number.
func (v Value) Number() (float64, bool) {
	if v.kind != NumberValue {
		return 0, false
	}
	f, err := v.num.Float64()
	if err != nil {
		return 0, false
	}
	return f, true
}

// Int returns the value as an int64 when it was an integral JSON number.
func (v Value) Int() (int64, bool) {
	if v.kind != NumberValue {
		return 0, false
	}
	if i, err := v.num.Int64(); err == nil {
		return i, true
	}
	f, err := v.num.Float64()
	if err != nil || f != math.Trunc(f) || f > math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return int64(f), true
}

// Text returns the value when it was a JSON string.
func (v Value) Text() (string, bool) {
	if v.kind != TextValue {
		return "", false
	}
	return v.text, true
}

// Bool returns the value when it was a JSON boolean.
func (v Value) Bool() (bool, bool) {
	if v.kind != BoolValue {
		return false, false
	}
	return v.b, true
}

func (v Value) String() string {
	switch v.kind {
	case NumberValue:
		return v.num.String()
	case TextValue:
		return v.text
	case BoolValue:
		return fmt.Sprint(v.b)
	default:
		return "null"
	}
}

func (v *Value) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)

	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*v = Value{}
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = Value{kind: TextValue, text: s}
	case bytes.Equal(b, []byte("true")), bytes.Equal(b, []byte("false")):
		*v = Value{kind: BoolValue, b: b[0] == 't'}
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return fmt.Errorf("decoding fact value %s: %w", b, err)
		}
		*v = Value{kind: NumberValue, num: n}
	}

	return nil
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case NumberValue:
		return []byte(v.num), nil
	case TextValue:
		return json.Marshal(v.text)
	case BoolValue:
		return json.Marshal(v.b)
	default:
		return []byte("null"), nil
	}
}
