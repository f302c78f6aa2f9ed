package settings

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind identifies the type held by a Value.
type Kind string

// Value kinds.
const (
	KindString Kind = "string"
	KindNumber Kind = "number"
	KindBool   Kind = "bool"
	KindJSON   Kind = "json"
)

// Value is a typed setting value. The zero Value is an empty string.
type Value struct {
	kind Kind
	str  string
	num  float64
	b    bool
	raw  json.RawMessage
}

// String returns a string Value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Number returns a numeric Value.
func Number(n float64) Value { return Value{kind: KindNumber, num: n} }

// Bool returns a boolean Value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// JSON returns a Value holding an arbitrary JSON document.
func JSON(raw json.RawMessage) (Value, error) {
	if !json.Valid(raw) {
		return Value{}, fmt.Errorf("invalid JSON value")
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return Value{}, err
	}
	return Value{kind: KindJSON, raw: buf.Bytes()}, nil
}

// Kind returns the kind of v.
func (v Value) Kind() Kind {
	if v.kind == "" {
		return KindString
	}
	return v.kind
}

// AsString returns the string held by v.
func (v Value) AsString() (string, bool) {
	return v.str, v.Kind() == KindString
}

// AsNumber returns the number held by v.
func (v Value) AsNumber() (float64, bool) {
	return v.num, v.kind == KindNumber
}

// AsBool returns the boolean held by v.
func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == KindBool
}

// AsJSON returns the JSON document held by v.
func (v Value) AsJSON() (json.RawMessage, bool) {
	if v.kind != KindJSON {
		return nil, false
	}
	return append(json.RawMessage(nil), v.raw...), true
}

// Equal reports whether v and other hold the same kind and value.
func (v Value) Equal(other Value) bool {
	if v.Kind() != other.Kind() {
		return false
	}
	switch v.Kind() {
	case KindNumber:
		return v.num == other.num
	case KindBool:
		return v.b == other.b
	case KindJSON:
		return bytes.Equal(v.raw, other.raw)
	default:
		return v.str == other.str
	}
}

// String formats v for display.
func (v Value) String() string {
	switch v.Kind() {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindJSON:
		return string(v.raw)
	default:
		return v.str
	}
}

type encodedValue struct {
	Kind  Kind            `json:"kind"`
	Value json.RawMessage `json:"value"`
}

// MarshalJSON encodes v as {"kind": ..., "value": ...}.
func (v Value) MarshalJSON() ([]byte, error) {
	var payload any
	switch v.Kind() {
	case KindNumber:
		payload = v.num
	case KindBool:
		payload = v.b
	case KindJSON:
		payload = v.raw
	default:
		payload = v.str
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(encodedValue{Kind: v.Kind(), Value: data})
}

// UnmarshalJSON decodes the form written by MarshalJSON.
func (v *Value) UnmarshalJSON(data []byte) error {
	var enc encodedValue
	if err := json.Unmarshal(data, &enc); err != nil {
		return err
	}
	switch enc.Kind {
	case KindString:
		var s string
		if err := json.Unmarshal(enc.Value, &s); err != nil {
			return fmt.Errorf("string setting: %w", err)
		}
		*v = String(s)
	case KindNumber:
		var n float64
		if err := json.Unmarshal(enc.Value, &n); err != nil {
			return fmt.Errorf("number setting: %w", err)
		}
		*v = Number(n)
	case KindBool:
		var b bool
		if err := json.Unmarshal(enc.Value, &b); err != nil {
			return fmt.Errorf("bool setting: %w", err)
		}
		*v = Bool(b)
	case KindJSON:
		jv, err := JSON(enc.Value)
		if err != nil {
			return err
		}
		*v = jv
	default:
		return fmt.Errorf("unknown setting kind %q", enc.Kind)
	}
	return nil
}

// ParseValue converts command-line text to a Value of the given kind. An
// empty kind infers one: true/false become bools, numbers become numbers,
// text starting with { or [ becomes JSON, anything else a string.
func ParseValue(kind, text string) (Value, error) {
	switch Kind(strings.ToLower(kind)) {
	case "":
		return inferValue(text), nil
	case KindString:
		return String(text), nil
	case KindNumber:
		n, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return Value{}, fmt.Errorf("invalid number %q", text)
		}
		return Number(n), nil
	case KindBool:
		b, err := strconv.ParseBool(strings.TrimSpace(text))
		if err != nil {
			return Value{}, fmt.Errorf("invalid bool %q", text)
		}
		return Bool(b), nil
	case KindJSON:
		return JSON(json.RawMessage(text))
	}
	return Value{}, fmt.Errorf("unknown setting kind %q (want string, number, bool or json)", kind)
}

func inferValue(text string) Value {
	switch text {
	case "true":
		return Bool(true)
	case "false":
		return Bool(false)
	}
	if n, err := strconv.ParseFloat(text, 64); err == nil && !math.IsNaN(n) && !math.IsInf(n, 0) {
		return Number(n)
	}
	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		if v, err := JSON(json.RawMessage(trimmed)); err == nil {
			return v
		}
	}
	return String(text)
}
