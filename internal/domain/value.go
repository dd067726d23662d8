package domain

import (
	"encoding/json"
	"fmt"
)

// Kind identifies which arm of the Value union is populated.
type Kind uint8

const (
	KindBool Kind = iota
	KindInt
	KindFloat
	KindString
	KindBoolArray
	KindIntArray
	KindFloatArray
	KindStringArray
)

var kindNames = map[Kind]string{
	KindBool:        "bool",
	KindInt:         "int",
	KindFloat:       "float",
	KindString:      "string",
	KindBoolArray:   "bool[]",
	KindIntArray:    "int[]",
	KindFloatArray:  "float[]",
	KindStringArray: "string[]",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

func kindFromName(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return k, true
		}
	}
	return 0, false
}

// Value is the tagged union stored in a Table. Exactly one arm matching
// Kind is meaningful; the rest are zero.
type Value struct {
	Kind    Kind
	Bool    bool
	Int     int64
	Float   float64
	Str     string
	Bools   []bool
	Ints    []int64
	Floats  []float64
	Strings []string
}

// Any returns the populated arm as a plain Go value. Array arms are copied so
// the table's snapshot stays immutable.
func (v Value) Any() any {
	switch v.Kind {
	case KindBool:
		return v.Bool
	case KindInt:
		return v.Int
	case KindFloat:
		return v.Float
	case KindString:
		return v.Str
	case KindBoolArray:
		return append([]bool(nil), v.Bools...)
	case KindIntArray:
		return append([]int64(nil), v.Ints...)
	case KindFloatArray:
		return append([]float64(nil), v.Floats...)
	case KindStringArray:
		return append([]string(nil), v.Strings...)
	}
	return nil
}

type valueJSON struct {
	Type  string          `json:"t"`
	Value json.RawMessage `json:"v"`
}

func (v Value) MarshalJSON() ([]byte, error) {
	var raw any
	switch v.Kind {
	case KindBool:
		raw = v.Bool
	case KindInt:
		raw = v.Int
	case KindFloat:
		raw = v.Float
	case KindString:
		raw = v.Str
	case KindBoolArray:
		raw = emptyNotNil(v.Bools)
	case KindIntArray:
		raw = emptyNotNil(v.Ints)
	case KindFloatArray:
		raw = emptyNotNil(v.Floats)
	case KindStringArray:
		raw = emptyNotNil(v.Strings)
	default:
		return nil, fmt.Errorf("table value: unknown kind %d", v.Kind)
	}
	inner, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	return json.Marshal(valueJSON{Type: v.Kind.String(), Value: inner})
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var wire valueJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	kind, ok := kindFromName(wire.Type)
	if !ok {
		return fmt.Errorf("table value: unknown type tag %q", wire.Type)
	}
	*v = Value{Kind: kind}
	switch kind {
	case KindBool:
		return json.Unmarshal(wire.Value, &v.Bool)
	case KindInt:
		return json.Unmarshal(wire.Value, &v.Int)
	case KindFloat:
		return json.Unmarshal(wire.Value, &v.Float)
	case KindString:
		return json.Unmarshal(wire.Value, &v.Str)
	case KindBoolArray:
		return json.Unmarshal(wire.Value, &v.Bools)
	case KindIntArray:
		return json.Unmarshal(wire.Value, &v.Ints)
	case KindFloatArray:
		return json.Unmarshal(wire.Value, &v.Floats)
	case KindStringArray:
		return json.Unmarshal(wire.Value, &v.Strings)
	}
	return nil
}

// emptyNotNil keeps zero-length arrays distinguishable from absent keys in
// the persisted form.
func emptyNotNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
