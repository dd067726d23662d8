package domain

import (
	"encoding/json"
	"fmt"
)

// Table is an ordered mapping from dotted string keys to typed values. It is
// the per-cycle snapshot container: created fresh for one capture or restore,
// never shared between cycles and never accessed concurrently.
//
// Reads degrade to the caller-supplied default when a key is absent; only a
// genuine type mismatch panics, since it marks a component whose capture and
// restore key lists went out of sync.
type Table struct {
	keys   []string
	values map[string]Value
}

func NewTable() *Table {
	return &Table{values: make(map[string]Value)}
}

// Len returns the number of keys currently stored.
func (t *Table) Len() int { return len(t.keys) }

// Keys returns the keys in insertion order.
func (t *Table) Keys() []string {
	out := make([]string, len(t.keys))
	copy(out, t.keys)
	return out
}

// Value returns the raw stored value for key, mainly for consumers that
// export tables into untyped formats.
func (t *Table) Value(key string) (Value, bool) {
	v, ok := t.values[key]
	return v, ok
}

func (t *Table) put(key string, v Value) {
	if _, ok := t.values[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.values[key] = v
}

func (t *Table) PutBool(key string, v bool)     { t.put(key, Value{Kind: KindBool, Bool: v}) }
func (t *Table) PutInt(key string, v int64)     { t.put(key, Value{Kind: KindInt, Int: v}) }
func (t *Table) PutFloat(key string, v float64) { t.put(key, Value{Kind: KindFloat, Float: v}) }
func (t *Table) PutString(key string, v string) { t.put(key, Value{Kind: KindString, Str: v}) }

// Array puts snapshot the slice so later mutation by the caller cannot
// corrupt the table.

func (t *Table) PutBoolArray(key string, v []bool) {
	t.put(key, Value{Kind: KindBoolArray, Bools: append([]bool(nil), v...)})
}

func (t *Table) PutIntArray(key string, v []int64) {
	t.put(key, Value{Kind: KindIntArray, Ints: append([]int64(nil), v...)})
}

func (t *Table) PutFloatArray(key string, v []float64) {
	t.put(key, Value{Kind: KindFloatArray, Floats: append([]float64(nil), v...)})
}

func (t *Table) PutStringArray(key string, v []string) {
	t.put(key, Value{Kind: KindStringArray, Strings: append([]string(nil), v...)})
}

func (t *Table) lookup(key string, want Kind) (Value, bool) {
	v, ok := t.values[key]
	if !ok {
		return Value{}, false
	}
	if v.Kind != want {
		panic(fmt.Sprintf("table: key %q stored as %s, read as %s", key, v.Kind, want))
	}
	return v, true
}

func (t *Table) GetBool(key string, def bool) bool {
	if v, ok := t.lookup(key, KindBool); ok {
		return v.Bool
	}
	return def
}

func (t *Table) GetInt(key string, def int64) int64 {
	if v, ok := t.lookup(key, KindInt); ok {
		return v.Int
	}
	return def
}

func (t *Table) GetFloat(key string, def float64) float64 {
	if v, ok := t.lookup(key, KindFloat); ok {
		return v.Float
	}
	return def
}

func (t *Table) GetString(key string, def string) string {
	if v, ok := t.lookup(key, KindString); ok {
		return v.Str
	}
	return def
}

func (t *Table) GetBoolArray(key string, def []bool) []bool {
	if v, ok := t.lookup(key, KindBoolArray); ok {
		return append([]bool(nil), v.Bools...)
	}
	return def
}

func (t *Table) GetIntArray(key string, def []int64) []int64 {
	if v, ok := t.lookup(key, KindIntArray); ok {
		return append([]int64(nil), v.Ints...)
	}
	return def
}

func (t *Table) GetFloatArray(key string, def []float64) []float64 {
	if v, ok := t.lookup(key, KindFloatArray); ok {
		return append([]float64(nil), v.Floats...)
	}
	return def
}

func (t *Table) GetStringArray(key string, def []string) []string {
	if v, ok := t.lookup(key, KindStringArray); ok {
		return append([]string(nil), v.Strings...)
	}
	return def
}

type tableEntryJSON struct {
	Key   string `json:"k"`
	Value Value  `json:"e"`
}

// MarshalJSON encodes entries as an array so key order survives the trip
// through the WAL and the mirror sink.
func (t *Table) MarshalJSON() ([]byte, error) {
	entries := make([]tableEntryJSON, 0, len(t.keys))
	for _, k := range t.keys {
		entries = append(entries, tableEntryJSON{Key: k, Value: t.values[k]})
	}
	return json.Marshal(entries)
}

func (t *Table) UnmarshalJSON(data []byte) error {
	var entries []tableEntryJSON
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	t.keys = t.keys[:0]
	t.values = make(map[string]Value, len(entries))
	for _, e := range entries {
		t.put(e.Key, e.Value)
	}
	return nil
}
