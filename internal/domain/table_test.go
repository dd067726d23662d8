package domain

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestTablePutGetScalars(t *testing.T) {
	tab := NewTable()
	tab.PutBool("Enabled", true)
	tab.PutInt("MatchNumber", 42)
	tab.PutFloat("MatchTime", 133.7)
	tab.PutString("EventName", "casf")

	if !tab.GetBool("Enabled", false) {
		t.Fatalf("expected Enabled true")
	}
	if got := tab.GetInt("MatchNumber", 0); got != 42 {
		t.Fatalf("expected MatchNumber 42, got %d", got)
	}
	if got := tab.GetFloat("MatchTime", 0); got != 133.7 {
		t.Fatalf("expected MatchTime 133.7, got %f", got)
	}
	if got := tab.GetString("EventName", ""); got != "casf" {
		t.Fatalf("expected EventName casf, got %s", got)
	}
}

func TestTableMissingKeyReturnsDefault(t *testing.T) {
	tab := NewTable()

	if got := tab.GetInt("AllianceStation", 3); got != 3 {
		t.Fatalf("expected default 3, got %d", got)
	}
	if got := tab.GetFloatArray("AxisValues", []float64{0.5}); len(got) != 1 || got[0] != 0.5 {
		t.Fatalf("expected default array back, got %v", got)
	}
	if got := tab.GetString("Name", "gamepad"); got != "gamepad" {
		t.Fatalf("expected default string, got %q", got)
	}
}

func TestTableOverwriteKeepsKeyOrder(t *testing.T) {
	tab := NewTable()
	tab.PutInt("A", 1)
	tab.PutInt("B", 2)
	tab.PutInt("A", 3)

	if got := tab.GetInt("A", 0); got != 3 {
		t.Fatalf("expected overwrite to win, got %d", got)
	}
	if keys := tab.Keys(); !reflect.DeepEqual(keys, []string{"A", "B"}) {
		t.Fatalf("unexpected key order: %v", keys)
	}
}

func TestTableArraysAreSnapshots(t *testing.T) {
	tab := NewTable()
	src := []bool{true, false, true}
	tab.PutBoolArray("Buttons", src)
	src[0] = false

	got := tab.GetBoolArray("Buttons", nil)
	if !got[0] {
		t.Fatalf("caller mutation leaked into table")
	}

	got[1] = true
	again := tab.GetBoolArray("Buttons", nil)
	if again[1] {
		t.Fatalf("reader mutation leaked into table")
	}
}

func TestTableTypeMismatchPanics(t *testing.T) {
	tab := NewTable()
	tab.PutInt("MatchType", 2)

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on type mismatch")
		}
	}()
	tab.GetString("MatchType", "")
}

func TestTableJSONRoundTripPreservesOrderAndTypes(t *testing.T) {
	tab := NewTable()
	tab.PutString("Name", "stick")
	tab.PutInt("Type", 21)
	tab.PutBool("Xbox", true)
	tab.PutBoolArray("Buttons", []bool{true, false})
	tab.PutFloatArray("AxisValues", []float64{-0.25, 1})
	tab.PutIntArray("AxisTypes", []int64{1, 2})
	tab.PutIntArray("POVs", []int64{})
	tab.PutStringArray("Tags", []string{"a", "b"})

	data, err := json.Marshal(tab)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	decoded := NewTable()
	if err := json.Unmarshal(data, decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if !reflect.DeepEqual(decoded.Keys(), tab.Keys()) {
		t.Fatalf("key order changed: %v vs %v", decoded.Keys(), tab.Keys())
	}
	if got := decoded.GetFloatArray("AxisValues", nil); !reflect.DeepEqual(got, []float64{-0.25, 1}) {
		t.Fatalf("axis values changed: %v", got)
	}
	if got := decoded.GetIntArray("POVs", []int64{9}); len(got) != 0 {
		t.Fatalf("empty array should survive as empty, got %v", got)
	}
	if got := decoded.GetStringArray("Tags", nil); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("string array changed: %v", got)
	}
	if !decoded.GetBool("Xbox", false) {
		t.Fatalf("bool changed")
	}
}
