package datalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFileStreamSinkOpenOncePerName(t *testing.T) {
	sink, err := NewFileStreamSink(t.TempDir())
	if err != nil {
		t.Fatalf("new sink: %v", err)
	}
	defer sink.Close()

	s1, err := sink.OpenFloat64("voltage-left-drive", "Volt")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	s2, err := sink.OpenFloat64("voltage-left-drive", "Volt")
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if s1 != s2 {
		t.Fatalf("expected the same handle for repeated opens")
	}
	if sink.OpenCount() != 1 {
		t.Fatalf("expected one open stream, got %d", sink.OpenCount())
	}
}

func TestFileStreamSinkAppendsInOrder(t *testing.T) {
	dir := t.TempDir()
	sink, err := NewFileStreamSink(dir)
	if err != nil {
		t.Fatalf("new sink: %v", err)
	}

	st, err := sink.OpenFloat64("position-arm-lift", "Rotation")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	for _, v := range []float64{1.5, -2, 0.25} {
		if err := st.Append(v); err != nil {
			t.Fatalf("append %f: %v", v, err)
		}
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "position-arm-lift.f64"))
	if err != nil {
		t.Fatalf("read stream file: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header + 3 values, got %d lines", len(lines))
	}
	if lines[0] != "# unit: Rotation" {
		t.Fatalf("unexpected header: %q", lines[0])
	}
	if lines[1] != "1.5" || lines[2] != "-2" || lines[3] != "0.25" {
		t.Fatalf("values out of order: %v", lines[1:])
	}
}

func TestFileStreamSinkStringStream(t *testing.T) {
	dir := t.TempDir()
	sink, err := NewFileStreamSink(dir)
	if err != nil {
		t.Fatalf("new sink: %v", err)
	}

	st, err := sink.OpenString("sysid-test-state-drive")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := st.Append("quasistatic-forward"); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := st.Append("none"); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "sysid-test-state-drive.str"))
	if err != nil {
		t.Fatalf("read stream file: %v", err)
	}
	if string(data) != "quasistatic-forward\nnone\n" {
		t.Fatalf("unexpected stream contents: %q", string(data))
	}
}
