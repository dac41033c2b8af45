package trace

import (
	"bytes"
	"errors"
	"io"
	"path/filepath"
	"testing"
)

type testFrame struct {
	Tick uint64  `json:"tick"`
	X    float64 `json:"x"`
	Note string  `json:"note,omitempty"`
}

func TestWriteReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs", "trace.jsonl.zst")

	w, err := Create(path, Header{Scenario: "couloir", Seed: 42, Step: 1.0 / 60})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	for i := range 100 {
		if err := w.Write(testFrame{Tick: uint64(i), X: float64(i) * 1.5}); err != nil {
			t.Fatalf("Write() failed: %v", err)
		}
	}
	if w.Frames() != 100 {
		t.Errorf("Frames() = %d, want 100", w.Frames())
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer r.Close()

	h := r.Header()
	if h.Version != Version || h.Scenario != "couloir" || h.Seed != 42 {
		t.Errorf("header = %+v", h)
	}

	count := 0
	for {
		var f testFrame
		err := r.Next(&f)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("Next() failed: %v", err)
		}
		if f.Tick != uint64(count) || f.X != float64(count)*1.5 {
			t.Fatalf("frame %d = %+v", count, f)
		}
		count++
	}
	if count != 100 {
		t.Errorf("read %d frames, want 100", count)
	}
}

func TestCompresses(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, Header{Scenario: "treeline"})
	if err != nil {
		t.Fatalf("NewWriter() failed: %v", err)
	}
	raw := 0
	for i := range 500 {
		f := testFrame{Tick: uint64(i), Note: "steady"}
		raw += 40
		w.Write(f)
	}
	w.Close()

	if buf.Len() == 0 || buf.Len() >= raw {
		t.Errorf("compressed size %d, raw about %d", buf.Len(), raw)
	}
}

func TestReaderErrors(t *testing.T) {
	t.Run("empty stream", func(t *testing.T) {
		if _, err := NewReader(bytes.NewReader(nil)); err == nil {
			t.Error("expected error for an empty input")
		}
	})

	t.Run("wrong version", func(t *testing.T) {
		var buf bytes.Buffer
		w, _ := NewWriter(&buf, Header{Version: Version + 1})
		w.Close()
		if _, err := NewReader(&buf); err == nil {
			t.Error("expected error for an unknown version")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := Open(filepath.Join(t.TempDir(), "nope.zst")); err == nil {
			t.Error("expected error for a missing file")
		}
	})
}
