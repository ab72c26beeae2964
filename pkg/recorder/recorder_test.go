package recorder

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRecorder_FlushAndLoad(t *testing.T) {
	dir := t.TempDir()
	r, err := New(dir, 0, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	obs := Quantize([]float32{0, 0.2, 0.5, 1, 1, 0.7, 0.35, 0.1})
	rows := []Decision{
		{Frame: 1, Controller: 3, Archetype: "farmer", Mass: 225, MoveX: 0.5, MoveY: -1, Special: 0, ObsDepth: 2, ObsSize: 2, Obs: obs},
		{Frame: 1, Controller: 4, Archetype: "aggressor", Mass: 400, MoveX: -0.25, MoveY: 0, Special: 2, ObsDepth: 2, ObsSize: 2, Obs: obs},
	}
	if err := r.Add(rows...); err != nil {
		t.Fatal(err)
	}
	if r.Buffered() != 2 {
		t.Fatalf("buffered = %d; want 2", r.Buffered())
	}

	path, err := r.Flush()
	if err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if filepath.Dir(path) != r.outDir {
		t.Errorf("file %s not in %s", path, r.outDir)
	}
	if r.Buffered() != 0 || r.Total() != 2 || len(r.Files()) != 1 {
		t.Errorf("buffered=%d total=%d files=%v", r.Buffered(), r.Total(), r.Files())
	}
	tmp, _ := os.ReadDir(filepath.Join(dir, "tmp"))
	if len(tmp) != 0 {
		t.Errorf("tmp dir should be empty after a flush, has %d entries", len(tmp))
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("rows = %d; want 2", len(got))
	}
	if got[1].Archetype != "aggressor" || got[1].Special != 2 || got[1].MoveX != -0.25 {
		t.Errorf("row 1 = %+v", got[1])
	}
	if string(got[0].Obs) != string(obs) {
		t.Errorf("obs = %v; want %v", got[0].Obs, obs)
	}
}

func TestRecorder_AutoFlush(t *testing.T) {
	r, err := New(t.TempDir(), 3, nil)
	if err != nil {
		t.Fatal(err)
	}
	for i := range 7 {
		if err := r.Add(Decision{Frame: int64(i), Archetype: "survivor"}); err != nil {
			t.Fatal(err)
		}
	}
	if len(r.Files()) != 2 || r.Buffered() != 1 {
		t.Fatalf("files=%d buffered=%d; want 2 and 1", len(r.Files()), r.Buffered())
	}
	if err := r.Close(); err != nil {
		t.Fatal(err)
	}
	if len(r.Files()) != 3 || r.Total() != 7 {
		t.Errorf("files=%d total=%d after close", len(r.Files()), r.Total())
	}
	if path, err := r.Flush(); path != "" || err != nil {
		t.Errorf("empty flush = %q, %v", path, err)
	}
}

func TestNew_RequiresDir(t *testing.T) {
	if _, err := New("", 10, nil); err == nil {
		t.Error("empty outDir should fail")
	}
}

func TestQuantize(t *testing.T) {
	in := []float32{-1, 0, 0.5, 1, 2}
	q := Quantize(in)
	want := []byte{0, 0, 128, 255, 255}
	if string(q) != string(want) {
		t.Fatalf("Quantize = %v; want %v", q, want)
	}
}
