package policy

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestAction_Clamped(t *testing.T) {
	tests := []struct {
		name string
		in   Action
		want Action
	}{
		{"inside", Action{0.5, -0.5, SpecialShoot}, Action{0.5, -0.5, SpecialShoot}},
		{"outside", Action{3, -7, SpecialSplit}, Action{1, -1, SpecialSplit}},
		{"nan", Action{float32(math.NaN()), 0.2, SpecialNone}, Action{0, 0.2, SpecialNone}},
		{"unknown code", Action{0, 0, Special(9)}, Action{0, 0, SpecialNone}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Clamped(); got != tt.want {
				t.Errorf("Clamped(%+v) = %+v; want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestDecodeAction(t *testing.T) {
	a := DecodeAction([]float32{0.25, 2}, []float32{0.1, -1, 3})
	if a.MoveX != 0.25 || a.MoveY != 1 || a.Special != SpecialSplit {
		t.Errorf("DecodeAction = %+v", a)
	}
	if got := DecodeAction(nil, nil); got != (Action{}) {
		t.Errorf("DecodeAction(empty) = %+v; want zero action", got)
	}
}

func TestSpecial_String(t *testing.T) {
	if SpecialShoot.String() != "shoot" || SpecialSplit.String() != "split" || SpecialNone.String() != "none" {
		t.Error("unexpected special names")
	}
}

func TestFrameStack(t *testing.T) {
	s := NewFrameStack(2, 3)

	if got := s.Stacked(); len(got) != 12 {
		t.Fatalf("empty stack len = %d; want 12", len(got))
	}

	s.Push([]float32{1, 1, 1, 1})
	got := s.Stacked()
	for i, v := range got {
		if v != 1 {
			t.Fatalf("first frame should be replicated, index %d = %v", i, v)
		}
	}

	s.Push([]float32{2, 2, 2, 2})
	s.Push([]float32{3, 3, 3, 3})
	s.Push([]float32{4, 4, 4, 4})
	got = s.Stacked()
	want := []float32{2, 2, 2, 2, 3, 3, 3, 3, 4, 4, 4, 4}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Stacked = %v; want %v", got, want)
		}
	}

	// short frames are zero padded
	s.Reset()
	s.Push([]float32{5})
	got = s.Stacked()
	if got[0] != 5 || got[1] != 0 {
		t.Errorf("short frame not padded: %v", got[:4])
	}
}

type closeCounter struct {
	closed int
}

func (c *closeCounter) Predict(batch [][]float32) ([]Action, error) {
	return make([]Action, len(batch)), nil
}

func (c *closeCounter) Close() error {
	c.closed++
	return nil
}

func TestLoadRegistry(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "farmer.onnx"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "survivor.onnx"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	farmer := &closeCounter{}
	loads := 0
	load := func(path string) (Model, error) {
		loads++
		if filepath.Base(path) == "survivor.onnx" {
			return nil, errors.New("corrupt graph")
		}
		return farmer, nil
	}

	r := LoadRegistry(dir, Archetypes, load, nil)

	if loads != 2 {
		t.Errorf("loader called %d times; want 2 (missing files are not loaded)", loads)
	}
	if got := r.Available(); len(got) != 1 || got[0] != "farmer" {
		t.Errorf("Available = %v; want [farmer]", got)
	}
	if _, err := r.Model("farmer"); err != nil {
		t.Errorf("Model(farmer) error = %v", err)
	}
	for _, name := range []string{"aggressor", "survivor", "unknown"} {
		if _, err := r.Model(name); !errors.Is(err, ErrModelUnavailable) {
			t.Errorf("Model(%s) error = %v; want ErrModelUnavailable", name, err)
		}
	}

	if err := r.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if farmer.closed != 1 {
		t.Errorf("model closed %d times; want 1", farmer.closed)
	}
}

func TestNilRegistry(t *testing.T) {
	var r *Registry
	if _, err := r.Model("farmer"); !errors.Is(err, ErrModelUnavailable) {
		t.Errorf("nil registry should report ErrModelUnavailable, got %v", err)
	}
	if r.Available() != nil || r.Close() != nil {
		t.Error("nil registry should be inert")
	}
}

func TestModelFunc(t *testing.T) {
	m := ModelFunc(func(batch [][]float32) ([]Action, error) {
		out := make([]Action, len(batch))
		for i := range out {
			out[i].Special = SpecialShoot
		}
		return out, nil
	})
	got, err := m.Predict([][]float32{{0}, {1}})
	if err != nil || len(got) != 2 || got[1].Special != SpecialShoot {
		t.Errorf("ModelFunc.Predict = %v, %v", got, err)
	}
}
