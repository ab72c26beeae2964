package geometry

import (
	"math"
	"testing"
)

// floatEquals is a helper for testing scalar float values with epsilon.
func floatEquals(a, b float64) bool {
	return math.Abs(a-b) <= Epsilon
}

func vecEquals(a, b Vector2D) bool {
	return floatEquals(a.X, b.X) && floatEquals(a.Y, b.Y)
}

func TestNewVectorPolar(t *testing.T) {
	tests := []struct {
		name   string
		radius float64
		theta  float64
		want   Vector2D
	}{
		{"Zero radius", 0, 0, Vector2D{0, 0}},
		{"Zero angle (X-axis)", 10, 0, Vector2D{10, 0}},
		{"90 degrees (Y-axis)", 10, math.Pi / 2, Vector2D{0, 10}},
		{"180 degrees (Negative X)", 10, math.Pi, Vector2D{-10, 0}},
		{"45 degrees", math.Sqrt(2), math.Pi / 4, Vector2D{1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewVectorPolar(tt.radius, tt.theta)
			if !vecEquals(got, tt.want) {
				t.Errorf("NewVectorPolar(%v, %v) = %v; want %v", tt.radius, tt.theta, got, tt.want)
			}
		})
	}
}

func TestVector_String(t *testing.T) {
	v := Vector2D{1.234, 5.678}
	want := "(1.23, 5.68)"
	if got := v.String(); got != want {
		t.Errorf("Vector2D.String() = %q; want %q", got, want)
	}
}

func TestVector_Arithmetic(t *testing.T) {
	v1 := Vector2D{1, 2}
	v2 := Vector2D{3, 4}

	t.Run("Add", func(t *testing.T) {
		want := Vector2D{4, 6}
		if got := v1.Add(v2); !vecEquals(got, want) {
			t.Errorf("%v.Add(%v) = %v; want %v", v1, v2, got, want)
		}
	})

	t.Run("Sub", func(t *testing.T) {
		want := Vector2D{-2, -2}
		if got := v1.Sub(v2); !vecEquals(got, want) {
			t.Errorf("%v.Sub(%v) = %v; want %v", v1, v2, got, want)
		}
	})

	t.Run("Mul", func(t *testing.T) {
		want := Vector2D{2, 4}
		if got := v1.Mul(2); !vecEquals(got, want) {
			t.Errorf("%v.Mul(2) = %v; want %v", v1, got, want)
		}
	})

	t.Run("Dot", func(t *testing.T) {
		if got := v1.Dot(v2); got != 11 {
			t.Errorf("%v.Dot(%v) = %v; want 11", v1, v2, got)
		}
	})
}

func TestVector_Magnitude(t *testing.T) {
	v := Vector2D{3, 4} // 3-4-5 triangle

	t.Run("Len", func(t *testing.T) {
		if got := v.Len(); got != 5 {
			t.Errorf("Len = %v; want 5", got)
		}
	})

	t.Run("LenSqr", func(t *testing.T) {
		if got := v.LenSqr(); got != 25 {
			t.Errorf("LenSqr = %v; want 25", got)
		}
	})

	t.Run("DirectionZero", func(t *testing.T) {
		if _, ok := (Vector2D{}).Direction(); ok {
			t.Error("Direction of the zero vector should report false")
		}
		dir, ok := v.Direction()
		if !ok || !vecEquals(dir, Vector2D{0.6, 0.8}) {
			t.Errorf("Direction = %v, %v; want (0.60, 0.80), true", dir, ok)
		}
	})
}

func TestVector_Distance(t *testing.T) {
	v1 := Vector2D{1, 1}
	v2 := Vector2D{4, 5} // dx=3, dy=4, dist=5

	if got := v1.DistanceTo(v2); got != 5 {
		t.Errorf("DistanceTo = %v; want 5", got)
	}

	if got := v1.DistanceSquaredTo(v2); got != 25 {
		t.Errorf("DistanceSquaredTo = %v; want 25", got)
	}
}

func TestVector_Clamp(t *testing.T) {
	tests := []struct {
		name string
		in   Vector2D
		want Vector2D
	}{
		{"inside", Vector2D{50, 50}, Vector2D{50, 50}},
		{"left top", Vector2D{-5, -20}, Vector2D{10, 10}},
		{"right bottom", Vector2D{500, 300}, Vector2D{90, 90}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Clamp(10, 10, 90, 90); !vecEquals(got, tt.want) {
				t.Errorf("Clamp(%v) = %v; want %v", tt.in, got, tt.want)
			}
		})
	}

	// inverted range collapses to the midpoint
	if got := (Vector2D{3, 3}).Clamp(10, 0, 4, 6); !vecEquals(got, Vector2D{7, 3}) {
		t.Errorf("Clamp inverted = %v; want (7, 3)", got)
	}
}

func TestSegmentProjection(t *testing.T) {
	a := Vector2D{0, 0}
	b := Vector2D{10, 0}

	tests := []struct {
		name       string
		p          Vector2D
		wantT      float64
		wantLength float64
		wantDist   float64
	}{
		{"middle above", Vector2D{5, 3}, 5, 10, 3},
		{"behind start", Vector2D{-2, 1}, -2, 10, 1},
		{"past end", Vector2D{12, -4}, 12, 10, 4},
		{"on segment", Vector2D{7, 0}, 7, 10, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotT, gotL, gotD := SegmentProjection(tt.p, a, b)
			if !floatEquals(gotT, tt.wantT) || !floatEquals(gotL, tt.wantLength) || !floatEquals(gotD, tt.wantDist) {
				t.Errorf("SegmentProjection(%v) = (%v, %v, %v); want (%v, %v, %v)",
					tt.p, gotT, gotL, gotD, tt.wantT, tt.wantLength, tt.wantDist)
			}
		})
	}

	t.Run("degenerate", func(t *testing.T) {
		_, l, d := SegmentProjection(Vector2D{3, 4}, a, a)
		if l != 0 || !floatEquals(d, 5) {
			t.Errorf("degenerate segment = (%v, %v); want (0, 5)", l, d)
		}
	})
}

func TestCircle(t *testing.T) {
	c := Circle{Center: Vector2D{0, 0}, Radius: 10}

	if got := c.Mass(); got != 100 {
		t.Errorf("Mass = %v; want 100", got)
	}
	if !c.Overlaps(Circle{Center: Vector2D{1, 0}, Radius: 10}) {
		t.Error("concentric-ish circles should overlap")
	}
	if c.Overlaps(Circle{Center: Vector2D{20, 0}, Radius: 10}) {
		t.Error("touching circles must not count as overlapping")
	}
	if got := CombinedRadius(10, 10); !floatEquals(got, math.Sqrt(200)) {
		t.Errorf("CombinedRadius(10, 10) = %v; want %v", got, math.Sqrt(200))
	}
	if got := RadiusForMass(-1); got != 0 {
		t.Errorf("RadiusForMass(-1) = %v; want 0", got)
	}
}
