package behavior

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/lao-tseu-is-alive/go-cell-arena/pkg/geometry"
)

func testParams() Params {
	return Params{
		DecisionCooldown: 5,
		VisionBase:       300,
		VisionRef:        20,
		VisionMin:        120,
		VisionMax:        600,
		ThreatRatio:      1.15,
		PreyRatio:        1.15,
		WaypointReach:    50,
		ArenaWidth:       1000,
		ArenaHeight:      1000,
	}
}

func circle(x, y, r float64) geometry.Circle {
	return geometry.Circle{Center: geometry.Vector2D{X: x, Y: y}, Radius: r}
}

func vecNear(a, b geometry.Vector2D) bool {
	return math.Abs(a.X-b.X) <= geometry.Epsilon && math.Abs(a.Y-b.Y) <= geometry.Epsilon
}

func newTestBrain() *Brain {
	return NewBrain(testParams(), rand.New(rand.NewPCG(1, 2)))
}

func TestBrain_Vision(t *testing.T) {
	b := newTestBrain()
	tests := []struct {
		name string
		agg  float64
		want float64
	}{
		{"reference size", 20, 300},
		{"small sees further", 15, 400},
		{"huge clamped to min", 200, 120},
		{"tiny clamped to max", 1, 600},
		{"empty", 0, 600},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.Vision(tt.agg); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Vision(%v) = %v; want %v", tt.agg, got, tt.want)
			}
		})
	}
}

func TestBrain_FleesFromThreat(t *testing.T) {
	b := newTestBrain()
	p := Percept{
		Primary:         circle(500, 500, 20),
		AggregateRadius: 20,
		Rivals: []Sighting{
			{ID: 7, Circle: circle(600, 500, 40)}, // threat: 40 > 23
			{ID: 8, Circle: circle(450, 500, 10)}, // prey, but fleeing wins
		},
	}
	target := b.Decide(p)
	if b.State() != Fleeing {
		t.Fatalf("state = %v; want fleeing", b.State())
	}
	if target.X >= 500 {
		t.Errorf("flee target %v should be away from the threat on the right", target)
	}
	if b.TargetID() != 7 {
		t.Errorf("TargetID = %d; want 7", b.TargetID())
	}
	if b.Cooldown() != 5 {
		t.Errorf("cooldown after state change = %d; want 5", b.Cooldown())
	}
}

func TestBrain_ThreatBoundaryIsStrict(t *testing.T) {
	params := testParams()
	params.ThreatRatio = 1.25
	b := NewBrain(params, rand.New(rand.NewPCG(1, 2)))
	p := Percept{
		Primary:         circle(500, 500, 20),
		AggregateRadius: 20,
		Rivals:          []Sighting{{ID: 3, Circle: circle(550, 500, 25)}}, // exactly 1.25x
	}
	b.Decide(p)
	if b.State() == Fleeing {
		t.Error("a rival at exactly the threat ratio must not trigger fleeing")
	}
}

func TestBrain_HuntsLargestPrey(t *testing.T) {
	b := newTestBrain()
	p := Percept{
		Primary:         circle(500, 500, 30),
		AggregateRadius: 30,
		Rivals: []Sighting{
			{ID: 1, Circle: circle(520, 500, 10)},
			{ID: 2, Circle: circle(600, 600, 20)},
			{ID: 3, Circle: circle(450, 450, 29)}, // too big to be prey
		},
		Food: []Sighting{{ID: 9, Circle: circle(505, 500, 3)}},
	}
	target := b.Decide(p)
	if b.State() != Hunting || b.TargetID() != 2 {
		t.Fatalf("state=%v target=%d; want hunting 2", b.State(), b.TargetID())
	}
	if !vecNear(target, geometry.Vector2D{X: 600, Y: 600}) {
		t.Errorf("target = %v; want (600, 600)", target)
	}
}

func TestBrain_ClearsBlockingVirus(t *testing.T) {
	b := newTestBrain()
	p := Percept{
		Primary:         circle(100, 500, 30),
		AggregateRadius: 30,
		Rivals:          []Sighting{{ID: 2, Circle: circle(280, 500, 15)}},
		Viruses: []Sighting{
			{ID: 50, Circle: circle(200, 520, 22)}, // on the path
			{ID: 51, Circle: circle(400, 500, 22)}, // behind the prey
		},
	}
	target := b.Decide(p)
	if b.State() != ClearingVirus || b.TargetID() != 50 {
		t.Fatalf("state=%v target=%d; want clearing_virus 50", b.State(), b.TargetID())
	}
	if !vecNear(target, geometry.Vector2D{X: 200, Y: 520}) {
		t.Errorf("target = %v; want the virus centre", target)
	}
}

func TestBlocks(t *testing.T) {
	blob := circle(0, 0, 10)
	goal := geometry.Vector2D{X: 100, Y: 0}
	tests := []struct {
		name  string
		virus geometry.Circle
		want  bool
	}{
		{"on the path", circle(50, 5, 20), true},
		{"too far sideways", circle(50, 30, 20), false},
		{"just outside radius sum", circle(50, 30, 19.999), false},
		{"behind the blob", circle(-20, 0, 20), false},
		{"beyond the goal", circle(130, 0, 20), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Blocks(tt.virus, blob, goal); got != tt.want {
				t.Errorf("Blocks(%v) = %v; want %v", tt.virus, got, tt.want)
			}
		})
	}
}

func TestBrain_FoodThenWander(t *testing.T) {
	b := newTestBrain()
	p := Percept{
		Primary:         circle(500, 500, 20),
		AggregateRadius: 20,
		Food: []Sighting{
			{ID: 11, Circle: circle(560, 500, 3)},
			{ID: 12, Circle: circle(520, 500, 3)},
			{ID: 13, Circle: circle(990, 990, 3)}, // out of sight
		},
	}
	b.Decide(p)
	if b.State() != Hunting || b.TargetID() != 12 {
		t.Fatalf("state=%v target=%d; want hunting nearest food 12", b.State(), b.TargetID())
	}

	// nothing visible: after the cooldown the brain wanders
	empty := Percept{Primary: circle(500, 500, 20), AggregateRadius: 20}
	for range 5 {
		b.Decide(empty)
	}
	if b.State() != Wandering {
		t.Fatalf("state = %v; want wandering", b.State())
	}
	wp := b.Target()
	if wp.X < 0 || wp.X > 1000 || wp.Y < 0 || wp.Y > 1000 {
		t.Errorf("waypoint %v outside the arena", wp)
	}

	// keeps the waypoint while far from it
	far := Percept{Primary: circle(wp.X+200, wp.Y, 20), AggregateRadius: 20}
	if wp.X+200 > 1000 {
		far.Primary = circle(wp.X-200, wp.Y, 20)
	}
	for range 5 {
		b.Decide(far)
	}
	if b.Cooldown() != 0 || !vecNear(b.Target(), wp) {
		t.Errorf("waypoint changed while not reached: %v -> %v", wp, b.Target())
	}

	// re-picked on the next evaluation once reached
	near := Percept{Primary: circle(wp.X+10, wp.Y, 20), AggregateRadius: 20}
	if got := b.Decide(near); vecNear(got, wp) {
		t.Errorf("waypoint should be re-picked when within reach")
	}
}

func TestBrain_CooldownDebouncesAndTracks(t *testing.T) {
	b := newTestBrain()
	p := Percept{
		Primary:         circle(500, 500, 30),
		AggregateRadius: 30,
		Rivals:          []Sighting{{ID: 4, Circle: circle(550, 500, 10)}},
	}
	b.Decide(p)
	if b.State() != Hunting {
		t.Fatalf("state = %v; want hunting", b.State())
	}

	// a threat appears but the brain is still on cooldown: it keeps hunting
	// and follows the prey by id
	p.Rivals = []Sighting{
		{ID: 4, Circle: circle(560, 510, 10)},
		{ID: 5, Circle: circle(450, 500, 80)},
	}
	target := b.Decide(p)
	if b.State() != Hunting {
		t.Errorf("state changed during cooldown: %v", b.State())
	}
	if !vecNear(target, geometry.Vector2D{X: 560, Y: 510}) {
		t.Errorf("tracked target = %v; want (560, 510)", target)
	}

	for range 3 {
		b.Decide(p)
	}
	if b.State() != Hunting {
		t.Fatalf("evaluated too early, state = %v", b.State())
	}
	b.Decide(p) // cooldown reaches zero
	if b.State() != Fleeing {
		t.Errorf("state = %v; want fleeing once the cooldown expired", b.State())
	}
}

func TestBrain_FleeDegenerateDirection(t *testing.T) {
	b := newTestBrain()
	p := Percept{
		Primary:         circle(500, 500, 10),
		AggregateRadius: 10,
		Rivals:          []Sighting{{ID: 1, Circle: circle(500, 500, 50)}},
	}
	target := b.Decide(p)
	if math.IsNaN(target.X) || math.IsNaN(target.Y) {
		t.Fatalf("flee target is NaN")
	}
	if vecNear(target, geometry.Vector2D{X: 500, Y: 500}) {
		t.Errorf("flee target should move away from a coincident threat")
	}
}

func TestState_String(t *testing.T) {
	want := map[State]string{Wandering: "wandering", Hunting: "hunting", Fleeing: "fleeing", ClearingVirus: "clearing_virus"}
	for s, name := range want {
		if s.String() != name {
			t.Errorf("%d.String() = %q; want %q", s, s.String(), name)
		}
	}
}
