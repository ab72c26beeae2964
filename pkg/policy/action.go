// Package policy defines the contract between the arena and decision models:
// the observation a model receives and the action tuple it returns.
package policy

import "math"

// Special is the discrete action a model may request on top of movement.
type Special int

const (
	SpecialNone  Special = 0
	SpecialShoot Special = 1
	SpecialSplit Special = 2

	// NumSpecials is the width of the special-action logits vector.
	NumSpecials = 3
)

func (s Special) String() string {
	switch s {
	case SpecialShoot:
		return "shoot"
	case SpecialSplit:
		return "split"
	default:
		return "none"
	}
}

// Action is one model decision for one controller and one frame.
// MoveX and MoveY are expected in [-1, 1].
type Action struct {
	MoveX   float32 `json:"mx" msgpack:"mx"`
	MoveY   float32 `json:"my" msgpack:"my"`
	Special Special `json:"special" msgpack:"special"`
}

// Clamped returns a copy with movement forced into [-1, 1] and unknown
// special codes mapped to SpecialNone. NaN components become 0.
func (a Action) Clamped() Action {
	out := Action{MoveX: clampUnit(a.MoveX), MoveY: clampUnit(a.MoveY), Special: a.Special}
	if out.Special < SpecialNone || out.Special > SpecialSplit {
		out.Special = SpecialNone
	}
	return out
}

func clampUnit(v float32) float32 {
	if math.IsNaN(float64(v)) {
		return 0
	}
	return max(-1, min(1, v))
}

// DecodeAction builds an Action from raw network heads: a 2-float movement
// vector and NumSpecials logits. The special code is the argmax.
func DecodeAction(move, logits []float32) Action {
	var a Action
	if len(move) >= 2 {
		a.MoveX, a.MoveY = move[0], move[1]
	}
	best := float32(math.Inf(-1))
	for i, l := range logits {
		if i >= NumSpecials {
			break
		}
		if l > best {
			best = l
			a.Special = Special(i)
		}
	}
	return a.Clamped()
}
