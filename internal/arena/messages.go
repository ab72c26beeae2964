package arena

import (
	"errors"
	"fmt"

	"github.com/lao-tseu-is-alive/go-cell-arena/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-cell-arena/pkg/simulation"
	"google.golang.org/protobuf/types/known/structpb"
)

// ErrBadMessage is returned for envelopes the world actor cannot decode.
var ErrBadMessage = errors.New("bad arena message")

// Envelope types. Every message to the world actor is a structpb.Struct
// of the shape {"t": type, "p": payload}.
const (
	typeTick  = "tick"
	typeReset = "reset"
)

// tickCmd advances the arena one frame with the sampled human input.
type tickCmd struct {
	human simulation.HumanInput
}

// resetCmd rebuilds the populations.
type resetCmd struct {
	settings simulation.ResetSettings
}

// NewTick wraps the human input of one frame.
func NewTick(in simulation.HumanInput) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"t": structpb.NewStringValue(typeTick),
		"p": structpb.NewStructValue(&structpb.Struct{Fields: map[string]*structpb.Value{
			"x":     structpb.NewNumberValue(in.Pointer.X),
			"y":     structpb.NewNumberValue(in.Pointer.Y),
			"split": structpb.NewBoolValue(in.Split),
			"shoot": structpb.NewBoolValue(in.Shoot),
		}}),
	}}
}

// NewReset wraps reset settings.
func NewReset(rs simulation.ResetSettings) (*structpb.Struct, error) {
	models := make(map[string]any, len(rs.Models))
	for name, n := range rs.Models {
		models[name] = n
	}
	return structpb.NewStruct(map[string]any{
		"t": typeReset,
		"p": map[string]any{
			"human":    rs.Human,
			"scripted": rs.Scripted,
			"food":     rs.Food,
			"viruses":  rs.Viruses,
			"models":   models,
		},
	})
}

// decode turns an envelope back into a command.
func decode(msg *structpb.Struct) (any, error) {
	if msg == nil {
		return nil, fmt.Errorf("%w: nil envelope", ErrBadMessage)
	}
	kind := msg.GetFields()["t"].GetStringValue()
	p := msg.GetFields()["p"].GetStructValue().GetFields()

	switch kind {
	case typeTick:
		return tickCmd{human: simulation.HumanInput{
			Pointer: geometry.Vector2D{X: p["x"].GetNumberValue(), Y: p["y"].GetNumberValue()},
			Split:   p["split"].GetBoolValue(),
			Shoot:   p["shoot"].GetBoolValue(),
		}}, nil

	case typeReset:
		rs := simulation.ResetSettings{
			Human:    p["human"].GetBoolValue(),
			Scripted: int(p["scripted"].GetNumberValue()),
			Food:     int(p["food"].GetNumberValue()),
			Viruses:  int(p["viruses"].GetNumberValue()),
			Models:   make(map[string]int),
		}
		for name, v := range p["models"].GetStructValue().GetFields() {
			rs.Models[name] = int(v.GetNumberValue())
		}
		if rs.Scripted < 0 || rs.Food < 0 || rs.Viruses < 0 {
			return nil, fmt.Errorf("%w: negative population in reset", ErrBadMessage)
		}
		return resetCmd{settings: rs}, nil

	default:
		return nil, fmt.Errorf("%w: unknown type %q", ErrBadMessage, kind)
	}
}
