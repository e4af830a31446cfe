package sprite

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/sethgrid/boris/internal/behaviour"
)

// Variant fixes which behaviours exist and how they are drawn at random.
type Variant struct {
	Name string
	// Pool is drawn from at random.
	Pool []behaviour.Behaviour
	// Transitions are played only on sleep and wake.
	Transitions []behaviour.Behaviour
	// WalkBias draws a walk one time in three before drawing from Pool.
	WalkBias    bool
	MinDuration time.Duration
	MaxDuration time.Duration
	Bounds      func(size int) Bounds
}

var Boris = Variant{
	Name: "boris",
	Pool: []behaviour.Behaviour{
		behaviour.WalkLeft, behaviour.WalkRight, behaviour.WalkUp, behaviour.WalkDown,
		behaviour.Standing, behaviour.Sleeping, behaviour.Shredding, behaviour.Eating,
		behaviour.Invaders, behaviour.Coffee, behaviour.Shower, behaviour.ReadPaper,
		behaviour.Scare, behaviour.Sunglasses, behaviour.TongueOut, behaviour.WeeWee,
		behaviour.Balloon, behaviour.GiftWrap,
	},
	Transitions: []behaviour.Behaviour{behaviour.GoToSleep, behaviour.GetUp},
	WalkBias:    true,
	MinDuration: 4000 * time.Millisecond,
	MaxDuration: 8000 * time.Millisecond,
	Bounds:      TunedBounds,
}

var Classic = Variant{
	Name: "classic",
	Pool: []behaviour.Behaviour{
		behaviour.WalkLeft, behaviour.WalkRight, behaviour.WalkUp, behaviour.WalkDown,
		behaviour.Standing, behaviour.Sleeping, behaviour.Shredding, behaviour.Eating,
	},
	MinDuration: 3000 * time.Millisecond,
	MaxDuration: 6000 * time.Millisecond,
	Bounds:      ClassicBounds,
}

var variants = []Variant{Boris, Classic}

func VariantByName(name string) (Variant, error) {
	for _, v := range variants {
		if strings.EqualFold(v.Name, name) {
			return v, nil
		}
	}
	return Variant{}, fmt.Errorf("unknown variant %q (want boris or classic)", name)
}

// Behaviours lists every behaviour the variant needs an animation for.
func (v Variant) Behaviours() []behaviour.Behaviour {
	return append(slices.Clone(v.Pool), v.Transitions...)
}

func (v Variant) Has(b behaviour.Behaviour) bool {
	return slices.Contains(v.Pool, b) || slices.Contains(v.Transitions, b)
}
