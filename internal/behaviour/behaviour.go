package behaviour

import (
	"fmt"
	"strings"
)

// Behaviour is a named animation Boris can play.
type Behaviour int

const (
	WalkLeft Behaviour = iota
	WalkRight
	WalkUp
	WalkDown
	Standing
	Sleeping
	Shredding
	Eating
	Invaders
	Coffee
	Shower
	ReadPaper
	Scare
	Sunglasses
	TongueOut
	WeeWee
	Balloon
	GiftWrap

	// Transition markers. They play once and are never drawn at random.
	GoToSleep
	GetUp

	count
)

// Random is the sentinel asking the selector to draw a behaviour.
const Random Behaviour = -1

var names = [count]string{
	WalkLeft:   "walk_left",
	WalkRight:  "walk_right",
	WalkUp:     "walk_up",
	WalkDown:   "walk_down",
	Standing:   "standing",
	Sleeping:   "sleeping",
	Shredding:  "shredding",
	Eating:     "eating",
	Invaders:   "invaders",
	Coffee:     "coffee",
	Shower:     "shower",
	ReadPaper:  "read_paper",
	Scare:      "scare",
	Sunglasses: "sunglasses",
	TongueOut:  "tongue_out",
	WeeWee:     "wee_wee",
	Balloon:    "balloon",
	GiftWrap:   "gift_wrap",
	GoToSleep:  "go_to_sleep",
	GetUp:      "get_up",
}

// All lists every behaviour in declaration order.
func All() []Behaviour {
	all := make([]Behaviour, 0, count)
	for b := Behaviour(0); b < count; b++ {
		all = append(all, b)
	}
	return all
}

// Walks are the four directional walks.
var Walks = []Behaviour{WalkLeft, WalkRight, WalkUp, WalkDown}

func (b Behaviour) Valid() bool {
	return b >= 0 && b < count
}

func (b Behaviour) String() string {
	if b == Random {
		return "random"
	}
	if !b.Valid() {
		return fmt.Sprintf("behaviour(%d)", int(b))
	}
	return names[b]
}

// IsWalk reports whether b moves the sprite.
func (b Behaviour) IsWalk() bool {
	return b >= WalkLeft && b <= WalkDown
}

// IsTransition reports whether b is one of the sleep/wake markers.
func (b Behaviour) IsTransition() bool {
	return b == GoToSleep || b == GetUp
}

// Step returns the per-frame movement of a walk.
func (b Behaviour) Step() (dx, dy int) {
	switch b {
	case WalkLeft:
		return -2, 0
	case WalkRight:
		return 2, 0
	case WalkUp:
		return 0, -1
	case WalkDown:
		return 0, 1
	}
	return 0, 0
}

// Parse accepts the snake_case name, ignoring case and dashes.
func Parse(s string) (Behaviour, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	if key == "random" {
		return Random, nil
	}
	for b, name := range names {
		if name == key {
			return Behaviour(b), nil
		}
	}
	return Standing, fmt.Errorf("unknown behaviour %q", s)
}

func (b Behaviour) MarshalText() ([]byte, error) {
	if !b.Valid() {
		return nil, fmt.Errorf("cannot marshal %s", b)
	}
	return []byte(names[b]), nil
}

// UnmarshalText never fails: unknown names decode to Standing so persisted
// settings always yield a playable behaviour.
func (b *Behaviour) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil || parsed == Random {
		*b = Standing
		return nil
	}
	*b = parsed
	return nil
}
