package behaviour

import (
	"fmt"
	"time"
)

type durationKind int

const (
	kindFixed durationKind = iota
	kindRandom
	kindIndefinite
)

// Duration is how long a timed behaviour runs before the selector picks again.
type Duration struct {
	kind  durationKind
	fixed time.Duration
}

var (
	// RandomDuration draws from the variant's range when armed.
	RandomDuration = Duration{kind: kindRandom}
	// Indefinite never re-triggers the selector.
	Indefinite = Duration{kind: kindIndefinite}
)

func Fixed(d time.Duration) Duration {
	return Duration{kind: kindFixed, fixed: d}
}

func (d Duration) IsRandom() bool     { return d.kind == kindRandom }
func (d Duration) IsIndefinite() bool { return d.kind == kindIndefinite }

// Value returns the fixed length; ok is false for random and indefinite.
func (d Duration) Value() (time.Duration, bool) {
	return d.fixed, d.kind == kindFixed
}

func (d Duration) String() string {
	switch d.kind {
	case kindRandom:
		return "random"
	case kindIndefinite:
		return "indefinite"
	}
	return fmt.Sprint(d.fixed)
}
