package sprite

import (
	"time"

	"github.com/sethgrid/boris/internal/behaviour"
	"github.com/sethgrid/boris/internal/mode"
)

// ChangeBehaviour cancels both timer lines, switches to b and draws its first
// frame immediately. behaviour.Random draws one from the variant.
func (s *Session) ChangeBehaviour(b behaviour.Behaviour, d behaviour.Duration) {
	if !s.running {
		return
	}
	s.cancelAll()

	if b == behaviour.Random {
		b, _ = s.draw()
	} else if !s.variant.Has(b) {
		s.log.Warn("behaviour not in variant, drawing one", "behaviour", b, "variant", s.variant.Name)
		b, _ = s.draw()
	}

	s.current = b
	s.seq = s.table[b]
	s.seq.Restart()
	s.oneShot = s.seq.TotalFrames() >= OneShotFrames || b.IsTransition()

	var armed time.Duration
	if !s.oneShot && !d.IsIndefinite() {
		armed = s.resolve(d)
		if !s.armChange(armed) {
			return
		}
	}

	s.log.Debug("behaviour changed",
		"behaviour", b,
		"duration", d,
		"armed", armed,
		"frames", s.seq.TotalFrames(),
		"one_shot", s.oneShot,
	)
	if s.onChange != nil {
		s.onChange(Change{
			Behaviour: b,
			Duration:  d,
			Resolved:  armed,
			OneShot:   s.oneShot,
			Frames:    s.seq.TotalFrames(),
		})
	}
	s.Step()
}

// PickNext chooses what follows the current behaviour. Transitions and a few
// specials have fixed successors; everything else is random.
func (s *Session) PickNext() {
	switch s.current {
	case behaviour.GoToSleep:
		s.ChangeBehaviour(behaviour.Sleeping, behaviour.Indefinite)
	case behaviour.GetUp, behaviour.WeeWee:
		s.freshen()
	default:
		s.ChangeBehaviour(behaviour.Random, behaviour.RandomDuration)
	}
}

// GoToSleep plays the bedtime transition, or goes straight to an indefinite
// sleep when the variant has none.
func (s *Session) GoToSleep() {
	if s.variant.Has(behaviour.GoToSleep) {
		s.ChangeBehaviour(behaviour.GoToSleep, behaviour.RandomDuration)
		return
	}
	s.ChangeBehaviour(behaviour.Sleeping, behaviour.Indefinite)
}

// WakeUp plays the get-up transition, falling back to a shower and then to a
// random pick.
func (s *Session) WakeUp() {
	if s.variant.Has(behaviour.GetUp) {
		s.ChangeBehaviour(behaviour.GetUp, behaviour.RandomDuration)
		return
	}
	s.freshen()
}

func (s *Session) freshen() {
	if s.variant.Has(behaviour.Shower) {
		s.ChangeBehaviour(behaviour.Shower, behaviour.RandomDuration)
		return
	}
	s.ChangeBehaviour(behaviour.Random, behaviour.RandomDuration)
}

// Tick is called once per wall-clock minute and forces the sleep and wake
// transitions.
func (s *Session) Tick(now time.Time, schedule mode.Schedule) mode.Mode {
	m := mode.Derive(now, schedule)
	switch m {
	case mode.Bedtime:
		s.log.Info("bedtime", "at", mode.Clock(now))
		s.GoToSleep()
	case mode.Wake:
		s.log.Info("get up", "at", mode.Clock(now))
		s.WakeUp()
	}
	return m
}

// draw picks a behaviour at random. walk reports whether the biased walk
// branch was taken.
func (s *Session) draw() (b behaviour.Behaviour, walk bool) {
	if s.variant.WalkBias && s.rng.Intn(3) == 0 {
		return behaviour.Walks[s.rng.Intn(len(behaviour.Walks))], true
	}
	return s.variant.Pool[s.rng.Intn(len(s.variant.Pool))], false
}

func (s *Session) resolve(d behaviour.Duration) time.Duration {
	if v, ok := d.Value(); ok {
		return v
	}
	span := int((s.variant.MaxDuration - s.variant.MinDuration) / time.Millisecond)
	if span <= 0 {
		return s.variant.MinDuration
	}
	return s.variant.MinDuration + time.Duration(s.rng.Intn(span))*time.Millisecond
}
