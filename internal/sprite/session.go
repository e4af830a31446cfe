// Package sprite schedules the watchface sprite: it picks behaviours, steps
// their frame sequences, moves the sprite while walking and keeps the two
// timer lines (frame advance and behaviour change) consistent.
//
// A Session is not safe for concurrent use. Every method must be called
// from the goroutine that fires its timers.
package sprite

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"math/rand"
	"time"

	"github.com/sethgrid/boris/internal/behaviour"
	"github.com/sethgrid/boris/internal/timer"
)

const (
	// OneShotFrames is the frame count at which a behaviour plays once.
	OneShotFrames = 20
	// DefaultSize is the sprite edge length when none is configured.
	DefaultSize = 32
	// DefaultDelay replaces a missing or zero frame delay.
	DefaultDelay = 100 * time.Millisecond
)

var ErrMissingAnimation = errors.New("missing animation")

// Timers is the host timer service.
type Timers interface {
	Register(delay time.Duration, fn func()) (timer.Handle, error)
	Cancel(h timer.Handle)
}

// Sequence is a decoded frame sequence with a cursor.
type Sequence interface {
	Restart()
	Next(dst *image.RGBA) (drawn bool, delay time.Duration)
	CurrentFrame() int
	TotalFrames() int
}

// Surface is where the sprite is presented.
type Surface interface {
	SetPosition(r image.Rectangle)
	SetPixels(img *image.RGBA)
	MarkDirty()
}

type Rand interface {
	Intn(n int) int
}

// Table maps each behaviour to its sequence. It is built once at startup.
type Table map[behaviour.Behaviour]Sequence

// Phase is where the session is between two timer callbacks.
type Phase int

const (
	Idle Phase = iota
	// Animating has the frame line armed.
	Animating
	// AwaitingBehaviourChange has finished a one-shot and armed the
	// behaviour-change line.
	AwaitingBehaviourChange
)

func (p Phase) String() string {
	switch p {
	case Animating:
		return "animating"
	case AwaitingBehaviourChange:
		return "awaiting-behaviour-change"
	}
	return "idle"
}

// Change describes a behaviour that just started.
type Change struct {
	Behaviour behaviour.Behaviour
	Duration  behaviour.Duration
	// Resolved is the armed duration; zero when nothing was armed.
	Resolved time.Duration
	OneShot  bool
	Frames   int
}

type Options struct {
	Variant Variant
	Table   Table
	Timers  Timers
	Surface Surface
	Rand    Rand
	Pose    Pose
	Logger  *slog.Logger

	// OnChange runs after every behaviour change, before the first frame.
	OnChange func(Change)
	// OnFatal runs once when a timer cannot be armed.
	OnFatal func(error)
}

// Session is the single live sprite.
type Session struct {
	variant  Variant
	table    Table
	timers   Timers
	surface  Surface
	rng      Rand
	log      *slog.Logger
	onChange func(Change)
	onFatal  func(error)

	pose   Pose
	bounds Bounds
	buf    *image.RGBA

	current  behaviour.Behaviour
	seq      Sequence
	oneShot  bool
	phase    Phase
	frameT   timer.Handle
	changeT  timer.Handle
	running  bool
	fatalErr error
}

func New(opts Options) (*Session, error) {
	if len(opts.Variant.Pool) == 0 {
		return nil, errors.New("sprite: variant has no behaviours")
	}
	if opts.Timers == nil {
		return nil, errors.New("sprite: no timer service")
	}
	for _, b := range opts.Variant.Behaviours() {
		seq, ok := opts.Table[b]
		if !ok || seq == nil {
			return nil, fmt.Errorf("sprite: %s: %w", b, ErrMissingAnimation)
		}
		if seq.TotalFrames() == 0 {
			return nil, fmt.Errorf("sprite: %s has no frames: %w", b, ErrMissingAnimation)
		}
	}

	s := &Session{
		variant:  opts.Variant,
		table:    opts.Table,
		timers:   opts.Timers,
		surface:  opts.Surface,
		rng:      opts.Rand,
		log:      opts.Logger,
		onChange: opts.OnChange,
		onFatal:  opts.OnFatal,
		pose:     opts.Pose,
		current:  behaviour.Standing,
	}
	if s.surface == nil {
		s.surface = nopSurface{}
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if s.log == nil {
		s.log = slog.New(slog.DiscardHandler)
	}
	if s.pose.Size <= 0 {
		s.pose.Size = DefaultSize
	}
	bounds := opts.Variant.Bounds
	if bounds == nil {
		bounds = TunedBounds
	}
	s.bounds = bounds(s.pose.Size)
	s.buf = image.NewRGBA(image.Rect(0, 0, s.pose.Size, s.pose.Size))
	return s, nil
}

// Start begins scheduling with b for d. Random picks as usual.
func (s *Session) Start(b behaviour.Behaviour, d behaviour.Duration) {
	s.running = true
	s.surface.SetPosition(s.pose.Rect())
	s.ChangeBehaviour(b, d)
}

// Stop cancels both timer lines. The session can be started again.
func (s *Session) Stop() {
	s.cancelAll()
	s.running = false
	s.phase = Idle
}

func (s *Session) Behaviour() behaviour.Behaviour { return s.current }
func (s *Session) Pose() Pose                     { return s.pose }
func (s *Session) Bounds() Bounds                 { return s.bounds }
func (s *Session) Phase() Phase                   { return s.phase }
func (s *Session) OneShot() bool                  { return s.oneShot }
func (s *Session) Running() bool                  { return s.running }
func (s *Session) Variant() Variant               { return s.variant }

// FrameTimer is the armed frame-advance handle, zero when the line is idle.
func (s *Session) FrameTimer() timer.Handle { return s.frameT }

// BehaviourTimer is the armed behaviour-change handle, zero when idle.
func (s *Session) BehaviourTimer() timer.Handle { return s.changeT }

// Err is the fatal error that stopped the session, if any.
func (s *Session) Err() error { return s.fatalErr }

// Buffer holds the most recently drawn frame.
func (s *Session) Buffer() *image.RGBA { return s.buf }

func (s *Session) armFrame(delay time.Duration) bool {
	s.timers.Cancel(s.frameT)
	s.frameT = 0
	h, err := s.timers.Register(delay, func() {
		s.frameT = 0
		s.Step()
	})
	if err != nil {
		s.fail(fmt.Errorf("failed to arm frame timer: %w", err))
		return false
	}
	s.frameT = h
	return true
}

func (s *Session) armChange(delay time.Duration) bool {
	s.timers.Cancel(s.changeT)
	s.changeT = 0
	h, err := s.timers.Register(delay, func() {
		s.changeT = 0
		s.PickNext()
	})
	if err != nil {
		s.fail(fmt.Errorf("failed to arm behaviour timer: %w", err))
		return false
	}
	s.changeT = h
	return true
}

func (s *Session) cancelAll() {
	s.timers.Cancel(s.frameT)
	s.timers.Cancel(s.changeT)
	s.frameT, s.changeT = 0, 0
}

func (s *Session) fail(err error) {
	s.cancelAll()
	s.running = false
	s.phase = Idle
	if s.fatalErr != nil {
		return
	}
	s.fatalErr = err
	s.log.Error("sprite stopped", "behaviour", s.current, "err", err)
	if s.onFatal != nil {
		s.onFatal(err)
	}
}

type nopSurface struct{}

func (nopSurface) SetPosition(image.Rectangle) {}
func (nopSurface) SetPixels(*image.RGBA)       {}
func (nopSurface) MarkDirty()                  {}
