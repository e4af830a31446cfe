// Package app wires the watchface together: settings, animation pack, timer
// loop, sprite session, face and the inbox. Everything after New runs on the
// timer loop's goroutine.
package app

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"math/rand"
	"time"

	"github.com/sethgrid/boris/internal/anim"
	"github.com/sethgrid/boris/internal/battery"
	"github.com/sethgrid/boris/internal/behaviour"
	"github.com/sethgrid/boris/internal/chime"
	"github.com/sethgrid/boris/internal/face"
	"github.com/sethgrid/boris/internal/inbox"
	"github.com/sethgrid/boris/internal/mode"
	"github.com/sethgrid/boris/internal/sprite"
	"github.com/sethgrid/boris/internal/storage"
	"github.com/sethgrid/boris/internal/timer"
	"github.com/sethgrid/boris/internal/weather"
)

// DefaultFrameInterval is how often a dirty face is re-presented.
const DefaultFrameInterval = 50 * time.Millisecond

// Presenter shows a rendered face.
type Presenter interface {
	Present(frame *image.RGBA)
}

type Chimer interface {
	Play(notes []chime.Note)
}

type Options struct {
	SettingsPath string
	// PackDir holds pack.yaml; empty uses the built-in animations.
	PackDir string
	Variant sprite.Variant
	// Seed for behaviour selection; zero seeds from the clock.
	Seed    int64
	Clock   timer.Clock
	Battery battery.Sampler
	// InboxDir receives pushed messages; empty disables the watcher.
	InboxDir string
	// OutboxDir receives weather requests; empty disables them.
	OutboxDir     string
	Chime         Chimer
	FrameInterval time.Duration
	Logger        *slog.Logger
}

type App struct {
	opts     Options
	log      *slog.Logger
	clock    timer.Clock
	loop     *timer.Loop
	settings storage.Settings
	schedule mode.Schedule

	face      *face.Face
	layer     *face.SpriteLayer
	session   *sprite.Session
	frame     *image.RGBA
	presenter Presenter
	watcher   *inbox.Watcher

	minuteT  timer.Handle
	presentT timer.Handle
	started  bool
	quit     bool
	fatal    error
	cancel   context.CancelFunc
	closed   bool
}

func New(opts Options) (*App, error) {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Clock == nil {
		opts.Clock = timer.SystemClock{}
	}
	if opts.Battery == nil {
		opts.Battery = battery.Fixed(100)
	}
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = DefaultFrameInterval
	}
	if len(opts.Variant.Pool) == 0 {
		opts.Variant = sprite.Boris
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}

	a := &App{
		opts:  opts,
		log:   opts.Logger,
		clock: opts.Clock,
		frame: image.NewRGBA(image.Rect(0, 0, face.Width, face.Height)),
	}

	settings, err := storage.Load(opts.SettingsPath)
	if err != nil {
		a.log.Warn("settings ignored, using defaults", "path", opts.SettingsPath, "err", err)
	}
	a.settings = settings
	a.schedule = settings.Schedule()

	table, err := loadTable(opts.PackDir, opts.Variant, settings.Size)
	if err != nil {
		return nil, err
	}

	a.loop = timer.NewLoop(opts.Clock)
	pose := sprite.Pose{X: settings.X, Y: settings.Y, Size: settings.Size}
	a.layer = face.NewSpriteLayer(pose.Rect())
	a.face = face.New(settings.BackgroundColor.Opaque(), a.layer)

	a.session, err = sprite.New(sprite.Options{
		Variant:  opts.Variant,
		Table:    table,
		Timers:   a.loop,
		Surface:  a.layer,
		Rand:     rand.New(rand.NewSource(opts.Seed)),
		Pose:     pose,
		Logger:   a.log.With("component", "sprite"),
		OnChange: a.onChange,
		OnFatal:  a.onFatal,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create sprite: %w", err)
	}
	return a, nil
}

func loadTable(dir string, v sprite.Variant, size int) (sprite.Table, error) {
	var pack anim.Pack
	if dir == "" {
		pack = anim.Builtin(size)
	} else {
		var err error
		pack, err = anim.LoadPack(dir, v.Behaviours(), size)
		if err != nil {
			return nil, fmt.Errorf("failed to load animation pack: %w", err)
		}
	}
	table := make(sprite.Table, len(pack))
	for b, frames := range pack {
		table[b] = frames
	}
	return table, nil
}

// StartupBehaviour decides what the sprite does when the face comes up.
func StartupBehaviour(now time.Time, s mode.Schedule, last behaviour.Behaviour) (behaviour.Behaviour, behaviour.Duration) {
	if mode.InSleepWindow(now, s) {
		return behaviour.Sleeping, behaviour.Indefinite
	}
	if last == behaviour.Sleeping || last == behaviour.GoToSleep {
		return behaviour.GetUp, behaviour.RandomDuration
	}
	return behaviour.Random, behaviour.RandomDuration
}

// Begin queues startup on the loop. Frames go to p.
func (a *App) Begin(p Presenter) {
	a.presenter = p
	a.loop.Post(a.start)
}

// Run drives the loop on the calling goroutine until ctx ends, the user
// quits, or the sprite hits a fatal error.
func (a *App) Run(ctx context.Context, p Presenter) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	a.cancel = cancel

	a.Begin(p)
	err := a.loop.Run(ctx)
	if a.fatal != nil {
		return a.fatal
	}
	if a.quit || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

// Pump runs everything due now. Surfaces that own their frame loop call it
// instead of Run.
func (a *App) Pump() {
	a.loop.Pump(a.clock.Now())
}

// Post runs fn on the loop goroutine.
func (a *App) Post(fn func()) {
	a.loop.Post(fn)
}

// Done reports whether the app wants to exit.
func (a *App) Done() bool {
	return a.quit || a.fatal != nil
}

func (a *App) Err() error { return a.fatal }

func (a *App) start() {
	if a.started {
		return
	}
	a.started = true
	now := a.clock.Now()
	a.face.SetClock(now)
	a.sampleBattery()

	b, d := StartupBehaviour(now, a.schedule, a.settings.State)
	a.log.Info("starting",
		"variant", a.opts.Variant.Name,
		"behaviour", b,
		"duration", d,
		"schedule", mode.Describe(now, a.schedule),
	)
	a.session.Start(b, d)
	if a.fatal != nil {
		return
	}

	a.armMinute(now)
	a.present()
	a.requestWeather(now)
	a.watchInbox()
}

func (a *App) watchInbox() {
	if a.opts.InboxDir == "" {
		return
	}
	w, err := inbox.Watch(a.opts.InboxDir, func(m inbox.Message) {
		a.loop.Post(func() { a.Apply(m) })
	}, a.log.With("component", "inbox"))
	if err != nil {
		a.log.Warn("inbox disabled", "dir", a.opts.InboxDir, "err", err)
		return
	}
	a.watcher = w
	w.Drain()
}

func (a *App) armMinute(now time.Time) {
	next := now.Truncate(time.Minute).Add(time.Minute)
	h, err := a.loop.Register(next.Sub(now), a.minuteTick)
	if err != nil {
		a.onFatal(fmt.Errorf("failed to arm minute tick: %w", err))
		return
	}
	a.minuteT = h
}

func (a *App) minuteTick() {
	a.minuteT = 0
	now := a.clock.Now()
	a.face.SetClock(now)
	a.sampleBattery()
	a.session.Tick(now, a.schedule)
	if weather.Due(now) {
		a.requestWeather(now)
	}
	a.armMinute(now)
}

func (a *App) present() {
	a.presentT = 0
	if a.face.Dirty() && a.presenter != nil {
		a.face.Render(a.frame)
		a.presenter.Present(a.frame)
	}
	h, err := a.loop.Register(a.opts.FrameInterval, a.present)
	if err != nil {
		a.onFatal(fmt.Errorf("failed to arm presenter: %w", err))
		return
	}
	a.presentT = h
}

func (a *App) sampleBattery() {
	level, err := a.opts.Battery.Level()
	if err != nil {
		a.log.Debug("battery unavailable", "err", err)
		return
	}
	a.face.SetBattery(level)
}

func (a *App) requestWeather(now time.Time) {
	if a.opts.OutboxDir == "" {
		return
	}
	if err := inbox.RequestWeather(a.opts.OutboxDir, now); err != nil {
		a.log.Warn("weather request failed", "err", err)
	}
}

func (a *App) onChange(c sprite.Change) {
	a.log.Info("behaviour",
		"behaviour", c.Behaviour,
		"duration", c.Duration,
		"armed", c.Resolved,
		"frames", c.Frames,
		"one_shot", c.OneShot,
	)
	if c.Behaviour == behaviour.GetUp && a.opts.Chime != nil {
		a.opts.Chime.Play(chime.WakeUp)
	}
}

func (a *App) onFatal(err error) {
	if a.fatal == nil {
		a.fatal = err
	}
	a.log.Error("fatal", "err", err)
	if a.cancel != nil {
		a.cancel()
	}
}
