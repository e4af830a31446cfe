package app

import (
	"image"

	"github.com/sethgrid/boris/internal/behaviour"
	"github.com/sethgrid/boris/internal/display"
	"github.com/sethgrid/boris/internal/face"
	"github.com/sethgrid/boris/internal/inbox"
	"github.com/sethgrid/boris/internal/mode"
	"github.com/sethgrid/boris/internal/sprite"
	"github.com/sethgrid/boris/internal/storage"
)

// HandleKey applies a key command. Call it on the loop goroutine.
func (a *App) HandleKey(k display.Key) {
	switch k {
	case display.KeyQuit:
		a.quit = true
		if a.cancel != nil {
			a.cancel()
		}
	case display.KeyNext:
		a.session.ChangeBehaviour(behaviour.Random, behaviour.RandomDuration)
	case display.KeySleep:
		a.session.GoToSleep()
	case display.KeyWake:
		a.session.WakeUp()
	case display.KeyCycleBackground:
		a.setBackground(storage.NextInPalette(a.settings.BackgroundColor))
	}
}

// Apply handles a pushed message. Call it on the loop goroutine.
func (a *App) Apply(m inbox.Message) {
	if r, ok := m.Weather(); ok {
		a.log.Info("weather", "temperature", r.TemperatureC, "icon", r.Icon)
		a.face.SetWeather(r)
	}
	if c, ok, err := m.Background(); err != nil {
		a.log.Warn("background ignored", "err", err)
	} else if ok {
		a.setBackground(c)
	}
	if s, ok, err := m.Schedule(); err != nil {
		a.log.Warn("schedule ignored", "err", err)
	} else if ok {
		a.setSchedule(s)
	}
}

func (a *App) setBackground(c storage.Color) {
	a.settings.BackgroundColor = c
	a.face.SetBackground(c.Opaque())
	a.save()
}

func (a *App) setSchedule(s mode.Schedule) {
	a.schedule = s
	a.settings.Bedtime, a.settings.GetUpTime = s.Bedtime, s.GetUp
	a.log.Info("schedule", "bedtime", s.Bedtime, "getup_time", s.GetUp)
	a.save()
}

func (a *App) save() {
	a.snapshot()
	if a.opts.SettingsPath == "" {
		return
	}
	if err := storage.Save(a.opts.SettingsPath, a.settings); err != nil {
		a.log.Warn("settings not saved", "err", err)
	}
}

func (a *App) snapshot() {
	if !a.started {
		return
	}
	p := a.session.Pose()
	a.settings.State = a.session.Behaviour()
	a.settings.X, a.settings.Y = p.X, p.Y
}

// Close stops the sprite, saves settings and releases the loop and inbox.
// Call it after Run returns, or on the loop goroutine.
func (a *App) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true

	a.session.Stop()
	a.snapshot()
	var err error
	if a.opts.SettingsPath != "" {
		err = storage.Save(a.opts.SettingsPath, a.settings)
	}
	if a.watcher != nil {
		if werr := a.watcher.Close(); werr != nil {
			a.log.Warn("inbox close", "err", werr)
		}
	}
	a.loop.Close()
	a.log.Info("stopped", "behaviour", a.settings.State, "x", a.settings.X, "y", a.settings.Y)
	return err
}

func (a *App) Session() *sprite.Session     { return a.session }
func (a *App) Face() *face.Face             { return a.face }
func (a *App) Settings() storage.Settings   { return a.settings }
func (a *App) Schedule() mode.Schedule      { return a.schedule }
func (a *App) Frame() *image.RGBA           { return a.frame }
