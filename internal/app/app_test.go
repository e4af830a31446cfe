package app

import (
	"context"
	"image"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sethgrid/boris/internal/battery"
	"github.com/sethgrid/boris/internal/behaviour"
	"github.com/sethgrid/boris/internal/chime"
	"github.com/sethgrid/boris/internal/display"
	"github.com/sethgrid/boris/internal/inbox"
	"github.com/sethgrid/boris/internal/mode"
	"github.com/sethgrid/boris/internal/sprite"
	"github.com/sethgrid/boris/internal/storage"
	"github.com/sethgrid/boris/internal/timer"
)

type recorder struct {
	frames int
	last   *image.RGBA
}

func (r *recorder) Present(img *image.RGBA) {
	r.frames++
	r.last = img
}

type fakeChime struct{ plays int }

func (f *fakeChime) Play([]chime.Note) { f.plays++ }

func clockAt(hhmmss string) *timer.ManualClock {
	t, err := time.Parse("15:04:05", hhmmss)
	if err != nil {
		panic(err)
	}
	return timer.NewManualClock(time.Date(2024, 6, 1, t.Hour(), t.Minute(), t.Second(), 0, time.Local))
}

type fixture struct {
	app      *App
	clock    *timer.ManualClock
	rec      *recorder
	chime    *fakeChime
	settings string
	outbox   string
}

func newFixture(t *testing.T, at string) *fixture {
	t.Helper()
	dir := t.TempDir()
	f := &fixture{
		clock:    clockAt(at),
		rec:      &recorder{},
		chime:    &fakeChime{},
		settings: filepath.Join(dir, storage.DirName, storage.SettingsFile),
		outbox:   filepath.Join(dir, "outbox"),
	}
	a, err := New(Options{
		SettingsPath: f.settings,
		Variant:      sprite.Boris,
		Seed:         42,
		Clock:        f.clock,
		Battery:      battery.Fixed(80),
		OutboxDir:    f.outbox,
		Chime:        f.chime,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	f.app = a
	t.Cleanup(func() { a.Close() })
	return f
}

// advance moves the clock forward in frame-sized steps, pumping each time.
func (f *fixture) advance(d time.Duration) {
	for step := 50 * time.Millisecond; d > 0; d -= step {
		if d < step {
			step = d
		}
		f.clock.Advance(step)
		f.app.Pump()
	}
}

func (f *fixture) begin() {
	f.app.Begin(f.rec)
	f.app.Pump()
}

func TestStartupBehaviour(t *testing.T) {
	s := mode.DefaultSchedule()
	tests := []struct {
		name string
		now  string
		last behaviour.Behaviour
		want behaviour.Behaviour
		dur  behaviour.Duration
	}{
		{"inside sleep window", "23:00:00", behaviour.Standing, behaviour.Sleeping, behaviour.Indefinite},
		{"early morning", "05:00:00", behaviour.Coffee, behaviour.Sleeping, behaviour.Indefinite},
		{"slept through get-up", "09:15:00", behaviour.Sleeping, behaviour.GetUp, behaviour.RandomDuration},
		{"interrupted bedtime", "12:00:00", behaviour.GoToSleep, behaviour.GetUp, behaviour.RandomDuration},
		{"daytime", "12:00:00", behaviour.Coffee, behaviour.Random, behaviour.RandomDuration},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, d := StartupBehaviour(clockAt(tt.now).Now(), s, tt.last)
			if b != tt.want || d != tt.dur {
				t.Errorf("StartupBehaviour = %s %s, want %s %s", b, d, tt.want, tt.dur)
			}
		})
	}
}

func TestBeginPresentsFace(t *testing.T) {
	f := newFixture(t, "12:00:30")
	f.begin()

	if !f.app.Session().Running() {
		t.Fatal("session not started")
	}
	if f.rec.frames == 0 {
		t.Fatal("no frame presented")
	}
	if f.app.Face().Battery() != 80 || f.app.Face().Clock() != "12:00" {
		t.Errorf("face battery %d clock %q", f.app.Face().Battery(), f.app.Face().Clock())
	}

	before := f.rec.frames
	f.advance(2 * time.Second)
	if f.rec.frames <= before {
		t.Error("animation did not re-present the face")
	}
}

func TestMinuteTickForcesBedtime(t *testing.T) {
	f := newFixture(t, "21:59:30")
	f.begin()
	if b := f.app.Session().Behaviour(); b == behaviour.GoToSleep {
		t.Fatalf("started as %s", b)
	}

	f.advance(30 * time.Second)
	if got := f.app.Face().Clock(); got != "22:00" {
		t.Fatalf("face clock = %q after the minute tick", got)
	}
	if got := f.app.Session().Behaviour(); got != behaviour.GoToSleep {
		t.Fatalf("behaviour at 22:00 = %s, want go_to_sleep", got)
	}

	f.advance(10 * time.Second)
	if got := f.app.Session().Behaviour(); got != behaviour.Sleeping {
		t.Errorf("after the transition = %s, want sleeping", got)
	}
}

func TestWakeChimes(t *testing.T) {
	f := newFixture(t, "07:59:50")
	f.begin()
	if got := f.app.Session().Behaviour(); got != behaviour.Sleeping {
		t.Fatalf("started as %s inside the sleep window", got)
	}

	f.advance(10 * time.Second)
	if got := f.app.Session().Behaviour(); got != behaviour.GetUp {
		t.Fatalf("behaviour at 08:00 = %s", got)
	}
	if f.chime.plays != 1 {
		t.Errorf("chime played %d times", f.chime.plays)
	}
}

func TestWeatherRequestOnHalfHour(t *testing.T) {
	f := newFixture(t, "09:29:30")
	f.begin()

	request := filepath.Join(f.outbox, inbox.RequestFile)
	if _, err := os.Stat(request); err != nil {
		t.Fatalf("no request at startup: %v", err)
	}
	if err := os.Remove(request); err != nil {
		t.Fatal(err)
	}

	f.advance(30 * time.Second)
	if _, err := os.Stat(request); err != nil {
		t.Errorf("no request at 09:30: %v", err)
	}

	os.Remove(request)
	f.advance(time.Minute)
	if _, err := os.Stat(request); !os.IsNotExist(err) {
		t.Error("requested weather at 09:31")
	}
}

func TestApplyMessage(t *testing.T) {
	f := newFixture(t, "12:00:00")
	f.begin()

	temp, icon, bg := 290.15, "04n", "#000055"
	bed, up := "23:30", "6:45"
	f.app.Apply(inbox.Message{
		Temperature:     &temp,
		Icon:            &icon,
		BackgroundColor: &bg,
		Bedtime:         &bed,
		GetUpTime:       &up,
	})

	if f.app.Face().Temperature() != "17C" || f.app.Face().Icon() != "04n" {
		t.Errorf("weather = %q %q", f.app.Face().Temperature(), f.app.Face().Icon())
	}
	if f.app.Schedule() != (mode.Schedule{Bedtime: "23:30", GetUp: "06:45"}) {
		t.Errorf("schedule = %+v", f.app.Schedule())
	}

	saved, err := storage.Load(f.settings)
	if err != nil {
		t.Fatal(err)
	}
	if saved.BackgroundColor != (storage.Color{B: 0x55}) || saved.Bedtime != "23:30" || saved.GetUpTime != "06:45" {
		t.Errorf("saved settings = %+v", saved)
	}
}

func TestKeys(t *testing.T) {
	f := newFixture(t, "12:00:00")
	f.begin()

	f.app.HandleKey(display.KeySleep)
	if got := f.app.Session().Behaviour(); got != behaviour.GoToSleep {
		t.Errorf("sleep key started %s", got)
	}
	f.app.HandleKey(display.KeyWake)
	if got := f.app.Session().Behaviour(); got != behaviour.GetUp {
		t.Errorf("wake key started %s", got)
	}

	f.app.HandleKey(display.KeyCycleBackground)
	if got := f.app.Settings().BackgroundColor; got != storage.Palette[1] {
		t.Errorf("background after cycling = %s", got)
	}

	f.app.HandleKey(display.KeyQuit)
	if !f.app.Done() {
		t.Error("quit key did not finish the app")
	}
}

func TestClosePersistsAndRestartWakes(t *testing.T) {
	f := newFixture(t, "12:00:00")
	f.begin()
	f.app.HandleKey(display.KeySleep)
	f.advance(300 * time.Millisecond)
	pose := f.app.Session().Pose()

	if err := f.app.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	saved, err := storage.Load(f.settings)
	if err != nil {
		t.Fatal(err)
	}
	if saved.State != behaviour.GoToSleep || saved.X != pose.X || saved.Y != pose.Y {
		t.Errorf("saved %+v, want go_to_sleep at %d,%d", saved, pose.X, pose.Y)
	}

	again, err := New(Options{SettingsPath: f.settings, Seed: 1, Clock: f.clock})
	if err != nil {
		t.Fatal(err)
	}
	defer again.Close()
	again.Begin(nil)
	again.Pump()
	if got := again.Session().Behaviour(); got != behaviour.GetUp {
		t.Errorf("restart outside the sleep window played %s, want get_up", got)
	}
}

func TestCorruptSettingsStillStart(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, storage.SettingsFile)
	if err := os.WriteFile(path, []byte("= broken"), 0644); err != nil {
		t.Fatal(err)
	}
	a, err := New(Options{SettingsPath: path, Clock: clockAt("12:00:00")})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()
	if a.Settings() != storage.Defaults() {
		t.Errorf("settings = %+v, want defaults", a.Settings())
	}
}

func TestMissingPackIsFatal(t *testing.T) {
	_, err := New(Options{PackDir: t.TempDir(), Clock: clockAt("12:00:00")})
	if err == nil {
		t.Fatal("empty pack directory accepted")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	a, err := New(Options{SettingsPath: filepath.Join(t.TempDir(), "s.toml")})
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	rec := &recorder{}
	if err := a.Run(ctx, rec); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if err := a.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if rec.frames == 0 {
		t.Error("Run presented nothing")
	}
}
