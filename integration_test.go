package main

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/sethgrid/boris/internal/app"
	"github.com/sethgrid/boris/internal/battery"
	"github.com/sethgrid/boris/internal/behaviour"
	"github.com/sethgrid/boris/internal/discovery"
	"github.com/sethgrid/boris/internal/display"
	"github.com/sethgrid/boris/internal/inbox"
	"github.com/sethgrid/boris/internal/sprite"
	"github.com/sethgrid/boris/internal/storage"
	"github.com/sethgrid/boris/internal/timer"
)

func at(day int, hh, mm, ss int) time.Time {
	return time.Date(2024, 6, day, hh, mm, ss, 0, time.Local)
}

func pump(a *app.App, clock *timer.ManualClock, d time.Duration) {
	for step := 50 * time.Millisecond; d > 0; d -= step {
		clock.Advance(step)
		a.Pump()
	}
}

func TestEveningToMorning(t *testing.T) {
	// Create settings the way "boris init" does
	tmpDir := t.TempDir()
	if _, err := storage.Init(tmpDir); err != nil {
		t.Fatalf("Failed to init settings: %v", err)
	}

	// Discovery should find them from a nested directory
	nested := filepath.Join(tmpDir, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}
	settingsPath, err := discovery.Resolve("", nested)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if settingsPath != filepath.Join(tmpDir, storage.DirName, storage.SettingsFile) {
		t.Fatalf("Resolved %s", settingsPath)
	}

	// Queue weather and a new background before the face starts
	inboxDir := discovery.Sibling(settingsPath, discovery.InboxDir)
	temp, icon, bg := 290.15, "10n", "#000055"
	if _, err := inbox.Write(inboxDir, inbox.Message{Temperature: &temp, Icon: &icon, BackgroundColor: &bg}); err != nil {
		t.Fatalf("Failed to queue message: %v", err)
	}

	clock := timer.NewManualClock(at(1, 21, 59, 0))
	a, err := app.New(app.Options{
		SettingsPath: settingsPath,
		Variant:      sprite.Boris,
		Seed:         7,
		Clock:        clock,
		Battery:      battery.Fixed(55),
		InboxDir:     inboxDir,
		OutboxDir:    discovery.Sibling(settingsPath, discovery.OutboxDir),
	})
	if err != nil {
		t.Fatalf("Failed to create app: %v", err)
	}

	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatal(err)
	}
	screen.SetSize(100, 50)
	term := display.NewTerminalWithScreen(screen, 2)
	defer term.Close()

	a.Begin(term)
	a.Pump()
	pump(a, clock, 200*time.Millisecond)

	// The queued message was applied and removed
	if got := a.Face().Temperature(); got != "17C" {
		t.Errorf("Expected temperature 17C, got %q", got)
	}
	if left, _ := filepath.Glob(filepath.Join(inboxDir, "*.toml")); len(left) != 0 {
		t.Errorf("Expected inbox to be empty, found %v", left)
	}

	// The terminal shows the new background in the top-right corner
	_, _, style, _ := screen.GetContent(70, 1)
	fg, bgc, _ := style.Decompose()
	want := tcell.NewRGBColor(0, 0, 0x55)
	if fg != want || bgc != want {
		t.Errorf("Expected background cell %v, got fg=%v bg=%v", want, fg, bgc)
	}

	// Bedtime at 22:00
	pump(a, clock, time.Minute)
	if got := a.Session().Behaviour(); got != behaviour.GoToSleep && got != behaviour.Sleeping {
		t.Fatalf("Expected bedtime behaviour after 22:00, got %s", got)
	}
	pump(a, clock, 10*time.Second)
	if got := a.Session().Behaviour(); got != behaviour.Sleeping {
		t.Fatalf("Expected sleeping, got %s", got)
	}

	if err := a.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	saved, err := storage.Load(settingsPath)
	if err != nil {
		t.Fatal(err)
	}
	if saved.State != behaviour.Sleeping || saved.BackgroundColor != (storage.Color{B: 0x55}) {
		t.Errorf("Expected sleeping on #000055, saved %s on %s", saved.State, saved.BackgroundColor)
	}

	// Next morning, after get-up time, Boris gets up first
	clock2 := timer.NewManualClock(at(2, 9, 0, 0))
	b, err := app.New(app.Options{SettingsPath: settingsPath, Seed: 7, Clock: clock2})
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()
	b.Begin(nil)
	b.Pump()
	if got := b.Session().Behaviour(); got != behaviour.GetUp {
		t.Errorf("Expected get_up on restart, got %s", got)
	}
	if got := b.Face().Background(); got != (color.RGBA{B: 0x55, A: 0xff}) {
		t.Errorf("Expected saved background, got %v", got)
	}
}

// writePack writes a pack.yaml and one small GIF per behaviour.
func writePack(t *testing.T, dir string, bs []behaviour.Behaviour, frames int) {
	t.Helper()
	var manifest strings.Builder
	manifest.WriteString("name: test\nbehaviours:\n")
	for _, b := range bs {
		name := b.String() + ".gif"
		fmt.Fprintf(&manifest, "  %s:\n    file: %s\n", b, name)

		g := &gif.GIF{}
		pal := color.Palette{color.Transparent, color.RGBA{R: 0xff, A: 0xff}}
		for i := 0; i < frames; i++ {
			img := image.NewPaletted(image.Rect(0, 0, 16, 16), pal)
			img.SetColorIndex(i%16, i%16, 1)
			g.Image = append(g.Image, img)
			g.Delay = append(g.Delay, 5)
		}
		f, err := os.Create(filepath.Join(dir, name))
		if err != nil {
			t.Fatal(err)
		}
		if err := gif.EncodeAll(f, g); err != nil {
			t.Fatal(err)
		}
		f.Close()
	}
	if err := os.WriteFile(filepath.Join(dir, "pack.yaml"), []byte(manifest.String()), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestClassicVariantWithPack(t *testing.T) {
	tmpDir := t.TempDir()
	packDir := filepath.Join(tmpDir, "pack")
	if err := os.MkdirAll(packDir, 0755); err != nil {
		t.Fatal(err)
	}
	writePack(t, packDir, sprite.Classic.Behaviours(), 4)

	v, err := sprite.VariantByName("Classic")
	if err != nil {
		t.Fatal(err)
	}
	clock := timer.NewManualClock(at(1, 12, 0, 0))
	a, err := app.New(app.Options{
		SettingsPath: filepath.Join(tmpDir, storage.DirName, storage.SettingsFile),
		PackDir:      packDir,
		Variant:      v,
		Seed:         3,
		Clock:        clock,
	})
	if err != nil {
		t.Fatalf("Failed to create app: %v", err)
	}
	defer a.Close()

	a.Begin(nil)
	a.Pump()

	seen := map[behaviour.Behaviour]bool{}
	for i := 0; i < 600; i++ {
		pump(a, clock, 100*time.Millisecond)
		b := a.Session().Behaviour()
		if !v.Has(b) {
			t.Fatalf("Classic variant played %s", b)
		}
		seen[b] = true
		if !a.Session().Bounds().Contains(a.Session().Pose()) {
			t.Fatalf("Pose %+v escaped %+v", a.Session().Pose(), a.Session().Bounds())
		}
	}
	if len(seen) < 3 {
		t.Errorf("Expected several behaviours over a minute, saw %v", seen)
	}
	if err := a.Err(); err != nil {
		t.Errorf("Unexpected fatal error: %v", err)
	}
}

func TestMissingPackFails(t *testing.T) {
	tmpDir := t.TempDir()
	packDir := filepath.Join(tmpDir, "pack")
	if err := os.MkdirAll(packDir, 0755); err != nil {
		t.Fatal(err)
	}
	// Boris needs more behaviours than the classic pack carries
	writePack(t, packDir, sprite.Classic.Behaviours(), 2)

	_, err := app.New(app.Options{PackDir: packDir, Variant: sprite.Boris})
	if err == nil {
		t.Fatal("Expected an error for an incomplete pack")
	}
}
