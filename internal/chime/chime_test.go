package chime

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"
)

func drain(s beep.Streamer) int {
	buf := make([][2]float64, 512)
	total := 0
	for {
		n, ok := s.Stream(buf)
		total += n
		if !ok {
			return total
		}
	}
}

func TestStreamerLength(t *testing.T) {
	s, err := Streamer(SampleRate, WakeUp, 0.5)
	if err != nil {
		t.Fatalf("Streamer: %v", err)
	}
	want := SampleRate.N(180*time.Millisecond) + SampleRate.N(320*time.Millisecond)
	if got := drain(s); got != want {
		t.Errorf("chime is %d samples, want %d", got, want)
	}
}

func peak(s beep.Streamer) float64 {
	buf := make([][2]float64, 512)
	top := 0.0
	for {
		n, ok := s.Stream(buf)
		for _, sample := range buf[:n] {
			top = math.Max(top, math.Abs(sample[0]))
		}
		if !ok {
			return top
		}
	}
}

func TestStreamerVolume(t *testing.T) {
	tests := []struct {
		name    string
		volume  float64
		audible bool
	}{
		{"default", DefaultVolume, true},
		{"quiet", 0.25, true},
		{"muted", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Streamer(SampleRate, WakeUp, tt.volume)
			if err != nil {
				t.Fatalf("Streamer: %v", err)
			}
			if got := peak(s) > 0; got != tt.audible {
				t.Errorf("audible = %v at volume %v, want %v", got, tt.volume, tt.audible)
			}
		})
	}
}

func TestStreamerRejectsBadFrequency(t *testing.T) {
	if _, err := Streamer(SampleRate, []Note{{Freq: 30000, Length: time.Millisecond}}, 1); err == nil {
		t.Error("frequency above Nyquist accepted")
	}
}

func TestPlayerDisablesOnInitFailure(t *testing.T) {
	p := NewPlayer(1, nil)
	inits, plays := 0, 0
	p.init = func() error { inits++; return errors.New("no audio device") }
	p.play = func(beep.Streamer) { plays++ }

	p.Play(WakeUp)
	p.Play(WakeUp)
	if inits != 1 || plays != 0 {
		t.Errorf("inits=%d plays=%d, want 1 and 0", inits, plays)
	}
	if p.Enabled() {
		t.Error("player still enabled")
	}
}

func TestPlayerInitialisesOnce(t *testing.T) {
	p := NewPlayer(0.3, nil)
	inits, plays := 0, 0
	p.init = func() error { inits++; return nil }
	p.play = func(beep.Streamer) { plays++ }

	p.Play(WakeUp)
	p.Play(WakeUp)
	if inits != 1 || plays != 2 {
		t.Errorf("inits=%d plays=%d, want 1 and 2", inits, plays)
	}
}
