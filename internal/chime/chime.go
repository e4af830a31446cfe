// Package chime plays the short wake-up jingle.
package chime

import (
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const SampleRate = beep.SampleRate(44100)

type Note struct {
	Freq   float64
	Length time.Duration
}

// WakeUp is E5 then A5.
var WakeUp = []Note{
	{Freq: 659.25, Length: 180 * time.Millisecond},
	{Freq: 880.00, Length: 320 * time.Millisecond},
}

// DefaultVolume plays the chime at unity gain.
const DefaultVolume = 1.0

// Streamer renders notes back to back at the given volume (0..1). Zero or
// less is silent.
func Streamer(sr beep.SampleRate, notes []Note, volume float64) (beep.Streamer, error) {
	parts := make([]beep.Streamer, 0, len(notes))
	for _, n := range notes {
		tone, err := generators.SineTone(sr, n.Freq)
		if err != nil {
			return nil, fmt.Errorf("chime: %.2f Hz: %w", n.Freq, err)
		}
		parts = append(parts, beep.Take(sr.N(n.Length), tone))
	}
	seq := beep.Seq(parts...)
	if volume <= 0 {
		return &effects.Volume{Streamer: seq, Base: 2, Silent: true}, nil
	}
	return &effects.Volume{Streamer: seq, Base: 2, Volume: math.Log2(volume)}, nil
}

// Player opens the speaker on first use. If that fails the chime stays
// silent for the rest of the run.
type Player struct {
	mu       sync.Mutex
	ready    bool
	disabled bool
	volume   float64
	log      *slog.Logger

	init func() error
	play func(beep.Streamer)
}

func NewPlayer(volume float64, logger *slog.Logger) *Player {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Player{
		volume: volume,
		log:    logger,
		init: func() error {
			return speaker.Init(SampleRate, SampleRate.N(time.Second/10))
		},
		play: func(s beep.Streamer) { speaker.Play(s) },
	}
}

func (p *Player) Play(notes []Note) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.disabled {
		return
	}
	if !p.ready {
		if err := p.init(); err != nil {
			p.log.Warn("audio unavailable, chime disabled", "err", err)
			p.disabled = true
			return
		}
		p.ready = true
	}

	s, err := Streamer(SampleRate, notes, p.volume)
	if err != nil {
		p.log.Warn("chime failed", "err", err)
		return
	}
	p.play(s)
}

// Enabled reports whether the chime can still sound.
func (p *Player) Enabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.disabled
}
