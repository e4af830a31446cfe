// Package anim decodes the frame sequences Boris plays: GIF files from an
// animation pack on disk, or the procedural built-in pack.
package anim

import (
	"errors"
	"image"
	"time"

	"golang.org/x/image/draw"
)

// DefaultDelay is used when a frame carries no usable delay.
const DefaultDelay = 100 * time.Millisecond

var (
	ErrMissing = errors.New("animation missing")
	ErrCorrupt = errors.New("animation corrupt")
)

// Frame is one fully composited image and how long it stays on screen.
// A nil Image marks a frame that failed to decode.
type Frame struct {
	Image image.Image
	Delay time.Duration
}

// Frames is a cursor over a decoded sequence.
//
// After the last frame is drawn CurrentFrame equals TotalFrames. The next
// call to Next starts over at frame zero when the sequence loops, and
// reports no redraw otherwise.
type Frames struct {
	name   string
	frames []Frame
	idx    int
	loop   bool
	last   time.Duration
}

func NewFrames(name string, frames []Frame, loop bool) *Frames {
	return &Frames{name: name, frames: frames, loop: loop}
}

func (f *Frames) Name() string { return f.name }

func (f *Frames) Restart() {
	f.idx = 0
}

func (f *Frames) CurrentFrame() int { return f.idx }

func (f *Frames) TotalFrames() int { return len(f.frames) }

// Next draws the next frame into dst and returns its delay. drawn is false
// when the sequence is exhausted or the frame is corrupt; dst is untouched
// in that case.
func (f *Frames) Next(dst *image.RGBA) (drawn bool, delay time.Duration) {
	if len(f.frames) == 0 {
		return false, DefaultDelay
	}
	if f.idx >= len(f.frames) {
		if !f.loop {
			return false, f.lastDelay()
		}
		f.idx = 0
	}

	frame := f.frames[f.idx]
	f.idx++
	delay = frame.Delay
	if delay <= 0 {
		delay = DefaultDelay
	}
	f.last = delay

	if frame.Image == nil || dst == nil {
		return false, delay
	}
	draw.Draw(dst, dst.Bounds(), frame.Image, frame.Image.Bounds().Min, draw.Src)
	return true, delay
}

func (f *Frames) lastDelay() time.Duration {
	if f.last > 0 {
		return f.last
	}
	return DefaultDelay
}

// fit scales src onto a transparent size×size square.
func fit(src image.Image, size int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	if src.Bounds().Dx() == size && src.Bounds().Dy() == size {
		draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Src)
		return dst
	}
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}
