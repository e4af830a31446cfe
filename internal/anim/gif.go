package anim

import (
	"fmt"
	"image"
	"image/gif"
	"io"
	"time"

	"golang.org/x/image/draw"
)

// LoadGIF decodes every frame of an animated GIF, composited according to
// each frame's disposal method and scaled to size×size.
func LoadGIF(name string, r io.Reader, size int) (*Frames, error) {
	g, err := gif.DecodeAll(r)
	if err != nil {
		return nil, fmt.Errorf("anim: decode %s: %w: %v", name, ErrCorrupt, err)
	}
	if len(g.Image) == 0 {
		return nil, fmt.Errorf("anim: decode %s: %w: no frames", name, ErrCorrupt)
	}

	bounds := image.Rect(0, 0, g.Config.Width, g.Config.Height)
	if bounds.Empty() {
		bounds = g.Image[0].Bounds()
	}
	canvas := image.NewRGBA(bounds)
	frames := make([]Frame, 0, len(g.Image))

	for i, img := range g.Image {
		var previous *image.RGBA
		disposal := byte(gif.DisposalNone)
		if i < len(g.Disposal) {
			disposal = g.Disposal[i]
		}
		if disposal == gif.DisposalPrevious {
			previous = image.NewRGBA(bounds)
			draw.Draw(previous, bounds, canvas, bounds.Min, draw.Src)
		}

		draw.Draw(canvas, img.Bounds(), img, img.Bounds().Min, draw.Over)

		var delay time.Duration
		if i < len(g.Delay) {
			delay = time.Duration(g.Delay[i]) * 10 * time.Millisecond
		}
		frames = append(frames, Frame{Image: fit(canvas, size), Delay: delay})

		switch disposal {
		case gif.DisposalBackground:
			draw.Draw(canvas, img.Bounds(), image.Transparent, image.Point{}, draw.Src)
		case gif.DisposalPrevious:
			draw.Draw(canvas, bounds, previous, bounds.Min, draw.Src)
		}
	}

	return NewFrames(name, frames, g.LoopCount != -1), nil
}
