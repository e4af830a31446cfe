// Package display presents the rendered face in a terminal using half-block
// characters, two pixel rows per cell.
package display

import (
	"image"
	"sync"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/image/draw"
)

const halfBlock = '▀'

// Terminal draws frames on a tcell screen.
type Terminal struct {
	mu     sync.Mutex
	screen tcell.Screen
	scale  int
	small  *image.RGBA
}

// NewTerminal opens the real terminal. scale divides the face resolution.
func NewTerminal(scale int) (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	return NewTerminalWithScreen(screen, scale), nil
}

// NewTerminalWithScreen wraps an initialised screen.
func NewTerminalWithScreen(screen tcell.Screen, scale int) *Terminal {
	if scale < 1 {
		scale = 1
	}
	screen.HideCursor()
	return &Terminal{screen: screen, scale: scale}
}

// Present draws img, downscaled, at the top-left of the screen.
func (t *Terminal) Present(img *image.RGBA) {
	t.mu.Lock()
	defer t.mu.Unlock()

	b := img.Bounds()
	w, h := b.Dx()/t.scale, b.Dy()/t.scale
	if t.small == nil || t.small.Bounds().Dx() != w || t.small.Bounds().Dy() != h {
		t.small = image.NewRGBA(image.Rect(0, 0, w, h))
	}
	draw.NearestNeighbor.Scale(t.small, t.small.Bounds(), img, b, draw.Src, nil)

	for y := 0; y < h; y += 2 {
		for x := 0; x < w; x++ {
			top := t.small.RGBAAt(x, y)
			bottom := top
			if y+1 < h {
				bottom = t.small.RGBAAt(x, y+1)
			}
			style := tcell.StyleDefault.
				Foreground(tcell.NewRGBColor(int32(top.R), int32(top.G), int32(top.B))).
				Background(tcell.NewRGBColor(int32(bottom.R), int32(bottom.G), int32(bottom.B)))
			t.screen.SetContent(x, y/2, halfBlock, nil, style)
		}
	}
	t.screen.Show()
}

// Keys forwards key presses until the screen is finalised. Ctrl-C and Esc
// map to KeyQuit.
func (t *Terminal) Keys(handle func(Key)) {
	for {
		ev := t.screen.PollEvent()
		switch ev := ev.(type) {
		case nil:
			return
		case *tcell.EventResize:
			t.mu.Lock()
			t.screen.Sync()
			t.mu.Unlock()
		case *tcell.EventKey:
			switch ev.Key() {
			case tcell.KeyEscape, tcell.KeyCtrlC:
				handle(KeyQuit)
			case tcell.KeyRune:
				if k := KeyForRune(ev.Rune()); k != KeyNone {
					handle(k)
				}
			}
		}
	}
}

// Size is the cell area a full frame occupies.
func (t *Terminal) Size(frame image.Rectangle) (cols, rows int) {
	w, h := frame.Dx()/t.scale, frame.Dy()/t.scale
	return w, (h + 1) / 2
}

func (t *Terminal) Close() {
	t.screen.Fini()
}
