// Package window shows the watchface in a desktop window. Ebiten owns the
// frame loop, so the timer loop is pumped from Update.
package window

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/sethgrid/boris/internal/display"
)

// Driver is the part of the app the window needs.
type Driver interface {
	Pump()
	Done() bool
	HandleKey(k display.Key)
}

type Game struct {
	driver Driver
	width  int
	height int

	frame   *image.RGBA
	img     *ebiten.Image
	pending bool
	chars   []rune
}

func NewGame(d Driver, width, height int) *Game {
	return &Game{driver: d, width: width, height: height}
}

// Present implements app.Presenter. It runs inside Update, on the same
// goroutine as Draw.
func (g *Game) Present(frame *image.RGBA) {
	g.frame = frame
	g.pending = true
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.driver.HandleKey(display.KeyQuit)
	}
	g.chars = ebiten.AppendInputChars(g.chars[:0])
	for _, r := range g.chars {
		if k := display.KeyForRune(r); k != display.KeyNone {
			g.driver.HandleKey(k)
		}
	}

	g.driver.Pump()
	if g.driver.Done() {
		return ebiten.Termination
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	if g.frame == nil {
		return
	}
	if g.img == nil {
		g.img = ebiten.NewImage(g.width, g.height)
	}
	if g.pending {
		g.img.WritePixels(g.frame.Pix)
		g.pending = false
	}
	screen.DrawImage(g.img, nil)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.width, g.height
}

type Options struct {
	Zoom     int
	Floating bool
	Title    string
}

// Run opens the window and blocks until it closes.
func Run(g *Game, opts Options) error {
	if opts.Zoom < 1 {
		opts.Zoom = 1
	}
	if opts.Title == "" {
		opts.Title = "boris"
	}
	ebiten.SetWindowTitle(opts.Title)
	ebiten.SetWindowSize(g.width*opts.Zoom, g.height*opts.Zoom)
	ebiten.SetWindowFloating(opts.Floating)
	return ebiten.RunGame(g)
}
