// Package face composes the watchface: background, time, date, weather,
// battery meter and the sprite layer, rendered into a 144x168 image.
package face

import (
	"image"
	"image/color"
	"time"

	"github.com/sethgrid/boris/internal/battery"
	"github.com/sethgrid/boris/internal/weather"
	"golang.org/x/image/colornames"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	Width  = 144
	Height = 168

	TimeFormat = "15:04"
	DateFormat = "02 January"
)

// Layout positions, top-left corners in display pixels.
var (
	TimeAt       = image.Pt(13, 10)
	TimeShadowAt = image.Pt(13, 14)
	DateAt       = image.Pt(13, 60)
	DateShadowAt = image.Pt(13, 64)
	IconAt       = image.Pt(13, 98)
	TempAt       = image.Pt(55, 104)
	BatteryY     = 150
)

const (
	timeScale     = 3
	tempScale     = 2
	iconSize      = 32
	batteryHeight = 2
)

// Face is the state shown on the watch. It is owned by the event loop.
type Face struct {
	background color.RGBA
	clock      string
	date       string
	temp       string
	icon       string
	battery    int

	sprite *SpriteLayer
	dirty  bool
}

func New(background color.RGBA, sprite *SpriteLayer) *Face {
	return &Face{
		background: background,
		temp:       weather.Loading,
		battery:    100,
		sprite:     sprite,
		dirty:      true,
	}
}

func (f *Face) SetBackground(c color.RGBA) {
	f.background = c
	f.dirty = true
}

func (f *Face) SetClock(now time.Time) {
	f.clock = now.Format(TimeFormat)
	f.date = now.Format(DateFormat)
	f.dirty = true
}

// SetWeather shows r. A report without an icon keeps the current one.
func (f *Face) SetWeather(r weather.Report) {
	f.temp = r.Label()
	if r.Icon != "" {
		f.icon = r.Icon
	}
	f.dirty = true
}

func (f *Face) SetBattery(level int) {
	f.battery = battery.Clamp(level)
	f.dirty = true
}

func (f *Face) Background() color.RGBA { return f.background }
func (f *Face) Clock() string          { return f.clock }
func (f *Face) Date() string           { return f.date }
func (f *Face) Temperature() string    { return f.temp }
func (f *Face) Icon() string           { return f.icon }
func (f *Face) Battery() int           { return f.battery }
func (f *Face) Sprite() *SpriteLayer   { return f.sprite }

// Dirty reports and clears whether anything changed since the last call.
func (f *Face) Dirty() bool {
	d := f.dirty
	if f.sprite != nil && f.sprite.dirty {
		d = true
		f.sprite.dirty = false
	}
	f.dirty = false
	return d
}

// Render draws the whole face into dst, which should be Width x Height.
func (f *Face) Render(dst draw.Image) {
	draw.Draw(dst, dst.Bounds(), image.NewUniform(f.background), image.Point{}, draw.Src)

	if f.clock != "" {
		drawText(dst, f.clock, TimeShadowAt, timeScale, colornames.Black)
		drawText(dst, f.clock, TimeAt, timeScale, colornames.White)
	}
	if f.date != "" {
		drawText(dst, f.date, DateShadowAt, 1, colornames.Black)
		drawText(dst, f.date, DateAt, 1, colornames.White)
	}

	if f.icon != "" {
		drawIcon(dst, image.Rectangle{Min: IconAt, Max: IconAt.Add(image.Pt(iconSize, iconSize))}, f.icon)
	}
	scale := tempScale
	if len(f.temp) > 5 {
		scale = 1
	}
	drawText(dst, f.temp, TempAt.Add(image.Pt(0, 4)), scale, colornames.Black)
	drawText(dst, f.temp, TempAt, scale, colornames.White)

	bar := image.Rect(0, BatteryY, battery.MeterWidth(f.battery, Width), BatteryY+batteryHeight)
	draw.Draw(dst, bar, image.NewUniform(colornames.White), image.Point{}, draw.Src)

	if f.sprite != nil {
		f.sprite.drawOnto(dst)
	}
}

// drawText renders s with the 7x13 bitmap font, scaled up by nearest
// neighbour so the pixels stay crisp.
func drawText(dst draw.Image, s string, at image.Point, scale int, c color.Color) {
	face := basicfont.Face7x13
	w := font.MeasureString(face, s).Ceil()
	h := face.Height
	if w == 0 {
		return
	}
	src := image.NewRGBA(image.Rect(0, 0, w, h))
	d := font.Drawer{
		Dst:  src,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(0, face.Ascent),
	}
	d.DrawString(s)

	r := image.Rect(at.X, at.Y, at.X+w*scale, at.Y+h*scale)
	draw.NearestNeighbor.Scale(dst, r, src, src.Bounds(), draw.Over, nil)
}
