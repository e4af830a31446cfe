package face

import (
	"image"
	"image/color"

	"github.com/sethgrid/boris/internal/weather"
	"golang.org/x/image/colornames"
	"golang.org/x/image/draw"
)

var (
	sunColor   = colornames.Gold
	moonColor  = colornames.Lightgrey
	cloudColor = colornames.White
	darkCloud  = colornames.Darkgray
	rainColor  = colornames.Deepskyblue
	boltColor  = colornames.Yellow
	mistColor  = colornames.Silver
)

// drawIcon paints the weather icon for an OpenWeatherMap code into r on a
// 32-unit grid. Unknown codes draw nothing.
func drawIcon(dst draw.Image, r image.Rectangle, code string) {
	if !weather.Valid(code) {
		return
	}
	c := canvas{dst: dst, origin: r.Min, unit: r.Dx()}
	night := weather.Night(code)

	switch code[:2] {
	case "01":
		c.body(16, 16, 9, night)
	case "02":
		c.body(11, 11, 7, night)
		c.cloud(18, 20, cloudColor)
	case "03":
		c.cloud(16, 16, cloudColor)
	case "04":
		c.cloud(12, 12, darkCloud)
		c.cloud(18, 18, cloudColor)
	case "09":
		c.cloud(16, 12, cloudColor)
		c.rain(8, 22, 4)
	case "10":
		c.body(9, 9, 6, night)
		c.cloud(17, 14, cloudColor)
		c.rain(10, 24, 3)
	case "11":
		c.cloud(16, 12, darkCloud)
		c.bolt(15, 18)
	case "13":
		c.cloud(16, 12, cloudColor)
		for _, p := range []image.Point{{9, 23}, {15, 26}, {21, 23}, {12, 29}, {19, 29}} {
			c.rect(p.X, p.Y, p.X+2, p.Y+2, cloudColor)
		}
	case "50":
		for y := 8; y <= 24; y += 5 {
			c.rect(4+(y%3), y, 28-(y%4), y+2, mistColor)
		}
	}
}

type canvas struct {
	dst    draw.Image
	origin image.Point
	unit   int
}

// pt maps grid coordinates (0..32) to destination pixels.
func (c canvas) pt(x, y int) image.Point {
	return c.origin.Add(image.Pt(x*c.unit/32, y*c.unit/32))
}

func (c canvas) rect(x0, y0, x1, y1 int, col color.Color) {
	r := image.Rectangle{Min: c.pt(x0, y0), Max: c.pt(x1, y1)}
	draw.Draw(c.dst, r, image.NewUniform(col), image.Point{}, draw.Over)
}

func (c canvas) disc(cx, cy, radius int, col color.Color) {
	for y := -radius; y <= radius; y++ {
		for x := -radius; x <= radius; x++ {
			if x*x+y*y <= radius*radius {
				c.rect(cx+x, cy+y, cx+x+1, cy+y+1, col)
			}
		}
	}
}

// body is the sun by day and a crescent moon by night.
func (c canvas) body(cx, cy, radius int, night bool) {
	if !night {
		c.disc(cx, cy, radius, sunColor)
		return
	}
	for y := -radius; y <= radius; y++ {
		for x := -radius; x <= radius; x++ {
			inside := x*x+y*y <= radius*radius
			dx, dy := x-radius/2, y-radius/3
			bitten := dx*dx+dy*dy <= radius*radius*2/3
			if inside && !bitten {
				c.rect(cx+x, cy+y, cx+x+1, cy+y+1, moonColor)
			}
		}
	}
}

func (c canvas) cloud(cx, cy int, col color.Color) {
	c.disc(cx-5, cy, 5, col)
	c.disc(cx+1, cy-3, 6, col)
	c.disc(cx+6, cy+1, 4, col)
	c.rect(cx-5, cy, cx+7, cy+5, col)
}

func (c canvas) rain(x, y, drops int) {
	for i := 0; i < drops; i++ {
		dx := x + i*5
		c.rect(dx, y, dx+1, y+4, rainColor)
	}
}

func (c canvas) bolt(x, y int) {
	c.rect(x, y, x+3, y+4, boltColor)
	c.rect(x-2, y+4, x+2, y+6, boltColor)
	c.rect(x-3, y+6, x, y+11, boltColor)
}
