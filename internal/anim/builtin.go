package anim

import (
	"image"
	"image/color"
	"time"

	"github.com/sethgrid/boris/internal/behaviour"
)

// Boris is drawn on a 32-unit grid and scaled to the sprite size.
const grid = 32

var (
	fur     = color.RGBA{0xd9, 0x8c, 0x3f, 0xff}
	belly   = color.RGBA{0xf2, 0xd0, 0x9e, 0xff}
	ink     = color.RGBA{0x1a, 0x1a, 0x1a, 0xff}
	white   = color.RGBA{0xff, 0xff, 0xff, 0xff}
	paper   = color.RGBA{0xee, 0xee, 0xe4, 0xff}
	water   = color.RGBA{0x55, 0xaa, 0xff, 0xff}
	leaf    = color.RGBA{0x44, 0xbb, 0x44, 0xff}
	mug     = color.RGBA{0x7a, 0x4a, 0x2a, 0xff}
	tongue  = color.RGBA{0xff, 0x77, 0x99, 0xff}
	red     = color.RGBA{0xdd, 0x22, 0x22, 0xff}
	yellow  = color.RGBA{0xff, 0xdd, 0x33, 0xff}
	invader = color.RGBA{0x66, 0xff, 0x66, 0xff}
)

type recipe struct {
	frames int
	delay  time.Duration
	paint  func(c *canvas, i, n int)
}

var recipes = map[behaviour.Behaviour]recipe{
	behaviour.Standing:   {10, 150 * time.Millisecond, paintStanding},
	behaviour.Sleeping:   {12, 250 * time.Millisecond, paintSleeping},
	behaviour.WalkLeft:   {8, 120 * time.Millisecond, paintWalk(-1, 0)},
	behaviour.WalkRight:  {8, 120 * time.Millisecond, paintWalk(1, 0)},
	behaviour.WalkUp:     {8, 120 * time.Millisecond, paintWalk(0, -1)},
	behaviour.WalkDown:   {8, 120 * time.Millisecond, paintWalk(0, 1)},
	behaviour.Shredding:  {24, 100 * time.Millisecond, paintShredding},
	behaviour.Eating:     {16, 150 * time.Millisecond, paintEating},
	behaviour.Invaders:   {30, 100 * time.Millisecond, paintInvaders},
	behaviour.Coffee:     {22, 150 * time.Millisecond, paintCoffee},
	behaviour.Shower:     {12, 100 * time.Millisecond, paintShower},
	behaviour.ReadPaper:  {24, 200 * time.Millisecond, paintReadPaper},
	behaviour.Scare:      {20, 80 * time.Millisecond, paintScare},
	behaviour.Sunglasses: {14, 150 * time.Millisecond, paintSunglasses},
	behaviour.TongueOut:  {8, 150 * time.Millisecond, paintTongueOut},
	behaviour.WeeWee:     {20, 150 * time.Millisecond, paintWeeWee},
	behaviour.Balloon:    {26, 120 * time.Millisecond, paintBalloon},
	behaviour.GiftWrap:   {28, 120 * time.Millisecond, paintGiftWrap},
	behaviour.GoToSleep:  {12, 200 * time.Millisecond, paintGoToSleep},
	behaviour.GetUp:      {12, 200 * time.Millisecond, paintGetUp},
}

// Builtin renders the procedural pack for every behaviour at size×size.
func Builtin(size int) Pack {
	pack := make(Pack, len(recipes))
	for _, b := range behaviour.All() {
		pack[b] = BuiltinFrames(b, size)
	}
	return pack
}

// BuiltinFrames renders one behaviour of the procedural pack.
func BuiltinFrames(b behaviour.Behaviour, size int) *Frames {
	r, ok := recipes[b]
	if !ok {
		r = recipes[behaviour.Standing]
	}
	frames := make([]Frame, r.frames)
	for i := range frames {
		c := newCanvas(size)
		r.paint(c, i, r.frames)
		frames[i] = Frame{Image: c.img, Delay: r.delay}
	}
	return NewFrames(b.String(), frames, true)
}

type canvas struct {
	img  *image.RGBA
	size int
	dx   int
	dy   int
}

func newCanvas(size int) *canvas {
	return &canvas{img: image.NewRGBA(image.Rect(0, 0, size, size)), size: size}
}

func (c *canvas) offset(dx, dy int) {
	c.dx, c.dy = dx, dy
}

// rect fills grid cells [x0,x1)×[y0,y1).
func (c *canvas) rect(x0, y0, x1, y1 int, col color.RGBA) {
	px0, py0 := c.scale(x0+c.dx), c.scale(y0+c.dy)
	px1, py1 := c.scale(x1+c.dx), c.scale(y1+c.dy)
	if px1 == px0 {
		px1++
	}
	if py1 == py0 {
		py1++
	}
	for y := py0; y < py1; y++ {
		for x := px0; x < px1; x++ {
			if image.Pt(x, y).In(c.img.Rect) {
				c.img.SetRGBA(x, y, col)
			}
		}
	}
}

func (c *canvas) disc(cx, cy, r int, col color.RGBA) {
	for y := cy - r; y <= cy+r; y++ {
		for x := cx - r; x <= cx+r; x++ {
			if (x-cx)*(x-cx)+(y-cy)*(y-cy) <= r*r {
				c.rect(x, y, x+1, y+1, col)
			}
		}
	}
}

func (c *canvas) scale(v int) int {
	return v * c.size / grid
}

// body draws Boris with his eyes looking (lx, ly) and feet stepping.
func body(c *canvas, lx, ly int, stride int) {
	c.rect(10, 26, 14, 29+stride, ink)
	c.rect(18, 26, 22, 29-stride, ink)
	c.disc(16, 18, 9, fur)
	c.disc(16, 21, 5, belly)
	eyes(c, lx, ly, 2)
}

func eyes(c *canvas, lx, ly, h int) {
	c.rect(12+lx, 14+ly, 14+lx, 14+ly+h, ink)
	c.rect(18+lx, 14+ly, 20+lx, 14+ly+h, ink)
}

func closedEyes(c *canvas) {
	c.rect(11, 15, 15, 16, ink)
	c.rect(17, 15, 21, 16, ink)
}

func lids(c *canvas) {
	c.rect(11, 13, 21, 15, fur)
}

func paintStanding(c *canvas, i, n int) {
	body(c, 0, 0, 0)
	if i == n-1 {
		lids(c)
		closedEyes(c)
	}
}

func paintWalk(lx, ly int) func(*canvas, int, int) {
	return func(c *canvas, i, n int) {
		stride := 1
		if i%2 == 1 {
			stride = -1
		}
		c.offset(0, i%2)
		body(c, lx, ly, stride)
	}
}

func paintSleeping(c *canvas, i, n int) {
	c.offset(0, 2)
	body(c, 0, 0, 0)
	lids(c)
	closedEyes(c)
	c.offset(0, 0)
	z := i % 6
	c.rect(24, 8-z, 28, 9-z, white)
	c.rect(27, 9-z, 28, 11-z, white)
	c.rect(24, 11-z, 28, 12-z, white)
}

func paintGoToSleep(c *canvas, i, n int) {
	c.offset(0, 2*i/n)
	body(c, 0, 0, 0)
	if i >= n/2 {
		lids(c)
		closedEyes(c)
	}
}

func paintGetUp(c *canvas, i, n int) {
	paintGoToSleep(c, n-1-i, n)
	if i > n-3 {
		c.rect(4, 4, 6, 6, yellow)
		c.rect(26, 4, 28, 6, yellow)
	}
}

func paintShredding(c *canvas, i, n int) {
	body(c, 0, 1, 0)
	c.rect(9, 20, 23, 24, paper)
	for s := 0; s < 4; s++ {
		y := 24 + (i+s*3)%8
		c.rect(10+s*3, y, 11+s*3, y+2, paper)
	}
}

func paintEating(c *canvas, i, n int) {
	body(c, 0, 1, 0)
	left := 4 * (n - i) / n
	c.rect(20, 20, 20+left+1, 23, leaf)
	if i%2 == 0 {
		c.rect(14, 22, 18, 23, ink)
	}
}

func paintInvaders(c *canvas, i, n int) {
	body(c, 0, -1, 0)
	x := 4 + (i*2)%22
	c.rect(x, 2, x+5, 4, invader)
	c.rect(x+1, 4, x+2, 5, invader)
	c.rect(x+3, 4, x+4, 5, invader)
	if i%5 < 3 {
		y := 12 - (i%5)*3
		c.rect(16, y, 17, y+2, yellow)
	}
}

func paintCoffee(c *canvas, i, n int) {
	body(c, 1, 0, 0)
	c.rect(22, 19, 27, 25, mug)
	c.rect(27, 20, 28, 23, mug)
	if i < n-4 {
		c.rect(23+i%3, 15-i%4, 24+i%3, 16-i%4, white)
	}
}

func paintShower(c *canvas, i, n int) {
	body(c, 0, 0, 0)
	lids(c)
	closedEyes(c)
	c.rect(8, 0, 24, 2, white)
	for d := 0; d < 5; d++ {
		y := 2 + (i*3+d*5)%24
		c.rect(9+d*3, y, 10+d*3, y+2, water)
	}
}

func paintReadPaper(c *canvas, i, n int) {
	body(c, 0, 2, 0)
	c.rect(6, 17, 26, 27, paper)
	c.rect(16, 17, 17, 27, ink)
	if i >= n/2 {
		c.rect(8, 19, 14, 20, ink)
		c.rect(18, 21, 24, 22, ink)
	} else {
		c.rect(18, 19, 24, 20, ink)
		c.rect(8, 21, 14, 22, ink)
	}
}

func paintScare(c *canvas, i, n int) {
	c.offset(i%2*2-1, 0)
	c.rect(10, 26, 14, 29, ink)
	c.rect(18, 26, 22, 29, ink)
	c.disc(16, 18, 9, fur)
	c.disc(16, 21, 5, belly)
	c.disc(13, 15, 2, white)
	c.disc(19, 15, 2, white)
	eyes(c, 0, 0, 1)
	c.rect(14, 22, 18, 25, ink)
}

func paintSunglasses(c *canvas, i, n int) {
	body(c, 0, 0, 0)
	c.rect(10, 13, 22, 17, ink)
	if i%7 == 0 {
		c.rect(11, 13, 12, 14, white)
	}
}

func paintTongueOut(c *canvas, i, n int) {
	body(c, 0, 0, 0)
	c.rect(15, 22, 17, 24+i%3, tongue)
}

func paintWeeWee(c *canvas, i, n int) {
	body(c, 1, 0, 0)
	w := 1 + 8*i/n
	c.rect(20, 29, 20+w, 31, yellow)
}

func paintBalloon(c *canvas, i, n int) {
	lift := 0
	if i > n/3 && i < 2*n/3 {
		lift = -3
	}
	c.offset(0, lift)
	body(c, 0, -1, 0)
	c.rect(23, 8, 24, 18, ink)
	c.disc(24, 5, 4, red)
	if i == n-1 {
		c.offset(0, 0)
		c.rect(20, 0, 28, 1, red)
	}
}

func paintGiftWrap(c *canvas, i, n int) {
	body(c, 0, 0, 0)
	h := 22 * i / (n - 1)
	if h == 0 {
		return
	}
	top := 31 - h
	c.rect(6, top, 26, 31, red)
	c.rect(15, top, 17, 31, yellow)
	c.rect(6, top+h/2, 26, top+h/2+1, yellow)
}
