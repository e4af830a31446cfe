package face

import (
	"image"

	"golang.org/x/image/draw"
)

// SpriteLayer is the sprite's presentation surface on the face.
type SpriteLayer struct {
	rect  image.Rectangle
	img   *image.RGBA
	dirty bool
}

func NewSpriteLayer(rect image.Rectangle) *SpriteLayer {
	return &SpriteLayer{
		rect:  rect,
		img:   image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy())),
		dirty: true,
	}
}

func (l *SpriteLayer) SetPosition(r image.Rectangle) {
	if r == l.rect {
		return
	}
	l.rect = r
	l.dirty = true
}

// SetPixels copies img so the caller can keep drawing into its buffer.
func (l *SpriteLayer) SetPixels(img *image.RGBA) {
	if img.Bounds().Size() != l.img.Bounds().Size() {
		l.img = image.NewRGBA(image.Rectangle{Max: img.Bounds().Size()})
	}
	draw.Copy(l.img, image.Point{}, img, img.Bounds(), draw.Src, nil)
}

func (l *SpriteLayer) MarkDirty() {
	l.dirty = true
}

func (l *SpriteLayer) Rect() image.Rectangle { return l.rect }
func (l *SpriteLayer) Image() *image.RGBA    { return l.img }

func (l *SpriteLayer) drawOnto(dst draw.Image) {
	draw.Draw(dst, l.rect, l.img, image.Point{}, draw.Over)
}
