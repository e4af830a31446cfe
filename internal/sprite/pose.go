package sprite

import "image"

// Display resolution of the watch.
const (
	ScreenWidth  = 144
	ScreenHeight = 168
)

// Pose is the sprite's top-left corner and edge length in display pixels.
type Pose struct {
	X, Y int
	Size int
}

func (p Pose) Rect() image.Rectangle {
	return image.Rect(p.X, p.Y, p.X+p.Size, p.Y+p.Size)
}

// Bounds is the inclusive range a pose may occupy.
type Bounds struct {
	MinX, MinY int
	MaxX, MaxY int
}

// TunedBounds allow for the empty margin around the sprite artwork.
func TunedBounds(size int) Bounds {
	return Bounds{
		MinX: -size + 5,
		MinY: -size,
		MaxX: ScreenWidth - 5,
		MaxY: ScreenHeight - 3,
	}
}

// ClassicBounds let the sprite slide fully off each edge.
func ClassicBounds(size int) Bounds {
	return Bounds{
		MinX: -size,
		MinY: -size,
		MaxX: ScreenWidth,
		MaxY: ScreenHeight,
	}
}

func (b Bounds) Contains(p Pose) bool {
	return p.X >= b.MinX && p.X <= b.MaxX && p.Y >= b.MinY && p.Y <= b.MaxY
}

// Wrap snaps a coordinate past one edge to the opposite edge so the sprite
// re-enters from the other side.
func (b Bounds) Wrap(p Pose) Pose {
	switch {
	case p.X < b.MinX:
		p.X = b.MaxX
	case p.X > b.MaxX:
		p.X = b.MinX
	}
	switch {
	case p.Y < b.MinY:
		p.Y = b.MaxY
	case p.Y > b.MaxY:
		p.Y = b.MinY
	}
	return p
}
