package mole

// Layout holds the fixed geometry constants of the play surface.
// Units are whatever the presentation layer reports in (pixels on a phone,
// cells in a terminal).
type Layout struct {
	TargetSize int // Default edge length of the square target
	TopInset   int // Height reserved for the header (score, timer)
	YMinOffset int // Smallest Y the target may be placed at
}

// DefaultLayout returns the pixel layout for phone-sized screens.
func DefaultLayout() Layout {
	return Layout{
		TargetSize: 150,
		TopInset:   200,
		YMinOffset: 100,
	}
}

// PlayArea is the playable surface as last reported by the presentation layer.
type PlayArea struct {
	Width      int
	Height     int
	TargetSize int
}

// Position is the top-left corner of the target.
type Position struct {
	X, Y int
}

// Bounds is the rectangle of valid target positions derived from a PlayArea.
// X ranges over [0, MaxX) and Y over [YMinOffset, YMinOffset+MaxY).
type Bounds struct {
	MaxX       int
	MaxY       int
	YMinOffset int
}

// DeriveBounds computes placement bounds for an area under the given layout.
func DeriveBounds(area PlayArea, layout Layout) Bounds {
	return Bounds{
		MaxX:       area.Width - area.TargetSize,
		MaxY:       area.Height - area.TargetSize - layout.TopInset,
		YMinOffset: layout.YMinOffset,
	}
}

// Valid reports whether any position can be drawn from the bounds.
func (b Bounds) Valid() bool {
	return b.MaxX > 0 && b.MaxY > 0
}

// Contains reports whether p lies inside the bounds.
func (b Bounds) Contains(p Position) bool {
	if !b.Valid() {
		return false
	}
	return p.X >= 0 && p.X < b.MaxX &&
		p.Y >= b.YMinOffset && p.Y < b.YMinOffset+b.MaxY
}
