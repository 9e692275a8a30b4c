package canvas

// BBox is an axis-aligned bounding box in absolute canvas coordinates.
// The origin is the top-left corner of the canvas; Bottom > Top.
type BBox struct {
	Left   float64
	Top    float64
	Right  float64
	Bottom float64
}

// Width returns the horizontal extent of the box.
func (b BBox) Width() float64 { return b.Right - b.Left }

// Height returns the vertical extent of the box.
func (b BBox) Height() float64 { return b.Bottom - b.Top }

// Intersects reports whether the two boxes share any area. Boxes that
// merely touch edges do not intersect.
func (b BBox) Intersects(other BBox) bool {
	return b.Left < other.Right && other.Left < b.Right &&
		b.Top < other.Bottom && other.Top < b.Bottom
}

// Pad returns the box grown by margin on every side.
func (b BBox) Pad(margin float64) BBox {
	return BBox{
		Left:   b.Left - margin,
		Top:    b.Top - margin,
		Right:  b.Right + margin,
		Bottom: b.Bottom + margin,
	}
}

// Bounds computes the absolute bounding box of an element positioned
// inside a parent at (parentLeft, parentTop). This is the only place
// effective geometry is turned into a box; the validator and repairer
// both depend on it so their boundary math cannot diverge.
func Bounds(e *Element, parentLeft, parentTop float64) BBox {
	left := parentLeft + e.Left
	top := parentTop + e.Top
	return BBox{
		Left:   left,
		Top:    top,
		Right:  left + e.EffectiveWidth(),
		Bottom: top + e.EffectiveHeight(),
	}
}
