// internal/grounding/geometry.go
package grounding

// Rect is an axis-aligned rectangle in screen-pixel coordinates.
type Rect struct {
	X, Y, Width, Height float64
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Area returns the rectangle's area.
func (r Rect) Area() float64 { return r.Width * r.Height }

// ContainsBox reports whether the query box lies fully inside the rectangle:
// both of its horizontal edges within the horizontal span and both vertical
// edges within the vertical span. Mere overlap does not qualify.
func (r Rect) ContainsBox(b Box) bool {
	return b.X1 >= r.X && b.X2 <= r.Right() &&
		b.Y1 >= r.Y && b.Y2 <= r.Bottom()
}

// Box is a query rectangle expressed as two corners (x1,y1)-(x2,y2) in
// pixel space.
type Box struct {
	X1, Y1, X2, Y2 float64
}

// Candidate is an interactive element exposed by the browser-state layer.
// The resolver only reads the viewport rectangle; candidates are never
// mutated.
type Candidate interface {
	ViewportRect() Rect
}
