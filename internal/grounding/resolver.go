// internal/grounding/resolver.go
//
// Maps a parsed region descriptor onto a concrete interactive element. A
// normalized region becomes a pixel point, the point becomes a small query
// box, and the box selects the smallest candidate rectangle that fully
// contains it.
package grounding

import (
	"errors"
	"fmt"
	"math"

	json "github.com/json-iterator/go"
)

// BoxSize is the edge length in pixels of the query box derived from a
// screen point.
const BoxSize = 10.0

// ErrNoScreenContext reports that an operation requiring the viewport size
// was called without one. Defaulting here would silently corrupt every
// coordinate, so the caller must supply real dimensions.
var ErrNoScreenContext = errors.New("grounding: screen width and height are required")

// ScreenPoint converts a normalized region descriptor (a JSON array of 0-1
// floats, as produced by the prediction parser) into an absolute pixel point.
func ScreenPoint(region string, width, height float64) (x, y float64, err error) {
	if width <= 0 || height <= 0 {
		return 0, 0, ErrNoScreenContext
	}
	var coords []float64
	if err := json.UnmarshalFromString(region, &coords); err != nil {
		return 0, 0, fmt.Errorf("grounding: malformed region descriptor %q: %w", region, err)
	}
	if len(coords) < 2 {
		return 0, 0, fmt.Errorf("grounding: region descriptor %q has %d components, need at least 2", region, len(coords))
	}
	return coords[0] * width, coords[1] * height, nil
}

// PointToBox derives a fixed-size square query box centered on a pixel
// point, clamped to the screen bounds. Components are rounded to whole
// pixels.
func PointToBox(x, y, width, height float64) Box {
	half := BoxSize / 2
	return Box{
		X1: math.Round(math.Max(x-half, 0)),
		Y1: math.Round(math.Max(y-half, 0)),
		X2: math.Round(math.Min(x+half, width)),
		Y2: math.Round(math.Min(y+half, height)),
	}
}

// Resolve selects the candidate whose rectangle fully contains the query box,
// preferring the smallest area. Exact area ties keep the first candidate
// encountered. A miss is a normal outcome, reported by the second return
// value rather than an error.
func Resolve[T Candidate](box Box, candidates []T) (T, bool) {
	var (
		best     T
		found    bool
		smallest = math.Inf(1)
	)
	for _, c := range candidates {
		rect := c.ViewportRect()
		if !rect.ContainsBox(box) {
			continue
		}
		if area := rect.Area(); area < smallest {
			best = c
			found = true
			smallest = area
		}
	}
	return best, found
}

// Locate is the full region-to-element pipeline: region descriptor to pixel
// point, point to query box, box to the best containing candidate.
func Locate[T Candidate](region string, width, height float64, candidates []T) (T, bool, error) {
	var zero T
	x, y, err := ScreenPoint(region, width, height)
	if err != nil {
		return zero, false, err
	}
	elem, ok := Resolve(PointToBox(x, y, width, height), candidates)
	return elem, ok, nil
}
