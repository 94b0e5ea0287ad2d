// internal/grounding/resolver_test.go
package grounding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeElement struct {
	id   string
	rect Rect
}

func (f fakeElement) ViewportRect() Rect { return f.rect }

func TestPointToBox(t *testing.T) {
	box := PointToBox(15, 15, 100, 100)
	assert.Equal(t, Box{X1: 10, Y1: 10, X2: 20, Y2: 20}, box)
}

func TestPointToBox_ClampsToScreen(t *testing.T) {
	testCases := []struct {
		name     string
		x, y     float64
		expected Box
	}{
		{"top left corner", 0, 0, Box{X1: 0, Y1: 0, X2: 5, Y2: 5}},
		{"bottom right corner", 100, 100, Box{X1: 95, Y1: 95, X2: 100, Y2: 100}},
		{"near left edge", 2, 50, Box{X1: 0, Y1: 45, X2: 7, Y2: 55}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, PointToBox(tc.x, tc.y, 100, 100))
		})
	}
}

func TestResolve_SmallestContainingWins(t *testing.T) {
	query := Box{X1: 10, Y1: 10, X2: 20, Y2: 20}
	elements := []fakeElement{
		{id: "A", rect: Rect{X: 0, Y: 0, Width: 100, Height: 100}},
		{id: "B", rect: Rect{X: 5, Y: 5, Width: 20, Height: 20}},
	}

	elem, found := Resolve(query, elements)
	require.True(t, found)
	assert.Equal(t, "B", elem.id)
}

func TestResolve_ContainmentNotOverlap(t *testing.T) {
	// The element overlaps the query box but does not fully contain it, so
	// it must not match.
	query := Box{X1: 10, Y1: 10, X2: 20, Y2: 20}
	elements := []fakeElement{
		{id: "partial", rect: Rect{X: 15, Y: 15, Width: 50, Height: 50}},
	}

	_, found := Resolve(query, elements)
	assert.False(t, found)
}

func TestResolve_NoMatchIsNormal(t *testing.T) {
	query := Box{X1: 500, Y1: 500, X2: 510, Y2: 510}
	elements := []fakeElement{
		{id: "A", rect: Rect{X: 0, Y: 0, Width: 100, Height: 100}},
	}

	_, found := Resolve(query, elements)
	assert.False(t, found)

	_, found = Resolve(query, []fakeElement{})
	assert.False(t, found)
}

func TestResolve_TieKeepsFirst(t *testing.T) {
	query := Box{X1: 10, Y1: 10, X2: 20, Y2: 20}
	elements := []fakeElement{
		{id: "first", rect: Rect{X: 0, Y: 0, Width: 50, Height: 50}},
		{id: "second", rect: Rect{X: 0, Y: 0, Width: 50, Height: 50}},
	}

	elem, found := Resolve(query, elements)
	require.True(t, found)
	assert.Equal(t, "first", elem.id)
}

func TestScreenPoint(t *testing.T) {
	x, y, err := ScreenPoint("[0.5,0.5,0.5,0.5]", 1000, 800)
	require.NoError(t, err)
	assert.Equal(t, 500.0, x)
	assert.Equal(t, 400.0, y)
}

func TestScreenPoint_RequiresScreenContext(t *testing.T) {
	_, _, err := ScreenPoint("[0.5,0.5]", 0, 800)
	assert.ErrorIs(t, err, ErrNoScreenContext)

	_, _, err = ScreenPoint("[0.5,0.5]", 1000, 0)
	assert.ErrorIs(t, err, ErrNoScreenContext)
}

func TestScreenPoint_MalformedRegion(t *testing.T) {
	_, _, err := ScreenPoint("not json", 1000, 800)
	assert.Error(t, err)

	_, _, err = ScreenPoint("[0.5]", 1000, 800)
	assert.Error(t, err)
}

func TestLocate(t *testing.T) {
	elements := []fakeElement{
		{id: "big", rect: Rect{X: 0, Y: 0, Width: 1000, Height: 800}},
		{id: "button", rect: Rect{X: 480, Y: 380, Width: 40, Height: 40}},
	}

	elem, found, err := Locate("[0.5,0.5,0.5,0.5]", 1000, 800, elements)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "button", elem.id)
}
