package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRealRectangleContainsWithTolerance(t *testing.T) {
	r := NewRealRectangle(0, -0.4, 10, 0.4)

	assert.True(t, r.Contains(Position{X: 5, Y: 0}))
	assert.True(t, r.Contains(Position{X: 10.0004, Y: 0}), "inside epsilon slack past the edge")
	assert.False(t, r.Contains(Position{X: 10.1, Y: 0}))
}

func TestNewRealRectangleOrdersCorners(t *testing.T) {
	r := NewRealRectangle(10, 5, 0, -5)
	assert.Equal(t, 0.0, r.MinX)
	assert.Equal(t, 10.0, r.MaxX)
	assert.Equal(t, -5.0, r.MinY)
	assert.Equal(t, 5.0, r.MaxY)
}

func TestRoundUsesNearestLatticePoint(t *testing.T) {
	assert.Equal(t, Point{X: 5, Y: 0}, Round(Position{X: 4.9, Y: 0}))
	assert.Equal(t, Point{X: 5, Y: 0}, Round(Position{X: 5.4, Y: 0}))
}

func TestNearZero(t *testing.T) {
	assert.True(t, NearZero(0.0001))
	assert.False(t, NearZero(0.01))
}
