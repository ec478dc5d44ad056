package rtree

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func rect(minX, minY, maxX, maxY float64) MBR[float64] {
	return NewMBR([]float64{minX, minY, maxX, maxY})
}

func TestAreaOfPointIsZero(t *testing.T) {
	p := rect(5, 5, 5, 5)
	assert.Equal(t, 0.0, p.Area())
}

func TestAreaOfRectangle(t *testing.T) {
	r := rect(0, 0, 10, 10)
	assert.Equal(t, 100.0, r.Area())
}

func TestUnionIsSmallestCoveringBox(t *testing.T) {
	a := rect(0, 0, 10, 10)
	b := rect(5, 5, 15, 15)
	u := a.Union(b)
	assert.Equal(t, rect(0, 0, 15, 15), u)
}

func TestEnlargementWithSelfIsZero(t *testing.T) {
	a := rect(0, 0, 10, 10)
	assert.Equal(t, 0.0, a.Enlargement(a))
}

func TestEnlargementIsMarginalCost(t *testing.T) {
	a := rect(0, 0, 10, 10)
	b := rect(5, 5, 20, 20)
	// union is [0,0,20,20] -> area 400; a's own area is 100.
	assert.Equal(t, 300.0, a.Enlargement(b))
}

func TestOverlapClosedBoxes(t *testing.T) {
	a := rect(0, 0, 10, 10)
	b := rect(10, 10, 20, 20) // touches at corner (10,10)
	assert.True(t, a.Overlaps(b))

	c := rect(11, 11, 20, 20)
	assert.False(t, a.Overlaps(c))
}

func TestOverlapWithPoint(t *testing.T) {
	a := rect(0, 0, 10, 10)
	p := rect(0, 0, 0, 0)
	assert.True(t, a.Overlaps(p))
}

func TestComprisesIsPartialOrder(t *testing.T) {
	outer := rect(0, 0, 100, 100)
	inner := rect(5, 5, 15, 15)
	assert.True(t, outer.Comprises(inner))
	assert.False(t, inner.Comprises(outer))
	assert.True(t, outer.Comprises(outer)) // non-strict, equal counts
}

func TestStrictlyComprisesRequiresStrictInequality(t *testing.T) {
	outer := rect(0, 0, 100, 100)
	touching := rect(0, 5, 15, 15)
	assert.False(t, outer.StrictlyComprises(touching))

	strictlyInside := rect(5, 5, 15, 15)
	assert.True(t, outer.StrictlyComprises(strictlyInside))
}

func TestEqualsAndDimensionMismatchPanics(t *testing.T) {
	a := rect(0, 0, 1, 1)
	b := NewMBR([]float64{0, 0, 0, 1, 1, 1})
	assert.NotPanics(t, func() { _ = a.Equals(a) })
	assert.Panics(t, func() { a.Overlaps(b) })
}

func TestNewMBROddLengthPanics(t *testing.T) {
	assert.Panics(t, func() { NewMBR([]float64{0, 0, 1}) })
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	m := rect(1.5, 2.5, 10.5, 20.5)
	buf := make([]byte, m.Size()*scalarSize[float64]())
	encodeMBR(buf, m)
	got := decodeMBR[float64](buf, m.Dims())
	assert.True(t, m.Equals(got))
}
