package rtree

import (
	"fmt"
	"unsafe"

	"golang.org/x/exp/constraints"
)

// Scalar is a totally ordered numeric type supporting subtraction and
// multiplication, as spec.md §3 requires of T. float64 is the usual
// choice; integer coordinate spaces work equally well.
type Scalar interface {
	constraints.Float | constraints.Integer
}

// MBR is an axis-aligned minimum bounding rectangle: 2*Dims() values of
// T, lo1..loD followed by hi1..hiD. It is a pure value type — every
// operation below either returns a new MBR or mutates the receiver
// in place; none retain a reference to an operand.
type MBR[T Scalar] struct {
	dims int
	data []T // len == 2*dims
}

// NewMBR builds an MBR from a flat lo..hi coordinate sequence. It
// panics if the sequence length is not even, matching the original's
// assert-on-construction (original_source/include/Type.h).
func NewMBR[T Scalar](values []T) MBR[T] {
	if len(values)%2 != 0 {
		panic(fmt.Sprintf("rtree: MBR coordinate sequence has odd length %d", len(values)))
	}
	data := make([]T, len(values))
	copy(data, values)
	return MBR[T]{dims: len(values) / 2, data: data}
}

// Dims returns the number of spatial dimensions (half the coordinate count).
func (m MBR[T]) Dims() int { return m.dims }

// Size returns the coordinate count, 2*Dims().
func (m MBR[T]) Size() int { return len(m.data) }

// Lo returns the lower bound on dimension i (0 <= i < Dims()).
func (m MBR[T]) Lo(i int) T { return m.data[i] }

// Hi returns the upper bound on dimension i (0 <= i < Dims()).
func (m MBR[T]) Hi(i int) T { return m.data[m.dims+i] }

// At returns coordinate i of the flat 2*Dims() sequence.
func (m MBR[T]) At(i int) T { return m.data[i] }

func (m MBR[T]) assertSameDims(other MBR[T]) {
	if m.dims != other.dims {
		panic(fmt.Sprintf("rtree: MBR dimensionality mismatch: %d vs %d", m.dims, other.dims))
	}
}

// Area returns the product of (hi_i - lo_i) over every dimension. A
// zero-area (point) MBR is legal.
func (m MBR[T]) Area() T {
	var area T = 1
	for i := 0; i < m.dims; i++ {
		area *= m.Hi(i) - m.Lo(i)
	}
	return area
}

// Union returns the smallest MBR containing both m and other.
func (m MBR[T]) Union(other MBR[T]) MBR[T] {
	m.assertSameDims(other)
	data := make([]T, len(m.data))
	for i := 0; i < m.dims; i++ {
		data[i] = min(m.Lo(i), other.Lo(i))
		data[m.dims+i] = max(m.Hi(i), other.Hi(i))
	}
	return MBR[T]{dims: m.dims, data: data}
}

// UnionInto enlarges m in place to cover other.
func (m *MBR[T]) UnionInto(other MBR[T]) {
	m.assertSameDims(other)
	for i := 0; i < m.dims; i++ {
		lo := min(m.Lo(i), other.Lo(i))
		hi := max(m.Hi(i), other.Hi(i))
		m.data[i] = lo
		m.data[m.dims+i] = hi
	}
}

// Enlargement returns the marginal area m would gain by being unioned
// with other: area(union(m, other)) - area(m). This is the classical
// ChooseLeaf cost (spec.md §9); it is distinct from the "wastefulness"
// measure PickSeeds uses, which is computed locally in insert.go.
func (m MBR[T]) Enlargement(other MBR[T]) T {
	return m.Union(other).Area() - m.Area()
}

// Overlaps reports whether m and other's closed boxes share at least
// one point.
func (m MBR[T]) Overlaps(other MBR[T]) bool {
	m.assertSameDims(other)
	for i := 0; i < m.dims; i++ {
		if !(m.Lo(i) <= other.Hi(i) && m.Hi(i) >= other.Lo(i)) {
			return false
		}
	}
	return true
}

// Comprises reports whether m covers other componentwise (m ⊇ other).
func (m MBR[T]) Comprises(other MBR[T]) bool {
	m.assertSameDims(other)
	for i := 0; i < m.dims; i++ {
		if !(m.Lo(i) <= other.Lo(i) && m.Hi(i) >= other.Hi(i)) {
			return false
		}
	}
	return true
}

// StrictlyComprises reports whether m covers other with strict
// inequality on every bound (m ⊃ other).
func (m MBR[T]) StrictlyComprises(other MBR[T]) bool {
	m.assertSameDims(other)
	for i := 0; i < m.dims; i++ {
		if !(m.Lo(i) < other.Lo(i) && m.Hi(i) > other.Hi(i)) {
			return false
		}
	}
	return true
}

// Equals reports componentwise equality.
func (m MBR[T]) Equals(other MBR[T]) bool {
	if m.dims != other.dims {
		return false
	}
	for i := range m.data {
		if m.data[i] != other.data[i] {
			return false
		}
	}
	return true
}

// encodeMBR writes m's raw coordinates into dst, which must be exactly
// m.Size()*sizeof(T) bytes. This is the Go analogue of the original's
// reinterpret_cast<KeyT*> into the entry's key slot (original_source/
// include/Node.h, get_elem_key/set_elem_key).
func encodeMBR[T Scalar](dst []byte, m MBR[T]) {
	n := len(m.data)
	if n == 0 {
		return
	}
	view := unsafe.Slice((*T)(unsafe.Pointer(&dst[0])), n)
	copy(view, m.data)
}

// decodeMBR reads dims*2 values of T out of raw and returns an owned
// MBR copy — the returned value does not alias raw, since raw is a view
// into a node block that may be mutated or invalidated by the next
// store operation (spec.md §9 on handle lifetimes).
func decodeMBR[T Scalar](raw []byte, dims int) MBR[T] {
	n := dims * 2
	if n == 0 {
		return MBR[T]{dims: dims}
	}
	src := unsafe.Slice((*T)(unsafe.Pointer(&raw[0])), n)
	data := make([]T, n)
	copy(data, src)
	return MBR[T]{dims: dims, data: data}
}

func scalarSize[T Scalar]() int {
	var z T
	return int(unsafe.Sizeof(z))
}
