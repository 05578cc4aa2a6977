package types

import "fmt"

// Dimension limits.
const (
	// MaxComponentDims is the largest rank of a single component.
	MaxComponentDims = 7
	// MaxObjectDims is the largest rank reported by whole-object dimension
	// and bounds queries.
	MaxObjectDims = 10
)

// Shape is a list of dimension extents in caller order: the last axis
// varies fastest. A nil or empty Shape is a scalar.
type Shape []int

// StoreShape is a list of dimension extents in store order: the first
// axis varies fastest. It is the exact reverse of the matching Shape.
type StoreShape []int

// reverseDims returns a reversed copy of dims. It is the only place the
// two orders are converted.
func reverseDims(dims []int) []int {
	if len(dims) == 0 {
		return nil
	}
	out := make([]int, len(dims))
	for i, d := range dims {
		out[len(dims)-1-i] = d
	}
	return out
}

// Store converts a caller-order shape to store order.
func (s Shape) Store() StoreShape {
	return StoreShape(reverseDims(s))
}

// Caller converts a store-order shape to caller order.
func (s StoreShape) Caller() Shape {
	return Shape(reverseDims(s))
}

// StoreSubscripts converts zero-based caller-order indices into one-based
// store-order subscripts.
func StoreSubscripts(idx []int) []int {
	out := reverseDims(idx)
	for i := range out {
		out[i]++
	}
	return out
}

// ReverseBounds converts a list of per-axis bounds between caller and store
// order. Bounds follow the same axis convention as shapes but may be negative.
func ReverseBounds(b []int) []int {
	return reverseDims(b)
}

// Rank returns the number of dimensions.
func (s Shape) Rank() int { return len(s) }

// Rank returns the number of dimensions.
func (s StoreShape) Rank() int { return len(s) }

// Size returns the total number of elements. A scalar has one element.
func (s Shape) Size() int { return size(s) }

// Size returns the total number of elements. A scalar has one element.
func (s StoreShape) Size() int { return size(s) }

// IsScalar reports whether the shape has no dimensions.
func (s Shape) IsScalar() bool { return len(s) == 0 }

// Equal reports whether two caller-order shapes have identical extents.
func (s Shape) Equal(o Shape) bool { return equalDims(s, o) }

// Equal reports whether two store-order shapes have identical extents.
func (s StoreShape) Equal(o StoreShape) bool { return equalDims(s, o) }

// Validate checks that the shape has at most max dimensions and that no
// extent is negative.
func (s Shape) Validate(max int) error {
	return validateDims(s, max)
}

// Validate checks that the shape has at most max dimensions and that no
// extent is negative.
func (s StoreShape) Validate(max int) error {
	return validateDims(s, max)
}

func size(dims []int) int {
	n := 1
	for _, d := range dims {
		n *= d
	}
	return n
}

func equalDims(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func validateDims(dims []int, max int) error {
	if len(dims) > max {
		return E("Shape", KindInvalidArgument, fmt.Sprintf("%d dimensions exceeds limit of %d", len(dims), max))
	}
	for i, d := range dims {
		if d < 0 {
			return E("Shape", KindInvalidArgument, fmt.Sprintf("dimension %d has negative extent %d", i, d))
		}
	}
	return nil
}
