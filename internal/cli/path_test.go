package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/hdsbridge/pkg/types"
)

func TestParsePath(t *testing.T) {
	tests := []struct {
		in   string
		want []pathElem
	}{
		{"", nil},
		{".", nil},
		{"data", []pathElem{{name: "DATA"}}},
		{"more.fits", []pathElem{{name: "MORE"}, {name: "FITS"}}},
		{"ROWS[1].X", []pathElem{{name: "ROWS", cell: []int{1}}, {name: "X"}}},
		{"grid[0, 2]", []pathElem{{name: "GRID", cell: []int{0, 2}}}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parsePath(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePathErrors(t *testing.T) {
	for _, in := range []string{"A..B", ".A", "A[", "A[]", "A[x]", "[1]"} {
		_, err := parsePath(in)
		assert.ErrorIs(t, err, types.ErrInvalidArgument, in)
	}
}

func TestSplitLast(t *testing.T) {
	parent, name, err := splitLast("ROWS[1].x")
	require.NoError(t, err)
	assert.Equal(t, []pathElem{{name: "ROWS", cell: []int{1}}}, parent)
	assert.Equal(t, "X", name)

	_, _, err = splitLast(".")
	assert.ErrorIs(t, err, types.ErrInvalidArgument)
	_, _, err = splitLast("ROWS[1]")
	assert.ErrorIs(t, err, types.ErrInvalidArgument)
}

func TestParseShape(t *testing.T) {
	shape, err := parseShape([]string{"2", "3"})
	require.NoError(t, err)
	assert.Equal(t, types.Shape{2, 3}, shape)

	shape, err = parseShape(nil)
	require.NoError(t, err)
	assert.True(t, shape.IsScalar())

	_, err = parseShape([]string{"0"})
	assert.ErrorIs(t, err, types.ErrInvalidArgument)
	_, err = parseShape([]string{"two"})
	assert.ErrorIs(t, err, types.ErrInvalidArgument)
}

func TestParseBounds(t *testing.T) {
	lower, upper, err := parseBounds([]string{"-5:5", "8"})
	require.NoError(t, err)
	assert.Equal(t, []int{-5, 1}, lower)
	assert.Equal(t, []int{5, 8}, upper)

	_, _, err = parseBounds([]string{"1:x"})
	assert.ErrorIs(t, err, types.ErrInvalidArgument)
}

func TestForEachIndexLastFastest(t *testing.T) {
	var got [][]int
	require.NoError(t, forEachIndex(types.Shape{2, 3}, func(idx []int) error {
		got = append(got, idx)
		return nil
	}))
	assert.Equal(t, [][]int{{0, 0}, {0, 1}, {0, 2}, {1, 0}, {1, 1}, {1, 2}}, got)

	calls := 0
	require.NoError(t, forEachIndex(types.Shape{}, func([]int) error { calls++; return nil }))
	assert.Equal(t, 1, calls, "a scalar has one index")
}
