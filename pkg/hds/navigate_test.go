package hds

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/hdsbridge/pkg/types"
)

func TestTranslateAxisIsBijection(t *testing.T) {
	for ndim := 1; ndim <= types.MaxObjectDims; ndim++ {
		seen := make(map[int]bool)
		for axis := 0; axis < ndim; axis++ {
			k, err := translateAxis("test", axis, ndim)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, k, 1)
			assert.LessOrEqual(t, k, ndim)
			assert.False(t, seen[k], "axis %d of %d maps to %d twice", axis, ndim, k)
			seen[k] = true
		}
		assert.Len(t, seen, ndim)
	}
}

func TestTranslateAxis(t *testing.T) {
	s := newTestSession(t)
	root := newRoot(t, s)
	img := newImage(t, root, []int{1, 1, 1}, []int{2, 3, 4})

	tests := []struct {
		axis int
		want int
	}{
		{WholeObject, 0},
		{0, 3},
		{1, 2},
		{2, 1},
	}
	for _, tt := range tests {
		got, err := img.TranslateAxis(tt.axis)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "axis %d", tt.axis)
	}

	for _, axis := range []int{3, -2, 100} {
		_, err := img.TranslateAxis(axis)
		assert.ErrorIs(t, err, types.ErrRange, "axis %d", axis)
	}
}

func TestExtensions(t *testing.T) {
	s := newTestSession(t)
	root := newRoot(t, s)
	img := newImage(t, root, []int{1}, []int{4})

	n, err := img.Xnumb()
	require.NoError(t, err)
	assert.Zero(t, n)
	ok, err := img.CompState("EXTENSION")
	require.NoError(t, err)
	assert.False(t, ok)

	fits, err := img.Xnew("FITS", "FITS_EXT", nil)
	require.NoError(t, err)
	require.NoError(t, fits.New("OBSERVER", types.TypeChar(16), nil))

	_, err = img.Xnew("COUNT", "_INTEGER", types.Shape{2})
	require.NoError(t, err)
	_, err = img.Xnew("BAD", "_COMPLEX", nil)
	assert.ErrorIs(t, err, types.ErrUnsupportedType)
	_, err = img.Xnew("FITS", "FITS_EXT", nil)
	assert.ErrorIs(t, err, types.ErrStore, "duplicate extension")

	n, err = img.Xnumb()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	ok, err = img.CompState("extension")
	require.NoError(t, err)
	assert.True(t, ok)

	name, err := img.Xname(0)
	require.NoError(t, err)
	assert.Equal(t, "FITS", name)
	_, err = img.Xname(2)
	assert.ErrorIs(t, err, types.ErrRange)
	_, err = img.Xname(-1)
	assert.ErrorIs(t, err, types.ErrRange)

	names, err := img.Extensions()
	require.NoError(t, err)
	assert.Equal(t, []string{"FITS", "COUNT"}, names)

	ok, err = img.Xstat("fits")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = img.Xstat("CCDPACK")
	require.NoError(t, err)
	assert.False(t, ok)

	again, err := img.Xloc("FITS", types.ModeRead)
	require.NoError(t, err)
	there, err := again.There("OBSERVER")
	require.NoError(t, err)
	assert.True(t, there)
	typ, err := again.Type()
	require.NoError(t, err)
	assert.Equal(t, "FITS_EXT", typ)

	_, err = img.Xloc("CCDPACK", types.ModeRead)
	assert.ErrorIs(t, err, types.ErrNotFound)
	_, err = img.Xloc("FITS", types.AccessMode("APPEND"))
	assert.ErrorIs(t, err, types.ErrInvalidArgument)
}
