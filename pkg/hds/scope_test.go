package hds

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/hdsbridge/pkg/types"
)

func TestEndWithoutBegin(t *testing.T) {
	s, _ := newFakeSession()
	err := s.End()
	assert.ErrorIs(t, err, ErrNoScope)
	assert.ErrorIs(t, err, types.ErrInvalidOperation)
}

func TestScopeEndReleasesEverything(t *testing.T) {
	s := newTestSession(t)
	root := newRoot(t, s)
	newImage(t, root, []int{1}, []int{4})

	s.Begin()
	assert.Equal(t, 1, s.Depth())
	img, err := root.Find("IMG")
	require.NoError(t, err)
	data, err := img.Find("DATA")
	require.NoError(t, err)
	region, err := img.Map(types.CompData, types.TypeReal, types.ModeRead)
	require.NoError(t, err)
	require.True(t, region.Mapped())

	require.NoError(t, s.End())
	assert.Equal(t, 0, s.Depth())
	assert.False(t, img.Valid())
	assert.False(t, data.Valid())
	assert.False(t, region.Mapped())
	assert.Nil(t, region.Bytes())
	assert.True(t, root.Valid(), "root belongs to no scope")
	assert.False(t, s.Engine().Valid(img.Raw()))
}

func TestScopeEndSkipsReleased(t *testing.T) {
	s := newTestSession(t)
	root := newRoot(t, s)
	newImage(t, root, []int{1}, []int{2})

	s.Begin()
	img, err := root.Find("IMG")
	require.NoError(t, err)
	region, err := img.Map(types.CompData, types.TypeReal, types.ModeRead)
	require.NoError(t, err)
	require.NoError(t, img.Unmap(types.CompData))
	assert.False(t, region.Mapped())
	require.NoError(t, img.Annul())

	assert.NoError(t, s.End(), "already released objects are skipped")
}

func TestNestedScopes(t *testing.T) {
	s := newTestSession(t)
	root := newRoot(t, s)
	require.NoError(t, root.New("A", types.TypeInteger, nil))
	require.NoError(t, root.New("B", types.TypeInteger, nil))

	s.Begin()
	a, err := root.Find("A")
	require.NoError(t, err)

	s.Begin()
	b, err := root.Find("B")
	require.NoError(t, err)
	require.NoError(t, s.End())

	assert.False(t, b.Valid())
	assert.True(t, a.Valid(), "outer scope still open")

	require.NoError(t, s.End())
	assert.False(t, a.Valid())
	assert.ErrorIs(t, s.End(), ErrNoScope)
}

func TestRegionInInnerScopeOfOuterLocator(t *testing.T) {
	s := newTestSession(t)
	root := newRoot(t, s)
	newImage(t, root, []int{1}, []int{3})

	s.Begin()
	img, err := root.Find("IMG")
	require.NoError(t, err)

	s.Begin()
	region, err := img.Map(types.CompData, types.TypeReal, types.ModeRead)
	require.NoError(t, err)
	require.NoError(t, s.End())

	assert.False(t, region.Mapped())
	assert.True(t, img.Valid())
	again, err := img.Map(types.CompData, types.TypeReal, types.ModeRead)
	require.NoError(t, err, "component was released by the inner scope")
	assert.Equal(t, 3, again.Count())
	require.NoError(t, s.End())
}

func TestSessionCloseReleasesUnscoped(t *testing.T) {
	s := newTestSession(t)
	root := newRoot(t, s)
	s.Begin()
	require.NoError(t, s.Close())
	assert.False(t, root.Valid())
	assert.Equal(t, 0, s.Depth())
}
