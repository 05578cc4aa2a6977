package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/hdsbridge/pkg/types"
)

func TestErrStackLevels(t *testing.T) {
	s := newErrStack()
	assert.Equal(t, types.StatusOK, s.Pending())

	s.Begin()
	s.push(types.Frame{Param: "Find", Message: "first", Status: types.StatusObjectNotFound})
	s.push(types.Frame{Param: "Find", Message: "second", Status: types.StatusError})
	assert.Equal(t, types.StatusObjectNotFound, s.Pending())

	s.Begin()
	assert.Equal(t, types.StatusOK, s.Pending(), "inner level starts empty")
	s.End()

	f, ok := s.Load()
	require.True(t, ok)
	assert.Equal(t, "first", f.Message)
	f, ok = s.Load()
	require.True(t, ok)
	assert.Equal(t, "second", f.Message)
	_, ok = s.Load()
	assert.False(t, ok)

	s.End()
	assert.Equal(t, 0, s.depth())
}

func TestErrStackEndDiscards(t *testing.T) {
	s := newErrStack()
	s.Begin()
	s.push(types.Frame{Message: "left over", Status: types.StatusError})
	s.End()
	assert.Equal(t, types.StatusOK, s.Pending())
	_, ok := s.Load()
	assert.False(t, ok)
}

func TestErrStackImplicitLevel(t *testing.T) {
	s := newErrStack()
	s.push(types.Frame{Message: "orphan", Status: types.StatusBadLocator})
	assert.Equal(t, types.StatusBadLocator, s.Pending())
	assert.Equal(t, 1, s.depth())
}
