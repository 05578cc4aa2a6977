package hds

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/hdsbridge/internal/sqlite"
	"github.com/mesh-intelligence/hdsbridge/pkg/types"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	eng, err := sqlite.NewEngine(types.Config{Engine: types.EngineSQLite, Dir: t.TempDir()})
	require.NoError(t, err)
	s := NewSession(eng)
	t.Cleanup(func() { s.Close() })
	return s
}

func newRoot(t *testing.T, s *Session) *Locator {
	t.Helper()
	root, err := s.Open("test", types.ModeWrite, types.DispNew)
	require.NoError(t, err)
	return root
}

// newImage creates an array object with defined DATA values 0..n-1.
func newImage(t *testing.T, root *Locator, lbnd, ubnd []int) *Locator {
	t.Helper()
	obj, err := root.NewObject("IMG", types.TypeReal, lbnd, ubnd)
	require.NoError(t, err)
	r, err := obj.Map(types.CompData, types.TypeReal, types.ModeWrite)
	require.NoError(t, err)
	values := make([]float32, r.Count())
	for i := range values {
		values[i] = float32(i)
	}
	buf, err := types.BufferOf(types.TypeReal, types.Shape{len(values)}, values)
	require.NoError(t, err)
	require.NoError(t, r.CopyIn(buf, r.Count()))
	require.NoError(t, obj.Unmap(types.CompData))
	return obj
}
