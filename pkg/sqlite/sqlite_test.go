package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/hdsbridge/pkg/types"
)

func TestNewEngine(t *testing.T) {
	eng, err := NewEngine(types.Config{Engine: types.EngineSQLite, Dir: t.TempDir()})
	require.NoError(t, err)
	defer eng.Close()

	var _ types.Engine = eng
	h, err := eng.Open("factory", types.ModeWrite, types.DispNew)
	require.NoError(t, err)
	assert.True(t, eng.Valid(h))
}

func TestNewEngineRejectsUnknown(t *testing.T) {
	_, err := NewEngine(types.Config{Engine: "postgres"})
	assert.ErrorIs(t, err, types.ErrEngineUnknown)
}
