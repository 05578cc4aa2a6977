// Package sqlite provides the public factory for the SQLite store engine
// while keeping its implementation internal.
package sqlite

import (
	"go.uber.org/zap"

	"github.com/mesh-intelligence/hdsbridge/internal/sqlite"
	"github.com/mesh-intelligence/hdsbridge/pkg/types"
)

// Engine is the concrete SQLite engine. Beyond types.Engine it offers
// Export and Import of containers as JSONL.
type Engine = sqlite.Engine

// NewEngine creates a SQLite engine for config. No file is touched until
// Open is called.
//
// Example:
//
//	eng, err := sqlite.NewEngine(types.Config{
//	    Engine: types.EngineSQLite,
//	    Dir:    "data",
//	})
//	if err != nil { ... }
//	sess := hds.NewSession(eng)
//	defer sess.Close()
func NewEngine(config types.Config) (*Engine, error) {
	return sqlite.NewEngine(config)
}

// SetLogger configures the engine's logger. The default discards output.
func SetLogger(l *zap.Logger) {
	sqlite.SetLogger(l)
}
