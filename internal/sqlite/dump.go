package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/hdsbridge/pkg/types"
)

// Export writes every node of the named container to out as JSONL and
// returns the number of records written. A container already open in this
// engine is read through its live connection.
func (e *Engine) Export(name, out string) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	path := e.resolve(name)
	db, closeDB, err := e.readDB(path)
	if err != nil {
		return 0, err
	}
	defer closeDB()

	records, err := dumpNodes(db)
	if err != nil {
		return 0, fmt.Errorf("exporting %s: %w", path, err)
	}
	if err := writeJSONL(out, records); err != nil {
		return 0, fmt.Errorf("exporting %s: %w", path, err)
	}
	Logger().Info("container exported",
		zap.String("path", path),
		zap.String("out", out),
		zap.Int("records", len(records)))
	return len(records), nil
}

func (e *Engine) readDB(path string) (*sql.DB, func(), error) {
	if c, ok := e.files[path]; ok {
		return c.db, func() {}, nil
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, fmt.Errorf("container %s: %w", path, types.ErrIO)
		}
		return nil, nil, fmt.Errorf("container %s: %w", path, err)
	}
	db, err := sql.Open("sqlite", e.dsn(path, types.ModeRead))
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	return db, func() { db.Close() }, nil
}

// Import creates the named container from a JSONL export, replacing any
// existing file, and returns the number of nodes loaded.
func (e *Engine) Import(in, name string) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	path := e.resolve(name)
	if c, ok := e.files[path]; ok && c.refs > 0 {
		return 0, fmt.Errorf("container %s is open", path)
	}
	records, err := readJSONL(in)
	if err != nil {
		return 0, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("creating directory: %w", err)
	}
	tmp := path + ".load"
	_ = os.Remove(tmp)
	db, err := sql.Open("sqlite", e.dsn(tmp, types.ModeWrite))
	if err != nil {
		return 0, fmt.Errorf("creating %s: %w", tmp, err)
	}
	db.SetMaxOpenConns(1)
	n, err := func() (int, error) {
		defer db.Close()
		if err := initSchema(db); err != nil {
			return 0, err
		}
		return loadNodes(db, records)
	}()
	if err != nil {
		os.Remove(tmp)
		return 0, fmt.Errorf("importing %s: %w", in, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return 0, fmt.Errorf("renaming %s: %w", tmp, err)
	}

	Logger().Info("container imported",
		zap.String("path", path),
		zap.String("in", in),
		zap.Int("nodes", n))
	return n, nil
}
