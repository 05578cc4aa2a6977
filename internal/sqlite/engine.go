// Package sqlite implements the store engine on SQLite. Each container is
// one database file whose nodes table holds the container tree; handles,
// the error stack and mapped regions live in memory.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/hdsbridge/pkg/types"
)

// rootType is the structure type given to a freshly created container root.
const rootType = "HDS"

// maxNameLen is the longest component name the engine accepts.
const maxNameLen = 15

// container is one open database file.
type container struct {
	path string
	db   *sql.DB
	mode types.AccessMode
	refs int
}

func (c *container) writable() bool {
	return c.mode != types.ModeRead
}

// Engine implements types.Engine on SQLite.
type Engine struct {
	mu      sync.Mutex
	config  types.Config
	stack   *errStack
	handles *handleTable
	files   map[string]*container
}

var _ types.Engine = (*Engine)(nil)

// NewEngine creates an engine for the given configuration. No file is
// touched until Open.
func NewEngine(config types.Config) (*Engine, error) {
	if config.Engine == "" {
		config.Engine = types.EngineSQLite
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		config:  config,
		stack:   newErrStack(),
		handles: newHandleTable(),
		files:   make(map[string]*container),
	}, nil
}

// Errors returns the engine's error stack.
func (e *Engine) Errors() types.ErrorStack {
	return e.stack
}

// fail pushes a frame and returns st as the call's error.
func (e *Engine) fail(st types.Status, op, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	e.stack.push(types.Frame{Param: op, Message: msg, Status: st})
	Logger().Debug("engine failure",
		zap.String("op", op),
		zap.String("status", st.Error()),
		zap.String("message", msg))
	return st
}

// failErr reports an unexpected database or file error.
func (e *Engine) failErr(op string, err error) error {
	return e.fail(types.StatusError, op, "%s: %v", op, err)
}

// resolve turns a container name into a file path: relative names are
// placed under the configured directory and a missing extension is added.
func (e *Engine) resolve(name string) string {
	p := name
	if filepath.Ext(p) == "" {
		p += e.config.ContainerExt()
	}
	if !filepath.IsAbs(p) && e.config.Dir != "" {
		p = filepath.Join(e.config.Dir, p)
	}
	return filepath.Clean(p)
}

// Open opens or creates a container and returns a handle on its root.
func (e *Engine) Open(name string, mode types.AccessMode, disp types.Disposition) (types.RawHandle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	const op = "Open"
	if !mode.Valid() {
		return 0, e.fail(types.StatusBadMode, op, "access mode %q is not READ, UPDATE or WRITE", mode)
	}
	if !disp.Valid() {
		return 0, e.fail(types.StatusBadMode, op, "disposition %q is not OLD, NEW or UNKNOWN", disp)
	}

	path := e.resolve(name)
	_, statErr := os.Stat(path)
	exists := statErr == nil
	if statErr != nil && !errors.Is(statErr, os.ErrNotExist) {
		return 0, e.failErr(op, statErr)
	}

	switch disp {
	case types.DispOld:
		if !exists {
			return 0, e.fail(types.StatusFileNotFound, op, "container %s does not exist", path)
		}
	case types.DispNew:
		if c, open := e.files[path]; open && c.refs > 0 {
			return 0, e.fail(types.StatusExists, op, "container %s is open and cannot be recreated", path)
		}
	}
	create := !exists || disp == types.DispNew
	if create && mode == types.ModeRead {
		return 0, e.fail(types.StatusBadMode, op, "cannot create container %s for READ access", path)
	}

	c, err := e.attach(path, mode, create)
	if err != nil {
		return 0, e.failErr(op, err)
	}
	root, err := loadRoot(c.db)
	if err != nil {
		e.release(c)
		return 0, e.failErr(op, err)
	}

	Logger().Debug("container opened",
		zap.String("path", path),
		zap.String("mode", string(mode)),
		zap.Bool("created", create))
	return e.handles.create(c, root.id, 0), nil
}

// attach returns the open container for path, opening or creating the
// database when needed.
func (e *Engine) attach(path string, mode types.AccessMode, create bool) (*container, error) {
	if c, ok := e.files[path]; ok && !create {
		if mode != types.ModeRead && !c.writable() {
			return nil, fmt.Errorf("container %s is already open for READ access", path)
		}
		return c, nil
	}

	if create {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating directory: %w", err)
		}
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("removing old container: %w", err)
		}
	}

	db, err := sql.Open("sqlite", e.dsn(path, mode))
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	if create {
		if err := initContainer(db, rootName(path)); err != nil {
			db.Close()
			return nil, err
		}
	} else if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	c := &container{path: path, db: db, mode: mode}
	e.files[path] = c
	return c, nil
}

func (e *Engine) dsn(path string, mode types.AccessMode) string {
	q := url.Values{}
	q.Add("_pragma", "foreign_keys(1)")
	if mode == types.ModeRead {
		q.Add("mode", "ro")
	} else if e.config.Journal != "" {
		q.Add("_pragma", "journal_mode("+strings.ToUpper(e.config.Journal)+")")
	}
	return "file:" + path + "?" + q.Encode()
}

func initSchema(db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}
	return nil
}

func initContainer(db *sql.DB, name string) error {
	if err := initSchema(db); err != nil {
		return err
	}
	if _, err := insertNode(db, "", 0, name, rootType, true, nil); err != nil {
		return fmt.Errorf("creating root: %w", err)
	}
	return nil
}

// rootName derives the root object name from the file name.
func rootName(path string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	var b strings.Builder
	for _, r := range strings.ToUpper(base) {
		if b.Len() == maxNameLen {
			break
		}
		if r == '_' || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "ROOT"
	}
	return b.String()
}

// release closes the container once no handle refers to it.
func (e *Engine) release(c *container) {
	if c.refs > 0 {
		return
	}
	delete(e.files, c.path)
	if err := c.db.Close(); err != nil {
		Logger().Warn("closing container", zap.String("path", c.path), zap.Error(err))
	}
	Logger().Debug("container closed", zap.String("path", c.path))
}

// Close writes back every outstanding mapping, then releases every handle
// and container.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	var firstErr error
	for _, h := range e.handles.live() {
		ent, _ := e.handles.get(h)
		if err := e.unmapAll(ent); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	for path, c := range e.files {
		if err := c.db.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("closing %s: %w", path, err)
		}
	}
	e.files = make(map[string]*container)
	e.handles.reset()
	return firstErr
}

// entry resolves a handle or reports a bad locator.
func (e *Engine) entry(op string, h types.RawHandle) (*handleEntry, error) {
	ent, ok := e.handles.get(h)
	if !ok {
		return nil, e.fail(types.StatusBadLocator, op, "handle %d is not valid", h)
	}
	return ent, nil
}

// entryNode resolves a handle and loads its node.
func (e *Engine) entryNode(op string, h types.RawHandle) (*handleEntry, *node, error) {
	ent, err := e.entry(op, h)
	if err != nil {
		return nil, nil, err
	}
	n, err := loadNode(ent.c.db, ent.nodeID)
	if err != nil {
		if errors.Is(err, errNoRow) {
			return nil, nil, e.fail(types.StatusBadLocator, op, "object behind handle %d has been erased", h)
		}
		return nil, nil, e.failErr(op, err)
	}
	return ent, n, nil
}

// requireWritable reports a mode error for read-only containers.
func (e *Engine) requireWritable(op string, ent *handleEntry) error {
	if !ent.c.writable() {
		return e.fail(types.StatusBadMode, op, "container %s is open for READ access", ent.c.path)
	}
	return nil
}
