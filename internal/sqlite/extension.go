package sqlite

import (
	"errors"
	"strings"

	"github.com/mesh-intelligence/hdsbridge/pkg/types"
)

// Extensions are the components of the object's MORE structure.

// extensions returns the MORE structure of the object behind h, or nil
// when the object has none.
func (e *Engine) extensions(op string, h types.RawHandle) (*handleEntry, *node, error) {
	ent, nd, err := e.entryNode(op, h)
	if err != nil {
		return nil, nil, err
	}
	cell, err := e.structCell(op, ent, nd)
	if err != nil {
		return nil, nil, err
	}
	more, err := findChild(ent.c.db, nd.id, cell, types.CompExtensions)
	if errors.Is(err, errNoRow) {
		return ent, nil, nil
	}
	if err != nil {
		return nil, nil, e.failErr(op, err)
	}
	if !more.isStruct || len(more.dims) > 0 {
		return nil, nil, e.fail(types.StatusNotStructure, op, "%s of %s is not a scalar structure", types.CompExtensions, nd.name)
	}
	return ent, more, nil
}

// Xnumb returns the number of extensions.
func (e *Engine) Xnumb(h types.RawHandle) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	const op = "Xnumb"
	ent, more, err := e.extensions(op, h)
	if err != nil || more == nil {
		return 0, err
	}
	n, err := countChildren(ent.c.db, more.id, 0)
	if err != nil {
		return 0, e.failErr(op, err)
	}
	return n, nil
}

// Xname returns the name of the n-th extension (one-based).
func (e *Engine) Xname(h types.RawHandle, n int) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	const op = "Xname"
	ent, more, err := e.extensions(op, h)
	if err != nil {
		return "", err
	}
	if more == nil || n < 1 {
		return "", e.fail(types.StatusSubscript, op, "extension number %d does not exist", n)
	}
	x, err := childAt(ent.c.db, more.id, 0, n)
	if err != nil {
		if errors.Is(err, errNoRow) {
			return "", e.fail(types.StatusSubscript, op, "extension number %d does not exist", n)
		}
		return "", e.failErr(op, err)
	}
	return x.name, nil
}

// Xstat reports whether the named extension exists.
func (e *Engine) Xstat(h types.RawHandle, name string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	const op = "Xstat"
	ent, more, err := e.extensions(op, h)
	if err != nil || more == nil {
		return false, err
	}
	ok, err := e.hasChild(op, ent.c, more.id, 0, name)
	if err != nil {
		return false, err
	}
	return ok, nil
}

// Xloc returns a handle on the named extension.
func (e *Engine) Xloc(h types.RawHandle, name string, mode types.AccessMode) (types.RawHandle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	const op = "Xloc"
	if !mode.Valid() {
		return 0, e.fail(types.StatusBadMode, op, "access mode %q is not READ, UPDATE or WRITE", mode)
	}
	ent, more, err := e.extensions(op, h)
	if err != nil {
		return 0, err
	}
	if mode != types.ModeRead {
		if err := e.requireWritable(op, ent); err != nil {
			return 0, err
		}
	}
	if more == nil {
		return 0, e.fail(types.StatusObjectNotFound, op, "extension %s not found", strings.ToUpper(name))
	}
	x, err := findChild(ent.c.db, more.id, 0, name)
	if err != nil {
		if errors.Is(err, errNoRow) {
			return 0, e.fail(types.StatusObjectNotFound, op, "extension %s not found", strings.ToUpper(name))
		}
		return 0, e.failErr(op, err)
	}
	return e.handles.create(ent.c, x.id, 0), nil
}

// Xnew creates an extension, and the MORE structure if needed, and returns
// a handle on it.
func (e *Engine) Xnew(h types.RawHandle, name, typ string, dims types.StoreShape) (types.RawHandle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	const op = "Xnew"
	ent, more, err := e.extensions(op, h)
	if err != nil {
		return 0, err
	}
	if err := e.requireWritable(op, ent); err != nil {
		return 0, err
	}
	if more == nil {
		nd, err := loadNode(ent.c.db, ent.nodeID)
		if err != nil {
			return 0, e.failErr(op, err)
		}
		more, err = e.createChild(op, ent.c, nd, ent.sub, types.CompExtensions, types.ExtensionType, nil)
		if err != nil {
			return 0, err
		}
	}
	x, err := e.createChild(op, ent.c, more, 0, name, typ, dims)
	if err != nil {
		return 0, err
	}
	return e.handles.create(ent.c, x.id, 0), nil
}
