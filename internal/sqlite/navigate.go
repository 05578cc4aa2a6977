package sqlite

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/hdsbridge/pkg/types"
)

// Annul writes back any mappings held by h and releases it.
func (e *Engine) Annul(h types.RawHandle) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	ent, err := e.entry("Annul", h)
	if err != nil {
		return err
	}
	mapErr := e.unmapAll(ent)
	c, _ := e.handles.drop(h)
	e.release(c)
	return mapErr
}

// Valid reports whether h is a live handle.
func (e *Engine) Valid(h types.RawHandle) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.handles.get(h)
	return ok
}

// Clone returns a new handle on the same object.
func (e *Engine) Clone(h types.RawHandle) (types.RawHandle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ent, err := e.entry("Clone", h)
	if err != nil {
		return 0, err
	}
	return e.handles.create(ent.c, ent.nodeID, ent.sub), nil
}

// structCell returns the cell under which h's children live. Structure
// arrays must be narrowed to one element with Cell first.
func (e *Engine) structCell(op string, ent *handleEntry, n *node) (int, error) {
	if !n.isStruct {
		return 0, e.fail(types.StatusNotStructure, op, "%s is a primitive of type %s", n.name, n.typ)
	}
	if ent.sub > 0 {
		return ent.sub, nil
	}
	if len(n.dims) > 0 {
		return 0, e.fail(types.StatusError, op, "%s is a structure array; select an element with Cell", n.name)
	}
	return 0, nil
}

// Cell returns a handle on one element of an array. subs are one-based and
// in store order.
func (e *Engine) Cell(h types.RawHandle, subs []int) (types.RawHandle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	const op = "Cell"
	ent, n, err := e.entryNode(op, h)
	if err != nil {
		return 0, err
	}
	dims := n.dims
	if ent.sub > 0 {
		dims = nil
	}
	if len(subs) != len(dims) {
		return 0, e.fail(types.StatusSubscript, op, "%d subscripts given for %d-dimensional %s", len(subs), len(dims), n.name)
	}
	if len(dims) == 0 {
		return e.handles.create(ent.c, ent.nodeID, ent.sub), nil
	}
	linear := 0
	stride := 1
	for i, s := range subs {
		if s < 1 || s > dims[i] {
			return 0, e.fail(types.StatusSubscript, op, "subscript %d of %s is %d, outside 1..%d", i+1, n.name, s, dims[i])
		}
		linear += (s - 1) * stride
		stride *= dims[i]
	}
	return e.handles.create(ent.c, ent.nodeID, linear+1), nil
}

// Index returns a handle on the n-th component (one-based) of a structure.
func (e *Engine) Index(h types.RawHandle, n int) (types.RawHandle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	const op = "Index"
	ent, nd, err := e.entryNode(op, h)
	if err != nil {
		return 0, err
	}
	cell, err := e.structCell(op, ent, nd)
	if err != nil {
		return 0, err
	}
	if n < 1 {
		return 0, e.fail(types.StatusSubscript, op, "component index %d is not positive", n)
	}
	child, err := childAt(ent.c.db, nd.id, cell, n)
	if err != nil {
		if errors.Is(err, errNoRow) {
			return 0, e.fail(types.StatusSubscript, op, "%s has no component number %d", nd.name, n)
		}
		return 0, e.failErr(op, err)
	}
	return e.handles.create(ent.c, child.id, 0), nil
}

// Find returns a handle on the named component of a structure.
func (e *Engine) Find(h types.RawHandle, name string) (types.RawHandle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	const op = "Find"
	ent, nd, err := e.entryNode(op, h)
	if err != nil {
		return 0, err
	}
	cell, err := e.structCell(op, ent, nd)
	if err != nil {
		return 0, err
	}
	child, err := findChild(ent.c.db, nd.id, cell, name)
	if err != nil {
		if errors.Is(err, errNoRow) {
			return 0, e.fail(types.StatusObjectNotFound, op, "object %s not found in %s", strings.ToUpper(name), nd.name)
		}
		return 0, e.failErr(op, err)
	}
	return e.handles.create(ent.c, child.id, 0), nil
}

// There reports whether a structure has the named component.
func (e *Engine) There(h types.RawHandle, name string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	const op = "There"
	ent, nd, err := e.entryNode(op, h)
	if err != nil {
		return false, err
	}
	cell, err := e.structCell(op, ent, nd)
	if err != nil {
		return false, err
	}
	_, err = findChild(ent.c.db, nd.id, cell, name)
	if errors.Is(err, errNoRow) {
		return false, nil
	}
	if err != nil {
		return false, e.failErr(op, err)
	}
	return true, nil
}

// Erase deletes the named component and everything below it.
func (e *Engine) Erase(h types.RawHandle, name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	const op = "Erase"
	ent, nd, err := e.entryNode(op, h)
	if err != nil {
		return err
	}
	if err := e.requireWritable(op, ent); err != nil {
		return err
	}
	cell, err := e.structCell(op, ent, nd)
	if err != nil {
		return err
	}
	child, err := findChild(ent.c.db, nd.id, cell, name)
	if err != nil {
		if errors.Is(err, errNoRow) {
			return e.fail(types.StatusObjectNotFound, op, "object %s not found in %s", strings.ToUpper(name), nd.name)
		}
		return e.failErr(op, err)
	}
	if err := deleteNode(ent.c.db, child.id); err != nil {
		return e.failErr(op, err)
	}
	return nil
}

// Name returns the object name. Cells are named with their subscripts.
func (e *Engine) Name(h types.RawHandle) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ent, n, err := e.entryNode("Name", h)
	if err != nil {
		return "", err
	}
	if ent.sub == 0 {
		return n.name, nil
	}
	subs := cellSubscripts(n.dims, ent.sub)
	parts := make([]string, len(subs))
	for i, s := range subs {
		parts[i] = strconv.Itoa(s)
	}
	return fmt.Sprintf("%s(%s)", n.name, strings.Join(parts, ",")), nil
}

// cellSubscripts converts a one-based linear index back to one-based
// store-order subscripts.
func cellSubscripts(dims types.StoreShape, linear int) []int {
	subs := make([]int, len(dims))
	rem := linear - 1
	for i, d := range dims {
		if d == 0 {
			continue
		}
		subs[i] = rem%d + 1
		rem /= d
	}
	return subs
}

// Ncomp returns the number of components of a structure.
func (e *Engine) Ncomp(h types.RawHandle) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	const op = "Ncomp"
	ent, nd, err := e.entryNode(op, h)
	if err != nil {
		return 0, err
	}
	cell, err := e.structCell(op, ent, nd)
	if err != nil {
		return 0, err
	}
	count, err := countChildren(ent.c.db, nd.id, cell)
	if err != nil {
		return 0, e.failErr(op, err)
	}
	return count, nil
}

// Shape returns the store-order dimensions of the object, nil for scalars
// and cells.
func (e *Engine) Shape(h types.RawHandle, max int) (types.StoreShape, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	const op = "Shape"
	ent, n, err := e.entryNode(op, h)
	if err != nil {
		return nil, err
	}
	if ent.sub > 0 {
		return nil, nil
	}
	if len(n.dims) > max {
		return nil, e.fail(types.StatusError, op, "%s has %d dimensions, more than %d", n.name, len(n.dims), max)
	}
	return append(types.StoreShape(nil), n.dims...), nil
}

// Type returns the stored type string.
func (e *Engine) Type(h types.RawHandle) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, n, err := e.entryNode("Type", h)
	if err != nil {
		return "", err
	}
	return n.typ, nil
}

// Len returns the byte width of one element of a primitive.
func (e *Engine) Len(h types.RawHandle) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	const op = "Len"
	_, n, err := e.entryNode(op, h)
	if err != nil {
		return 0, err
	}
	tag, err := e.primitiveTag(op, n)
	if err != nil {
		return 0, err
	}
	return tag.Width(), nil
}

// Struc reports whether the object is a structure.
func (e *Engine) Struc(h types.RawHandle) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, n, err := e.entryNode("Struc", h)
	if err != nil {
		return false, err
	}
	return n.isStruct, nil
}

// State reports whether a primitive holds defined data.
func (e *Engine) State(h types.RawHandle) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	const op = "State"
	_, n, err := e.entryNode(op, h)
	if err != nil {
		return false, err
	}
	if n.isStruct {
		return false, e.fail(types.StatusNotPrimitive, op, "%s is a structure", n.name)
	}
	return n.defined, nil
}

// primitiveTag parses the type of a primitive node.
func (e *Engine) primitiveTag(op string, n *node) (types.TypeTag, error) {
	if n.isStruct {
		return types.TypeTag{}, e.fail(types.StatusNotPrimitive, op, "%s is a structure of type %s", n.name, n.typ)
	}
	tag, err := types.ParseTypeTag(n.typ)
	if err != nil {
		return types.TypeTag{}, e.fail(types.StatusBadType, op, "%s has unrecognized type %s", n.name, n.typ)
	}
	return tag, nil
}
