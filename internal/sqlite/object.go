package sqlite

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/hdsbridge/pkg/types"
)

// NewObject creates a simple array object: a structure of type NDF holding
// a DATA array of shape ubnd-lbnd+1 and an ORIGIN vector of lower bounds.
// Bounds are store order. An empty name shapes the structure h itself.
func (e *Engine) NewObject(h types.RawHandle, name string, t types.TypeTag, lbnd, ubnd []int) (types.RawHandle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	const op = "NewObject"
	ent, nd, err := e.entryNode(op, h)
	if err != nil {
		return 0, err
	}
	if err := e.requireWritable(op, ent); err != nil {
		return 0, err
	}
	if !t.Valid() || t.IsChar() {
		return 0, e.fail(types.StatusBadType, op, "%s is not a numeric type", t)
	}
	if len(lbnd) != len(ubnd) || len(lbnd) < 1 || len(lbnd) > types.MaxComponentDims {
		return 0, e.fail(types.StatusError, op, "need 1 to %d matching bounds, got %d lower and %d upper",
			types.MaxComponentDims, len(lbnd), len(ubnd))
	}
	dims := make(types.StoreShape, len(lbnd))
	for i := range lbnd {
		if ubnd[i] < lbnd[i] {
			return 0, e.fail(types.StatusError, op, "upper bound %d is below lower bound %d on axis %d", ubnd[i], lbnd[i], i+1)
		}
		dims[i] = ubnd[i] - lbnd[i] + 1
	}

	cell, err := e.structCell(op, ent, nd)
	if err != nil {
		return 0, err
	}
	obj := nd
	objSub := ent.sub
	if name != "" {
		obj, err = e.createChild(op, ent.c, nd, cell, name, types.ObjectType, nil)
		if err != nil {
			return 0, err
		}
		cell, objSub = 0, 0
	} else {
		if ok, err := e.hasChild(op, ent.c, nd.id, cell, string(types.CompData)); err != nil {
			return 0, err
		} else if ok {
			return 0, e.fail(types.StatusExists, op, "%s already holds an array object", nd.name)
		}
		if ent.sub == 0 {
			if err := retypeNode(ent.c.db, nd.id, types.ObjectType, nil); err != nil {
				return 0, e.failErr(op, err)
			}
		}
	}

	if _, err := e.createChild(op, ent.c, obj, cell, string(types.CompData), t.String(), dims); err != nil {
		return 0, err
	}
	origin, err := e.createChild(op, ent.c, obj, cell, types.CompOrigin, types.TypeInteger.String(), types.StoreShape{len(lbnd)})
	if err != nil {
		return 0, err
	}
	if err := writeData(ent.c.db, origin.id, encodeInts(lbnd)); err != nil {
		return 0, e.failErr(op, err)
	}
	return e.handles.create(ent.c, obj.id, objSub), nil
}

func (e *Engine) hasChild(op string, c *container, parentID string, cell int, name string) (bool, error) {
	_, err := findChild(c.db, parentID, cell, name)
	if errors.Is(err, errNoRow) {
		return false, nil
	}
	if err != nil {
		return false, e.failErr(op, err)
	}
	return true, nil
}

// objectParts loads the DATA array of the object behind ent and returns it
// with the cell its siblings live under.
func (e *Engine) objectParts(op string, ent *handleEntry, nd *node) (*node, int, error) {
	cell, err := e.structCell(op, ent, nd)
	if err != nil {
		return nil, 0, err
	}
	data, err := findChild(ent.c.db, nd.id, cell, string(types.CompData))
	if err != nil {
		if errors.Is(err, errNoRow) {
			return nil, 0, e.fail(types.StatusObjectNotFound, op, "%s is not an array object: no DATA component", nd.name)
		}
		return nil, 0, e.failErr(op, err)
	}
	if data.isStruct {
		return nil, 0, e.fail(types.StatusNotPrimitive, op, "DATA of %s is a structure", nd.name)
	}
	return data, cell, nil
}

// Dim returns the store-order dimensions of an array object.
func (e *Engine) Dim(h types.RawHandle, max int) (types.StoreShape, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	const op = "Dim"
	ent, nd, err := e.entryNode(op, h)
	if err != nil {
		return nil, err
	}
	data, _, err := e.objectParts(op, ent, nd)
	if err != nil {
		return nil, err
	}
	if len(data.dims) > max {
		return nil, e.fail(types.StatusError, op, "%s has %d dimensions, more than %d", nd.name, len(data.dims), max)
	}
	return append(types.StoreShape(nil), data.dims...), nil
}

// Bound returns store-order lower and upper pixel bounds of an array object.
// A missing ORIGIN means every lower bound is 1.
func (e *Engine) Bound(h types.RawHandle, max int) ([]int, []int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	const op = "Bound"
	ent, nd, err := e.entryNode(op, h)
	if err != nil {
		return nil, nil, err
	}
	data, cell, err := e.objectParts(op, ent, nd)
	if err != nil {
		return nil, nil, err
	}
	if len(data.dims) > max {
		return nil, nil, e.fail(types.StatusError, op, "%s has %d dimensions, more than %d", nd.name, len(data.dims), max)
	}

	lbnd := make([]int, len(data.dims))
	for i := range lbnd {
		lbnd[i] = 1
	}
	origin, err := findChild(ent.c.db, nd.id, cell, types.CompOrigin)
	switch {
	case err == nil:
		if origin.defined && len(origin.dims) == 1 && origin.dims[0] == len(lbnd) && origin.typ == types.TypeInteger.String() {
			lbnd = decodeInts(origin.data)
		}
	case !errors.Is(err, errNoRow):
		return nil, nil, e.failErr(op, err)
	}

	ubnd := make([]int, len(lbnd))
	for i := range ubnd {
		ubnd[i] = lbnd[i] + data.dims[i] - 1
	}
	return lbnd, ubnd, nil
}

// encodeInts lays out ints as native _INTEGER elements.
func encodeInts(v []int) []byte {
	out := make([]byte, 4*len(v))
	for i, x := range v {
		binary.NativeEndian.PutUint32(out[4*i:], uint32(int32(x)))
	}
	return out
}

func decodeInts(b []byte) []int {
	out := make([]int, len(b)/4)
	for i := range out {
		out[i] = int(int32(binary.NativeEndian.Uint32(b[4*i:])))
	}
	return out
}

// describe names a node for log and error messages.
func describe(n *node) string {
	return fmt.Sprintf("%s <%s>", n.name, n.typ)
}
