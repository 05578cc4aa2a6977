package sqlite

import (
	"errors"
	"strings"

	"github.com/mesh-intelligence/hdsbridge/pkg/types"
)

// Get copies a primitive's data into dst. The requested type must have the
// stored class; character widths are blank padded or truncated. dims must
// equal the object's store-order shape.
func (e *Engine) Get(h types.RawHandle, t types.TypeTag, dims types.StoreShape, dst []byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	const op = "Get"
	ent, n, err := e.entryNode(op, h)
	if err != nil {
		return err
	}
	stored, err := e.primitiveTag(op, n)
	if err != nil {
		return err
	}
	if err := e.checkAccess(op, n, ent, stored, t, dims); err != nil {
		return err
	}
	if !n.defined {
		return e.fail(types.StatusUndefined, op, "%s has no defined value", n.name)
	}
	if err := e.checkData(op, n, stored); err != nil {
		return err
	}
	count := ent.count(n)
	if len(dst) != count*t.Width() {
		return e.fail(types.StatusError, op, "destination holds %d bytes, %s needs %d", len(dst), n.name, count*t.Width())
	}
	src := ent.slice(n.data, stored.Width())
	if stored.IsChar() && stored.Size != t.Size {
		src = resizeChars(src, stored.Size, t.Size, count)
	}
	copy(dst, src)
	return nil
}

// Put writes src into a primitive and marks it defined.
func (e *Engine) Put(h types.RawHandle, t types.TypeTag, dims types.StoreShape, src []byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	const op = "Put"
	ent, n, err := e.entryNode(op, h)
	if err != nil {
		return err
	}
	if err := e.requireWritable(op, ent); err != nil {
		return err
	}
	stored, err := e.primitiveTag(op, n)
	if err != nil {
		return err
	}
	if err := e.checkAccess(op, n, ent, stored, t, dims); err != nil {
		return err
	}
	count := ent.count(n)
	if len(src) != count*t.Width() {
		return e.fail(types.StatusError, op, "source holds %d bytes, %s needs %d", len(src), n.name, count*t.Width())
	}
	if stored.IsChar() && stored.Size != t.Size {
		src = resizeChars(src, t.Size, stored.Size, count)
	}

	data := src
	if ent.sub > 0 {
		data = blankData(stored, n.dims.Size())
		if n.defined {
			if err := e.checkData(op, n, stored); err != nil {
				return err
			}
			data = append(data[:0], n.data...)
		}
		copy(ent.slice(data, stored.Width()), src)
	}
	if err := writeData(ent.c.db, n.id, data); err != nil {
		return e.failErr(op, err)
	}
	return nil
}

// checkData fails when a defined primitive's stored bytes do not match its
// type and dims.
func (e *Engine) checkData(op string, n *node, stored types.TypeTag) error {
	if want := n.dims.Size() * stored.Width(); len(n.data) != want {
		return e.fail(types.StatusError, op, "%s holds %d bytes of data, %s%v needs %d",
			n.name, len(n.data), stored, []int(n.dims), want)
	}
	return nil
}

// checkAccess validates the type and shape a caller supplied for Get/Put.
func (e *Engine) checkAccess(op string, n *node, ent *handleEntry, stored, t types.TypeTag, dims types.StoreShape) error {
	if !t.Valid() {
		return e.fail(types.StatusBadType, op, "type %s is not a primitive type", t)
	}
	if t.Class != stored.Class {
		return e.fail(types.StatusBadType, op, "%s is stored as %s, not %s", n.name, stored, t)
	}
	want := n.dims
	if ent.sub > 0 {
		want = nil
	}
	if !want.Equal(dims) {
		return e.fail(types.StatusError, op, "dimensions %v do not match %s dimensions %v", []int(dims), n.name, []int(want))
	}
	return nil
}

// count returns the number of elements the handle addresses.
func (ent *handleEntry) count(n *node) int {
	if ent.sub > 0 {
		return 1
	}
	return n.dims.Size()
}

// slice returns the bytes of data the handle addresses.
func (ent *handleEntry) slice(data []byte, width int) []byte {
	if ent.sub == 0 {
		return data
	}
	off := (ent.sub - 1) * width
	return data[off : off+width]
}

// New creates a component of a structure. typ is a primitive type string
// or a structure type name.
func (e *Engine) New(h types.RawHandle, name, typ string, dims types.StoreShape) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, err := e.create("New", h, name, typ, dims)
	return err
}

// create is the shared body of New and Xnew.
func (e *Engine) create(op string, h types.RawHandle, name, typ string, dims types.StoreShape) (*node, error) {
	ent, nd, err := e.entryNode(op, h)
	if err != nil {
		return nil, err
	}
	if err := e.requireWritable(op, ent); err != nil {
		return nil, err
	}
	cell, err := e.structCell(op, ent, nd)
	if err != nil {
		return nil, err
	}
	return e.createChild(op, ent.c, nd, cell, name, typ, dims)
}

func (e *Engine) createChild(op string, c *container, parent *node, cell int, name, typ string, dims types.StoreShape) (*node, error) {
	if !validName(name) {
		return nil, e.fail(types.StatusBadName, op, "%q is not a valid component name", name)
	}
	if err := dims.Validate(types.MaxComponentDims); err != nil {
		return nil, e.fail(types.StatusError, op, "%v", err)
	}
	isStruct := types.IsStructureType(typ)
	if isStruct {
		if !validName(typ) {
			return nil, e.fail(types.StatusBadType, op, "%q is not a valid structure type", typ)
		}
		typ = strings.ToUpper(typ)
	} else {
		tag, err := types.ParseTypeTag(typ)
		if err != nil {
			return nil, e.fail(types.StatusBadType, op, "%q is not a primitive type", typ)
		}
		typ = tag.String()
	}

	_, err := findChild(c.db, parent.id, cell, name)
	switch {
	case err == nil:
		return nil, e.fail(types.StatusExists, op, "%s already has a component %s", parent.name, strings.ToUpper(name))
	case !errors.Is(err, errNoRow):
		return nil, e.failErr(op, err)
	}

	child, err := insertNode(c.db, parent.id, cell, name, typ, isStruct, dims)
	if err != nil {
		return nil, e.failErr(op, err)
	}
	return child, nil
}

func validName(s string) bool {
	if s == "" || len(s) > maxNameLen {
		return false
	}
	for i, r := range strings.ToUpper(s) {
		switch {
		case r >= 'A' && r <= 'Z', r == '_':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

// blankData returns count elements of t with no value written: blanks for
// characters, zeros otherwise.
func blankData(t types.TypeTag, count int) []byte {
	data := make([]byte, count*t.Width())
	if t.IsChar() {
		for i := range data {
			data[i] = ' '
		}
	}
	return data
}

// resizeChars converts count character elements from one width to another.
func resizeChars(src []byte, from, to, count int) []byte {
	out := make([]byte, count*to)
	for i := 0; i < count; i++ {
		el := out[i*to : (i+1)*to]
		n := copy(el, src[i*from:(i+1)*from])
		for j := n; j < to; j++ {
			el[j] = ' '
		}
	}
	return out
}
