package hds

import (
	"fmt"

	"github.com/mesh-intelligence/hdsbridge/pkg/types"
)

// Tag returns the primitive's type tag. Character widths come from the
// store's length query.
func (l *Locator) Tag() (types.TypeTag, error) {
	const op = "Tag"
	typ, err := l.Type()
	if err != nil {
		return types.TypeTag{}, err
	}
	if types.IsStructureType(typ) {
		return types.TypeTag{}, types.E(op, types.KindInvalidOperation, "object is a structure of type "+typ)
	}
	tag, err := types.ParseTypeTag(typ)
	if err != nil {
		return types.TypeTag{}, types.Wrap(op, types.KindUnsupportedType, err)
	}
	if tag.IsChar() {
		n, err := l.Len()
		if err != nil {
			return types.TypeTag{}, err
		}
		tag = types.TypeChar(n)
	}
	return tag, nil
}

// Get copies a primitive into a new buffer of its stored type and
// caller-order shape. Character buffers carry one terminator byte per
// element. Structures fail with KindInvalidOperation.
func (l *Locator) Get() (*types.Buffer, error) {
	const op = "Get"
	struc, err := l.Struc()
	if err != nil {
		return nil, err
	}
	if struc {
		return nil, types.E(op, types.KindInvalidOperation, "cannot get a structure")
	}
	tag, err := l.Tag()
	if err != nil {
		return nil, err
	}
	shape, err := l.Shape()
	if err != nil {
		return nil, err
	}
	buf, err := types.Allocate(tag, shape)
	if err != nil {
		return nil, err
	}

	dst := buf.Data
	if tag.IsChar() {
		dst = make([]byte, buf.Len()*tag.Width())
	}
	err = l.s.call(op, func() error {
		return l.s.engine.Get(l.raw, tag, shape.Store(), dst)
	})
	if err != nil {
		return nil, err
	}
	if tag.IsChar() {
		if err := buf.SetStoreBytes(dst); err != nil {
			return nil, err
		}
	}
	return buf, nil
}

// Put writes buf into the primitive. tag and shape describe buf and must
// agree with it: same type, same number of dimensions, same element count.
// A character buffer may be described either by its stored width or by its
// width including the terminator byte.
func (l *Locator) Put(tag types.TypeTag, shape types.Shape, buf *types.Buffer) error {
	const op = "Put"
	if err := l.check(op); err != nil {
		return err
	}
	if !tag.Valid() {
		return types.E(op, types.KindUnsupportedType, tag.String())
	}
	if buf == nil {
		return types.E(op, types.KindInvalidArgument, "nil buffer")
	}
	if !sameType(tag, buf) {
		return types.E(op, types.KindInvalidOperation,
			fmt.Sprintf("type %s does not match buffer type %s", tag, buf.Type))
	}
	if len(shape) != len(buf.Shape) {
		return types.E(op, types.KindInvalidOperation,
			fmt.Sprintf("%d dimensions given for a %d-dimensional buffer", len(shape), len(buf.Shape)))
	}
	if shape.Size() != buf.Len() {
		return types.E(op, types.KindSizeMismatch,
			fmt.Sprintf("shape %v holds %d elements, buffer holds %d", []int(shape), shape.Size(), buf.Len()))
	}
	return l.s.call(op, func() error {
		return l.s.engine.Put(l.raw, buf.Type, shape.Store(), buf.StoreBytes())
	})
}

func sameType(tag types.TypeTag, buf *types.Buffer) bool {
	if !tag.IsChar() {
		return tag == buf.Type
	}
	if !buf.Type.IsChar() {
		return false
	}
	return tag.Size == buf.Type.Size || tag.Size == buf.Elem
}

// New creates a primitive component. An empty shape creates a scalar.
func (l *Locator) New(name string, tag types.TypeTag, shape types.Shape) error {
	const op = "New"
	if err := l.check(op); err != nil {
		return err
	}
	if !tag.Valid() {
		return types.E(op, types.KindUnsupportedType, tag.String())
	}
	if err := shape.Validate(types.MaxComponentDims); err != nil {
		return err
	}
	return l.s.call(op, func() error {
		return l.s.engine.New(l.raw, name, tag.String(), shape.Store())
	})
}

// NewStructure creates a structure component, or an array of structures
// when shape is not empty.
func (l *Locator) NewStructure(name, typ string, shape types.Shape) error {
	const op = "NewStructure"
	if err := l.check(op); err != nil {
		return err
	}
	if !types.IsStructureType(typ) {
		return types.E(op, types.KindInvalidArgument, fmt.Sprintf("%q is not a structure type", typ))
	}
	if err := shape.Validate(types.MaxComponentDims); err != nil {
		return err
	}
	return l.s.call(op, func() error {
		return l.s.engine.New(l.raw, name, typ, shape.Store())
	})
}

// PutString writes a scalar character primitive, blank padding or
// truncating v to the stored width.
func (l *Locator) PutString(v string) error {
	const op = "PutString"
	tag, err := l.Tag()
	if err != nil {
		return err
	}
	if !tag.IsChar() {
		return types.E(op, types.KindInvalidOperation, "object type is "+tag.String())
	}
	shape, err := l.Shape()
	if err != nil {
		return err
	}
	if !shape.IsScalar() {
		return types.E(op, types.KindInvalidOperation, "object is not scalar")
	}
	buf, err := types.StringBuffer(tag.Size, nil, []string{v})
	if err != nil {
		return err
	}
	return l.Put(tag, nil, buf)
}

// GetString reads a scalar character primitive with trailing blanks removed.
func (l *Locator) GetString() (string, error) {
	const op = "GetString"
	buf, err := l.Get()
	if err != nil {
		return "", err
	}
	if !buf.Type.IsChar() || buf.Len() != 1 {
		return "", types.E(op, types.KindInvalidOperation, "object is not a scalar character value")
	}
	return buf.Strings()[0], nil
}
