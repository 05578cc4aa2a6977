package hds

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/hdsbridge/pkg/types"
)

// Locator is a handle on one store object: a structure, a primitive, or a
// single cell of an array. Once released, only Valid may be called; every
// other method fails with KindInvalidHandle.
type Locator struct {
	s       *Session
	raw     types.RawHandle
	valid   bool
	scope   *scope
	regions map[types.Component]*MappedRegion
}

// Valid reports whether the locator has not been released.
func (l *Locator) Valid() bool {
	return l != nil && l.valid
}

// Raw returns the engine handle behind the locator.
func (l *Locator) Raw() types.RawHandle {
	return l.raw
}

// Session returns the session that owns the locator.
func (l *Locator) Session() *Session {
	return l.s
}

func (l *Locator) check(op string) error {
	if !l.Valid() {
		return types.E(op, types.KindInvalidHandle, "locator has been released")
	}
	return nil
}

// Annul releases the locator, unmapping its regions first. Annulling a
// locator twice is a programming error and fails with KindInvalidHandle.
func (l *Locator) Annul() error {
	if !l.Valid() {
		Logger().Warn("annul of released locator", zap.Uint64("handle", uint64(l.raw)))
		return types.E("Annul", types.KindInvalidHandle, "locator already released")
	}
	return l.release()
}

// annulTemp releases a locator used only inside one call. A failure is
// logged, not returned, since the call's own result is already decided.
func annulTemp(l *Locator) {
	if err := l.Annul(); err != nil {
		Logger().Warn("releasing temporary locator",
			zap.Uint64("handle", uint64(l.raw)),
			zap.Error(err))
	}
}

// release unmaps and annuls. The locator is marked invalid before the
// engine is called so it can never be released twice.
func (l *Locator) release() error {
	l.valid = false
	var mapErr error
	if len(l.regions) > 0 {
		mapErr = l.s.call("Unmap", func() error {
			return l.s.engine.Unmap(l.raw, types.CompAll)
		})
		for _, r := range l.regions {
			r.invalidate()
		}
		l.regions = nil
	}
	err := l.s.call("Annul", func() error {
		return l.s.engine.Annul(l.raw)
	})
	if mapErr != nil {
		return mapErr
	}
	return err
}

// derive runs an engine call that yields a new handle and wraps it.
func (l *Locator) derive(op string, fn func() (types.RawHandle, error)) (*Locator, error) {
	if err := l.check(op); err != nil {
		return nil, err
	}
	var raw types.RawHandle
	err := l.s.call(op, func() (err error) {
		raw, err = fn()
		return err
	})
	if err != nil {
		return nil, err
	}
	return l.s.Wrap(raw), nil
}

// query runs an engine call that yields a value.
func query[T any](l *Locator, op string, fn func() (T, error)) (T, error) {
	var out T
	if err := l.check(op); err != nil {
		return out, err
	}
	err := l.s.call(op, func() (err error) {
		out, err = fn()
		return err
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// Clone returns a second locator on the same object.
func (l *Locator) Clone() (*Locator, error) {
	return l.derive("Clone", func() (types.RawHandle, error) {
		return l.s.engine.Clone(l.raw)
	})
}

// Cell returns a locator on one element of an array. indices are zero-based
// and in caller order; there must be one per dimension. On a scalar, Cell
// with no indices returns a new locator on the same object, like Clone.
func (l *Locator) Cell(indices ...int) (*Locator, error) {
	const op = "Cell"
	shape, err := l.Shape()
	if err != nil {
		return nil, err
	}
	if len(indices) != len(shape) {
		return nil, types.E(op, types.KindRange,
			fmt.Sprintf("%d indices given for %d-dimensional object", len(indices), len(shape)))
	}
	for i, idx := range indices {
		if idx < 0 || idx >= shape[i] {
			return nil, types.E(op, types.KindRange,
				fmt.Sprintf("index %d on axis %d is outside 0..%d", idx, i, shape[i]-1))
		}
	}
	subs := types.StoreSubscripts(indices)
	return l.derive(op, func() (types.RawHandle, error) {
		return l.s.engine.Cell(l.raw, subs)
	})
}

// Index returns a locator on the component at zero-based position pos.
func (l *Locator) Index(pos int) (*Locator, error) {
	const op = "Index"
	n, err := l.Ncomp()
	if err != nil {
		return nil, err
	}
	if pos < 0 || pos >= n {
		return nil, types.E(op, types.KindRange, fmt.Sprintf("component %d is outside 0..%d", pos, n-1))
	}
	return l.derive(op, func() (types.RawHandle, error) {
		return l.s.engine.Index(l.raw, pos+1)
	})
}

// Find returns a locator on the named component. A missing component fails
// with KindNotFound.
func (l *Locator) Find(name string) (*Locator, error) {
	return l.derive("Find", func() (types.RawHandle, error) {
		return l.s.engine.Find(l.raw, name)
	})
}

// There reports whether the structure has the named component.
func (l *Locator) There(name string) (bool, error) {
	return query(l, "There", func() (bool, error) {
		return l.s.engine.There(l.raw, name)
	})
}

// Erase deletes the named component.
func (l *Locator) Erase(name string) error {
	if err := l.check("Erase"); err != nil {
		return err
	}
	return l.s.call("Erase", func() error {
		return l.s.engine.Erase(l.raw, name)
	})
}

// Name returns the object name.
func (l *Locator) Name() (string, error) {
	return query(l, "Name", func() (string, error) {
		return l.s.engine.Name(l.raw)
	})
}

// Ncomp returns the number of components of a structure.
func (l *Locator) Ncomp() (int, error) {
	return query(l, "Ncomp", func() (int, error) {
		return l.s.engine.Ncomp(l.raw)
	})
}

// Shape returns the caller-order shape, nil for a scalar.
func (l *Locator) Shape() (types.Shape, error) {
	st, err := query(l, "Shape", func() (types.StoreShape, error) {
		return l.s.engine.Shape(l.raw, types.MaxComponentDims)
	})
	if err != nil {
		return nil, err
	}
	return st.Caller(), nil
}

// Type returns the stored type: a primitive type string such as "_REAL" or
// a structure type name.
func (l *Locator) Type() (string, error) {
	return query(l, "Type", func() (string, error) {
		return l.s.engine.Type(l.raw)
	})
}

// Len returns the byte width of one element of a primitive.
func (l *Locator) Len() (int, error) {
	return query(l, "Len", func() (int, error) {
		return l.s.engine.Len(l.raw)
	})
}

// Struc reports whether the object is a structure.
func (l *Locator) Struc() (bool, error) {
	return query(l, "Struc", func() (bool, error) {
		return l.s.engine.Struc(l.raw)
	})
}

// State reports whether a primitive holds a defined value.
func (l *Locator) State() (bool, error) {
	return query(l, "State", func() (bool, error) {
		return l.s.engine.State(l.raw)
	})
}
