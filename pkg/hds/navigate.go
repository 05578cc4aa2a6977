package hds

import (
	"fmt"

	"github.com/mesh-intelligence/hdsbridge/pkg/types"
)

// WholeObject is the caller axis index meaning every axis at once.
const WholeObject = -1

// TranslateAxis converts a zero-based caller axis into the engine's
// one-based store axis. WholeObject maps to 0. Any other axis must lie in
// 0..ndim-1 and maps to ndim-axis.
func (l *Locator) TranslateAxis(axis int) (int, error) {
	const op = "TranslateAxis"
	dims, err := l.Dim()
	if err != nil {
		return 0, err
	}
	return translateAxis(op, axis, len(dims))
}

func translateAxis(op string, axis, ndim int) (int, error) {
	if axis == WholeObject {
		return 0, nil
	}
	if axis < 0 || axis >= ndim {
		return 0, types.E(op, types.KindRange, fmt.Sprintf("axis %d is outside 0..%d", axis, ndim-1))
	}
	return ndim - axis, nil
}

// Xnumb returns the number of extensions of the object.
func (l *Locator) Xnumb() (int, error) {
	return query(l, "Xnumb", func() (int, error) {
		return l.s.engine.Xnumb(l.raw)
	})
}

// Xname returns the name of the extension at zero-based position n.
func (l *Locator) Xname(n int) (string, error) {
	const op = "Xname"
	if n < 0 {
		return "", types.E(op, types.KindRange, fmt.Sprintf("extension %d is negative", n))
	}
	return query(l, op, func() (string, error) {
		return l.s.engine.Xname(l.raw, n+1)
	})
}

// Xstat reports whether the named extension exists.
func (l *Locator) Xstat(name string) (bool, error) {
	return query(l, "Xstat", func() (bool, error) {
		return l.s.engine.Xstat(l.raw, name)
	})
}

// Xloc returns a locator on the named extension.
func (l *Locator) Xloc(name string, mode types.AccessMode) (*Locator, error) {
	const op = "Xloc"
	if !mode.Valid() {
		return nil, types.E(op, types.KindInvalidArgument, fmt.Sprintf("access mode %q is not READ, UPDATE or WRITE", mode))
	}
	return l.derive(op, func() (types.RawHandle, error) {
		return l.s.engine.Xloc(l.raw, name, mode)
	})
}

// Xnew creates an extension and returns a locator on it. typ is a
// structure type name or a primitive type string.
func (l *Locator) Xnew(name, typ string, shape types.Shape) (*Locator, error) {
	const op = "Xnew"
	if err := shape.Validate(types.MaxComponentDims); err != nil {
		return nil, err
	}
	if !types.IsStructureType(typ) {
		if _, err := types.ParseTypeTag(typ); err != nil {
			return nil, types.Wrap(op, types.KindUnsupportedType, err)
		}
	}
	return l.derive(op, func() (types.RawHandle, error) {
		return l.s.engine.Xnew(l.raw, name, typ, shape.Store())
	})
}

// Extensions returns the names of every extension in order.
func (l *Locator) Extensions() ([]string, error) {
	n, err := l.Xnumb()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, n)
	for i := 0; i < n; i++ {
		name, err := l.Xname(i)
		if err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, nil
}
