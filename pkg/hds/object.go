package hds

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/hdsbridge/pkg/types"
)

// Character components of an array object.
const (
	CompTitle = "TITLE"
	CompLabel = "LABEL"
	CompUnits = "UNITS"
)

// NewObject creates an array object with the given caller-order pixel
// bounds and returns a locator on it. An empty name turns the structure
// behind l itself into the object.
func (l *Locator) NewObject(name string, tag types.TypeTag, lbnd, ubnd []int) (*Locator, error) {
	const op = "NewObject"
	if len(lbnd) != len(ubnd) || len(lbnd) < 1 || len(lbnd) > types.MaxComponentDims {
		return nil, types.E(op, types.KindInvalidArgument,
			fmt.Sprintf("need 1 to %d matching bounds, got %d lower and %d upper", types.MaxComponentDims, len(lbnd), len(ubnd)))
	}
	for i := range lbnd {
		if ubnd[i] < lbnd[i] {
			return nil, types.E(op, types.KindInvalidArgument,
				fmt.Sprintf("upper bound %d is below lower bound %d on axis %d", ubnd[i], lbnd[i], i))
		}
	}
	if !tag.Valid() || tag.IsChar() {
		return nil, types.E(op, types.KindUnsupportedType, tag.String())
	}
	lo, hi := types.ReverseBounds(lbnd), types.ReverseBounds(ubnd)
	return l.derive(op, func() (types.RawHandle, error) {
		return l.s.engine.NewObject(l.raw, name, tag, lo, hi)
	})
}

// Dim returns the caller-order dimensions of an array object.
func (l *Locator) Dim() (types.Shape, error) {
	st, err := query(l, "Dim", func() (types.StoreShape, error) {
		return l.s.engine.Dim(l.raw, types.MaxObjectDims)
	})
	if err != nil {
		return nil, err
	}
	return st.Caller(), nil
}

// Bound returns the caller-order lower and upper pixel bounds of an array
// object.
func (l *Locator) Bound() (lower, upper []int, err error) {
	if err := l.check("Bound"); err != nil {
		return nil, nil, err
	}
	var lo, hi []int
	err = l.s.call("Bound", func() (err error) {
		lo, hi, err = l.s.engine.Bound(l.raw, types.MaxObjectDims)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return types.ReverseBounds(lo), types.ReverseBounds(hi), nil
}

// storedComponent names the component that holds comp's values.
func storedComponent(comp types.Component) types.Component {
	if comp == types.CompError {
		return types.CompVariance
	}
	return comp
}

// CompState reports whether a component of the object is defined. ERROR
// is defined when VARIANCE is, and EXTENSION when the object has
// extensions.
func (l *Locator) CompState(comp string) (bool, error) {
	const op = "CompState"
	name := strings.ToUpper(comp)
	switch name {
	case "EXTENSION":
		n, err := l.Xnumb()
		return n > 0, err
	case string(types.CompError):
		name = string(types.CompVariance)
	}
	if !validComponent(name) {
		return false, types.E(op, types.KindInvalidArgument, fmt.Sprintf("unknown component %q", comp))
	}
	there, err := l.There(name)
	if err != nil || !there {
		return false, err
	}
	c, err := l.Find(name)
	if err != nil {
		return false, err
	}
	defer annulTemp(c)
	struc, err := c.Struc()
	if err != nil || struc {
		return struc, err
	}
	return c.State()
}

func validComponent(name string) bool {
	switch name {
	case string(types.CompData), string(types.CompQuality), string(types.CompVariance),
		string(types.CompAxis), CompTitle, CompLabel, CompUnits:
		return true
	}
	return false
}

func characterComponent(op, comp string) (string, error) {
	name := strings.ToUpper(comp)
	switch name {
	case CompTitle, CompLabel, CompUnits:
		return name, nil
	}
	return "", types.E(op, types.KindInvalidArgument, fmt.Sprintf("%q is not TITLE, LABEL or UNITS", comp))
}

// Cget returns a character component. ok is false, with an empty value,
// when the component is undefined.
func (l *Locator) Cget(comp string) (value string, ok bool, err error) {
	name, err := characterComponent("Cget", comp)
	if err != nil {
		return "", false, err
	}
	return l.readString(name)
}

// readString reads a named scalar character component, if defined.
func (l *Locator) readString(name string) (string, bool, error) {
	there, err := l.There(name)
	if err != nil || !there {
		return "", false, err
	}
	c, err := l.Find(name)
	if err != nil {
		return "", false, err
	}
	defer annulTemp(c)
	defined, err := c.State()
	if err != nil || !defined {
		return "", false, err
	}
	v, err := c.GetString()
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

// Cput sets a character component, replacing any previous value.
func (l *Locator) Cput(comp, value string) error {
	name, err := characterComponent("Cput", comp)
	if err != nil {
		return err
	}
	return l.writeString(name, value)
}

// writeString replaces a scalar character component with one exactly wide
// enough for value.
func (l *Locator) writeString(name, value string) error {
	there, err := l.There(name)
	if err != nil {
		return err
	}
	if there {
		if err := l.Erase(name); err != nil {
			return err
		}
	}
	width := max(len(value), 1)
	if err := l.New(name, types.TypeChar(width), nil); err != nil {
		return err
	}
	c, err := l.Find(name)
	if err != nil {
		return err
	}
	defer annulTemp(c)
	return c.PutString(value)
}

// Read copies an array component into a new buffer with the object's
// shape. It returns nil when the component is undefined. comp is DATA,
// QUALITY, VARIANCE or ERROR.
func (l *Locator) Read(comp types.Component) (buf *types.Buffer, err error) {
	const op = "Read"
	if !comp.Mappable() {
		return nil, types.E(op, types.KindInvalidArgument, fmt.Sprintf("component %q cannot be read", comp))
	}
	defined, err := l.CompState(string(comp))
	if err != nil {
		return nil, err
	}
	if !defined {
		return nil, nil
	}
	dims, err := l.Dim()
	if err != nil {
		return nil, err
	}
	tag, err := l.componentTag(storedComponent(comp))
	if err != nil {
		return nil, err
	}

	region, err := l.Map(comp, tag, types.ModeRead)
	if err != nil {
		return nil, err
	}
	defer func() {
		if uerr := l.Unmap(storedComponent(comp)); uerr != nil {
			if err == nil {
				buf, err = nil, uerr
				return
			}
			Logger().Warn("unmapping after failed read", zap.String("component", string(comp)), zap.Error(uerr))
		}
	}()

	if region.Count() != dims.Size() {
		return nil, types.E(op, types.KindSizeMismatch,
			fmt.Sprintf("%s maps %d elements, object has %d", comp, region.Count(), dims.Size()))
	}
	buf, err = types.Allocate(tag, dims)
	if err != nil {
		return nil, err
	}
	if err := region.CopyOut(buf, region.Count()); err != nil {
		return nil, err
	}
	return buf, nil
}

// componentTag returns the stored type of a primitive component.
func (l *Locator) componentTag(comp types.Component) (types.TypeTag, error) {
	c, err := l.Find(string(comp))
	if err != nil {
		return types.TypeTag{}, err
	}
	defer annulTemp(c)
	return c.Tag()
}

// BadValue returns the bad-pixel value of the object's DATA type.
func (l *Locator) BadValue() (float64, error) {
	tag, err := l.componentTag(types.CompData)
	if err != nil {
		return 0, err
	}
	return types.BadValue(tag)
}
