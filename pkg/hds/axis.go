package hds

import (
	"fmt"
	"strings"

	"github.com/mesh-intelligence/hdsbridge/pkg/types"
)

// Axis components. CENTRE is stored as DATA_ARRAY inside each element of
// the object's AXIS structure array.
const (
	AxisCentre   = "CENTRE"
	AxisLabel    = "LABEL"
	AxisUnits    = "UNITS"
	AxisVariance = "VARIANCE"
	AxisWidth    = "WIDTH"
	axisNorm     = "NORM"
	axisVariant  = "VARIANT"
	axisCentres  = "DATA_ARRAY"
)

// AxisFormSimple is the storage form of an axis array held as a plain
// primitive, and of one that has no stored values yet.
const AxisFormSimple = "SIMPLE"

func axisComponent(op, comp string, allowed ...string) (string, error) {
	name := strings.ToUpper(comp)
	if name == "DATA" {
		name = AxisCentre
	}
	for _, a := range allowed {
		if name == a {
			if name == AxisCentre {
				return axisCentres, nil
			}
			return name, nil
		}
	}
	return "", types.E(op, types.KindInvalidArgument,
		fmt.Sprintf("axis component %q is not one of %s", comp, strings.Join(allowed, ", ")))
}

// storeAxes returns the one-based store axes a caller axis selects:
// every axis for WholeObject, otherwise exactly one.
func (l *Locator) storeAxes(op string, axis int) ([]int, error) {
	dims, err := l.Dim()
	if err != nil {
		return nil, err
	}
	k, err := translateAxis(op, axis, len(dims))
	if err != nil {
		return nil, err
	}
	if k != 0 {
		return []int{k}, nil
	}
	all := make([]int, len(dims))
	for i := range all {
		all[i] = i + 1
	}
	return all, nil
}

// oneAxis is storeAxes for operations that need a single axis.
func (l *Locator) oneAxis(op string, axis int) (int, error) {
	if axis == WholeObject {
		return 0, types.E(op, types.KindInvalidArgument, "a single axis is required")
	}
	ks, err := l.storeAxes(op, axis)
	if err != nil {
		return 0, err
	}
	return ks[0], nil
}

// axisCell returns a locator on the AXIS element for store axis k, or nil
// when the object has no axis structure.
func (l *Locator) axisCell(k int) (*Locator, error) {
	there, err := l.There(string(types.CompAxis))
	if err != nil || !there {
		return nil, err
	}
	ax, err := l.Find(string(types.CompAxis))
	if err != nil {
		return nil, err
	}
	defer annulTemp(ax)
	return ax.Cell(k - 1)
}

// definedIn reports whether the structure l has a defined primitive name.
func (l *Locator) definedIn(name string) (bool, error) {
	there, err := l.There(name)
	if err != nil || !there {
		return false, err
	}
	c, err := l.Find(name)
	if err != nil {
		return false, err
	}
	defer annulTemp(c)
	return c.State()
}

// AxisState reports whether an axis component is defined. With
// WholeObject it reports whether the component is defined on any axis.
func (l *Locator) AxisState(comp string, axis int) (bool, error) {
	const op = "AxisState"
	name, err := axisComponent(op, comp, AxisCentre, AxisLabel, AxisUnits, AxisVariance, AxisWidth)
	if err != nil {
		return false, err
	}
	ks, err := l.storeAxes(op, axis)
	if err != nil {
		return false, err
	}
	for _, k := range ks {
		cell, err := l.axisCell(k)
		if err != nil {
			return false, err
		}
		if cell == nil {
			return false, nil
		}
		ok, err := cell.definedIn(name)
		annulTemp(cell)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// AxisNorm reports the normalisation flag of an axis. With WholeObject it
// reports whether any axis is normalised. An unset flag is false.
func (l *Locator) AxisNorm(axis int) (bool, error) {
	const op = "AxisNorm"
	ks, err := l.storeAxes(op, axis)
	if err != nil {
		return false, err
	}
	for _, k := range ks {
		norm, err := l.axisNormOf(k)
		if err != nil {
			return false, err
		}
		if norm {
			return true, nil
		}
	}
	return false, nil
}

func (l *Locator) axisNormOf(k int) (bool, error) {
	cell, err := l.axisCell(k)
	if err != nil || cell == nil {
		return false, err
	}
	defer annulTemp(cell)
	ok, err := cell.definedIn(axisNorm)
	if err != nil || !ok {
		return false, err
	}
	c, err := cell.Find(axisNorm)
	if err != nil {
		return false, err
	}
	defer annulTemp(c)
	buf, err := c.Get()
	if err != nil {
		return false, err
	}
	if v := buf.Int32s(); len(v) > 0 {
		return v[0] != 0, nil
	}
	return false, types.E("AxisNorm", types.KindInvalidOperation, "NORM is not _LOGICAL")
}

// AxisCget returns an axis character component. ok is false, with an empty
// value, when it is undefined.
func (l *Locator) AxisCget(comp string, axis int) (value string, ok bool, err error) {
	const op = "AxisCget"
	name, err := axisComponent(op, comp, AxisLabel, AxisUnits)
	if err != nil {
		return "", false, err
	}
	k, err := l.oneAxis(op, axis)
	if err != nil {
		return "", false, err
	}
	cell, err := l.axisCell(k)
	if err != nil || cell == nil {
		return "", false, err
	}
	defer annulTemp(cell)
	return cell.readString(name)
}

// AxisCput sets an axis character component, creating the axis structure
// when the object has none.
func (l *Locator) AxisCput(comp string, axis int, value string) error {
	const op = "AxisCput"
	name, err := axisComponent(op, comp, AxisLabel, AxisUnits)
	if err != nil {
		return err
	}
	k, err := l.oneAxis(op, axis)
	if err != nil {
		return err
	}
	if err := l.ensureAxes(); err != nil {
		return err
	}
	cell, err := l.axisCell(k)
	if err != nil {
		return err
	}
	defer annulTemp(cell)
	return cell.writeString(name, value)
}

// ensureAxes creates the AXIS structure array if it is missing.
func (l *Locator) ensureAxes() error {
	there, err := l.There(string(types.CompAxis))
	if err != nil || there {
		return err
	}
	dims, err := l.Dim()
	if err != nil {
		return err
	}
	return l.NewStructure(string(types.CompAxis), types.AxisType, types.Shape{len(dims)})
}

// AxisRead copies an axis array component. CENTRE defaults to pixel
// centres and WIDTH to 1 when undefined; an undefined VARIANCE gives nil.
func (l *Locator) AxisRead(comp string, axis int) (*types.Buffer, error) {
	const op = "AxisRead"
	name, err := axisComponent(op, comp, AxisCentre, AxisVariance, AxisWidth)
	if err != nil {
		return nil, err
	}
	k, err := l.oneAxis(op, axis)
	if err != nil {
		return nil, err
	}

	cell, err := l.axisCell(k)
	if err != nil {
		return nil, err
	}
	if cell != nil {
		defer annulTemp(cell)
		ok, err := cell.definedIn(name)
		if err != nil {
			return nil, err
		}
		if ok {
			c, err := cell.Find(name)
			if err != nil {
				return nil, err
			}
			defer annulTemp(c)
			return c.Get()
		}
	}

	if name == AxisVariance {
		return nil, nil
	}
	lower, upper, err := l.Bound()
	if err != nil {
		return nil, err
	}
	n := upper[axis] - lower[axis] + 1
	values := make([]float64, n)
	for i := range values {
		if name == AxisWidth {
			values[i] = 1
		} else {
			values[i] = float64(lower[axis]+i) - 0.5
		}
	}
	return types.BufferOf(types.TypeDouble, types.Shape{n}, values)
}

// AxisForm returns the storage form of an axis array component, CENTRE or
// WIDTH. Primitive and defaulted components are SIMPLE; a component stored
// as an array structure reports the form named by its VARIANT.
func (l *Locator) AxisForm(comp string, axis int) (string, error) {
	const op = "AxisForm"
	name, err := axisComponent(op, comp, AxisCentre, AxisWidth)
	if err != nil {
		return "", err
	}
	k, err := l.oneAxis(op, axis)
	if err != nil {
		return "", err
	}
	cell, err := l.axisCell(k)
	if err != nil || cell == nil {
		return AxisFormSimple, err
	}
	defer annulTemp(cell)

	there, err := cell.There(name)
	if err != nil || !there {
		return AxisFormSimple, err
	}
	c, err := cell.Find(name)
	if err != nil {
		return "", err
	}
	defer annulTemp(c)
	struc, err := c.Struc()
	if err != nil || !struc {
		return AxisFormSimple, err
	}
	form, ok, err := c.readString(axisVariant)
	if err != nil {
		return "", err
	}
	if form = strings.ToUpper(strings.TrimSpace(form)); !ok || form == "" {
		return AxisFormSimple, nil
	}
	return form, nil
}
