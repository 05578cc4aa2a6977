package sqlite

import (
	"errors"
	"math"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/hdsbridge/pkg/types"
)

// mapping is one mapped component held by a handle. The engine owns buf
// until the mapping is released; released mappings in UPDATE or WRITE mode
// are written back.
type mapping struct {
	comp    types.Component
	nodeID  string
	mode    types.AccessMode
	buf     *types.Buffer
	errView bool
}

// mapOrder fixes the order in which a handle's mappings are released.
var mapOrder = []types.Component{types.CompData, types.CompQuality, types.CompVariance, types.CompError}

// Map maps an array component of the object behind h. ERROR is served as
// the square root of VARIANCE and is written back squared.
func (e *Engine) Map(h types.RawHandle, comp types.Component, t types.TypeTag, mode types.AccessMode) ([]byte, int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	const op = "Map"
	ent, nd, err := e.entryNode(op, h)
	if err != nil {
		return nil, 0, err
	}
	if !comp.Mappable() {
		return nil, 0, e.fail(types.StatusBadMode, op, "component %q cannot be mapped", comp)
	}
	if !mode.Valid() {
		return nil, 0, e.fail(types.StatusBadMode, op, "access mode %q is not READ, UPDATE or WRITE", mode)
	}
	if !t.Valid() || t.IsChar() {
		return nil, 0, e.fail(types.StatusBadType, op, "%s cannot be mapped", t)
	}
	if comp == types.CompQuality && t != types.TypeUByte {
		return nil, 0, e.fail(types.StatusBadType, op, "QUALITY must be mapped as _UBYTE, not %s", t)
	}
	errView := comp == types.CompError
	if errView && t != types.TypeReal && t != types.TypeDouble {
		return nil, 0, e.fail(types.StatusBadType, op, "ERROR must be mapped as _REAL or _DOUBLE, not %s", t)
	}
	if mode != types.ModeRead {
		if err := e.requireWritable(op, ent); err != nil {
			return nil, 0, err
		}
	}
	if ent.mapped(comp) {
		return nil, 0, e.fail(types.StatusMapped, op, "%s of %s is already mapped", comp, nd.name)
	}

	data, cell, err := e.objectParts(op, ent, nd)
	if err != nil {
		return nil, 0, err
	}
	target := comp
	if errView {
		target = types.CompVariance
	}

	var n *node
	if target == types.CompData {
		n = data
	} else {
		n, err = findChild(ent.c.db, nd.id, cell, string(target))
		if err != nil && !errors.Is(err, errNoRow) {
			return nil, 0, e.failErr(op, err)
		}
	}
	if n == nil {
		if mode != types.ModeWrite {
			return nil, 0, e.fail(types.StatusUndefined, op, "%s of %s is undefined", comp, nd.name)
		}
		n, err = e.createChild(op, ent.c, nd, cell, string(target), t.String(), data.dims)
		if err != nil {
			return nil, 0, err
		}
	}
	if n.isStruct {
		return nil, 0, e.fail(types.StatusNotPrimitive, op, "%s of %s is a structure", target, nd.name)
	}
	if n.typ != t.String() {
		return nil, 0, e.fail(types.StatusBadType, op, "%s of %s is stored as %s, not %s", target, nd.name, n.typ, t)
	}

	buf, err := types.Allocate(t, n.dims.Caller())
	if err != nil {
		return nil, 0, e.failErr(op, err)
	}
	if mode != types.ModeWrite {
		if !n.defined {
			return nil, 0, e.fail(types.StatusUndefined, op, "%s of %s is undefined", comp, nd.name)
		}
		if len(n.data) != len(buf.Data) {
			return nil, 0, e.fail(types.StatusError, op, "%s of %s holds %d bytes, expected %d", target, nd.name, len(n.data), len(buf.Data))
		}
		copy(buf.Data, n.data)
		if errView {
			varianceToError(buf)
		}
	}

	if ent.maps == nil {
		ent.maps = make(map[types.Component]*mapping)
	}
	ent.maps[comp] = &mapping{comp: comp, nodeID: n.id, mode: mode, buf: buf, errView: errView}
	Logger().Debug("component mapped",
		zap.String("object", describe(nd)),
		zap.String("component", string(comp)),
		zap.String("mode", string(mode)),
		zap.Int("count", buf.Len()))
	return buf.Data, buf.Len(), nil
}

// mapped reports whether comp, or the component it shares storage with,
// is mapped on this handle.
func (ent *handleEntry) mapped(comp types.Component) bool {
	if ent.maps[comp] != nil {
		return true
	}
	switch comp {
	case types.CompError:
		return ent.maps[types.CompVariance] != nil
	case types.CompVariance:
		return ent.maps[types.CompError] != nil
	}
	return false
}

// Unmap releases mappings on h. VARIANCE also releases an ERROR mapping,
// and "*" releases every mapping the handle holds.
func (e *Engine) Unmap(h types.RawHandle, comp types.Component) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	const op = "Unmap"
	ent, err := e.entry(op, h)
	if err != nil {
		return err
	}
	if !comp.Unmappable() {
		return e.fail(types.StatusBadMode, op, "component %q cannot be unmapped", comp)
	}

	switch comp {
	case types.CompAll:
		return e.unmapAll(ent)
	case types.CompAxis:
		// Axis arrays are read through navigation, never mapped.
		return nil
	case types.CompVariance:
		if !ent.mapped(types.CompVariance) {
			return e.fail(types.StatusNotMapped, op, "VARIANCE is not mapped")
		}
		if err := e.unmapOne(ent, types.CompVariance); err != nil {
			return err
		}
		return e.unmapOne(ent, types.CompError)
	}
	if ent.maps[comp] == nil {
		return e.fail(types.StatusNotMapped, op, "%s is not mapped", comp)
	}
	return e.unmapOne(ent, comp)
}

func (e *Engine) unmapAll(ent *handleEntry) error {
	var firstErr error
	for _, comp := range mapOrder {
		if err := e.unmapOne(ent, comp); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// unmapOne writes back and forgets one mapping; absent mappings are ignored.
func (e *Engine) unmapOne(ent *handleEntry, comp types.Component) error {
	m := ent.maps[comp]
	if m == nil {
		return nil
	}
	delete(ent.maps, comp)
	if m.mode == types.ModeRead {
		return nil
	}
	data := m.buf.Data
	if m.errView {
		data = errorToVariance(m.buf)
	}
	if err := writeData(ent.c.db, m.nodeID, append([]byte(nil), data...)); err != nil {
		return e.failErr("Unmap", err)
	}
	return nil
}

// varianceToError replaces variances in buf with standard deviations.
// Negative variances become bad values.
func varianceToError(buf *types.Buffer) {
	switch buf.Type {
	case types.TypeReal:
		v := buf.Float32s()
		for i, x := range v {
			if x < 0 || x == types.BadReal {
				v[i] = types.BadReal
				continue
			}
			v[i] = float32(math.Sqrt(float64(x)))
		}
	case types.TypeDouble:
		v := buf.Float64s()
		for i, x := range v {
			if x < 0 || x == types.BadDouble {
				v[i] = types.BadDouble
				continue
			}
			v[i] = math.Sqrt(x)
		}
	}
}

// errorToVariance returns the squares of the standard deviations in buf.
func errorToVariance(buf *types.Buffer) []byte {
	out, _ := types.Allocate(buf.Type, buf.Shape)
	switch buf.Type {
	case types.TypeReal:
		src, dst := buf.Float32s(), out.Float32s()
		for i, x := range src {
			if x == types.BadReal {
				dst[i] = types.BadReal
				continue
			}
			dst[i] = x * x
		}
	case types.TypeDouble:
		src, dst := buf.Float64s(), out.Float64s()
		for i, x := range src {
			if x == types.BadDouble {
				dst[i] = types.BadDouble
				continue
			}
			dst[i] = x * x
		}
	}
	return out.Data
}
