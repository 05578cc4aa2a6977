package hds

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/hdsbridge/pkg/types"
)

// MappedRegion is a window onto an array component's storage. The bytes
// belong to the engine and stay valid until the region is unmapped, either
// through Locator.Unmap, by annulling the locator, or when the owning
// scope ends.
type MappedRegion struct {
	loc    *Locator
	comp   types.Component
	tag    types.TypeTag
	mode   types.AccessMode
	data   []byte
	count  int
	mapped bool
}

// Map maps an array component of the object. comp is DATA, QUALITY,
// VARIANCE or ERROR; mode is READ, UPDATE or WRITE. QUALITY can only be
// mapped as _UBYTE and character types cannot be mapped; other
// combinations fail with KindInvalidArgument.
func (l *Locator) Map(comp types.Component, tag types.TypeTag, mode types.AccessMode) (*MappedRegion, error) {
	const op = "Map"
	if err := l.check(op); err != nil {
		return nil, err
	}
	if !comp.Mappable() {
		return nil, types.E(op, types.KindInvalidArgument, fmt.Sprintf("component %q cannot be mapped", comp))
	}
	if !mode.Valid() {
		return nil, types.E(op, types.KindInvalidArgument, fmt.Sprintf("access mode %q is not READ, UPDATE or WRITE", mode))
	}
	if !tag.Valid() || tag.IsChar() {
		return nil, types.E(op, types.KindInvalidArgument, fmt.Sprintf("type %s cannot be mapped", tag))
	}
	if comp == types.CompQuality && tag != types.TypeUByte {
		return nil, types.E(op, types.KindInvalidArgument, "QUALITY must be mapped as _UBYTE, not "+tag.String())
	}

	var (
		data  []byte
		count int
	)
	err := l.s.call(op, func() (err error) {
		data, count, err = l.s.engine.Map(l.raw, comp, tag, mode)
		return err
	})
	if err != nil {
		return nil, err
	}

	r := &MappedRegion{loc: l, comp: comp, tag: tag, mode: mode, data: data, count: count, mapped: true}
	if l.regions == nil {
		l.regions = make(map[types.Component]*MappedRegion)
	}
	l.regions[comp] = r
	sc := l.s.innermost()
	sc.regions = append(sc.regions, r)
	Logger().Debug("mapped",
		zap.String("component", string(comp)),
		zap.String("type", tag.String()),
		zap.String("mode", string(mode)),
		zap.Int("count", count))
	return r, nil
}

// Unmap releases the mapping of comp, or every mapping on the locator when
// comp is "*". Unmapping VARIANCE also releases an ERROR mapping, since
// ERROR is a view of VARIANCE. Valid components are DATA, QUALITY,
// VARIANCE, AXIS and "*".
func (l *Locator) Unmap(comp types.Component) error {
	const op = "Unmap"
	if err := l.check(op); err != nil {
		return err
	}
	if !comp.Unmappable() {
		return types.E(op, types.KindInvalidArgument, fmt.Sprintf("component %q cannot be unmapped", comp))
	}
	err := l.s.call(op, func() error {
		return l.s.engine.Unmap(l.raw, comp)
	})
	if err != nil {
		return err
	}
	for _, c := range releasedBy(comp) {
		if r := l.regions[c]; r != nil {
			r.invalidate()
		}
	}
	return nil
}

// releasedBy lists the mapped components an Unmap of comp releases.
func releasedBy(comp types.Component) []types.Component {
	switch comp {
	case types.CompAll:
		return []types.Component{types.CompData, types.CompQuality, types.CompVariance, types.CompError}
	case types.CompVariance:
		return []types.Component{types.CompVariance, types.CompError}
	case types.CompAxis:
		return nil
	}
	return []types.Component{comp}
}

// release unmaps the region on behalf of its scope.
func (r *MappedRegion) release() error {
	if !r.mapped {
		return nil
	}
	if !r.loc.Valid() {
		r.invalidate()
		return nil
	}
	comp := r.comp
	if comp == types.CompError {
		comp = types.CompVariance
	}
	return r.loc.Unmap(comp)
}

func (r *MappedRegion) invalidate() {
	r.mapped = false
	r.data = nil
	if r.loc.regions[r.comp] == r {
		delete(r.loc.regions, r.comp)
	}
}

// Mapped reports whether the region is still mapped.
func (r *MappedRegion) Mapped() bool { return r.mapped }

// Bytes returns the mapped bytes, or nil once unmapped.
func (r *MappedRegion) Bytes() []byte { return r.data }

// Count returns the number of mapped elements.
func (r *MappedRegion) Count() int { return r.count }

// Mode returns the access mode the region was mapped with.
func (r *MappedRegion) Mode() types.AccessMode { return r.mode }

// Component returns the mapped component.
func (r *MappedRegion) Component() types.Component { return r.comp }

// Type returns the mapped element type.
func (r *MappedRegion) Type() types.TypeTag { return r.tag }

// Locator returns the locator the region was mapped through.
func (r *MappedRegion) Locator() *Locator { return r.loc }

// CopyIn copies the first count elements of buf into the region.
func (r *MappedRegion) CopyIn(buf *types.Buffer, count int) error {
	n, err := r.transfer("CopyIn", buf, count)
	if err != nil {
		return err
	}
	copy(r.data[:n], buf.Data[:n])
	return nil
}

// CopyOut copies the first count elements of the region into buf.
func (r *MappedRegion) CopyOut(buf *types.Buffer, count int) error {
	n, err := r.transfer("CopyOut", buf, count)
	if err != nil {
		return err
	}
	copy(buf.Data[:n], r.data[:n])
	return nil
}

// transfer validates a block copy and returns its length in bytes.
func (r *MappedRegion) transfer(op string, buf *types.Buffer, count int) (int, error) {
	if !r.mapped {
		return 0, types.E(op, types.KindInvalidOperation, "region is not mapped")
	}
	if buf == nil {
		return 0, types.E(op, types.KindInvalidArgument, "nil buffer")
	}
	if count < 0 {
		return 0, types.E(op, types.KindInvalidArgument, fmt.Sprintf("negative count %d", count))
	}
	if buf.Elem != r.tag.Width() {
		return 0, types.E(op, types.KindSizeMismatch,
			fmt.Sprintf("buffer element width %d does not match %s", buf.Elem, r.tag))
	}
	if count > r.count {
		return 0, types.E(op, types.KindSizeMismatch,
			fmt.Sprintf("count %d exceeds the %d mapped elements", count, r.count))
	}
	if count > buf.Len() {
		return 0, types.E(op, types.KindSizeMismatch,
			fmt.Sprintf("count %d exceeds the %d buffer elements", count, buf.Len()))
	}
	return count * r.tag.Width(), nil
}
