package sqlite

import (
	"github.com/mesh-intelligence/hdsbridge/pkg/types"
)

// handleEntry is one slot of the handle table.
type handleEntry struct {
	c      *container
	nodeID string
	// sub is the one-based linear element index when the handle addresses a
	// single cell of an array, 0 when it addresses the whole node.
	sub   int
	maps  map[types.Component]*mapping
	valid bool
}

// handleTable hands out RawHandles. Handle 0 is reserved; released slots
// are recycled through a free list.
type handleTable struct {
	entries  []handleEntry
	freeList []types.RawHandle
}

func newHandleTable() *handleTable {
	return &handleTable{
		entries:  make([]handleEntry, 0, 64),
		freeList: make([]types.RawHandle, 0, 16),
	}
}

func (t *handleTable) create(c *container, nodeID string, sub int) types.RawHandle {
	e := handleEntry{c: c, nodeID: nodeID, sub: sub, valid: true}
	c.refs++

	if len(t.freeList) > 0 {
		h := t.freeList[len(t.freeList)-1]
		t.freeList = t.freeList[:len(t.freeList)-1]
		t.entries[h-1] = e
		return h
	}

	t.entries = append(t.entries, e)
	return types.RawHandle(len(t.entries))
}

func (t *handleTable) get(h types.RawHandle) (*handleEntry, bool) {
	if h == 0 {
		return nil, false
	}
	idx := int(h - 1)
	if idx >= len(t.entries) {
		return nil, false
	}
	e := &t.entries[idx]
	if !e.valid {
		return nil, false
	}
	return e, true
}

// drop invalidates h and returns its container so the caller can release
// it when no handles remain.
func (t *handleTable) drop(h types.RawHandle) (*container, bool) {
	e, ok := t.get(h)
	if !ok {
		return nil, false
	}
	c := e.c
	c.refs--
	*e = handleEntry{}
	t.freeList = append(t.freeList, h)
	return c, true
}

// live returns every valid handle, oldest slot first.
func (t *handleTable) live() []types.RawHandle {
	var out []types.RawHandle
	for i := range t.entries {
		if t.entries[i].valid {
			out = append(out, types.RawHandle(i+1))
		}
	}
	return out
}

func (t *handleTable) reset() {
	t.entries = t.entries[:0]
	t.freeList = t.freeList[:0]
}
