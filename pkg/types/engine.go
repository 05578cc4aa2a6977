package types

import "fmt"

// RawHandle is an engine-owned handle to one node of an open container.
// Zero is never a valid handle.
type RawHandle uint64

// Status is an engine status code. StatusOK means no error is pending.
type Status int

// Engine status codes. Engines report failures by pushing frames carrying
// one of these codes onto their ErrorStack.
const (
	StatusOK Status = iota
	StatusError
	StatusFileNotFound
	StatusObjectNotFound
	StatusSubscript
	StatusBadLocator
	StatusBadType
	StatusBadMode
	StatusBadName
	StatusExists
	StatusUndefined
	StatusMapped
	StatusNotMapped
	StatusNotPrimitive
	StatusNotStructure
)

// Error lets a Status be returned as an error from engine calls.
func (s Status) Error() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusFileNotFound:
		return "container file not found"
	case StatusObjectNotFound:
		return "object not found"
	case StatusSubscript:
		return "subscript out of range"
	case StatusBadLocator:
		return "invalid locator"
	case StatusBadType:
		return "invalid type"
	case StatusBadMode:
		return "invalid access mode"
	case StatusBadName:
		return "invalid name"
	case StatusExists:
		return "object already exists"
	case StatusUndefined:
		return "data undefined"
	case StatusMapped:
		return "component already mapped"
	case StatusNotMapped:
		return "component not mapped"
	case StatusNotPrimitive:
		return "object is not primitive"
	case StatusNotStructure:
		return "object is not a structure"
	}
	return fmt.Sprintf("engine error %d", int(s))
}

// Frame is one entry on an engine's error stack.
type Frame struct {
	Param   string
	Message string
	Status  Status
}

// ErrorStack is an engine's single error stack. Begin opens a new context
// level; frames reported after it belong to that level. Load removes and
// returns the oldest pending frame of the current level; it returns false
// once the level is exhausted. End closes the level, discarding anything
// left in it.
type ErrorStack interface {
	Begin()
	Pending() Status
	Load() (Frame, bool)
	End()
}

// AccessMode is the access requested when opening or mapping.
type AccessMode string

// Access modes.
const (
	ModeRead   AccessMode = "READ"
	ModeUpdate AccessMode = "UPDATE"
	ModeWrite  AccessMode = "WRITE"
)

// Valid reports whether m is one of READ, UPDATE, WRITE.
func (m AccessMode) Valid() bool {
	return m == ModeRead || m == ModeUpdate || m == ModeWrite
}

// Disposition says whether Open expects an existing container.
type Disposition string

// Open dispositions.
const (
	DispOld     Disposition = "OLD"
	DispNew     Disposition = "NEW"
	DispUnknown Disposition = "UNKNOWN"
)

// Valid reports whether d is one of OLD, NEW, UNKNOWN.
func (d Disposition) Valid() bool {
	return d == DispOld || d == DispNew || d == DispUnknown
}

// Component names an array component of an object.
type Component string

// Array components and the unmap wildcard.
const (
	CompData     Component = "DATA"
	CompQuality  Component = "QUALITY"
	CompVariance Component = "VARIANCE"
	CompError    Component = "ERROR"
	CompAxis     Component = "AXIS"
	CompAll      Component = "*"
)

// Fixed object layout names used by engines.
const (
	CompOrigin     = "ORIGIN"
	CompExtensions = "MORE"
	ObjectType     = "NDF"
	ExtensionType  = "EXT"
	AxisType       = "AXIS"
)

// Mappable reports whether c may be passed to Map.
func (c Component) Mappable() bool {
	switch c {
	case CompData, CompQuality, CompVariance, CompError:
		return true
	}
	return false
}

// Unmappable reports whether c may be passed to Unmap.
func (c Component) Unmappable() bool {
	switch c {
	case CompData, CompQuality, CompVariance, CompAxis, CompAll:
		return true
	}
	return false
}

// Engine is the hierarchical store engine the bridge drives. Every method
// that can fail pushes frames onto Errors() and returns a non-nil error;
// callers bracket calls with Errors().Begin and drain the stack afterwards.
// Subscripts and ordinals are one-based; shapes are store order.
type Engine interface {
	// Errors returns the engine's error stack.
	Errors() ErrorStack

	// Open opens or creates a container and returns a handle on its root.
	Open(path string, mode AccessMode, disp Disposition) (RawHandle, error)
	// Close releases every handle and container held by the engine.
	Close() error

	Annul(h RawHandle) error
	Valid(h RawHandle) bool
	Clone(h RawHandle) (RawHandle, error)

	Cell(h RawHandle, subs []int) (RawHandle, error)
	Index(h RawHandle, n int) (RawHandle, error)
	Find(h RawHandle, name string) (RawHandle, error)

	Name(h RawHandle) (string, error)
	Ncomp(h RawHandle) (int, error)
	Shape(h RawHandle, max int) (StoreShape, error)
	Type(h RawHandle) (string, error)
	Len(h RawHandle) (int, error)
	Struc(h RawHandle) (bool, error)
	State(h RawHandle) (bool, error)
	There(h RawHandle, name string) (bool, error)

	Get(h RawHandle, t TypeTag, dims StoreShape, dst []byte) error
	Put(h RawHandle, t TypeTag, dims StoreShape, src []byte) error
	New(h RawHandle, name, typ string, dims StoreShape) error
	Erase(h RawHandle, name string) error

	NewObject(h RawHandle, name string, t TypeTag, lbnd, ubnd []int) (RawHandle, error)
	Dim(h RawHandle, max int) (StoreShape, error)
	Bound(h RawHandle, max int) (lbnd, ubnd []int, err error)

	Map(h RawHandle, comp Component, t TypeTag, mode AccessMode) ([]byte, int, error)
	Unmap(h RawHandle, comp Component) error

	Xnumb(h RawHandle) (int, error)
	Xname(h RawHandle, n int) (string, error)
	Xstat(h RawHandle, name string) (bool, error)
	Xloc(h RawHandle, name string, mode AccessMode) (RawHandle, error)
	Xnew(h RawHandle, name, typ string, dims StoreShape) (RawHandle, error)
}
