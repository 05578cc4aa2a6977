package types

import (
	"fmt"
	"strings"
	"unsafe"
)

// Buffer is a caller-owned block of typed memory in native binary layout.
// Shape is caller order. Elem is the byte stride of one element in Data:
// the type width for numeric types, and the stored width plus one
// terminator byte for character types.
type Buffer struct {
	Type  TypeTag
	Shape Shape
	Elem  int
	Data  []byte
}

// Native lists the Go element types a Buffer can be viewed as.
type Native interface {
	~int8 | ~uint8 | ~int16 | ~uint16 | ~int32 | ~float32 | ~float64
}

// Allocate returns a zero-initialized buffer for t and a caller-order
// shape. The backing array is allocated with the native element type so
// typed views are correctly aligned.
func Allocate(t TypeTag, shape Shape) (*Buffer, error) {
	if !t.Valid() {
		return nil, E("Allocate", KindUnsupportedType, t.String())
	}
	if err := shape.Validate(MaxComponentDims); err != nil {
		return nil, err
	}
	n := shape.Size()
	b := &Buffer{Type: t, Shape: append(Shape(nil), shape...), Elem: t.Width()}
	switch t.Class {
	case ClassInteger, ClassLogical:
		b.Data = bytesOf(make([]int32, n))
	case ClassReal:
		b.Data = bytesOf(make([]float32, n))
	case ClassDouble:
		b.Data = bytesOf(make([]float64, n))
	case ClassWord:
		b.Data = bytesOf(make([]int16, n))
	case ClassUWord:
		b.Data = bytesOf(make([]uint16, n))
	case ClassByte, ClassUByte:
		b.Data = make([]byte, n)
	case ClassChar:
		b.Elem = t.Size + 1
		b.Data = make([]byte, n*b.Elem)
	}
	return b, nil
}

// BufferOf copies values into a new buffer of type t. The Go element size
// must equal the type width and len(values) must equal shape.Size().
func BufferOf[T Native](t TypeTag, shape Shape, values []T) (*Buffer, error) {
	if t.IsChar() {
		return nil, E("BufferOf", KindInvalidOperation, "use StringBuffer for character data")
	}
	var zero T
	if int(unsafe.Sizeof(zero)) != t.Width() {
		return nil, E("BufferOf", KindInvalidOperation,
			fmt.Sprintf("element size %d does not match %s width %d", unsafe.Sizeof(zero), t, t.Width()))
	}
	b, err := Allocate(t, shape)
	if err != nil {
		return nil, err
	}
	if len(values) != b.Len() {
		return nil, E("BufferOf", KindSizeMismatch,
			fmt.Sprintf("%d values for shape %v", len(values), shape))
	}
	copy(b.Data, bytesOf(values))
	return b, nil
}

// StringBuffer builds a _CHAR*width buffer. Each value is blank padded (or
// truncated) to width and followed by a NUL terminator.
func StringBuffer(width int, shape Shape, values []string) (*Buffer, error) {
	b, err := Allocate(TypeChar(width), shape)
	if err != nil {
		return nil, err
	}
	if len(values) != b.Len() {
		return nil, E("StringBuffer", KindSizeMismatch,
			fmt.Sprintf("%d values for shape %v", len(values), shape))
	}
	for i, v := range values {
		el := b.Data[i*b.Elem : (i+1)*b.Elem]
		n := copy(el[:width], v)
		for j := n; j < width; j++ {
			el[j] = ' '
		}
	}
	return b, nil
}

// Len returns the number of elements.
func (b *Buffer) Len() int {
	if b.Elem == 0 {
		return 0
	}
	return len(b.Data) / b.Elem
}

// StoreBytes returns the elements at stored width. For numeric types this
// is Data itself; character elements have their terminator byte dropped.
func (b *Buffer) StoreBytes() []byte {
	if !b.Type.IsChar() || b.Elem == b.Type.Size {
		return b.Data
	}
	w := b.Type.Size
	n := b.Len()
	out := make([]byte, n*w)
	for i := 0; i < n; i++ {
		copy(out[i*w:(i+1)*w], b.Data[i*b.Elem:i*b.Elem+w])
	}
	return out
}

// SetStoreBytes fills the buffer from elements at stored width.
func (b *Buffer) SetStoreBytes(src []byte) error {
	w := b.Type.Width()
	if len(src) != b.Len()*w {
		return E("SetStoreBytes", KindSizeMismatch,
			fmt.Sprintf("%d bytes for %d elements of width %d", len(src), b.Len(), w))
	}
	if b.Elem == w {
		copy(b.Data, src)
		return nil
	}
	for i := 0; i < b.Len(); i++ {
		el := b.Data[i*b.Elem : (i+1)*b.Elem]
		copy(el, src[i*w:(i+1)*w])
		el[w] = 0
	}
	return nil
}

// Int32s views an _INTEGER or _LOGICAL buffer. It returns nil for other types.
func (b *Buffer) Int32s() []int32 {
	if b.Type.Class != ClassInteger && b.Type.Class != ClassLogical {
		return nil
	}
	return viewOf[int32](b.Data)
}

// Float32s views a _REAL buffer.
func (b *Buffer) Float32s() []float32 {
	if b.Type.Class != ClassReal {
		return nil
	}
	return viewOf[float32](b.Data)
}

// Float64s views a _DOUBLE buffer.
func (b *Buffer) Float64s() []float64 {
	if b.Type.Class != ClassDouble {
		return nil
	}
	return viewOf[float64](b.Data)
}

// Int16s views a _WORD buffer.
func (b *Buffer) Int16s() []int16 {
	if b.Type.Class != ClassWord {
		return nil
	}
	return viewOf[int16](b.Data)
}

// Uint16s views a _UWORD buffer.
func (b *Buffer) Uint16s() []uint16 {
	if b.Type.Class != ClassUWord {
		return nil
	}
	return viewOf[uint16](b.Data)
}

// Int8s views a _BYTE buffer.
func (b *Buffer) Int8s() []int8 {
	if b.Type.Class != ClassByte {
		return nil
	}
	return viewOf[int8](b.Data)
}

// Uint8s views a _UBYTE buffer.
func (b *Buffer) Uint8s() []uint8 {
	if b.Type.Class != ClassUByte {
		return nil
	}
	return b.Data
}

// Strings returns the elements of a character buffer with trailing blanks
// and terminators removed.
func (b *Buffer) Strings() []string {
	if !b.Type.IsChar() {
		return nil
	}
	out := make([]string, b.Len())
	for i := range out {
		el := b.Data[i*b.Elem : (i+1)*b.Elem]
		out[i] = strings.TrimRight(string(el), " \x00")
	}
	return out
}

// Values returns the typed view matching the buffer type as an any:
// []int32, []float32, []float64, []int16, []uint16, []int8, []uint8 or
// []string.
func (b *Buffer) Values() any {
	switch b.Type.Class {
	case ClassInteger, ClassLogical:
		return b.Int32s()
	case ClassReal:
		return b.Float32s()
	case ClassDouble:
		return b.Float64s()
	case ClassWord:
		return b.Int16s()
	case ClassUWord:
		return b.Uint16s()
	case ClassByte:
		return b.Int8s()
	case ClassUByte:
		return b.Uint8s()
	case ClassChar:
		return b.Strings()
	}
	return nil
}

func bytesOf[T Native](s []T) []byte {
	if len(s) == 0 {
		return []byte{}
	}
	var zero T
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(s))), len(s)*int(unsafe.Sizeof(zero)))
}

func viewOf[T Native](b []byte) []T {
	var zero T
	n := len(b) / int(unsafe.Sizeof(zero))
	if n == 0 {
		return []T{}
	}
	return unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(b))), n)
}
