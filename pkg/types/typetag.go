package types

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Class is the primitive class of a TypeTag.
type Class uint8

// Primitive classes. The zero value is not a valid class.
const (
	ClassInteger Class = iota + 1
	ClassReal
	ClassDouble
	ClassLogical
	ClassWord
	ClassUWord
	ClassByte
	ClassUByte
	ClassChar
)

// classInfo is the single type table shared by allocate, get, put and map.
// Char has no fixed width; it comes from the TypeTag (and ultimately from
// the store's length query).
var classInfo = [...]struct {
	name  string
	kind  reflect.Kind
	width int
}{
	ClassInteger: {"_INTEGER", reflect.Int32, 4},
	ClassReal:    {"_REAL", reflect.Float32, 4},
	ClassDouble:  {"_DOUBLE", reflect.Float64, 8},
	ClassLogical: {"_LOGICAL", reflect.Int32, 4},
	ClassWord:    {"_WORD", reflect.Int16, 2},
	ClassUWord:   {"_UWORD", reflect.Uint16, 2},
	ClassByte:    {"_BYTE", reflect.Int8, 1},
	ClassUByte:   {"_UBYTE", reflect.Uint8, 1},
	ClassChar:    {"_CHAR", reflect.String, 0},
}

// TypeTag names a primitive store type. Size is the byte width of one
// character element and is only meaningful for ClassChar.
type TypeTag struct {
	Class Class
	Size  int
}

// Fixed-width type tags.
var (
	TypeInteger = TypeTag{Class: ClassInteger}
	TypeReal    = TypeTag{Class: ClassReal}
	TypeDouble  = TypeTag{Class: ClassDouble}
	TypeLogical = TypeTag{Class: ClassLogical}
	TypeWord    = TypeTag{Class: ClassWord}
	TypeUWord   = TypeTag{Class: ClassUWord}
	TypeByte    = TypeTag{Class: ClassByte}
	TypeUByte   = TypeTag{Class: ClassUByte}
)

// TypeChar returns the _CHAR*n type tag.
func TypeChar(n int) TypeTag {
	return TypeTag{Class: ClassChar, Size: n}
}

// Valid reports whether t is one of the recognized primitive types.
func (t TypeTag) Valid() bool {
	if t.Class < ClassInteger || t.Class > ClassChar {
		return false
	}
	if t.Class == ClassChar {
		return t.Size > 0
	}
	return t.Size == 0
}

// IsChar reports whether t is a character type.
func (t TypeTag) IsChar() bool {
	return t.Class == ClassChar
}

// Width returns the stored byte width of one element.
func (t TypeTag) Width() int {
	if t.Class == ClassChar {
		return t.Size
	}
	if !t.Valid() {
		return 0
	}
	return classInfo[t.Class].width
}

// String returns the serialized form: _INTEGER, _REAL, ..., _CHAR*n.
func (t TypeTag) String() string {
	if !t.Valid() {
		return fmt.Sprintf("TypeTag(%d,%d)", t.Class, t.Size)
	}
	if t.Class == ClassChar {
		return "_CHAR*" + strconv.Itoa(t.Size)
	}
	return classInfo[t.Class].name
}

// MarshalText implements encoding.TextMarshaler.
func (t TypeTag) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, E("MarshalText", KindUnsupportedType, t.String())
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *TypeTag) UnmarshalText(b []byte) error {
	tag, err := ParseTypeTag(string(b))
	if err != nil {
		return err
	}
	*t = tag
	return nil
}

// ParseTypeTag parses a serialized type. "_CHAR" alone means "_CHAR*1".
// Anything outside the fixed set fails with KindUnsupportedType.
func ParseTypeTag(s string) (TypeTag, error) {
	u := strings.ToUpper(strings.TrimSpace(s))
	if rest, ok := strings.CutPrefix(u, "_CHAR"); ok {
		if rest == "" {
			return TypeChar(1), nil
		}
		digits, ok := strings.CutPrefix(rest, "*")
		if !ok || digits == "" {
			return TypeTag{}, E("ParseTypeTag", KindUnsupportedType, s)
		}
		for _, r := range digits {
			if r < '0' || r > '9' {
				return TypeTag{}, E("ParseTypeTag", KindUnsupportedType, s)
			}
		}
		n, err := strconv.Atoi(digits)
		if err != nil || n <= 0 {
			return TypeTag{}, E("ParseTypeTag", KindUnsupportedType, s)
		}
		return TypeChar(n), nil
	}
	for c := ClassInteger; c < ClassChar; c++ {
		if classInfo[c].name == u {
			return TypeTag{Class: c}, nil
		}
	}
	return TypeTag{}, E("ParseTypeTag", KindUnsupportedType, s)
}

// IsStructureType reports whether s names a structure type rather than a
// primitive. Structure types are plain names without the leading underscore.
func IsStructureType(s string) bool {
	return s != "" && !strings.HasPrefix(s, "_")
}

// Resolve maps a type tag to its native Go element kind and byte width.
// For character types the width is the tag's Size, which callers fill in
// from the store's length query.
func Resolve(t TypeTag) (reflect.Kind, int, error) {
	if !t.Valid() {
		return reflect.Invalid, 0, E("Resolve", KindUnsupportedType, t.String())
	}
	return classInfo[t.Class].kind, t.Width(), nil
}
