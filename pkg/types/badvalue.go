package types

import "math"

// Bad-pixel sentinels per primitive type.
const (
	BadDouble  = -math.MaxFloat64
	BadReal    = -math.MaxFloat32
	BadInteger = math.MinInt32
	BadWord    = math.MinInt16
	BadUWord   = math.MaxUint16
	BadByte    = math.MinInt8
	BadUByte   = math.MaxUint8
)

// BadValue returns the bad-pixel sentinel for a numeric type as a float64.
// Logical and character types have no sentinel.
func BadValue(t TypeTag) (float64, error) {
	switch t.Class {
	case ClassDouble:
		return BadDouble, nil
	case ClassReal:
		return BadReal, nil
	case ClassInteger:
		return BadInteger, nil
	case ClassWord:
		return BadWord, nil
	case ClassUWord:
		return BadUWord, nil
	case ClassByte:
		return BadByte, nil
	case ClassUByte:
		return BadUByte, nil
	}
	return 0, E("BadValue", KindUnsupportedType, t.String())
}
