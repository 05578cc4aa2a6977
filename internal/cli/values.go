package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/hdsbridge/pkg/types"
)

// parseValues builds a buffer of tag and shape from command-line values.
func parseValues(tag types.TypeTag, shape types.Shape, args []string) (*types.Buffer, error) {
	if len(args) != shape.Size() {
		return nil, types.E("put", types.KindSizeMismatch,
			fmt.Sprintf("%d values given, object holds %d", len(args), shape.Size()))
	}
	switch tag.Class {
	case types.ClassChar:
		return types.StringBuffer(tag.Size, shape, args)
	case types.ClassLogical:
		vals := make([]int32, len(args))
		for i, a := range args {
			b, err := parseLogical(a)
			if err != nil {
				return nil, err
			}
			if b {
				vals[i] = 1
			}
		}
		return types.BufferOf(tag, shape, vals)
	case types.ClassInteger:
		return parseInts[int32](tag, shape, args, 32)
	case types.ClassWord:
		return parseInts[int16](tag, shape, args, 16)
	case types.ClassByte:
		return parseInts[int8](tag, shape, args, 8)
	case types.ClassUWord:
		return parseUints[uint16](tag, shape, args, 16)
	case types.ClassUByte:
		return parseUints[uint8](tag, shape, args, 8)
	case types.ClassReal:
		vals := make([]float32, len(args))
		for i, a := range args {
			f, err := strconv.ParseFloat(a, 32)
			if err != nil {
				return nil, badValue(a, tag)
			}
			vals[i] = float32(f)
		}
		return types.BufferOf(tag, shape, vals)
	case types.ClassDouble:
		vals := make([]float64, len(args))
		for i, a := range args {
			f, err := strconv.ParseFloat(a, 64)
			if err != nil {
				return nil, badValue(a, tag)
			}
			vals[i] = f
		}
		return types.BufferOf(tag, shape, vals)
	}
	return nil, types.E("put", types.KindUnsupportedType, tag.String())
}

func parseInts[T int8 | int16 | int32](tag types.TypeTag, shape types.Shape, args []string, bits int) (*types.Buffer, error) {
	vals := make([]T, len(args))
	for i, a := range args {
		n, err := strconv.ParseInt(a, 10, bits)
		if err != nil {
			return nil, badValue(a, tag)
		}
		vals[i] = T(n)
	}
	return types.BufferOf(tag, shape, vals)
}

func parseUints[T uint8 | uint16](tag types.TypeTag, shape types.Shape, args []string, bits int) (*types.Buffer, error) {
	vals := make([]T, len(args))
	for i, a := range args {
		n, err := strconv.ParseUint(a, 10, bits)
		if err != nil {
			return nil, badValue(a, tag)
		}
		vals[i] = T(n)
	}
	return types.BufferOf(tag, shape, vals)
}

func parseLogical(s string) (bool, error) {
	switch strings.ToUpper(s) {
	case "1", "T", "TRUE", "Y", "YES":
		return true, nil
	case "0", "F", "FALSE", "N", "NO":
		return false, nil
	}
	return false, badValue(s, types.TypeLogical)
}

func badValue(s string, tag types.TypeTag) error {
	return types.E("put", types.KindInvalidArgument, fmt.Sprintf("%q is not a valid %s value", s, tag))
}

// formatValues renders at most limit elements of buf; limit <= 0 renders
// all. more reports whether elements were left out.
func formatValues(buf *types.Buffer, limit int) (vals []string, more bool) {
	n := buf.Len()
	if limit > 0 && n > limit {
		n, more = limit, true
	}
	vals = make([]string, n)
	switch v := jsonValues(buf).(type) {
	case []bool:
		for i := range vals {
			vals[i] = strings.ToUpper(strconv.FormatBool(v[i]))
		}
	case []int32:
		for i := range vals {
			vals[i] = strconv.FormatInt(int64(v[i]), 10)
		}
	case []int16:
		for i := range vals {
			vals[i] = strconv.FormatInt(int64(v[i]), 10)
		}
	case []int8:
		for i := range vals {
			vals[i] = strconv.FormatInt(int64(v[i]), 10)
		}
	case []uint16:
		for i := range vals {
			vals[i] = strconv.FormatUint(uint64(v[i]), 10)
		}
	case []uint8:
		for i := range vals {
			vals[i] = strconv.FormatUint(uint64(v[i]), 10)
		}
	case []float32:
		for i := range vals {
			vals[i] = strconv.FormatFloat(float64(v[i]), 'g', -1, 32)
		}
	case []float64:
		for i := range vals {
			vals[i] = strconv.FormatFloat(v[i], 'g', -1, 64)
		}
	case []string:
		for i := range vals {
			vals[i] = strconv.Quote(v[i])
		}
	}
	return vals, more
}

// jsonValues returns the typed values of buf, with _LOGICAL as []bool.
func jsonValues(buf *types.Buffer) any {
	if buf.Type.Class == types.ClassLogical {
		ints := buf.Int32s()
		out := make([]bool, len(ints))
		for i, v := range ints {
			out[i] = v != 0
		}
		return out
	}
	return buf.Values()
}

// joinValues renders values on one line, marking truncation.
func joinValues(buf *types.Buffer, limit int) string {
	vals, more := formatValues(buf, limit)
	s := strings.Join(vals, " ")
	if more {
		s += " ..."
	}
	return s
}
