package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocate(t *testing.T) {
	tests := []struct {
		name  string
		tag   TypeTag
		shape Shape
		elem  int
		bytes int
	}{
		{"integer scalar", TypeInteger, nil, 4, 4},
		{"real 2x3", TypeReal, Shape{2, 3}, 4, 24},
		{"double vector", TypeDouble, Shape{5}, 8, 40},
		{"word", TypeWord, Shape{3}, 2, 6},
		{"ubyte", TypeUByte, Shape{7}, 1, 7},
		{"char adds terminator", TypeChar(10), Shape{2}, 11, 22},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := Allocate(tt.tag, tt.shape)
			require.NoError(t, err)
			assert.Equal(t, tt.elem, b.Elem)
			assert.Len(t, b.Data, tt.bytes)
			assert.Equal(t, tt.shape.Size(), b.Len())
			for _, c := range b.Data {
				assert.Zero(t, c)
			}
		})
	}
}

func TestAllocateUnsupported(t *testing.T) {
	_, err := Allocate(TypeTag{Class: 77}, Shape{2})
	assert.ErrorIs(t, err, ErrUnsupportedType)
	_, err = Allocate(TypeReal, Shape{1, 1, 1, 1, 1, 1, 1, 1})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestBufferOf(t *testing.T) {
	b, err := BufferOf(TypeReal, Shape{2, 3}, []float32{1, 2, 3, 4, 5, 6})
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2, 3, 4, 5, 6}, b.Float32s())
	assert.Nil(t, b.Float64s())

	_, err = BufferOf(TypeReal, Shape{2}, []float64{1, 2})
	assert.ErrorIs(t, err, ErrInvalidOperation)
	_, err = BufferOf(TypeInteger, Shape{3}, []int32{1, 2})
	assert.ErrorIs(t, err, ErrSizeMismatch)
}

func TestStringBuffer(t *testing.T) {
	b, err := StringBuffer(4, Shape{3}, []string{"ab", "abcd", "abcdef"})
	require.NoError(t, err)
	assert.Equal(t, 5, b.Elem)
	assert.Equal(t, []string{"ab", "abcd", "abcd"}, b.Strings())
	assert.Equal(t, []byte("ab  abcdabcd"), b.StoreBytes())
}

func TestSetStoreBytesChar(t *testing.T) {
	b, err := Allocate(TypeChar(3), Shape{2})
	require.NoError(t, err)
	require.NoError(t, b.SetStoreBytes([]byte("foobar")))
	assert.Equal(t, []byte("foo\x00bar\x00"), b.Data)
	assert.Equal(t, []string{"foo", "bar"}, b.Strings())

	assert.ErrorIs(t, b.SetStoreBytes([]byte("short")), ErrSizeMismatch)
}

func TestSetStoreBytesNumeric(t *testing.T) {
	src, err := BufferOf(TypeWord, Shape{3}, []int16{-1, 0, 7})
	require.NoError(t, err)
	dst, err := Allocate(TypeWord, Shape{3})
	require.NoError(t, err)
	require.NoError(t, dst.SetStoreBytes(src.StoreBytes()))
	assert.Equal(t, []int16{-1, 0, 7}, dst.Int16s())
}

func TestBufferValues(t *testing.T) {
	b, err := BufferOf(TypeInteger, nil, []int32{42})
	require.NoError(t, err)
	assert.Equal(t, []int32{42}, b.Values())

	u, err := BufferOf(TypeUByte, Shape{2}, []uint8{1, 255})
	require.NoError(t, err)
	assert.Equal(t, []uint8{1, 255}, u.Values())
}
