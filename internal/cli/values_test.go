package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/hdsbridge/pkg/types"
)

func TestParseValuesByType(t *testing.T) {
	shape := types.Shape{2}
	tests := []struct {
		tag  types.TypeTag
		args []string
		want any
	}{
		{types.TypeInteger, []string{"-7", "9"}, []int32{-7, 9}},
		{types.TypeWord, []string{"-300", "300"}, []int16{-300, 300}},
		{types.TypeUWord, []string{"0", "65535"}, []uint16{0, 65535}},
		{types.TypeByte, []string{"-128", "127"}, []int8{-128, 127}},
		{types.TypeUByte, []string{"0", "255"}, []uint8{0, 255}},
		{types.TypeReal, []string{"1.5", "-2"}, []float32{1.5, -2}},
		{types.TypeDouble, []string{"1e-3", "4"}, []float64{1e-3, 4}},
		{types.TypeChar(3), []string{"ab", "cde"}, []string{"ab", "cde"}},
	}
	for _, tt := range tests {
		t.Run(tt.tag.String(), func(t *testing.T) {
			buf, err := parseValues(tt.tag, shape, tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.tag, buf.Type)
			assert.Equal(t, tt.want, buf.Values())
		})
	}
}

func TestParseValuesLogical(t *testing.T) {
	buf, err := parseValues(types.TypeLogical, types.Shape{4}, []string{"true", "N", "y", "0"})
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false, true, false}, jsonValues(buf))
}

func TestParseValuesErrors(t *testing.T) {
	_, err := parseValues(types.TypeInteger, types.Shape{2}, []string{"1"})
	assert.ErrorIs(t, err, types.ErrSizeMismatch)
	_, err = parseValues(types.TypeUByte, nil, []string{"256"})
	assert.ErrorIs(t, err, types.ErrInvalidArgument)
	_, err = parseValues(types.TypeUWord, nil, []string{"-1"})
	assert.ErrorIs(t, err, types.ErrInvalidArgument)
	_, err = parseValues(types.TypeReal, nil, []string{"pi"})
	assert.ErrorIs(t, err, types.ErrInvalidArgument)
}

func TestParseValuesTruncatesCharacter(t *testing.T) {
	buf, err := parseValues(types.TypeChar(2), nil, []string{"abc"})
	require.NoError(t, err)
	assert.Equal(t, []string{"ab"}, buf.Strings())
}

func TestFormatValues(t *testing.T) {
	buf, err := types.BufferOf(types.TypeDouble, types.Shape{3}, []float64{0.25, 1e20, -3})
	require.NoError(t, err)
	vals, more := formatValues(buf, 0)
	assert.Equal(t, []string{"0.25", "1e+20", "-3"}, vals)
	assert.False(t, more)

	vals, more = formatValues(buf, 2)
	assert.Equal(t, []string{"0.25", "1e+20"}, vals)
	assert.True(t, more)
	assert.Equal(t, "0.25 1e+20 ...", joinValues(buf, 2))

	sbuf, err := types.StringBuffer(4, nil, []string{"ab"})
	require.NoError(t, err)
	assert.Equal(t, "\"ab\"", joinValues(sbuf, 0))
}
