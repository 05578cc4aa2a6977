package types

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBadValue(t *testing.T) {
	tests := []struct {
		tag  TypeTag
		want float64
	}{
		{TypeDouble, -math.MaxFloat64},
		{TypeReal, -math.MaxFloat32},
		{TypeInteger, math.MinInt32},
		{TypeWord, math.MinInt16},
		{TypeUWord, math.MaxUint16},
		{TypeByte, math.MinInt8},
		{TypeUByte, math.MaxUint8},
	}
	for _, tt := range tests {
		t.Run(tt.tag.String(), func(t *testing.T) {
			got, err := BadValue(tt.tag)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBadValueNoSentinel(t *testing.T) {
	_, err := BadValue(TypeLogical)
	assert.ErrorIs(t, err, ErrUnsupportedType)
	_, err = BadValue(TypeChar(4))
	assert.ErrorIs(t, err, ErrUnsupportedType)
}
