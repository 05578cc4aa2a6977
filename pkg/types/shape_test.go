package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShapeReverse(t *testing.T) {
	tests := []struct {
		name  string
		shape Shape
		store StoreShape
	}{
		{"scalar", nil, nil},
		{"vector", Shape{5}, StoreShape{5}},
		{"matrix", Shape{2, 3}, StoreShape{3, 2}},
		{"cube", Shape{4, 5, 6}, StoreShape{6, 5, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.store, tt.shape.Store())
			assert.Equal(t, tt.shape, tt.store.Caller())
			assert.True(t, tt.shape.Equal(tt.shape.Store().Caller()))
		})
	}
}

func TestShapeReverseDoesNotAlias(t *testing.T) {
	s := Shape{1, 2, 3}
	st := s.Store()
	st[0] = 99
	assert.Equal(t, Shape{1, 2, 3}, s)
}

func TestShapeSize(t *testing.T) {
	assert.Equal(t, 1, Shape(nil).Size())
	assert.Equal(t, 6, Shape{2, 3}.Size())
	assert.Equal(t, 0, Shape{2, 0}.Size())
	assert.Equal(t, 24, StoreShape{2, 3, 4}.Size())
	assert.True(t, Shape{}.IsScalar())
	assert.Equal(t, 2, Shape{2, 3}.Rank())
}

func TestShapeValidate(t *testing.T) {
	assert.NoError(t, Shape{1, 2, 3, 4, 5, 6, 7}.Validate(MaxComponentDims))
	assert.ErrorIs(t, Shape{1, 2, 3, 4, 5, 6, 7, 8}.Validate(MaxComponentDims), ErrInvalidArgument)
	assert.ErrorIs(t, StoreShape{2, -1}.Validate(MaxObjectDims), ErrInvalidArgument)
}

func TestStoreSubscripts(t *testing.T) {
	assert.Equal(t, []int{3, 1}, StoreSubscripts([]int{0, 2}))
	assert.Nil(t, StoreSubscripts(nil))
	assert.Equal(t, []int{-4, 2}, ReverseBounds([]int{2, -4}))
}
