package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorIsMatchesByKind(t *testing.T) {
	err := E("Find", KindNotFound, "no component FOO")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrRange)

	wrapped := fmt.Errorf("reading: %w", err)
	assert.ErrorIs(t, wrapped, ErrNotFound)
	assert.Equal(t, KindNotFound, KindOf(wrapped))
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"op kind detail", E("Cell", KindRange, "index 5"), "Cell: out of range: index 5"},
		{"kind only", &Error{Kind: KindIO}, "I/O error"},
		{"wrapped", Wrap("Open", KindIO, errors.New("disk gone")), "Open: I/O error: disk gone"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestWrapUnwrap(t *testing.T) {
	inner := errors.New("boom")
	err := Wrap("Put", KindStore, inner)
	require.ErrorIs(t, err, inner)
	assert.ErrorIs(t, err, ErrStore)
}

func TestKindOfPlainError(t *testing.T) {
	assert.Equal(t, KindStore, KindOf(errors.New("plain")))
}

func TestKindString(t *testing.T) {
	kinds := []Kind{KindStore, KindInvalidHandle, KindNotFound, KindUnsupportedType,
		KindInvalidOperation, KindSizeMismatch, KindRange, KindInvalidArgument, KindIO}
	seen := map[string]bool{}
	for _, k := range kinds {
		s := k.String()
		assert.NotEqual(t, "unknown error kind", s)
		assert.False(t, seen[s], "duplicate kind string %q", s)
		seen[s] = true
	}
	assert.Equal(t, "unknown error kind", Kind(200).String())
}
