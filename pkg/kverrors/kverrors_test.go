package kverrors_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kvignite/ignite/pkg/kverrors"
)

func TestIsMatchesByKindNotContext(t *testing.T) {
	err := kverrors.NewKeyNotFound("some-key")
	require.True(t, kverrors.IsKeyNotFound(err))
	require.False(t, kverrors.IsIo(err))
}

func TestUnwrapExposesCause(t *testing.T) {
	cause := errors.New("disk exploded")
	err := kverrors.NewIo(cause, "failed to write")
	require.ErrorIs(t, err, cause)
}

func TestWithBuildersAttachContext(t *testing.T) {
	err := kverrors.NewIo(nil, "boom").WithPath("/tmp/x").WithOffset(42).WithDetail("attempt", 3)
	require.Equal(t, "/tmp/x", err.Path())
	require.EqualValues(t, 42, err.Offset())
	require.Equal(t, 3, err.Details()["attempt"])
}

func TestOfExtractsConcreteError(t *testing.T) {
	err := kverrors.NewBackend(nil, "bbolt failure").WithKey("k")
	var wrapped error = err
	got, ok := kverrors.Of(wrapped)
	require.True(t, ok)
	require.Equal(t, "k", got.Key())
}

func TestKindOfDefaultsToUnexpected(t *testing.T) {
	require.Equal(t, kverrors.KindUnexpected, kverrors.KindOf(errors.New("plain")))
}
