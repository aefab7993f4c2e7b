package kverrors_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kvignite/ignite/pkg/kverrors"
)

func TestClassifyIOReturnsNilForNilError(t *testing.T) {
	require.Nil(t, kverrors.ClassifyIO(nil, "op", "/tmp/x"))
}

func TestClassifyIOWrapsPlainError(t *testing.T) {
	_, err := os.Open("/nonexistent/path/that/does/not/exist")
	require.Error(t, err)

	kerr := kverrors.ClassifyIO(err, "open_file", "/nonexistent/path/that/does/not/exist")
	require.Equal(t, kverrors.KindIo, kerr.Kind())
	require.Equal(t, "/nonexistent/path/that/does/not/exist", kerr.Path())
}
