package engine_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kvignite/ignite/internal/engine"
	"github.com/kvignite/ignite/pkg/kverrors"
	"github.com/kvignite/ignite/pkg/logger"
)

func TestKvsEngineSetGetRemove(t *testing.T) {
	dir := t.TempDir()
	e, err := engine.OpenKvsEngine(dir, 1<<20, logger.NewNop())
	require.NoError(t, err)
	defer e.Close()

	require.NoError(t, e.Set("a", "1"))
	v, ok, err := e.Get("a")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "1", v)

	_, ok, err = e.Get("missing")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, e.Remove("a"))
	_, ok, err = e.Get("a")
	require.NoError(t, err)
	require.False(t, ok)

	err = e.Remove("a")
	require.Error(t, err)
	require.True(t, kverrors.IsKeyNotFound(err))
}

func TestKvsEngineRecoversAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	e1, err := engine.OpenKvsEngine(dir, 1<<20, logger.NewNop())
	require.NoError(t, err)
	require.NoError(t, e1.Set("a", "alpha"))
	require.NoError(t, e1.Set("b", "beta"))
	require.NoError(t, e1.Close())

	e2, err := engine.OpenKvsEngine(dir, 1<<20, logger.NewNop())
	require.NoError(t, err)
	defer e2.Close()

	v, ok, err := e2.Get("a")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "alpha", v)

	v, ok, err = e2.Get("b")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "beta", v)
}

func TestKvsEngineCompactsPastThreshold(t *testing.T) {
	dir := t.TempDir()
	e, err := engine.OpenKvsEngine(dir, 256, logger.NewNop())
	require.NoError(t, err)
	defer e.Close()

	for i := 0; i < 100; i++ {
		require.NoError(t, e.Set("k", "value-that-takes-up-some-space"))
	}

	v, ok, err := e.Get("k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "value-that-takes-up-some-space", v)
}

func TestEngineOpenRejectsBackendMismatch(t *testing.T) {
	dir := t.TempDir()
	e, err := engine.OpenKvsEngine(dir, 1<<20, logger.NewNop())
	require.NoError(t, err)
	require.NoError(t, e.Close())

	_, err = engine.OpenSledEngine(dir)
	require.Error(t, err)
}

func TestSledEngineSetGetRemove(t *testing.T) {
	dir := t.TempDir()
	e, err := engine.OpenSledEngine(dir)
	require.NoError(t, err)
	defer e.Close()

	require.NoError(t, e.Set("a", "1"))
	v, ok, err := e.Get("a")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "1", v)

	require.NoError(t, e.Remove("a"))
	err = e.Remove("a")
	require.Error(t, err)
	require.True(t, kverrors.IsKeyNotFound(err))
}
