package index_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kvignite/ignite/internal/index"
)

func TestSetGetDelete(t *testing.T) {
	idx := index.New()

	_, ok := idx.Get("k")
	require.False(t, ok)

	ptr := index.RecordPointer{Generation: 1, Offset: 0, Length: 10}
	old, existed := idx.Set("k", ptr)
	require.False(t, existed)
	require.Zero(t, old)

	got, ok := idx.Get("k")
	require.True(t, ok)
	require.Equal(t, ptr, got)

	ptr2 := index.RecordPointer{Generation: 1, Offset: 10, Length: 12}
	old, existed = idx.Set("k", ptr2)
	require.True(t, existed)
	require.Equal(t, ptr, old)

	old, existed = idx.Delete("k")
	require.True(t, existed)
	require.Equal(t, ptr2, old)

	_, ok = idx.Get("k")
	require.False(t, ok)

	_, existed = idx.Delete("k")
	require.False(t, existed)
}

func TestSnapshotAndRewrite(t *testing.T) {
	idx := index.New()
	idx.Set("a", index.RecordPointer{Generation: 1, Offset: 0, Length: 5})
	idx.Set("b", index.RecordPointer{Generation: 1, Offset: 5, Length: 5})

	snap := idx.Snapshot()
	require.Len(t, snap, 2)

	moved := map[string]index.RecordPointer{
		"a": {Generation: 2, Offset: 0, Length: 5},
		"b": {Generation: 2, Offset: 5, Length: 5},
	}
	idx.Rewrite(moved)

	got, ok := idx.Get("a")
	require.True(t, ok)
	require.EqualValues(t, 2, got.Generation)
}

func TestLen(t *testing.T) {
	idx := index.New()
	require.Equal(t, 0, idx.Len())
	idx.Set("a", index.RecordPointer{})
	idx.Set("b", index.RecordPointer{})
	require.Equal(t, 2, idx.Len())
}
