package compaction_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kvignite/ignite/internal/codec"
	"github.com/kvignite/ignite/internal/compaction"
	"github.com/kvignite/ignite/internal/index"
	"github.com/kvignite/ignite/internal/storage"
	"github.com/kvignite/ignite/pkg/logger"
)

func TestCompactRewritesOnlyLiveRecordsAndRetargetsIndex(t *testing.T) {
	dir := t.TempDir()
	log := logger.NewNop()

	s, err := storage.Open(dir, log)
	require.NoError(t, err)
	defer s.Close()

	w, err := s.CreateWriter(1)
	require.NoError(t, err)
	require.Nil(t, s.Activate(w))

	idx := index.New()

	pos, length, err := s.Append(codec.NewSetRecord("a", "1"))
	require.NoError(t, err)
	idx.Set("a", index.RecordPointer{Generation: 1, Offset: pos, Length: length})

	pos, length, err = s.Append(codec.NewSetRecord("b", "2"))
	require.NoError(t, err)
	idx.Set("b", index.RecordPointer{Generation: 1, Offset: pos, Length: length})

	// Overwrite "a" and delete "b" -- both original records are now dead.
	pos, length, err = s.Append(codec.NewSetRecord("a", "3"))
	require.NoError(t, err)
	idx.Set("a", index.RecordPointer{Generation: 1, Offset: pos, Length: length})

	_, _, err = s.Append(codec.NewRemoveRecord("b"))
	require.NoError(t, err)
	idx.Delete("b")

	result, err := compaction.Compact(s, idx, log)
	require.NoError(t, err)
	require.Equal(t, uint64(2), result.CompactGeneration)
	require.Equal(t, uint64(3), result.NewActive)
	require.Equal(t, 1, result.LiveRecords)

	ptr, ok := idx.Get("a")
	require.True(t, ok)
	require.Equal(t, result.CompactGeneration, ptr.Generation)

	data, err := s.ReadAt(ptr.Generation, ptr.Offset, ptr.Length)
	require.NoError(t, err)
	var rec codec.Record
	require.NoError(t, decodeOne(data, &rec))
	require.Equal(t, "a", rec.Key)
	require.Equal(t, "3", rec.Value)

	_, ok = idx.Get("b")
	require.False(t, ok)

	gens, err := s.ListGenerations()
	require.NoError(t, err)
	require.Equal(t, []uint64{2, 3}, gens)

	active, ok := s.Active()
	require.True(t, ok)
	require.Equal(t, result.NewActive, active)
}

func decodeOne(data []byte, rec *codec.Record) error {
	dec := codec.NewDecoder(bytes.NewReader(data))
	return dec.Decode(rec)
}
