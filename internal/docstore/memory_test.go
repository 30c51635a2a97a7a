package docstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRangeQueryCoercesLooseTimestamps(t *testing.T) {
	store := NewMemory()
	store.Put(PartitionSales, "a", map[string]any{"created_at": "2024-03-10T10:00:00Z"})
	store.Put(PartitionSales, "b", map[string]any{"created_at": int64(1710064800)}) // 2024-03-10T10:00:00Z in seconds
	store.Put(PartitionSales, "c", map[string]any{"created_at": time.Date(2024, 3, 11, 10, 0, 0, 0, time.UTC)})
	store.Put(PartitionSales, "d", map[string]any{"created_at": "garbage"})
	store.Put(PartitionSales, "e", map[string]any{})

	start := time.Date(2024, 3, 10, 2, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 11, 2, 0, 0, 0, time.UTC)
	docs, err := store.RangeQuery(context.Background(), PartitionSales, "created_at", start, end)
	require.NoError(t, err)

	ids := make([]string, len(docs))
	for i, doc := range docs {
		ids[i] = doc.ID
	}
	assert.Equal(t, []string{"a", "b"}, ids)
}

func TestMemoryRangeQueryIsHalfOpen(t *testing.T) {
	store := NewMemory()
	start := time.Date(2024, 3, 10, 2, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 11, 2, 0, 0, 0, time.UTC)
	store.Put(PartitionSales, "lower", map[string]any{"created_at": start})
	store.Put(PartitionSales, "upper", map[string]any{"created_at": end})

	docs, err := store.RangeQuery(context.Background(), PartitionSales, "created_at", start, end)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "lower", docs[0].ID)
}

func TestMemoryMergeSetPreservesOtherFields(t *testing.T) {
	store := NewMemory()
	key := Key{Partition: PartitionArchiveDaily, Path: []string{"2024", "03", "2024-03-09"}}
	store.Put(key.Partition, key.ID(), map[string]any{"note": "manual adjustment", "sales": 1.0})

	err := store.MergeSet(context.Background(), key, map[string]any{"sales": 250.0})
	require.NoError(t, err)

	doc, ok := store.Get(key.Partition, key.ID())
	require.True(t, ok)
	assert.Equal(t, "manual adjustment", doc.Fields["note"])
	assert.Equal(t, 250.0, doc.Fields["sales"])
}

func TestMemoryMergeSetServerTimestamp(t *testing.T) {
	store := NewMemory()
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	store.SetClock(func() time.Time { return now })

	key := Key{Partition: PartitionArchiveDaily, Path: []string{"2024", "03", "2024-03-09"}}
	require.NoError(t, store.MergeSet(context.Background(), key, map[string]any{"updatedAt": ServerTimestamp}))

	doc, ok := store.Get(key.Partition, key.ID())
	require.True(t, ok)
	assert.Equal(t, now, doc.Fields["updatedAt"])
}

func TestKeyID(t *testing.T) {
	key := Key{Partition: PartitionArchiveDaily, Path: []string{"2024", "03", "2024-03-09"}}
	assert.Equal(t, "2024/03/2024-03-09", key.ID())
}
