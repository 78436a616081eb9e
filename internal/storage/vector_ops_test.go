package storage

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeRoundTrip(t *testing.T) {
	vectors := [][]float32{
		{1.0, 2.5, -3.75},
		{0},
		{},
		{math.MaxFloat32, -math.MaxFloat32, math.SmallestNonzeroFloat32},
	}

	for _, v := range vectors {
		assert.Equal(t, v, DeserializeVector(SerializeVector(v)))
	}
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1.0},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0.0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1.0},
		{"zero vector", []float32{0, 0}, []float32{1, 1}, 0.0},
		{"dimension mismatch", []float32{1, 2}, []float32{1, 2, 3}, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CosineSimilarity(tt.a, tt.b), 1e-9)
		})
	}
}

func storeChunkWithVector(t *testing.T, store *SQLiteStore, repoID string, vector []float32) int64 {
	t.Helper()
	ctx := context.Background()

	chunk := testChunk(repoID, "/src/file.py", "content", 1, 2)
	require.NoError(t, store.InsertChunk(ctx, chunk))
	require.NoError(t, store.InsertEmbedding(ctx, &Embedding{
		ChunkID:   chunk.ID,
		Vector:    SerializeVector(vector),
		Dimension: len(vector),
		Provider:  "local",
		Model:     "test",
	}))
	return chunk.ID
}

func TestSearchVector_RanksBySimilarity(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	best := storeChunkWithVector(t, store, "repo-1", []float32{1, 0, 0})
	mid := storeChunkWithVector(t, store, "repo-1", []float32{1, 1, 0})
	worst := storeChunkWithVector(t, store, "repo-1", []float32{0, 0, 1})

	results, err := store.SearchVector(ctx, "repo-1", []float32{1, 0, 0}, 10, 0)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, best, results[0].ChunkID)
	assert.Equal(t, mid, results[1].ChunkID)
	assert.Equal(t, worst, results[2].ChunkID)
	assert.InDelta(t, 1.0, results[0].SimilarityScore, 1e-6)
}

func TestSearchVector_RespectsLimit(t *testing.T) {
	store := setupTestStore(t)

	for i := 0; i < 5; i++ {
		storeChunkWithVector(t, store, "repo-1", []float32{float32(i + 1), 1, 0})
	}

	results, err := store.SearchVector(context.Background(), "repo-1", []float32{1, 0, 0}, 2, 0)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestSearchVector_FiltersByRepo(t *testing.T) {
	store := setupTestStore(t)

	storeChunkWithVector(t, store, "repo-1", []float32{1, 0})
	other := storeChunkWithVector(t, store, "repo-2", []float32{1, 0})

	results, err := store.SearchVector(context.Background(), "repo-2", []float32{1, 0}, 10, 0)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, other, results[0].ChunkID)
}

func TestSearchVector_MinScore(t *testing.T) {
	store := setupTestStore(t)

	storeChunkWithVector(t, store, "repo-1", []float32{1, 0})
	storeChunkWithVector(t, store, "repo-1", []float32{0, 1})

	results, err := store.SearchVector(context.Background(), "repo-1", []float32{1, 0}, 10, 0.5)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestSearchVector_SkipsDimensionMismatch(t *testing.T) {
	store := setupTestStore(t)

	storeChunkWithVector(t, store, "repo-1", []float32{1, 0, 0})
	storeChunkWithVector(t, store, "repo-1", []float32{1, 0})

	results, err := store.SearchVector(context.Background(), "repo-1", []float32{1, 0}, 10, 0)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestSearchVector_EmptyRepo(t *testing.T) {
	store := setupTestStore(t)

	results, err := store.SearchVector(context.Background(), "repo-none", []float32{1, 0}, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func BenchmarkSearchVector(b *testing.B) {
	store, err := NewSQLiteStore(":memory:")
	if err != nil {
		b.Fatal(err)
	}
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	vector := make([]float32, 384)
	for i := range vector {
		vector[i] = float32(i%7) - 3
	}

	for i := 0; i < 500; i++ {
		chunk := testChunk("repo-1", "/src/file.py", "content", i+1, i+2)
		if err := store.InsertChunk(ctx, chunk); err != nil {
			b.Fatal(err)
		}
		if err := store.InsertEmbedding(ctx, &Embedding{
			ChunkID:   chunk.ID,
			Vector:    SerializeVector(vector),
			Dimension: len(vector),
			Provider:  "local",
			Model:     "bench",
		}); err != nil {
			b.Fatal(err)
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := store.SearchVector(ctx, "repo-1", vector, 10, 0); err != nil {
			b.Fatal(err)
		}
	}
}
