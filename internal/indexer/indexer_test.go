package indexer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkade/codescout-mcp/internal/embedder"
	"github.com/mkade/codescout-mcp/internal/registry"
	"github.com/mkade/codescout-mcp/internal/storage"
)

func setupIndexer(t *testing.T) (*Indexer, storage.Storage, *registry.Registry) {
	t.Helper()

	store, err := storage.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	reg, err := registry.New(filepath.Join(t.TempDir(), "repos.json"))
	require.NoError(t, err)

	emb, err := embedder.NewLocalProvider(nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = emb.Close() })

	return New(store, reg, emb), store, reg
}

func writeRepo(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return root
}

const pySource = "def handler(event):\n    return event\n\n\ndef helper(x):\n    return x * 2\n"

func TestIndex_FullRun(t *testing.T) {
	idx, store, reg := setupIndexer(t)

	root := writeRepo(t, map[string]string{
		"app/main.py":              pySource,
		"app/util.go":              "package app\n\nfunc Util() int {\n\treturn 1\n}\n",
		"README.txt":               "not a supported extension",
		"node_modules/dep/ix.js":   "module.exports = {}",
		".git/objects/aa/bb":       "binary",
		"__pycache__/main.cpython": "cached",
	})

	stats, err := idx.Index(context.Background(), root, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.FilesScanned)
	assert.Equal(t, 2, stats.FilesChunked)
	assert.Equal(t, 0, stats.FilesFailed)
	assert.Positive(t, stats.ChunksCreated)
	assert.Equal(t, stats.ChunksCreated, stats.EmbeddingsStored)
	assert.Empty(t, stats.ErrorMessages)
	assert.Positive(t, stats.Duration)

	// Repository is registered with the run's file count
	repo, err := reg.GetByID(stats.RepoID)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.FileCount)
	assert.False(t, repo.IndexedAt.IsZero())

	// Every chunk has a stored embedding
	chunks, err := store.ListChunksByRepo(context.Background(), stats.RepoID)
	require.NoError(t, err)
	require.Len(t, chunks, stats.ChunksCreated)

	for _, chunk := range chunks {
		emb, err := store.GetEmbedding(context.Background(), chunk.ID)
		require.NoError(t, err)
		assert.Equal(t, embedder.LocalDimension, emb.Dimension)
	}

	repoStats, err := store.GetRepoStats(context.Background(), stats.RepoID)
	require.NoError(t, err)
	assert.Equal(t, 2, repoStats.FilesCount)
	assert.Equal(t, stats.ChunksCreated, repoStats.ChunksCount)
}

func TestIndex_AlreadyIndexed(t *testing.T) {
	idx, _, _ := setupIndexer(t)
	root := writeRepo(t, map[string]string{"main.py": pySource})

	_, err := idx.Index(context.Background(), root, nil)
	require.NoError(t, err)

	_, err = idx.Index(context.Background(), root, nil)
	assert.ErrorIs(t, err, ErrAlreadyIndexed)
}

func TestIndex_ForceReindex(t *testing.T) {
	idx, store, _ := setupIndexer(t)
	root := writeRepo(t, map[string]string{"main.py": pySource})

	first, err := idx.Index(context.Background(), root, nil)
	require.NoError(t, err)

	second, err := idx.Index(context.Background(), root, &Config{ForceReindex: true})
	require.NoError(t, err)

	// Repository ID is stable across re-indexing
	assert.Equal(t, first.RepoID, second.RepoID)

	// Chunks were replaced, not accumulated
	chunks, err := store.ListChunksByRepo(context.Background(), second.RepoID)
	require.NoError(t, err)
	assert.Len(t, chunks, second.ChunksCreated)
}

func TestIndex_NotDirectory(t *testing.T) {
	idx, _, _ := setupIndexer(t)

	path := filepath.Join(t.TempDir(), "file.py")
	require.NoError(t, os.WriteFile(path, []byte(pySource), 0644))

	_, err := idx.Index(context.Background(), path, nil)
	assert.ErrorIs(t, err, ErrNotDirectory)
}

func TestIndex_MissingPath(t *testing.T) {
	idx, _, _ := setupIndexer(t)

	_, err := idx.Index(context.Background(), filepath.Join(t.TempDir(), "missing"), nil)
	assert.Error(t, err)
}

func TestIndex_NoSupportedFiles(t *testing.T) {
	idx, _, _ := setupIndexer(t)
	root := writeRepo(t, map[string]string{
		"README.md": "# docs only",
		"notes.txt": "plain text",
		"data.json": "{}",
	})

	_, err := idx.Index(context.Background(), root, nil)
	assert.ErrorIs(t, err, ErrNoFiles)
}

func TestIndex_UppercaseExtension(t *testing.T) {
	idx, store, _ := setupIndexer(t)
	root := writeRepo(t, map[string]string{
		"LEGACY.PY": pySource,
	})

	stats, err := idx.Index(context.Background(), root, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.FilesScanned)
	assert.Equal(t, 1, stats.FilesChunked)

	chunks, err := store.ListChunksByRepo(context.Background(), stats.RepoID)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)
	assert.Equal(t, "python", chunks[0].Language)
}

func TestIndex_ChunkOrdering(t *testing.T) {
	idx, store, _ := setupIndexer(t)
	root := writeRepo(t, map[string]string{
		"b.py": pySource,
		"a.py": pySource,
	})

	stats, err := idx.Index(context.Background(), root, nil)
	require.NoError(t, err)

	chunks, err := store.ListChunksByRepo(context.Background(), stats.RepoID)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)

	for i := 1; i < len(chunks); i++ {
		prev, cur := chunks[i-1], chunks[i]
		if prev.FilePath == cur.FilePath {
			assert.LessOrEqual(t, prev.StartLine, cur.StartLine)
		} else {
			assert.Less(t, prev.FilePath, cur.FilePath)
		}
	}
}

func TestIndexLock(t *testing.T) {
	var lock IndexLock

	assert.True(t, lock.TryAcquire())
	assert.False(t, lock.TryAcquire(), "second acquire must fail while held")

	lock.Release()
	assert.True(t, lock.TryAcquire())
	lock.Release()
}
