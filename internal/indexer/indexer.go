package indexer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mkade/codescout-mcp/internal/chunker"
	"github.com/mkade/codescout-mcp/internal/embedder"
	"github.com/mkade/codescout-mcp/internal/registry"
	"github.com/mkade/codescout-mcp/internal/storage"
	"github.com/mkade/codescout-mcp/pkg/types"
)

// Common errors
var (
	ErrIndexInProgress = errors.New("an indexing operation is already in progress")
	ErrAlreadyIndexed  = errors.New("repository is already indexed")
	ErrNotDirectory    = errors.New("path is not a directory")
	ErrNoFiles         = errors.New("no supported source files found")
)

// DefaultEmbedBatchSize is the number of chunks sent per embedding API call
const DefaultEmbedBatchSize = 100

// Indexer coordinates the indexing pipeline: discover -> chunk -> embed -> store
type Indexer struct {
	chunker  *chunker.Chunker
	embedder embedder.Embedder
	store    storage.Storage
	registry *registry.Registry

	lock IndexLock
}

// Config contains configuration for a single indexing run
type Config struct {
	Workers        int  // Number of concurrent chunking workers (default: runtime.NumCPU())
	EmbedBatchSize int  // Chunks per embedding batch (default: 100)
	ForceReindex   bool // Re-index even if the repository is already registered
}

// Statistics contains statistics about an indexing run
type Statistics struct {
	RepoID           string
	FilesScanned     int
	FilesChunked     int
	FilesFailed      int
	ChunksCreated    int
	EmbeddingsStored int
	Duration         time.Duration
	ErrorMessages    []string
}

// New creates a new Indexer instance
func New(store storage.Storage, reg *registry.Registry, emb embedder.Embedder) *Indexer {
	return &Indexer{
		chunker:  chunker.New(chunker.Config{}),
		embedder: emb,
		store:    store,
		registry: reg,
	}
}

// Index indexes every supported source file under rootPath. The repository
// is registered on first indexing; re-indexing an existing repository
// requires ForceReindex and replaces its chunks while keeping its ID.
func (idx *Indexer) Index(ctx context.Context, rootPath string, config *Config) (*Statistics, error) {
	if config == nil {
		config = &Config{}
	}
	if config.Workers <= 0 {
		config.Workers = runtime.NumCPU()
	}
	if config.EmbedBatchSize <= 0 {
		config.EmbedBatchSize = DefaultEmbedBatchSize
	}

	if !idx.lock.TryAcquire() {
		return nil, ErrIndexInProgress
	}
	defer idx.lock.Release()

	absPath, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat path: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, absPath)
	}

	startTime := time.Now()
	stats := &Statistics{
		ErrorMessages: make([]string, 0),
	}

	repo, err := idx.resolveRepo(absPath, config.ForceReindex)
	if err != nil {
		return nil, err
	}
	stats.RepoID = repo.ID

	files, err := idx.discoverFiles(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to discover files: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w under %s", ErrNoFiles, absPath)
	}

	// Drop any chunks from a previous run before re-indexing
	if config.ForceReindex {
		if err := idx.store.DeleteChunksByRepo(ctx, repo.ID); err != nil {
			return nil, fmt.Errorf("failed to clear previous index: %w", err)
		}
	}

	chunks, err := idx.chunkFiles(ctx, repo.ID, files, config, stats)
	if err != nil {
		return nil, err
	}

	if err := idx.embedAndStore(ctx, chunks, config, stats); err != nil {
		return nil, err
	}

	if _, err := idx.registry.Update(repo.ID, stats.FilesChunked); err != nil {
		return nil, fmt.Errorf("failed to update registry: %w", err)
	}

	stats.Duration = time.Since(startTime)
	return stats, nil
}

// resolveRepo registers the repository or returns the existing record.
// An existing record without forceReindex is an error.
func (idx *Indexer) resolveRepo(absPath string, forceReindex bool) (*registry.Repo, error) {
	existing, err := idx.registry.GetByPath(absPath)
	if err == nil {
		if !forceReindex {
			return nil, fmt.Errorf("%w: %s (id %s)", ErrAlreadyIndexed, absPath, existing.ID)
		}
		return existing, nil
	}
	if !errors.Is(err, registry.ErrNotFound) {
		return nil, err
	}

	return idx.registry.Add(filepath.Base(absPath), absPath, 0)
}

// discoverFiles finds all supported source files under rootPath, skipping
// ignored directories. The result is sorted for deterministic ordering.
func (idx *Indexer) discoverFiles(rootPath string) ([]string, error) {
	supported := idx.chunker.SupportedExtensions()
	var files []string

	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path != rootPath && chunker.ShouldIgnorePath(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if _, ok := supported[ext]; !ok {
			return nil
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// chunkFiles chunks files concurrently with a bounded worker pool.
// Per-file failures are recorded and do not abort the run.
func (idx *Indexer) chunkFiles(ctx context.Context, repoID string, files []string,
	config *Config, stats *Statistics) ([]types.Chunk, error) {

	var (
		mu        sync.Mutex
		allChunks []types.Chunk
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(config.Workers)

	for _, filePath := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			fileChunks, err := idx.chunker.ChunkFile(filePath)

			mu.Lock()
			defer mu.Unlock()
			stats.FilesScanned++

			if err != nil {
				stats.FilesFailed++
				stats.ErrorMessages = append(stats.ErrorMessages, fmt.Sprintf("%s: %v", filePath, err))
				return nil
			}
			if len(fileChunks) == 0 {
				return nil
			}

			for i := range fileChunks {
				fileChunks[i].RepoID = repoID
			}
			stats.FilesChunked++
			allChunks = append(allChunks, fileChunks...)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Worker completion order is nondeterministic; restore file order
	sort.SliceStable(allChunks, func(i, j int) bool {
		if allChunks[i].FilePath != allChunks[j].FilePath {
			return allChunks[i].FilePath < allChunks[j].FilePath
		}
		return allChunks[i].StartLine < allChunks[j].StartLine
	})

	return allChunks, nil
}

// embedAndStore embeds chunks in batches and persists each batch in a
// single transaction, so a chunk and its embedding commit together.
func (idx *Indexer) embedAndStore(ctx context.Context, chunks []types.Chunk,
	config *Config, stats *Statistics) error {

	for start := 0; start < len(chunks); start += config.EmbedBatchSize {
		end := start + config.EmbedBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		texts := make([]string, len(batch))
		for i, chunk := range batch {
			texts[i] = chunk.Content
		}

		embeddings, err := idx.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return fmt.Errorf("failed to embed batch: %w", err)
		}
		if len(embeddings) != len(batch) {
			return fmt.Errorf("embedding count mismatch: got %d, want %d", len(embeddings), len(batch))
		}

		if err := idx.storeBatch(ctx, batch, embeddings); err != nil {
			return err
		}

		stats.ChunksCreated += len(batch)
		stats.EmbeddingsStored += len(embeddings)
	}

	return nil
}

func (idx *Indexer) storeBatch(ctx context.Context, batch []types.Chunk, embeddings []*embedder.Embedding) error {
	tx, err := idx.store.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, chunk := range batch {
		record := &storage.Chunk{
			RepoID:      chunk.RepoID,
			FilePath:    chunk.FilePath,
			Language:    chunk.Language,
			Content:     chunk.Content,
			ContentHash: chunk.ContentHash,
			TokenCount:  chunk.TokenCount,
			StartLine:   chunk.StartLine,
			EndLine:     chunk.EndLine,
		}
		if err := tx.InsertChunk(ctx, record); err != nil {
			return fmt.Errorf("failed to store chunk: %w", err)
		}

		emb := embeddings[i]
		embRecord := &storage.Embedding{
			ChunkID:   record.ID,
			Vector:    storage.SerializeVector(emb.Vector),
			Dimension: emb.Dimension,
			Provider:  emb.Provider,
			Model:     emb.Model,
		}
		if err := tx.InsertEmbedding(ctx, embRecord); err != nil {
			return fmt.Errorf("failed to store embedding: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit batch: %w", err)
	}

	return nil
}
