package storage

import (
	"context"
	"time"
)

// Storage defines the interface for persisting and querying indexed chunks
type Storage interface {
	// Chunk operations
	InsertChunk(ctx context.Context, chunk *Chunk) error
	GetChunk(ctx context.Context, chunkID int64) (*Chunk, error)
	GetChunks(ctx context.Context, chunkIDs []int64) ([]*Chunk, error)
	ListChunksByRepo(ctx context.Context, repoID string) ([]*Chunk, error)
	DeleteChunksByRepo(ctx context.Context, repoID string) error

	// Embedding operations
	InsertEmbedding(ctx context.Context, embedding *Embedding) error
	GetEmbedding(ctx context.Context, chunkID int64) (*Embedding, error)

	// Search operations
	SearchVector(ctx context.Context, repoID string, vector []float32, limit int, minScore float64) ([]VectorResult, error)

	// Status operations
	GetRepoStats(ctx context.Context, repoID string) (*RepoStats, error)

	// Database operations
	Close() error
	BeginTx(ctx context.Context) (Tx, error)
}

// Tx represents a database transaction
type Tx interface {
	Commit() error
	Rollback() error
	Storage // Embed Storage interface for transaction operations
}

// Chunk is a stored chunk record
type Chunk struct {
	ID          int64
	RepoID      string
	FilePath    string // Absolute path to the source file
	Language    string
	Content     string
	ContentHash [32]byte
	TokenCount  int
	StartLine   int
	EndLine     int
	CreatedAt   time.Time
}

// Embedding represents a vector embedding for a chunk
type Embedding struct {
	ID        int64
	ChunkID   int64
	Vector    []byte // Serialized float32 array, little-endian
	Dimension int
	Provider  string
	Model     string
	CreatedAt time.Time
}

// VectorResult represents a result from vector similarity search
type VectorResult struct {
	ChunkID         int64
	SimilarityScore float64
}

// RepoStats contains per-repository index statistics
type RepoStats struct {
	RepoID          string
	ChunksCount     int
	EmbeddingsCount int
	FilesCount      int // Distinct source files with at least one chunk
}
