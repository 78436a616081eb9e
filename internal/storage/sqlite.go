package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")
)

// SQLiteStore implements the Storage interface using SQLite
type SQLiteStore struct {
	db *sql.DB
}

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// SQLite benefits from a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// NewSQLiteStore creates a new SQLite storage instance and applies migrations
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := ApplyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// BeginTx starts a new transaction
func (s *SQLiteStore) BeginTx(ctx context.Context) (Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &sqliteTx{tx: tx, store: s}, nil
}

// querier is an interface that both *sql.DB and *sql.Tx implement
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// sqliteTx wraps a SQL transaction
type sqliteTx struct {
	tx    *sql.Tx
	store *SQLiteStore
}

func (t *sqliteTx) Commit() error {
	return t.tx.Commit()
}

func (t *sqliteTx) Rollback() error {
	return t.tx.Rollback()
}

// Chunk operations

func insertChunk(ctx context.Context, q querier, chunk *Chunk) error {
	query := `
		INSERT INTO chunks (repo_id, file_path, language, content, content_hash, token_count, start_line, end_line, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	now := time.Now()
	result, err := q.ExecContext(ctx, query,
		chunk.RepoID, chunk.FilePath, chunk.Language, chunk.Content,
		chunk.ContentHash[:], chunk.TokenCount, chunk.StartLine, chunk.EndLine, now)
	if err != nil {
		return fmt.Errorf("failed to insert chunk: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	chunk.ID = id
	chunk.CreatedAt = now
	return nil
}

func scanChunk(row interface{ Scan(dest ...interface{}) error }) (*Chunk, error) {
	var chunk Chunk
	var hash []byte
	err := row.Scan(&chunk.ID, &chunk.RepoID, &chunk.FilePath, &chunk.Language,
		&chunk.Content, &hash, &chunk.TokenCount, &chunk.StartLine, &chunk.EndLine, &chunk.CreatedAt)
	if err != nil {
		return nil, err
	}
	copy(chunk.ContentHash[:], hash)
	return &chunk, nil
}

const chunkColumns = "id, repo_id, file_path, language, content, content_hash, token_count, start_line, end_line, created_at"

func getChunk(ctx context.Context, q querier, chunkID int64) (*Chunk, error) {
	row := q.QueryRowContext(ctx, "SELECT "+chunkColumns+" FROM chunks WHERE id = ?", chunkID)
	chunk, err := scanChunk(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get chunk: %w", err)
	}
	return chunk, nil
}

func getChunks(ctx context.Context, q querier, chunkIDs []int64) ([]*Chunk, error) {
	if len(chunkIDs) == 0 {
		return []*Chunk{}, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(chunkIDs)), ",")
	args := make([]interface{}, len(chunkIDs))
	for i, id := range chunkIDs {
		args[i] = id
	}

	rows, err := q.QueryContext(ctx,
		"SELECT "+chunkColumns+" FROM chunks WHERE id IN ("+placeholders+")", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get chunks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	// Preserve the requested order: collect then reorder by ID
	byID := make(map[int64]*Chunk, len(chunkIDs))
	for rows.Next() {
		chunk, err := scanChunk(rows)
		if err != nil {
			return nil, err
		}
		byID[chunk.ID] = chunk
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	chunks := make([]*Chunk, 0, len(chunkIDs))
	for _, id := range chunkIDs {
		if chunk, ok := byID[id]; ok {
			chunks = append(chunks, chunk)
		}
	}
	return chunks, nil
}

func listChunksByRepo(ctx context.Context, q querier, repoID string) ([]*Chunk, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT "+chunkColumns+" FROM chunks WHERE repo_id = ? ORDER BY file_path, start_line", repoID)
	if err != nil {
		return nil, fmt.Errorf("failed to list chunks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var chunks []*Chunk
	for rows.Next() {
		chunk, err := scanChunk(rows)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, chunk)
	}
	return chunks, rows.Err()
}

func deleteChunksByRepo(ctx context.Context, q querier, repoID string) error {
	if _, err := q.ExecContext(ctx, "DELETE FROM chunks WHERE repo_id = ?", repoID); err != nil {
		return fmt.Errorf("failed to delete chunks: %w", err)
	}
	return nil
}

// Embedding operations

func insertEmbedding(ctx context.Context, q querier, embedding *Embedding) error {
	query := `
		INSERT INTO embeddings (chunk_id, vector, dimension, provider, model, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(chunk_id) DO UPDATE SET
			vector = excluded.vector,
			dimension = excluded.dimension,
			provider = excluded.provider,
			model = excluded.model
	`
	now := time.Now()
	result, err := q.ExecContext(ctx, query,
		embedding.ChunkID, embedding.Vector, embedding.Dimension,
		embedding.Provider, embedding.Model, now)
	if err != nil {
		return fmt.Errorf("failed to insert embedding: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	embedding.ID = id
	embedding.CreatedAt = now
	return nil
}

func getEmbedding(ctx context.Context, q querier, chunkID int64) (*Embedding, error) {
	var emb Embedding
	err := q.QueryRowContext(ctx,
		"SELECT id, chunk_id, vector, dimension, provider, model, created_at FROM embeddings WHERE chunk_id = ?",
		chunkID).Scan(&emb.ID, &emb.ChunkID, &emb.Vector, &emb.Dimension, &emb.Provider, &emb.Model, &emb.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get embedding: %w", err)
	}
	return &emb, nil
}

// Status operations

func getRepoStats(ctx context.Context, q querier, repoID string) (*RepoStats, error) {
	stats := &RepoStats{RepoID: repoID}

	err := q.QueryRowContext(ctx,
		"SELECT COUNT(*), COUNT(DISTINCT file_path) FROM chunks WHERE repo_id = ?",
		repoID).Scan(&stats.ChunksCount, &stats.FilesCount)
	if err != nil {
		return nil, fmt.Errorf("failed to count chunks: %w", err)
	}

	err = q.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM embeddings e INNER JOIN chunks c ON e.chunk_id = c.id WHERE c.repo_id = ?",
		repoID).Scan(&stats.EmbeddingsCount)
	if err != nil {
		return nil, fmt.Errorf("failed to count embeddings: %w", err)
	}

	return stats, nil
}

// SQLiteStore interface methods

func (s *SQLiteStore) InsertChunk(ctx context.Context, chunk *Chunk) error {
	return insertChunk(ctx, s.db, chunk)
}

func (s *SQLiteStore) GetChunk(ctx context.Context, chunkID int64) (*Chunk, error) {
	return getChunk(ctx, s.db, chunkID)
}

func (s *SQLiteStore) GetChunks(ctx context.Context, chunkIDs []int64) ([]*Chunk, error) {
	return getChunks(ctx, s.db, chunkIDs)
}

func (s *SQLiteStore) ListChunksByRepo(ctx context.Context, repoID string) ([]*Chunk, error) {
	return listChunksByRepo(ctx, s.db, repoID)
}

func (s *SQLiteStore) DeleteChunksByRepo(ctx context.Context, repoID string) error {
	return deleteChunksByRepo(ctx, s.db, repoID)
}

func (s *SQLiteStore) InsertEmbedding(ctx context.Context, embedding *Embedding) error {
	return insertEmbedding(ctx, s.db, embedding)
}

func (s *SQLiteStore) GetEmbedding(ctx context.Context, chunkID int64) (*Embedding, error) {
	return getEmbedding(ctx, s.db, chunkID)
}

func (s *SQLiteStore) SearchVector(ctx context.Context, repoID string, vector []float32, limit int, minScore float64) ([]VectorResult, error) {
	return searchVector(ctx, s.db, repoID, vector, limit, minScore)
}

func (s *SQLiteStore) GetRepoStats(ctx context.Context, repoID string) (*RepoStats, error) {
	return getRepoStats(ctx, s.db, repoID)
}

// sqliteTx interface methods

func (t *sqliteTx) InsertChunk(ctx context.Context, chunk *Chunk) error {
	return insertChunk(ctx, t.tx, chunk)
}

func (t *sqliteTx) GetChunk(ctx context.Context, chunkID int64) (*Chunk, error) {
	return getChunk(ctx, t.tx, chunkID)
}

func (t *sqliteTx) GetChunks(ctx context.Context, chunkIDs []int64) ([]*Chunk, error) {
	return getChunks(ctx, t.tx, chunkIDs)
}

func (t *sqliteTx) ListChunksByRepo(ctx context.Context, repoID string) ([]*Chunk, error) {
	return listChunksByRepo(ctx, t.tx, repoID)
}

func (t *sqliteTx) DeleteChunksByRepo(ctx context.Context, repoID string) error {
	return deleteChunksByRepo(ctx, t.tx, repoID)
}

func (t *sqliteTx) InsertEmbedding(ctx context.Context, embedding *Embedding) error {
	return insertEmbedding(ctx, t.tx, embedding)
}

func (t *sqliteTx) GetEmbedding(ctx context.Context, chunkID int64) (*Embedding, error) {
	return getEmbedding(ctx, t.tx, chunkID)
}

func (t *sqliteTx) SearchVector(ctx context.Context, repoID string, vector []float32, limit int, minScore float64) ([]VectorResult, error) {
	return searchVector(ctx, t.tx, repoID, vector, limit, minScore)
}

func (t *sqliteTx) GetRepoStats(ctx context.Context, repoID string) (*RepoStats, error) {
	return getRepoStats(ctx, t.tx, repoID)
}

func (t *sqliteTx) Close() error {
	return nil // Transactions don't own the connection
}

func (t *sqliteTx) BeginTx(ctx context.Context) (Tx, error) {
	return nil, errors.New("nested transactions are not supported")
}
