// Package storage provides SQLite-based persistence for indexed chunks.
//
// The storage layer manages:
//   - Chunk records (content, file path, line span, language)
//   - Vector embeddings for chunks
//
// Repository metadata lives in the JSON registry, not here; chunks reference
// their repository by the registry-assigned UUID.
//
// # Basic Usage
//
//	store, err := storage.NewSQLiteStore("~/.codescout/codescout.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer store.Close()
//
//	err = store.InsertChunk(ctx, &storage.Chunk{
//	    RepoID:    repoID,
//	    FilePath:  "/repo/api/handlers.py",
//	    Language:  "python",
//	    Content:   content,
//	    StartLine: 42,
//	    EndLine:   48,
//	})
//
// # Transactions
//
// The indexer commits each embedding batch atomically:
//
//	tx, err := store.BeginTx(ctx)
//	if err != nil {
//	    return err
//	}
//	defer tx.Rollback()
//
//	for i := range chunks {
//	    tx.InsertChunk(ctx, &chunks[i])
//	    tx.InsertEmbedding(ctx, &embeddings[i])
//	}
//
//	if err := tx.Commit(); err != nil {
//	    return err
//	}
//
// # Vector Search
//
// Embeddings are stored as little-endian float32 blobs and searched with
// cosine similarity computed in Go:
//
//	results, err := store.SearchVector(ctx, repoID, queryVector, 10, 0)
//	for _, result := range results {
//	    fmt.Printf("chunk %d: score %.3f\n", result.ChunkID, result.SimilarityScore)
//	}
//
// # Build Tags
//
// Two driver configurations are supported:
//
// Pure Go build (default):
//
//   - Uses modernc.org/sqlite
//
//   - No C compiler needed
//
//     CGO_ENABLED=0 go build ./...
//
// CGO build (cgo_sqlite tag):
//
//   - Uses github.com/mattn/go-sqlite3
//
//   - Faster query execution on large indexes
//
//     CGO_ENABLED=1 go build -tags cgo_sqlite ./...
package storage
