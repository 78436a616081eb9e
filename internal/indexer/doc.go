// Package indexer coordinates the end-to-end indexing pipeline for code
// repositories.
//
// The indexer orchestrates file discovery, chunking, embedding, and storage,
// managing concurrency and error handling.
//
// # Basic Usage
//
//	idx := indexer.New(store, reg, emb)
//
//	stats, err := idx.Index(ctx, "/path/to/repo", &indexer.Config{
//	    ForceReindex: false,
//	})
//
//	fmt.Printf("Indexed %d files in %v\n", stats.FilesChunked, stats.Duration)
//
// # Indexing Pipeline
//
// The indexer executes a multi-stage pipeline:
//
//  1. Discovery: Walk the repository, keep supported extensions, skip
//     ignored directories (node_modules, .git, build output, caches)
//  2. Chunk: Split each file at structural boundaries (parallel)
//  3. Embed: Generate vector embeddings in batches of 100
//  4. Store: Persist chunk and embedding together per transaction
//
// # Repository Registration
//
// The first index of a path registers it in the repository registry and
// assigns it a UUID. Indexing an already-registered path is an error
// unless ForceReindex is set, which replaces the stored chunks while
// keeping the repository ID stable.
//
// # Concurrent Processing
//
// Files are chunked by a bounded worker pool (default: NumCPU workers).
// Only one indexing run may be in flight per Indexer; a second concurrent
// call returns ErrIndexInProgress.
//
// # Error Handling
//
//	stats, err := idx.Index(ctx, path, nil)
//	// err only returned for fatal errors (bad path, storage or
//	// embedding failure)
//
//	// Check partial failures
//	if stats.FilesFailed > 0 {
//	    for _, msg := range stats.ErrorMessages {
//	        log.Printf("indexing: %s", msg)
//	    }
//	}
//
// Unreadable files are recorded and skipped; the run continues.
package indexer
