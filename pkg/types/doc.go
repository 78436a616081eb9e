// Package types provides shared type definitions for the Codescout MCP server.
//
// This package defines the domain types shared across components: chunk
// records produced by the chunker and search results produced by the searcher.
//
// # Core Types
//
// Chunk represents a bounded-size section of a source file, annotated with
// its source line span and detected language:
//
//	chunk := &types.Chunk{
//	    Content:   "def handler(req):\n    ...",
//	    FilePath:  "/repo/api/handlers.py",
//	    StartLine: 42,
//	    EndLine:   48,
//	    Language:  "python",
//	}
//
// Chunk records are value objects: created once per indexing pass, never
// mutated, and handed straight to the embedding pipeline.
//
// # Validation
//
// Domain types implement validation methods to ensure data integrity:
//
//	if err := chunk.Validate(); err != nil {
//	    log.Printf("invalid chunk: %v", err)
//	}
//
// # Search Results
//
// SearchResult pairs a chunk's location and content with relevance scoring:
//
//	result := &types.SearchResult{
//	    ChunkID: 123,
//	    Rank:    1,
//	    Score:   0.92,
//	    Snippet: chunkContent,
//	}
//
// Scores are normalized to [0, 1], with higher values indicating better
// matches.
package types
