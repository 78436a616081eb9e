// Package chunker splits source files into bounded-size, semantically
// coherent chunks for embedding and search.
//
// Splitting is recursive and separator-aware: a priority-ordered list of
// structural markers (class and function keywords, falling back to paragraph
// and line breaks) is tried in order, and pieces are greedily reassembled
// under the configured size limit. Chunks still over the limit recurse with
// the lower-priority separators; when no separator matches at all, the text
// is hard-split into fixed windows, which bounds both chunk size and
// recursion depth.
//
// # Basic Usage
//
//	c := chunker.New(chunker.DefaultConfig())
//	for chunk := range c.Chunks("/path/to/file.py") {
//	    fmt.Printf("lines %d-%d (%s): %d chars\n",
//	        chunk.StartLine, chunk.EndLine, chunk.Language, len(chunk.Content))
//	}
//
// # Line Spans
//
// Each chunk carries its 1-indexed source line span, recovered by locating
// the chunk's content in the original file with a monotonic forward search.
// Repeated code (two identical function bodies in one file) therefore maps
// each chunk to its own occurrence.
//
// # Failure Semantics
//
// Chunking never fails a batch: unreadable files, undecodable bytes, and
// whitespace-only content all yield an empty sequence. One oversized chunk
// with no separators left is emitted whole rather than dropped.
//
// # Purity
//
// A Chunker holds no mutable state. Chunking the same file with the same
// configuration always produces the same records, and independent files may
// be chunked concurrently.
package chunker
