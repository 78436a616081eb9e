// Package mcp implements the Model Context Protocol (MCP) server for Codescout.
//
// The MCP server exposes five tools to AI coding assistants:
//   - index_repository: Index a code repository for semantic search
//   - search_code: Search an indexed repository with natural language queries
//   - list_repositories: List all indexed repositories
//   - remove_repository: Remove a repository and its index
//   - repo_stats: Report index statistics for a repository
//
// # Protocol Overview
//
// MCP is a JSON-RPC 2.0 protocol over stdio transport:
//
//	Client → Server: {"method": "tools/call", "params": {...}}
//	Server → Client: {"result": {...}}
//
// The server communicates with MCP clients via standard input/output. All
// logging goes to stderr; stdout carries only protocol messages.
//
// # Tool: index_repository
//
//	Request:
//	{
//	  "name": "index_repository",
//	  "arguments": {
//	    "path": "/path/to/repo",
//	    "force_reindex": false
//	  }
//	}
//
//	Response:
//	{
//	  "repo_id": "3f1c...",
//	  "files_scanned": 247,
//	  "files_chunked": 244,
//	  "chunks_created": 1893,
//	  "embeddings_stored": 1893,
//	  "duration_ms": 8421
//	}
//
// # Tool: search_code
//
//	Request:
//	{
//	  "name": "search_code",
//	  "arguments": {
//	    "repo_id": "3f1c...",
//	    "query": "where is the retry logic for http requests",
//	    "limit": 10
//	  }
//	}
//
// Results carry rank, similarity score, file path, line span, language,
// and the matching chunk content.
//
// # Error Codes
//
// Tool failures map to JSON-RPC error codes: invalid parameters (-32602),
// internal errors (-32603), and domain codes for unknown repositories,
// concurrent indexing, repositories already indexed, empty queries, and
// paths without supported source files (-32001 through -32005).
package mcp
