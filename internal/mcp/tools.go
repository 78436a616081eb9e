package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mkade/codescout-mcp/internal/indexer"
	"github.com/mkade/codescout-mcp/internal/registry"
	"github.com/mkade/codescout-mcp/internal/searcher"
)

// MCP error codes
const (
	ErrorCodeInvalidParams      = -32602 // Invalid method parameters
	ErrorCodeInternalError      = -32603 // Internal JSON-RPC error
	ErrorCodeRepoNotFound       = -32001 // Repository ID is not registered
	ErrorCodeIndexingInProgress = -32002 // Another indexing operation is already running
	ErrorCodeAlreadyIndexed     = -32003 // Repository already indexed, force_reindex not set
	ErrorCodeEmptyQuery         = -32004 // Query parameter is empty
	ErrorCodeNoFiles            = -32005 // No supported source files under path
)

// handleIndexRepository handles the index_repository tool invocation
func (s *Server) handleIndexRepository(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	path, ok := args["path"].(string)
	if !ok || path == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "path parameter is required", map[string]interface{}{
			"param":  "path",
			"reason": "missing or empty",
		})
	}

	if err := validatePath(path); err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid path", map[string]interface{}{
			"param":  "path",
			"reason": err.Error(),
		})
	}

	forceReindex := getBoolDefault(args, "force_reindex", false)

	stats, err := s.indexer.Index(ctx, path, &indexer.Config{
		ForceReindex: forceReindex,
	})
	if err != nil {
		switch {
		case errors.Is(err, indexer.ErrAlreadyIndexed):
			return nil, newMCPError(ErrorCodeAlreadyIndexed, "repository is already indexed", map[string]interface{}{
				"path": path,
				"hint": "set force_reindex to rebuild the index",
			})
		case errors.Is(err, indexer.ErrIndexInProgress):
			return nil, newMCPError(ErrorCodeIndexingInProgress, "an indexing operation is already running", nil)
		case errors.Is(err, indexer.ErrNoFiles):
			return nil, newMCPError(ErrorCodeNoFiles, "no supported source files found", map[string]interface{}{
				"path": path,
			})
		default:
			return nil, newMCPError(ErrorCodeInternalError, "indexing failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	// Cached results from a previous index of this repository are stale now
	if forceReindex {
		s.searcher.InvalidateCache()
	}

	response := map[string]interface{}{
		"repo_id":           stats.RepoID,
		"files_scanned":     stats.FilesScanned,
		"files_chunked":     stats.FilesChunked,
		"files_failed":      stats.FilesFailed,
		"chunks_created":    stats.ChunksCreated,
		"embeddings_stored": stats.EmbeddingsStored,
		"duration_ms":       stats.Duration.Milliseconds(),
	}

	if len(stats.ErrorMessages) > 0 {
		errorCount := len(stats.ErrorMessages)
		if errorCount > 5 {
			response["errors"] = stats.ErrorMessages[:5]
			response["error_count"] = errorCount
		} else {
			response["errors"] = stats.ErrorMessages
		}
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleSearchCode handles the search_code tool invocation
func (s *Server) handleSearchCode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	repoID, ok := args["repo_id"].(string)
	if !ok || repoID == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "repo_id parameter is required", map[string]interface{}{
			"param":  "repo_id",
			"reason": "missing or empty",
		})
	}

	query, ok := args["query"].(string)
	if !ok || query == "" {
		return nil, newMCPError(ErrorCodeEmptyQuery, "query parameter is required and cannot be empty", map[string]interface{}{
			"param":  "query",
			"reason": "missing or empty",
		})
	}

	limit := getIntDefault(args, "limit", searcher.DefaultLimit)
	if limit < 1 || limit > searcher.MaxLimit {
		return nil, newMCPError(ErrorCodeInvalidParams, "limit must be between 1 and 100", map[string]interface{}{
			"param": "limit",
			"value": limit,
		})
	}

	if _, err := s.registry.GetByID(repoID); err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			return nil, newMCPError(ErrorCodeRepoNotFound, "repository not found", map[string]interface{}{
				"repo_id": repoID,
			})
		}
		return nil, newMCPError(ErrorCodeInternalError, "failed to resolve repository", map[string]interface{}{
			"error": err.Error(),
		})
	}

	resp, err := s.searcher.Search(ctx, searcher.SearchRequest{
		RepoID:   repoID,
		Query:    query,
		Limit:    limit,
		UseCache: true,
	})
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "search failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	results := make([]map[string]interface{}, len(resp.Results))
	for i, r := range resp.Results {
		results[i] = map[string]interface{}{
			"rank":       r.Rank,
			"score":      r.Score,
			"file_path":  r.FilePath,
			"start_line": r.StartLine,
			"end_line":   r.EndLine,
			"language":   r.Language,
			"snippet":    r.Snippet,
		}
	}

	response := map[string]interface{}{
		"repo_id":       repoID,
		"query":         query,
		"total_results": resp.TotalResults,
		"duration_ms":   resp.Duration.Milliseconds(),
		"cache_hit":     resp.CacheHit,
		"results":       results,
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleListRepositories handles the list_repositories tool invocation
func (s *Server) handleListRepositories(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	repos, err := s.registry.List()
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to list repositories", map[string]interface{}{
			"error": err.Error(),
		})
	}

	entries := make([]map[string]interface{}, len(repos))
	for i, repo := range repos {
		entries[i] = map[string]interface{}{
			"repo_id":    repo.ID,
			"name":       repo.Name,
			"path":       repo.Path,
			"indexed_at": repo.IndexedAt.Format("2006-01-02T15:04:05Z07:00"),
			"file_count": repo.FileCount,
		}
	}

	response := map[string]interface{}{
		"total":        len(entries),
		"repositories": entries,
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleRemoveRepository handles the remove_repository tool invocation
func (s *Server) handleRemoveRepository(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	repoID, ok := args["repo_id"].(string)
	if !ok || repoID == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "repo_id parameter is required", map[string]interface{}{
			"param":  "repo_id",
			"reason": "missing or empty",
		})
	}

	if _, err := s.registry.GetByID(repoID); err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			return nil, newMCPError(ErrorCodeRepoNotFound, "repository not found", map[string]interface{}{
				"repo_id": repoID,
			})
		}
		return nil, newMCPError(ErrorCodeInternalError, "failed to look up repository", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Chunks go first: if storage fails the registry entry survives and
	// removal can be retried without leaving orphaned chunks.
	if err := s.storage.DeleteChunksByRepo(ctx, repoID); err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to delete repository chunks", map[string]interface{}{
			"error": err.Error(),
		})
	}

	if err := s.registry.Remove(repoID); err != nil && !errors.Is(err, registry.ErrNotFound) {
		return nil, newMCPError(ErrorCodeInternalError, "failed to remove repository", map[string]interface{}{
			"error": err.Error(),
		})
	}

	s.searcher.InvalidateCache()

	response := map[string]interface{}{
		"removed": true,
		"repo_id": repoID,
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleRepoStats handles the repo_stats tool invocation
func (s *Server) handleRepoStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	repoID, ok := args["repo_id"].(string)
	if !ok || repoID == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "repo_id parameter is required", map[string]interface{}{
			"param":  "repo_id",
			"reason": "missing or empty",
		})
	}

	repo, err := s.registry.GetByID(repoID)
	if err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			return nil, newMCPError(ErrorCodeRepoNotFound, "repository not found", map[string]interface{}{
				"repo_id": repoID,
			})
		}
		return nil, newMCPError(ErrorCodeInternalError, "failed to resolve repository", map[string]interface{}{
			"error": err.Error(),
		})
	}

	stats, err := s.searcher.Stats(ctx, repoID)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to get statistics", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"repository": map[string]interface{}{
			"repo_id":    repo.ID,
			"name":       repo.Name,
			"path":       repo.Path,
			"indexed_at": repo.IndexedAt.Format("2006-01-02T15:04:05Z07:00"),
		},
		"statistics": map[string]interface{}{
			"files_count":      stats.FilesCount,
			"chunks_count":     stats.ChunksCount,
			"embeddings_count": stats.EmbeddingsCount,
		},
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// Helper functions

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	// MCP errors are returned as regular errors, the framework handles encoding
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// validatePath checks if a path exists and names a readable directory
func validatePath(path string) error {
	if path == "" {
		return ErrPathRequired
	}

	if !filepath.IsAbs(path) {
		return ErrPathNotAbsolute
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return ErrPathNotFound
	}
	if err != nil {
		return ErrPathNotReadable
	}

	if !info.IsDir() {
		return ErrNotDirectory
	}

	f, err := os.Open(path)
	if err != nil {
		return ErrPathNotReadable
	}
	_ = f.Close()

	return nil
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getBoolDefault extracts a boolean parameter with a default value
func getBoolDefault(args map[string]interface{}, key string, defaultValue bool) bool {
	if val, ok := args[key].(bool); ok {
		return val
	}
	return defaultValue
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}

// Validation helpers

var (
	ErrPathRequired    = errors.New("path is required")
	ErrPathNotAbsolute = errors.New("path must be absolute")
	ErrPathNotFound    = errors.New("path does not exist")
	ErrPathNotReadable = errors.New("path is not readable")
	ErrNotDirectory    = errors.New("path is not a directory")
)
