package mcp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/server"

	"github.com/mkade/codescout-mcp/internal/embedder"
	"github.com/mkade/codescout-mcp/internal/indexer"
	"github.com/mkade/codescout-mcp/internal/registry"
	"github.com/mkade/codescout-mcp/internal/searcher"
	"github.com/mkade/codescout-mcp/internal/storage"
)

const (
	// ServerName is the MCP server name
	ServerName = "codescout-mcp"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
	// DefaultDataDir is the default location for the database and registry
	DefaultDataDir = "~/.codescout"
)

// Server wraps the MCP server with application dependencies
type Server struct {
	mcp      *server.MCPServer
	storage  storage.Storage
	registry *registry.Registry
	indexer  *indexer.Indexer
	searcher *searcher.Searcher
}

// NewServer creates a new MCP server instance rooted at dataDir
func NewServer(dataDir string) (*Server, error) {
	// Expand home directory if needed
	if dataDir == "" || dataDir == DefaultDataDir {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".codescout")
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	store, err := storage.NewSQLiteStore(filepath.Join(dataDir, "codescout.db"))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	reg, err := registry.New(filepath.Join(dataDir, "registry.json"))
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to initialize registry: %w", err)
	}

	emb, err := embedder.NewFromEnv()
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to initialize embedder: %w", err)
	}

	idx := indexer.New(store, reg, emb)
	srch := searcher.NewSearcher(store, emb)

	mcpServer := server.NewMCPServer(
		ServerName,
		ServerVersion,
	)

	s := &Server{
		mcp:      mcpServer,
		storage:  store,
		registry: reg,
		indexer:  idx,
		searcher: srch,
	}

	s.registerTools()

	return s, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown
func (s *Server) Serve(ctx context.Context) error {
	defer func() { _ = s.storage.Close() }()
	return server.ServeStdio(s.mcp)
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	s.mcp.AddTool(indexRepositoryTool(), s.handleIndexRepository)
	s.mcp.AddTool(searchCodeTool(), s.handleSearchCode)
	s.mcp.AddTool(listRepositoriesTool(), s.handleListRepositories)
	s.mcp.AddTool(removeRepositoryTool(), s.handleRemoveRepository)
	s.mcp.AddTool(repoStatsTool(), s.handleRepoStats)
}
