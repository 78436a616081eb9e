package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// indexRepositoryTool returns the tool definition for index_repository
func indexRepositoryTool() mcp.Tool {
	return mcp.Tool{
		Name:        "index_repository",
		Description: "Index a code repository to make it searchable",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path to the repository root",
				},
				"force_reindex": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, replace the existing index for this repository",
					"default":     false,
				},
			},
			Required: []string{"path"},
		},
	}
}

// searchCodeTool returns the tool definition for search_code
func searchCodeTool() mcp.Tool {
	return mcp.Tool{
		Name:        "search_code",
		Description: "Search an indexed repository with natural language or code queries",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"repo_id": map[string]interface{}{
					"type":        "string",
					"description": "Repository ID returned by index_repository or list_repositories",
				},
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search query (natural language or code)",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of results to return (1-100)",
					"default":     10,
					"minimum":     1,
					"maximum":     100,
				},
			},
			Required: []string{"repo_id", "query"},
		},
	}
}

// listRepositoriesTool returns the tool definition for list_repositories
func listRepositoriesTool() mcp.Tool {
	return mcp.Tool{
		Name:        "list_repositories",
		Description: "List all indexed repositories",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}

// removeRepositoryTool returns the tool definition for remove_repository
func removeRepositoryTool() mcp.Tool {
	return mcp.Tool{
		Name:        "remove_repository",
		Description: "Remove a repository and its index",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"repo_id": map[string]interface{}{
					"type":        "string",
					"description": "Repository ID to remove",
				},
			},
			Required: []string{"repo_id"},
		},
	}
}

// repoStatsTool returns the tool definition for repo_stats
func repoStatsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "repo_stats",
		Description: "Report index statistics for a repository",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"repo_id": map[string]interface{}{
					"type":        "string",
					"description": "Repository ID to inspect",
				},
			},
			Required: []string{"repo_id"},
		},
	}
}
