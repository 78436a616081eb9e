package searcher

import (
	"context"
	"crypto/sha256"
	"fmt"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/mkade/codescout-mcp/internal/embedder"
	"github.com/mkade/codescout-mcp/internal/storage"
	"github.com/mkade/codescout-mcp/pkg/types"
)

// Default search parameters
const (
	DefaultLimit    = 10
	MaxLimit        = 100
	DefaultCacheTTL = 1 * time.Hour
	cacheSize       = 1000
)

// SearchRequest contains parameters for a search operation
type SearchRequest struct {
	RepoID   string
	Query    string
	Limit    int
	MinScore float64 // Minimum cosine similarity, 0 disables the filter
	UseCache bool
	CacheTTL time.Duration
}

// SearchResponse contains search results and metadata
type SearchResponse struct {
	Results      []types.SearchResult
	TotalResults int
	Duration     time.Duration
	CacheHit     bool
}

// cacheEntry represents a cached search response with expiration time
type cacheEntry struct {
	response  *SearchResponse
	expiresAt time.Time
}

// Searcher runs semantic queries against a repository's indexed chunks
type Searcher struct {
	storage  storage.Storage
	embedder embedder.Embedder
	cache    *lru.Cache[[32]byte, *cacheEntry]
	cacheMu  sync.RWMutex
}

// NewSearcher creates a new Searcher instance
func NewSearcher(store storage.Storage, emb embedder.Embedder) *Searcher {
	cache, err := lru.New[[32]byte, *cacheEntry](cacheSize)
	if err != nil {
		// This should never happen with valid size parameter
		panic(fmt.Sprintf("failed to create LRU cache: %v", err))
	}

	return &Searcher{
		storage:  store,
		embedder: emb,
		cache:    cache,
	}
}

// Search embeds the query and returns the most similar chunks in the
// repository, ranked by cosine similarity.
func (s *Searcher) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	startTime := time.Now()

	if s.embedder == nil {
		return nil, fmt.Errorf("embedder not initialized")
	}

	if err := s.validateRequest(&req); err != nil {
		return nil, fmt.Errorf("invalid search request: %w", err)
	}

	if req.UseCache {
		if cached := s.checkCache(req); cached != nil {
			cached.CacheHit = true
			cached.Duration = time.Since(startTime)
			return cached, nil
		}
	}

	queryEmb, err := s.embedder.Embed(ctx, req.Query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	vectorResults, err := s.storage.SearchVector(ctx, req.RepoID, queryEmb.Vector, req.Limit, req.MinScore)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	results, err := s.fetchResults(ctx, vectorResults)
	if err != nil {
		return nil, err
	}

	response := &SearchResponse{
		Results:      results,
		TotalResults: len(results),
		Duration:     time.Since(startTime),
	}

	if req.UseCache && len(response.Results) > 0 {
		s.storeInCache(req, response)
	}

	return response, nil
}

// Stats returns index statistics for a repository
func (s *Searcher) Stats(ctx context.Context, repoID string) (*storage.RepoStats, error) {
	if repoID == "" {
		return nil, fmt.Errorf("repository id cannot be empty")
	}
	return s.storage.GetRepoStats(ctx, repoID)
}

// fetchResults hydrates ranked vector matches into full search results.
// Chunks that fail to load are skipped rather than failing the search.
func (s *Searcher) fetchResults(ctx context.Context, ranked []storage.VectorResult) ([]types.SearchResult, error) {
	if len(ranked) == 0 {
		return []types.SearchResult{}, nil
	}

	chunkIDs := make([]int64, len(ranked))
	for i, vr := range ranked {
		chunkIDs[i] = vr.ChunkID
	}

	chunks, err := s.storage.GetChunks(ctx, chunkIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load chunks: %w", err)
	}

	byID := make(map[int64]*storage.Chunk, len(chunks))
	for _, chunk := range chunks {
		byID[chunk.ID] = chunk
	}

	results := make([]types.SearchResult, 0, len(ranked))
	for _, vr := range ranked {
		chunk, ok := byID[vr.ChunkID]
		if !ok {
			continue
		}

		results = append(results, types.SearchResult{
			ChunkID:   chunk.ID,
			Rank:      len(results) + 1,
			Score:     vr.SimilarityScore,
			FilePath:  chunk.FilePath,
			StartLine: chunk.StartLine,
			EndLine:   chunk.EndLine,
			Snippet:   chunk.Content,
			Language:  chunk.Language,
		})
	}

	return results, nil
}

// validateRequest ensures the search request is valid and applies defaults
func (s *Searcher) validateRequest(req *SearchRequest) error {
	if strings.TrimSpace(req.Query) == "" {
		return fmt.Errorf("query cannot be empty")
	}

	if req.RepoID == "" {
		return fmt.Errorf("repository id cannot be empty")
	}

	if req.Limit <= 0 {
		req.Limit = DefaultLimit
	}
	if req.Limit > MaxLimit {
		req.Limit = MaxLimit
	}

	if req.CacheTTL == 0 {
		req.CacheTTL = DefaultCacheTTL
	}

	return nil
}

// checkCache returns a copy of a cached, unexpired response or nil
func (s *Searcher) checkCache(req SearchRequest) *SearchResponse {
	hash := computeQueryHash(req)
	now := time.Now()

	s.cacheMu.RLock()
	entry, found := s.cache.Get(hash)
	if !found {
		s.cacheMu.RUnlock()
		return nil
	}

	if now.After(entry.expiresAt) {
		s.cacheMu.RUnlock()

		s.cacheMu.Lock()
		s.cache.Remove(hash)
		s.cacheMu.Unlock()
		return nil
	}

	// Copy while holding the read lock so the entry cannot change mid-copy
	response := copySearchResponse(entry.response)
	s.cacheMu.RUnlock()

	return response
}

// storeInCache saves search results to the cache
func (s *Searcher) storeInCache(req SearchRequest, response *SearchResponse) {
	entry := &cacheEntry{
		response:  copySearchResponse(response),
		expiresAt: time.Now().Add(req.CacheTTL),
	}

	s.cacheMu.Lock()
	s.cache.Add(computeQueryHash(req), entry)
	s.cacheMu.Unlock()
}

// InvalidateCache drops all cached responses. Called after re-indexing or
// removing a repository, when cached results may be stale.
func (s *Searcher) InvalidateCache() {
	s.cacheMu.Lock()
	s.cache.Purge()
	s.cacheMu.Unlock()
}

// copySearchResponse creates a deep copy of a SearchResponse
func copySearchResponse(src *SearchResponse) *SearchResponse {
	if src == nil {
		return nil
	}

	dst := &SearchResponse{
		TotalResults: src.TotalResults,
		Duration:     src.Duration,
		CacheHit:     src.CacheHit,
		Results:      make([]types.SearchResult, len(src.Results)),
	}
	copy(dst.Results, src.Results)

	return dst
}

// computeQueryHash computes a unique hash for a search request
func computeQueryHash(req SearchRequest) [32]byte {
	var data strings.Builder
	data.WriteString(req.RepoID)
	data.WriteString("|")
	data.WriteString(req.Query)
	data.WriteString("|")
	fmt.Fprintf(&data, "%d|%.4f", req.Limit, req.MinScore)

	return sha256.Sum256([]byte(data.String()))
}
