// Package searcher implements semantic code search over indexed chunks.
//
// A query is embedded with the same provider used at indexing time, then
// matched against stored chunk embeddings by cosine similarity. Results
// come back ranked, with file location and the matching chunk content.
//
// # Basic Usage
//
//	s := searcher.NewSearcher(store, emb)
//
//	resp, err := s.Search(ctx, searcher.SearchRequest{
//	    RepoID: repoID,
//	    Query:  "parse configuration file",
//	    Limit:  10,
//	})
//
//	for _, r := range resp.Results {
//	    fmt.Printf("%d. %s:%d-%d (%.3f)\n", r.Rank, r.FilePath, r.StartLine, r.EndLine, r.Score)
//	}
//
// # Caching
//
// Responses can be cached per request with an LRU cache and TTL
// expiration. The cache key covers repository, query, limit, and score
// threshold. Call InvalidateCache after re-indexing.
//
// # Statistics
//
// Stats reports chunk, embedding, and file counts for a repository,
// backing the repo_stats tool.
package searcher
