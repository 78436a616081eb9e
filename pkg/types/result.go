package types

// SearchResult represents a single search result with relevance information
type SearchResult struct {
	// Identification
	ChunkID int64
	Rank    int // Position in result set (1-based)

	// Scoring
	Score float64 // Cosine similarity, normalized to [0, 1]

	// Location
	FilePath  string
	StartLine int
	EndLine   int

	// Content
	Snippet  string // The matching chunk content
	Language string
}

// Validate checks if the search result is valid
func (sr *SearchResult) Validate() error {
	if sr.ChunkID == 0 {
		return ErrInvalidChunkID
	}

	if sr.Rank < 1 {
		return ErrInvalidRank
	}

	if sr.Score < 0 || sr.Score > 1 {
		return ErrInvalidScore
	}

	if sr.FilePath == "" {
		return ErrMissingFilePath
	}

	if sr.Snippet == "" {
		return ErrEmptyContent
	}

	return nil
}
