package types

import (
	"crypto/sha256"
	"errors"
)

// TokensPerChar is the heuristic for estimating tokens (chars/4)
const TokensPerChar = 4

// Chunk represents a bounded-size section of a source file for embedding and search
type Chunk struct {
	// Identification
	ID     int64
	RepoID string

	// Content
	Content     string
	ContentHash [32]byte // SHA-256 hash for deduplication
	TokenCount  int

	// Location
	FilePath  string // Absolute path to the source file
	StartLine int    // 1-indexed
	EndLine   int    // 1-indexed, inclusive

	// Metadata
	Language string // Detected language, "text" if unknown
}

// ValidateContent checks if the chunk content is valid
func (c *Chunk) ValidateContent() error {
	if c.Content == "" {
		return errors.New("chunk content cannot be empty")
	}

	if c.StartLine <= 0 || c.EndLine <= 0 {
		return errors.New("line numbers must be positive")
	}

	if c.StartLine > c.EndLine {
		return errors.New("start line must be before or equal to end line")
	}

	return nil
}

// Validate performs comprehensive validation of the chunk
func (c *Chunk) Validate() error {
	if err := c.ValidateContent(); err != nil {
		return err
	}

	if c.FilePath == "" {
		return errors.New("file path is required")
	}

	if c.Language == "" {
		return errors.New("language is required")
	}

	var zeroHash [32]byte
	if c.ContentHash == zeroHash {
		return errors.New("content hash must be computed")
	}

	return nil
}

// ComputeTokenCount estimates the number of tokens in the chunk
// Uses a simple heuristic: characters / 4
func (c *Chunk) ComputeTokenCount() int {
	c.TokenCount = len(c.Content) / TokensPerChar
	return c.TokenCount
}

// ComputeContentHash computes the SHA-256 hash of the chunk content
func (c *Chunk) ComputeContentHash() {
	c.ContentHash = sha256.Sum256([]byte(c.Content))
}

// LineCount returns the number of lines the chunk spans
func (c *Chunk) LineCount() int {
	return c.EndLine - c.StartLine + 1
}
