package chunker

import (
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/mkade/codescout-mcp/pkg/types"
)

// DefaultMaxChunkSize is the default maximum chunk size in characters
const DefaultMaxChunkSize = 1500

// DefaultSeparators is the priority-ordered list of structural markers used
// to split source code. Earlier entries are more semantically meaningful
// boundaries and are tried first; paragraph and line breaks are the
// last resorts.
var DefaultSeparators = []string{
	"\nclass ",     // Class definitions
	"\ndef ",       // Python functions
	"\nasync def ", // Python async functions
	"\nfunction ",  // JS/TS functions
	"\nexport ",    // JS/TS exports
	"\nconst ",     // JS/TS constants
	"\nlet ",       // JS/TS variables
	"\nvar ",       // JS variables
	"\npublic ",    // Java/C# methods
	"\nprivate ",   // Java/C# methods
	"\nprotected ", // Java/C# methods
	"\nfunc ",      // Go functions
	"\nfn ",        // Rust functions
	"\nimpl ",      // Rust implementations
	"\n\n",         // Paragraph breaks
	"\n",           // Line breaks
}

// Config controls how files are split into chunks
type Config struct {
	MaxChunkSize int               // Maximum chunk size in characters (default 1500)
	Separators   []string          // Priority-ordered split markers
	Languages    map[string]string // Extension -> language tag
}

// DefaultConfig returns the default chunking configuration
func DefaultConfig() Config {
	return Config{
		MaxChunkSize: DefaultMaxChunkSize,
		Separators:   DefaultSeparators,
		Languages:    defaultLanguages,
	}
}

// Chunker splits source files into bounded-size, semantically coherent chunks
type Chunker struct {
	config Config
}

// New creates a Chunker with the given configuration. Zero-value fields
// fall back to defaults.
func New(config Config) *Chunker {
	if config.MaxChunkSize <= 0 {
		config.MaxChunkSize = DefaultMaxChunkSize
	}
	if len(config.Separators) == 0 {
		config.Separators = DefaultSeparators
	}
	if config.Languages == nil {
		config.Languages = defaultLanguages
	}
	return &Chunker{config: config}
}

// Split splits text using the chunker's configured separators and size limit
func (c *Chunker) Split(text string) []string {
	return SplitText(text, c.config.Separators, c.config.MaxChunkSize)
}

// SplitText recursively splits text into fragments no larger than maxSize,
// preferring the highest-priority separator present in the text. Fragments
// carry their separator prefix so that concatenating them reconstructs the
// input. A fragment that exceeds maxSize after all separators are exhausted
// is returned oversized rather than dropped.
func SplitText(text string, separators []string, maxSize int) []string {
	if len(text) <= maxSize {
		if strings.TrimSpace(text) == "" {
			return nil
		}
		return []string{text}
	}

	for i, sep := range separators {
		if !strings.Contains(text, sep) {
			continue
		}

		parts := strings.Split(text, sep)

		// Greedily reassemble parts into chunks under the size limit.
		// The separator is re-prepended to every part except the first.
		var chunks []string
		var current strings.Builder
		for j, part := range parts {
			piece := part
			if j > 0 {
				piece = sep + part
			}

			if current.Len()+len(piece) <= maxSize {
				current.WriteString(piece)
				continue
			}
			if strings.TrimSpace(current.String()) != "" {
				chunks = append(chunks, current.String())
			}
			current.Reset()
			current.WriteString(piece)
		}
		if strings.TrimSpace(current.String()) != "" {
			chunks = append(chunks, current.String())
		}

		// Recurse into chunks still over the limit using only the
		// lower-priority separators.
		remaining := separators[i+1:]
		result := make([]string, 0, len(chunks))
		for _, chunk := range chunks {
			if len(chunk) > maxSize && len(remaining) > 0 {
				result = append(result, SplitText(chunk, remaining, maxSize)...)
			} else {
				result = append(result, chunk)
			}
		}
		return result
	}

	// No separator occurs in the text: hard split into fixed-size windows
	chunks := make([]string, 0, (len(text)+maxSize-1)/maxSize)
	for start := 0; start < len(text); start += maxSize {
		end := min(start+maxSize, len(text))
		chunks = append(chunks, text[start:end])
	}
	return chunks
}

// Chunks reads the file at path and returns a lazy sequence of chunk
// records. Unreadable files and files with no non-whitespace content yield
// an empty sequence; a single bad file never fails an indexing pass.
// Re-ranging the sequence re-reads the file and is deterministic.
func (c *Chunker) Chunks(path string) iter.Seq[types.Chunk] {
	return func(yield func(types.Chunk) bool) {
		data, err := os.ReadFile(path)
		if err != nil {
			return
		}
		c.yieldChunks(path, string(data), yield)
	}
}

// ChunkFile reads the file at path and returns its chunk records as a slice.
// Unlike Chunks, a read failure surfaces as an error.
func (c *Chunker) ChunkFile(path string) ([]types.Chunk, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var chunks []types.Chunk
	c.yieldChunks(path, string(data), func(chunk types.Chunk) bool {
		chunks = append(chunks, chunk)
		return true
	})
	return chunks, nil
}

func (c *Chunker) yieldChunks(path, raw string, yield func(types.Chunk) bool) {
	// Drop invalid byte sequences rather than failing the file
	content := strings.ToValidUTF8(raw, "")
	if strings.TrimSpace(content) == "" {
		return
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}
	language := c.DetectLanguage(path)

	fragments := SplitText(content, c.config.Separators, c.config.MaxChunkSize)

	// Recover each fragment's line span by locating its trimmed
	// content in the original text. The search always starts at the
	// end of the previous fragment so repeated substrings resolve to
	// their own occurrence, not an earlier duplicate.
	pos := 0
	for _, fragment := range fragments {
		trimmed := strings.TrimSpace(fragment)
		if trimmed == "" {
			continue
		}

		start := strings.Index(content[pos:], trimmed)
		if start < 0 {
			// Location miss: fall back to the last known position
			start = pos
		} else {
			start += pos
		}

		startLine := 1 + strings.Count(content[:start], "\n")
		endLine := startLine + strings.Count(trimmed, "\n")
		pos = start + len(trimmed)

		chunk := types.Chunk{
			Content:   trimmed,
			FilePath:  absPath,
			StartLine: startLine,
			EndLine:   endLine,
			Language:  language,
		}
		chunk.ComputeTokenCount()
		chunk.ComputeContentHash()

		if !yield(chunk) {
			return
		}
	}
}
