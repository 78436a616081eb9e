package embedder

import (
	"fmt"
	"os"
	"strings"
)

// Environment variable for explicit provider selection
const EnvEmbeddingProvider = "CODESCOUT_EMBEDDING_PROVIDER"

// DefaultCacheSize is the default number of embeddings kept in the LRU cache
const DefaultCacheSize = 10000

// Config holds embedder configuration
type Config struct {
	Provider  string
	APIKey    string
	CacheSize int
}

// NewFromEnv creates an embedder based on environment variables
// Priority:
// 1. CODESCOUT_EMBEDDING_PROVIDER (openai, local)
// 2. Check for OPENAI_API_KEY
// 3. Default to local if no API key found
func NewFromEnv() (Embedder, error) {
	return New(Config{
		Provider:  os.Getenv(EnvEmbeddingProvider),
		APIKey:    os.Getenv(EnvOpenAIAPIKey),
		CacheSize: DefaultCacheSize,
	})
}

// New creates an embedder from explicit configuration
func New(config Config) (Embedder, error) {
	cacheSize := config.CacheSize
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache := NewCache(cacheSize)

	// Explicit provider selection
	if config.Provider != "" {
		switch strings.ToLower(config.Provider) {
		case ProviderOpenAI:
			return NewOpenAIProvider(config.APIKey, cache)
		case ProviderLocal:
			return NewLocalProvider(cache)
		default:
			return nil, fmt.Errorf("%w: unknown provider %s", ErrUnsupportedModel, config.Provider)
		}
	}

	// Auto-detect based on available API keys
	if config.APIKey != "" {
		return NewOpenAIProvider(config.APIKey, cache)
	}

	// Fall back to local provider
	return NewLocalProvider(cache)
}

// DetectProvider returns which provider NewFromEnv would select,
// without constructing it
func DetectProvider() string {
	if provider := os.Getenv(EnvEmbeddingProvider); provider != "" {
		return strings.ToLower(provider)
	}
	if os.Getenv(EnvOpenAIAPIKey) != "" {
		return ProviderOpenAI
	}
	return ProviderLocal
}
