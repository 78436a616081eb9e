// Package embedder generates vector embeddings for code chunks.
//
// Two providers are supported: the OpenAI embeddings API (or any
// OpenAI-compatible endpoint) and a deterministic local provider that
// needs no network access.
//
// # Basic Usage
//
//	// Create embedder (auto-detects provider from environment)
//	emb, err := embedder.NewFromEnv()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer emb.Close()
//
//	// Generate single embedding
//	result, err := emb.Embed(ctx, "func ParseFile(path string) error { ... }")
//	fmt.Printf("Vector dimension: %d\n", result.Dimension)
//
// # Batch Processing
//
// For efficiency, use batch processing:
//
//	embeddings, err := emb.EmbedBatch(ctx, []string{
//	    chunk1.Content,
//	    chunk2.Content,
//	    chunk3.Content,
//	})
//
// Batching reduces API calls; the OpenAI provider accepts up to 100
// texts per call.
//
// # Provider Selection
//
// The embedder selects a provider based on environment variables:
//
//  1. If CODESCOUT_EMBEDDING_PROVIDER is set, use the specified provider
//  2. Else if OPENAI_API_KEY is set, use OpenAI
//  3. Else fall back to the local provider (offline mode)
//
// Or use the factory with explicit configuration:
//
//	emb, err := embedder.New(embedder.Config{
//	    Provider: "openai",
//	    APIKey:   "your-api-key",
//	})
//
// # Caching
//
// Both providers share an LRU cache keyed by the SHA-256 hash of the
// input text, so re-indexing unchanged files never repeats API calls.
//
// # Error Handling
//
// The OpenAI provider retries transient failures with exponential
// backoff. Failures after all retries surface as ErrProviderFailed:
//
//	embeddings, err := emb.EmbedBatch(ctx, texts)
//	if errors.Is(err, embedder.ErrProviderFailed) {
//	    // API temporarily unavailable, retry later
//	}
//
// The local provider produces hash-projection vectors: stable across
// runs and machines, with no semantic signal, suitable for offline
// indexing and tests.
package embedder
