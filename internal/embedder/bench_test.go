package embedder

import (
	"context"
	"fmt"
	"testing"
)

func BenchmarkComputeHash(b *testing.B) {
	texts := []string{
		"short",
		"medium length text for hashing",
		"this is a longer text that represents a typical code chunk that might be embedded for semantic search in a codebase",
	}

	for _, text := range texts {
		b.Run(fmt.Sprintf("len=%d", len(text)), func(b *testing.B) {
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_ = ComputeHash(text)
			}
		})
	}
}

func BenchmarkCache(b *testing.B) {
	cache := NewCache(10000)
	emb := &Embedding{
		Vector:    make([]float32, LocalDimension),
		Dimension: LocalDimension,
		Provider:  ProviderLocal,
		Model:     "test",
		Hash:      "test-hash",
	}

	b.Run("set", func(b *testing.B) {
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			hash := fmt.Sprintf("hash-%d", i%1000)
			cache.Set(hash, emb)
		}
	})

	// Populate cache for get benchmark
	for i := 0; i < 1000; i++ {
		cache.Set(fmt.Sprintf("hash-%d", i), emb)
	}

	b.Run("get-hit", func(b *testing.B) {
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			hash := fmt.Sprintf("hash-%d", i%1000)
			_, _ = cache.Get(hash)
		}
	})

	b.Run("get-miss", func(b *testing.B) {
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			hash := fmt.Sprintf("nonexistent-%d", i)
			_, _ = cache.Get(hash)
		}
	})
}

func BenchmarkLocalProvider(b *testing.B) {
	cache := NewCache(10000)
	provider, err := NewLocalProvider(cache)
	if err != nil {
		b.Fatalf("NewLocalProvider() error = %v", err)
	}
	defer provider.Close()

	ctx := context.Background()

	b.Run("single-embedding", func(b *testing.B) {
		text := "func ProcessData(input []byte) (string, error) { return string(input), nil }"
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_, err := provider.Embed(ctx, text)
			if err != nil {
				b.Fatal(err)
			}
		}
	})

	b.Run("single-embedding-uncached", func(b *testing.B) {
		uncached, _ := NewLocalProvider(nil)
		defer uncached.Close()

		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_, err := uncached.Embed(ctx, fmt.Sprintf("code chunk %d", i))
			if err != nil {
				b.Fatal(err)
			}
		}
	})

	b.Run("batch-50", func(b *testing.B) {
		texts := make([]string, 50)
		for i := range texts {
			texts[i] = fmt.Sprintf("code chunk %d with more content", i)
		}

		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_, err := provider.EmbedBatch(ctx, texts)
			if err != nil {
				b.Fatal(err)
			}
		}
	})
}

func BenchmarkNormalizeVector(b *testing.B) {
	sizes := []int{128, 384, 768, 1536}

	for _, size := range sizes {
		b.Run(fmt.Sprintf("dim=%d", size), func(b *testing.B) {
			vec := make([]float32, size)
			for i := range vec {
				vec[i] = float32(i) / float32(size)
			}

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_ = NormalizeVector(vec)
			}
		})
	}
}

// BenchmarkConcurrentCache tests cache performance under concurrent load
func BenchmarkConcurrentCache(b *testing.B) {
	cache := NewCache(10000)
	emb := &Embedding{
		Vector:    make([]float32, LocalDimension),
		Dimension: LocalDimension,
		Provider:  ProviderLocal,
		Model:     "test",
	}

	// Pre-populate
	for i := 0; i < 1000; i++ {
		cache.Set(fmt.Sprintf("hash-%d", i), emb)
	}

	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			if i%3 == 0 {
				cache.Set(fmt.Sprintf("hash-%d", i%2000), emb)
			} else {
				_, _ = cache.Get(fmt.Sprintf("hash-%d", i%2000))
			}
			i++
		}
	})
}
