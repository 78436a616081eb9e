package indexer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mkade/codescout-mcp/internal/embedder"
	"github.com/mkade/codescout-mcp/internal/registry"
	"github.com/mkade/codescout-mcp/internal/storage"
)

// writeBenchRepo generates a synthetic repository with the given number
// of source files
func writeBenchRepo(b *testing.B, fileCount int) string {
	b.Helper()

	root := b.TempDir()
	body := strings.Repeat("def handler(event):\n    value = transform(event)\n    return value\n\n\n", 20)

	for i := 0; i < fileCount; i++ {
		path := filepath.Join(root, fmt.Sprintf("pkg%d", i%4), fmt.Sprintf("mod%d.py", i))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			b.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(body), 0644); err != nil {
			b.Fatal(err)
		}
	}
	return root
}

func BenchmarkIndex(b *testing.B) {
	for _, fileCount := range []int{10, 50} {
		b.Run(fmt.Sprintf("files=%d", fileCount), func(b *testing.B) {
			root := writeBenchRepo(b, fileCount)

			emb, err := embedder.NewLocalProvider(nil)
			if err != nil {
				b.Fatal(err)
			}
			defer emb.Close()

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				b.StopTimer()
				store, err := storage.NewSQLiteStore(":memory:")
				if err != nil {
					b.Fatal(err)
				}
				reg, err := registry.New(filepath.Join(b.TempDir(), "repos.json"))
				if err != nil {
					b.Fatal(err)
				}
				idx := New(store, reg, emb)
				b.StartTimer()

				if _, err := idx.Index(context.Background(), root, nil); err != nil {
					b.Fatal(err)
				}

				b.StopTimer()
				_ = store.Close()
				b.StartTimer()
			}
		})
	}
}
