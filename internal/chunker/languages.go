package chunker

import (
	"path/filepath"
	"strings"
)

// defaultLanguages maps file extensions to language tags. Extensions not
// present here classify as LanguageUnknown.
var defaultLanguages = map[string]string{
	".py":    "python",
	".js":    "javascript",
	".jsx":   "javascript",
	".ts":    "typescript",
	".tsx":   "typescript",
	".java":  "java",
	".go":    "go",
	".rs":    "rust",
	".c":     "c",
	".cpp":   "cpp",
	".h":     "c",
	".hpp":   "cpp",
	".rb":    "ruby",
	".php":   "php",
	".swift": "swift",
	".kt":    "kotlin",
	".scala": "scala",
	".cs":    "csharp",
}

// LanguageUnknown is the language tag for unmapped extensions
const LanguageUnknown = "text"

// ignoreDirs are directory names skipped during repository traversal
var ignoreDirs = map[string]struct{}{
	".git":          {},
	"node_modules":  {},
	"venv":          {},
	".venv":         {},
	"__pycache__":   {},
	".pytest_cache": {},
	".mypy_cache":   {},
	"dist":          {},
	"build":         {},
	".next":         {},
	".nuxt":         {},
	"target":        {},
	"vendor":        {},
	".idea":         {},
	".vscode":       {},
	"coverage":      {},
	".tox":          {},
	"eggs":          {},
}

// DetectLanguage returns the language tag for a file path based on its
// extension, using the chunker's configured table.
func (c *Chunker) DetectLanguage(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if lang, ok := c.config.Languages[ext]; ok {
		return lang
	}
	return LanguageUnknown
}

// SupportedExtensions returns the set of extensions the chunker classifies
// to a concrete language.
func (c *Chunker) SupportedExtensions() map[string]struct{} {
	exts := make(map[string]struct{}, len(c.config.Languages))
	for ext := range c.config.Languages {
		exts[ext] = struct{}{}
	}
	return exts
}

// ShouldIgnorePath reports whether any element of path names a directory
// that is excluded from indexing (build output, caches, VCS metadata).
func ShouldIgnorePath(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if _, ok := ignoreDirs[part]; ok {
			return true
		}
		if strings.HasSuffix(part, ".egg-info") {
			return true
		}
	}
	return false
}
