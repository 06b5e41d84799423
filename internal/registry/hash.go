package registry

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// excludedHashDirs mirrors internal/staticscan's discovery exclusions so an
// artifact hash is stable across generated/vendored noise.
var excludedHashDirs = map[string]bool{
	"node_modules":   true,
	"dist":           true,
	"build":          true,
	".git":           true,
	"coverage":       true,
	"__pycache__":    true,
	".venv":          true,
	"venv":           true,
}

// CalculateArtifactHash walks root, concatenating "relative_path\x00sha256(contents)"
// for every file in deterministic path order, then hashes the concatenation
// (spec.md §4.2). It fails with a wrapped I/O error if root cannot be walked
// or a file cannot be read.
func CalculateArtifactHash(root string) (string, error) {
	type entry struct {
		rel  string
		sum  [32]byte
	}
	var entries []entry

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("REG_IO_ERROR: walk %s: %w", path, err)
		}
		if d.IsDir() {
			if path != root && excludedHashDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("REG_IO_ERROR: relativize %s: %w", path, err)
		}
		rel = filepath.ToSlash(rel)
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("REG_IO_ERROR: read %s: %w", rel, err)
		}
		entries = append(entries, entry{rel: rel, sum: sha256.Sum256(content)})
		return nil
	})
	if err != nil {
		return "", err
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].rel < entries[j].rel })

	h := sha256.New()
	for _, e := range entries {
		h.Write([]byte(e.rel))
		h.Write([]byte{0})
		h.Write([]byte(hex.EncodeToString(e.sum[:])))
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// RecordKey derives the spec.md §3 record_key: a truncated hash of
// "source:version_ref:artifact_hash".
func RecordKey(source, versionRef, artifactHash string) string {
	joined := strings.Join([]string{source, versionRef, artifactHash}, ":")
	sum := sha256.Sum256([]byte(joined))
	return hex.EncodeToString(sum[:])[:24]
}
