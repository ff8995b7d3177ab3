package fileutil

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/morozRed/crumbtrail/internal/parser"
)

// HashFile returns a short content hash for path.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return hex.EncodeToString(h.Sum(nil))[:16], nil
}

// ScanFileHashes hashes every file under root the filter accepts, keyed by
// slash-separated relative path.
func ScanFileHashes(root string, filter parser.Filter) (map[string]string, error) {
	hashes := make(map[string]string)

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)

		if d.IsDir() {
			if path != root && filter.Ignore != nil && filter.Ignore.ShouldIgnore(relPath, true) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || !filter.Accepts(relPath) {
			return nil
		}

		hash, err := HashFile(path)
		if err != nil {
			return err
		}
		hashes[relPath] = hash
		return nil
	})

	return hashes, err
}
