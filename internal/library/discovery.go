package library

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/llehouerou/ripple/internal/player"
)

// discoverFiles walks dir and returns every playable file under it.
// Unreadable entries are skipped. A missing dir yields no files.
func discoverFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			if path == dir {
				return walkErr
			}
			return nil //nolint:nilerr // keep scanning the rest of the tree
		}
		if d.IsDir() || !player.Supported(path) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return files, err
}
