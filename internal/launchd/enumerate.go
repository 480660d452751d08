package launchd

import (
	"fmt"
	"os"
	"path/filepath"
)

// ListDir returns the full paths of dir's direct children, files and
// subdirectories alike. It does not recurse or open any child.
func ListDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}

	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	return paths, nil
}
