// Package loader resolves and loads story files from the filesystem.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileLoader loads story text relative to a base directory. Absolute paths
// are used as-is.
type FileLoader struct {
	base string
}

// NewFileLoader builds a loader rooted at base. An empty base means the
// current working directory.
func NewFileLoader(base string) *FileLoader {
	return &FileLoader{base: base}
}

// LoadStoryText reads the story file at path.
func (l *FileLoader) LoadStoryText(path string) (string, error) {
	full := path
	if !filepath.IsAbs(path) && l.base != "" {
		full = filepath.Join(l.base, path)
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return "", fmt.Errorf("reading story: %w", err)
	}
	return string(data), nil
}

// RelativePathCalculator resolves a given-story path relative to the
// directory of the referencing story. Paths starting with "/" are taken as
// rooted at the loader base.
type RelativePathCalculator struct{}

func (RelativePathCalculator) Calculate(parentPath, childPath string) string {
	if strings.HasPrefix(childPath, "/") {
		return strings.TrimPrefix(childPath, "/")
	}
	dir := filepath.Dir(parentPath)
	if dir == "." {
		return childPath
	}
	return filepath.ToSlash(filepath.Join(dir, childPath))
}
