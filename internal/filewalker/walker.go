package filewalker

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
)

// SupportedExtensions lists segment file types handled by the tool.
var SupportedExtensions = map[string]bool{
	".tsv": true,
	".tab": true,
}

// Walker discovers segment files under a path.
type Walker struct {
	extensions map[string]bool
}

// NewWalker creates a Walker for the supported extensions.
func NewWalker() *Walker {
	return &Walker{extensions: SupportedExtensions}
}

// Walk returns the segment files at root. A file root is returned as is;
// a directory is searched recursively. Results are sorted by path.
func (w *Walker) Walk(root string) ([]string, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root path: %w", err)
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return []string{root}, nil
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Error walking path")
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if w.extensions[strings.ToLower(filepath.Ext(path))] {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory: %w", err)
	}

	sort.Strings(files)
	log.Info().Int("count", len(files)).Str("root", root).Msg("Discovered segment files")
	return files, nil
}
