package service

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bnema/recode/internal/domain"
	"github.com/bnema/recode/internal/infrastructure/logger"
	"github.com/bnema/recode/internal/port"
)

// Video file extensions eligible for conversion (lowercase, with dot).
var videoExtensions = map[string]bool{
	".mkv":  true,
	".mp4":  true,
	".avi":  true,
	".m4v":  true,
	".mov":  true,
	".wmv":  true,
	".flv":  true,
	".webm": true,
	".ts":   true,
	".m2ts": true,
	".mpg":  true,
	".mpeg": true,
	".vob":  true,
	".ogv":  true,
}

// Catalog enumerates candidate files under a root. It never mutates the
// filesystem.
type Catalog struct {
	log port.Logger
}

func NewCatalog(log port.Logger) *Catalog {
	return &Catalog{log: log}
}

// Discover walks root and returns matching files sorted by size
// descending. A missing root is fatal; entries that error during
// enumeration are logged and skipped.
func (c *Catalog) Discover(root string) ([]domain.MediaItem, error) {
	if _, err := os.Stat(root); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%q: %w", root, domain.ErrRootNotFound)
		}
		return nil, fmt.Errorf("stat %q: %w", root, err)
	}

	var items []domain.MediaItem
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			c.log.Warnf("skipping %s: %v", logger.SanitizeForLog(path), err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !videoExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			c.log.Warnf("skipping %s: %v", logger.SanitizeForLog(path), err)
			return nil
		}
		items = append(items, domain.MediaItem{Path: path, Size: info.Size()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %q: %w", root, err)
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Size > items[j].Size
	})
	return items, nil
}
