package localfs

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/LouaiSf/ai-file-renamer/internal/core/domain"
)

// Scanner walks a directory and returns the regular files whose extension
// is on the supported list. Hidden entries are skipped by default.
type Scanner struct {
	extensions map[string]struct{}
	skipHidden bool
}

func New(extensions []string, skipHidden bool) *Scanner {
	set := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		set[strings.ToLower(ext)] = struct{}{}
	}
	return &Scanner{extensions: set, skipHidden: skipHidden}
}

func (s *Scanner) Scan(ctx context.Context, root string, recursive bool) ([]domain.FileEntry, error) {
	var entries []domain.FileEntry

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		hidden := s.skipHidden && isHidden(d.Name()) && path != root
		if d.IsDir() {
			if path == root {
				return nil
			}
			if hidden || !recursive {
				return filepath.SkipDir
			}
			return nil
		}
		if hidden {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(d.Name()))
		if _, ok := s.extensions[ext]; !ok {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return fmt.Errorf("stat %s: %w", path, err)
		}
		entries = append(entries, domain.FileEntry{
			Path:    path,
			Name:    d.Name(),
			Ext:     ext,
			ModTime: info.ModTime(),
			Size:    info.Size(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	return entries, nil
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
