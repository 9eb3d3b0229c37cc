package extractor

import (
	"context"
	"fmt"
	"strings"

	"github.com/LouaiSf/ai-file-renamer/internal/core/domain"
	"github.com/LouaiSf/ai-file-renamer/internal/core/ports"
)

// Router dispatches extraction to the format-specific extractor registered
// for the file's extension.
type Router struct {
	byExt map[string]ports.TextExtractor
}

func NewRouter() *Router {
	return &Router{byExt: make(map[string]ports.TextExtractor)}
}

// Register binds an extractor to an extension. Later registrations for the
// same extension replace earlier ones.
func (r *Router) Register(ext string, e ports.TextExtractor) *Router {
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	r.byExt[strings.ToLower(ext)] = e
	return r
}

func (r *Router) Extract(ctx context.Context, file domain.FileEntry) (domain.ExtractionResult, error) {
	e, ok := r.byExt[strings.ToLower(file.Ext)]
	if !ok {
		return domain.ExtractionResult{}, fmt.Errorf("extract %s: unsupported extension %q", file.Path, file.Ext)
	}
	return e.Extract(ctx, file)
}
