package ports

import (
	"context"

	"github.com/LouaiSf/ai-file-renamer/internal/core/domain"
)

// BatchRenamer drives the rename pipeline over a folder.
type BatchRenamer interface {
	// ProcessFolder scans root and runs every candidate file through the
	// pipeline. It aborts before touching any file when the batch
	// precondition fails (domain.ErrCritical).
	ProcessFolder(ctx context.Context, root string) (domain.RunSummary, error)
	// ProcessFile runs one file through the pipeline and always returns a
	// terminal outcome record.
	ProcessFile(ctx context.Context, file domain.FileEntry) domain.OutcomeRecord
}
