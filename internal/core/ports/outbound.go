package ports

import (
	"context"
	"time"

	"github.com/LouaiSf/ai-file-renamer/internal/core/domain"
)

// FileScanner yields the candidate files under a root directory, already
// filtered to supported extensions. Re-invoking Scan restarts the listing.
type FileScanner interface {
	Scan(ctx context.Context, root string, recursive bool) ([]domain.FileEntry, error)
}

// TextExtractor pulls raw text out of a file. A file with no selectable
// text reports Extractable == false rather than an error.
type TextExtractor interface {
	Extract(ctx context.Context, file domain.FileEntry) (domain.ExtractionResult, error)
}

// TextNormalizer cleans raw extracted text into canonical form.
// Pure and total; the empty string is a valid result.
type TextNormalizer interface {
	Normalize(raw string) string
}

// MetadataExtractor derives a date and optional entities from cleaned text.
// Never fails; the modification time backs the date when the text has none.
type MetadataExtractor interface {
	Extract(text string, modTime time.Time) domain.Metadata
}

// Classifier maps cleaned text to a document-type label. Implementations
// are swappable behind this single method; the orchestrator never inspects
// classifier internals.
type Classifier interface {
	Classify(ctx context.Context, text string) (domain.Classification, error)
}

// NameGenerator maps metadata, classification and the original filename to
// an unsanitized filename stem (no extension). Swappable.
type NameGenerator interface {
	Generate(ctx context.Context, md domain.Metadata, cls domain.Classification, originalName string) (string, error)
}

// NameSanitizer enforces character-set and length constraints on a stem.
type NameSanitizer interface {
	Sanitize(stem string) string
}

// PathResolver maps a sanitized stem to a target path guaranteed unused in
// dir at resolution time, including paths claimed earlier in the same run.
type PathResolver interface {
	Resolve(dir, stem, ext string) (string, error)
}

// FileRenamer performs the atomic rename.
type FileRenamer interface {
	Rename(oldPath, newPath string) error
}

// OutcomeSink receives exactly one record per started file.
type OutcomeSink interface {
	Write(rec domain.OutcomeRecord) error
	Close() error
}

// RunHistory persists batch runs and their per-file outcomes.
type RunHistory interface {
	SaveRun(ctx context.Context, run domain.RunSummary) error
	SaveOutcome(ctx context.Context, rec domain.OutcomeRecord) error
	ListRuns(ctx context.Context, limit int) ([]domain.RunSummary, error)
}

// PipelineMetrics observes file processing for operational monitoring.
type PipelineMetrics interface {
	StartFile()
	FinishFile(status domain.FileStatus, duration time.Duration)
	StageFailure(stage domain.Stage)
}
