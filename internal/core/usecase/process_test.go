package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/LouaiSf/ai-file-renamer/internal/core/domain"
)

func TestProcessFileHappyPath(t *testing.T) {
	deps, renamer, _ := workingDeps()
	uc := NewRenameUseCase(deps, Options{})

	rec := uc.ProcessFile(context.Background(), invoiceEntry("/docs"))
	if rec.Status != domain.StatusSuccess {
		t.Fatalf("status = %q, error = %q", rec.Status, rec.Error)
	}
	if rec.GeneratedFilename != "Invoice_Acme_2024-01-12.pdf" {
		t.Fatalf("generated = %q", rec.GeneratedFilename)
	}
	if rec.Classification.DocumentType != "Invoice" || rec.Classification.Confidence != 0.9 {
		t.Fatalf("classification = %+v", rec.Classification)
	}
	if renamer.count() != 1 {
		t.Fatalf("renames = %d, want 1", renamer.count())
	}
	if rec.Stage != domain.StageRenamed {
		t.Fatalf("stage = %q", rec.Stage)
	}
}

func TestProcessFileSkipsUnextractable(t *testing.T) {
	deps, renamer, _ := workingDeps()
	deps.Extractor = &fakeExtractor{byName: map[string]domain.ExtractionResult{
		"scan_001.pdf": {Extractable: false},
	}}
	uc := NewRenameUseCase(deps, Options{})

	rec := uc.ProcessFile(context.Background(), invoiceEntry("/docs"))
	if rec.Status != domain.StatusSkipped {
		t.Fatalf("status = %q, want skipped", rec.Status)
	}
	if rec.Stage != domain.StageExtracted {
		t.Fatalf("stage = %q", rec.Stage)
	}
	if renamer.count() != 0 {
		t.Fatalf("skipped file must not be renamed")
	}
}

func TestProcessFileFailsOnExtractionError(t *testing.T) {
	deps, renamer, _ := workingDeps()
	deps.Extractor = &fakeExtractor{err: errors.New("corrupt file")}
	metrics := newFakeMetrics()
	deps.Metrics = metrics
	uc := NewRenameUseCase(deps, Options{})

	rec := uc.ProcessFile(context.Background(), invoiceEntry("/docs"))
	if rec.Status != domain.StatusFailed {
		t.Fatalf("status = %q, want failed", rec.Status)
	}
	if !strings.Contains(rec.Error, "corrupt file") {
		t.Fatalf("error = %q", rec.Error)
	}
	if renamer.count() != 0 {
		t.Fatalf("failed file must not be renamed")
	}
	if metrics.failures[domain.StageExtracted] != 1 {
		t.Fatalf("stage failures = %v", metrics.failures)
	}
}

func TestProcessFileClassifierErrorDowngradesToUnknown(t *testing.T) {
	deps, renamer, _ := workingDeps()
	deps.Classifier = &fakeClassifier{err: errors.New("backend down")}
	deps.Generator = &fakeGenerator{stem: "Unknown_2024-01-12"}
	uc := NewRenameUseCase(deps, Options{})

	rec := uc.ProcessFile(context.Background(), invoiceEntry("/docs"))
	if rec.Status != domain.StatusSuccess {
		t.Fatalf("status = %q, error = %q: classifier failure must not fail the file", rec.Status, rec.Error)
	}
	if rec.Classification != domain.Unclassified() {
		t.Fatalf("classification = %+v, want Unknown/0.1", rec.Classification)
	}
	if renamer.count() != 1 {
		t.Fatalf("pipeline must continue past a broken classifier")
	}
}

func TestProcessFileClassifierPanicDowngradesToUnknown(t *testing.T) {
	deps, _, _ := workingDeps()
	deps.Classifier = &fakeClassifier{panic: true}
	uc := NewRenameUseCase(deps, Options{})

	rec := uc.ProcessFile(context.Background(), invoiceEntry("/docs"))
	if rec.Status != domain.StatusSuccess {
		t.Fatalf("status = %q, error = %q", rec.Status, rec.Error)
	}
	if rec.Classification != domain.Unclassified() {
		t.Fatalf("classification = %+v", rec.Classification)
	}
}

func TestProcessFileClassifierTimeoutDowngradesToUnknown(t *testing.T) {
	deps, _, _ := workingDeps()
	deps.Classifier = &fakeClassifier{slow: time.Second, cls: domain.Classification{DocumentType: "Invoice", Confidence: 0.9}}
	uc := NewRenameUseCase(deps, Options{StageTimeout: 5 * time.Millisecond})

	rec := uc.ProcessFile(context.Background(), invoiceEntry("/docs"))
	if rec.Status != domain.StatusSuccess {
		t.Fatalf("status = %q, error = %q", rec.Status, rec.Error)
	}
	if rec.Classification != domain.Unclassified() {
		t.Fatalf("classification = %+v, want timeout downgrade", rec.Classification)
	}
}

func TestProcessFileGeneratorFailureUsesOriginalNameFallback(t *testing.T) {
	deps, renamer, _ := workingDeps()
	deps.Generator = &fakeGenerator{err: errors.New("template engine broken")}
	uc := NewRenameUseCase(deps, Options{})
	uc.now = func() time.Time { return time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC) }

	rec := uc.ProcessFile(context.Background(), invoiceEntry("/docs"))
	if rec.Status != domain.StatusSuccess {
		t.Fatalf("status = %q, error = %q", rec.Status, rec.Error)
	}
	if rec.GeneratedFilename != "scan_001_20240315_103000.pdf" {
		t.Fatalf("generated = %q, want original stem plus timestamp", rec.GeneratedFilename)
	}
	if renamer.count() != 1 {
		t.Fatalf("fallback name must still be applied")
	}
}

func TestProcessFileEmptySanitizedStemFallsBack(t *testing.T) {
	deps, _, _ := workingDeps()
	deps.Generator = &fakeGenerator{stem: `\/:*?"<>|`}
	deps.Sanitizer = emptySanitizer{}
	uc := NewRenameUseCase(deps, Options{})
	uc.now = func() time.Time { return time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC) }

	rec := uc.ProcessFile(context.Background(), invoiceEntry("/docs"))
	if rec.Status != domain.StatusSuccess {
		t.Fatalf("status = %q, error = %q", rec.Status, rec.Error)
	}
	if !strings.HasPrefix(rec.GeneratedFilename, "scan_001_") {
		t.Fatalf("generated = %q, want original-name fallback", rec.GeneratedFilename)
	}
}

// emptySanitizer wipes the first stem only, exercising the re-fallback.
type emptySanitizer struct{}

func (emptySanitizer) Sanitize(stem string) string {
	if strings.HasPrefix(stem, "scan_001_") {
		return stem
	}
	return ""
}

func TestProcessFileResolverFailureFails(t *testing.T) {
	deps, renamer, _ := workingDeps()
	deps.Resolver = &fakeResolver{err: errors.New("9999 versions taken")}
	uc := NewRenameUseCase(deps, Options{})

	rec := uc.ProcessFile(context.Background(), invoiceEntry("/docs"))
	if rec.Status != domain.StatusFailed {
		t.Fatalf("status = %q, want failed", rec.Status)
	}
	if rec.Stage != domain.StageConflictResolved {
		t.Fatalf("stage = %q", rec.Stage)
	}
	if renamer.count() != 0 {
		t.Fatalf("unresolved target must not be renamed")
	}
}

func TestProcessFileRenameFailureFails(t *testing.T) {
	deps, _, _ := workingDeps()
	deps.Renamer = &fakeRenamer{err: errors.New("permission denied")}
	uc := NewRenameUseCase(deps, Options{})

	rec := uc.ProcessFile(context.Background(), invoiceEntry("/docs"))
	if rec.Status != domain.StatusFailed {
		t.Fatalf("status = %q, want failed", rec.Status)
	}
	if rec.Stage != domain.StageRenamed {
		t.Fatalf("stage = %q", rec.Stage)
	}
	if !strings.Contains(rec.Error, "permission denied") {
		t.Fatalf("error = %q", rec.Error)
	}
}

func TestProcessFilePreviewNeverRenames(t *testing.T) {
	deps, renamer, _ := workingDeps()
	uc := NewRenameUseCase(deps, Options{Preview: true})

	rec := uc.ProcessFile(context.Background(), invoiceEntry("/docs"))
	if rec.Status != domain.StatusSuccess {
		t.Fatalf("status = %q, error = %q", rec.Status, rec.Error)
	}
	if !rec.Preview {
		t.Fatalf("record must be marked preview")
	}
	if rec.GeneratedFilename != "Invoice_Acme_2024-01-12.pdf" {
		t.Fatalf("generated = %q", rec.GeneratedFilename)
	}
	if renamer.count() != 0 {
		t.Fatalf("preview must not rename, got %d calls", renamer.count())
	}
}

func TestProcessFileRecordsProcessingTime(t *testing.T) {
	deps, _, _ := workingDeps()
	metrics := newFakeMetrics()
	deps.Metrics = metrics
	uc := NewRenameUseCase(deps, Options{})

	rec := uc.ProcessFile(context.Background(), invoiceEntry("/docs"))
	if rec.ProcessingTimeMS < 0 {
		t.Fatalf("processing time = %d", rec.ProcessingTimeMS)
	}
	if metrics.started != 1 || metrics.finished[domain.StatusSuccess] != 1 {
		t.Fatalf("metrics = %+v", metrics)
	}
}
