package usecase

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/LouaiSf/ai-file-renamer/internal/core/domain"
)

type fakeScanner struct {
	files []domain.FileEntry
	err   error
}

func (f *fakeScanner) Scan(context.Context, string, bool) ([]domain.FileEntry, error) {
	return f.files, f.err
}

type fakeExtractor struct {
	byName map[string]domain.ExtractionResult
	err    error
}

func (f *fakeExtractor) Extract(_ context.Context, file domain.FileEntry) (domain.ExtractionResult, error) {
	if f.err != nil {
		return domain.ExtractionResult{}, f.err
	}
	return f.byName[file.Name], nil
}

type passthroughNormalizer struct{}

func (passthroughNormalizer) Normalize(raw string) string { return raw }

type fakeMetadata struct {
	md domain.Metadata
}

func (f *fakeMetadata) Extract(_ string, modTime time.Time) domain.Metadata {
	md := f.md
	if md.Date == "" {
		md.Date = modTime.Format("2006-01-02")
		md.DateSource = domain.DateSourceFileMtime
	}
	return md
}

type fakeClassifier struct {
	cls   domain.Classification
	err   error
	panic bool
	slow  time.Duration
}

func (f *fakeClassifier) Classify(ctx context.Context, _ string) (domain.Classification, error) {
	if f.panic {
		panic("classifier exploded")
	}
	if f.slow > 0 {
		select {
		case <-time.After(f.slow):
		case <-ctx.Done():
			return domain.Classification{}, ctx.Err()
		}
	}
	return f.cls, f.err
}

type fakeGenerator struct {
	stem string
	err  error
}

func (f *fakeGenerator) Generate(context.Context, domain.Metadata, domain.Classification, string) (string, error) {
	return f.stem, f.err
}

type passthroughSanitizer struct{}

func (passthroughSanitizer) Sanitize(stem string) string { return stem }

type fakeResolver struct {
	err    error
	suffix string
}

func (f *fakeResolver) Resolve(dir, stem, ext string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return filepath.Join(dir, stem+f.suffix+ext), nil
}

type fakeRenamer struct {
	mu    sync.Mutex
	calls [][2]string
	err   error
}

func (f *fakeRenamer) Rename(oldPath, newPath string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, [2]string{oldPath, newPath})
	return f.err
}

func (f *fakeRenamer) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeSink struct {
	mu      sync.Mutex
	records []domain.OutcomeRecord
	err     error
}

func (f *fakeSink) Write(rec domain.OutcomeRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, rec)
	return f.err
}

func (f *fakeSink) Close() error { return nil }

func (f *fakeSink) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records)
}

type fakeHistory struct {
	mu       sync.Mutex
	runs     []domain.RunSummary
	outcomes []domain.OutcomeRecord
}

func (f *fakeHistory) SaveRun(_ context.Context, run domain.RunSummary) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.runs = append(f.runs, run)
	return nil
}

func (f *fakeHistory) SaveOutcome(_ context.Context, rec domain.OutcomeRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.outcomes = append(f.outcomes, rec)
	return nil
}

func (f *fakeHistory) ListRuns(context.Context, int) ([]domain.RunSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.runs, nil
}

type fakeMetrics struct {
	mu       sync.Mutex
	started  int
	finished map[domain.FileStatus]int
	failures map[domain.Stage]int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{
		finished: make(map[domain.FileStatus]int),
		failures: make(map[domain.Stage]int),
	}
}

func (f *fakeMetrics) StartFile() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.started++
}

func (f *fakeMetrics) FinishFile(status domain.FileStatus, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.finished[status]++
}

func (f *fakeMetrics) StageFailure(stage domain.Stage) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[stage]++
}

// workingDeps returns a dependency set where every stage succeeds, for
// tests that break exactly one collaborator.
func workingDeps() (Deps, *fakeRenamer, *fakeSink) {
	renamer := &fakeRenamer{}
	sink := &fakeSink{}
	deps := Deps{
		Scanner: &fakeScanner{},
		Extractor: &fakeExtractor{byName: map[string]domain.ExtractionResult{
			"scan_001.pdf": {Text: "INVOICE Amount Due: $500 Date: 12/01/2024", Extractable: true},
		}},
		Normalizer: passthroughNormalizer{},
		Metadata:   &fakeMetadata{md: domain.Metadata{Date: "2024-01-12", DateSource: domain.DateSourceDocument, Organization: "Acme"}},
		Classifier: &fakeClassifier{cls: domain.Classification{DocumentType: "Invoice", Confidence: 0.9}},
		Generator:  &fakeGenerator{stem: "Invoice_Acme_2024-01-12"},
		Sanitizer:  passthroughSanitizer{},
		Resolver:   &fakeResolver{},
		Renamer:    renamer,
		Sink:       sink,
	}
	return deps, renamer, sink
}

func invoiceEntry(dir string) domain.FileEntry {
	return domain.FileEntry{
		Path:    filepath.Join(dir, "scan_001.pdf"),
		Name:    "scan_001.pdf",
		Ext:     ".pdf",
		ModTime: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}
