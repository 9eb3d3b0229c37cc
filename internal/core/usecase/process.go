package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/LouaiSf/ai-file-renamer/internal/core/domain"
	"github.com/LouaiSf/ai-file-renamer/internal/core/ports"
)

// Options tune the orchestrator without touching its collaborators.
type Options struct {
	// Preview runs the pipeline through conflict resolution but never
	// renames; outcomes carry the would-be filename instead.
	Preview bool
	// Recursive controls whether the scan descends into subdirectories.
	Recursive bool
	// Workers bounds the batch fan-out. 1 means the sequential reference flow.
	Workers int
	// StageTimeout bounds each call into extraction and the pluggable
	// classifier/generator. Zero disables the bound.
	StageTimeout time.Duration
}

// RenameUseCase sequences the pipeline per file and applies the fallback
// chain. It holds the only per-file control flow; every collaborator is a
// pure function of its inputs.
type RenameUseCase struct {
	scanner    ports.FileScanner
	extractor  ports.TextExtractor
	normalizer ports.TextNormalizer
	metadata   ports.MetadataExtractor
	classifier ports.Classifier
	generator  ports.NameGenerator
	sanitizer  ports.NameSanitizer
	resolver   ports.PathResolver
	renamer    ports.FileRenamer
	sink       ports.OutcomeSink
	history    ports.RunHistory
	metrics    ports.PipelineMetrics
	logger     *slog.Logger
	opts       Options

	now func() time.Time
}

var _ ports.BatchRenamer = (*RenameUseCase)(nil)

type Deps struct {
	Scanner    ports.FileScanner
	Extractor  ports.TextExtractor
	Normalizer ports.TextNormalizer
	Metadata   ports.MetadataExtractor
	Classifier ports.Classifier
	Generator  ports.NameGenerator
	Sanitizer  ports.NameSanitizer
	Resolver   ports.PathResolver
	Renamer    ports.FileRenamer
	Sink       ports.OutcomeSink
	History    ports.RunHistory      // optional
	Metrics    ports.PipelineMetrics // optional
	Logger     *slog.Logger          // optional
}

func NewRenameUseCase(deps Deps, opts Options) *RenameUseCase {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Metrics == nil {
		deps.Metrics = noopMetrics{}
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &RenameUseCase{
		scanner:    deps.Scanner,
		extractor:  deps.Extractor,
		normalizer: deps.Normalizer,
		metadata:   deps.Metadata,
		classifier: deps.Classifier,
		generator:  deps.Generator,
		sanitizer:  deps.Sanitizer,
		resolver:   deps.Resolver,
		renamer:    deps.Renamer,
		sink:       deps.Sink,
		history:    deps.History,
		metrics:    deps.Metrics,
		logger:     deps.Logger,
		opts:       opts,
		now:        time.Now,
	}
}

// ProcessFile runs one file through the pipeline and always returns a
// terminal outcome record.
func (uc *RenameUseCase) ProcessFile(ctx context.Context, file domain.FileEntry) domain.OutcomeRecord {
	return uc.processFile(ctx, uuid.NewString(), file)
}

func (uc *RenameUseCase) processFile(ctx context.Context, runID string, file domain.FileEntry) domain.OutcomeRecord {
	start := uc.now()
	uc.metrics.StartFile()

	rec := uc.runStages(ctx, runID, file)

	rec.ProcessingTimeMS = uc.now().Sub(start).Milliseconds()
	uc.metrics.FinishFile(rec.Status, uc.now().Sub(start))
	return rec
}

// runStages walks the linear state machine. Any stage may short-circuit to
// a failed or skipped terminal; the caller then moves on to the next file.
func (uc *RenameUseCase) runStages(ctx context.Context, runID string, file domain.FileEntry) domain.OutcomeRecord {
	rec := domain.OutcomeRecord{
		RunID:            runID,
		FileID:           uuid.NewString(),
		Timestamp:        uc.now().UTC(),
		OriginalFilename: file.Name,
		Preview:          uc.opts.Preview,
		Stage:            domain.StageScanned,
	}

	// Scanned -> Extracted
	extraction, err := uc.extract(ctx, file)
	if err != nil {
		return uc.fail(rec, domain.StageExtracted, domain.WrapError(domain.ErrExtraction, "extract text", err))
	}
	if !extraction.Extractable {
		rec.Status = domain.StatusSkipped
		rec.Stage = domain.StageExtracted
		rec.Error = "no extractable text"
		uc.logger.Warn("file skipped", "file", file.Name, "reason", rec.Error)
		return rec
	}
	rec.Stage = domain.StageExtracted

	// Extracted -> Cleaned. Total function; the empty string is valid input
	// for everything downstream.
	cleaned := uc.normalizer.Normalize(extraction.Text)
	rec.Stage = domain.StageCleaned
	if cleaned == "" {
		uc.logger.Warn("no text after cleaning", "file", file.Name)
	}

	// Cleaned -> MetadataDone. Never fails: the modification time backs the
	// date when the text carries none.
	md := uc.metadata.Extract(cleaned, file.ModTime)
	rec.Metadata = md
	rec.Stage = domain.StageMetadataDone

	// MetadataDone -> Classified. A classifier error, panic or timeout
	// downgrades to Unknown instead of failing the file.
	cls, err := uc.classify(ctx, cleaned)
	if err != nil {
		uc.metrics.StageFailure(domain.StageClassified)
		uc.logger.Warn("classifier failed, downgrading to Unknown", "file", file.Name, "error", err)
		cls = domain.Unclassified()
	}
	rec.Classification = cls
	rec.Stage = domain.StageClassified

	// Classified -> NameGenerated. A broken generator falls back to the
	// original stem plus a timestamp rather than failing the file.
	stem, err := uc.generate(ctx, md, cls, file.Name)
	if err != nil {
		uc.metrics.StageFailure(domain.StageNameGenerated)
		uc.logger.Warn("generator failed, using original-name fallback", "file", file.Name, "error", err)
		stem = uc.fallbackStem(file.Name)
	}
	rec.Stage = domain.StageNameGenerated

	// NameGenerated -> Sanitized.
	stem = uc.sanitizer.Sanitize(stem)
	if stem == "" {
		stem = uc.fallbackStem(file.Name)
		stem = uc.sanitizer.Sanitize(stem)
	}
	rec.Stage = domain.StageSanitized

	// Sanitized -> ConflictResolved.
	target, err := uc.resolver.Resolve(filepath.Dir(file.Path), stem, file.Ext)
	if err != nil {
		return uc.fail(rec, domain.StageConflictResolved, domain.WrapError(domain.ErrNaming, "resolve conflict", err))
	}
	rec.GeneratedFilename = filepath.Base(target)
	rec.Stage = domain.StageConflictResolved

	// ConflictResolved -> Renamed. Skipped entirely in preview mode.
	if !uc.opts.Preview {
		if err := uc.renamer.Rename(file.Path, target); err != nil {
			return uc.fail(rec, domain.StageRenamed, domain.WrapError(domain.ErrRename, "rename file", err))
		}
		rec.Stage = domain.StageRenamed
	}

	rec.Status = domain.StatusSuccess
	uc.logger.Info("file processed",
		"file", file.Name,
		"new_name", rec.GeneratedFilename,
		"type", cls.DocumentType,
		"confidence", cls.Confidence,
		"preview", uc.opts.Preview,
	)
	return rec
}

func (uc *RenameUseCase) fail(rec domain.OutcomeRecord, stage domain.Stage, err error) domain.OutcomeRecord {
	rec.Status = domain.StatusFailed
	rec.Stage = stage
	rec.Error = err.Error()
	uc.metrics.StageFailure(stage)
	uc.logger.Error("file failed", "file", rec.OriginalFilename, "stage", stage, "error", err)
	return rec
}

func (uc *RenameUseCase) extract(ctx context.Context, file domain.FileEntry) (domain.ExtractionResult, error) {
	ctx, cancel := uc.stageContext(ctx)
	defer cancel()
	return uc.extractor.Extract(ctx, file)
}

// classify shields the pipeline from misbehaving pluggable classifiers:
// panics become errors and the stage deadline applies.
func (uc *RenameUseCase) classify(ctx context.Context, text string) (cls domain.Classification, err error) {
	ctx, cancel := uc.stageContext(ctx)
	defer cancel()
	defer func() {
		if r := recover(); r != nil {
			cls = domain.Classification{}
			err = fmt.Errorf("classifier panic: %v", r)
		}
	}()
	return uc.classifier.Classify(ctx, text)
}

func (uc *RenameUseCase) generate(ctx context.Context, md domain.Metadata, cls domain.Classification, originalName string) (stem string, err error) {
	ctx, cancel := uc.stageContext(ctx)
	defer cancel()
	defer func() {
		if r := recover(); r != nil {
			stem = ""
			err = fmt.Errorf("generator panic: %v", r)
		}
	}()
	return uc.generator.Generate(ctx, md, cls, originalName)
}

func (uc *RenameUseCase) stageContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if uc.opts.StageTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, uc.opts.StageTimeout)
}

// fallbackStem is the last rung of the fallback chain: the original stem
// plus a generation timestamp.
func (uc *RenameUseCase) fallbackStem(originalName string) string {
	base := strings.TrimSuffix(originalName, filepath.Ext(originalName))
	return base + "_" + uc.now().Format("20060102_150405")
}

type noopMetrics struct{}

func (noopMetrics) StartFile()                                  {}
func (noopMetrics) FinishFile(domain.FileStatus, time.Duration) {}
func (noopMetrics) StageFailure(domain.Stage)                   {}
