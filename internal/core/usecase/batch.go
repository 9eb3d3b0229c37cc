package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"

	"github.com/LouaiSf/ai-file-renamer/internal/core/domain"
)

// ProcessFolder scans root and runs every candidate file through the
// pipeline. The batch precondition (existing, writable target folder) is
// verified before any file is touched; a violation aborts the whole run
// with domain.ErrCritical and zero per-file outcomes.
func (uc *RenameUseCase) ProcessFolder(ctx context.Context, root string) (domain.RunSummary, error) {
	run := domain.RunSummary{
		ID:        uuid.NewString(),
		Root:      root,
		Preview:   uc.opts.Preview,
		StartedAt: uc.now().UTC(),
	}

	if err := uc.checkBatchPrecondition(root); err != nil {
		return run, err
	}

	files, err := uc.scanner.Scan(ctx, root, uc.opts.Recursive)
	if err != nil {
		return run, domain.WrapError(domain.ErrCritical, "scan folder", err)
	}
	run.Total = len(files)
	uc.logger.Info("batch started", "run_id", run.ID, "root", root, "files", len(files), "preview", uc.opts.Preview)

	outcomes := uc.processAll(ctx, run.ID, files)

	for _, rec := range outcomes {
		switch rec.Status {
		case domain.StatusSuccess:
			run.Succeeded++
		case domain.StatusSkipped:
			run.Skipped++
		default:
			run.Failed++
		}
	}
	run.FinishedAt = uc.now().UTC()

	if uc.history != nil {
		if err := uc.history.SaveRun(ctx, run); err != nil {
			uc.logger.Error("save run history", "run_id", run.ID, "error", err)
		}
	}

	uc.logger.Info("batch finished",
		"run_id", run.ID,
		"total", run.Total,
		"succeeded", run.Succeeded,
		"skipped", run.Skipped,
		"failed", run.Failed,
	)
	if ctx.Err() != nil {
		return run, fmt.Errorf("batch interrupted: %w", ctx.Err())
	}
	return run, nil
}

// processAll fans the file list out over a bounded worker pool. Files are
// independent units of work; cancellation is honored between files, never
// mid-file, so no file is left half-processed.
func (uc *RenameUseCase) processAll(ctx context.Context, runID string, files []domain.FileEntry) []domain.OutcomeRecord {
	workers := uc.opts.Workers
	if workers > len(files) {
		workers = len(files)
	}
	if workers <= 1 {
		var outcomes []domain.OutcomeRecord
		for _, file := range files {
			if ctx.Err() != nil {
				uc.logger.Warn("batch cancelled", "remaining", len(files)-len(outcomes))
				break
			}
			outcomes = append(outcomes, uc.handleFile(ctx, runID, file))
		}
		return outcomes
	}

	jobs := make(chan domain.FileEntry)
	results := make(chan domain.OutcomeRecord)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for file := range jobs {
				results <- uc.handleFile(ctx, runID, file)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, file := range files {
			if ctx.Err() != nil {
				return
			}
			select {
			case jobs <- file:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	var outcomes []domain.OutcomeRecord
	for rec := range results {
		outcomes = append(outcomes, rec)
	}
	return outcomes
}

// handleFile completes the state machine for one file: process, journal,
// persist. Every started file terminates in a logged outcome.
func (uc *RenameUseCase) handleFile(ctx context.Context, runID string, file domain.FileEntry) domain.OutcomeRecord {
	rec := uc.processFile(ctx, runID, file)

	if err := uc.sink.Write(rec); err != nil {
		uc.logger.Error("write outcome journal", "file", rec.OriginalFilename, "error", err)
	} else if rec.Status == domain.StatusSuccess {
		rec.Stage = domain.StageLogged
	}

	if uc.history != nil {
		if err := uc.history.SaveOutcome(ctx, rec); err != nil {
			uc.logger.Error("save outcome history", "file", rec.OriginalFilename, "error", err)
		}
	}
	return rec
}

// checkBatchPrecondition verifies the target folder exists, is a directory
// and is writable. Preview runs skip the write probe since they never
// mutate the folder.
func (uc *RenameUseCase) checkBatchPrecondition(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.WrapError(domain.ErrCritical, "check folder", fmt.Errorf("folder not found: %s", root))
		}
		return domain.WrapError(domain.ErrCritical, "check folder", err)
	}
	if !info.IsDir() {
		return domain.WrapError(domain.ErrCritical, "check folder", fmt.Errorf("not a directory: %s", root))
	}
	if uc.opts.Preview {
		return nil
	}

	probe, err := os.CreateTemp(root, ".renamer-probe-*")
	if err != nil {
		return domain.WrapError(domain.ErrCritical, "check folder", fmt.Errorf("folder not writable: %w", err))
	}
	name := probe.Name()
	_ = probe.Close()
	_ = os.Remove(name)
	return nil
}
