package xlsx

import (
	"fmt"
	"strings"
	"sync"

	"github.com/xuri/excelize/v2"

	"github.com/LouaiSf/ai-file-renamer/internal/core/domain"
)

const sheetName = "Outcomes"

var header = []string{
	"Run ID", "File ID", "Timestamp", "Status", "Stage",
	"Original Filename", "Generated Filename", "Document Type",
	"Confidence", "Date", "Date Source", "Error", "Duration (ms)",
}

// Writer collects outcomes in memory and renders them into a spreadsheet
// on Close. It implements the outcome sink interface so it can be teed
// next to the journal.
type Writer struct {
	mu      sync.Mutex
	path    string
	records []domain.OutcomeRecord
}

func New(path string) *Writer {
	return &Writer{path: path}
}

func (w *Writer) Write(rec domain.OutcomeRecord) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.records = append(w.records, rec)
	return nil
}

func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("report %s: %w", w.path, err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("report %s: %w", w.path, err)
	}

	if err := w.setRow(f, 1, headerCells()); err != nil {
		return err
	}
	for i, rec := range w.records {
		if err := w.setRow(f, i+2, recordCells(rec)); err != nil {
			return err
		}
	}

	if err := f.SaveAs(w.path); err != nil {
		return fmt.Errorf("report %s: %w", w.path, err)
	}
	return nil
}

func (w *Writer) setRow(f *excelize.File, row int, cells []any) error {
	for col, value := range cells {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return fmt.Errorf("report %s: %w", w.path, err)
		}
		if err := f.SetCellValue(sheetName, cell, value); err != nil {
			return fmt.Errorf("report %s: %w", w.path, err)
		}
	}
	return nil
}

func headerCells() []any {
	cells := make([]any, len(header))
	for i, h := range header {
		cells[i] = h
	}
	return cells
}

func recordCells(rec domain.OutcomeRecord) []any {
	status := string(rec.Status)
	if rec.Preview {
		status = strings.Join([]string{status, "(preview)"}, " ")
	}
	return []any{
		rec.RunID,
		rec.FileID,
		rec.Timestamp.Format("2006-01-02 15:04:05"),
		status,
		string(rec.Stage),
		rec.OriginalFilename,
		rec.GeneratedFilename,
		rec.Classification.DocumentType,
		rec.Classification.Confidence,
		rec.Metadata.Date,
		string(rec.Metadata.DateSource),
		rec.Error,
		rec.ProcessingTimeMS,
	}
}
