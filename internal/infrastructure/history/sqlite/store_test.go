package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/LouaiSf/ai-file-renamer/internal/core/domain"
)

func TestSaveRun(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	store := NewWithDB(db)

	run := domain.RunSummary{
		ID: "run-1", Root: "/docs", Preview: false,
		StartedAt:  time.Date(2024, 1, 12, 10, 0, 0, 0, time.UTC),
		FinishedAt: time.Date(2024, 1, 12, 10, 0, 5, 0, time.UTC),
		Total:      3, Succeeded: 2, Skipped: 1, Failed: 0,
	}

	mock.ExpectExec("INSERT INTO runs").
		WithArgs(run.ID, run.Root, run.Preview, run.StartedAt, run.FinishedAt,
			run.Total, run.Succeeded, run.Skipped, run.Failed).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := store.SaveRun(context.Background(), run); err != nil {
		t.Fatalf("SaveRun() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSaveOutcomeEncodesJSON(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	store := NewWithDB(db)

	rec := domain.OutcomeRecord{
		RunID: "run-1", FileID: "f1",
		Timestamp:         time.Date(2024, 1, 12, 10, 0, 1, 0, time.UTC),
		Status:            domain.StatusSuccess,
		Stage:             domain.StageLogged,
		OriginalFilename:  "scan_001.pdf",
		GeneratedFilename: "Invoice_Acme_2024-01-12.pdf",
		Classification:    domain.Classification{DocumentType: "Invoice", Confidence: 0.9},
		Metadata:          domain.Metadata{Date: "2024-01-12", DateSource: domain.DateSourceDocument, Organization: "Acme"},
		ProcessingTimeMS:  42,
	}

	mock.ExpectExec("INSERT INTO outcomes").
		WithArgs(rec.FileID, rec.RunID, rec.Timestamp, "success", "logged",
			rec.OriginalFilename, rec.GeneratedFilename,
			`{"type":"Invoice","confidence":0.9}`,
			`{"date":"2024-01-12","date_source":"document","organization":"Acme"}`,
			rec.Error, rec.Preview, rec.ProcessingTimeMS).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := store.SaveOutcome(context.Background(), rec); err != nil {
		t.Fatalf("SaveOutcome() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestListRuns(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	store := NewWithDB(db)

	started := time.Date(2024, 1, 12, 10, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "root", "preview", "started_at", "finished_at", "total", "succeeded", "skipped", "failed"}).
		AddRow("run-2", "/docs", false, started.Add(time.Hour), started.Add(time.Hour+time.Minute), 5, 5, 0, 0).
		AddRow("run-1", "/docs", true, started, started.Add(time.Minute), 3, 2, 1, 0)

	mock.ExpectQuery("SELECT id, root, preview").
		WithArgs(10).
		WillReturnRows(rows)

	runs, err := store.ListRuns(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("runs = %d, want 2", len(runs))
	}
	if runs[0].ID != "run-2" || runs[1].ID != "run-1" {
		t.Fatalf("order = %s, %s", runs[0].ID, runs[1].ID)
	}
	if runs[1].Total != 3 || runs[1].Skipped != 1 {
		t.Fatalf("run-1 = %+v", runs[1])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
