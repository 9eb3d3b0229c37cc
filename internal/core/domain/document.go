package domain

import "time"

// FileStatus is the terminal outcome of one file's pipeline run.
type FileStatus string

const (
	StatusSuccess FileStatus = "success"
	StatusSkipped FileStatus = "skipped"
	StatusFailed  FileStatus = "failed"
)

// Stage names the pipeline state a file has reached. A failed outcome
// records the stage at which processing stopped.
type Stage string

const (
	StageScanned          Stage = "scanned"
	StageExtracted        Stage = "extracted"
	StageCleaned          Stage = "cleaned"
	StageMetadataDone     Stage = "metadata_done"
	StageClassified       Stage = "classified"
	StageNameGenerated    Stage = "name_generated"
	StageSanitized        Stage = "sanitized"
	StageConflictResolved Stage = "conflict_resolved"
	StageRenamed          Stage = "renamed"
	StageLogged           Stage = "logged"
)

// FileEntry is a candidate file produced by the scanner. Immutable for the
// duration of one pipeline run.
type FileEntry struct {
	Path    string
	Name    string // base name including extension
	Ext     string // lowercased, with leading dot
	ModTime time.Time
	Size    int64
}

// ExtractionResult carries the raw text pulled out of a file.
// Extractable == false implies Text is empty: a scanned PDF yields
// "not extractable", never garbage text.
type ExtractionResult struct {
	Text        string
	Extractable bool
}

// DateSource records where a document date came from.
type DateSource string

const (
	DateSourceDocument  DateSource = "document"
	DateSourceFileMtime DateSource = "file_mtime"
)

// Metadata is derived from cleaned text. Date is always set: when no date
// parses from the text the file's modification time is used and DateSource
// is DateSourceFileMtime. Everything else is best-effort.
type Metadata struct {
	Date         string     `json:"date"` // YYYY-MM-DD
	DateSource   DateSource `json:"date_source"`
	Organization string     `json:"organization,omitempty"`
	Person       string     `json:"person,omitempty"`
	Keywords     []string   `json:"keywords,omitempty"` // at most 3
}

// PrimaryEntity picks the most specific entity available for naming:
// organization, then person, then the first keyword.
func (m Metadata) PrimaryEntity() string {
	if m.Organization != "" {
		return m.Organization
	}
	if m.Person != "" {
		return m.Person
	}
	if len(m.Keywords) > 0 {
		return m.Keywords[0]
	}
	return ""
}

// DocTypeUnknown is the label used whenever no classification rule matches.
const DocTypeUnknown = "Unknown"

// Classification is the document-type decision for one file.
type Classification struct {
	DocumentType string  `json:"type"`
	Confidence   float64 `json:"confidence"` // in [0.0, 1.0]
}

// Unclassified is the downgrade result used when a classifier fails,
// times out, or matches nothing.
func Unclassified() Classification {
	return Classification{DocumentType: DocTypeUnknown, Confidence: 0.1}
}

// OutcomeRecord is produced exactly once per started file and handed to
// the journal; it is never mutated afterwards.
type OutcomeRecord struct {
	RunID             string         `json:"run_id"`
	FileID            string         `json:"file_id"`
	Timestamp         time.Time      `json:"timestamp"`
	Status            FileStatus     `json:"status"`
	Stage             Stage          `json:"stage"`
	OriginalFilename  string         `json:"original_filename"`
	GeneratedFilename string         `json:"generated_filename,omitempty"`
	Classification    Classification `json:"classification"`
	Metadata          Metadata       `json:"metadata"`
	Error             string         `json:"error,omitempty"`
	Preview           bool           `json:"preview,omitempty"`
	ProcessingTimeMS  int64          `json:"processing_time_ms"`
}

// RunSummary aggregates one batch run.
type RunSummary struct {
	ID         string    `json:"id"`
	Root       string    `json:"root"`
	Preview    bool      `json:"preview"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Total      int       `json:"total"`
	Succeeded  int       `json:"succeeded"`
	Skipped    int       `json:"skipped"`
	Failed     int       `json:"failed"`
}
