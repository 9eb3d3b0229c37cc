package metadata

import (
	"testing"
	"time"

	"github.com/LouaiSf/ai-file-renamer/internal/core/domain"
)

var mtime = time.Date(2023, time.June, 5, 14, 30, 0, 0, time.UTC)

func TestExtractDateFormats(t *testing.T) {
	e := New()

	cases := []struct {
		name string
		text string
		want string
	}{
		{"slash day first", "Date: 12/01/2024", "2024-01-12"},
		{"slash month fallback", "Date: 01/25/2024", "2024-01-25"},
		{"iso", "Issued 2024-03-07 by the registry", "2024-03-07"},
		{"month day year", "Signed on January 12, 2024.", "2024-01-12"},
		{"day month year", "Received 3 February 2021", "2021-02-03"},
		{"month year only", "Statement for March 2022", "2022-03-01"},
		{"dash day first", "Due 15-04-2024", "2024-04-15"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			md := e.Extract(tc.text, mtime)
			if md.Date != tc.want {
				t.Fatalf("date = %q, want %q", md.Date, tc.want)
			}
			if md.DateSource != domain.DateSourceDocument {
				t.Fatalf("date source = %q, want document", md.DateSource)
			}
		})
	}
}

func TestExtractEarliestDateWins(t *testing.T) {
	e := New()

	text := "Delivered 2024-05-20. Ordered 2024-01-03. Refunded 2024-09-01."
	md := e.Extract(text, mtime)
	if md.Date != "2024-05-20" {
		t.Fatalf("date = %q, want earliest occurrence 2024-05-20", md.Date)
	}
}

func TestExtractDateFallsBackToModTime(t *testing.T) {
	e := New()

	md := e.Extract("no dates anywhere in this document", mtime)
	if md.Date != "2023-06-05" {
		t.Fatalf("date = %q, want 2023-06-05", md.Date)
	}
	if md.DateSource != domain.DateSourceFileMtime {
		t.Fatalf("date source = %q, want file_mtime", md.DateSource)
	}
}

func TestExtractRejectsImpossibleDates(t *testing.T) {
	e := New()

	md := e.Extract("see 2024-02-30 and 99/99/2024", mtime)
	if md.DateSource != domain.DateSourceFileMtime {
		t.Fatalf("impossible dates should be skipped, got %q from %q", md.Date, md.DateSource)
	}
}

func TestExtractEntities(t *testing.T) {
	e := New()

	md := e.Extract("Invoice issued by Acme Widgets Inc for services.\nClient: John Smith", mtime)
	if md.Organization != "Acme Widgets" {
		t.Fatalf("organization = %q, want %q", md.Organization, "Acme Widgets")
	}
	if md.Person != "John Smith" {
		t.Fatalf("person = %q, want %q", md.Person, "John Smith")
	}
}

func TestExtractEntitiesAbsent(t *testing.T) {
	e := New()

	md := e.Extract("nothing but lowercase text here", mtime)
	if md.Organization != "" || md.Person != "" {
		t.Fatalf("expected no entities, got org=%q person=%q", md.Organization, md.Person)
	}
	if md.Date == "" {
		t.Fatalf("date must always be set")
	}
}

func TestExtractKeywords(t *testing.T) {
	e := New()

	text := "payment payment payment schedule schedule balance invoice"
	md := e.Extract(text, mtime)
	if len(md.Keywords) != 3 {
		t.Fatalf("keywords = %v, want 3 entries", md.Keywords)
	}
	if md.Keywords[0] != "payment" || md.Keywords[1] != "schedule" {
		t.Fatalf("keywords = %v, want frequency order payment, schedule first", md.Keywords)
	}
}

func TestExtractEmptyTextStillYieldsDate(t *testing.T) {
	e := New()

	md := e.Extract("", mtime)
	if md.Date != "2023-06-05" || md.DateSource != domain.DateSourceFileMtime {
		t.Fatalf("empty text: date = %q source = %q", md.Date, md.DateSource)
	}
	if len(md.Keywords) != 0 {
		t.Fatalf("empty text: keywords = %v", md.Keywords)
	}
}
