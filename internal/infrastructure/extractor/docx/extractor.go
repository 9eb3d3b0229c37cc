package docx

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/LouaiSf/ai-file-renamer/internal/core/domain"
)

const documentPart = "word/document.xml"

// Extractor reads .docx files. A docx is a zip archive whose main part is
// WordprocessingML; text lives in w:t elements and paragraphs map to lines.
type Extractor struct{}

func New() *Extractor { return &Extractor{} }

func (e *Extractor) Extract(_ context.Context, file domain.FileEntry) (domain.ExtractionResult, error) {
	archive, err := zip.OpenReader(file.Path)
	if err != nil {
		return domain.ExtractionResult{}, fmt.Errorf("open %s: %w", file.Path, err)
	}
	defer archive.Close()

	part, err := findPart(&archive.Reader, documentPart)
	if err != nil {
		return domain.ExtractionResult{}, fmt.Errorf("open %s: %w", file.Path, err)
	}
	rc, err := part.Open()
	if err != nil {
		return domain.ExtractionResult{}, fmt.Errorf("open %s: %w", file.Path, err)
	}
	defer rc.Close()

	text, err := collectText(rc)
	if err != nil {
		return domain.ExtractionResult{}, fmt.Errorf("parse %s: %w", file.Path, err)
	}
	if text == "" {
		return domain.ExtractionResult{Extractable: false}, nil
	}
	return domain.ExtractionResult{Text: text, Extractable: true}, nil
}

func findPart(r *zip.Reader, name string) (*zip.File, error) {
	for _, f := range r.File {
		if f.Name == name {
			return f, nil
		}
	}
	return nil, fmt.Errorf("missing %s part", name)
}

// collectText streams the document part, gathering character data inside
// w:t elements and emitting a newline at each paragraph end.
func collectText(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	var b strings.Builder
	inText := false

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				b.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}
	return strings.TrimSpace(b.String()), nil
}
