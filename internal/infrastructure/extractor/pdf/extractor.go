package pdf

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/LouaiSf/ai-file-renamer/internal/core/domain"
)

// minTextLength is the threshold below which a PDF counts as carrying no
// extractable text (scanned images, empty pages).
const minTextLength = 10

// Extractor pulls plain text out of .pdf files page by page. Scanned PDFs
// without a text layer come back with Extractable set to false rather than
// as an error, so the pipeline can skip them cleanly.
type Extractor struct{}

func New() *Extractor { return &Extractor{} }

func (e *Extractor) Extract(_ context.Context, file domain.FileEntry) (result domain.ExtractionResult, err error) {
	// the pdf package panics on some malformed inputs
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parse %s: %v", file.Path, r)
		}
	}()

	data, err := os.ReadFile(file.Path)
	if err != nil {
		return domain.ExtractionResult{}, fmt.Errorf("read %s: %w", file.Path, err)
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return domain.ExtractionResult{}, fmt.Errorf("parse %s: %w", file.Path, err)
	}

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(text)
		b.WriteByte('\n')
	}

	text := strings.TrimSpace(b.String())
	if len(text) < minTextLength {
		return domain.ExtractionResult{Extractable: false}, nil
	}
	return domain.ExtractionResult{Text: text, Extractable: true}, nil
}
