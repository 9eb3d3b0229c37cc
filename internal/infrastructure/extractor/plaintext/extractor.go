package plaintext

import (
	"context"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/LouaiSf/ai-file-renamer/internal/core/domain"
)

// Extractor reads .txt files. UTF-8 content passes through unchanged;
// anything else is decoded byte-for-byte as Latin-1 so no file is ever
// rejected for its encoding.
type Extractor struct{}

func New() *Extractor { return &Extractor{} }

func (e *Extractor) Extract(_ context.Context, file domain.FileEntry) (domain.ExtractionResult, error) {
	data, err := os.ReadFile(file.Path)
	if err != nil {
		return domain.ExtractionResult{}, fmt.Errorf("read %s: %w", file.Path, err)
	}
	return domain.ExtractionResult{Text: decode(data), Extractable: true}, nil
}

func decode(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	var b strings.Builder
	b.Grow(len(data))
	for _, c := range data {
		b.WriteRune(rune(c))
	}
	return b.String()
}
