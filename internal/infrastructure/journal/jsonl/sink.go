package jsonl

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/LouaiSf/ai-file-renamer/internal/core/domain"
)

// entry is one journal line: the outcome record tagged with a severity
// level derived from the status.
type entry struct {
	Level string `json:"level"`
	domain.OutcomeRecord
}

func levelFor(status domain.FileStatus) string {
	switch status {
	case domain.StatusFailed:
		return "ERROR"
	case domain.StatusSkipped:
		return "WARNING"
	default:
		return "INFO"
	}
}

// Sink appends one JSON object per outcome to a journal file. Safe for
// concurrent writers.
type Sink struct {
	mu  sync.Mutex
	f   *os.File
	enc *json.Encoder
}

func Open(path string) (*Sink, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("open journal %s: %w", path, err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open journal %s: %w", path, err)
	}
	return &Sink{f: f, enc: json.NewEncoder(f)}, nil
}

func (s *Sink) Write(rec domain.OutcomeRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enc.Encode(entry{Level: levelFor(rec.Status), OutcomeRecord: rec}); err != nil {
		return fmt.Errorf("write journal: %w", err)
	}
	return nil
}

func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.f.Close()
}
