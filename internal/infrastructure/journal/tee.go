package journal

import (
	"errors"

	"github.com/LouaiSf/ai-file-renamer/internal/core/domain"
	"github.com/LouaiSf/ai-file-renamer/internal/core/ports"
)

// Tee fans each outcome out to every sink. Errors are collected rather
// than short-circuiting, so one failing sink does not starve the others.
type Tee struct {
	sinks []ports.OutcomeSink
}

func NewTee(sinks ...ports.OutcomeSink) *Tee {
	return &Tee{sinks: sinks}
}

func (t *Tee) Write(rec domain.OutcomeRecord) error {
	var errs []error
	for _, s := range t.sinks {
		if err := s.Write(rec); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (t *Tee) Close() error {
	var errs []error
	for _, s := range t.sinks {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
