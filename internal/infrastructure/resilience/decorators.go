package resilience

import (
	"context"

	"github.com/LouaiSf/ai-file-renamer/internal/core/domain"
	"github.com/LouaiSf/ai-file-renamer/internal/core/ports"
)

// ResilientClassifier wraps a classifier with retry and breaker behavior.
// The orchestrator still downgrades terminal failures, so retries here only
// reduce how often the downgrade path triggers.
type ResilientClassifier struct {
	inner     ports.Classifier
	exec      *Executor
	retryable Retryable
}

func WrapClassifier(inner ports.Classifier, exec *Executor, retryable Retryable) *ResilientClassifier {
	return &ResilientClassifier{inner: inner, exec: exec, retryable: retryable}
}

func (c *ResilientClassifier) Classify(ctx context.Context, text string) (domain.Classification, error) {
	var cls domain.Classification
	err := c.exec.Do(ctx, "classify", c.retryable, func(ctx context.Context) error {
		var err error
		cls, err = c.inner.Classify(ctx, text)
		return err
	})
	return cls, err
}

// ResilientGenerator wraps a name generator the same way.
type ResilientGenerator struct {
	inner     ports.NameGenerator
	exec      *Executor
	retryable Retryable
}

func WrapGenerator(inner ports.NameGenerator, exec *Executor, retryable Retryable) *ResilientGenerator {
	return &ResilientGenerator{inner: inner, exec: exec, retryable: retryable}
}

func (g *ResilientGenerator) Generate(ctx context.Context, md domain.Metadata, cls domain.Classification, originalName string) (string, error) {
	var stem string
	err := g.exec.Do(ctx, "generate_name", g.retryable, func(ctx context.Context) error {
		var err error
		stem, err = g.inner.Generate(ctx, md, cls, originalName)
		return err
	})
	return stem, err
}
