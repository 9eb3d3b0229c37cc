package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrExtraction: file unreadable, corrupted, or a PDF with no text layer.
	ErrExtraction = errors.New("extraction failed")
	// ErrEmptyText: extraction succeeded but produced no usable text.
	// Not fatal; the pipeline proceeds with empty-string handling.
	ErrEmptyText = errors.New("empty text")
	// ErrClassification: a pluggable classifier returned an error, panicked,
	// or timed out.
	ErrClassification = errors.New("classification failed")
	// ErrNaming: the generator failed or conflict resolution exceeded its cap.
	ErrNaming = errors.New("naming failed")
	// ErrRename: the rename syscall failed or the target became occupied
	// between resolution and rename.
	ErrRename = errors.New("rename failed")
	// ErrCritical: the batch precondition is violated (target folder missing,
	// not a directory, or not writable). Aborts the whole run.
	ErrCritical = errors.New("critical failure")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}
