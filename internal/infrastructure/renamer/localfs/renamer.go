package localfs

import (
	"errors"
	"fmt"
	"os"
)

// Renamer performs the final rename on the local filesystem. The target is
// claimed with an exclusive create before the rename, so a name that became
// occupied between conflict resolution and this call is reported instead of
// silently overwritten.
type Renamer struct{}

func New() *Renamer { return &Renamer{} }

func (r *Renamer) Rename(oldPath, newPath string) error {
	claim, err := os.OpenFile(newPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("rename %s: target %s already occupied", oldPath, newPath)
		}
		return fmt.Errorf("rename %s: claim target: %w", oldPath, err)
	}
	claim.Close()

	if err := os.Rename(oldPath, newPath); err != nil {
		os.Remove(newPath)
		return fmt.Errorf("rename %s -> %s: %w", oldPath, newPath, err)
	}
	return nil
}
