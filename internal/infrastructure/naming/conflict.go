package naming

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const maxConflictAttempts = 9999

// ConflictResolver picks a collision-free target path inside a directory.
// It checks both the filesystem and the paths already claimed during the
// current run, so concurrent workers targeting the same stem each receive
// a distinct version suffix.
type ConflictResolver struct {
	mu      sync.Mutex
	claimed map[string]struct{}
	exists  func(path string) bool
}

func NewConflictResolver() *ConflictResolver {
	return &ConflictResolver{
		claimed: make(map[string]struct{}),
		exists: func(path string) bool {
			_, err := os.Lstat(path)
			return err == nil
		},
	}
}

// Resolve returns dir/stem.ext, or dir/stem_vN.ext for the lowest free N
// starting at 2. The returned path stays claimed for the rest of the run.
func (r *ConflictResolver) Resolve(dir, stem, ext string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	candidate := filepath.Join(dir, stem+ext)
	if r.free(candidate) {
		r.claimed[candidate] = struct{}{}
		return candidate, nil
	}
	for n := 2; n <= maxConflictAttempts; n++ {
		candidate = filepath.Join(dir, fmt.Sprintf("%s_v%d%s", stem, n, ext))
		if r.free(candidate) {
			r.claimed[candidate] = struct{}{}
			return candidate, nil
		}
	}
	return "", fmt.Errorf("resolve %q in %s: no free name after %d attempts", stem+ext, dir, maxConflictAttempts)
}

func (r *ConflictResolver) free(path string) bool {
	if _, taken := r.claimed[path]; taken {
		return false
	}
	return !r.exists(path)
}
