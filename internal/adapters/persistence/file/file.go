// Package file persists the full counter map as a pretty-printed JSON file.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vshulcz/daytally/internal/domain"
	"github.com/vshulcz/daytally/internal/ports"
)

// Persister writes and restores counter snapshots at a fixed path. Every
// save rewrites the whole file through a temp-file rename, so readers never
// observe a partial write.
type Persister struct {
	path string
}

var _ ports.Persister = (*Persister)(nil)

// New returns a Persister bound to path.
func New(path string) *Persister {
	return &Persister{path: path}
}

// Save serializes the snapshot as a day-key -> {"add","sub"} object.
func (p *Persister) Save(_ context.Context, s domain.Snapshot) error {
	days := s.Days
	if days == nil {
		days = map[string]domain.DayCounts{}
	}
	return writeJSONAtomic(p.path, days)
}

// Restore loads the persisted snapshot into repo. A missing file is a fresh
// start and returns nil; an unreadable or unparsable file returns an error
// the caller is expected to log and then carry on with an empty store.
func (p *Persister) Restore(ctx context.Context, repo ports.CounterRepo) (retErr error) {
	f, err := os.Open(p.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("open: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && retErr == nil {
			retErr = fmt.Errorf("close: %w", cerr)
		}
	}()

	var days map[string]domain.DayCounts
	if err := json.NewDecoder(f).Decode(&days); err != nil {
		return fmt.Errorf("decode: %w", err)
	}

	return repo.Load(ctx, days)
}

func writeJSONAtomic(path string, days map[string]domain.DayCounts) (retErr error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("mkdir: %w", err)
		}
	}
	tmp, err := os.CreateTemp(dir, ".state-*")
	if err != nil {
		return fmt.Errorf("create tmp: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := true
	closed := false
	defer func() {
		if !closed {
			if cerr := tmp.Close(); cerr != nil && retErr == nil {
				retErr = fmt.Errorf("close tmp: %w", cerr)
			}
		}
		if cleanup {
			if err := os.Remove(tmpName); err != nil && retErr == nil {
				retErr = fmt.Errorf("remove tmp: %w", err)
			}
		}
	}()
	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(days); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close tmp: %w", err)
	}
	closed = true
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	cleanup = false
	return nil
}
