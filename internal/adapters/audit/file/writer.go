// Package file appends click audit events to a newline-delimited JSON file.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/vshulcz/daytally/internal/services/audit"
)

// Writer serializes events one per line. Appends are mutex-serialized so
// concurrent requests never interleave lines.
type Writer struct {
	path string
	mu   sync.Mutex
}

// New creates a Writer bound to path. An empty path disables the writer.
func New(path string) *Writer {
	return &Writer{path: path}
}

// Notify marshals the event and appends it to the audit file.
func (w *Writer) Notify(_ context.Context, evt audit.Event) (retErr error) {
	if w == nil || w.path == "" {
		return nil
	}

	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("open audit file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && retErr == nil {
			retErr = fmt.Errorf("close audit file: %w", cerr)
		}
	}()

	if _, err := f.Write(append(payload, '\n')); err != nil {
		return fmt.Errorf("write audit file: %w", err)
	}
	return nil
}
