// Package memory implements the in-memory day counter repository backed by
// a synchronous persister.
package memory

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sync"

	"github.com/vshulcz/daytally/internal/domain"
	"github.com/vshulcz/daytally/internal/ports"
)

// Store holds the authoritative day -> counts map under one mutex. The lock
// spans the whole read-modify-persist sequence of Increment, so a caller
// that sees a successful return is guaranteed the new count reached disk.
type Store struct {
	days      map[string]domain.DayCounts
	persister ports.Persister
	mu        sync.Mutex
}

var _ ports.CounterRepo = (*Store)(nil)

// New returns an empty store. A nil persister keeps the store purely
// in-memory (used by tests).
func New(persister ports.Persister) *Store {
	return &Store{
		days:      make(map[string]domain.DayCounts),
		persister: persister,
	}
}

// Get returns the counts for the day, or the zero value when absent.
func (s *Store) Get(_ context.Context, day string) (domain.DayCounts, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.days[day], nil
}

// Increment bumps one side of the day's tally by one with saturation, saves
// the full map while still holding the lock, and returns the updated counts.
// On a persist failure the in-memory mutation is kept and the error is
// returned alongside the counts: memory and disk diverge until the next
// successful save.
func (s *Store) Increment(ctx context.Context, day string, dir domain.Direction) (domain.DayCounts, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := s.days[day]
	switch dir {
	case domain.Add:
		entry.Add = domain.SatAdd(entry.Add, 1)
	case domain.Sub:
		entry.Sub = domain.SatAdd(entry.Sub, 1)
	default:
		return domain.DayCounts{}, domain.ErrInvalidDirection
	}
	s.days[day] = entry

	if s.persister != nil {
		if err := s.persister.Save(ctx, s.snapshotLocked()); err != nil {
			return entry, fmt.Errorf("persist: %w", err)
		}
	}
	return entry, nil
}

// Load replaces the store contents with the provided days.
func (s *Store) Load(_ context.Context, days map[string]domain.DayCounts) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.days = make(map[string]domain.DayCounts, len(days))
	maps.Copy(s.days, days)
	return nil
}

// Snapshot copies the current map to keep internal state unexposed.
func (s *Store) Snapshot(_ context.Context) (domain.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked(), nil
}

// Ping reports that the in-memory store has no database behind it.
func (*Store) Ping(context.Context) error {
	return errors.New("db not configured")
}

func (s *Store) snapshotLocked() domain.Snapshot {
	days := make(map[string]domain.DayCounts, len(s.days))
	maps.Copy(days, s.days)
	return domain.Snapshot{Days: days}
}
