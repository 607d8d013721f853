package ports

import (
	"context"

	"github.com/vshulcz/daytally/internal/domain"
)

// CounterRepo is the authoritative store of per-day tallies.
type CounterRepo interface {
	// Get returns the counts recorded for the day, or the zero value when
	// the day has never been touched. It never fails on a missing key.
	Get(ctx context.Context, day string) (domain.DayCounts, error)
	// Increment bumps one side of the day's tally by one (saturating) and
	// makes the mutation durable before returning the updated counts. A
	// non-nil error with non-zero counts means the in-memory state advanced
	// but durability failed.
	Increment(ctx context.Context, day string, dir domain.Direction) (domain.DayCounts, error)
	// Load replaces the repository contents with the provided days.
	Load(ctx context.Context, days map[string]domain.DayCounts) error

	Snapshot(ctx context.Context) (domain.Snapshot, error)
	Ping(ctx context.Context) error
}

// Persister moves full snapshots between the repository and durable storage.
type Persister interface {
	Save(ctx context.Context, s domain.Snapshot) error
	Restore(ctx context.Context, repo CounterRepo) error
}
