// Package tally is the application service between the HTTP layer and the
// counter repository.
package tally

import (
	"context"
	"strings"
	"time"

	"github.com/vshulcz/daytally/internal/domain"
	"github.com/vshulcz/daytally/internal/ports"
	"github.com/vshulcz/daytally/internal/services/audit"
	"github.com/vshulcz/daytally/internal/services/stats"
)

// Service validates actions, resolves "today", and fans successful clicks
// out to audit observers.
type Service struct {
	repo   ports.CounterRepo
	events audit.Publisher
	now    func() time.Time
}

// New builds a Service. events may be nil when auditing is disabled; now
// may be nil and defaults to time.Now (tests inject fixed clocks).
func New(repo ports.CounterRepo, events audit.Publisher, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{repo: repo, events: events, now: now}
}

// Ping proxies the repository health check.
func (s *Service) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

// Today returns the current day's tally in wire shape.
func (s *Service) Today(ctx context.Context) (domain.DailyCounts, error) {
	date := stats.DayKey(s.now())
	counts, err := s.repo.Get(ctx, date)
	if err != nil {
		return domain.DailyCounts{}, err
	}
	return toDaily(date, counts), nil
}

// Click applies one increment to today's tally. The action must be "add" or
// "sub"; anything else fails with domain.ErrInvalidDirection before any
// state is touched. The repository persists before returning, so a non-error
// response here means the click survived.
func (s *Service) Click(ctx context.Context, action string) (domain.DailyCounts, error) {
	dir, err := domain.ParseDirection(strings.TrimSpace(action))
	if err != nil {
		return domain.DailyCounts{}, err
	}

	date := stats.DayKey(s.now())
	counts, err := s.repo.Increment(ctx, date, dir)
	if err != nil {
		return domain.DailyCounts{}, err
	}

	if s.events != nil {
		s.events.Publish(ctx, audit.Event{
			Timestamp: s.now().Unix(),
			Date:      date,
			Action:    string(dir),
			IPAddress: audit.ClientIPFromContext(ctx),
		})
	}
	return toDaily(date, counts), nil
}

// Stats snapshots the repository and projects it onto today's date.
func (s *Service) Stats(ctx context.Context) (stats.Report, error) {
	snap, err := s.repo.Snapshot(ctx)
	if err != nil {
		return stats.Report{}, err
	}
	return stats.Build(snap, s.now()), nil
}

// Snapshot exposes the raw day map for diagnostic surfaces.
func (s *Service) Snapshot(ctx context.Context) (domain.Snapshot, error) {
	return s.repo.Snapshot(ctx)
}

func toDaily(date string, c domain.DayCounts) domain.DailyCounts {
	return domain.DailyCounts{
		Date:     date,
		AddCount: c.Add,
		SubCount: c.Sub,
		Net:      c.Net(),
	}
}
