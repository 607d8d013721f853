// Package postgres implements a Postgres-backed day counter repository.
package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/lib/pq"
	"github.com/vshulcz/daytally/internal/domain"
	"github.com/vshulcz/daytally/internal/misc"
	"github.com/vshulcz/daytally/internal/ports"
)

// maxUint64Literal is the saturation ceiling for the NUMERIC(20,0) counter
// columns, matching uint64 arithmetic in the memory store.
const maxUint64Literal = "18446744073709551615"

// Repo stores day tallies in Postgres. Durability is transactional, so
// unlike the memory store there is no separate persister.
type Repo struct {
	db *sql.DB
}

var _ ports.CounterRepo = (*Repo)(nil)

// New returns a Postgres-backed repository.
func New(db *sql.DB) *Repo {
	return &Repo{db: db}
}

// Get reads the counts for one day. A missing row is the zero value.
func (r *Repo) Get(ctx context.Context, day string) (domain.DayCounts, error) {
	const q = `SELECT add_count, sub_count FROM day_counts WHERE day=$1`
	var counts domain.DayCounts
	op := func() error {
		var addRaw, subRaw string
		err := r.db.QueryRowContext(ctx, q, day).Scan(&addRaw, &subRaw)
		if errors.Is(err, sql.ErrNoRows) {
			counts = domain.DayCounts{}
			return nil
		}
		if err != nil {
			return err
		}
		counts, err = parseCounts(addRaw, subRaw)
		return err
	}
	if err := misc.Retry(ctx, misc.DefaultBackoff, isRetryablePG, op); err != nil {
		return domain.DayCounts{}, err
	}
	return counts, nil
}

// Increment bumps one side of the day's tally by one, saturating at the
// uint64 maximum, and returns the post-increment counts. The upsert with
// RETURNING makes the read-modify-write a single atomic statement.
func (r *Repo) Increment(ctx context.Context, day string, dir domain.Direction) (domain.DayCounts, error) {
	var q string
	switch dir {
	case domain.Add:
		q = `
INSERT INTO day_counts (day, add_count, sub_count, updated_at)
VALUES ($1, 1, 0, now())
ON CONFLICT (day)
DO UPDATE SET add_count=LEAST(day_counts.add_count + 1, ` + maxUint64Literal + `), updated_at=now()
RETURNING add_count, sub_count;`
	case domain.Sub:
		q = `
INSERT INTO day_counts (day, add_count, sub_count, updated_at)
VALUES ($1, 0, 1, now())
ON CONFLICT (day)
DO UPDATE SET sub_count=LEAST(day_counts.sub_count + 1, ` + maxUint64Literal + `), updated_at=now()
RETURNING add_count, sub_count;`
	default:
		return domain.DayCounts{}, domain.ErrInvalidDirection
	}

	var counts domain.DayCounts
	op := func() error {
		var addRaw, subRaw string
		if err := r.db.QueryRowContext(ctx, q, day).Scan(&addRaw, &subRaw); err != nil {
			return err
		}
		var err error
		counts, err = parseCounts(addRaw, subRaw)
		return err
	}
	if err := misc.Retry(ctx, misc.DefaultBackoff, isRetryablePG, op); err != nil {
		return domain.DayCounts{}, err
	}
	return counts, nil
}

// Load replaces the table contents with the provided days in one
// transaction.
func (r *Repo) Load(ctx context.Context, days map[string]domain.DayCounts) error {
	const qInsert = `
INSERT INTO day_counts (day, add_count, sub_count, updated_at)
VALUES ($1, $2, $3, now());`

	attempt := func() error {
		tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
		if err != nil {
			return err
		}
		defer func() {
			_ = tx.Rollback()
		}()

		if _, err := tx.ExecContext(ctx, `DELETE FROM day_counts`); err != nil {
			return err
		}
		for day, c := range days {
			add := strconv.FormatUint(c.Add, 10)
			sub := strconv.FormatUint(c.Sub, 10)
			if _, err := tx.ExecContext(ctx, qInsert, day, add, sub); err != nil {
				return err
			}
		}
		return tx.Commit()
	}
	return misc.Retry(ctx, misc.DefaultBackoff, isRetryablePG, attempt)
}

// Snapshot loads every stored day.
func (r *Repo) Snapshot(ctx context.Context) (domain.Snapshot, error) {
	const q = `SELECT day, add_count, sub_count FROM day_counts`
	result := map[string]domain.DayCounts{}

	op := func() error {
		rows, err := r.db.QueryContext(ctx, q)
		if err != nil {
			return err
		}
		defer func() {
			_ = rows.Close()
		}()

		days := map[string]domain.DayCounts{}
		for rows.Next() {
			var day, addRaw, subRaw string
			if err := rows.Scan(&day, &addRaw, &subRaw); err != nil {
				return err
			}
			counts, err := parseCounts(addRaw, subRaw)
			if err != nil {
				return err
			}
			days[day] = counts
		}
		if err := rows.Err(); err != nil {
			return err
		}
		result = days
		return nil
	}
	if err := misc.Retry(ctx, misc.DefaultBackoff, isRetryablePG, op); err != nil {
		return domain.Snapshot{Days: result}, err
	}
	return domain.Snapshot{Days: result}, nil
}

// Ping verifies the database connection using a short-lived context.
func (r *Repo) Ping(ctx context.Context) error {
	if r.db == nil {
		return errors.New("db not configured")
	}
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	op := func() error {
		return r.db.PingContext(ctx)
	}
	return misc.Retry(ctx, misc.DefaultBackoff, isRetryablePG, op)
}

// parseCounts converts the NUMERIC(20,0) text representation into uint64
// counters.
func parseCounts(addRaw, subRaw string) (domain.DayCounts, error) {
	add, err := strconv.ParseUint(addRaw, 10, 64)
	if err != nil {
		return domain.DayCounts{}, fmt.Errorf("parse add_count %q: %w", addRaw, err)
	}
	sub, err := strconv.ParseUint(subRaw, 10, 64)
	if err != nil {
		return domain.DayCounts{}, fmt.Errorf("parse sub_count %q: %w", subRaw, err)
	}
	return domain.DayCounts{Add: add, Sub: sub}, nil
}

// IsRetryable reports whether the error should trigger a retry according to
// Postgres semantics.
func IsRetryable(err error) bool {
	return isRetryablePG(err)
}

var retryablePGCodes = map[string]struct{}{
	pgerrcode.SerializationFailure: {},
	pgerrcode.DeadlockDetected:     {},
	pgerrcode.LockNotAvailable:     {},
	pgerrcode.TooManyConnections:   {},
	pgerrcode.AdminShutdown:        {},
	pgerrcode.CrashShutdown:        {},
	pgerrcode.CannotConnectNow:     {},
	pgerrcode.QueryCanceled:        {},
}

func isRetryablePG(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var pqe *pq.Error
	if errors.As(err, &pqe) {
		code := string(pqe.Code)
		if _, ok := retryablePGCodes[code]; ok {
			return true
		}
		// Connection (08) and transaction rollback (40) classes.
		return strings.HasPrefix(code, "08") || strings.HasPrefix(code, "40")
	}
	return false
}
