package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/lib/pq"
	"github.com/vshulcz/daytally/internal/domain"
	"github.com/vshulcz/daytally/internal/misc"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *Repo, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	done := func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
		_ = db.Close()
	}
	return db, mock, New(db), done
}

func init() {
	misc.DefaultBackoff = []time.Duration{time.Millisecond, time.Millisecond}
}

func TestRepo_Get(t *testing.T) {
	_, mock, st, done := newMock(t)
	defer done()

	const pat = `SELECT add_count, sub_count FROM day_counts WHERE day=\$1`
	cases := []struct {
		name    string
		day     string
		setup   func()
		want    domain.DayCounts
		wantErr bool
	}{
		{
			"existing day",
			"2026-01-03",
			func() {
				mock.ExpectQuery(pat).WithArgs("2026-01-03").
					WillReturnRows(sqlmock.NewRows([]string{"add_count", "sub_count"}).AddRow("3", "1"))
			},
			domain.DayCounts{Add: 3, Sub: 1}, false,
		},
		{
			"missing day is zero",
			"1999-12-31",
			func() {
				mock.ExpectQuery(pat).WithArgs("1999-12-31").
					WillReturnRows(sqlmock.NewRows([]string{"add_count", "sub_count"}))
			},
			domain.DayCounts{}, false,
		},
		{
			"value above int64 range",
			"2026-01-04",
			func() {
				mock.ExpectQuery(pat).WithArgs("2026-01-04").
					WillReturnRows(sqlmock.NewRows([]string{"add_count", "sub_count"}).
						AddRow("18446744073709551615", "0"))
			},
			domain.DayCounts{Add: 18446744073709551615, Sub: 0}, false,
		},
		{
			"db error",
			"2026-01-05",
			func() {
				mock.ExpectQuery(pat).WithArgs("2026-01-05").
					WillReturnError(errors.New("boom"))
			},
			domain.DayCounts{}, true,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.setup()
			got, err := st.Get(context.TODO(), tc.day)
			if (err != nil) != tc.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tc.wantErr)
			}
			if got != tc.want {
				t.Errorf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestRepo_Increment(t *testing.T) {
	_, mock, st, done := newMock(t)
	defer done()

	const patAdd = `INSERT INTO day_counts .*add_count=LEAST\(day_counts\.add_count \+ 1.*RETURNING add_count, sub_count`
	const patSub = `INSERT INTO day_counts .*sub_count=LEAST\(day_counts\.sub_count \+ 1.*RETURNING add_count, sub_count`

	t.Run("add", func(t *testing.T) {
		mock.ExpectQuery(patAdd).WithArgs("2026-01-05").
			WillReturnRows(sqlmock.NewRows([]string{"add_count", "sub_count"}).AddRow("1", "0"))
		got, err := st.Increment(context.TODO(), "2026-01-05", domain.Add)
		if err != nil {
			t.Fatalf("increment add: %v", err)
		}
		if got != (domain.DayCounts{Add: 1}) {
			t.Errorf("got %+v, want {Add:1}", got)
		}
	})

	t.Run("sub", func(t *testing.T) {
		mock.ExpectQuery(patSub).WithArgs("2026-01-05").
			WillReturnRows(sqlmock.NewRows([]string{"add_count", "sub_count"}).AddRow("1", "1"))
		got, err := st.Increment(context.TODO(), "2026-01-05", domain.Sub)
		if err != nil {
			t.Fatalf("increment sub: %v", err)
		}
		if got != (domain.DayCounts{Add: 1, Sub: 1}) {
			t.Errorf("got %+v, want {Add:1, Sub:1}", got)
		}
	})

	t.Run("invalid direction", func(t *testing.T) {
		if _, err := st.Increment(context.TODO(), "2026-01-05", "reset"); !errors.Is(err, domain.ErrInvalidDirection) {
			t.Fatalf("err = %v, want ErrInvalidDirection", err)
		}
	})
}

func TestRepo_Increment_Retry(t *testing.T) {
	_, mock, st, done := newMock(t)
	defer done()

	const pat = `INSERT INTO day_counts .*RETURNING add_count, sub_count`
	mock.ExpectQuery(pat).WithArgs("2026-01-05").
		WillReturnError(&pq.Error{Code: pgerrcode.SerializationFailure})
	mock.ExpectQuery(pat).WithArgs("2026-01-05").
		WillReturnRows(sqlmock.NewRows([]string{"add_count", "sub_count"}).AddRow("2", "0"))

	got, err := st.Increment(context.TODO(), "2026-01-05", domain.Add)
	if err != nil {
		t.Fatalf("increment after retry: %v", err)
	}
	if got.Add != 2 {
		t.Errorf("add = %d, want 2", got.Add)
	}
}

func TestRepo_Load(t *testing.T) {
	_, mock, st, done := newMock(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM day_counts`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO day_counts`).
		WithArgs("2026-01-03", "3", "1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := st.Load(context.TODO(), map[string]domain.DayCounts{
		"2026-01-03": {Add: 3, Sub: 1},
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
}

func TestRepo_Snapshot(t *testing.T) {
	_, mock, st, done := newMock(t)
	defer done()

	mock.ExpectQuery(`SELECT day, add_count, sub_count FROM day_counts`).
		WillReturnRows(sqlmock.NewRows([]string{"day", "add_count", "sub_count"}).
			AddRow("2026-01-03", "3", "1").
			AddRow("2026-01-05", "0", "7"))

	snap, err := st.Snapshot(context.TODO())
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(snap.Days) != 2 {
		t.Fatalf("days = %d, want 2", len(snap.Days))
	}
	if snap.Days["2026-01-03"] != (domain.DayCounts{Add: 3, Sub: 1}) {
		t.Errorf("2026-01-03 = %+v", snap.Days["2026-01-03"])
	}
}

func TestRepo_Ping(t *testing.T) {
	t.Run("nil db", func(t *testing.T) {
		r := New(nil)
		if err := r.Ping(context.TODO()); err == nil {
			t.Error("expected error for nil db")
		}
	})

	t.Run("ok", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		if err != nil {
			t.Fatalf("sqlmock.New: %v", err)
		}
		defer db.Close()
		mock.ExpectPing()
		if err := New(db).Ping(context.TODO()); err != nil {
			t.Errorf("ping: %v", err)
		}
	})
}

func Test_isRetryablePG(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"bad conn", driver.ErrBadConn, true},
		{"net op error", &net.OpError{Op: "dial", Err: errors.New("refused")}, true},
		{"serialization failure", &pq.Error{Code: pgerrcode.SerializationFailure}, true},
		{"connection class prefix", &pq.Error{Code: "08S01"}, true},
		{"unique violation", &pq.Error{Code: pgerrcode.UniqueViolation}, false},
		{"plain error", errors.New("boom"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := isRetryablePG(tc.err); got != tc.want {
				t.Errorf("isRetryablePG(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}

func TestRepo_Get_NoRetryOnPlainError(t *testing.T) {
	_, mock, st, done := newMock(t)
	defer done()

	mock.ExpectQuery(`SELECT add_count, sub_count FROM day_counts`).
		WithArgs("2026-01-05").
		WillReturnError(errors.New("boom"))

	// A non-retryable error must fail after a single attempt; a second
	// attempt would trip the unmet-expectations check in done().
	if _, err := st.Get(context.TODO(), "2026-01-05"); err == nil {
		t.Fatal("expected error")
	}
}
