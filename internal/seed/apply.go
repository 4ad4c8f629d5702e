package seed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrNotIdempotent is returned by Verify when re-running a script inserted
// rows a second time.
var ErrNotIdempotent = errors.New("second run inserted rows")

// Apply executes statements inside one transaction and returns the number of
// rows they inserted.
func Apply(ctx context.Context, db *sql.DB, stmts []string) (int64, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin seed: %w", err)
	}

	var inserted int64
	for i, stmt := range stmts {
		res, err := tx.ExecContext(ctx, stmt)
		if err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("statement %d: %w", i+1, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("statement %d rows affected: %w", i+1, err)
		}
		inserted += n
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit seed: %w", err)
	}
	return inserted, nil
}

// CountConcepts returns the number of rows in "SportConcepts".
func CountConcepts(ctx context.Context, db *sql.DB) (int, error) {
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM "SportConcepts"`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count concepts: %w", err)
	}
	return n, nil
}

// VerifyReport summarises running a script twice against the sandbox.
type VerifyReport struct {
	Concepts    int
	FirstPass   int64
	SecondPass  int64
	Skipped     int64
	TotalStored int
}

// Verify applies the SQLite form of the script twice. The first pass inserts
// every concept whose category exists; the second must insert nothing.
func Verify(ctx context.Context, db *sql.DB, s Script) (VerifyReport, error) {
	report := VerifyReport{Concepts: len(s.Concepts)}
	stmts := s.Statements(SQLite)

	before, err := CountConcepts(ctx, db)
	if err != nil {
		return report, err
	}

	if report.FirstPass, err = Apply(ctx, db, stmts); err != nil {
		return report, fmt.Errorf("first pass: %w", err)
	}
	if report.SecondPass, err = Apply(ctx, db, stmts); err != nil {
		return report, fmt.Errorf("second pass: %w", err)
	}

	if report.TotalStored, err = CountConcepts(ctx, db); err != nil {
		return report, err
	}
	if before == 0 {
		report.Skipped = int64(report.Concepts) - report.FirstPass
	}

	if report.SecondPass != 0 {
		return report, fmt.Errorf("%w: %d", ErrNotIdempotent, report.SecondPass)
	}
	return report, nil
}
