package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// ErrNoDatabaseURL is returned when a Postgres operation has no DSN to use.
var ErrNoDatabaseURL = errors.New("no postgres database url configured")

// ExecPostgres runs script against the Postgres database at dsn. The script
// is sent as-is in one round trip, so a DO block executes atomically.
func ExecPostgres(ctx context.Context, dsn, script string) error {
	if dsn == "" {
		return ErrNoDatabaseURL
	}

	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer func() { _ = conn.Close(ctx) }()

	if _, err := conn.Exec(ctx, script); err != nil {
		return fmt.Errorf("exec seed script: %w", err)
	}
	return nil
}
