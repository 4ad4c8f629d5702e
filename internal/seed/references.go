package seed

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sportplanner/seedkit/internal/concepts"
)

// References inserts the sport and the two-level category tree the seed script
// looks up. Existing rows are left untouched, so it is safe to call on a
// populated sandbox.
func References(ctx context.Context, db *sql.DB, sport string, pairs []concepts.CategoryPair) error {
	if sport != "" {
		if _, err := db.ExecContext(ctx,
			`INSERT INTO "Sports" ("Name")
			 SELECT ? WHERE NOT EXISTS (SELECT 1 FROM "Sports" WHERE "Name" = ?)`,
			sport, sport,
		); err != nil {
			return fmt.Errorf("insert sport %s: %w", sport, err)
		}
	}

	for _, p := range pairs {
		if err := ensureCategory(ctx, db, p.Parent, sql.NullInt64{}); err != nil {
			return err
		}

		var parentID int64
		if err := db.QueryRowContext(ctx,
			`SELECT "Id" FROM "ConceptCategories" WHERE "Name" = ? AND "ParentId" IS NULL LIMIT 1`,
			p.Parent,
		).Scan(&parentID); err != nil {
			return fmt.Errorf("resolve category %s: %w", p.Parent, err)
		}

		if err := ensureCategory(ctx, db, p.Child, sql.NullInt64{Int64: parentID, Valid: true}); err != nil {
			return err
		}
	}

	return nil
}

func ensureCategory(ctx context.Context, db *sql.DB, name string, parent sql.NullInt64) error {
	if _, err := db.ExecContext(ctx,
		`INSERT INTO "ConceptCategories" ("Name", "ParentId")
		 SELECT ?, ? WHERE NOT EXISTS (
		   SELECT 1 FROM "ConceptCategories" WHERE "Name" = ? AND "ParentId" IS ?
		 )`,
		name, parent, name, parent,
	); err != nil {
		return fmt.Errorf("insert category %s: %w", name, err)
	}
	return nil
}
