package database_test

import (
	"context"
	"testing"

	"github.com/sportplanner/seedkit/internal/database"
	"github.com/sportplanner/seedkit/internal/testhelpers"
)

func TestMigrationsCreateReferenceTables(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	ctx := context.Background()

	if err := database.Migrate(ctx, db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	tables := []string{
		"schema_migrations",
		"Sports",
		"ConceptCategories",
		"SportConcepts",
	}

	for _, table := range tables {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("table %q not found: %v", table, err)
		}
	}
}

func TestMigrationsRecordVersions(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := database.Migrate(ctx, db); err != nil {
			t.Fatalf("migrate (run %d): %v", i+1, err)
		}
	}

	var count, version int
	err := db.QueryRow("SELECT COUNT(*), MAX(version) FROM schema_migrations").Scan(&count, &version)
	if err != nil {
		t.Fatalf("query versions: %v", err)
	}
	if count != 2 || version != 2 {
		t.Errorf("count = %d, version = %d, want 2 and 2", count, version)
	}
}

func TestMigrationsIndexes(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	ctx := context.Background()

	if err := database.Migrate(ctx, db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	indexes := []string{
		"IX_ConceptCategories_ParentId",
		"IX_SportConcepts_ConceptCategoryId",
		"IX_SportConcepts_SportId",
	}

	for _, idx := range indexes {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='index' AND name=?", idx).Scan(&name)
		if err != nil {
			t.Errorf("index %q not found: %v", idx, err)
		}
	}
}

func TestSportConceptsDefaults(t *testing.T) {
	db := testhelpers.NewMigratedDB(t)

	if _, err := db.Exec(`INSERT INTO "SportConcepts" ("Name") VALUES ('Reverso')`); err != nil {
		t.Fatalf("insert: %v", err)
	}

	var active bool
	if err := db.QueryRow(`SELECT "IsActive" FROM "SportConcepts" WHERE "Name" = 'Reverso'`).Scan(&active); err != nil {
		t.Fatalf("select: %v", err)
	}
	if !active {
		t.Error("IsActive = false, want true by default")
	}
}
