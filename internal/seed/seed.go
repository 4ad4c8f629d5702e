// Package seed turns parsed concept rows into an idempotent SQL seed script,
// patches legacy scripts generated without a sport column, and applies
// scripts to a sandbox database.
package seed

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/sportplanner/seedkit/internal/concepts"
)

// DefaultSport is the sport every seeded concept belongs to unless
// configured otherwise.
const DefaultSport = "Baloncesto"

// Dialect selects the SQL flavour a Script is rendered in.
type Dialect string

const (
	// Postgres renders a single anonymous PL/pgSQL block.
	Postgres Dialect = "postgres"
	// SQLite renders one self-contained guarded insert per concept.
	SQLite Dialect = "sqlite"
)

// ParseDialect validates a dialect name.
func ParseDialect(name string) (Dialect, error) {
	switch d := Dialect(strings.ToLower(name)); d {
	case Postgres, SQLite:
		return d, nil
	default:
		return "", fmt.Errorf("unknown dialect %q (want %s or %s)", name, Postgres, SQLite)
	}
}

// Concept is a row ready to be inserted into "SportConcepts". Text is kept
// unescaped; quoting happens at render time.
type Concept struct {
	Name        string
	Subcategory string
	Description sql.NullString
	URL         sql.NullString
}

// Script is the structured form of a seed script. An empty Sport renders the
// legacy layout without the "SportId" column.
type Script struct {
	Sport    string
	Concepts []Concept
}

// Build converts parsed rows into a Script. Placeholder descriptions and bare
// video links become NULL.
func Build(rows []concepts.Row, sport string) Script {
	s := Script{Sport: sport, Concepts: make([]Concept, 0, len(rows))}
	for _, r := range rows {
		c := Concept{Name: r.Concept, Subcategory: r.Subcategory}
		if r.HasDescription() {
			c.Description = sql.NullString{String: r.Description, Valid: true}
		}
		if r.HasURL() {
			c.URL = sql.NullString{String: r.URL, Valid: true}
		}
		s.Concepts = append(s.Concepts, c)
	}
	return s
}

// HasSport reports whether the script carries the "SportId" column.
func (s Script) HasSport() bool {
	return s.Sport != ""
}

// Escape doubles single quotes so the value can sit inside a SQL string
// literal.
func Escape(v string) string {
	return strings.ReplaceAll(v, "'", "''")
}

// Quote returns v as a SQL string literal.
func Quote(v string) string {
	return "'" + Escape(v) + "'"
}

func literal(v sql.NullString) string {
	if !v.Valid {
		return "NULL"
	}
	return Quote(v.String)
}
