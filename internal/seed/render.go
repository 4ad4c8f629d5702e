package seed

import (
	"fmt"
	"io"
	"strings"
)

const (
	conceptColumns    = `INSERT INTO "SportConcepts" ("Name", "Description", "Url", "ConceptCategoryId", "IsActive")`
	conceptColumnsSID = `INSERT INTO "SportConcepts" ("Name", "Description", "Url", "ConceptCategoryId", "IsActive", "SportId")`

	catDeclaration   = "    v_cat_id INT;"
	sportDeclaration = "    v_sport_id INT;"
	sportVar         = "v_sport_id"
)

func sportLookup(sport string) string {
	return fmt.Sprintf(`    SELECT "Id" INTO v_sport_id FROM "Sports" WHERE "Name" = %s LIMIT 1;`, Quote(sport))
}

// Statements returns the executable statements of the script. Postgres yields
// a single DO block; SQLite yields one guarded insert per concept.
func (s Script) Statements(d Dialect) []string {
	if d == SQLite {
		stmts := make([]string, 0, len(s.Concepts))
		for _, c := range s.Concepts {
			stmts = append(stmts, s.sqliteInsert(c))
		}
		return stmts
	}
	return []string{s.postgresBlock()}
}

// Render writes the full script text in the given dialect.
func (s Script) Render(w io.Writer, d Dialect) error {
	var text string
	switch d {
	case Postgres:
		text = s.postgresBlock()
	case SQLite:
		var b strings.Builder
		b.WriteString("BEGIN;\n")
		for _, stmt := range s.Statements(SQLite) {
			b.WriteString(stmt)
		}
		b.WriteString("COMMIT;\n")
		text = b.String()
	default:
		return fmt.Errorf("render: unknown dialect %q", d)
	}
	if _, err := io.WriteString(w, text); err != nil {
		return fmt.Errorf("write script: %w", err)
	}
	return nil
}

// String renders the script in the given dialect.
func (s Script) String(d Dialect) string {
	var b strings.Builder
	_ = s.Render(&b, d)
	return b.String()
}

func (s Script) postgresBlock() string {
	var b strings.Builder
	b.WriteString("DO $$\n")
	b.WriteString("DECLARE\n")
	b.WriteString(catDeclaration + "\n")
	if s.HasSport() {
		b.WriteString(sportDeclaration + "\n")
	}
	b.WriteString("BEGIN\n")
	if s.HasSport() {
		b.WriteString(sportLookup(s.Sport) + "\n")
	}

	columns, tail := conceptColumns, ""
	if s.HasSport() {
		columns, tail = conceptColumnsSID, ", "+sportVar
	}

	for _, c := range s.Concepts {
		name := Quote(c.Name)
		fmt.Fprintf(&b, "    -- %s\n", c.Name)
		fmt.Fprintf(&b, "    SELECT \"Id\" INTO v_cat_id FROM \"ConceptCategories\" WHERE \"Name\" = %s LIMIT 1;\n", Quote(c.Subcategory))
		b.WriteString("    IF v_cat_id IS NOT NULL THEN\n")
		fmt.Fprintf(&b, "        %s\n", columns)
		fmt.Fprintf(&b, "        SELECT %s, %s, %s, v_cat_id, true%s\n", name, literal(c.Description), literal(c.URL), tail)
		fmt.Fprintf(&b, "        WHERE NOT EXISTS (SELECT 1 FROM \"SportConcepts\" WHERE \"Name\" = %s AND \"ConceptCategoryId\" = v_cat_id);\n", name)
		b.WriteString("    END IF;\n")
	}

	b.WriteString("END $$;\n")
	return b.String()
}

// sqliteInsert expresses the lookup-then-guarded-insert of one concept as a
// single statement: the category lookup is a derived table, so a missing
// category yields no row and the insert is skipped.
func (s Script) sqliteInsert(c Concept) string {
	name := Quote(c.Name)
	columns, tail := conceptColumns, ""
	if s.HasSport() {
		columns = conceptColumnsSID
		tail = fmt.Sprintf(`, (SELECT "Id" FROM "Sports" WHERE "Name" = %s LIMIT 1)`, Quote(s.Sport))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "-- %s\n", c.Name)
	b.WriteString(columns + "\n")
	fmt.Fprintf(&b, "SELECT %s, %s, %s, c.\"Id\", true%s\n", name, literal(c.Description), literal(c.URL), tail)
	fmt.Fprintf(&b, "FROM (SELECT \"Id\" FROM \"ConceptCategories\" WHERE \"Name\" = %s LIMIT 1) AS c\n", Quote(c.Subcategory))
	fmt.Fprintf(&b, "WHERE NOT EXISTS (SELECT 1 FROM \"SportConcepts\" WHERE \"Name\" = %s AND \"ConceptCategoryId\" = c.\"Id\");\n", name)
	return b.String()
}
