package seed_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sportplanner/seedkit/internal/concepts"
	"github.com/sportplanner/seedkit/internal/seed"
)

func embeddedScript(t *testing.T, sport string) seed.Script {
	t.Helper()
	set, err := concepts.Parse(concepts.Embedded())
	if err != nil {
		t.Fatalf("parse embedded: %v", err)
	}
	return seed.Build(set.Rows, sport)
}

func TestPatchAddsSportToEveryInsert(t *testing.T) {
	legacy := embeddedScript(t, "")
	n := len(legacy.Concepts)

	patched, report, err := seed.Patch(legacy.String(seed.Postgres), seed.DefaultSport)
	if err != nil {
		t.Fatalf("patch: %v", err)
	}

	if got := strings.Count(patched, ", true, v_sport_id"); got != n {
		t.Errorf("value lists patched = %d, want %d", got, n)
	}
	if got := strings.Count(patched, `SELECT "Id" INTO v_sport_id`); got != 1 {
		t.Errorf("sport lookups = %d, want 1", got)
	}
	if got := strings.Count(patched, "v_sport_id INT;"); got != 1 {
		t.Errorf("sport declarations = %d, want 1", got)
	}
	if !report.Consistent() {
		t.Errorf("report not consistent: %v", report.Problems())
	}
	if report.ColumnLists != n || report.ValueLists != n {
		t.Errorf("report = %+v, want %d column and value lists", report, n)
	}
}

func TestPatchMatchesGeneratedSportLayout(t *testing.T) {
	legacy := embeddedScript(t, "").String(seed.Postgres)
	direct := embeddedScript(t, seed.DefaultSport).String(seed.Postgres)

	patched, _, err := seed.Patch(legacy, seed.DefaultSport)
	if err != nil {
		t.Fatalf("patch: %v", err)
	}
	if patched != direct {
		t.Error("patched legacy script differs from script generated with the sport column")
	}
}

func TestPatchKeepsCRLFLineEndings(t *testing.T) {
	crlf := func(s string) string { return strings.ReplaceAll(s, "\n", "\r\n") }
	legacy := crlf(embeddedScript(t, "").String(seed.Postgres))
	direct := crlf(embeddedScript(t, seed.DefaultSport).String(seed.Postgres))

	patched, report, err := seed.Patch(legacy, seed.DefaultSport)
	if err != nil {
		t.Fatalf("patch: %v", err)
	}
	if !report.Consistent() {
		t.Errorf("report not consistent: %v", report.Problems())
	}
	if patched != direct {
		t.Error("patched CRLF script differs from the CRLF script generated with the sport column")
	}
	if strings.Count(patched, "\n") != strings.Count(patched, "\r\n") {
		t.Error("patched script mixes LF and CRLF line endings")
	}
}

func TestPatchRejectsPatchedInput(t *testing.T) {
	legacy := embeddedScript(t, "").String(seed.Postgres)

	once, _, err := seed.Patch(legacy, seed.DefaultSport)
	if err != nil {
		t.Fatalf("first patch: %v", err)
	}

	twice, _, err := seed.Patch(once, seed.DefaultSport)
	if !errors.Is(err, seed.ErrAlreadyPatched) {
		t.Fatalf("second patch err = %v, want ErrAlreadyPatched", err)
	}
	if twice != once {
		t.Error("rejected patch modified its input")
	}

	generated := embeddedScript(t, seed.DefaultSport).String(seed.Postgres)
	if _, _, err := seed.Patch(generated, seed.DefaultSport); !errors.Is(err, seed.ErrAlreadyPatched) {
		t.Errorf("patch of sport layout err = %v, want ErrAlreadyPatched", err)
	}
}

func TestPatchReportsMissingAnchors(t *testing.T) {
	legacy := seed.Build(rows(t, paseDeBolos), "").String(seed.Postgres)
	// Re-indented declaration and lowercase keyword no longer match verbatim.
	drifted := strings.Replace(legacy, "    v_cat_id INT;", "  v_cat_id INT;", 1)
	drifted = strings.Replace(drifted, "\nBEGIN\n", "\nbegin\n", 1)

	patched, report, err := seed.Patch(drifted, seed.DefaultSport)
	if err != nil {
		t.Fatalf("patch: %v", err)
	}

	if report.Declaration || report.Lookup {
		t.Errorf("report = %+v, want declaration and lookup unmatched", report)
	}
	if report.Consistent() {
		t.Error("report consistent despite missing anchors")
	}
	if len(report.Problems()) != 2 {
		t.Errorf("problems = %v, want 2", report.Problems())
	}
	// Best effort: the inserts are still rewritten.
	if !strings.Contains(patched, "v_cat_id, true, v_sport_id") {
		t.Errorf("value list not patched:\n%s", patched)
	}
}

func TestPatchValueListWithoutColumnList(t *testing.T) {
	legacy := seed.Build(rows(t, paseDeBolos), "").String(seed.Postgres)
	drifted := strings.Replace(legacy, `"IsActive")`, `"IsActive" )`, 1)

	_, report, err := seed.Patch(drifted, seed.DefaultSport)
	if err != nil {
		t.Fatalf("patch: %v", err)
	}
	if report.ColumnLists != 0 || report.ValueLists != 1 {
		t.Errorf("report = %+v, want 0 column lists and 1 value list", report)
	}
	if report.Consistent() {
		t.Error("report consistent with mismatched lists")
	}
}

func TestPatchFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed_concepts.sql")
	legacy := seed.Build(rows(t, paseDeBolos), "").String(seed.Postgres)
	if err := os.WriteFile(path, []byte(legacy), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	report, err := seed.PatchFile(path, seed.DefaultSport, true)
	if err != nil {
		t.Fatalf("patch file: %v", err)
	}
	if !report.Consistent() {
		t.Errorf("report not consistent: %v", report.Problems())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	want := seed.Build(rows(t, paseDeBolos), seed.DefaultSport).String(seed.Postgres)
	if string(data) != want {
		t.Errorf("file content mismatch\ngot:\n%s\nwant:\n%s", data, want)
	}

	if _, err := seed.PatchFile(path, seed.DefaultSport, false); !errors.Is(err, seed.ErrAlreadyPatched) {
		t.Errorf("second PatchFile err = %v, want ErrAlreadyPatched", err)
	}
}

func TestPatchFileStrictLeavesFileUntouched(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed_concepts.sql")
	before := "DO $$\nBEGIN\nEND $$;\n"
	if err := os.WriteFile(path, []byte(before), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := seed.PatchFile(path, seed.DefaultSport, true); !errors.Is(err, seed.ErrInconsistentPatch) {
		t.Fatalf("err = %v, want ErrInconsistentPatch", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != before {
		t.Errorf("file modified in strict mode:\n%s", data)
	}
}

func TestPatchFileMissing(t *testing.T) {
	_, err := seed.PatchFile(filepath.Join(t.TempDir(), "missing.sql"), seed.DefaultSport, false)
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v, want not-exist", err)
	}
}
