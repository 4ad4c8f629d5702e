package seed

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
)

var (
	// ErrAlreadyPatched is returned when the script already references the
	// sport variable. Patching twice would declare and append it again.
	ErrAlreadyPatched = errors.New("script already carries the sport column")

	// ErrInconsistentPatch is returned in strict mode when one of the anchors
	// did not match and the result would mix patched and unpatched inserts.
	ErrInconsistentPatch = errors.New("patch anchors did not all match")
)

var trueTail = regexp.MustCompile(`(?m), true(\r?)$`)

// PatchReport describes which anchors a patch run matched.
type PatchReport struct {
	Declaration bool
	Lookup      bool
	ColumnLists int
	ValueLists  int
}

// Consistent reports whether every anchor matched and each rewritten column
// list has a matching rewritten value list.
func (r PatchReport) Consistent() bool {
	return r.Declaration && r.Lookup && r.ColumnLists > 0 && r.ColumnLists == r.ValueLists
}

// Problems lists the anchors that did not line up.
func (r PatchReport) Problems() []string {
	var out []string
	if !r.Declaration {
		out = append(out, "variable declaration not found")
	}
	if !r.Lookup {
		out = append(out, "BEGIN line not found")
	}
	if r.ColumnLists == 0 {
		out = append(out, "no insert column lists found")
	}
	if r.ColumnLists != r.ValueLists {
		out = append(out, fmt.Sprintf("%d column lists but %d value lists", r.ColumnLists, r.ValueLists))
	}
	return out
}

// Patch retrofits the sport column into a legacy Postgres script: it declares
// v_sport_id, resolves it once after BEGIN, extends every insert column list
// and appends the variable to every value list ending in ", true".
//
// Anchors that do not match are skipped and show up in the report. Input that
// already mentions v_sport_id is rejected with ErrAlreadyPatched.
func Patch(content, sport string) (string, PatchReport, error) {
	var report PatchReport
	if strings.Contains(content, sportVar) {
		return content, report, ErrAlreadyPatched
	}

	if i := lineIndex(content, catDeclaration); i >= 0 {
		content = insertAfter(content, i, sportDeclaration)
		report.Declaration = true
	}

	if i := lineIndex(content, "BEGIN"); i >= 0 {
		content = insertAfter(content, i, sportLookup(sport))
		report.Lookup = true
	}

	report.ColumnLists = strings.Count(content, conceptColumns)
	content = strings.ReplaceAll(content, conceptColumns, conceptColumnsSID)

	report.ValueLists = len(trueTail.FindAllStringIndex(content, -1))
	content = trueTail.ReplaceAllString(content, ", true, "+sportVar+"${1}")

	return content, report, nil
}

// PatchFile patches the script at path in place. In strict mode an
// inconsistent patch leaves the file untouched.
func PatchFile(path, sport string, strict bool) (PatchReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return PatchReport{}, fmt.Errorf("read script: %w", err)
	}

	patched, report, err := Patch(string(data), sport)
	if err != nil {
		return report, fmt.Errorf("patch %s: %w", path, err)
	}
	if strict && !report.Consistent() {
		return report, fmt.Errorf("patch %s: %w: %s", path, ErrInconsistentPatch, strings.Join(report.Problems(), "; "))
	}

	if err := os.WriteFile(path, []byte(patched), 0o644); err != nil {
		return report, fmt.Errorf("write script: %w", err)
	}
	return report, nil
}

// insertAfter adds text as a new line after the line starting at offset,
// ending it with that line's terminator (LF or CRLF).
func insertAfter(content string, offset int, text string) string {
	next := strings.IndexByte(content[offset:], '\n')
	if next < 0 {
		return content + "\n" + text
	}
	end := offset + next
	eol := "\n"
	if end > offset && content[end-1] == '\r' {
		eol = "\r\n"
	}
	return content[:end+1] + text + eol + content[end+1:]
}

// lineIndex returns the offset of the first line that is exactly line, or -1.
func lineIndex(content, line string) int {
	offset := 0
	for offset <= len(content) {
		next := strings.IndexByte(content[offset:], '\n')
		end := len(content)
		if next >= 0 {
			end = offset + next
		}
		if strings.TrimSuffix(content[offset:end], "\r") == line {
			return offset
		}
		if next < 0 {
			break
		}
		offset = end + 1
	}
	return -1
}
