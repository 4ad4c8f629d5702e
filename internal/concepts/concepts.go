// Package concepts parses the tab-separated training concept dataset that
// feeds the seed generator.
package concepts

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Sentinel values used by the dataset for missing data.
const (
	NoConcept     = "(Sin conceptos específicos)"
	NoDescription = "(Sin descripción específica)"
	BareVideoURL  = "https://youtu.be/"
)

// fieldCount is the number of tab-separated fields a usable line must have.
const fieldCount = 5

//go:embed data/concepts.tsv
var embedded string

// Embedded returns a reader over the dataset compiled into the binary.
func Embedded() io.Reader {
	return strings.NewReader(embedded)
}

// Row is one concept line of the dataset.
type Row struct {
	Category    string
	Subcategory string
	Concept     string
	Description string
	URL         string
}

// Key identifies a row for deduplication.
type Key struct {
	Subcategory string
	Concept     string
}

// Key returns the (subcategory, concept) pair of the row.
func (r Row) Key() Key {
	return Key{Subcategory: r.Subcategory, Concept: r.Concept}
}

// HasDescription reports whether the description is anything but the
// NoDescription placeholder. An empty description still counts.
func (r Row) HasDescription() bool {
	return r.Description != NoDescription
}

// HasURL reports whether the row carries a usable video link.
func (r Row) HasURL() bool {
	return r.URL != "" && r.URL != BareVideoURL
}

// Stats counts how each input line was handled.
type Stats struct {
	Lines      int
	Kept       int
	Short      int
	Sentinel   int
	Duplicates int
}

// Set is the result of parsing a dataset: kept rows in input order plus
// statistics about the dropped ones.
type Set struct {
	Rows  []Row
	Stats Stats
}

// Parse reads a dataset. Lines with fewer than five tab-separated fields are
// skipped, rows whose concept is NoConcept are dropped, and repeated
// (subcategory, concept) pairs keep only their first occurrence. Fields are
// trimmed and normalised to NFC so visually equal names dedupe together.
func Parse(r io.Reader) (Set, error) {
	var set Set
	seen := make(map[Key]struct{})

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		set.Stats.Lines++

		row, ok := parseLine(line)
		if !ok {
			set.Stats.Short++
			continue
		}
		if row.Concept == NoConcept {
			set.Stats.Sentinel++
			continue
		}
		if _, dup := seen[row.Key()]; dup {
			set.Stats.Duplicates++
			continue
		}
		seen[row.Key()] = struct{}{}
		set.Rows = append(set.Rows, row)
	}
	if err := scanner.Err(); err != nil {
		return Set{}, fmt.Errorf("read dataset: %w", err)
	}

	set.Stats.Kept = len(set.Rows)
	return set, nil
}

func parseLine(line string) (Row, bool) {
	parts := strings.Split(line, "\t")
	if len(parts) < fieldCount {
		return Row{}, false
	}
	for i := range parts[:fieldCount] {
		parts[i] = norm.NFC.String(strings.TrimSpace(parts[i]))
	}
	return Row{
		Category:    parts[0],
		Subcategory: parts[1],
		Concept:     parts[2],
		Description: parts[3],
		URL:         parts[4],
	}, true
}

// CategoryPair is a top-level category and one of its subcategories.
type CategoryPair struct {
	Parent string
	Child  string
}

// Categories returns the distinct (category, subcategory) pairs of the rows in
// first-seen order.
func Categories(rows []Row) []CategoryPair {
	seen := make(map[CategoryPair]struct{})
	var pairs []CategoryPair
	for _, r := range rows {
		p := CategoryPair{Parent: r.Category, Child: r.Subcategory}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		pairs = append(pairs, p)
	}
	return pairs
}
