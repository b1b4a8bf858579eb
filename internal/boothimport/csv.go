package boothimport

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/EmpoweredVote/booth-results/internal/booths"
	"github.com/google/uuid"
)

// table is a parsed CSV with a header lookup.
type table struct {
	col     map[string]int
	records [][]string
}

func readTable(r io.Reader, required []string) (*table, error) {
	cr := csv.NewReader(bufio.NewReader(r))
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, errors.New("csv has no data rows")
	}

	header := records[0]
	// Handle BOM on first header cell
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	col := map[string]int{}
	for i, h := range header {
		col[strings.TrimSpace(h)] = i
	}
	for _, k := range required {
		if _, ok := col[k]; !ok {
			return nil, fmt.Errorf("missing required column: %s", k)
		}
	}

	return &table{col: col, records: records[1:]}, nil
}

// get returns the trimmed cell, or "" when the column is absent or the row is short.
func (t *table) get(rec []string, name string) string {
	i, ok := t.col[name]
	if !ok || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

// ParseBooths reads booth rows and validates each with the same rules as the API.
func ParseBooths(r io.Reader, ns uuid.UUID) ([]booths.Booth, error) {
	t, err := readTable(r, []string{"booth", "constituency", "pc"})
	if err != nil {
		return nil, err
	}

	seen := map[string]int{}
	var out []booths.Booth
	for i, rec := range t.records {
		line := i + 2
		b := booths.Booth{
			Booth:        t.get(rec, "booth"),
			Constituency: t.get(rec, "constituency"),
			PC:           t.get(rec, "pc"),
			BoothType:    t.get(rec, "boothType"),
			TotalVotes:   booths.Count(t.get(rec, "totalVotes")),
			PolledVotes:  booths.Count(t.get(rec, "polledVotes")),
			FavVotes:     booths.Count(t.get(rec, "favVotes")),
			UbtVotes:     booths.Count(t.get(rec, "ubtVotes")),
		}
		if err := booths.Validate(&b); err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}

		b.ID = BoothID(ns, b.PC, b.Constituency, b.Booth)
		if prev, dup := seen[b.ID]; dup {
			return nil, fmt.Errorf("row %d: duplicate booth %q in %s/%s (first seen on row %d)",
				line, b.Booth, b.PC, b.Constituency, prev)
		}
		seen[b.ID] = line
		out = append(out, b)
	}
	return out, nil
}

func ParseMappings(r io.Reader) ([]booths.BoothMapping, error) {
	t, err := readTable(r, []string{"booth", "constituency", "pc"})
	if err != nil {
		return nil, err
	}

	var out []booths.BoothMapping
	for i, rec := range t.records {
		m := booths.BoothMapping{
			Booth:        t.get(rec, "booth"),
			Constituency: t.get(rec, "constituency"),
			PC:           t.get(rec, "pc"),
		}
		if m.Booth == "" || m.Constituency == "" || m.PC == "" {
			return nil, fmt.Errorf("row %d: booth, constituency and pc are required", i+2)
		}
		out = append(out, m)
	}
	return out, nil
}

func ParseAcTotals(r io.Reader) ([]booths.AcTotal, error) {
	t, err := readTable(r, []string{"constituency", "totalVotes"})
	if err != nil {
		return nil, err
	}

	var out []booths.AcTotal
	for i, rec := range t.records {
		ac := booths.AcTotal{
			Constituency: t.get(rec, "constituency"),
			PC:           t.get(rec, "pc"),
			TotalVotes:   booths.Count(t.get(rec, "totalVotes")),
		}
		if ac.Constituency == "" {
			return nil, fmt.Errorf("row %d: constituency is required", i+2)
		}
		if _, err := ac.TotalVotes.Int(); err != nil {
			return nil, fmt.Errorf("row %d: totalVotes: %w", i+2, err)
		}
		out = append(out, ac)
	}
	return out, nil
}

func parseFile[T any](path string, parse func(io.Reader) ([]T, error)) ([]T, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}
