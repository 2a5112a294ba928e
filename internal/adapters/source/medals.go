package source

import (
	"context"
	"math"
	"strconv"
	"strings"

	"github.com/albanecoiffe/JO2024-visualization/internal/domain/model"
)

// Medal spreadsheet columns, after header normalization.
const (
	colSlug      = "slug"
	colFirstname = "firstname"
	colLastname  = "lastname"
	colGold      = "or2024"
	colSilver    = "argent2024"
	colBronze    = "bronze 2024"
	colTotal     = "total2024"
)

// LoadMedalTable reads the medal spreadsheet. Blank count cells stay nil;
// slug, firstname and lastname are kept verbatim.
func LoadMedalTable(ctx context.Context, path string) ([]model.RawMedal, error) {
	t, err := readTable(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := t.require(colSlug, colFirstname, colLastname, colGold, colSilver, colBronze, colTotal); err != nil {
		return nil, err
	}

	medals := make([]model.RawMedal, 0, len(t.rows))
	for i, row := range t.rows {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if blankRow(row) {
			continue
		}
		m := model.RawMedal{NaturalKey: model.NaturalKey{
			Slug:      t.rawCell(row, colSlug),
			Firstname: t.rawCell(row, colFirstname),
			Lastname:  t.rawCell(row, colLastname),
		}}
		for _, c := range []struct {
			name string
			dst  **int
		}{
			{colGold, &m.Gold},
			{colSilver, &m.Silver},
			{colBronze, &m.Bronze},
			{colTotal, &m.Total},
		} {
			raw := t.cell(row, c.name)
			v, err := parseCount(raw)
			if err != nil {
				return nil, formatError(path, rowLabel(i, c.name), "%q: %v", raw, err)
			}
			*c.dst = v
		}
		medals = append(medals, m)
	}
	return medals, nil
}

// parseCount parses a medal cell. Spreadsheets may store integers as
// floats, so integral float values are accepted.
func parseCount(s string) (*int, error) {
	if s == "" {
		return nil, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return &n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, strconv.ErrSyntax
	}
	if f != math.Trunc(f) {
		return nil, strconv.ErrRange
	}
	n := int(f)
	return &n, nil
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
