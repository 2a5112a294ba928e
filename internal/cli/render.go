package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/albanecoiffe/JO2024-visualization/internal/domain/model"
	"github.com/jedib0t/go-pretty/v6/table"
)

// Output formats.
const (
	formatTable    = "table"
	formatMarkdown = "markdown"
	formatCSV      = "csv"
	formatJSON     = "json"
)

// view is a rendered result: a table for humans and a payload for json.
type view struct {
	header  table.Row
	rows    []table.Row
	payload any
}

func render(w io.Writer, format string, v view) error {
	switch strings.ToLower(format) {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v.payload)
	case formatTable, formatMarkdown, "md", formatCSV:
	default:
		return fmt.Errorf("unknown output format %q", format)
	}

	if len(v.rows) == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(v.header)
	t.AppendRows(v.rows)

	switch strings.ToLower(format) {
	case formatCSV:
		t.RenderCSV()
	case formatMarkdown, "md":
		t.RenderMarkdown()
	default:
		t.Render()
		_, _ = fmt.Fprintf(w, "(%d rows)\n", len(v.rows))
	}
	return nil
}

var athleteHeader = table.Row{"Slug", "Name", "Type", "Age", "Gold", "Silver", "Bronze", "Total", "Disciplines"}

func athleteRows(views []model.AthleteView) []table.Row {
	rows := make([]table.Row, 0, len(views))
	for _, v := range views {
		rows = append(rows, table.Row{
			v.Slug,
			strings.TrimSpace(v.Firstname + " " + v.Lastname),
			string(v.Type),
			v.Age,
			v.Medals.Gold,
			v.Medals.Silver,
			v.Medals.Bronze,
			v.Medals.Total,
			v.DisciplinesJoined,
		})
	}
	return rows
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
