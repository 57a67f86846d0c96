package main

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"

	"github.com/rws/go-ishremote/ishobjects"
)

const (
	outputTable = "table"
	outputJSON  = "json"
	outputYAML  = "yaml"
)

// record is one row of output.
type record map[string]string

// leadingColumns come first in a table, in this order.
var leadingColumns = []string{
	"ishtype", "ishref", "ishlogicalref", "ishversionref", "ishlngref",
	"ishfolderref", "ishfoldertype", "path", "name",
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// columns orders the keys of recs: identifiers first, then the rest
// sorted.
func columns(recs []record) []string {
	seen := map[string]bool{}
	for _, r := range recs {
		for k := range r {
			seen[k] = true
		}
	}
	var cols []string
	for _, c := range leadingColumns {
		if seen[c] {
			cols = append(cols, c)
			delete(seen, c)
		}
	}
	rest := make([]string, 0, len(seen))
	for k := range seen {
		rest = append(rest, k)
	}
	slices.Sort(rest)
	return append(cols, rest...)
}

// render writes recs in the requested format.
func render(w io.Writer, format string, recs []record) error {
	switch format {
	case outputJSON, outputYAML:
		if recs == nil {
			recs = []record{}
		}
		return encode(w, format, recs)
	case outputTable, "":
		if len(recs) == 0 {
			return nil
		}
		cols := columns(recs)
		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers(cols...).
			StyleFunc(func(row, _ int) lipgloss.Style {
				if row == table.HeaderRow {
					return headerStyle
				}
				return cellStyle
			})
		for _, r := range recs {
			row := make([]string, len(cols))
			for i, c := range cols {
				row[i] = strings.ReplaceAll(r[c], "\n", " ")
			}
			t.Row(row...)
		}
		_, err := fmt.Fprintln(w, t.Render())
		return err
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// renderPairs writes one record as a two column table, or as a single
// object in json and yaml.
func renderPairs(w io.Writer, format string, r record) error {
	if format == outputJSON || format == outputYAML {
		return encode(w, format, r)
	}
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(_, col int) lipgloss.Style {
			if col == 0 {
				return headerStyle
			}
			return cellStyle
		})
	for _, k := range keys {
		t.Row(k, r[k])
	}
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func encode(w io.Writer, format string, v any) error {
	if format == outputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func objectRecords(objs ishobjects.Objects) []record {
	recs := make([]record, 0, len(objs))
	for _, o := range objs {
		recs = append(recs, o.Properties())
	}
	return recs
}

func folderRecords(fs ishobjects.Folders) []record {
	recs := make([]record, 0, len(fs))
	for _, f := range fs {
		recs = append(recs, f.Properties())
	}
	return recs
}
