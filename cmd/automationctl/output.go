package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"

	app "github.com/erp/automation/internal/application/automation"
	domain "github.com/erp/automation/internal/domain/automation"
)

// Output formats
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

func render(out io.Writer, format string, v any) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		return printYAML(out, v)
	default:
		return printTable(out, v)
	}
}

// printYAML goes through JSON so field names follow the json tags
func printYAML(out io.Writer, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return err
	}
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}

func printTable(out io.Writer, v any) error {
	tw := table.NewWriter()
	tw.SetOutputMirror(out)

	switch t := v.(type) {
	case app.Catalog:
		tw.AppendHeader(table.Row{"Kind", "Key", "Noun", "Label"})
		for _, group := range [][]app.Entry{t.Triggers, t.Actions, t.Searches} {
			for _, e := range group {
				tw.AppendRow(table.Row{e.Kind, e.Key, e.Noun, e.Label})
			}
		}
	case []domain.Record:
		if len(t) == 0 {
			_, err := fmt.Fprintln(out, "no records")
			return err
		}
		columns := recordColumns(t)
		header := make(table.Row, len(columns))
		for i, c := range columns {
			header[i] = c
		}
		tw.AppendHeader(header)
		for _, rec := range t {
			row := make(table.Row, len(columns))
			for i, c := range columns {
				row[i] = cell(rec[c])
			}
			tw.AppendRow(row)
		}
	default:
		rec, err := domain.ToRecord(v)
		if err != nil {
			return err
		}
		tw.AppendHeader(table.Row{"Field", "Value"})
		for _, key := range sortedKeys(rec) {
			tw.AppendRow(table.Row{key, cell(rec[key])})
		}
	}
	tw.Render()
	return nil
}

// recordColumns lists the union of keys with id first
func recordColumns(records []domain.Record) []string {
	seen := map[string]bool{}
	for _, rec := range records {
		for k := range rec {
			seen[k] = true
		}
	}
	columns := make([]string, 0, len(seen))
	for k := range seen {
		if k != "id" {
			columns = append(columns, k)
		}
	}
	sort.Strings(columns)
	if seen["id"] {
		columns = append([]string{"id"}, columns...)
	}
	return columns
}

func sortedKeys(rec domain.Record) []string {
	keys := make([]string, 0, len(rec))
	for k := range rec {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// cell renders nested values as compact JSON
func cell(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case map[string]any, []any:
		raw, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(raw)
	default:
		return domain.Record{"v": t}.String("v")
	}
}
