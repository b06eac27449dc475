package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/width"
	"gopkg.in/yaml.v3"

	"github.com/iota-uz/crudkit/pkg/crud/table"
)

const (
	outputTable = "table"
	outputJSON  = "json"
	outputYAML  = "yaml"
)

// render writes v as json or yaml, or the rows as an aligned table.
func (c *cli) render(v any, headers []string, rows [][]string) error {
	switch c.output {
	case outputJSON:
		return writeJSON(c.out, v)
	case outputYAML:
		return writeYAML(c.out, v)
	default:
		return writeTable(c.out, headers, rows)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return withCode(exitFailure, fmt.Errorf("json encode: %w", err))
	}
	return nil
}

// writeYAML goes through json first so keys follow the json tags.
func writeYAML(w io.Writer, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return withCode(exitFailure, fmt.Errorf("json encode: %w", err))
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var plain any
	if err := dec.Decode(&plain); err != nil {
		return withCode(exitFailure, fmt.Errorf("json decode: %w", err))
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(plain); err != nil {
		return withCode(exitFailure, fmt.Errorf("yaml encode: %w", err))
	}
	return enc.Close()
}

// displayWidth counts East Asian wide and fullwidth runes as two cells.
func displayWidth(s string) int {
	n := 0
	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			n += 2
		default:
			n++
		}
	}
	return n
}

func padRight(s string, w int) string {
	if d := w - displayWidth(s); d > 0 {
		return s + strings.Repeat(" ", d)
	}
	return s
}

func writeTable(w io.Writer, headers []string, rows [][]string) error {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = displayWidth(h)
	}
	for _, row := range rows {
		for i := range headers {
			if i < len(row) {
				widths[i] = max(widths[i], displayWidth(row[i]))
			}
		}
	}

	var b strings.Builder
	line := func(cells []string) {
		for i := range headers {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			if i == len(headers)-1 {
				b.WriteString(cell)
				break
			}
			b.WriteString(padRight(cell, widths[i]))
			b.WriteString("  ")
		}
		b.WriteString("\n")
	}
	line(headers)
	rule := make([]string, len(headers))
	for i, wd := range widths {
		rule[i] = strings.Repeat("-", wd)
	}
	line(rule)
	for _, row := range rows {
		line(row)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// dataColumns drops the selection and action columns.
func dataColumns[T any](cols []table.Column[T]) []table.Column[T] {
	out := make([]table.Column[T], 0, len(cols))
	for _, col := range cols {
		if col.Type == table.TypeData {
			out = append(out, col)
		}
	}
	return out
}

func titles[T any](cols []table.Column[T]) []string {
	out := make([]string, len(cols))
	for i, col := range cols {
		out[i] = col.Title
	}
	return out
}

func cells[T any](cols []table.Column[T], row T) []string {
	out := make([]string, len(cols))
	for i, col := range cols {
		out[i] = col.Text(row)
	}
	return out
}

// detailRows lays a detail record out as field/value pairs.
func detailRows[T any](cols []table.Column[T], detail T) [][]string {
	rows := make([][]string, 0, len(cols))
	for _, col := range cols {
		rows = append(rows, []string{col.Title, col.Text(detail)})
	}
	return rows
}
