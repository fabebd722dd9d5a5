package ui

import (
	"fmt"
	"strings"
	"text/tabwriter"
)

// Table is a rendered list: a title, column headers and string cells.
// StatusColumn, when >= 0, names the column whose values are coloured by status.
type Table struct {
	Title        string
	Headers      []string
	Rows         [][]string
	Footer       string
	StatusColumn int
}

// NewTable creates a table with no status column
func NewTable(title string, headers ...string) *Table {
	return &Table{Title: title, Headers: headers, StatusColumn: -1}
}

// Add appends a row; values are formatted with %v
func (t *Table) Add(values ...interface{}) {
	row := make([]string, len(values))
	for i, v := range values {
		row[i] = fmt.Sprint(v)
	}
	t.Rows = append(t.Rows, row)
}

// Table prints t aligned in columns
func (u *UI) Table(t *Table) {
	if t.Title != "" {
		u.PrintlnColored(t.Title, ColorWhite)
	}
	if len(t.Rows) == 0 {
		u.Info("No records.")
		if t.Footer != "" {
			u.Println(t.Footer)
		}
		return
	}

	tw := tabwriter.NewWriter(u.writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(t.Headers, "\t"))
	for _, row := range t.Rows {
		cells := make([]string, len(row))
		copy(cells, row)
		// Padding is computed on the escaped text, so only the last column is coloured
		if t.StatusColumn == len(cells)-1 && t.StatusColumn >= 0 {
			cells[t.StatusColumn] = u.colorize(cells[t.StatusColumn], statusColors[cells[t.StatusColumn]])
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	tw.Flush()

	if t.Footer != "" {
		u.Println(t.Footer)
	}
}
