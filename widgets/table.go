package widgets

import "strings"

// Column describes one table column. Width is in cells; Right aligns the
// cell content to the right (amounts, counts).
type Column struct {
	Title string
	Width int
	Right bool
}

// Table lays out rows of pre-rendered cells into fixed-width columns. It does
// no styling; callers decorate the returned lines (cursor, marks) themselves.
type Table struct {
	Columns []Column
	Rows    [][]string
}

// Header returns the padded header line.
func (t Table) Header() string {
	cells := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		cells[i] = pad(c.Title, c.Width, false)
	}
	return strings.Join(cells, "  ")
}

// Lines returns one padded line per row. Rows shorter than the column set
// are padded with empty cells; extra cells are dropped.
func (t Table) Lines() []string {
	out := make([]string, len(t.Rows))
	for r, row := range t.Rows {
		cells := make([]string, len(t.Columns))
		for i, c := range t.Columns {
			v := ""
			if i < len(row) {
				v = row[i]
			}
			cells[i] = pad(v, c.Width, c.Right)
		}
		out[r] = strings.Join(cells, "  ")
	}
	return out
}

func pad(s string, width int, right bool) string {
	if width <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) > width {
		if width <= 1 {
			return string(r[:width])
		}
		return string(r[:width-1]) + "…"
	}
	fill := strings.Repeat(" ", width-len(r))
	if right {
		return fill + s
	}
	return s + fill
}
