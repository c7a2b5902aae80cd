package console

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Table renders rows under headers in a box:
//
//	┌────┬──────────┐
//	│ ID │ Question │
//	├────┼──────────┤
//	│ 1  │ 2+2?     │
//	└────┴──────────┘
//
// Rows shorter than headers are padded with empty cells; extra cells are dropped.
// Line breaks inside a cell are shown as spaces.
func (c *Console) Table(headers []string, rows [][]string) {
	fmt.Fprint(c.out, RenderTable(headers, rows))
}

// RenderTable returns the box table drawn by Table.
func RenderTable(headers []string, rows [][]string) string {
	headers = flatten(headers)
	flat := make([][]string, len(rows))
	for i, row := range rows {
		flat[i] = flatten(row)
	}
	rows = flat

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = utf8.RuneCountInString(h)
	}
	for _, row := range rows {
		for i := range widths {
			if i < len(row) {
				widths[i] = max(widths[i], utf8.RuneCountInString(row[i]))
			}
		}
	}

	var b strings.Builder
	border := func(left, mid, right string) {
		b.WriteString(left)
		for i, w := range widths {
			if i > 0 {
				b.WriteString(mid)
			}
			b.WriteString(strings.Repeat("─", w+2))
		}
		b.WriteString(right)
		b.WriteByte('\n')
	}
	line := func(cells []string) {
		b.WriteString("│")
		for i, w := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			b.WriteString(" ")
			b.WriteString(cell)
			b.WriteString(strings.Repeat(" ", w-utf8.RuneCountInString(cell)))
			b.WriteString(" │")
		}
		b.WriteByte('\n')
	}

	border("┌", "┬", "┐")
	line(headers)
	border("├", "┼", "┤")
	for _, row := range rows {
		line(row)
	}
	border("└", "┴", "┘")
	return b.String()
}

func flatten(cells []string) []string {
	out := make([]string, len(cells))
	for i, cell := range cells {
		cell = strings.ReplaceAll(cell, "\r\n", "\n")
		out[i] = strings.ReplaceAll(cell, "\n", " ")
	}
	return out
}
