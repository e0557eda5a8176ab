// Package formatter renders built grid columns as terminal tables and as
// CSV, JSON or YAML documents.
package formatter

import (
	"fmt"
	"image/color"
	"os"
	"sort"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

const (
	sepWidth    = 2
	minColWidth = 3
	// maxColWidth caps unhinted columns before proportional shrinking.
	maxColWidth = 40
)

var (
	defaultHeaderFG   = lipgloss.Color("12")
	defaultHeaderBG   = lipgloss.Color("236")
	defaultKeyColor   = lipgloss.Color("14")
	defaultValueColor = lipgloss.Color("248")
	defaultSeparator  = lipgloss.Color("240")
)

// TableColors controls the rendered colors. Nil fields use the defaults.
type TableColors struct {
	HeaderFG       color.Color
	HeaderBG       color.Color
	KeyColor       color.Color
	ValueColor     color.Color
	SeparatorColor color.Color
}

type styles struct {
	header, key, value, separator lipgloss.Style
}

func newStyles(tc TableColors) styles {
	pick := func(c, def color.Color) color.Color {
		if c == nil {
			return def
		}
		return c
	}
	return styles{
		header:    lipgloss.NewStyle().Bold(true).Foreground(pick(tc.HeaderFG, defaultHeaderFG)).Background(pick(tc.HeaderBG, defaultHeaderBG)),
		key:       lipgloss.NewStyle().Foreground(pick(tc.KeyColor, defaultKeyColor)),
		value:     lipgloss.NewStyle().Foreground(pick(tc.ValueColor, defaultValueColor)),
		separator: lipgloss.NewStyle().Foreground(pick(tc.SeparatorColor, defaultSeparator)),
	}
}

// TableOptions configures RenderTable.
type TableOptions struct {
	NoColor bool

	// TotalWidth is the available width. 0 uses the terminal width.
	TotalWidth int

	// RowNumbers adds a leading "#" column numbering rows from 1.
	RowNumbers bool

	Colors TableColors
}

// RenderTable lays out headers and cells in aligned columns, shrinking
// wide columns to fit the available width. hints may be nil or shorter
// than headers.
func RenderTable(headers []string, hints []ColumnHint, rows [][]string, opts TableOptions) string {
	if len(headers) == 0 {
		return ""
	}
	st := newStyles(opts.Colors)

	full := make([]ColumnHint, len(headers))
	copy(full, hints)

	totalWidth := opts.TotalWidth
	if totalWidth <= 0 {
		totalWidth = terminalWidth()
	}

	rowNumWidth := 0
	available := totalWidth
	if opts.RowNumbers {
		rowNumWidth = len(fmt.Sprintf("%d", len(rows))) + 2
		available -= rowNumWidth + sepWidth
	}
	widths := columnWidths(headers, rows, available, full)

	var b strings.Builder
	sep := strings.Repeat(" ", sepWidth)

	parts := make([]string, 0, len(headers)+1)
	if opts.RowNumbers {
		parts = append(parts, paint(padRight("#", rowNumWidth), st.header, opts.NoColor))
	}
	for i, h := range headers {
		parts = append(parts, paint(padRight(truncate(h, widths[i]), widths[i]), st.header, opts.NoColor))
	}
	b.WriteString(strings.Join(parts, sep) + "\n")

	lineWidth := rowNumWidth
	if opts.RowNumbers {
		lineWidth += sepWidth
	}
	for i, w := range widths {
		lineWidth += w
		if i < len(widths)-1 {
			lineWidth += sepWidth
		}
	}
	b.WriteString(paint(strings.Repeat("─", lineWidth), st.separator, opts.NoColor) + "\n")

	for r, row := range rows {
		parts = parts[:0]
		if opts.RowNumbers {
			parts = append(parts, paint(padRight(fmt.Sprintf("%d", r+1), rowNumWidth), st.key, opts.NoColor))
		}
		for i, w := range widths {
			val := ""
			if i < len(row) {
				val = row[i]
			}
			cell := align(truncate(val, w), w, full[i].Align)
			style := st.value
			if full[i].Bold {
				style = style.Bold(true)
			}
			parts = append(parts, paint(cell, style, opts.NoColor))
		}
		b.WriteString(strings.Join(parts, sep) + "\n")
	}
	return b.String()
}

func paint(s string, style lipgloss.Style, noColor bool) string {
	if noColor {
		return s
	}
	return style.Render(s)
}

func naturalWidths(headers []string, rows [][]string) []int {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, val := range row {
			if i < len(widths) {
				if w := lipgloss.Width(val); w > widths[i] {
					widths[i] = w
				}
			}
		}
	}
	return widths
}

func columnWidths(headers []string, rows [][]string, available int, hints []ColumnHint) []int {
	widths := naturalWidths(headers, rows)
	hinted := false
	for i, h := range hints {
		if h.MaxWidth > 0 && widths[i] > h.MaxWidth {
			widths[i] = h.MaxWidth
		}
		if h.Priority != 0 {
			hinted = true
		}
	}

	usable := available - (len(widths)-1)*sepWidth
	if usable <= 0 || sum(widths) <= usable {
		return widths
	}
	if hinted {
		return shrinkByPriority(widths, usable, hints)
	}

	for i := range widths {
		if widths[i] > maxColWidth {
			widths[i] = maxColWidth
		}
	}
	if total := sum(widths); total > usable {
		for i := range widths {
			w := int(float64(widths[i]) / float64(total) * float64(usable))
			widths[i] = max(w, minColWidth)
		}
		for sum(widths) > usable {
			widest := 0
			for i := range widths {
				if widths[i] > widths[widest] {
					widest = i
				}
			}
			if widths[widest] <= minColWidth {
				break
			}
			widths[widest]--
		}
	}
	return widths
}

// shrinkByPriority takes width from the lowest-priority columns first.
func shrinkByPriority(widths []int, usable int, hints []ColumnHint) []int {
	excess := sum(widths) - usable
	order := make([]int, len(widths))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return hints[order[a]].Priority < hints[order[b]].Priority
	})
	for _, idx := range order {
		if excess <= 0 {
			break
		}
		shrink := min(widths[idx]-minColWidth, excess)
		if shrink <= 0 {
			continue
		}
		widths[idx] -= shrink
		excess -= shrink
	}
	return widths
}

func sum(ws []int) int {
	total := 0
	for _, w := range ws {
		total += w
	}
	return total
}

func truncate(s string, width int) string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return s
	}
	if width < 3 {
		return runewidth.Truncate(s, width, "")
	}
	return runewidth.Truncate(s, width, "...")
}

func align(s string, width int, how string) string {
	switch how {
	case "right":
		return runewidth.FillLeft(s, width)
	case "center":
		pad := width - runewidth.StringWidth(s)
		if pad <= 0 {
			return s
		}
		return strings.Repeat(" ", pad/2) + s + strings.Repeat(" ", pad-pad/2)
	}
	return padRight(s, width)
}

func padRight(s string, width int) string {
	return runewidth.FillRight(s, width)
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 120
	}
	return width
}
