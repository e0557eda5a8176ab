package formatter

import (
	"strconv"
	"strings"
)

// ColumnHint carries per-column rendering hints parsed from a column style.
type ColumnHint struct {
	// MaxWidth caps the column width in cells. 0 means no cap.
	MaxWidth int

	// Priority controls shrinking: lower values shrink first.
	Priority int

	// Align is "left" (default), "right" or "center".
	Align string

	Bold bool
}

// ParseHint reads a space-separated style such as "right bold max:20".
// Recognized tokens are left, right, num (right), center, bold, max:N and
// priority:N. Unknown tokens are ignored so styles can also carry
// consumer-specific classes.
func ParseHint(style string) ColumnHint {
	var h ColumnHint
	for _, tok := range strings.Fields(style) {
		name, arg, _ := strings.Cut(strings.ToLower(tok), ":")
		switch name {
		case "left", "right", "center":
			h.Align = name
		case "num", "numeric":
			h.Align = "right"
		case "bold":
			h.Bold = true
		case "max":
			if n, err := strconv.Atoi(arg); err == nil && n > 0 {
				h.MaxWidth = n
			}
		case "priority":
			if n, err := strconv.Atoi(arg); err == nil {
				h.Priority = n
			}
		}
	}
	return h
}
