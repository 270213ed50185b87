package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// SummaryRow is one label/value line of a summary.
type SummaryRow struct {
	Label string
	Value string
}

// RenderSummary lays rows out as two aligned columns between rules, with
// an optional title above. Column widths come from lipgloss, so styled
// text lines up too.
func RenderSummary(title string, rows []SummaryRow) string {
	labels := make([]string, len(rows))
	values := make([]string, len(rows))
	for i, row := range rows {
		labels[i] = row.Label
		values[i] = row.Value
	}
	sep := make([]string, len(rows))
	for i := range sep {
		sep[i] = " | "
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		labelStyle.Render(strings.Join(labels, "\n")),
		dimStyle.Render(strings.Join(sep, "\n")),
		valueStyle.Render(strings.Join(values, "\n")),
	)
	width := lipgloss.Width(body)
	if title != "" {
		width = max(width, lipgloss.Width(title))
	}
	rule := dimStyle.Render(strings.Repeat("─", width))

	var out []string
	if title != "" {
		out = append(out, titleStyle.Render(title))
	}
	out = append(out, rule, body, rule)
	return strings.Join(out, "\n")
}

// FormatBytes renders n with a binary unit, e.g. "312.5 KB".
func FormatBytes(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
