package metrics

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Width(14)

	goodStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("46"))

	badStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)
)

// WriteSummary prints a replay summary. Styling is applied only when color
// is set.
func WriteSummary(w io.Writer, s Summary, color bool) error {
	style := func(st lipgloss.Style) lipgloss.Style {
		if color {
			return st
		}
		return lipgloss.NewStyle().Width(st.GetWidth())
	}

	rate := style(goodStyle)
	if s.Matched < s.Replayed {
		rate = style(badStyle)
	}

	rows := []string{
		style(titleStyle).Render("Replay summary"),
		row(style(labelStyle), "Entries", fmt.Sprintf("%d", s.Generated)),
		row(style(labelStyle), "Replayed", fmt.Sprintf("%d", s.Replayed)),
		row(style(labelStyle), "Matched", rate.Render(fmt.Sprintf("%d (%.1f%%)", s.Matched, s.MatchRate()))),
		row(style(labelStyle), "Errors", fmt.Sprintf("%d", s.Failed)),
		row(style(labelStyle), "Statuses", formatStatuses(s.Statuses)),
		row(style(labelStyle), "Latency", fmt.Sprintf("min %s  avg %s  p50 %s  p95 %s  max %s",
			round(s.MinLatency), round(s.AvgLatency), round(s.P50Latency), round(s.P95Latency), round(s.MaxLatency))),
		row(style(labelStyle), "Elapsed", round(s.Elapsed).String()),
	}

	out := strings.Join(rows, "\n")
	if color {
		out = boxStyle.Render(out)
	}
	_, err := fmt.Fprintln(w, out)
	return err
}

func row(label lipgloss.Style, name, value string) string {
	return label.Render(name) + value
}

func formatStatuses(statuses map[int]int64) string {
	if len(statuses) == 0 {
		return "-"
	}
	codes := make([]int, 0, len(statuses))
	for code := range statuses {
		codes = append(codes, code)
	}
	slices.Sort(codes)

	parts := make([]string, len(codes))
	for i, code := range codes {
		label := fmt.Sprintf("%d", code)
		if code == 0 {
			label = "error"
		}
		parts[i] = fmt.Sprintf("%s×%d", label, statuses[code])
	}
	return strings.Join(parts, "  ")
}

func round(d time.Duration) time.Duration {
	switch {
	case d >= time.Second:
		return d.Round(time.Millisecond)
	case d >= time.Millisecond:
		return d.Round(10 * time.Microsecond)
	}
	return d.Round(time.Microsecond)
}
