package stats

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/typedash/internal/model"
)

// RenderHistory writes history entries as an aligned table, newest first.
func RenderHistory(w io.Writer, entries []model.HistoryEntry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No history yet.")
		return err
	}
	headers := []string{"When", "WPM", "Accuracy", "Chars", "Errors", "Duration", "Difficulty"}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, HistoryRow(e))
	}
	rightAlign := map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderSummary writes aggregate lines for entries.
func RenderSummary(w io.Writer, entries []model.HistoryEntry) error {
	if len(entries) == 0 {
		return nil
	}
	s := Summarize(entries)
	lines := []string{
		fmt.Sprintf("Sessions: %d", s.Sessions),
		fmt.Sprintf("Avg WPM: %.1f", s.AvgWPM),
		fmt.Sprintf("Best WPM: %d", s.BestWPM),
		fmt.Sprintf("Avg Accuracy: %.1f%%", s.AvgAccuracy),
		fmt.Sprintf("Trend: %s", Sparkline(WPMSeries(entries))),
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// HistoryRow formats one entry as table cells.
func HistoryRow(e model.HistoryEntry) []string {
	return []string{
		e.Timestamp.Local().Format("2006-01-02 15:04"),
		fmt.Sprintf("%d", e.WPM),
		fmt.Sprintf("%d%%", e.Accuracy),
		fmt.Sprintf("%d", e.Chars),
		fmt.Sprintf("%d", e.Errors),
		fmt.Sprintf("%ds", e.Duration),
		string(e.Difficulty),
	}
}

// HistoryLine formats one entry for compact lists.
func HistoryLine(e model.HistoryEntry) string {
	return fmt.Sprintf("%d WPM • %d%% acc • %d chars • %d errors   %ds • %s",
		e.WPM, e.Accuracy, e.Chars, e.Errors, e.Duration, e.Difficulty)
}

func formatTable(headers []string, rows [][]string, rightAlignCols map[int]bool) []string {
	colCount := len(headers)
	for _, row := range rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}
	if colCount == 0 {
		return nil
	}

	widths := make([]int, colCount)
	for i, header := range headers {
		widths[i] = runewidth.StringWidth(header)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	lines := make([]string, 0, len(rows)+1)
	if len(headers) > 0 {
		lines = append(lines, formatRow(headers, widths, rightAlignCols))
	}
	for _, row := range rows {
		lines = append(lines, formatRow(row, widths, rightAlignCols))
	}
	return lines
}

func formatRow(row []string, widths []int, rightAlignCols map[int]bool) string {
	var b strings.Builder
	for i := 0; i < len(widths); i++ {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(padCell(cell, widths[i], rightAlignCols[i]))
	}
	return strings.TrimRight(b.String(), " ")
}

func padCell(value string, width int, rightAlign bool) string {
	if rightAlign {
		return runewidth.FillLeft(value, width)
	}
	return runewidth.FillRight(value, width)
}
