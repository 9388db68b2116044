// Package stats contains scoring, summaries and text rendering helpers.
package stats

import (
	"math"
	"strings"
	"time"

	"github.com/verte-zerg/typedash/internal/model"
)

const (
	sparkChars = " .:-=+*#%@"

	// CharsPerWord is the standard word length used for WPM.
	CharsPerWord = 5
	// MinElapsed floors the WPM denominator so instant finishes stay finite.
	MinElapsed = time.Second
)

// Score is the final result of a session.
type Score struct {
	WPM      int
	Accuracy int
}

// Compute scores a session from its keystroke counts and elapsed time.
func Compute(typed, errors int, elapsed time.Duration) Score {
	return Score{WPM: WPM(typed, elapsed), Accuracy: Accuracy(typed, errors)}
}

// WPM returns gross words per minute: errors are not subtracted.
func WPM(typed int, elapsed time.Duration) int {
	if elapsed < MinElapsed {
		elapsed = MinElapsed
	}
	minutes := float64(elapsed.Milliseconds()) / 60000.0
	return int(math.Round((float64(typed) / CharsPerWord) / minutes))
}

// Accuracy returns the integer percentage of typed characters that were
// correct, or 100 when nothing was typed.
func Accuracy(typed, errors int) int {
	if typed <= 0 {
		return 100
	}
	return int(math.Round(float64(typed-errors) / float64(typed) * 100))
}

// Progress returns the rounded share of the passage covered by cursor,
// clamped to [0, 100].
func Progress(cursor, length int) int {
	if length <= 0 || cursor <= 0 {
		return 0
	}
	pct := int(math.Round(float64(cursor) / float64(length) * 100))
	if pct > 100 {
		return 100
	}
	return pct
}

// Summary aggregates a list of history entries.
type Summary struct {
	Sessions    int
	AvgWPM      float64
	BestWPM     int
	AvgAccuracy float64
	TotalChars  int
	TotalErrors int
}

// Summarize aggregates entries.
func Summarize(entries []model.HistoryEntry) Summary {
	var s Summary
	if len(entries) == 0 {
		return s
	}
	var totalWPM, totalAcc float64
	for _, e := range entries {
		totalWPM += float64(e.WPM)
		totalAcc += float64(e.Accuracy)
		if e.WPM > s.BestWPM {
			s.BestWPM = e.WPM
		}
		s.TotalChars += e.Chars
		s.TotalErrors += e.Errors
	}
	s.Sessions = len(entries)
	s.AvgWPM = totalWPM / float64(len(entries))
	s.AvgAccuracy = totalAcc / float64(len(entries))
	return s
}

// WPMSeries returns WPM values oldest first from newest-first entries.
func WPMSeries(entries []model.HistoryEntry) []float64 {
	out := make([]float64, len(entries))
	for i, e := range entries {
		out[len(entries)-1-i] = float64(e.WPM)
	}
	return out
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}
