// Package model defines shared data structures.
package model

import (
	"fmt"
	"strings"
	"time"
)

// Difficulty selects a passage tier.
type Difficulty string

// Known difficulty tiers.
const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// Difficulties lists the tiers in display order.
var Difficulties = []Difficulty{Easy, Medium, Hard}

// ParseDifficulty validates a difficulty name.
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Difficulties {
		if d == known {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown difficulty %q (use easy, medium or hard)", s)
}

// Next returns the tier after d, wrapping around.
func (d Difficulty) Next() Difficulty {
	for i, known := range Difficulties {
		if d == known {
			return Difficulties[(i+1)%len(Difficulties)]
		}
	}
	return Easy
}

// Theme is the persisted color preference.
type Theme string

// Supported themes.
const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// Toggle flips between light and dark.
func (t Theme) Toggle() Theme {
	if t == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}

// ParseTheme validates a theme name.
func ParseTheme(s string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case ThemeDark:
		return ThemeDark, nil
	case ThemeLight:
		return ThemeLight, nil
	}
	return "", fmt.Errorf("unknown theme %q (use light or dark)", s)
}

// Config defines practice settings.
type Config struct {
	DurationSec int
	Difficulty  Difficulty
	Endless     bool
	CatalogPath string
}

// HistoryEntry is the persisted result of one completed session.
type HistoryEntry struct {
	Timestamp  time.Time  `json:"timestamp"`
	WPM        int        `json:"wpm"`
	Accuracy   int        `json:"accuracy"`
	Chars      int        `json:"chars"`
	Errors     int        `json:"errors"`
	Duration   int        `json:"duration"` // seconds left on the countdown
	Difficulty Difficulty `json:"difficulty"`
}
