package config

import (
	"strconv"
	"strings"
)

// DefaultDurationSec is used when a duration cannot be parsed.
const DefaultDurationSec = 30

// DurationPresets are the selectable session lengths in seconds.
var DurationPresets = []int{15, 30, 60, 120}

// ParseDuration reads a session length in seconds. Empty, non-numeric or
// non-positive input falls back to DefaultDurationSec.
func ParseDuration(s string) int {
	s = strings.TrimSuffix(strings.TrimSpace(s), "s")
	if s == "" {
		return DefaultDurationSec
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return DefaultDurationSec
	}
	return n
}

// NextPreset returns the preset after current. Custom values jump to the
// first preset larger than them, or wrap to the smallest.
func NextPreset(current int) int {
	for _, p := range DurationPresets {
		if p > current {
			return p
		}
	}
	return DurationPresets[0]
}
