package historyui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/typedash/internal/model"
)

type fakeSource struct {
	entries []model.HistoryEntry
	err     error
	cleared int
}

func (f *fakeSource) ListHistory(context.Context) ([]model.HistoryEntry, error) {
	return f.entries, f.err
}

func (f *fakeSource) ClearHistory(context.Context) error {
	f.cleared++
	f.entries = nil
	return nil
}

func sampleEntries() []model.HistoryEntry {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return []model.HistoryEntry{
		{Timestamp: base.Add(2 * time.Minute), WPM: 60, Accuracy: 98, Chars: 300, Errors: 6, Duration: 60, Difficulty: model.Hard},
		{Timestamp: base.Add(time.Minute), WPM: 50, Accuracy: 95, Chars: 125, Errors: 6, Duration: 30, Difficulty: model.Medium},
		{Timestamp: base, WPM: 40, Accuracy: 90, Chars: 100, Errors: 10, Duration: 30, Difficulty: model.Easy},
	}
}

func sized(m *Model) *Model {
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return m
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestRecentTabListsEntries(t *testing.T) {
	m := sized(NewModel(&fakeSource{entries: sampleEntries()}))
	if got := len(m.recent.Rows()); got != 3 {
		t.Fatalf("expected 3 rows, got %d", got)
	}
	if m.recent.Rows()[0][1] != "60" {
		t.Fatalf("expected newest entry first, got %v", m.recent.Rows()[0])
	}
	if !strings.Contains(m.View(), "Recent") {
		t.Fatalf("expected tabs in view")
	}
}

func TestOverviewShowsSummary(t *testing.T) {
	out := renderOverview(sampleEntries(), 100)
	for _, want := range []string{"Sessions", "3", "Avg WPM", "50.0", "Best WPM", "60", "WPM trend"} {
		if !strings.Contains(out, want) {
			t.Fatalf("overview missing %q:\n%s", want, out)
		}
	}
}

func TestEmptyHistory(t *testing.T) {
	m := sized(NewModel(&fakeSource{}))
	if !strings.Contains(m.View(), "No history yet.") {
		t.Fatalf("expected empty notice")
	}
}

func TestTabNavigationWraps(t *testing.T) {
	m := sized(NewModel(&fakeSource{entries: sampleEntries()}))
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.activeTab != tabOverview {
		t.Fatalf("expected overview tab")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.activeTab != tabRecent {
		t.Fatalf("expected wrap to recent tab")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	if m.activeTab != tabOverview {
		t.Fatalf("expected wrap back to overview tab")
	}
}

func TestClearRequiresConfirmation(t *testing.T) {
	src := &fakeSource{entries: sampleEntries()}
	m := sized(NewModel(src))

	m.Update(key("x"))
	m.Update(key("n"))
	if src.cleared != 0 || len(m.entries) != 3 {
		t.Fatalf("expected history kept after cancel")
	}

	m.Update(key("x"))
	if !strings.Contains(m.View(), "Clear all history?") {
		t.Fatalf("expected confirmation prompt")
	}
	m.Update(key("y"))
	if src.cleared != 1 {
		t.Fatalf("expected history cleared once, got %d", src.cleared)
	}
	if len(m.entries) != 0 || len(m.recent.Rows()) != 0 {
		t.Fatalf("expected empty view after clear")
	}
}

func TestNoticeClearedOnNextKey(t *testing.T) {
	m := sized(NewModel(&fakeSource{entries: sampleEntries()}))
	m.Update(key("x"))
	m.Update(key("y"))
	if !strings.Contains(m.View(), "History cleared.") {
		t.Fatalf("expected cleared notice")
	}
	m.Update(key("r"))
	if m.notice != "" || strings.Contains(m.View(), "History cleared.") {
		t.Fatalf("expected notice dropped after the next key")
	}
}

func TestLoadErrorShown(t *testing.T) {
	m := sized(NewModel(&fakeSource{err: errors.New("disk gone")}))
	if !strings.Contains(m.View(), "disk gone") {
		t.Fatalf("expected error in footer")
	}
}

func TestQuit(t *testing.T) {
	m := NewModel(&fakeSource{})
	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
}

func TestTruncateLine(t *testing.T) {
	if got := truncateLine("abcdefgh", 6); got != "abc..." {
		t.Fatalf("unexpected truncation %q", got)
	}
	if got := truncateLine("abc", 6); got != "abc" {
		t.Fatalf("unexpected truncation %q", got)
	}
}
