// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/typedash/internal/config"
	"github.com/verte-zerg/typedash/internal/engine"
	"github.com/verte-zerg/typedash/internal/model"
	"github.com/verte-zerg/typedash/internal/passage"
	statsPkg "github.com/verte-zerg/typedash/internal/stats"
	"github.com/verte-zerg/typedash/internal/store"
)

const progressBarWidth = 24

type tickMsg struct {
	gen uint64
}

// CatalogMsg delivers a reloaded passage catalog to the running program.
type CatalogMsg struct {
	Catalog passage.Catalog
	Err     error
}

// Model implements the Bubble Tea typing UI.
type Model struct {
	session  *engine.Session
	provider *passage.Provider
	store    *store.Store
	logger   *slog.Logger

	input     textinput.Model
	submitted string
	theme     model.Theme
	styles    styles
	history   []model.HistoryEntry
	notice    string

	width  int
	height int
}

// NewModel constructs a typing TUI model.
func NewModel(cfg model.Config, st *store.Store, provider *passage.Provider) *Model {
	opts := engine.Options{
		DurationSec: cfg.DurationSec,
		Difficulty:  cfg.Difficulty,
		Endless:     cfg.Endless,
	}
	if opts.DurationSec <= 0 {
		opts.DurationSec = config.DefaultDurationSec
	}
	if opts.Difficulty == "" {
		opts.Difficulty = model.Easy
	}

	input := textinput.New()
	input.Prompt = "> "
	input.Placeholder = "start typing"
	input.CharLimit = 0
	input.Focus()

	m := &Model{
		session:  engine.NewSession(opts, provider, nil),
		provider: provider,
		store:    st,
		logger:   slog.Default(),
		input:    input,
		theme:    model.ThemeDark,
	}
	ctx := context.Background()
	if theme, err := st.Theme(ctx); err != nil {
		m.logger.Warn("failed to load theme", "error", err)
	} else {
		m.theme = theme
	}
	m.styles = newStyles(m.theme)
	m.loadHistory()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		return m, m.handleTick(msg)
	case CatalogMsg:
		m.handleCatalog(msg)
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, tea.Batch(cmd, m.applyInput())
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.session.Stop()
		return m, tea.Quit
	case "ctrl+n":
		m.restart(true)
		return m, nil
	case "ctrl+r":
		m.restart(false)
		return m, nil
	case "tab":
		m.session.SetDifficulty(m.session.Options().Difficulty.Next())
		m.restartInput()
		return m, nil
	case "ctrl+t":
		m.session.SetDuration(config.NextPreset(m.session.Options().DurationSec))
		m.restartInput()
		return m, nil
	case "ctrl+e":
		m.session.SetEndless(!m.session.Options().Endless)
		return m, nil
	case "ctrl+l":
		m.toggleTheme()
		return m, nil
	case "ctrl+x":
		m.clearHistory()
		return m, nil
	case "enter":
		if m.session.State() == engine.StateFinished {
			m.restart(true)
		}
		return m, nil
	}

	if m.session.State() == engine.StateFinished {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, tea.Batch(cmd, m.applyInput())
}

// applyInput hands the input buffer to the session whenever it changed,
// whichever message changed it.
func (m *Model) applyInput() tea.Cmd {
	value := m.input.Value()
	if value == m.submitted || m.session.State() == engine.StateFinished {
		return nil
	}
	m.submitted = value
	out := m.session.Submit(value)
	var cmd tea.Cmd
	if out.Started {
		cmd = m.scheduleTick()
	}
	if out.RolledOver {
		m.input.SetValue("")
		m.submitted = ""
	}
	if out.Finished {
		m.finish()
	}
	return cmd
}

func (m *Model) handleTick(msg tickMsg) tea.Cmd {
	applied, finished := m.session.Tick(msg.gen)
	if finished {
		m.finish()
		return nil
	}
	if !applied {
		return nil
	}
	return m.scheduleTick()
}

func (m *Model) scheduleTick() tea.Cmd {
	gen := m.session.TimerGeneration()
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{gen: gen}
	})
}

func (m *Model) handleCatalog(msg CatalogMsg) {
	if msg.Err != nil {
		m.notice = "passages not reloaded: " + msg.Err.Error()
		m.logger.Warn("failed to reload passages", "error", msg.Err)
		return
	}
	m.provider.SetCatalog(msg.Catalog)
	m.notice = fmt.Sprintf("passages reloaded (%d)", msg.Catalog.Count())
	m.logger.Info("passages reloaded", "count", msg.Catalog.Count())
	if m.session.State() == engine.StateIdle {
		m.restart(true)
	}
}

func (m *Model) restart(newPassage bool) {
	m.session.Reset(newPassage)
	m.restartInput()
}

func (m *Model) restartInput() {
	m.input.SetValue("")
	m.submitted = ""
	m.input.Focus()
}

func (m *Model) finish() {
	m.input.Blur()
	entry, ok := m.session.Result()
	if !ok {
		return
	}
	m.logger.Info("session finished",
		"session", m.session.ID(),
		"wpm", entry.WPM,
		"accuracy", entry.Accuracy,
		"chars", entry.Chars,
		"errors", entry.Errors,
		"rollovers", m.session.Rollovers(),
	)
	if err := m.store.RecordHistory(context.Background(), entry); err != nil {
		m.logger.Error("failed to save history", "error", err)
		m.notice = "history not saved"
	}
	m.loadHistory()
}

func (m *Model) loadHistory() {
	history, err := m.store.ListHistory(context.Background())
	if err != nil {
		m.logger.Error("failed to load history", "error", err)
		return
	}
	m.history = history
}

func (m *Model) toggleTheme() {
	m.theme = m.theme.Toggle()
	m.styles = newStyles(m.theme)
	if err := m.store.SetTheme(context.Background(), m.theme); err != nil {
		m.logger.Error("failed to save theme", "error", err)
	}
}

func (m *Model) clearHistory() {
	if err := m.store.ClearHistory(context.Background()); err != nil {
		m.logger.Error("failed to clear history", "error", err)
		return
	}
	m.history = nil
	m.notice = "history cleared"
}

// View implements tea.Model.
func (m *Model) View() string {
	contentWidth := 0
	if m.width > 0 {
		contentWidth = max(1, int(float64(m.width)*0.70))
	}

	cursor := -1
	if m.session.State() != engine.StateFinished {
		cursor = m.session.Cursor()
	}
	passageRunes := buildStyledRunes(m.styles, m.session.TargetRunes(), m.session.Marks(), cursor)

	sections := []string{
		m.renderHeader(),
		"",
		wrapStyledRunes(passageRunes, contentWidth),
		"",
		m.input.View(),
		m.renderStatus(),
	}
	if entry, ok := m.session.Result(); ok {
		sections = append(sections, "", m.renderResults(entry))
	}
	sections = append(sections, "", m.renderHistory())
	if m.notice != "" {
		sections = append(sections, m.styles.muted.Render(m.notice))
	}
	sections = append(sections, "", m.renderHelp())

	content := strings.Join(sections, "\n")
	if m.width == 0 || m.height == 0 {
		return content
	}
	content = lipgloss.NewStyle().Width(contentWidth).Render(content)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m *Model) renderHeader() string {
	opts := m.session.Options()
	mode := "timed"
	if opts.Endless {
		mode = "endless"
	}
	return strings.Join([]string{
		m.styles.title.Render(fmt.Sprintf("%ds", m.session.Remaining())),
		m.styles.muted.Render(string(opts.Difficulty)),
		m.styles.muted.Render(fmt.Sprintf("%ds session", opts.DurationSec)),
		m.styles.muted.Render(mode),
	}, "  ")
}

func (m *Model) renderStatus() string {
	progress := m.session.Progress()
	return strings.Join([]string{
		statusText(m.session.Cursor(), len(m.session.TargetRunes()), m.session.Errors(), progress),
		renderProgressBar(m.styles, progress, progressBarWidth),
	}, "  ")
}

func statusText(cursor, total, errors, progress int) string {
	return fmt.Sprintf("%d / %d chars · Errors: %d · %d%%", cursor, total, errors, progress)
}

func (m *Model) renderResults(entry model.HistoryEntry) string {
	lines := []string{
		m.styles.title.Render("Results"),
		fmt.Sprintf("WPM %s   Accuracy %s",
			m.styles.value.Render(fmt.Sprintf("%d", entry.WPM)),
			m.styles.value.Render(fmt.Sprintf("%d%%", entry.Accuracy))),
		fmt.Sprintf("%d chars · %d errors · %ds", entry.Chars, entry.Errors, entry.Duration),
	}
	if r := m.session.Rollovers(); r > 0 {
		lines = append(lines, fmt.Sprintf("%d passages completed", r))
	}
	return m.styles.results.Render(strings.Join(lines, "\n"))
}

func (m *Model) renderHistory() string {
	if len(m.history) == 0 {
		return m.styles.muted.Render("No history yet.")
	}
	lines := make([]string, 0, len(m.history)+1)
	lines = append(lines, m.styles.title.Render("History"))
	for _, entry := range m.history {
		lines = append(lines, m.styles.muted.Render(statsPkg.HistoryLine(entry)))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderHelp() string {
	return m.styles.muted.Render("ctrl+n new text · ctrl+r reset · tab difficulty · ctrl+t duration · ctrl+e endless · ctrl+l theme · ctrl+x clear history · esc quit")
}
