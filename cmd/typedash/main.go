// Package main provides the CLI entrypoint for typedash.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/typedash/internal/config"
	"github.com/verte-zerg/typedash/internal/historyui"
	"github.com/verte-zerg/typedash/internal/logging"
	"github.com/verte-zerg/typedash/internal/model"
	"github.com/verte-zerg/typedash/internal/passage"
	"github.com/verte-zerg/typedash/internal/stats"
	"github.com/verte-zerg/typedash/internal/store"
	"github.com/verte-zerg/typedash/internal/tui"
)

const (
	defaultDifficulty = model.Easy
	defaultLogLevel   = "info"
)

var (
	practiceDuration   string
	practiceDifficulty string
	practiceEndless    bool
	practiceCatalog    string

	logLevel  string
	logCloser io.Closer

	historyClear bool
	historyPlain bool

	passagesDifficulty string
)

func main() {
	rootCmd := newRootCmd()
	err := rootCmd.Execute()
	closeQuietly(logCloser, "log file")
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:              "typedash",
		Short:            "Timed typing-speed trainer",
		SilenceUsage:     true,
		SilenceErrors:    false,
		PersistentPreRun: initLogging,
		RunE:             runPracticeCmd,
	}

	rootCmd.Flags().StringVar(&practiceDuration, "duration", fmt.Sprintf("%d", config.DefaultDurationSec), "session length in seconds (15, 30, 60, 120 or any positive number)")
	rootCmd.Flags().StringVar(&practiceDifficulty, "difficulty", string(defaultDifficulty), "passage difficulty (easy, medium, hard)")
	rootCmd.Flags().BoolVar(&practiceEndless, "endless", false, "load a new passage after each completed one until time runs out")
	rootCmd.Flags().StringVar(&practiceCatalog, "catalog", "", "YAML passage catalog (default: config dir passages.yaml when present)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", defaultLogLevel, "log level (debug, info, warn, error)")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newThemeCmd())
	rootCmd.AddCommand(newPassagesCmd())

	return rootCmd
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "duration", &practiceDuration, fileCfg.Practice.Duration)
	applyStringConfig(cmd, "difficulty", &practiceDifficulty, fileCfg.Practice.Difficulty)
	applyBoolConfig(cmd, "endless", &practiceEndless, fileCfg.Practice.Endless)
	applyStringConfig(cmd, "catalog", &practiceCatalog, fileCfg.Practice.Catalog)

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	catalog, catalogPath, err := resolveCatalog(cfg.CatalogPath)
	if err != nil {
		return err
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer closeQuietly(st, "db")

	slog.Info("practice started",
		"duration", cfg.DurationSec,
		"difficulty", cfg.Difficulty,
		"endless", cfg.Endless,
		"passages", catalog.Count(),
	)

	m := tui.NewModel(cfg, st, passage.NewProvider(catalog))
	program := tea.NewProgram(m, tea.WithAltScreen())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if catalogPath != "" {
		err := passage.Watch(ctx, catalogPath, func(c passage.Catalog, err error) {
			program.Send(tui.CatalogMsg{Catalog: c, Err: err})
		})
		if err != nil {
			slog.Warn("catalog hot reload disabled", "path", catalogPath, "error", err)
		}
	}

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func buildConfig() (model.Config, error) {
	difficulty, err := model.ParseDifficulty(practiceDifficulty)
	if err != nil {
		return model.Config{}, fmt.Errorf("invalid --difficulty: %w", err)
	}
	return model.Config{
		DurationSec: config.ParseDuration(practiceDuration),
		Difficulty:  difficulty,
		Endless:     practiceEndless,
		CatalogPath: strings.TrimSpace(practiceCatalog),
	}, nil
}

// resolveCatalog returns the catalog to practice with and the file to watch.
// An explicit path must load; the default path is optional.
func resolveCatalog(path string) (passage.Catalog, string, error) {
	if path != "" {
		catalog, err := passage.LoadCatalog(path)
		if err != nil {
			return nil, "", err
		}
		return catalog, path, nil
	}
	path = config.DefaultCatalogPath()
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("failed to stat catalog", "path", path, "error", err)
		}
		return passage.DefaultCatalog(), "", nil
	}
	catalog, err := passage.LoadCatalog(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load %s: %w", path, err)
	}
	return catalog, path, nil
}

// initLogging installs the file logger before any command runs. An unreadable
// config only costs the configured level here; practice reports it.
func initLogging(cmd *cobra.Command, _ []string) {
	if fileCfg, err := config.LoadConfig(config.DefaultConfigPath()); err == nil {
		applyStringConfig(cmd, "log-level", &logLevel, fileCfg.Log.Level)
	}
	closeQuietly(logCloser, "log file")
	logCloser = setupLogging(logLevel)
}

func setupLogging(level string) io.Closer {
	closer, err := logging.Setup(config.DefaultLogPath(), logging.ParseLevel(level))
	if err != nil {
		logErrf("logging disabled: %v\n", err)
		slog.SetDefault(logging.Discard())
		return nil
	}
	return closer
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent session results",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().BoolVar(&historyClear, "clear", false, "delete all saved results")
	cmd.Flags().BoolVar(&historyPlain, "plain", false, "print a text table instead of the interactive view")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer closeQuietly(st, "db")

	ctx := context.Background()
	out := cmd.OutOrStdout()
	if historyClear {
		if err := st.ClearHistory(ctx); err != nil {
			return fmt.Errorf("failed to clear history: %w", err)
		}
		return writeLine(out, "History cleared.")
	}

	if !historyPlain && isTerminal(out) {
		program := tea.NewProgram(historyui.NewModel(st), tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("failed to run history TUI: %w", err)
		}
		return nil
	}

	entries, err := st.ListHistory(ctx)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	return printHistory(out, entries)
}

func printHistory(w io.Writer, entries []model.HistoryEntry) error {
	if err := stats.RenderHistory(w, entries); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if len(entries) == 0 {
		return nil
	}
	if err := writeLine(w, ""); err != nil {
		return err
	}
	if err := stats.RenderSummary(w, entries); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func newThemeCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "theme [light|dark|toggle]",
		Short:     "Show or change the color theme",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(model.ThemeLight), string(model.ThemeDark), "toggle"},
		RunE:      runThemeCmd,
	}
}

func runThemeCmd(cmd *cobra.Command, args []string) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer closeQuietly(st, "db")

	ctx := context.Background()
	current, err := st.Theme(ctx)
	if err != nil {
		return fmt.Errorf("failed to load theme: %w", err)
	}
	if len(args) == 0 {
		return writeLine(cmd.OutOrStdout(), string(current))
	}
	next, err := nextTheme(current, args[0])
	if err != nil {
		return err
	}
	if err := st.SetTheme(ctx, next); err != nil {
		return fmt.Errorf("failed to save theme: %w", err)
	}
	return writeLine(cmd.OutOrStdout(), string(next))
}

func nextTheme(current model.Theme, arg string) (model.Theme, error) {
	if strings.EqualFold(strings.TrimSpace(arg), "toggle") {
		return current.Toggle(), nil
	}
	return model.ParseTheme(arg)
}

func newPassagesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "passages",
		Short: "List practice passages",
		Args:  cobra.NoArgs,
		RunE:  runPassagesCmd,
	}
	cmd.Flags().StringVar(&passagesDifficulty, "difficulty", "", "only list one tier")
	cmd.Flags().StringVar(&practiceCatalog, "catalog", "", "YAML passage catalog")
	return cmd
}

func runPassagesCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "catalog", &practiceCatalog, fileCfg.Practice.Catalog)

	catalog, _, err := resolveCatalog(strings.TrimSpace(practiceCatalog))
	if err != nil {
		return err
	}
	tiers := model.Difficulties
	if passagesDifficulty != "" {
		d, err := model.ParseDifficulty(passagesDifficulty)
		if err != nil {
			return fmt.Errorf("invalid --difficulty: %w", err)
		}
		tiers = []model.Difficulty{d}
	}
	return printPassages(cmd.OutOrStdout(), catalog, tiers)
}

func printPassages(w io.Writer, catalog passage.Catalog, tiers []model.Difficulty) error {
	for i, d := range tiers {
		if i > 0 {
			if err := writeLine(w, ""); err != nil {
				return err
			}
		}
		if err := writeLine(w, fmt.Sprintf("%s (%d)", d, len(catalog[d]))); err != nil {
			return err
		}
		for _, p := range catalog[d] {
			if err := writeLine(w, "  "+p); err != nil {
				return err
			}
		}
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# typedash configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# duration = "%d"          # Seconds: 15, 30, 60, 120 or any positive number
# difficulty = %q       # easy, medium or hard
# endless = false         # Load a new passage after each completed one
# catalog = %q
#                         # YAML file with extra passages per difficulty

[log]
# level = %q            # debug, info, warn or error
`,
		config.DefaultDurationSec,
		string(defaultDifficulty),
		config.DefaultCatalogPath(),
		defaultLogLevel,
	)
}

func writeLine(w io.Writer, line string) error {
	if _, err := fmt.Fprintln(w, line); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func closeQuietly(c io.Closer, what string) {
	if c == nil {
		return
	}
	if err := c.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
		logErrf("failed to close %s: %v\n", what, err)
	}
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
