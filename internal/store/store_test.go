package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/typedash/internal/model"
)

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "typedash.db")
	st, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st, path
}

func entryWithWPM(wpm int) model.HistoryEntry {
	return model.HistoryEntry{
		Timestamp:  time.Date(2026, 1, 1, 0, 0, wpm, 0, time.UTC),
		WPM:        wpm,
		Accuracy:   95,
		Chars:      wpm * 5,
		Errors:     1,
		Duration:   30,
		Difficulty: model.Medium,
	}
}

func TestListHistoryEmpty(t *testing.T) {
	st, _ := openTestStore(t)
	entries, err := st.ListHistory(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRecordHistoryNewestFirst(t *testing.T) {
	st, _ := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, st.RecordHistory(ctx, entryWithWPM(1)))
	require.NoError(t, st.RecordHistory(ctx, entryWithWPM(2)))

	entries, err := st.ListHistory(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 2, entries[0].WPM)
	assert.Equal(t, 1, entries[1].WPM)
	assert.Equal(t, entryWithWPM(2), entries[0])
}

func TestRecordHistoryCapsAtTen(t *testing.T) {
	st, _ := openTestStore(t)
	ctx := context.Background()
	for i := 1; i <= 11; i++ {
		require.NoError(t, st.RecordHistory(ctx, entryWithWPM(i)))
	}
	entries, err := st.ListHistory(ctx)
	require.NoError(t, err)
	require.Len(t, entries, MaxHistory)
	for i, e := range entries {
		assert.Equal(t, 11-i, e.WPM)
	}
}

func TestClearHistory(t *testing.T) {
	st, _ := openTestStore(t)
	ctx := context.Background()
	for i := 0; i < 4; i++ {
		require.NoError(t, st.RecordHistory(ctx, entryWithWPM(i)))
	}
	require.NoError(t, st.ClearHistory(ctx))
	entries, err := st.ListHistory(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)

	// Clearing an empty history is fine.
	require.NoError(t, st.ClearHistory(ctx))
}

func TestHistorySurvivesReopen(t *testing.T) {
	st, path := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, st.RecordHistory(ctx, entryWithWPM(42)))
	require.NoError(t, st.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer func() {
		_ = reopened.Close()
	}()
	entries, err := reopened.ListHistory(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 42, entries[0].WPM)
}

func TestCorruptHistoryIsEmpty(t *testing.T) {
	st, _ := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, st.Set(ctx, HistoryKey, "{not json"))

	entries, err := st.ListHistory(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)

	require.NoError(t, st.RecordHistory(ctx, entryWithWPM(7)))
	entries, err = st.ListHistory(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestHistoryIsHumanReadableJSON(t *testing.T) {
	st, _ := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, st.RecordHistory(ctx, entryWithWPM(3)))
	raw, ok, err := st.Get(ctx, HistoryKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t,
		`[{"timestamp":"2026-01-01T00:00:03Z","wpm":3,"accuracy":95,"chars":15,"errors":1,"duration":30,"difficulty":"medium"}]`,
		raw)
}

func TestThemeDefaultsAndPersists(t *testing.T) {
	st, _ := openTestStore(t)
	ctx := context.Background()

	theme, err := st.Theme(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.ThemeDark, theme)

	require.NoError(t, st.SetTheme(ctx, model.ThemeLight))
	theme, err = st.Theme(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.ThemeLight, theme)

	require.NoError(t, st.Set(ctx, ThemeKey, "purple"))
	theme, err = st.Theme(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.ThemeDark, theme)
}

func TestGetSetDelete(t *testing.T) {
	st, _ := openTestStore(t)
	ctx := context.Background()
	_, ok, err := st.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, st.Set(ctx, "k", "v1"))
	require.NoError(t, st.Set(ctx, "k", "v2"))
	v, ok, err := st.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v2", v)

	require.NoError(t, st.Delete(ctx, "k"))
	_, ok, err = st.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}
