package passage

import (
	"context"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/typedash/internal/model"
)

func TestDefaultCatalogIsValid(t *testing.T) {
	c := DefaultCatalog()
	require.NoError(t, c.Validate())
	assert.Equal(t, 9, c.Count())
}

func TestPickReturnsPassageFromTier(t *testing.T) {
	c := DefaultCatalog()
	p := NewProviderWithSource(c, rand.NewSource(1))
	for _, d := range model.Difficulties {
		for i := 0; i < 20; i++ {
			assert.Contains(t, c[d], p.Pick(d))
		}
	}
}

func TestPickCoversTier(t *testing.T) {
	c := DefaultCatalog()
	p := NewProviderWithSource(c, rand.NewSource(7))
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		seen[p.Pick(model.Easy)] = true
	}
	assert.Len(t, seen, len(c[model.Easy]))
}

func TestPickUnknownTierPanics(t *testing.T) {
	p := NewProvider(DefaultCatalog())
	assert.Panics(t, func() { p.Pick(model.Difficulty("insane")) })
}

func TestParseCatalogOverlaysDefaults(t *testing.T) {
	data := []byte("easy:\n  - \"  one   two \"\n  - \"\"\n  - three\n")
	c, err := ParseCatalog(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"one two", "three"}, c[model.Easy])
	assert.Equal(t, DefaultCatalog()[model.Hard], c[model.Hard])
}

func TestParseCatalogRejectsUnknownTier(t *testing.T) {
	_, err := ParseCatalog([]byte("expert:\n  - text\n"))
	require.Error(t, err)
}

func TestParseCatalogRejectsEmptyTier(t *testing.T) {
	_, err := ParseCatalog([]byte("medium: []\n"))
	require.Error(t, err)
}

func TestParseCatalogRejectsMalformedYAML(t *testing.T) {
	_, err := ParseCatalog([]byte("easy: [unterminated"))
	require.Error(t, err)
}

func TestLoadCatalogMissingFile(t *testing.T) {
	_, err := LoadCatalog(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestWatchReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "passages.yaml")
	require.NoError(t, os.WriteFile(path, []byte("easy:\n  - first\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan Catalog, 4)
	require.NoError(t, Watch(ctx, path, func(c Catalog, err error) {
		if err == nil {
			got <- c
		}
	}))
	require.NoError(t, os.WriteFile(path, []byte("easy:\n  - second\n"), 0o644))

	select {
	case c := <-got:
		assert.Equal(t, []string{"second"}, c[model.Easy])
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for catalog reload")
	}
}
