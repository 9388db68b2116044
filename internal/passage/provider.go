package passage

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/verte-zerg/typedash/internal/model"
)

// Provider picks passages from a catalog.
type Provider struct {
	rnd     *rand.Rand
	catalog Catalog
}

// NewProvider returns a Provider seeded with the current time.
func NewProvider(catalog Catalog) *Provider {
	return NewProviderWithSource(catalog, rand.NewSource(time.Now().UnixNano()))
}

// NewProviderWithSource returns a Provider using src for selection.
func NewProviderWithSource(catalog Catalog, src rand.Source) *Provider {
	return &Provider{rnd: rand.New(src), catalog: catalog}
}

// Pick selects a passage uniformly at random for the given tier. An unknown or
// empty tier is a programming error and panics.
func (p *Provider) Pick(d model.Difficulty) string {
	list := p.catalog[d]
	if len(list) == 0 {
		panic(fmt.Sprintf("passage: no passages for difficulty %q", d))
	}
	return list[p.rnd.Intn(len(list))]
}

// Catalog returns the active catalog.
func (p *Provider) Catalog() Catalog {
	return p.catalog
}

// SetCatalog swaps the active catalog. Callers validate first.
func (p *Provider) SetCatalog(c Catalog) {
	p.catalog = c
}
