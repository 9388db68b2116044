// Package passage supplies practice texts keyed by difficulty.
package passage

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/typedash/internal/model"
)

// Catalog maps each difficulty tier to its passages.
type Catalog map[model.Difficulty][]string

// DefaultCatalog returns the built-in passages.
func DefaultCatalog() Catalog {
	return Catalog{
		model.Easy: {
			"The quick brown fox jumps over the lazy dog.",
			"Practice makes perfect. Keep typing to get faster.",
			"Small steps every day lead to big changes over time.",
		},
		model.Medium: {
			"Typing speed improves with consistent practice and proper posture.",
			"Focus on accuracy first; speed naturally follows as you build muscle memory.",
			"Discipline is choosing what you want most over what you want now.",
		},
		model.Hard: {
			"In the face of ambiguity, refuse the temptation to guess; measure, iterate, and refine deliberately.",
			"Constraint breeds creativity: by limiting options, we sharpen decisions and accelerate progress.",
			"Courage is not the absence of fear, but the mastery of it through intentional action.",
		},
	}
}

// Validate checks that every known tier has at least one passage and that no
// unknown tiers are present.
func (c Catalog) Validate() error {
	for d := range c {
		if _, err := model.ParseDifficulty(string(d)); err != nil {
			return err
		}
	}
	for _, d := range model.Difficulties {
		if len(c[d]) == 0 {
			return fmt.Errorf("no passages for difficulty %q", d)
		}
	}
	return nil
}

// Count returns the total number of passages.
func (c Catalog) Count() int {
	total := 0
	for _, list := range c {
		total += len(list)
	}
	return total
}

// LoadCatalog reads a YAML catalog file and overlays it on the built-in
// passages. Tiers missing from the file keep their defaults.
//
//	easy:
//	  - "First passage."
//	hard:
//	  - "Another passage."
func LoadCatalog(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes YAML catalog data. See LoadCatalog.
func ParseCatalog(data []byte) (Catalog, error) {
	var raw map[string][]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	catalog := DefaultCatalog()
	for name, list := range raw {
		d, err := model.ParseDifficulty(name)
		if err != nil {
			return nil, err
		}
		passages := make([]string, 0, len(list))
		for _, p := range list {
			p = strings.Join(strings.Fields(p), " ")
			if p == "" {
				continue
			}
			passages = append(passages, p)
		}
		if len(passages) == 0 {
			return nil, fmt.Errorf("no passages for difficulty %q", d)
		}
		catalog[d] = passages
	}
	if err := catalog.Validate(); err != nil {
		return nil, err
	}
	return catalog, nil
}
