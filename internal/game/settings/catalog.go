package settings

import (
	"bufio"
	"fmt"
	"math/rand"
	"os"
	"strings"
)

// FallbackSetting is used whenever the catalog cannot serve a request:
// missing file, empty category, unknown band.
const FallbackSetting = "a quiet village at the edge of a vast forest"

// Karma-band category names, best to worst. A categorized catalog file uses
// these as its bracketed section headers.
const (
	CategoryBlessed  = "BLESSED"
	CategoryHonored  = "HONORED"
	CategoryFavored  = "FAVORED"
	CategoryNeutral  = "NEUTRAL"
	CategoryTroubled = "TROUBLED"
	CategoryCursed   = "CURSED"
	CategoryDamned   = "DAMNED"
)

// Catalog is a loaded settings file: either a flat list (every setting in the
// NEUTRAL category) or a karma-categorized one with [CATEGORY] headers.
type Catalog struct {
	categories map[string][]string
}

// Load reads a settings catalog. Lines starting with '#' and blank lines are
// ignored. A line of the form [NAME] opens a category; lines before any
// header (or the whole file, if headerless) land in NEUTRAL.
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open settings catalog: %w", err)
	}
	defer f.Close()

	categories := make(map[string][]string)
	current := CategoryNeutral

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			current = strings.ToUpper(strings.TrimSpace(line[1 : len(line)-1]))
			continue
		}
		categories[current] = append(categories[current], line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read settings catalog: %w", err)
	}

	return &Catalog{categories: categories}, nil
}

// CategoryForKarma maps a karma value onto one of the seven band categories.
func CategoryForKarma(karma int) string {
	switch {
	case karma > 75:
		return CategoryBlessed
	case karma > 35:
		return CategoryHonored
	case karma > 0:
		return CategoryFavored
	case karma == 0:
		return CategoryNeutral
	case karma >= -35:
		return CategoryTroubled
	case karma >= -75:
		return CategoryCursed
	default:
		return CategoryDamned
	}
}

// Pick selects a setting for the given karma value. If the band's category is
// empty it falls back to NEUTRAL, and then to the fixed default setting.
func (c *Catalog) Pick(karma int, rng *rand.Rand) string {
	if c == nil {
		return FallbackSetting
	}

	options := c.categories[CategoryForKarma(karma)]
	if len(options) == 0 {
		options = c.categories[CategoryNeutral]
	}
	if len(options) == 0 {
		return FallbackSetting
	}

	return options[rng.Intn(len(options))]
}
