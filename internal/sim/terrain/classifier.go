// Package terrain answers "what ground is under this point" and "which way is
// downhill" for the rescue simulation. Both queries are pure functions of the
// static zone list built once per mission.
package terrain

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/tui-avalanche/internal/core"
)

// Category is a discrete ground type. The zero value is OpenSnow.
type Category int

const (
	OpenSnow Category = iota
	Powder
	Trees
	RidgeRock
	Gully
)

// Categories lists every category in declaration order.
var Categories = []Category{OpenSnow, Powder, Trees, RidgeRock, Gully}

// String returns the config name of the category.
func (c Category) String() string {
	switch c {
	case OpenSnow:
		return "open"
	case Powder:
		return "powder"
	case Trees:
		return "trees"
	case RidgeRock:
		return "ridge"
	case Gully:
		return "gully"
	default:
		return "unknown"
	}
}

// ParseCategory converts a config name into a Category.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "open", "open_snow":
		return OpenSnow, nil
	case "powder":
		return Powder, nil
	case "trees":
		return Trees, nil
	case "ridge", "ridge_rock":
		return RidgeRock, nil
	case "gully":
		return Gully, nil
	default:
		return OpenSnow, fmt.Errorf("terrain: unknown category %q", s)
	}
}

// Zone is an axis-aligned region tagged with a category.
type Zone struct {
	Category Category
	Rect     core.WorldRect
	Label    string
}

// Classifier maps world points to categories using an ordered zone list.
type Classifier struct {
	zones []Zone
}

// NewClassifier builds a classifier. Later zones win where zones overlap.
func NewClassifier(zones []Zone) *Classifier {
	cp := make([]Zone, len(zones))
	copy(cp, zones)
	return &Classifier{zones: cp}
}

// Classify returns the category at (x, z), or OpenSnow outside every zone.
func (c *Classifier) Classify(x, z float64) Category {
	if c == nil {
		return OpenSnow
	}
	for i := len(c.zones) - 1; i >= 0; i-- {
		if c.zones[i].Rect.Contains(x, z) {
			return c.zones[i].Category
		}
	}
	return OpenSnow
}

// Zones returns a copy of the registered zones in registration order.
func (c *Classifier) Zones() []Zone {
	if c == nil {
		return nil
	}
	cp := make([]Zone, len(c.zones))
	copy(cp, c.zones)
	return cp
}
