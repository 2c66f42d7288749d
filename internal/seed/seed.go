// Package seed loads the default menu and rebuilds a store from it.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"

	"menusvc/internal/models"
	"menusvc/internal/repositories"

	"gopkg.in/yaml.v3"
)

//go:embed menu.yaml
var defaultMenu []byte

type menuFile struct {
	Items []menuEntry `yaml:"items"`
}

type menuEntry struct {
	ID          int     `yaml:"id"`
	Category    string  `yaml:"category"`
	Description string  `yaml:"description"`
	Price       float64 `yaml:"price"`
	Vegetarian  bool    `yaml:"vegetarian"`
}

// Parse decodes a YAML menu, validating every entry.
func Parse(data []byte) ([]models.MenuItem, error) {
	var file menuFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse menu: %w", err)
	}

	seen := make(map[int]bool, len(file.Items))
	items := make([]models.MenuItem, 0, len(file.Items))
	for i, e := range file.Items {
		item, err := models.NewMenuItem(e.ID, e.Category, e.Description, e.Price, e.Vegetarian)
		if err != nil {
			return nil, fmt.Errorf("menu entry %d: %w", i, err)
		}
		if seen[item.ID] {
			return nil, fmt.Errorf("menu entry %d: duplicate id %d", i, item.ID)
		}
		seen[item.ID] = true
		items = append(items, *item)
	}
	return items, nil
}

// DefaultItems returns the embedded default menu.
func DefaultItems() ([]models.MenuItem, error) {
	return Parse(defaultMenu)
}

// Rebuild replaces the contents of store with the default menu.
func Rebuild(ctx context.Context, store repositories.Rebuilder) (int, error) {
	items, err := DefaultItems()
	if err != nil {
		return 0, err
	}
	if err := store.Rebuild(ctx, items); err != nil {
		return 0, fmt.Errorf("failed to seed menu: %w", err)
	}
	slog.Info("menu seeded", "items", len(items))
	return len(items), nil
}
