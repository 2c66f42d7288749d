package repositories

import (
	"context"
	"fmt"

	"menusvc/internal/models"
)

// MenuItemAccessor defines CRUD access to the menu item collection.
// Items are matched by their business ID, never by the store's own identity.
type MenuItemAccessor interface {
	// GetAllItems returns every item sorted by ID ascending (empty, never nil).
	GetAllItems(ctx context.Context) ([]models.MenuItem, error)
	// GetItemByID returns the matching item, or nil if there is none.
	GetItemByID(ctx context.Context, id int) (*models.MenuItem, error)
	// ItemExists reports whether exactly one stored item has item.ID.
	ItemExists(ctx context.Context, item *models.MenuItem) (bool, error)
	// AddItem inserts item unless its ID is already taken.
	AddItem(ctx context.Context, item *models.MenuItem) (bool, error)
	// UpdateItem overwrites every field but the ID; false if the ID is unknown.
	UpdateItem(ctx context.Context, item *models.MenuItem) (bool, error)
	// DeleteItem reports whether exactly one item was removed.
	DeleteItem(ctx context.Context, item *models.MenuItem) (bool, error)
}

// Rebuilder replaces the whole collection. Used for seeding.
type Rebuilder interface {
	Rebuild(ctx context.Context, items []models.MenuItem) error
}

// StoreError is returned when the underlying store is unreachable or fails.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("could not complete %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func storeError(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}
