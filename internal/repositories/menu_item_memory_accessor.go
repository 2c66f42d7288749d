package repositories

import (
	"context"
	"sort"
	"sync"

	"menusvc/internal/models"
)

// MemoryMenuItemAccessor is an in-memory implementation of MenuItemAccessor.
type MemoryMenuItemAccessor struct {
	items map[int]models.MenuItem
	mu    sync.RWMutex
}

// NewMemoryMenuItemAccessor creates a new instance of MemoryMenuItemAccessor.
func NewMemoryMenuItemAccessor() *MemoryMenuItemAccessor {
	return &MemoryMenuItemAccessor{
		items: make(map[int]models.MenuItem),
	}
}

// GetAllItems returns all items sorted by ID.
func (r *MemoryMenuItemAccessor) GetAllItems(_ context.Context) ([]models.MenuItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	itemList := make([]models.MenuItem, 0, len(r.items))
	for _, item := range r.items {
		itemList = append(itemList, item)
	}
	sort.Slice(itemList, func(i, j int) bool { return itemList[i].ID < itemList[j].ID })
	return itemList, nil
}

// GetItemByID returns the item with the given ID, or nil.
func (r *MemoryMenuItemAccessor) GetItemByID(_ context.Context, id int) (*models.MenuItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	return &item, nil
}

// ItemExists reports whether an item with item.ID is stored.
func (r *MemoryMenuItemAccessor) ItemExists(_ context.Context, item *models.MenuItem) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.items[item.ID]
	return ok, nil
}

// AddItem stores item unless its ID is taken.
func (r *MemoryMenuItemAccessor) AddItem(_ context.Context, item *models.MenuItem) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[item.ID]; ok {
		return false, nil
	}
	r.items[item.ID] = *item
	return true, nil
}

// UpdateItem replaces an existing item. Like a document store, an identical
// overwrite reports false because nothing was modified.
func (r *MemoryMenuItemAccessor) UpdateItem(_ context.Context, item *models.MenuItem) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.items[item.ID]
	if !ok {
		return false, nil
	}
	if existing == *item {
		return false, nil
	}
	r.items[item.ID] = *item
	return true, nil
}

// DeleteItem removes the item with item.ID.
func (r *MemoryMenuItemAccessor) DeleteItem(_ context.Context, item *models.MenuItem) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[item.ID]; !ok {
		return false, nil
	}
	delete(r.items, item.ID)
	return true, nil
}

// Rebuild replaces every stored item.
func (r *MemoryMenuItemAccessor) Rebuild(_ context.Context, items []models.MenuItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items = make(map[int]models.MenuItem, len(items))
	for _, item := range items {
		r.items[item.ID] = item
	}
	return nil
}
