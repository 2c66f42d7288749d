package services

import (
	"context"
	"log/slog"
	"time"

	"menusvc/internal/models"
	"menusvc/internal/repositories"
	"menusvc/pkg/rabbitmq"
)

// DefaultStoreTimeout bounds each accessor call when no timeout is configured.
const DefaultStoreTimeout = 5 * time.Second

// EventPublisher publishes menu change events. *rabbitmq.Client satisfies it.
type EventPublisher interface {
	PublishEvent(event rabbitmq.Event) error
}

// MenuService handles business logic related to menu items.
type MenuService struct {
	accessor repositories.MenuItemAccessor
	events   EventPublisher // may be nil
	timeout  time.Duration
}

// NewMenuService creates a new MenuService. events may be nil to disable publishing.
func NewMenuService(accessor repositories.MenuItemAccessor, events EventPublisher, timeout time.Duration) *MenuService {
	if timeout <= 0 {
		timeout = DefaultStoreTimeout
	}
	return &MenuService{
		accessor: accessor,
		events:   events,
		timeout:  timeout,
	}
}

func (s *MenuService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

// GetAllItems retrieves every menu item sorted by ID.
func (s *MenuService) GetAllItems(ctx context.Context) ([]models.MenuItem, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.accessor.GetAllItems(ctx)
}

// GetItemByID retrieves a single menu item, or nil.
func (s *MenuService) GetItemByID(ctx context.Context, id int) (*models.MenuItem, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.accessor.GetItemByID(ctx, id)
}

// AddItem stores a new item. It returns false when the ID is already taken.
func (s *MenuService) AddItem(ctx context.Context, item *models.MenuItem) (bool, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	ok, err := s.accessor.AddItem(ctx, item)
	if err != nil || !ok {
		return ok, err
	}
	s.publish(rabbitmq.EventItemAdded, *item)
	return true, nil
}

// UpdateItem overwrites an existing item. It returns false when nothing was modified.
func (s *MenuService) UpdateItem(ctx context.Context, item *models.MenuItem) (bool, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	ok, err := s.accessor.UpdateItem(ctx, item)
	if err != nil || !ok {
		return ok, err
	}
	s.publish(rabbitmq.EventItemUpdated, *item)
	return true, nil
}

// DeleteItem removes the item with item.ID. It returns false when there was none.
func (s *MenuService) DeleteItem(ctx context.Context, item *models.MenuItem) (bool, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	ok, err := s.accessor.DeleteItem(ctx, item)
	if err != nil || !ok {
		return ok, err
	}
	s.publish(rabbitmq.EventItemDeleted, map[string]int{"id": item.ID})
	return true, nil
}

// publish never fails the caller; the write already happened.
func (s *MenuService) publish(eventType string, data interface{}) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishEvent(rabbitmq.NewEvent(eventType, data)); err != nil {
		slog.Warn("failed to publish menu event", "type", eventType, "error", err)
	}
}
