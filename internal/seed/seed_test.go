package seed_test

import (
	"context"
	"errors"
	"testing"

	"menusvc/internal/models"
	"menusvc/internal/repositories"
	"menusvc/internal/seed"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultItems(t *testing.T) {
	items, err := seed.DefaultItems()
	require.NoError(t, err)
	assert.Len(t, items, 39)

	byID := make(map[int]models.MenuItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}
	for _, id := range []int{107, 202, 303} {
		assert.Contains(t, byID, id)
	}
	for _, id := range []int{777, 888} {
		assert.NotContains(t, byID, id)
	}
}

func TestParse_RejectsInvalidEntries(t *testing.T) {
	_, err := seed.Parse([]byte("items:\n  - id: 12\n    category: ENT\n    description: x\n    price: 1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "menu entry 0")
	var verr *models.ValidationError
	assert.True(t, errors.As(err, &verr))

	_, err = seed.Parse([]byte(`
items:
  - {id: 101, category: APP, description: a, price: 1}
  - {id: 101, category: APP, description: b, price: 2}
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate id 101")

	_, err = seed.Parse([]byte("items: [unclosed"))
	assert.Error(t, err)
}

func TestRebuild(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewMemoryMenuItemAccessor()
	_, err := store.AddItem(ctx, &models.MenuItem{ID: 888, Category: "ENT", Description: "poutine", Price: 99})
	require.NoError(t, err)

	n, err := seed.Rebuild(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, 39, n)

	items, err := store.GetAllItems(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 39)
	assert.Equal(t, 101, items[0].ID)
	assert.Equal(t, 313, items[len(items)-1].ID)

	gone, err := store.GetItemByID(ctx, 888)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

type brokenRebuilder struct{}

func (brokenRebuilder) Rebuild(context.Context, []models.MenuItem) error {
	return errors.New("store offline")
}

func TestRebuild_StoreFailure(t *testing.T) {
	_, err := seed.Rebuild(context.Background(), brokenRebuilder{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to seed menu: store offline")
}
