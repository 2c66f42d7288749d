package models_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"menusvc/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMenuItem_Valid(t *testing.T) {
	item, err := models.NewMenuItem(107, "ENT", "poutine", 9.5, true)
	require.NoError(t, err)
	assert.Equal(t, &models.MenuItem{ID: 107, Category: "ENT", Description: "poutine", Price: 9.5, Vegetarian: true}, item)

	// Boundaries are inclusive and a free item is allowed.
	_, err = models.NewMenuItem(100, "APP", "x", 0, false)
	assert.NoError(t, err)
	_, err = models.NewMenuItem(999, "DES", "x", 0, false)
	assert.NoError(t, err)
}

func TestNewMenuItem_IDOutOfRange(t *testing.T) {
	ids := []int{-1, 0, 12, 99, 1000, 1234}
	for id := -20; id < 100; id += 7 {
		ids = append(ids, id)
	}
	for id := 1000; id < 1200; id += 13 {
		ids = append(ids, id)
	}

	for _, id := range ids {
		item, err := models.NewMenuItem(id, "ENT", "poutine", 1, false)
		assert.Nil(t, item, "id %d", id)
		require.Error(t, err, "id %d", id)
		assert.True(t, strings.HasPrefix(err.Error(), models.ValidationErrorPrefix))
		assert.Contains(t, err.Error(), "id must be a three-digit number")
	}
}

func TestNewMenuItem_CategoryLength(t *testing.T) {
	for _, category := range []string{"", "E", "EN", "ENTR", "ENTREE"} {
		_, err := models.NewMenuItem(107, category, "poutine", 1, false)
		require.Error(t, err, "category %q", category)
		assert.Contains(t, err.Error(), "category must be exactly 3 characters")
	}
}

func TestNewMenuItem_NegativePrice(t *testing.T) {
	for _, price := range []float64{-0.01, -1, -9, -1e9} {
		_, err := models.NewMenuItem(107, "ENT", "poutine", price, false)
		require.Error(t, err, "price %v", price)
		assert.Contains(t, err.Error(), "price must be greater than or equal to 0")
	}
}

func TestNewMenuItem_EmptyDescription(t *testing.T) {
	_, err := models.NewMenuItem(107, "ENT", "", 1, false)
	require.Error(t, err)
	assert.Equal(t, "MenuItem constructor error: description must not be empty", err.Error())

	var verr *models.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "description", verr.Field)
}

func TestNewMenuItem_ReportsFirstFieldInOrder(t *testing.T) {
	// Every field is wrong; id comes first.
	_, err := models.NewMenuItem(12, "EN", "", -1, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "id ")

	_, err = models.NewMenuItem(107, "EN", "", -1, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "category ")

	_, err = models.NewMenuItem(107, "ENT", "", -1, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "description ")
}

func TestMenuItemFields_MissingValues(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"empty body", `{}`, "MenuItem constructor error: id is required"},
		{"missing category", `{"id":107}`, "MenuItem constructor error: category is required"},
		{"missing description", `{"id":107,"category":"ENT"}`, "MenuItem constructor error: description is required"},
		{"missing price", `{"id":107,"category":"ENT","description":"x"}`, "MenuItem constructor error: price is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var fields models.MenuItemFields
			require.NoError(t, json.Unmarshal([]byte(tt.body), &fields))
			item, err := fields.Build()
			assert.Nil(t, item)
			require.Error(t, err)
			assert.Equal(t, tt.want, err.Error())
		})
	}
}

func TestMenuItemFields_VegetarianIsCoerced(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{`true`, true},
		{`false`, false},
		{`null`, false},
		{`1`, true},
		{`0`, false},
		{`"yes"`, true},
		{`""`, false},
		{`"false"`, false},
		{`{}`, true},
	}

	for _, tt := range tests {
		body := `{"id":107,"category":"ENT","description":"x","price":0,"vegetarian":` + tt.raw + `}`
		var fields models.MenuItemFields
		require.NoError(t, json.Unmarshal([]byte(body), &fields))
		item, err := fields.Build()
		require.NoError(t, err, "vegetarian %s", tt.raw)
		assert.Equal(t, tt.want, item.Vegetarian, "vegetarian %s", tt.raw)
	}

	// Absent entirely.
	var fields models.MenuItemFields
	require.NoError(t, json.Unmarshal([]byte(`{"id":107,"category":"ENT","description":"x","price":0}`), &fields))
	item, err := fields.Build()
	require.NoError(t, err)
	assert.False(t, item.Vegetarian)
}

func TestInvalidFields(t *testing.T) {
	err := models.InvalidFields(errors.New("unexpected EOF"))
	assert.Equal(t, "MenuItem constructor error: invalid field values: unexpected EOF", err.Error())
}
