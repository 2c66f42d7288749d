package repositories

import (
	"context"
	"errors"

	"menusvc/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionProvider hands out the menu item collection, connecting on first use.
type CollectionProvider interface {
	Collection(ctx context.Context) (*mongo.Collection, error)
}

// MongoMenuItemAccessor is a MongoDB implementation of MenuItemAccessor.
//
// Add and update check for the ID before writing. The check and the write are
// not atomic: two concurrent adds of the same ID can both pass the check. When
// the unique index created by Rebuild is present, the losing insert reports
// false instead of creating a duplicate.
type MongoMenuItemAccessor struct {
	conn CollectionProvider
}

// NewMongoMenuItemAccessor creates a new instance of MongoMenuItemAccessor.
func NewMongoMenuItemAccessor(conn CollectionProvider) *MongoMenuItemAccessor {
	return &MongoMenuItemAccessor{
		conn: conn,
	}
}

func byID(id int) bson.D {
	return bson.D{{Key: "id", Value: id}}
}

// findByID returns every document carrying the given business ID.
func (r *MongoMenuItemAccessor) findByID(ctx context.Context, coll *mongo.Collection, id int) ([]models.MenuItem, error) {
	cur, err := coll.Find(ctx, byID(id))
	if err != nil {
		return nil, err
	}
	var docs []models.MenuItem
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// GetAllItems retrieves all menu items sorted by ID.
func (r *MongoMenuItemAccessor) GetAllItems(ctx context.Context) ([]models.MenuItem, error) {
	coll, err := r.conn.Collection(ctx)
	if err != nil {
		return nil, storeError("getAllItems", err)
	}

	cur, err := coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "id", Value: 1}}))
	if err != nil {
		return nil, storeError("getAllItems", err)
	}
	items := make([]models.MenuItem, 0)
	if err := cur.All(ctx, &items); err != nil {
		return nil, storeError("getAllItems", err)
	}
	return items, nil
}

// GetItemByID retrieves a single menu item, or nil when it does not exist.
func (r *MongoMenuItemAccessor) GetItemByID(ctx context.Context, id int) (*models.MenuItem, error) {
	coll, err := r.conn.Collection(ctx)
	if err != nil {
		return nil, storeError("getItemByID", err)
	}

	docs, err := r.findByID(ctx, coll, id)
	if err != nil {
		return nil, storeError("getItemByID", err)
	}
	if len(docs) != 1 {
		return nil, nil
	}
	return &docs[0], nil
}

// ItemExists reports whether exactly one document matches item.ID.
func (r *MongoMenuItemAccessor) ItemExists(ctx context.Context, item *models.MenuItem) (bool, error) {
	coll, err := r.conn.Collection(ctx)
	if err != nil {
		return false, storeError("itemExists", err)
	}

	docs, err := r.findByID(ctx, coll, item.ID)
	if err != nil {
		return false, storeError("itemExists", err)
	}
	return len(docs) == 1, nil
}

// AddItem inserts the item if its ID is free and reports whether the write was acknowledged.
func (r *MongoMenuItemAccessor) AddItem(ctx context.Context, item *models.MenuItem) (bool, error) {
	coll, err := r.conn.Collection(ctx)
	if err != nil {
		return false, storeError("addItem", err)
	}

	docs, err := r.findByID(ctx, coll, item.ID)
	if err != nil {
		return false, storeError("addItem", err)
	}
	if len(docs) > 0 {
		return false, nil
	}

	if _, err := coll.InsertOne(ctx, item); err != nil {
		switch {
		case errors.Is(err, mongo.ErrUnacknowledgedWrite):
			return false, nil
		case mongo.IsDuplicateKeyError(err):
			return false, nil
		default:
			return false, storeError("addItem", err)
		}
	}
	return true, nil
}

// UpdateItem overwrites category, description, price and vegetarian of an existing item.
// It reports whether a document was actually modified.
func (r *MongoMenuItemAccessor) UpdateItem(ctx context.Context, item *models.MenuItem) (bool, error) {
	coll, err := r.conn.Collection(ctx)
	if err != nil {
		return false, storeError("updateItem", err)
	}

	docs, err := r.findByID(ctx, coll, item.ID)
	if err != nil {
		return false, storeError("updateItem", err)
	}
	if len(docs) == 0 {
		return false, nil
	}

	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "category", Value: item.Category},
		{Key: "description", Value: item.Description},
		{Key: "price", Value: item.Price},
		{Key: "vegetarian", Value: item.Vegetarian},
	}}}
	res, err := coll.UpdateOne(ctx, byID(item.ID), update)
	if err != nil {
		return false, storeError("updateItem", err)
	}
	return res.ModifiedCount == 1, nil
}

// DeleteItem removes the item with item.ID.
func (r *MongoMenuItemAccessor) DeleteItem(ctx context.Context, item *models.MenuItem) (bool, error) {
	coll, err := r.conn.Collection(ctx)
	if err != nil {
		return false, storeError("deleteItem", err)
	}

	res, err := coll.DeleteOne(ctx, byID(item.ID))
	if err != nil {
		return false, storeError("deleteItem", err)
	}
	return res.DeletedCount == 1, nil
}

// Rebuild drops the collection, inserts items and ensures a unique index on id.
func (r *MongoMenuItemAccessor) Rebuild(ctx context.Context, items []models.MenuItem) error {
	coll, err := r.conn.Collection(ctx)
	if err != nil {
		return storeError("rebuild", err)
	}

	if err := coll.Drop(ctx); err != nil {
		return storeError("rebuild", err)
	}
	if len(items) > 0 {
		docs := make([]interface{}, 0, len(items))
		for i := range items {
			docs = append(docs, items[i])
		}
		if _, err := coll.InsertMany(ctx, docs); err != nil {
			return storeError("rebuild", err)
		}
	}
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return storeError("rebuild", err)
	}
	return nil
}
