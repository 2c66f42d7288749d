package repositories

import (
	"context"
	"errors"
	"fmt"

	"menusvc/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// menuItemRecord is the relational row behind a MenuItem. The surrogate
// primary key comes from gorm.Model; ItemID carries the business key.
type menuItemRecord struct {
	gorm.Model
	ItemID      int     `gorm:"uniqueIndex;not null"`
	Category    string  `gorm:"type:varchar(3);not null"`
	Description string  `gorm:"not null"`
	Price       float64 `gorm:"not null"`
	Vegetarian  bool    `gorm:"not null;default:false"`
}

func (menuItemRecord) TableName() string {
	return "menu_items"
}

func toRecord(item *models.MenuItem) menuItemRecord {
	return menuItemRecord{
		ItemID:      item.ID,
		Category:    item.Category,
		Description: item.Description,
		Price:       item.Price,
		Vegetarian:  item.Vegetarian,
	}
}

func (r menuItemRecord) toItem() models.MenuItem {
	return models.MenuItem{
		ID:          r.ItemID,
		Category:    r.Category,
		Description: r.Description,
		Price:       r.Price,
		Vegetarian:  r.Vegetarian,
	}
}

// OpenGORMDatabase opens a PostgreSQL or SQLite database.
func OpenGORMDatabase(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", driver, err)
	}
	return db, nil
}

// GORMMenuItemAccessor is a GORM implementation of MenuItemAccessor.
type GORMMenuItemAccessor struct {
	db *gorm.DB
}

// NewGORMMenuItemAccessor creates a new instance of GORMMenuItemAccessor.
func NewGORMMenuItemAccessor(db *gorm.DB) *GORMMenuItemAccessor {
	return &GORMMenuItemAccessor{
		db: db,
	}
}

// Migrate creates or updates the menu_items table.
func (r *GORMMenuItemAccessor) Migrate(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&menuItemRecord{}); err != nil {
		return fmt.Errorf("failed to migrate menu_items: %w", err)
	}
	return nil
}

func (r *GORMMenuItemAccessor) findByID(ctx context.Context, id int) ([]menuItemRecord, error) {
	var records []menuItemRecord
	if err := r.db.WithContext(ctx).Where("item_id = ?", id).Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// GetAllItems retrieves all menu items sorted by ID.
func (r *GORMMenuItemAccessor) GetAllItems(ctx context.Context) ([]models.MenuItem, error) {
	var records []menuItemRecord
	if err := r.db.WithContext(ctx).Order("item_id asc").Find(&records).Error; err != nil {
		return nil, storeError("getAllItems", err)
	}

	items := make([]models.MenuItem, 0, len(records))
	for _, rec := range records {
		items = append(items, rec.toItem())
	}
	return items, nil
}

// GetItemByID retrieves a single menu item, or nil when it does not exist.
func (r *GORMMenuItemAccessor) GetItemByID(ctx context.Context, id int) (*models.MenuItem, error) {
	records, err := r.findByID(ctx, id)
	if err != nil {
		return nil, storeError("getItemByID", err)
	}
	if len(records) != 1 {
		return nil, nil
	}
	item := records[0].toItem()
	return &item, nil
}

// ItemExists reports whether exactly one row matches item.ID.
func (r *GORMMenuItemAccessor) ItemExists(ctx context.Context, item *models.MenuItem) (bool, error) {
	records, err := r.findByID(ctx, item.ID)
	if err != nil {
		return false, storeError("itemExists", err)
	}
	return len(records) == 1, nil
}

// AddItem inserts the item if its ID is free.
func (r *GORMMenuItemAccessor) AddItem(ctx context.Context, item *models.MenuItem) (bool, error) {
	records, err := r.findByID(ctx, item.ID)
	if err != nil {
		return false, storeError("addItem", err)
	}
	if len(records) > 0 {
		return false, nil
	}

	rec := toRecord(item)
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		// A concurrent insert of the same ID loses on the unique index.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, storeError("addItem", err)
	}
	return true, nil
}

// UpdateItem overwrites category, description, price and vegetarian of an existing item.
func (r *GORMMenuItemAccessor) UpdateItem(ctx context.Context, item *models.MenuItem) (bool, error) {
	records, err := r.findByID(ctx, item.ID)
	if err != nil {
		return false, storeError("updateItem", err)
	}
	if len(records) == 0 {
		return false, nil
	}
	// SQL drivers count matched rows, so an identical overwrite is caught here.
	if records[0].toItem() == *item {
		return false, nil
	}

	// A map so that zero values (price 0, vegetarian false) are written too.
	res := r.db.WithContext(ctx).Model(&menuItemRecord{}).Where("item_id = ?", item.ID).Updates(map[string]interface{}{
		"category":    item.Category,
		"description": item.Description,
		"price":       item.Price,
		"vegetarian":  item.Vegetarian,
	})
	if res.Error != nil {
		return false, storeError("updateItem", res.Error)
	}
	return res.RowsAffected == 1, nil
}

// DeleteItem removes the row with item.ID. The delete is permanent so the ID can be reused.
func (r *GORMMenuItemAccessor) DeleteItem(ctx context.Context, item *models.MenuItem) (bool, error) {
	res := r.db.WithContext(ctx).Unscoped().Where("item_id = ?", item.ID).Delete(&menuItemRecord{})
	if res.Error != nil {
		return false, storeError("deleteItem", res.Error)
	}
	return res.RowsAffected == 1, nil
}

// Rebuild replaces every row with items inside one transaction.
func (r *GORMMenuItemAccessor) Rebuild(ctx context.Context, items []models.MenuItem) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("1 = 1").Delete(&menuItemRecord{}).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		records := make([]menuItemRecord, 0, len(items))
		for i := range items {
			records = append(records, toRecord(&items[i]))
		}
		return tx.CreateInBatches(records, 100).Error
	})
	if err != nil {
		return storeError("rebuild", err)
	}
	return nil
}
