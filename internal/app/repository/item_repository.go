package repository

import (
	"github.com/ikkim/stores-rest-api/internal/app/model"
	"github.com/lib/pq"
	"github.com/ikkim/stores-rest-api/pkg/logger"
	"gorm.io/gorm"
)

type ItemRepository interface {
	Create(item *model.Item) error
	Save(item *model.Item) error
	FindAll() ([]model.Item, error)
	FindByID(id uint) (*model.Item, error)
	Delete(id uint) error
}

type itemRepository struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) ItemRepository {
	return &itemRepository{db: db}
}

// withRelations loads what an item view renders
func withRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("Store").Preload("Tags", func(db *gorm.DB) *gorm.DB {
		return db.Order("tags.id ASC")
	})
}

// Create inserts the item. A non-zero ID is kept as given; on postgres the
// id sequence is then moved past it so later inserts do not collide.
func (r *itemRepository) Create(item *model.Item) error {
	logger.Debug("Creating item in database", map[string]interface{}{
		"item_id":  item.ID,
		"name":     item.Name,
		"store_id": item.StoreID,
	})

	explicitID := item.ID != 0
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Store", "Tags").Create(item).Error; err != nil {
			return err
		}
		if explicitID && tx.Dialector.Name() == "postgres" {
			return syncIDSequence(tx, model.Item{}.TableName())
		}
		return nil
	})
	if err != nil {
		logger.Error("Failed to create item in database", err, map[string]interface{}{
			"name":     item.Name,
			"store_id": item.StoreID,
		})
		return err
	}

	logger.Debug("Item created in database", map[string]interface{}{
		"item_id": item.ID,
	})
	return nil
}

// syncIDSequence sets the serial sequence of table.id to the current maximum.
func syncIDSequence(tx *gorm.DB, table string) error {
	return tx.Exec(
		"SELECT setval(pg_get_serial_sequence(?, 'id'), (SELECT MAX(id) FROM "+pq.QuoteIdentifier(table)+"))",
		table,
	).Error
}

func (r *itemRepository) Save(item *model.Item) error {
	logger.Debug("Updating item in database", map[string]interface{}{
		"item_id": item.ID,
	})

	if err := r.db.Omit("Store", "Tags").Save(item).Error; err != nil {
		logger.Error("Failed to update item in database", err, map[string]interface{}{
			"item_id": item.ID,
		})
		return err
	}
	return nil
}

func (r *itemRepository) FindAll() ([]model.Item, error) {
	var items []model.Item
	if err := withRelations(r.db).Order("id ASC").Find(&items).Error; err != nil {
		logger.Error("Failed to list items", err)
		return nil, err
	}
	return items, nil
}

func (r *itemRepository) FindByID(id uint) (*model.Item, error) {
	var item model.Item
	if err := withRelations(r.db).First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// Delete removes the item and its tag links
func (r *itemRepository) Delete(id uint) error {
	logger.Debug("Deleting item from database", map[string]interface{}{
		"item_id": id,
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("item_id = ?", id).Delete(&model.ItemTag{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&model.Item{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		logger.Error("Failed to delete item from database", err, map[string]interface{}{
			"item_id": id,
		})
	}
	return err
}
