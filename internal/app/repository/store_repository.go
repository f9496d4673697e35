package repository

import (
	"github.com/ikkim/stores-rest-api/internal/app/model"
	"github.com/ikkim/stores-rest-api/pkg/logger"
	"gorm.io/gorm"
)

type StoreRepository interface {
	Create(store *model.Store) error
	FindAll() ([]model.Store, error)
	FindByID(id uint) (*model.Store, error)
	CountChildren(id uint) (items int64, tags int64, err error)
	Delete(id uint) error
}

type storeRepository struct {
	db *gorm.DB
}

func NewStoreRepository(db *gorm.DB) StoreRepository {
	return &storeRepository{db: db}
}

func (r *storeRepository) Create(store *model.Store) error {
	logger.Debug("Creating store in database", map[string]interface{}{
		"name": store.Name,
	})

	if err := r.db.Create(store).Error; err != nil {
		logger.Error("Failed to create store in database", err, map[string]interface{}{
			"name": store.Name,
		})
		return err
	}

	logger.Debug("Store created in database", map[string]interface{}{
		"store_id": store.ID,
		"name":     store.Name,
	})
	return nil
}

func (r *storeRepository) FindAll() ([]model.Store, error) {
	var stores []model.Store
	if err := r.db.Preload("Items").Order("id ASC").Find(&stores).Error; err != nil {
		logger.Error("Failed to list stores", err)
		return nil, err
	}
	return stores, nil
}

func (r *storeRepository) FindByID(id uint) (*model.Store, error) {
	var store model.Store
	if err := r.db.Preload("Items").First(&store, id).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

func (r *storeRepository) CountChildren(id uint) (int64, int64, error) {
	var items, tags int64
	if err := r.db.Model(&model.Item{}).Where("store_id = ?", id).Count(&items).Error; err != nil {
		return 0, 0, err
	}
	if err := r.db.Model(&model.Tag{}).Where("store_id = ?", id).Count(&tags).Error; err != nil {
		return 0, 0, err
	}
	return items, tags, nil
}

// Delete removes the store together with its items, its tags and every
// items_tags row that references them, in one transaction.
func (r *storeRepository) Delete(id uint) error {
	logger.Debug("Deleting store from database", map[string]interface{}{
		"store_id": id,
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		itemIDs := tx.Model(&model.Item{}).Select("id").Where("store_id = ?", id)
		tagIDs := tx.Model(&model.Tag{}).Select("id").Where("store_id = ?", id)

		if err := tx.Where("item_id IN (?) OR tag_id IN (?)", itemIDs, tagIDs).Delete(&model.ItemTag{}).Error; err != nil {
			return err
		}
		if err := tx.Where("store_id = ?", id).Delete(&model.Item{}).Error; err != nil {
			return err
		}
		if err := tx.Where("store_id = ?", id).Delete(&model.Tag{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&model.Store{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		logger.Error("Failed to delete store from database", err, map[string]interface{}{
			"store_id": id,
		})
		return err
	}

	logger.Debug("Store deleted from database", map[string]interface{}{
		"store_id": id,
	})
	return nil
}
