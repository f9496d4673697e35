package repository

import (
	"github.com/ikkim/stores-rest-api/internal/app/model"
	"github.com/ikkim/stores-rest-api/pkg/logger"
	"gorm.io/gorm"
)

type TagRepository interface {
	Create(tag *model.Tag) error
	FindByID(id uint) (*model.Tag, error)
	FindByStore(storeID uint) ([]model.Tag, error)
	FindByStoreAndName(storeID uint, name string) (*model.Tag, error)
	CountItems(id uint) (int64, error)
	Delete(id uint) error
	LinkItem(itemID, tagID uint) error
	UnlinkItem(itemID, tagID uint) error
}

type tagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func tagWithRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("Store").Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("items.id ASC")
	})
}

func (r *tagRepository) Create(tag *model.Tag) error {
	logger.Debug("Creating tag in database", map[string]interface{}{
		"name":     tag.Name,
		"store_id": tag.StoreID,
	})

	if err := r.db.Omit("Store", "Items").Create(tag).Error; err != nil {
		logger.Error("Failed to create tag in database", err, map[string]interface{}{
			"name":     tag.Name,
			"store_id": tag.StoreID,
		})
		return err
	}
	return nil
}

func (r *tagRepository) FindByID(id uint) (*model.Tag, error) {
	var tag model.Tag
	if err := tagWithRelations(r.db).First(&tag, id).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *tagRepository) FindByStore(storeID uint) ([]model.Tag, error) {
	var tags []model.Tag
	if err := tagWithRelations(r.db).Where("store_id = ?", storeID).Order("id ASC").Find(&tags).Error; err != nil {
		logger.Error("Failed to list tags in store", err, map[string]interface{}{
			"store_id": storeID,
		})
		return nil, err
	}
	return tags, nil
}

func (r *tagRepository) FindByStoreAndName(storeID uint, name string) (*model.Tag, error) {
	var tag model.Tag
	if err := r.db.Where("store_id = ? AND name = ?", storeID, name).First(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *tagRepository) CountItems(id uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.ItemTag{}).Where("tag_id = ?", id).Count(&count).Error
	return count, err
}

// Delete removes the tag only while no item references it; the guard and
// the delete run in one statement.
func (r *tagRepository) Delete(id uint) error {
	logger.Debug("Deleting tag from database", map[string]interface{}{
		"tag_id": id,
	})

	linked := r.db.Model(&model.ItemTag{}).Select("1").Where("tag_id = ?", id)
	result := r.db.Where("id = ? AND NOT EXISTS (?)", id, linked).Delete(&model.Tag{})
	if result.Error != nil {
		logger.Error("Failed to delete tag from database", result.Error, map[string]interface{}{
			"tag_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// LinkItem is idempotent: linking an already linked pair is not an error.
func (r *tagRepository) LinkItem(itemID, tagID uint) error {
	link := model.ItemTag{ItemID: itemID, TagID: tagID}
	if err := r.db.Where(&link).FirstOrCreate(&link).Error; err != nil {
		logger.Error("Failed to link tag to item", err, map[string]interface{}{
			"item_id": itemID,
			"tag_id":  tagID,
		})
		return err
	}
	return nil
}

func (r *tagRepository) UnlinkItem(itemID, tagID uint) error {
	err := r.db.Where("item_id = ? AND tag_id = ?", itemID, tagID).Delete(&model.ItemTag{}).Error
	if err != nil {
		logger.Error("Failed to unlink tag from item", err, map[string]interface{}{
			"item_id": itemID,
			"tag_id":  tagID,
		})
	}
	return err
}
