package model

import "time"

// Tag names are unique within a store, not globally.
type Tag struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"type:varchar(80);not null;uniqueIndex:idx_tags_store_name" json:"name"`
	StoreID   uint      `gorm:"not null;uniqueIndex:idx_tags_store_name" json:"store_id"`
	Store     *Store    `gorm:"foreignKey:StoreID" json:"store,omitempty"`
	Items     []Item    `gorm:"many2many:items_tags;" json:"items,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Tag) TableName() string {
	return "tags"
}

// ItemTag is the join row between items and tags.
type ItemTag struct {
	ItemID uint `gorm:"primaryKey" json:"item_id"`
	TagID  uint `gorm:"primaryKey;index" json:"tag_id"`
}

func (ItemTag) TableName() string {
	return "items_tags"
}
