package model

import "time"

// Store owns its items and tags through store_id foreign keys.
type Store struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"type:varchar(80);uniqueIndex;not null" json:"name"`
	Items     []Item    `gorm:"foreignKey:StoreID" json:"items,omitempty"`
	Tags      []Tag     `gorm:"foreignKey:StoreID" json:"tags,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Store) TableName() string {
	return "stores"
}
