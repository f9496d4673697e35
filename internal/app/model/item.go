package model

import "time"

type Item struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"type:varchar(80);not null" json:"name"`
	Price     float64   `gorm:"not null" json:"price"`
	StoreID   uint      `gorm:"not null;index" json:"store_id"`
	Store     *Store    `gorm:"foreignKey:StoreID" json:"store,omitempty"`
	Tags      []Tag     `gorm:"many2many:items_tags;" json:"tags,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Item) TableName() string {
	return "items"
}
