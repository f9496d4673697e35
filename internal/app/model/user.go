package model

import "time"

type User struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	Username     string    `gorm:"type:varchar(80);uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"column:password;not null" json:"-"` // bcrypt hash
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
