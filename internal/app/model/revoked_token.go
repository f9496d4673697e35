package model

import "time"

// RevokedToken marks a token id (jti) as logged out. ExpiresAt is the
// token's own expiry and is only used to prune rows that no longer matter.
type RevokedToken struct {
	JTI       string    `gorm:"primaryKey;type:varchar(64)" json:"jti"`
	ExpiresAt time.Time `gorm:"index" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

func (RevokedToken) TableName() string {
	return "revoked_tokens"
}
