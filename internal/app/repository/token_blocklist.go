package repository

import (
	"context"
	"errors"
	"time"

	"github.com/ikkim/stores-rest-api/internal/app/model"
	apperrors "github.com/ikkim/stores-rest-api/internal/errors"
	"github.com/ikkim/stores-rest-api/pkg/logger"
	"gorm.io/gorm"
)

// ErrAlreadyRevoked is returned when a jti is revoked a second time
var ErrAlreadyRevoked = errors.New("token already revoked")

// TokenBlocklist is the server-side revocation list keyed by jti.
type TokenBlocklist interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
	// PruneExpired drops entries whose token expired before now and reports
	// how many were removed.
	PruneExpired(ctx context.Context, now time.Time) (int64, error)
}

type dbTokenBlocklist struct {
	db *gorm.DB
}

func NewDBTokenBlocklist(db *gorm.DB) TokenBlocklist {
	return &dbTokenBlocklist{db: db}
}

// Revoke relies on the jti primary key, so concurrent logouts with the same
// token insert at most one row.
func (b *dbTokenBlocklist) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	row := &model.RevokedToken{JTI: jti, ExpiresAt: expiresAt}
	if err := b.db.WithContext(ctx).Create(row).Error; err != nil {
		if apperrors.IsDuplicateKey(err) {
			return ErrAlreadyRevoked
		}
		logger.Error("Failed to revoke token", err, map[string]interface{}{
			"jti": jti,
		})
		return err
	}
	return nil
}

func (b *dbTokenBlocklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var count int64
	err := b.db.WithContext(ctx).Model(&model.RevokedToken{}).Where("jti = ?", jti).Count(&count).Error
	if err != nil {
		logger.Error("Failed to check token blocklist", err, map[string]interface{}{
			"jti": jti,
		})
		return false, err
	}
	return count > 0, nil
}

func (b *dbTokenBlocklist) PruneExpired(ctx context.Context, now time.Time) (int64, error) {
	result := b.db.WithContext(ctx).Where("expires_at < ?", now).Delete(&model.RevokedToken{})
	if result.Error != nil {
		logger.Error("Failed to prune token blocklist", result.Error)
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
