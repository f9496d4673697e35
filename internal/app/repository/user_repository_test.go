package repository

import (
	"testing"

	"github.com/ikkim/stores-rest-api/internal/app/model"
	"github.com/ikkim/stores-rest-api/internal/db"
	apperrors "github.com/ikkim/stores-rest-api/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})
	return testDB
}

func TestUserRepository_Create(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))

	tests := []struct {
		name    string
		user    *model.User
		wantDup bool
	}{
		{
			name: "Valid user",
			user: &model.User{Username: "alice", PasswordHash: "hash"},
		},
		{
			name:    "Duplicate username",
			user:    &model.User{Username: "alice", PasswordHash: "other"},
			wantDup: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.Create(tt.user)

			if tt.wantDup {
				assert.True(t, apperrors.IsDuplicateKey(err))
				return
			}
			require.NoError(t, err)
			assert.NotZero(t, tt.user.ID)
		})
	}
}

func TestUserRepository_Find(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))

	user := &model.User{Username: "alice", PasswordHash: "hash"}
	require.NoError(t, repo.Create(user))

	found, err := repo.FindByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", found.Username)
	assert.Equal(t, "hash", found.PasswordHash)

	found, err = repo.FindByUsername("alice")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	_, err = repo.FindByID(9999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = repo.FindByUsername("bob")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUserRepository_Delete(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))

	user := &model.User{Username: "alice", PasswordHash: "hash"}
	require.NoError(t, repo.Create(user))

	require.NoError(t, repo.Delete(user.ID))

	_, err := repo.FindByID(user.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	assert.ErrorIs(t, repo.Delete(user.ID), gorm.ErrRecordNotFound)
}
