package repository

import (
	"testing"

	"github.com/ikkim/stores-rest-api/internal/app/model"
	apperrors "github.com/ikkim/stores-rest-api/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTagTest(t *testing.T) (*gorm.DB, TagRepository, *model.Store, *model.Item) {
	testDB := setupTestDB(t)
	store := &model.Store{Name: "S"}
	require.NoError(t, testDB.Create(store).Error)
	item := &model.Item{Name: "Chair", Price: 1, StoreID: store.ID}
	require.NoError(t, testDB.Create(item).Error)
	return testDB, NewTagRepository(testDB), store, item
}

func TestTagRepository_UniquePerStore(t *testing.T) {
	testDB, repo, store, _ := setupTagTest(t)

	other := &model.Store{Name: "Other"}
	require.NoError(t, testDB.Create(other).Error)

	require.NoError(t, repo.Create(&model.Tag{Name: "sale", StoreID: store.ID}))
	require.NoError(t, repo.Create(&model.Tag{Name: "sale", StoreID: other.ID}))

	err := repo.Create(&model.Tag{Name: "sale", StoreID: store.ID})
	assert.True(t, apperrors.IsDuplicateKey(err))

	found, err := repo.FindByStoreAndName(store.ID, "sale")
	require.NoError(t, err)
	assert.Equal(t, store.ID, found.StoreID)

	_, err = repo.FindByStoreAndName(store.ID, "missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	tags, err := repo.FindByStore(store.ID)
	require.NoError(t, err)
	assert.Len(t, tags, 1)
}

func TestTagRepository_LinkAndUnlink(t *testing.T) {
	_, repo, store, item := setupTagTest(t)

	tag := &model.Tag{Name: "wood", StoreID: store.ID}
	require.NoError(t, repo.Create(tag))

	require.NoError(t, repo.LinkItem(item.ID, tag.ID))
	require.NoError(t, repo.LinkItem(item.ID, tag.ID))

	count, err := repo.CountItems(tag.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	found, err := repo.FindByID(tag.ID)
	require.NoError(t, err)
	require.Len(t, found.Items, 1)
	assert.Equal(t, item.ID, found.Items[0].ID)
	require.NotNil(t, found.Store)
	assert.Equal(t, store.Name, found.Store.Name)

	require.NoError(t, repo.UnlinkItem(item.ID, tag.ID))
	count, err = repo.CountItems(tag.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestTagRepository_Delete_GuardedByLinks(t *testing.T) {
	_, repo, store, item := setupTagTest(t)

	tag := &model.Tag{Name: "wood", StoreID: store.ID}
	require.NoError(t, repo.Create(tag))
	require.NoError(t, repo.LinkItem(item.ID, tag.ID))

	assert.ErrorIs(t, repo.Delete(tag.ID), gorm.ErrRecordNotFound)
	_, err := repo.FindByID(tag.ID)
	require.NoError(t, err)

	require.NoError(t, repo.UnlinkItem(item.ID, tag.ID))
	require.NoError(t, repo.Delete(tag.ID))

	_, err = repo.FindByID(tag.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
