package service

import (
	"errors"

	"github.com/ikkim/stores-rest-api/config"
	"github.com/ikkim/stores-rest-api/internal/app/model"
	"github.com/ikkim/stores-rest-api/internal/app/repository"
	apperrors "github.com/ikkim/stores-rest-api/internal/errors"
	"github.com/ikkim/stores-rest-api/pkg/logger"
)

var (
	ErrStoreNotFound   = errors.New("store not found")
	ErrStoreNameExists = errors.New("a store with that name already exists")
	ErrStoreNotEmpty   = errors.New("store still has items or tags")
)

type StoreService interface {
	ListStores() ([]model.Store, error)
	GetStoreByID(id uint) (*model.Store, error)
	CreateStore(name string) (*model.Store, error)
	DeleteStore(id uint) error
}

type storeService struct {
	storeRepo    repository.StoreRepository
	deletePolicy string
}

// NewStoreService creates the store service. deletePolicy is one of
// config.DeletePolicyCascade or config.DeletePolicyRestrict.
func NewStoreService(storeRepo repository.StoreRepository, deletePolicy string) StoreService {
	if deletePolicy == "" {
		deletePolicy = config.DeletePolicyCascade
	}
	return &storeService{
		storeRepo:    storeRepo,
		deletePolicy: deletePolicy,
	}
}

func (s *storeService) ListStores() ([]model.Store, error) {
	return s.storeRepo.FindAll()
}

func (s *storeService) GetStoreByID(id uint) (*model.Store, error) {
	store, err := s.storeRepo.FindByID(id)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, ErrStoreNotFound
		}
		return nil, err
	}
	return store, nil
}

func (s *storeService) CreateStore(name string) (*model.Store, error) {
	store := &model.Store{Name: name}
	if err := s.storeRepo.Create(store); err != nil {
		if apperrors.IsDuplicateKey(err) {
			logger.Warn("Store creation failed: name already exists", map[string]interface{}{
				"name": name,
			})
			return nil, ErrStoreNameExists
		}
		return nil, err
	}
	store.Items = []model.Item{}

	logger.Info("Store created", map[string]interface{}{
		"store_id": store.ID,
		"name":     name,
	})
	return store, nil
}

func (s *storeService) DeleteStore(id uint) error {
	if s.deletePolicy == config.DeletePolicyRestrict {
		if _, err := s.GetStoreByID(id); err != nil {
			return err
		}
		items, tags, err := s.storeRepo.CountChildren(id)
		if err != nil {
			return err
		}
		if items > 0 || tags > 0 {
			logger.Warn("Store deletion refused: store is not empty", map[string]interface{}{
				"store_id": id,
				"items":    items,
				"tags":     tags,
			})
			return ErrStoreNotEmpty
		}
	}

	if err := s.storeRepo.Delete(id); err != nil {
		if apperrors.IsNotFound(err) {
			return ErrStoreNotFound
		}
		return err
	}

	logger.Info("Store deleted", map[string]interface{}{
		"store_id": id,
		"policy":   s.deletePolicy,
	})
	return nil
}
