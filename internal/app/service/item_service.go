package service

import (
	"errors"

	"github.com/ikkim/stores-rest-api/internal/app/model"
	"github.com/ikkim/stores-rest-api/internal/app/repository"
	apperrors "github.com/ikkim/stores-rest-api/internal/errors"
	"github.com/ikkim/stores-rest-api/internal/validation"
	"github.com/ikkim/stores-rest-api/pkg/logger"
)

var ErrItemNotFound = errors.New("item not found")

// ItemPatch carries the fields of a PUT body; nil means "not supplied".
type ItemPatch struct {
	Name    *string
	Price   *float64
	StoreID *uint
}

type ItemService interface {
	ListItems() ([]model.Item, error)
	GetItemByID(id uint) (*model.Item, error)
	CreateItem(name string, price float64, storeID uint) (*model.Item, error)
	// PutItem overwrites the supplied fields of an existing item, or creates
	// the item under the given id. created reports which happened.
	PutItem(id uint, patch ItemPatch) (item *model.Item, created bool, err error)
	DeleteItem(id uint) error
}

type itemService struct {
	itemRepo  repository.ItemRepository
	storeRepo repository.StoreRepository
}

func NewItemService(itemRepo repository.ItemRepository, storeRepo repository.StoreRepository) ItemService {
	return &itemService{
		itemRepo:  itemRepo,
		storeRepo: storeRepo,
	}
}

func (s *itemService) ListItems() ([]model.Item, error) {
	return s.itemRepo.FindAll()
}

func (s *itemService) GetItemByID(id uint) (*model.Item, error) {
	item, err := s.itemRepo.FindByID(id)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	return item, nil
}

func (s *itemService) ensureStore(storeID uint) error {
	if _, err := s.storeRepo.FindByID(storeID); err != nil {
		if apperrors.IsNotFound(err) {
			return ErrStoreNotFound
		}
		return err
	}
	return nil
}

func (s *itemService) CreateItem(name string, price float64, storeID uint) (*model.Item, error) {
	if err := s.ensureStore(storeID); err != nil {
		return nil, err
	}

	item := &model.Item{Name: name, Price: price, StoreID: storeID}
	if err := s.itemRepo.Create(item); err != nil {
		return nil, err
	}

	logger.Info("Item created", map[string]interface{}{
		"item_id":  item.ID,
		"store_id": storeID,
	})
	return s.GetItemByID(item.ID)
}

func (s *itemService) PutItem(id uint, patch ItemPatch) (*model.Item, bool, error) {
	item, err := s.itemRepo.FindByID(id)
	if err != nil && !apperrors.IsNotFound(err) {
		return nil, false, err
	}

	if patch.StoreID != nil {
		if err := s.ensureStore(*patch.StoreID); err != nil {
			return nil, false, err
		}
	}

	if item == nil {
		missing := validation.FieldErrors{}
		if patch.Name == nil {
			missing["name"] = "is required"
		}
		if patch.Price == nil {
			missing["price"] = "is required"
		}
		if patch.StoreID == nil {
			missing["store_id"] = "is required"
		}
		if len(missing) > 0 {
			return nil, false, missing
		}

		item = &model.Item{ID: id, Name: *patch.Name, Price: *patch.Price, StoreID: *patch.StoreID}
		if err := s.itemRepo.Create(item); err != nil {
			return nil, false, err
		}
		logger.Info("Item created by PUT", map[string]interface{}{
			"item_id": id,
		})
		created, err := s.GetItemByID(id)
		return created, true, err
	}

	if patch.Name != nil {
		item.Name = *patch.Name
	}
	if patch.Price != nil {
		item.Price = *patch.Price
	}
	if patch.StoreID != nil {
		item.StoreID = *patch.StoreID
	}
	if err := s.itemRepo.Save(item); err != nil {
		return nil, false, err
	}

	logger.Info("Item updated", map[string]interface{}{
		"item_id": id,
	})
	updated, err := s.GetItemByID(id)
	return updated, false, err
}

func (s *itemService) DeleteItem(id uint) error {
	if err := s.itemRepo.Delete(id); err != nil {
		if apperrors.IsNotFound(err) {
			return ErrItemNotFound
		}
		return err
	}

	logger.Info("Item deleted", map[string]interface{}{
		"item_id": id,
	})
	return nil
}
