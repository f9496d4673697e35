package service

import (
	"errors"

	"github.com/ikkim/stores-rest-api/internal/app/model"
	"github.com/ikkim/stores-rest-api/internal/app/repository"
	apperrors "github.com/ikkim/stores-rest-api/internal/errors"
	"github.com/ikkim/stores-rest-api/pkg/logger"
)

var (
	ErrTagNotFound   = errors.New("tag not found")
	ErrTagNameExists = errors.New("tag already exists in store")
	ErrTagInUse      = errors.New("tag is linked to at least one item")
)

type TagService interface {
	ListTagsInStore(storeID uint) ([]model.Tag, error)
	CreateTagInStore(storeID uint, name string) (*model.Tag, error)
	GetTagByID(id uint) (*model.Tag, error)
	DeleteTag(id uint) error
	LinkTagToItem(itemID, tagID uint) (*model.Tag, error)
	UnlinkTagFromItem(itemID, tagID uint) (*model.Item, *model.Tag, error)
}

type tagService struct {
	tagRepo   repository.TagRepository
	itemRepo  repository.ItemRepository
	storeRepo repository.StoreRepository
}

func NewTagService(
	tagRepo repository.TagRepository,
	itemRepo repository.ItemRepository,
	storeRepo repository.StoreRepository,
) TagService {
	return &tagService{
		tagRepo:   tagRepo,
		itemRepo:  itemRepo,
		storeRepo: storeRepo,
	}
}

func (s *tagService) ensureStore(storeID uint) error {
	if _, err := s.storeRepo.FindByID(storeID); err != nil {
		if apperrors.IsNotFound(err) {
			return ErrStoreNotFound
		}
		return err
	}
	return nil
}

// ListTagsInStore 매장에 속한 태그 목록 조회
func (s *tagService) ListTagsInStore(storeID uint) ([]model.Tag, error) {
	if err := s.ensureStore(storeID); err != nil {
		return nil, err
	}
	return s.tagRepo.FindByStore(storeID)
}

func (s *tagService) CreateTagInStore(storeID uint, name string) (*model.Tag, error) {
	if err := s.ensureStore(storeID); err != nil {
		return nil, err
	}

	existing, err := s.tagRepo.FindByStoreAndName(storeID, name)
	if err != nil && !apperrors.IsNotFound(err) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrTagNameExists
	}

	tag := &model.Tag{Name: name, StoreID: storeID}
	if err := s.tagRepo.Create(tag); err != nil {
		if apperrors.IsDuplicateKey(err) {
			return nil, ErrTagNameExists
		}
		return nil, err
	}

	logger.Info("Tag created", map[string]interface{}{
		"tag_id":   tag.ID,
		"store_id": storeID,
		"name":     name,
	})
	return s.GetTagByID(tag.ID)
}

func (s *tagService) GetTagByID(id uint) (*model.Tag, error) {
	tag, err := s.tagRepo.FindByID(id)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, ErrTagNotFound
		}
		return nil, err
	}
	return tag, nil
}

// DeleteTag 연결된 상품이 없는 태그만 삭제
func (s *tagService) DeleteTag(id uint) error {
	if _, err := s.GetTagByID(id); err != nil {
		return err
	}

	count, err := s.tagRepo.CountItems(id)
	if err != nil {
		return err
	}
	if count > 0 {
		logger.Warn("Tag deletion refused: tag has linked items", map[string]interface{}{
			"tag_id": id,
			"items":  count,
		})
		return ErrTagInUse
	}

	if err := s.tagRepo.Delete(id); err != nil {
		// the tag existed a moment ago, so nothing deleted means a link
		// appeared in between
		if apperrors.IsNotFound(err) {
			return ErrTagInUse
		}
		return err
	}

	logger.Info("Tag deleted", map[string]interface{}{
		"tag_id": id,
	})
	return nil
}

func (s *tagService) lookupPair(itemID, tagID uint) (*model.Item, *model.Tag, error) {
	item, err := s.itemRepo.FindByID(itemID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, nil, ErrItemNotFound
		}
		return nil, nil, err
	}
	tag, err := s.GetTagByID(tagID)
	if err != nil {
		return nil, nil, err
	}
	return item, tag, nil
}

func (s *tagService) LinkTagToItem(itemID, tagID uint) (*model.Tag, error) {
	if _, _, err := s.lookupPair(itemID, tagID); err != nil {
		return nil, err
	}

	if err := s.tagRepo.LinkItem(itemID, tagID); err != nil {
		return nil, err
	}

	logger.Info("Tag linked to item", map[string]interface{}{
		"item_id": itemID,
		"tag_id":  tagID,
	})
	return s.GetTagByID(tagID)
}

func (s *tagService) UnlinkTagFromItem(itemID, tagID uint) (*model.Item, *model.Tag, error) {
	if _, _, err := s.lookupPair(itemID, tagID); err != nil {
		return nil, nil, err
	}

	if err := s.tagRepo.UnlinkItem(itemID, tagID); err != nil {
		return nil, nil, err
	}

	logger.Info("Tag unlinked from item", map[string]interface{}{
		"item_id": itemID,
		"tag_id":  tagID,
	})
	return s.lookupPair(itemID, tagID)
}
