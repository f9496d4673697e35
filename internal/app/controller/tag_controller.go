package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/stores-rest-api/internal/app/schema"
	"github.com/ikkim/stores-rest-api/internal/app/service"
	apperrors "github.com/ikkim/stores-rest-api/internal/errors"
	"github.com/ikkim/stores-rest-api/internal/middleware"
)

const msgTagNotFound = "Tag not found."

type TagController struct {
	service service.TagService
}

func NewTagController(service service.TagService) *TagController {
	return &TagController{service: service}
}

// respondLookupError maps the not-found sentinels shared by tag routes
func respondLookupError(c *gin.Context, err error, action string, fields map[string]interface{}) {
	switch {
	case errors.Is(err, service.ErrStoreNotFound):
		apperrors.NotFound(c, msgStoreNotFound)
	case errors.Is(err, service.ErrItemNotFound):
		apperrors.NotFound(c, msgItemNotFound)
	case errors.Is(err, service.ErrTagNotFound):
		apperrors.NotFound(c, msgTagNotFound)
	default:
		middleware.GetLoggerFromContext(c).Error("Failed to "+action, err, fields)
		apperrors.InternalError(c, "")
	}
}

// ListTagsInStore GET /store/:id/tag
func (ctrl *TagController) ListTagsInStore(c *gin.Context) {
	storeID, ok := pathID(c, "id", msgStoreNotFound)
	if !ok {
		return
	}

	tags, err := ctrl.service.ListTagsInStore(storeID)
	if err != nil {
		respondLookupError(c, err, "list tags", map[string]interface{}{"store_id": storeID})
		return
	}

	c.JSON(http.StatusOK, schema.NewTagViews(tags))
}

// CreateTagInStore POST /store/:id/tag
func (ctrl *TagController) CreateTagInStore(c *gin.Context) {
	storeID, ok := pathID(c, "id", msgStoreNotFound)
	if !ok {
		return
	}

	var req schema.TagRequest
	if !bindJSON(c, &req) {
		return
	}

	tag, err := ctrl.service.CreateTagInStore(storeID, req.Name)
	if err != nil {
		if errors.Is(err, service.ErrTagNameExists) {
			apperrors.Conflict(c, "Tag already exists in store.")
			return
		}
		respondLookupError(c, err, "create tag", map[string]interface{}{"store_id": storeID})
		return
	}

	c.JSON(http.StatusOK, schema.NewTagView(tag))
}

// GetTag GET /tag/:id
func (ctrl *TagController) GetTag(c *gin.Context) {
	id, ok := pathID(c, "id", msgTagNotFound)
	if !ok {
		return
	}

	tag, err := ctrl.service.GetTagByID(id)
	if err != nil {
		respondLookupError(c, err, "fetch tag", map[string]interface{}{"tag_id": id})
		return
	}

	c.JSON(http.StatusOK, schema.NewTagView(tag))
}

// DeleteTag DELETE /tag/:id
func (ctrl *TagController) DeleteTag(c *gin.Context) {
	id, ok := pathID(c, "id", msgTagNotFound)
	if !ok {
		return
	}

	if err := ctrl.service.DeleteTag(id); err != nil {
		if errors.Is(err, service.ErrTagInUse) {
			apperrors.Conflict(c, "Could not delete tag. Make sure no item is linked to it.")
			return
		}
		respondLookupError(c, err, "delete tag", map[string]interface{}{"tag_id": id})
		return
	}

	c.JSON(http.StatusOK, schema.MessageView{Message: "Tag deleted."})
}

// LinkTag POST /item/:id/tag/:tag_id
func (ctrl *TagController) LinkTag(c *gin.Context) {
	itemID, ok := pathID(c, "id", msgItemNotFound)
	if !ok {
		return
	}
	tagID, ok := pathID(c, "tag_id", msgTagNotFound)
	if !ok {
		return
	}

	tag, err := ctrl.service.LinkTagToItem(itemID, tagID)
	if err != nil {
		respondLookupError(c, err, "link tag", map[string]interface{}{"item_id": itemID, "tag_id": tagID})
		return
	}

	c.JSON(http.StatusCreated, schema.NewTagView(tag))
}

// UnlinkTag DELETE /item/:id/tag/:tag_id
func (ctrl *TagController) UnlinkTag(c *gin.Context) {
	itemID, ok := pathID(c, "id", msgItemNotFound)
	if !ok {
		return
	}
	tagID, ok := pathID(c, "tag_id", msgTagNotFound)
	if !ok {
		return
	}

	item, tag, err := ctrl.service.UnlinkTagFromItem(itemID, tagID)
	if err != nil {
		respondLookupError(c, err, "unlink tag", map[string]interface{}{"item_id": itemID, "tag_id": tagID})
		return
	}

	c.JSON(http.StatusOK, schema.ItemTagView{
		Message: "Item removed from tag.",
		Item:    schema.NewItemView(item),
		Tag:     schema.NewTagView(tag),
	})
}
