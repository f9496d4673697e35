package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/stores-rest-api/internal/app/schema"
	"github.com/ikkim/stores-rest-api/internal/app/service"
	apperrors "github.com/ikkim/stores-rest-api/internal/errors"
	"github.com/ikkim/stores-rest-api/internal/middleware"
	"github.com/ikkim/stores-rest-api/internal/validation"
)

const msgItemNotFound = "Item not found."

type ItemController struct {
	service service.ItemService
}

func NewItemController(service service.ItemService) *ItemController {
	return &ItemController{service: service}
}

// ListItems GET /item
func (ctrl *ItemController) ListItems(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	items, err := ctrl.service.ListItems()
	if err != nil {
		log.Error("Failed to list items", err)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, schema.NewItemViews(items))
}

// GetItem GET /item/:id
func (ctrl *ItemController) GetItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := pathID(c, "id", msgItemNotFound)
	if !ok {
		return
	}

	item, err := ctrl.service.GetItemByID(id)
	if err != nil {
		if errors.Is(err, service.ErrItemNotFound) {
			apperrors.NotFound(c, msgItemNotFound)
			return
		}
		log.Error("Failed to fetch item", err, map[string]interface{}{
			"item_id": id,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, schema.NewItemView(item))
}

// CreateItem POST /item
func (ctrl *ItemController) CreateItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req schema.ItemRequest
	if !bindJSON(c, &req) {
		return
	}

	item, err := ctrl.service.CreateItem(*req.Name, *req.Price, *req.StoreID)
	if err != nil {
		if errors.Is(err, service.ErrStoreNotFound) {
			apperrors.NotFound(c, msgStoreNotFound)
			return
		}
		log.Error("Failed to create item", err, map[string]interface{}{
			"store_id": *req.StoreID,
		})
		apperrors.InternalError(c, "An error occurred while inserting the item.")
		return
	}

	c.JSON(http.StatusCreated, schema.NewItemView(item))
}

// PutItem PUT /item/:id
// Updates the supplied fields, or creates the item under the path id.
func (ctrl *ItemController) PutItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := pathID(c, "id", msgItemNotFound)
	if !ok {
		return
	}

	var req schema.ItemUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	item, created, err := ctrl.service.PutItem(id, service.ItemPatch{
		Name:    req.Name,
		Price:   req.Price,
		StoreID: req.StoreID,
	})
	if err != nil {
		var fields validation.FieldErrors
		switch {
		case errors.As(err, &fields):
			apperrors.RespondWithValidationError(c, fields)
		case errors.Is(err, service.ErrStoreNotFound):
			apperrors.NotFound(c, msgStoreNotFound)
		default:
			log.Error("Failed to put item", err, map[string]interface{}{
				"item_id": id,
			})
			apperrors.InternalError(c, "An error occurred while saving the item.")
		}
		return
	}

	log.Debug("Item put", map[string]interface{}{
		"item_id": id,
		"created": created,
	})
	c.JSON(http.StatusOK, schema.NewItemView(item))
}

// DeleteItem DELETE /item/:id
func (ctrl *ItemController) DeleteItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := pathID(c, "id", msgItemNotFound)
	if !ok {
		return
	}

	if err := ctrl.service.DeleteItem(id); err != nil {
		if errors.Is(err, service.ErrItemNotFound) {
			apperrors.NotFound(c, msgItemNotFound)
			return
		}
		log.Error("Failed to delete item", err, map[string]interface{}{
			"item_id": id,
		})
		apperrors.InternalError(c, "An error occurred while deleting the item.")
		return
	}

	c.JSON(http.StatusOK, schema.MessageView{Message: "Item deleted."})
}
