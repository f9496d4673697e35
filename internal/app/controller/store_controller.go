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

const msgStoreNotFound = "Store not found."

type StoreController struct {
	service service.StoreService
}

func NewStoreController(service service.StoreService) *StoreController {
	return &StoreController{service: service}
}

// ListStores GET /store
func (ctrl *StoreController) ListStores(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	stores, err := ctrl.service.ListStores()
	if err != nil {
		log.Error("Failed to list stores", err)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, schema.NewStoreViews(stores))
}

// GetStore GET /store/:id
func (ctrl *StoreController) GetStore(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := pathID(c, "id", msgStoreNotFound)
	if !ok {
		return
	}

	store, err := ctrl.service.GetStoreByID(id)
	if err != nil {
		if errors.Is(err, service.ErrStoreNotFound) {
			apperrors.NotFound(c, msgStoreNotFound)
			return
		}
		log.Error("Failed to fetch store", err, map[string]interface{}{
			"store_id": id,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, schema.NewStoreView(store))
}

// CreateStore POST /store
func (ctrl *StoreController) CreateStore(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req schema.StoreRequest
	if !bindJSON(c, &req) {
		return
	}

	store, err := ctrl.service.CreateStore(req.Name)
	if err != nil {
		if errors.Is(err, service.ErrStoreNameExists) {
			apperrors.Conflict(c, "A store with that name already exists.")
			return
		}
		log.Error("Failed to create store", err, map[string]interface{}{
			"name": req.Name,
		})
		apperrors.InternalError(c, "An error occurred while creating the store.")
		return
	}

	c.JSON(http.StatusCreated, schema.NewStoreView(store))
}

// DeleteStore DELETE /store/:id
func (ctrl *StoreController) DeleteStore(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := pathID(c, "id", msgStoreNotFound)
	if !ok {
		return
	}

	if err := ctrl.service.DeleteStore(id); err != nil {
		switch {
		case errors.Is(err, service.ErrStoreNotFound):
			apperrors.NotFound(c, msgStoreNotFound)
		case errors.Is(err, service.ErrStoreNotEmpty):
			apperrors.Conflict(c, "Could not delete store. Remove its items and tags first.")
		default:
			log.Error("Failed to delete store", err, map[string]interface{}{
				"store_id": id,
			})
			apperrors.InternalError(c, "An error occurred while deleting the store.")
		}
		return
	}

	c.JSON(http.StatusOK, schema.MessageView{Message: "Store deleted."})
}
