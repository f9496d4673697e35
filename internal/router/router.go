package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/stores-rest-api/config"
	"github.com/ikkim/stores-rest-api/internal/app/controller"
	"github.com/ikkim/stores-rest-api/internal/metrics"
	"github.com/ikkim/stores-rest-api/internal/middleware"
)

type Router struct {
	authController  *controller.AuthController
	storeController *controller.StoreController
	itemController  *controller.ItemController
	tagController   *controller.TagController
	authMiddleware  *middleware.AuthMiddleware
	config          *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	storeController *controller.StoreController,
	itemController *controller.ItemController,
	tagController *controller.TagController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:  authController,
		storeController: storeController,
		itemController:  itemController,
		tagController:   tagController,
		authMiddleware:  authMiddleware,
		config:          cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(metrics.GinMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Stores REST API is running",
		})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	auth := r.authMiddleware

	router.POST("/register", r.authController.Register)
	router.POST("/login", r.authController.Login)
	router.POST("/logout", auth.AuthenticateLogout(), r.authController.Logout)
	router.POST("/refresh", auth.RequireRefresh(), r.authController.Refresh)

	users := router.Group("/user")
	{
		users.GET("/:id", r.authController.GetUser)
		users.DELETE("/:id", r.authController.DeleteUser)
	}

	stores := router.Group("/store")
	{
		stores.GET("", auth.Authenticate(), r.storeController.ListStores)
		stores.POST("", auth.RequireFresh(), r.storeController.CreateStore)
		stores.GET("/:id", auth.Authenticate(), r.storeController.GetStore)
		stores.DELETE("/:id", auth.RequireAdmin(), r.storeController.DeleteStore)

		stores.GET("/:id/tag", r.tagController.ListTagsInStore)
		stores.POST("/:id/tag", r.tagController.CreateTagInStore)
	}

	items := router.Group("/item")
	{
		items.GET("", auth.Authenticate(), r.itemController.ListItems)
		items.POST("", auth.Authenticate(), r.itemController.CreateItem)
		items.GET("/:id", auth.Authenticate(), r.itemController.GetItem)
		items.PUT("/:id", auth.Authenticate(), r.itemController.PutItem)
		items.DELETE("/:id", auth.Authenticate(), r.itemController.DeleteItem)

		items.POST("/:id/tag/:tag_id", r.tagController.LinkTag)
		items.DELETE("/:id/tag/:tag_id", r.tagController.UnlinkTag)
	}

	tags := router.Group("/tag")
	{
		tags.GET("/:id", r.tagController.GetTag)
		tags.DELETE("/:id", r.tagController.DeleteTag)
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed && origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Vary", "Origin")
		}

		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
