package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ikkim/stores-rest-api/config"
	"github.com/ikkim/stores-rest-api/internal/app/controller"
	"github.com/ikkim/stores-rest-api/internal/app/repository"
	"github.com/ikkim/stores-rest-api/internal/app/service"
	"github.com/ikkim/stores-rest-api/internal/db"
	"github.com/ikkim/stores-rest-api/internal/middleware"
	"github.com/ikkim/stores-rest-api/internal/router"
	"github.com/ikkim/stores-rest-api/internal/scheduler"
	"github.com/ikkim/stores-rest-api/pkg/logger"
	appRedis "github.com/ikkim/stores-rest-api/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logger.Initialize(logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		EnableColor: true,
	})

	logger.Info("Starting Stores REST API", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   cfg.Log.Level,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Token blocklist
	var blocklist repository.TokenBlocklist
	switch cfg.Blocklist.Backend {
	case config.BlocklistBackendRedis:
		client, err := appRedis.Init(&cfg.Redis)
		if err != nil {
			logger.Fatal("Failed to initialize redis", err)
		}
		defer func() {
			if err := appRedis.Close(); err != nil {
				logger.Error("Failed to close redis connection", err)
			}
		}()
		blocklist = repository.NewRedisTokenBlocklist(client)
	default:
		blocklist = repository.NewDBTokenBlocklist(db.GetDB())
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	storeRepo := repository.NewStoreRepository(db.GetDB())
	itemRepo := repository.NewItemRepository(db.GetDB())
	tagRepo := repository.NewTagRepository(db.GetDB())

	// Initialize services
	authService := service.NewAuthService(
		userRepo,
		blocklist,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
		cfg.JWT.AdminUserID,
	)
	storeService := service.NewStoreService(storeRepo, cfg.Store.DeletePolicy)
	itemService := service.NewItemService(itemRepo, storeRepo)
	tagService := service.NewTagService(tagRepo, itemRepo, storeRepo)

	// Initialize controllers
	authController := controller.NewAuthController(authService)
	storeController := controller.NewStoreController(storeService)
	itemController := controller.NewItemController(itemService)
	tagController := controller.NewTagController(tagService)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(authService)

	// Setup router
	r := router.NewRouter(
		authController,
		storeController,
		itemController,
		tagController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Blocklist pruning
	if cfg.Blocklist.PruneSchedule != "" {
		pruner := scheduler.NewBlocklistPruneScheduler(blocklist, cfg.Blocklist.PruneSchedule)
		if err := pruner.Start(); err != nil {
			logger.Fatal("Failed to start blocklist prune scheduler", err)
		}
		defer pruner.Stop()
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", err)
	}

	logger.Info("Server stopped successfully")
}
