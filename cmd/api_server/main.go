package main

import (
	"github.com/gin-gonic/gin"
	catalogAPI "github.com/hartawan/keymart-backend/internal/catalog/api"
	catalogRepo "github.com/hartawan/keymart-backend/internal/catalog/repository"
	catalogSvc "github.com/hartawan/keymart-backend/internal/catalog/service"
	orderAPI "github.com/hartawan/keymart-backend/internal/order/api"
	orderRepo "github.com/hartawan/keymart-backend/internal/order/repository"
	orderSvc "github.com/hartawan/keymart-backend/internal/order/service"
	"github.com/hartawan/keymart-backend/internal/platform/config"
	"github.com/hartawan/keymart-backend/internal/platform/database"
	"github.com/hartawan/keymart-backend/internal/platform/logger"
	promoAPI "github.com/hartawan/keymart-backend/internal/promo/api"
	promoRepo "github.com/hartawan/keymart-backend/internal/promo/repository"
	promoSvc "github.com/hartawan/keymart-backend/internal/promo/service"
	userAPI "github.com/hartawan/keymart-backend/internal/user/api"
	userRepo "github.com/hartawan/keymart-backend/internal/user/repository"
	userSvc "github.com/hartawan/keymart-backend/internal/user/service"
)

func main() {
	dbCfg := config.LoadDBConfig()
	serverCfg := config.LoadServerConfig("8080")

	logger.Info("Starting Keymart API Server...")

	db, err := database.Connect(dbCfg.DSN)
	if err != nil {
		logger.Error("Failed to connect to database", err, nil)
		return
	}
	defer db.Close()

	// Setup Dependencies
	catalogRepository := catalogRepo.NewPostgresCatalogRepository(db)
	userRepository := userRepo.NewPostgresUserRepository(db)
	promoRepository := promoRepo.NewPostgresPromoRepository(db)
	orderRepository := orderRepo.NewPostgresOrderRepository(db)

	catalogService := catalogSvc.NewCatalogService(catalogRepository)
	userService := userSvc.NewUserService(userRepository)
	promoService := promoSvc.NewPromoService(promoRepository)
	orderService := orderSvc.NewOrderService(orderRepository, catalogRepository, userRepository, promoRepository)

	catalogHandler := catalogAPI.NewCatalogHandler(catalogService)
	userHandler := userAPI.NewUserHandler(userService)
	promoHandler := promoAPI.NewPromoHandler(promoService)
	orderHandler := orderAPI.NewOrderHandler(orderService)

	// Setup Gin Router
	router := gin.Default()
	apiV1 := router.Group("/api/v1")
	catalogHandler.RegisterRoutes(apiV1)
	userHandler.RegisterRoutes(apiV1)
	promoHandler.RegisterRoutes(apiV1)
	orderHandler.RegisterRoutes(apiV1)

	logger.Info("Keymart API Server running on port " + serverCfg.Port)
	if errSrv := router.Run(serverCfg.Port); errSrv != nil {
		logger.Error("Failed to run API server", errSrv, nil)
	}
}
