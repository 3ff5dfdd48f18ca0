package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/ngopidibandung/cafe-map-backend/internal/api"
	"github.com/ngopidibandung/cafe-map-backend/internal/auth"
	"github.com/ngopidibandung/cafe-map-backend/internal/config"
	"github.com/ngopidibandung/cafe-map-backend/internal/database"
	"github.com/ngopidibandung/cafe-map-backend/internal/middleware"
	"github.com/ngopidibandung/cafe-map-backend/internal/repository"
	"github.com/ngopidibandung/cafe-map-backend/internal/service"
)

func main() {
	// 加载配置
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	// 初始化数据库
	dbConfig := database.Config{
		Path: cfg.DBPath,
	}
	if err := database.Init(dbConfig); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer database.Close()

	repo := repository.NewCafeRepository(database.GetDB())
	cafeService := service.NewCafeService(repo, cfg.DatasetPath)
	if err := cafeService.LoadFromRepository(context.Background()); err != nil {
		log.Fatal("Failed to load cafe dataset:", err)
	}
	log.Printf("Loaded %d cafes", len(cafeService.Snapshot()))

	if cfg.AdminPasswordHash == "" {
		log.Println("[WARN] ADMIN_PASSWORD_HASH not set, admin login is disabled")
	}
	authenticator := auth.NewAuthenticator(cfg.AdminUsername, cfg.AdminPasswordHash, cfg.JWTSecret, cfg.TokenTTL)

	limiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateWindow)
	defer limiter.Stop()

	// 初始化路由
	router := api.SetupRouter(cfg, cafeService, authenticator, limiter)

	// 启动服务器
	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
