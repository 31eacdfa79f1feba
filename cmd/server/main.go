package main

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	_ "userhub/docs" // swagger docs

	"userhub/internal/auth"
	"userhub/internal/cache"
	"userhub/internal/config"
	"userhub/internal/db"
	"userhub/internal/handler"
	"userhub/internal/model"
	"userhub/internal/repository"
	"userhub/internal/router"
	"userhub/internal/service"
	"userhub/internal/storage"
)

// @title UserHub API
// @version 1.0
// @description User management API with registration, JWT authentication, role-gated admin CRUD and profile image upload.
// @host localhost:5050
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	e := echo.New()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	if err := gormDB.AutoMigrate(&model.User{}); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	images, err := storage.NewImageStore(cfg.UploadsDir)
	if err != nil {
		log.Fatalf("image store init: %v", err)
	}

	userRepo := repository.NewUserRepository(gormDB)
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	userService := service.NewUserService(userRepo, jwtService, cacheClient, images)

	authHandler := handler.NewAuthHandler(userService, images)
	adminHandler := handler.NewAdminHandler(userService, images)

	router.Register(e, jwtService, authHandler, adminHandler, cfg.UploadsDir)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
