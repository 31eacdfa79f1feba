package main

import (
	"context"
	"log"
	"os"

	"userhub/internal/auth"
	"userhub/internal/config"
	"userhub/internal/db"
	apperrors "userhub/internal/errors"
	"userhub/internal/model"
	"userhub/internal/repository"
)

// Seeds the initial admin account from ADMIN_EMAIL / ADMIN_PASSWORD.
// Safe to re-run: an existing account is left alone.
func main() {
	log.Println("Starting seed script...")

	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Fatal("ADMIN_EMAIL and ADMIN_PASSWORD must be set")
	}
	fullName := os.Getenv("ADMIN_NAME")
	if fullName == "" {
		fullName = "Administrator"
	}

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	repo := repository.NewUserRepository(gormDB)
	ctx := context.Background()

	existing, err := repo.FindByEmail(ctx, email)
	if err != nil && err != apperrors.ErrUserNotFound {
		log.Fatalf("Failed to check admin account: %v", err)
	}
	if existing != nil {
		log.Printf("Admin account %s already exists, nothing to do", email)
		return
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	admin := &model.User{
		Email:        email,
		PasswordHash: hashed,
		FullName:     fullName,
		Role:         model.RoleAdmin,
	}
	if err := repo.Create(ctx, admin); err != nil {
		log.Fatalf("Failed to create admin account: %v", err)
	}

	log.Printf("Seed completed successfully, admin account %s created", email)
}
