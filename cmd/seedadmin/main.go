package main

import (
	"context"
	"errors"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"

	"github.com/freelance-market/market-backend/config"
	"github.com/freelance-market/market-backend/internal/storage/postgres"
	"github.com/freelance-market/market-backend/internal/users/domain"
	"github.com/freelance-market/market-backend/internal/users/repository"
)

// Seeds the platform admin account. Safe to run repeatedly: if the admin
// email already exists nothing is written.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		email = "admin@example.com"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin123"
	}

	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	repo := repository.NewUserRepository(db)

	if _, err := repo.GetByEmail(ctx, email); err == nil {
		log.Printf("admin %s already exists, nothing to do", email)
		return
	} else if !errors.Is(err, domain.ErrNotFound) {
		log.Fatalf("lookup admin: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	admin, err := repo.Create(ctx, &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    "Platform",
		LastName:     "Admin",
		Role:         domain.RoleAdmin,
		IsVerified:   true,
	})
	if err != nil {
		log.Fatalf("create admin: %v", err)
	}

	log.Printf("seeded admin %s (id=%s)", admin.Email, admin.ID)
}
