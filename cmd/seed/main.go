package main

import (
	"errors"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/recipehub/backend/config"
	"github.com/recipehub/backend/internal/database"
	"github.com/recipehub/backend/internal/models"
	"github.com/recipehub/backend/internal/types"
)

// Seeds the default categories and, when ADMIN_EMAIL and ADMIN_PASSWORD
// are set, an initial admin account.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	if err := database.SeedCategories(db); err != nil {
		log.Fatalf("category seeding failed: %v", err)
	}
	log.Println("categories seeded")

	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		return
	}

	if err := seedAdmin(db, email, password); err != nil {
		log.Fatalf("admin seeding failed: %v", err)
	}
	log.Printf("admin account ready: %s", email)
}

func seedAdmin(db *gorm.DB, email, password string) error {
	var existing models.User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		if existing.Role != types.RoleAdmin {
			existing.Role = types.RoleAdmin
			return db.Save(&existing).Error
		}
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	username := os.Getenv("ADMIN_USERNAME")
	if username == "" {
		username = "admin"
	}

	admin := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashed),
		Role:         types.RoleAdmin,
	}
	return db.Create(&admin).Error
}
