package seeders

import (
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/pulseprep/ecg_api/model"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AdminSeeder handles seeding the default admin user
type AdminSeeder struct {
	db *gorm.DB
}

func NewAdminSeeder(db *gorm.DB) *AdminSeeder {
	return &AdminSeeder{db: db}
}

// SeedAdmin creates a default admin user if none exists. The password comes
// from ADMIN_PASSWORD; seeding is skipped when it is unset.
func (s *AdminSeeder) SeedAdmin() error {
	var existing model.User
	if err := s.db.Where("role = ?", "admin").First(&existing).Error; err == nil {
		log.Println("Admin user already exists, skipping admin seeding")
		return nil
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		log.Println("ADMIN_PASSWORD not set, skipping admin seeding")
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	id, _ := uuid.NewV7()

	admin := model.User{
		ID:        id.String(),
		Email:     "admin@pulseprep.io",
		Username:  "admin",
		Password:  string(hashedPassword),
		Role:      "admin",
		LastLogin: time.Now(),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := s.db.Create(&admin).Error; err != nil {
		log.Printf("Error creating admin user: %v", err)
		return err
	}

	log.Printf("Created admin user: %s", admin.Email)
	return nil
}
