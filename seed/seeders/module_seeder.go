package seeders

import (
	"log"

	"github.com/pulseprep/ecg_api/catalog"
	"github.com/pulseprep/ecg_api/model"
	"gorm.io/gorm"
)

// ModuleSeeder handles seeding course modules
type ModuleSeeder struct {
	db *gorm.DB
}

func NewModuleSeeder(db *gorm.DB) *ModuleSeeder {
	return &ModuleSeeder{db: db}
}

// SeedModules inserts the built-in course modules, skipping any that exist
func (s *ModuleSeeder) SeedModules() error {
	for _, module := range catalog.Modules() {
		var existing model.Module
		if err := s.db.Where("id = ?", module.ID).First(&existing).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				if err := s.db.Create(&module).Error; err != nil {
					log.Printf("Error creating module %s: %v", module.Title, err)
					return err
				}
				log.Printf("Created module: %s", module.Title)
			} else {
				log.Printf("Error checking module %s: %v", module.Title, err)
				return err
			}
		} else {
			log.Printf("Module %s already exists, skipping", module.Title)
		}
	}

	log.Println("Module seeding completed successfully")
	return nil
}
