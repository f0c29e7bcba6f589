package seeders

import (
	"log"

	"gorm.io/gorm"
)

// MainSeeder coordinates all seeding operations
type MainSeeder struct {
	db *gorm.DB
}

func NewMainSeeder(db *gorm.DB) *MainSeeder {
	return &MainSeeder{db: db}
}

// SeedAll runs all seeders in the correct order
func (s *MainSeeder) SeedAll() error {
	log.Println("Starting database seeding...")

	// 1. Modules first (lessons reference them)
	moduleSeeder := NewModuleSeeder(s.db)
	if err := moduleSeeder.SeedModules(); err != nil {
		log.Printf("Module seeding failed: %v", err)
		return err
	}

	// 2. Lessons
	lessonSeeder := NewLessonSeeder(s.db)
	if err := lessonSeeder.SeedLessons(); err != nil {
		log.Printf("Lesson seeding failed: %v", err)
		return err
	}

	// 3. Admin user
	adminSeeder := NewAdminSeeder(s.db)
	if err := adminSeeder.SeedAdmin(); err != nil {
		log.Printf("Admin seeding failed: %v", err)
		return err
	}

	log.Println("Database seeding completed successfully!")
	return nil
}

func (s *MainSeeder) SeedModulesOnly() error {
	moduleSeeder := NewModuleSeeder(s.db)
	return moduleSeeder.SeedModules()
}

func (s *MainSeeder) SeedLessonsOnly() error {
	lessonSeeder := NewLessonSeeder(s.db)
	return lessonSeeder.SeedLessons()
}

func (s *MainSeeder) SeedAdminOnly() error {
	adminSeeder := NewAdminSeeder(s.db)
	return adminSeeder.SeedAdmin()
}
