package seeders

import (
	"log"

	"github.com/pulseprep/ecg_api/catalog"
	"github.com/pulseprep/ecg_api/model"
	"gorm.io/gorm"
)

// LessonSeeder handles seeding lesson content
type LessonSeeder struct {
	db *gorm.DB
}

func NewLessonSeeder(db *gorm.DB) *LessonSeeder {
	return &LessonSeeder{db: db}
}

// SeedLessons inserts the built-in lesson catalog, skipping any that exist
func (s *LessonSeeder) SeedLessons() error {
	for _, lesson := range catalog.Lessons() {
		var existing model.Lesson
		if err := s.db.Where("id = ?", lesson.ID).First(&existing).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				if err := s.db.Create(&lesson).Error; err != nil {
					log.Printf("Error creating lesson %s: %v", lesson.Title, err)
					return err
				}
				log.Printf("Created lesson: %s", lesson.Title)
			} else {
				log.Printf("Error checking lesson %s: %v", lesson.Title, err)
				return err
			}
		} else {
			log.Printf("Lesson %s already exists, skipping", lesson.Title)
		}
	}

	log.Println("Lesson seeding completed successfully")
	return nil
}
