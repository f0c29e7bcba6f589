package services

import (
	"encoding/json"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pulseprep/ecg_api/model"
	"github.com/pulseprep/ecg_api/shared"
)

// ProgressStore persists LessonProgress records per learner. Every method
// returns an explicit error; a write either lands or the caller knows it
// didn't. Absent records are shared.ErrProgressNotFound.
type ProgressStore interface {
	Save(userID string, progress *model.LessonProgress) error
	Load(userID, lessonID string) (*model.LessonProgress, error)
	Delete(userID, lessonID string) error
	LoadAll(userID string) (map[string]*model.LessonProgress, error)
}

// ProgressKey builds the composite storage key for one learner's progress in
// one lesson: "lesson_progress_<userID>_<lessonID>".
func ProgressKey(userID, lessonID string) string {
	return fmt.Sprintf("%s_%s_%s", shared.ProgressKeyPrefix, userID, lessonID)
}

type GormProgressStore struct {
	db *gorm.DB
}

func NewProgressStore(db *gorm.DB) *GormProgressStore {
	return &GormProgressStore{db: db}
}

// Save upserts the record. A write whose LastActivity predates the stored
// row's timestamp is rejected with shared.ErrStaleWrite (last-write-wins by
// activity timestamp).
func (s *GormProgressStore) Save(userID string, progress *model.LessonProgress) error {
	payload, err := json.Marshal(progress)
	if err != nil {
		return fmt.Errorf("failed to serialize progress for %s: %w", progress.LessonID, err)
	}

	key := ProgressKey(userID, progress.LessonID)

	var existing model.ProgressRecord
	err = s.db.First(&existing, "key = ?", key).Error
	if err == nil && existing.UpdatedAt.After(progress.LastActivity) {
		return shared.ErrStaleWrite
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	record := model.ProgressRecord{
		Key:      key,
		UserID:   userID,
		LessonID: progress.LessonID,
		Payload:  payload,
	}

	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(&record).Error
}

func (s *GormProgressStore) Load(userID, lessonID string) (*model.LessonProgress, error) {
	var record model.ProgressRecord
	err := s.db.First(&record, "key = ?", ProgressKey(userID, lessonID)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrProgressNotFound
		}
		return nil, err
	}

	return s.decode(&record)
}

func (s *GormProgressStore) Delete(userID, lessonID string) error {
	return s.db.Delete(&model.ProgressRecord{}, "key = ?", ProgressKey(userID, lessonID)).Error
}

func (s *GormProgressStore) LoadAll(userID string) (map[string]*model.LessonProgress, error) {
	var records []model.ProgressRecord
	if err := s.db.Where("user_id = ?", userID).Find(&records).Error; err != nil {
		return nil, err
	}

	all := make(map[string]*model.LessonProgress, len(records))
	for i := range records {
		progress, err := s.decode(&records[i])
		if err != nil {
			continue
		}
		all[records[i].LessonID] = progress
	}

	return all, nil
}

// decode treats a corrupt payload as not-found: it is logged and the record
// is reported absent rather than surfacing a serialization error upward.
func (s *GormProgressStore) decode(record *model.ProgressRecord) (*model.LessonProgress, error) {
	var progress model.LessonProgress
	if err := json.Unmarshal(record.Payload, &progress); err != nil {
		log.WithFields(log.Fields{
			"key":   record.Key,
			"error": err.Error(),
		}).Warn("Corrupt progress payload, treating as not found")
		return nil, shared.ErrProgressNotFound
	}
	return &progress, nil
}
