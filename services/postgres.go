package services

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pulseprep/ecg_api/model"
	"github.com/pulseprep/ecg_api/shared"
)

type PostgresService struct {
	context.DefaultService
	db *gorm.DB

	database string
}

const POSTGRES_SVC = "postgres_svc"

func (ds PostgresService) Id() string {
	return POSTGRES_SVC
}

func (ds PostgresService) Db() *gorm.DB {
	return ds.db
}

func (ds *PostgresService) Configure(ctx *context.Context) error {
	ds.database = os.Getenv("DATABASE_URL")
	if ds.database == "" {
		// Fallback to individual environment variables
		host := os.Getenv("DB_HOST")
		if host == "" {
			host = "localhost"
		}
		port := os.Getenv("DB_PORT")
		if port == "" {
			port = "5432"
		}
		user := os.Getenv("DB_USER")
		if user == "" {
			user = "postgres"
		}
		password := os.Getenv("DB_PASSWORD")
		if password == "" {
			password = "postgres"
		}
		dbname := os.Getenv("DB_NAME")
		if dbname == "" {
			dbname = "ecg_api"
		}
		sslmode := os.Getenv("DB_SSLMODE")
		if sslmode == "" {
			sslmode = "disable"
		}

		ds.database = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			host, port, user, password, dbname, sslmode)
	}

	return ds.DefaultService.Configure(ctx)
}

func (ds *PostgresService) Start() (err error) {
	ds.db, err = gorm.Open(postgres.Open(ds.database), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return err
	}

	if err := ds.db.AutoMigrate(MigrationModels()...); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		return err
	}

	log.Println("Database connected and migrated successfully")
	return nil
}

func (ds *PostgresService) Shutdown() {
}

// MigrationModels lists every table this service owns.
func MigrationModels() []interface{} {
	return []interface{}{
		&model.User{},
		&model.Module{},
		&model.Lesson{},
		&model.ProgressRecord{},
	}
}

func (ds *PostgresService) HandleError(err error) error {
	if err == nil {
		return nil
	}

	var statusCode int
	var errorType string

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		statusCode = http.StatusNotFound
		errorType = "NOT_FOUND"
	case errors.Is(err, gorm.ErrDuplicatedKey):
		statusCode = http.StatusConflict
		errorType = "CONFLICT"
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		statusCode = http.StatusBadRequest
		errorType = "FOREIGN_KEY_VIOLATION"
	case errors.Is(err, gorm.ErrInvalidTransaction):
		statusCode = http.StatusInternalServerError
		errorType = "TRANSACTION_ERROR"
	default:
		if strings.Contains(err.Error(), "duplicate key value") {
			statusCode = http.StatusConflict
			errorType = "UNIQUE_CONSTRAINT"
		} else {
			statusCode = http.StatusInternalServerError
			errorType = "INTERNAL_ERROR"
		}
	}

	logEntry := log.WithFields(log.Fields{
		"status_code": statusCode,
		"error_type":  errorType,
		"error":       err.Error(),
	})

	if statusCode >= 500 {
		logEntry.Error("Database error occurred")
	} else {
		logEntry.Warn("Database operation failed")
	}

	return fmt.Errorf("%s: %w", errorType, err)
}

// ==================== USER QUERIES ====================

func (ds *PostgresService) GetUserByEmailOrUsername(identifier string) (*model.User, error) {
	var user model.User
	err := ds.db.Where("email = ? OR username = ?", identifier, identifier).First(&user).Error
	if err != nil {
		return nil, ds.HandleError(err)
	}
	return &user, nil
}

func (ds *PostgresService) GetUser(userID string) (*model.User, error) {
	var user model.User
	if err := ds.db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return &user, nil
}

func (ds *PostgresService) CreateUser(user *model.User) (*model.User, error) {
	if err := ds.db.Create(user).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return user, nil
}

func (ds *PostgresService) UpdateUser(user *model.User) error {
	return ds.HandleError(ds.db.Save(user).Error)
}

// ==================== CONTENT QUERIES ====================

func (ds *PostgresService) GetModules() ([]model.Module, error) {
	var modules []model.Module
	err := ds.db.Where("is_active = ?", true).Order(`"order" asc`).Find(&modules).Error
	if err != nil {
		return nil, ds.HandleError(err)
	}
	return modules, nil
}

func (ds *PostgresService) GetModule(moduleID string) (*model.Module, error) {
	var module model.Module
	if err := ds.db.First(&module, "id = ?", moduleID).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return &module, nil
}

func (ds *PostgresService) GetLessonsByModule(moduleID string) ([]model.Lesson, error) {
	var lessons []model.Lesson
	q := ds.db.Where("is_active = ?", true)
	if moduleID != "" {
		q = q.Where("module_id = ?", moduleID)
	}
	if err := q.Order(`"order" asc`).Find(&lessons).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return lessons, nil
}

func (ds *PostgresService) GetLesson(lessonID string) (*model.Lesson, error) {
	var lesson model.Lesson
	err := ds.db.Preload("Module").First(&lesson, "id = ?", lessonID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrLessonNotFound
		}
		return nil, ds.HandleError(err)
	}
	return &lesson, nil
}
