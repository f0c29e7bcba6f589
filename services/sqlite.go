package services

import (
	"os"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SqliteService is the dev/test stand-in for PostgresService. Set
// DB_DRIVER=sqlite and DB_DATABASE to a file path (or ":memory:").
type SqliteService struct {
	context.DefaultService
	db *gorm.DB

	database string
}

const SQLITE_SVC = "sqlite_svc"

func (ds SqliteService) Id() string {
	return SQLITE_SVC
}

func (ds SqliteService) Db() *gorm.DB {
	return ds.db
}

func (ds *SqliteService) Configure(ctx *context.Context) error {
	ds.database = os.Getenv("DB_DATABASE")
	if ds.database == "" {
		ds.database = "ecg_api.db"
	}

	return ds.DefaultService.Configure(ctx)
}

func (ds *SqliteService) Start() (err error) {
	ds.db, err = gorm.Open(sqlite.Open(ds.database), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
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

func (ds *SqliteService) Shutdown() {
}
