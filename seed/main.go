package main

import (
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/pulseprep/ecg_api/seed/seeders"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	var (
		seedType = flag.String("type", "all", "Type of seeding: all, modules, lessons, admin")
		dbPath   = flag.String("db", "", "Database path (overrides DB_NAME env var)")
		help     = flag.Bool("help", false, "Show help message")
	)
	flag.Parse()

	if *help {
		showHelp()
		return
	}

	databasePath := *dbPath
	if databasePath == "" {
		databasePath = os.Getenv("DB_NAME")
		if databasePath == "" {
			databasePath = "app.db"
		}
	}

	db, err := gorm.Open(sqlite.Open(databasePath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	log.Printf("Connected to database: %s", databasePath)

	mainSeeder := seeders.NewMainSeeder(db)

	switch *seedType {
	case "all":
		log.Println("Running complete database seeding...")
		if err := mainSeeder.SeedAll(); err != nil {
			log.Fatalf("Failed to seed database: %v", err)
		}
	case "modules":
		log.Println("Seeding modules only...")
		if err := mainSeeder.SeedModulesOnly(); err != nil {
			log.Fatalf("Failed to seed modules: %v", err)
		}
	case "lessons":
		log.Println("Seeding lessons only...")
		if err := mainSeeder.SeedLessonsOnly(); err != nil {
			log.Fatalf("Failed to seed lessons: %v", err)
		}
	case "admin":
		log.Println("Seeding admin user only...")
		if err := mainSeeder.SeedAdminOnly(); err != nil {
			log.Fatalf("Failed to seed admin: %v", err)
		}
	default:
		log.Fatalf("Unknown seed type: %s. Use 'all', 'modules', 'lessons', or 'admin'", *seedType)
	}

	log.Println("Seeding operation completed successfully!")
}

func showHelp() {
	log.Println(`
Database Seeding Tool for the ECG Training API

Usage: go run seed/main.go [flags]

Flags:
  -type string
        Type of seeding to perform (default "all")
        Options: all, modules, lessons, admin
  -db string
        Database path (overrides DB_NAME environment variable)
  -help
        Show this help message

Examples:
  # Seed everything
  go run seed/main.go

  # Seed only lesson content
  go run seed/main.go -type=lessons

  # Seed with custom database path
  go run seed/main.go -db=./custom.db

Environment Variables:
  DB_NAME - Default database path (default: app.db)`)
}
