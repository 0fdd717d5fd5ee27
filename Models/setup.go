package Models

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Connect() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment defaults")
	}

	var connection *gorm.DB
	var err error

	// Postgres when a DSN is configured, sqlite file otherwise
	if dsn := os.Getenv("DB_DSN"); dsn != "" {
		connection, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	} else {
		dbFile := os.Getenv("DB_FILE")
		if dbFile == "" {
			dbFile = "database.db"
		}
		connection, err = gorm.Open(sqlite.Open(dbFile), &gorm.Config{})
	}
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	DB = connection

	if err := Migrate(DB); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	LoadPricingDefaults()
}

// Migrate runs AutoMigrate in dependency order.
func Migrate(db *gorm.DB) error {
	// 1. Base tables with no foreign keys
	if err := db.AutoMigrate(
		&Organization{},
		&User{},
		&LabourCode{},
		&DeclineReason{},
	); err != nil {
		return err
	}

	// 2. Health check data
	if err := db.AutoMigrate(
		&HealthCheck{},
		&CheckResult{},
	); err != nil {
		return err
	}

	// 3. Repair records, which reference everything above
	return db.AutoMigrate(
		&RepairItem{},
		&RepairOption{},
		&RepairLabour{},
		&RepairParts{},
		&RepairItemCheckResult{},
	)
}
