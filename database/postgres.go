package database

import (
	"log"

	"directory101/config"
	"directory101/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// InitPostgres connects to Postgres via GORM and migrates the listings table.
// Used when LISTING_BACKEND is "postgres".
func InitPostgres() *gorm.DB {
	db, err := gorm.Open(postgres.Open(config.AppConfig.PostgresDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect to Postgres: %v", err)
	}
	if err := db.AutoMigrate(&models.Listing{}); err != nil {
		log.Fatalf("failed to migrate listings table: %v", err)
	}
	log.Println("Connected to Postgres successfully!")
	return db
}
