package database

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/pageza/whatsfordinner/backend/config"
	"github.com/pageza/whatsfordinner/backend/internal/model"
)

// New connects to postgres, enables the pgvector extension and migrates
// the schema. Connection attempts are retried because the database
// container may still be starting.
func New(cfg *config.Config) (*gorm.DB, error) {
	const (
		maxRetries = 5
		retryDelay = 2 * time.Second
	)

	log.Printf("[Database] connecting to %s:%s as user %s", cfg.DBHost, cfg.DBPort, cfg.DBUser)

	var db *gorm.DB
	var err error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		db, err = gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
		if err == nil {
			break
		}
		log.Printf("[Database] connection attempt %d/%d failed: %v", attempt, maxRetries, err)
		if attempt < maxRetries {
			time.Sleep(retryDelay)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access underlying connection: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		return nil, fmt.Errorf("failed to enable pgvector extension: %w", err)
	}

	if err := db.AutoMigrate(&model.Recipe{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	log.Printf("[Database] successfully connected")
	return db, nil
}
