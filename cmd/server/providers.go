// File: cmd/server/providers.go
package main

import (
	"log"

	"referme_backend/internal/config"
	"referme_backend/internal/filestorage"
	"referme_backend/internal/job"
	"referme_backend/internal/message"
	"referme_backend/internal/platform/database"
	"referme_backend/internal/profile"
	"referme_backend/internal/user"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// provideFileStorage builds the local resume storage from configuration.
func provideFileStorage(cfg *config.Config, logger *zap.Logger) (*filestorage.FileStorageService, error) {
	return filestorage.NewFileStorageService(cfg.UploadStoragePath, logger.Named("filestorage"))
}

// provideCleanup returns the shutdown hook shared by all commands.
func provideCleanup(logger *zap.Logger, db *gorm.DB) func() {
	return func() {
		logger.Info("Executing cleanup tasks...")
		database.CloseGORMDB(db)
		if err := logger.Sync(); err != nil {
			log.Printf("ERROR: Failed to sync logger during cleanup: %v", err)
		}
		log.Println("Cleanup finished.")
	}
}

// migrateModels runs schema migration for every persisted model.
func migrateModels(db *gorm.DB) error {
	return database.AutoMigrate(db,
		&user.User{},
		&profile.Profile{},
		&profile.Education{},
		&profile.Experience{},
		&profile.Project{},
		&profile.Certification{},
		&job.Job{},
		&job.ReferralRequest{},
		&message.Message{},
	)
}
