package db

import (
	"github.com/laboissim/laboissim/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDatabase(dsn string) error {
	var err error

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})

	if err != nil {
		return err
	}

	return nil
}

// ConnectSQLite opens a sqlite database. Used by tests and by the labadmin
// CLI when pointed at a local file.
func ConnectSQLite(dsn string) error {
	var err error

	DB, err = gorm.Open(sqlite.Open(dsn), &gorm.Config{})

	if err != nil {
		return err
	}

	return nil
}

func MigrateDatabase() error {
	models := []interface{}{
		&models.User{},
		&models.Profile{},
		&models.RefreshToken{},
		&models.SiteContent{},
		&models.Publication{},
		&models.ExternalAuthor{},
		&models.Project{},
		&models.ProjectDocument{},
		&models.Event{},
		&models.EventRegistration{},
		&models.UserFile{},
		&models.InternalMessage{},
		&models.ContactMessage{},
		&models.AccountRequest{},
	}

	migrator := DB.Migrator()

	for _, model := range models {
		if !migrator.HasTable(model) {
			if err := DB.AutoMigrate(model); err != nil {
				return err
			}
		}
	}

	return nil
}
