package db

import (
	"github.com/DkshLuvsDucks/FCS-Project-Social-Media-App-sub000/models"
	"github.com/DkshLuvsDucks/FCS-Project-Social-Media-App-sub000/utils"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open connects to Postgres and migrates the schema. The returned handle is
// owned by the caller and passed to the repositories explicitly.
func Open(dsn string) (*gorm.DB, error) {
	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: utils.GetGormLogger(),
	})
	if err != nil {
		utils.LogError(err, "Error connecting to the database")
		return nil, err
	}

	if err := Migrate(conn); err != nil {
		utils.LogError(err, "Error migrating database")
		return nil, err
	}

	utils.LogSuccess("Database connection successful")
	return conn, nil
}

func Migrate(conn *gorm.DB) error {
	return conn.AutoMigrate(
		&models.User{},
		&models.Conversation{},
		&models.Message{},
	)
}
