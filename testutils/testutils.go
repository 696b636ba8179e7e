package testutils

import (
	"io"
	"log"
	"path/filepath"
	"testing"

	"github.com/DkshLuvsDucks/FCS-Project-Social-Media-App-sub000/db"
	"github.com/DkshLuvsDucks/FCS-Project-Social-Media-App-sub000/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func silentLogger() logger.Interface {
	return logger.New(
		log.New(io.Discard, "", log.LstdFlags),
		logger.Config{
			LogLevel: logger.Silent,
		},
	)
}

// SetupTestDB returns a gorm handle backed by sqlmock with the postgres dialect.
func SetupTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, func()) {
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("could not create sql mock: %s", err)
	}

	dialector := postgres.New(postgres.Config{
		Conn:       sqlDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		Logger: silentLogger(),
	})
	if err != nil {
		t.Fatalf("could not open gorm on sql mock: %s", err)
	}

	cleanup := func() {
		sqlDB.Close()
	}

	return gormDB, mock, cleanup
}

// SetupSQLiteDB returns a migrated database in a temp file. A single
// connection keeps concurrent tests from hitting SQLITE_BUSY.
func SetupSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db") + "?_busy_timeout=5000&_foreign_keys=on"
	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: silentLogger(),
	})
	if err != nil {
		t.Fatalf("could not open sqlite: %s", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		t.Fatalf("could not get sql.DB: %s", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.Migrate(gormDB); err != nil {
		t.Fatalf("could not migrate: %s", err)
	}
	return gormDB
}

// CreateUser inserts a user that accepts private messages.
func CreateUser(t *testing.T, conn *gorm.DB, email string) models.User {
	t.Helper()

	user := models.User{
		Email:         email,
		UserName:      email,
		Role:          models.UserRole,
		Enable:        true,
		MessageEnable: true,
	}
	if err := conn.Create(&user).Error; err != nil {
		t.Fatalf("could not create user %s: %s", email, err)
	}
	return user
}

func SetupTestRouter() *gin.Engine {
	r := gin.New()
	return r
}

func InitTestMain() {
	gin.SetMode(gin.TestMode)
}
