package database

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/team-codebug/blogforge-app/models"
)

func newTestDatabase(t *testing.T) Database {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return New(db)
}

func createTestUser(t *testing.T, d Database, email string) *models.User {
	t.Helper()

	user := &models.User{
		GoogleSub: "sub-" + email,
		Email:     email,
	}
	if err := d.UserRepo().Add(user); err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return user
}
