// Package testutil builds throwaway databases and fixtures for tests.
package testutil

import (
	"testing"
	"time"

	"forum/backend/config"
	"forum/backend/models"
	"forum/backend/utils"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Config returns a configuration suitable for tests.
func Config() *config.Config {
	return &config.Config{
		DBDriver:      "sqlite",
		DBPath:        ":memory:",
		JWTSecret:     "testsecret",
		JWTExpiration: time.Hour,
		ServerPort:    "8080",
		CacheTTL:      time.Minute,
		LogFormat:     "text",
	}
}

// NewDB opens a migrated in-memory SQLite database that lives as long as t.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Every connection to ":memory:" is a separate database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, utils.Migrate(db))
	return db
}

// CreateUser stores a user whose password hashes to password.
func CreateUser(t testing.TB, db *gorm.DB, name, email, password string) models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{Name: name, Email: email, Password: string(hash)}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func CreateCourse(t testing.TB, db *gorm.DB, name, category string) models.Course {
	t.Helper()

	course := models.Course{Name: name, Category: category}
	require.NoError(t, db.Create(&course).Error)
	return course
}

func CreateTopic(t testing.TB, db *gorm.DB, title, message string, course models.Course, author *models.User) models.Topic {
	t.Helper()

	topic := models.Topic{Title: title, Message: message, CourseID: course.ID, Status: models.StatusUnanswered}
	if author != nil {
		topic.AuthorID = &author.ID
	}
	require.NoError(t, db.Create(&topic).Error)
	return topic
}
