// Package testutil holds helpers shared by package tests.
package testutil

import (
	"testing"

	"kinship/internal/database"
	"kinship/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// NewSQLiteDB opens a private in-memory database with the full schema.
// The pool is pinned to one connection so every statement sees the same
// in-memory database and transactions are serialised.
func NewSQLiteDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), database.GormConfig())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql pool: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// CreateUser inserts a user whose username and email derive from name.
func CreateUser(t testing.TB, db *gorm.DB, name string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	u := &models.User{
		Username:  name,
		Email:     name + "@example.com",
		Password:  string(hash),
		FirstName: name,
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}
	return u
}

// CreatePost inserts a post owned by userID.
func CreatePost(t testing.TB, db *gorm.DB, userID uint, content string) *models.Post {
	t.Helper()

	p := &models.Post{UserID: userID, Content: content}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("create post: %v", err)
	}
	return p
}

// CreateComment inserts a comment by userID on postID.
func CreateComment(t testing.TB, db *gorm.DB, userID, postID uint, content string) *models.Comment {
	t.Helper()

	c := &models.Comment{UserID: userID, PostID: postID, Content: content}
	if err := db.Create(c).Error; err != nil {
		t.Fatalf("create comment: %v", err)
	}
	return c
}
