package service

import (
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/quizhub/backend/internal/models"
	"github.com/quizhub/backend/internal/repo"
)

type testEnv struct {
	db *gorm.DB
	rp *repo.GormRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.Permission{},
		&models.RevokedToken{},
		&models.Subject{},
		&models.Topic{},
		&models.Subtopic{},
		&models.Question{},
		&models.AnswerChoice{},
		&models.QuestionSet{},
		&models.QuizSession{},
		&models.SessionQuestion{},
		&models.SessionSet{},
		&models.UserResponse{},
		&models.Group{},
		&models.Leaderboard{},
	); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}

	return &testEnv{db: db, rp: &repo.GormRepo{DB: db}}
}
