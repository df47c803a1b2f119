package service

import (
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/d60-Lab/recommend-course/internal/repository"
	"github.com/d60-Lab/recommend-course/internal/tester"
)

var base = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

var testLinks = NewLinks("https://lms.example.com/", "")

// staticAuthz 按能力名返回固定结果
type staticAuthz map[string]bool

func (a staticAuthz) Can(_ Caller, capability string) (bool, error) {
	return a[capability], nil
}

type fixture struct {
	db      *gorm.DB
	recs    repository.RecommendationRepository
	courses repository.CourseRepository
	users   repository.UserRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := tester.NewDB(t)
	return &fixture{
		db:      db,
		recs:    repository.NewRecommendationRepository(db),
		courses: repository.NewCourseRepository(db),
		users:   repository.NewUserRepository(db),
	}
}

func (f *fixture) count(t *testing.T) int64 {
	t.Helper()
	var n int64
	if err := f.db.Table("recommendations").Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}
