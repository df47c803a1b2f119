// Package tester 测试用的内存数据库与种子数据
package tester

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/d60-Lab/recommend-course/internal/model"
)

// NewDB 每个测试独立的内存库，已迁移全部表
func NewDB(tb testing.TB) *gorm.DB {
	tb.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		tb.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		tb.Fatalf("sql db: %v", err)
	}
	// 单连接，避免共享缓存下的写锁竞争
	sqlDB.SetMaxOpenConns(1)
	tb.Cleanup(func() { _ = sqlDB.Close() })

	if err := model.MigrateHost(db); err != nil {
		tb.Fatalf("migrate host: %v", err)
	}
	if err := model.Migrate(db); err != nil {
		tb.Fatalf("migrate: %v", err)
	}
	return db
}

func CreateUser(tb testing.TB, db *gorm.DB, id int64, username, first, last string) *model.User {
	tb.Helper()
	u := &model.User{ID: id, Username: username, FirstName: first, LastName: last, Email: username + "@example.com"}
	if err := db.Create(u).Error; err != nil {
		tb.Fatalf("create user %d: %v", id, err)
	}
	return u
}

func CreateCourse(tb testing.TB, db *gorm.DB, id int64, fullname string, visible bool) *model.Course {
	tb.Helper()
	c := &model.Course{ID: id, FullName: fullname, ShortName: fmt.Sprintf("C%d", id), Category: 1, Visible: visible, SummaryFormat: model.SummaryFormatHTML}
	if err := db.Create(c).Error; err != nil {
		tb.Fatalf("create course %d: %v", id, err)
	}
	return c
}

func CreateRecommendation(tb testing.TB, db *gorm.DB, sender, receiver, course int64, at time.Time) *model.Recommendation {
	tb.Helper()
	r := &model.Recommendation{SenderID: sender, ReceiverID: receiver, CourseID: course, CreatedOn: model.NewTimestamp(at)}
	if err := db.Create(r).Error; err != nil {
		tb.Fatalf("create recommendation: %v", err)
	}
	return r
}

func DeleteCourse(tb testing.TB, db *gorm.DB, id int64) {
	tb.Helper()
	if err := db.Delete(&model.Course{}, id).Error; err != nil {
		tb.Fatalf("delete course %d: %v", id, err)
	}
}
