package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/recommend-course/internal/model"
)

// CourseRepository 宿主平台课程的只读访问
type CourseRepository interface {
	// Search 可见且非站点首页的课程，按名称升序
	Search(ctx context.Context, query string, limit int) ([]*model.Course, error)
	FindByIDs(ctx context.Context, ids []int64) (map[int64]*model.Course, error)
	// ListOverviewFiles 按 sort_order 升序返回每门课程的概览附件
	ListOverviewFiles(ctx context.Context, courseIDs []int64) (map[int64][]model.CourseOverviewFile, error)
}

type courseRepository struct{ db *gorm.DB }

func NewCourseRepository(db *gorm.DB) CourseRepository { return &courseRepository{db: db} }

func (r *courseRepository) Search(ctx context.Context, query string, limit int) ([]*model.Course, error) {
	q := r.db.WithContext(ctx).
		Select("id", "fullname").
		Where("visible = ? AND id <> ?", true, model.SiteCourseID)
	if query != "" {
		q = q.Where(likeClause("fullname"), containsPattern(query))
	}

	var res []*model.Course
	err := q.Order("fullname ASC, id ASC").Limit(limit).Find(&res).Error
	return res, err
}

func (r *courseRepository) FindByIDs(ctx context.Context, ids []int64) (map[int64]*model.Course, error) {
	out := make(map[int64]*model.Course, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var courses []*model.Course
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&courses).Error; err != nil {
		return nil, err
	}
	for _, c := range courses {
		out[c.ID] = c
	}
	return out, nil
}

func (r *courseRepository) ListOverviewFiles(ctx context.Context, courseIDs []int64) (map[int64][]model.CourseOverviewFile, error) {
	out := make(map[int64][]model.CourseOverviewFile, len(courseIDs))
	if len(courseIDs) == 0 {
		return out, nil
	}
	var files []model.CourseOverviewFile
	err := r.db.WithContext(ctx).
		Where("course_id IN ?", courseIDs).
		Order("course_id ASC, sort_order ASC, id ASC").
		Find(&files).Error
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		out[f.CourseID] = append(out[f.CourseID], f)
	}
	return out, nil
}
