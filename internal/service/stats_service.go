package service

import (
	"context"
	"fmt"

	"github.com/d60-Lab/recommend-course/internal/repository"
)

// DefaultStatsLimit 最受欢迎/最冷门各取几门
const DefaultStatsLimit = 5

const unknownCourse = "Unknown course"

// StatRow 一门课程的推荐次数
type StatRow struct {
	Rank       int    `json:"rank"`
	CourseID   int64  `json:"course_id"`
	CourseName string `json:"course_name"`
	CourseURL  string `json:"course_url"`
	Count      int64  `json:"count"`
}

type StatsView struct {
	Tabs         []NavTab  `json:"tabs"`
	TopRows      []StatRow `json:"top_rows"`
	HasTop       bool      `json:"has_top"`
	TopNotice    string    `json:"top_notice,omitempty"`
	BottomRows   []StatRow `json:"bottom_rows"`
	HasBottom    bool      `json:"has_bottom"`
	BottomNotice string    `json:"bottom_notice,omitempty"`
}

// StatsService 全表聚合统计
type StatsService interface {
	Stats(ctx context.Context) (*StatsView, error)
}

type statsService struct {
	recRepo repository.RecommendationRepository
	links   Links
	limit   int
}

func NewStatsService(recRepo repository.RecommendationRepository, links Links, limit int) StatsService {
	if limit <= 0 {
		limit = DefaultStatsLimit
	}
	return &statsService{recRepo: recRepo, links: links, limit: limit}
}

func (s *statsService) Stats(ctx context.Context) (*StatsView, error) {
	top, err := s.recRepo.CountByCourse(ctx, repository.MostRecommended, s.limit)
	if err != nil {
		return nil, fmt.Errorf("most recommended: %w", err)
	}
	bottom, err := s.recRepo.CountByCourse(ctx, repository.LeastRecommended, s.limit)
	if err != nil {
		return nil, fmt.Errorf("least recommended: %w", err)
	}

	view := &StatsView{
		Tabs:       manageTabs("stats"),
		TopRows:    s.rows(top),
		BottomRows: s.rows(bottom),
	}
	view.HasTop = len(view.TopRows) > 0
	view.HasBottom = len(view.BottomRows) > 0
	if !view.HasTop {
		view.TopNotice = noticeNoCoursesFound
	}
	if !view.HasBottom {
		view.BottomNotice = noticeNoRecommendations
	}
	return view, nil
}

func (s *statsService) rows(counts []repository.CourseCount) []StatRow {
	out := make([]StatRow, 0, len(counts))
	for i, c := range counts {
		name := unknownCourse
		if c.CourseFullName != nil {
			name = plainLabel(*c.CourseFullName)
		}
		out = append(out, StatRow{
			Rank:       i + 1,
			CourseID:   c.CourseID,
			CourseName: name,
			CourseURL:  s.links.Course(c.CourseID),
			Count:      c.Count,
		})
	}
	return out
}
