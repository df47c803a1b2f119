package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/d60-Lab/recommend-course/internal/repository"
)

// SearchLimit 自动补全单次返回上限
const SearchLimit = 100

// SearchHit 自动补全的一项
type SearchHit struct {
	Value int64  `json:"value"`
	Label string `json:"label"`
}

// SearchService 课程与用户的自动补全查询
type SearchService interface {
	SearchCourses(ctx context.Context, query string) ([]SearchHit, error)
	// SearchUsers 结果中不含调用方本人
	SearchUsers(ctx context.Context, caller Caller, query string) ([]SearchHit, error)
}

type searchService struct {
	courseRepo repository.CourseRepository
	userRepo   repository.UserRepository
}

func NewSearchService(courseRepo repository.CourseRepository, userRepo repository.UserRepository) SearchService {
	return &searchService{courseRepo: courseRepo, userRepo: userRepo}
}

func (s *searchService) SearchCourses(ctx context.Context, query string) ([]SearchHit, error) {
	courses, err := s.courseRepo.Search(ctx, strings.TrimSpace(query), SearchLimit)
	if err != nil {
		return nil, fmt.Errorf("search courses: %w", err)
	}
	hits := make([]SearchHit, 0, len(courses))
	for _, c := range courses {
		hits = append(hits, SearchHit{Value: c.ID, Label: plainLabel(c.FullName)})
	}
	return hits, nil
}

func (s *searchService) SearchUsers(ctx context.Context, caller Caller, query string) ([]SearchHit, error) {
	users, err := s.userRepo.Search(ctx, caller.UserID, strings.TrimSpace(query), SearchLimit)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	hits := make([]SearchHit, 0, len(users))
	for _, u := range users {
		hits = append(hits, SearchHit{Value: u.ID, Label: u.FullName() + " (" + u.Username + ")"})
	}
	return hits, nil
}
