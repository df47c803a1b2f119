package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/d60-Lab/recommend-course/internal/model"
	"github.com/d60-Lab/recommend-course/internal/repository"
	"github.com/d60-Lab/recommend-course/pkg/logger"
)

// RecommendInput 一次表单提交：一门课程，多个接收人
type RecommendInput struct {
	CourseID    int64
	ReceiverIDs []int64
}

// RecommendationService 写入推荐
type RecommendationService interface {
	// Recommend 每个接收人一行，整批共享同一时间戳并在同一事务内落库，返回写入行数
	Recommend(ctx context.Context, caller Caller, in RecommendInput) (int, error)
}

type recommendationService struct {
	recRepo repository.RecommendationRepository
	now     func() time.Time
}

func NewRecommendationService(recRepo repository.RecommendationRepository, now func() time.Time) RecommendationService {
	if now == nil {
		now = time.Now
	}
	return &recommendationService{recRepo: recRepo, now: now}
}

func (s *recommendationService) Recommend(ctx context.Context, caller Caller, in RecommendInput) (int, error) {
	if caller.UserID <= 0 {
		return 0, ErrInvalidUserID
	}
	if in.CourseID <= 0 || len(in.ReceiverIDs) == 0 {
		return 0, ErrInvalidRecommendation
	}
	for _, id := range in.ReceiverIDs {
		if id <= 0 {
			return 0, ErrInvalidRecommendation
		}
	}

	createdOn := model.NewTimestamp(s.now())
	batch := make([]*model.Recommendation, 0, len(in.ReceiverIDs))
	for _, receiver := range in.ReceiverIDs {
		batch = append(batch, &model.Recommendation{
			SenderID:   caller.UserID,
			ReceiverID: receiver,
			CourseID:   in.CourseID,
			CreatedOn:  createdOn,
		})
	}

	if err := s.recRepo.CreateBatch(ctx, batch); err != nil {
		return 0, fmt.Errorf("create recommendations: %w", err)
	}
	logger.Info("course recommended",
		zap.Int64("sender", caller.UserID),
		zap.Int64("course", in.CourseID),
		zap.Int("receivers", len(batch)),
	)
	return len(batch), nil
}
