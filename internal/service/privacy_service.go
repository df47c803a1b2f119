package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/d60-Lab/recommend-course/internal/repository"
	"github.com/d60-Lab/recommend-course/pkg/logger"
)

// ContextSystem 推荐数据只存在于站点级上下文
const ContextSystem = "system"

const (
	SubcontextSent     = "recommendations_sent"
	SubcontextReceived = "recommendations_received"
)

// MetadataField 个人数据字段说明
type MetadataField struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Metadata 本组件保存的个人数据
type Metadata struct {
	Table       string          `json:"table"`
	Description string          `json:"description"`
	Fields      []MetadataField `json:"fields"`
}

// SentRecord 用户作为发送人的一行
type SentRecord struct {
	ID        int64  `json:"id"`
	To        int64  `json:"to"`
	CourseID  int64  `json:"courseid"`
	CreatedOn string `json:"created_on"`
	Role      string `json:"role"`
}

// ReceivedRecord 用户作为接收人的一行
type ReceivedRecord struct {
	ID        int64  `json:"id"`
	From      int64  `json:"from"`
	CourseID  int64  `json:"courseid"`
	CreatedOn string `json:"created_on"`
	Role      string `json:"role"`
}

type ExportResult struct {
	UserID   int64            `json:"user_id"`
	Sent     []SentRecord     `json:"sent"`
	Received []ReceivedRecord `json:"received"`
}

// PrivacyService 数据主体权利：查询、导出、删除
type PrivacyService interface {
	Metadata() Metadata
	// ContextsForUser 用户有数据时返回 system 上下文
	ContextsForUser(ctx context.Context, userID int64) ([]string, error)
	UsersInContext(ctx context.Context, contextName string) ([]int64, error)
	Export(ctx context.Context, userID int64) (*ExportResult, error)
	DeleteForUser(ctx context.Context, userID int64) (int64, error)
	DeleteForUsers(ctx context.Context, contextName string, userIDs []int64) (int64, error)
	// DeleteAllInContext 非 system 上下文为空操作
	DeleteAllInContext(ctx context.Context, contextName string) (int64, error)
}

type privacyService struct {
	recRepo repository.RecommendationRepository
	writer  ExportWriter
	now     func() time.Time
}

func NewPrivacyService(recRepo repository.RecommendationRepository, writer ExportWriter, now func() time.Time) PrivacyService {
	if writer == nil {
		writer = LogExportWriter{}
	}
	if now == nil {
		now = time.Now
	}
	return &privacyService{recRepo: recRepo, writer: writer, now: now}
}

func (s *privacyService) Metadata() Metadata {
	return Metadata{
		Table:       "recommendations",
		Description: "Stores course recommendations made by users.",
		Fields: []MetadataField{
			{Name: "sender_id", Description: "User id of the person who recommended the course."},
			{Name: "receiver_id", Description: "User id of the user who received the recommendation."},
			{Name: "course_id", Description: "Course id that was recommended."},
			{Name: "created_on", Description: "When the recommendation was created."},
		},
	}
}

func (s *privacyService) ContextsForUser(ctx context.Context, userID int64) ([]string, error) {
	ok, err := s.recRepo.ExistsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("check user data: %w", err)
	}
	if !ok {
		return []string{}, nil
	}
	return []string{ContextSystem}, nil
}

func (s *privacyService) UsersInContext(ctx context.Context, contextName string) ([]int64, error) {
	if contextName != ContextSystem {
		return []int64{}, nil
	}
	ids, err := s.recRepo.ListParticipantIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	if ids == nil {
		ids = []int64{}
	}
	return ids, nil
}

func (s *privacyService) Export(ctx context.Context, userID int64) (*ExportResult, error) {
	if userID <= 0 {
		return nil, ErrInvalidUserID
	}
	sent, err := s.recRepo.ListBySender(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list sent: %w", err)
	}
	received, err := s.recRepo.ListByReceiver(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list received: %w", err)
	}

	res := &ExportResult{
		UserID:   userID,
		Sent:     make([]SentRecord, 0, len(sent)),
		Received: make([]ReceivedRecord, 0, len(received)),
	}
	for _, r := range sent {
		res.Sent = append(res.Sent, SentRecord{ID: r.ID, To: r.ReceiverID, CourseID: r.CourseID, CreatedOn: r.CreatedOn.String(), Role: "sender"})
	}
	for _, r := range received {
		res.Received = append(res.Received, ReceivedRecord{ID: r.ID, From: r.SenderID, CourseID: r.CourseID, CreatedOn: r.CreatedOn.String(), Role: "receiver"})
	}

	// 空集合不写入导出通道
	if len(res.Sent) > 0 {
		if err := s.write(ctx, userID, SubcontextSent, res.Sent); err != nil {
			return nil, err
		}
	}
	if len(res.Received) > 0 {
		if err := s.write(ctx, userID, SubcontextReceived, res.Received); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (s *privacyService) write(ctx context.Context, userID int64, subcontext string, data any) error {
	err := s.writer.Write(ctx, ExportItem{
		UserID:     userID,
		Context:    ContextSystem,
		Component:  ExportComponent,
		Subcontext: subcontext,
		Data:       data,
		ExportedAt: s.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("write export %s: %w", subcontext, err)
	}
	return nil
}

func (s *privacyService) DeleteForUser(ctx context.Context, userID int64) (int64, error) {
	if userID <= 0 {
		return 0, ErrInvalidUserID
	}
	return s.delete(ctx, []int64{userID})
}

func (s *privacyService) DeleteForUsers(ctx context.Context, contextName string, userIDs []int64) (int64, error) {
	if contextName != ContextSystem || len(userIDs) == 0 {
		return 0, nil
	}
	return s.delete(ctx, userIDs)
}

func (s *privacyService) delete(ctx context.Context, userIDs []int64) (int64, error) {
	n, err := s.recRepo.DeleteForUsers(ctx, userIDs)
	if err != nil {
		return 0, fmt.Errorf("delete user data: %w", err)
	}
	logger.Info("privacy delete", zap.Int64s("users", userIDs), zap.Int64("rows", n))
	return n, nil
}

func (s *privacyService) DeleteAllInContext(ctx context.Context, contextName string) (int64, error) {
	if contextName != ContextSystem {
		return 0, nil
	}
	n, err := s.recRepo.DeleteAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("delete all: %w", err)
	}
	logger.Warn("privacy wipe", zap.String("context", contextName), zap.Int64("rows", n))
	return n, nil
}
