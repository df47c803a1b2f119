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

// Layout 小部件的布局
type Layout string

const (
	LayoutCompact  Layout = "compact"
	LayoutExpanded Layout = "expanded"
)

// ParseLayout 未知取值按 expanded 处理
func ParseLayout(s string) Layout {
	if Layout(s) == LayoutCompact {
		return LayoutCompact
	}
	return LayoutExpanded
}

// Limit 侧栏只显示最新一条，其余位置显示四条
func (l Layout) Limit() int {
	if l == LayoutCompact {
		return 1
	}
	return 4
}

const (
	noticeNoRecommendations = "No recommendations received yet."
	noticeNoCoursesFound    = "No recommended courses found."
)

// DisplayRecommendation 小部件卡片
type DisplayRecommendation struct {
	ID            int64      `json:"id"`
	CourseID      int64      `json:"course_id"`
	CourseName    string     `json:"course_name"`
	CourseURL     string     `json:"course_url"`
	Summary       string     `json:"summary"`
	Category      int64      `json:"category"`
	EndDate       *time.Time `json:"end_date,omitempty"`
	Visible       bool       `json:"visible"`
	SenderID      int64      `json:"sender_id"`
	SenderName    string     `json:"sender_name"`
	RecommendedOn string     `json:"recommended_on"`
	ImageURL      string     `json:"image_url"`
}

// WidgetView 最近推荐小部件
type WidgetView struct {
	UserID         int64                   `json:"user_id"`
	Layout         Layout                  `json:"layout"`
	Recommended    []DisplayRecommendation `json:"recommended"`
	AllURL         string                  `json:"all_url"`
	RecommendURL   string                  `json:"recommend_url"`
	HistoryURL     string                  `json:"history_url"`
	CanViewHistory bool                    `json:"can_view_history"`
}

// AllRow 全部推荐列表的一行
type AllRow struct {
	ID            int64  `json:"id"`
	CourseID      int64  `json:"course_id"`
	CourseName    string `json:"course_name"`
	CourseURL     string `json:"course_url"`
	SenderID      int64  `json:"sender_id"`
	SenderName    string `json:"sender_name"`
	SenderURL     string `json:"sender_url"`
	RecommendedOn string `json:"recommended_on"`
}

type AllView struct {
	Rows         []AllRow `json:"rows"`
	HasRows      bool     `json:"has_rows"`
	Notice       string   `json:"notice,omitempty"`
	RecommendURL string   `json:"recommend_url"`
}

// HistoryEntry 管理员历史列表的一行
type HistoryEntry struct {
	ID         int64  `json:"id"`
	Sender     string `json:"sender"`
	Receiver   string `json:"receiver"`
	CourseName string `json:"course_name"`
	CourseURL  string `json:"course_url"`
	Date       string `json:"date"`
}

type HistoryView struct {
	Tabs    []NavTab       `json:"tabs"`
	Rows    []HistoryEntry `json:"rows"`
	HasRows bool           `json:"has_rows"`
	Notice  string         `json:"notice,omitempty"`
}

// ReaderService 收件人与管理员的只读视图
type ReaderService interface {
	Recent(ctx context.Context, caller Caller, layout Layout) ([]DisplayRecommendation, error)
	All(ctx context.Context, caller Caller) (*AllView, error)
	Widget(ctx context.Context, caller Caller, layout Layout) (*WidgetView, error)
	History(ctx context.Context) (*HistoryView, error)
}

type readerService struct {
	recRepo    repository.RecommendationRepository
	courseRepo repository.CourseRepository
	authz      Authorizer
	links      Links
	images     ImageChain
	loc        *time.Location
}

func NewReaderService(
	recRepo repository.RecommendationRepository,
	courseRepo repository.CourseRepository,
	authz Authorizer,
	links Links,
	images ImageChain,
	loc *time.Location,
) ReaderService {
	if images == nil {
		images = DefaultImageChain(links)
	}
	if loc == nil {
		loc = time.UTC
	}
	return &readerService{recRepo: recRepo, courseRepo: courseRepo, authz: authz, links: links, images: images, loc: loc}
}

func (s *readerService) Recent(ctx context.Context, caller Caller, layout Layout) ([]DisplayRecommendation, error) {
	rows, err := s.recRepo.ListInbound(ctx, caller.UserID, layout.Limit())
	if err != nil {
		return nil, fmt.Errorf("list inbound: %w", err)
	}
	return s.compose(ctx, rows)
}

// compose 课程已不存在的推荐直接跳过
func (s *readerService) compose(ctx context.Context, rows []repository.InboundRow) ([]DisplayRecommendation, error) {
	out := make([]DisplayRecommendation, 0, len(rows))
	if len(rows) == 0 {
		return out, nil
	}

	ids := make([]int64, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.CourseID)
	}
	courses, err := s.courseRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load courses: %w", err)
	}

	var needFiles []int64
	for id, c := range courses {
		if c.ImageURL == "" {
			needFiles = append(needFiles, id)
		}
	}
	files, err := s.courseRepo.ListOverviewFiles(ctx, needFiles)
	if err != nil {
		return nil, fmt.Errorf("load overview files: %w", err)
	}

	for _, r := range rows {
		course, ok := courses[r.CourseID]
		if !ok {
			logger.Debug("skip recommendation for missing course", zap.Int64("rec", r.RecID), zap.Int64("course", r.CourseID))
			continue
		}
		out = append(out, DisplayRecommendation{
			ID:            r.RecID,
			CourseID:      course.ID,
			CourseName:    plainLabel(course.FullName),
			CourseURL:     s.links.Course(course.ID),
			Summary:       summaryText(course.Summary, course.SummaryFormat),
			Category:      course.Category,
			EndDate:       course.EndDate,
			Visible:       course.Visible,
			SenderID:      r.SenderID,
			SenderName:    model.FullName(r.SenderFirstName, r.SenderLastName),
			RecommendedOn: formatDate(r.CreatedOn.Time, s.loc),
			ImageURL:      s.images.Resolve(ImageSource{Course: course, Files: files[course.ID]}),
		})
	}
	return out, nil
}

func (s *readerService) All(ctx context.Context, caller Caller) (*AllView, error) {
	rows, err := s.recRepo.ListInbound(ctx, caller.UserID, 0)
	if err != nil {
		return nil, fmt.Errorf("list inbound: %w", err)
	}
	view := &AllView{Rows: make([]AllRow, 0, len(rows)), RecommendURL: PathRecommend}
	for _, r := range rows {
		view.Rows = append(view.Rows, AllRow{
			ID:            r.RecID,
			CourseID:      r.CourseID,
			CourseName:    plainLabel(r.CourseFullName),
			CourseURL:     s.links.Course(r.CourseID),
			SenderID:      r.SenderID,
			SenderName:    model.FullName(r.SenderFirstName, r.SenderLastName),
			SenderURL:     s.links.Profile(r.SenderID),
			RecommendedOn: formatDate(r.CreatedOn.Time, s.loc),
		})
	}
	view.HasRows = len(view.Rows) > 0
	if !view.HasRows {
		view.Notice = noticeNoRecommendations
	}
	return view, nil
}

func (s *readerService) Widget(ctx context.Context, caller Caller, layout Layout) (*WidgetView, error) {
	recent, err := s.Recent(ctx, caller, layout)
	if err != nil {
		return nil, err
	}
	canView := false
	if s.authz != nil {
		if canView, err = s.authz.Can(caller, CapabilityViewStats); err != nil {
			return nil, fmt.Errorf("check capability: %w", err)
		}
	}
	return &WidgetView{
		UserID:         caller.UserID,
		Layout:         layout,
		Recommended:    recent,
		AllURL:         PathAll,
		RecommendURL:   PathRecommend,
		HistoryURL:     PathHistory,
		CanViewHistory: canView,
	}, nil
}

func (s *readerService) History(ctx context.Context) (*HistoryView, error) {
	rows, err := s.recRepo.ListHistory(ctx)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	view := &HistoryView{Tabs: manageTabs("history"), Rows: make([]HistoryEntry, 0, len(rows))}
	for _, r := range rows {
		view.Rows = append(view.Rows, HistoryEntry{
			ID:         r.ID,
			Sender:     model.FullName(r.SenderFirstName, r.SenderLastName),
			Receiver:   model.FullName(r.ReceiverFirstName, r.ReceiverLastName),
			CourseName: plainLabel(r.CourseFullName),
			CourseURL:  s.links.Course(r.CourseID),
			Date:       formatDate(r.CreatedOn.Time, s.loc),
		})
	}
	view.HasRows = len(view.Rows) > 0
	if !view.HasRows {
		view.Notice = noticeNoCoursesFound
	}
	return view, nil
}
