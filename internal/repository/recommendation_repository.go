package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/d60-Lab/recommend-course/internal/model"
)

// InboundRow 收件人视角的一条推荐，已关联发送人和课程
type InboundRow struct {
	RecID           int64           `gorm:"column:rec_id"`
	SenderID        int64           `gorm:"column:sender_id"`
	SenderFirstName string          `gorm:"column:sender_firstname"`
	SenderLastName  string          `gorm:"column:sender_lastname"`
	ReceiverID      int64           `gorm:"column:receiver_id"`
	CreatedOn       model.Timestamp `gorm:"column:created_on"`
	CourseID        int64           `gorm:"column:course_id"`
	CourseFullName  string          `gorm:"column:course_fullname"`
	CourseShortName string          `gorm:"column:course_shortname"`
	CourseCategory  int64           `gorm:"column:course_category"`
	CourseEndDate   *time.Time      `gorm:"column:course_end_date"`
	CourseVisible   bool            `gorm:"column:course_visible"`
}

// HistoryRow 管理员历史列表的一行
type HistoryRow struct {
	ID                int64           `gorm:"column:id"`
	SenderID          int64           `gorm:"column:sender_id"`
	SenderFirstName   string          `gorm:"column:sender_firstname"`
	SenderLastName    string          `gorm:"column:sender_lastname"`
	ReceiverID        int64           `gorm:"column:receiver_id"`
	ReceiverFirstName string          `gorm:"column:receiver_firstname"`
	ReceiverLastName  string          `gorm:"column:receiver_lastname"`
	CourseID          int64           `gorm:"column:course_id"`
	CourseFullName    string          `gorm:"column:course_fullname"`
	CreatedOn         model.Timestamp `gorm:"column:created_on"`
}

// CourseCount 按课程聚合的推荐次数；课程已删除时 CourseFullName 为 nil
type CourseCount struct {
	CourseID       int64   `gorm:"column:course_id"`
	CourseFullName *string `gorm:"column:course_fullname"`
	Count          int64   `gorm:"column:recommendation_count"`
}

// SortDirection 聚合排序方向
type SortDirection int

const (
	MostRecommended SortDirection = iota + 1
	LeastRecommended
)

type RecommendationRepository interface {
	// CreateBatch 在一个事务内写入整批推荐
	CreateBatch(ctx context.Context, recs []*model.Recommendation) error
	// ListInbound limit <= 0 表示不限制
	ListInbound(ctx context.Context, receiverID int64, limit int) ([]InboundRow, error)
	ListHistory(ctx context.Context) ([]HistoryRow, error)
	CountByCourse(ctx context.Context, dir SortDirection, limit int) ([]CourseCount, error)

	ExistsForUser(ctx context.Context, userID int64) (bool, error)
	ListBySender(ctx context.Context, senderID int64) ([]*model.Recommendation, error)
	ListByReceiver(ctx context.Context, receiverID int64) ([]*model.Recommendation, error)
	ListParticipantIDs(ctx context.Context) ([]int64, error)
	DeleteForUsers(ctx context.Context, userIDs []int64) (int64, error)
	DeleteAll(ctx context.Context) (int64, error)
	Count(ctx context.Context) (int64, error)
}

type recommendationRepository struct {
	db *gorm.DB
}

func NewRecommendationRepository(db *gorm.DB) RecommendationRepository {
	return &recommendationRepository{db: db}
}

func (r *recommendationRepository) CreateBatch(ctx context.Context, recs []*model.Recommendation) error {
	if len(recs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&recs).Error
	})
}

func (r *recommendationRepository) ListInbound(ctx context.Context, receiverID int64, limit int) ([]InboundRow, error) {
	q := r.db.WithContext(ctx).
		Table("recommendations AS rec").
		Select(`rec.id AS rec_id, rec.sender_id,
			sender.firstname AS sender_firstname, sender.lastname AS sender_lastname,
			rec.receiver_id, rec.created_on,
			c.id AS course_id, c.fullname AS course_fullname, c.shortname AS course_shortname,
			c.category AS course_category, c.end_date AS course_end_date, c.visible AS course_visible`).
		Joins("JOIN courses c ON c.id = rec.course_id").
		Joins("JOIN users sender ON sender.id = rec.sender_id").
		Where("rec.receiver_id = ?", receiverID).
		Order("rec.created_on DESC, rec.id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var rows []InboundRow
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *recommendationRepository) ListHistory(ctx context.Context) ([]HistoryRow, error) {
	var rows []HistoryRow
	err := r.db.WithContext(ctx).
		Table("recommendations AS r").
		Select(`r.id, r.sender_id, r.receiver_id, r.course_id, r.created_on,
			s.firstname AS sender_firstname, s.lastname AS sender_lastname,
			u.firstname AS receiver_firstname, u.lastname AS receiver_lastname,
			c.fullname AS course_fullname`).
		Joins("JOIN users s ON s.id = r.sender_id").
		Joins("JOIN users u ON u.id = r.receiver_id").
		Joins("JOIN courses c ON c.id = r.course_id").
		Order("r.created_on DESC, r.id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// CountByCourse 只统计至少被推荐过一次的课程；同次数按 course_id 升序
func (r *recommendationRepository) CountByCourse(ctx context.Context, dir SortDirection, limit int) ([]CourseCount, error) {
	order := "recommendation_count DESC, r.course_id ASC"
	if dir == LeastRecommended {
		order = "recommendation_count ASC, r.course_id ASC"
	}

	q := r.db.WithContext(ctx).
		Table("recommendations AS r").
		Select("r.course_id, COUNT(*) AS recommendation_count, c.fullname AS course_fullname").
		Joins("LEFT JOIN courses c ON c.id = r.course_id").
		Group("r.course_id, c.fullname").
		Order(order)
	if limit > 0 {
		q = q.Limit(limit)
	}

	var rows []CourseCount
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *recommendationRepository) ExistsForUser(ctx context.Context, userID int64) (bool, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&model.Recommendation{}).
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Limit(1).
		Pluck("id", &ids).Error
	if err != nil {
		return false, err
	}
	return len(ids) > 0, nil
}

func (r *recommendationRepository) ListBySender(ctx context.Context, senderID int64) ([]*model.Recommendation, error) {
	var res []*model.Recommendation
	err := r.db.WithContext(ctx).Where("sender_id = ?", senderID).Order("id ASC").Find(&res).Error
	return res, err
}

func (r *recommendationRepository) ListByReceiver(ctx context.Context, receiverID int64) ([]*model.Recommendation, error) {
	var res []*model.Recommendation
	err := r.db.WithContext(ctx).Where("receiver_id = ?", receiverID).Order("id ASC").Find(&res).Error
	return res, err
}

// ListParticipantIDs 作为发送人或接收人出现过的用户 id，包含宿主已删除的用户
func (r *recommendationRepository) ListParticipantIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Raw(`SELECT sender_id AS id FROM recommendations
			UNION SELECT receiver_id AS id FROM recommendations
			ORDER BY id ASC`).
		Scan(&ids).Error
	return ids, err
}

func (r *recommendationRepository) DeleteForUsers(ctx context.Context, userIDs []int64) (int64, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Where("sender_id IN ? OR receiver_id IN ?", userIDs, userIDs).
		Delete(&model.Recommendation{})
	return res.RowsAffected, res.Error
}

func (r *recommendationRepository) DeleteAll(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&model.Recommendation{})
	return res.RowsAffected, res.Error
}

func (r *recommendationRepository) Count(ctx context.Context) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Recommendation{}).Count(&cnt).Error
	return cnt, err
}
