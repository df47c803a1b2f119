package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/recommend-course/internal/model"
)

// UserRepository 宿主平台用户的只读访问
type UserRepository interface {
	// Search 排除已删除、已停用以及 excludeID 本人
	Search(ctx context.Context, excludeID int64, query string, limit int) ([]*model.User, error)
}

type userRepository struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) UserRepository { return &userRepository{db: db} }

func (r *userRepository) Search(ctx context.Context, excludeID int64, query string, limit int) ([]*model.User, error) {
	q := r.db.WithContext(ctx).
		Select("id", "username", "firstname", "lastname").
		Where("deleted = ? AND suspended = ? AND id <> ?", false, false, excludeID)
	if query != "" {
		p := containsPattern(query)
		q = q.Where(
			"("+likeClause("firstname")+" OR "+likeClause("lastname")+" OR "+
				likeClause("username")+" OR "+likeClause("firstname || ' ' || lastname")+")",
			p, p, p, p,
		)
	}

	var res []*model.User
	err := q.Order("firstname ASC, lastname ASC, id ASC").Limit(limit).Find(&res).Error
	return res, err
}
