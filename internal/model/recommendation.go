package model

// Recommendation 一次 sender -> receiver 的课程推荐，只插入或删除，不更新
type Recommendation struct {
	ID         int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	SenderID   int64     `json:"sender_id" gorm:"not null;index:idx_rec_sender"`
	ReceiverID int64     `json:"receiver_id" gorm:"not null;index:idx_rec_receiver_created,priority:1"`
	CourseID   int64     `json:"course_id" gorm:"not null;index:idx_rec_course"`
	CreatedOn  Timestamp `json:"created_on" gorm:"not null;index:idx_rec_receiver_created,priority:2"`
	// 不设 (sender, receiver, course) 唯一键，重复推荐各自成行
}

func (Recommendation) TableName() string { return "recommendations" }
