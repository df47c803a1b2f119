package model

// User 宿主平台用户（只读）
type User struct {
	ID        int64  `json:"id" gorm:"primaryKey"`
	Username  string `json:"username" gorm:"type:varchar(100);uniqueIndex;not null"`
	FirstName string `json:"firstname" gorm:"column:firstname;type:varchar(100);not null;default:''"`
	LastName  string `json:"lastname" gorm:"column:lastname;type:varchar(100);not null;default:''"`
	Email     string `json:"email" gorm:"type:varchar(100)"`
	Deleted   bool   `json:"deleted" gorm:"not null;default:false"`
	Suspended bool   `json:"suspended" gorm:"not null;default:false"`
}

func (User) TableName() string { return "users" }

// FullName "名 姓"
func (u User) FullName() string { return FullName(u.FirstName, u.LastName) }

func FullName(first, last string) string {
	switch {
	case first == "":
		return last
	case last == "":
		return first
	}
	return first + " " + last
}
