package model

import "time"

// SiteCourseID 站点首页课程，不参与推荐
const SiteCourseID int64 = 1

// SummaryFormat 课程简介的格式
const (
	SummaryFormatMoodle   = 0
	SummaryFormatHTML     = 1
	SummaryFormatPlain    = 2
	SummaryFormatMarkdown = 4
)

// Course 宿主平台课程（只读）
type Course struct {
	ID            int64      `json:"id" gorm:"primaryKey"`
	FullName      string     `json:"fullname" gorm:"column:fullname;type:varchar(254);not null;index"`
	ShortName     string     `json:"shortname" gorm:"column:shortname;type:varchar(255)"`
	Category      int64      `json:"category" gorm:"not null;default:0"`
	Summary       string     `json:"summary" gorm:"type:text"`
	SummaryFormat int        `json:"summary_format" gorm:"not null"`
	Visible       bool       `json:"visible" gorm:"not null"`
	StartDate     *time.Time `json:"start_date"`
	EndDate       *time.Time `json:"end_date"`
	// 平台生成的课程封面，可能为空
	ImageURL string `json:"image_url" gorm:"type:varchar(512)"`
}

func (Course) TableName() string { return "courses" }

// CourseOverviewFile 课程概览附件，作为封面兜底
type CourseOverviewFile struct {
	ID        int64  `json:"id" gorm:"primaryKey"`
	CourseID  int64  `json:"course_id" gorm:"not null;index:idx_overview_course_sort,priority:1"`
	FilePath  string `json:"filepath" gorm:"column:filepath;type:varchar(255);not null;default:'/'"`
	FileName  string `json:"filename" gorm:"column:filename;type:varchar(255);not null"`
	MimeType  string `json:"mimetype" gorm:"column:mimetype;type:varchar(100)"`
	SortOrder int    `json:"sort_order" gorm:"not null;default:0;index:idx_overview_course_sort,priority:2"`
}

func (CourseOverviewFile) TableName() string { return "course_overview_files" }
