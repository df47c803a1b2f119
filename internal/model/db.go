package model

import "gorm.io/gorm"

// Migrate 只迁移本服务拥有的表
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Recommendation{})
}

// MigrateHost 开发与测试环境下创建宿主平台的只读表
func MigrateHost(db *gorm.DB) error {
	return db.AutoMigrate(&User{}, &Course{}, &CourseOverviewFile{})
}
