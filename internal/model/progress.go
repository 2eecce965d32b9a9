package model

import "time"

// UserCourseProgress 用户在课程上的汇总进度
// Progress 是缓存值，读取路径总是按当前存活的章节数重新计算
// swagger:model UserCourseProgress
type UserCourseProgress struct {
	ID             uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID         uint      `gorm:"not null;uniqueIndex:idx_user_course_progress" json:"userId"`
	CourseID       string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_user_course_progress" json:"courseId"`
	Progress       int       `gorm:"default:0" json:"progress"`
	IsComplete     bool      `gorm:"default:false" json:"isComplete"`
	CompletedCount int       `gorm:"default:0" json:"completedCount"`
	LastModuleID   *string   `gorm:"type:varchar(36)" json:"lastModuleId"`
	LastSectionID  *string   `gorm:"type:varchar(36)" json:"lastSectionId"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (UserCourseProgress) TableName() string {
	return "user_course_progress"
}

// UserSectionCompletion 完成集合中的一个元素，一行一个章节，只增不减
type UserSectionCompletion struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      uint      `gorm:"not null;uniqueIndex:idx_user_course_section" json:"userId"`
	CourseID    string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_user_course_section" json:"courseId"`
	SectionID   string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_user_course_section" json:"sectionId"`
	ModuleID    string    `gorm:"type:varchar(36)" json:"moduleId"`
	CompletedAt time.Time `json:"completedAt"`
}

func (UserSectionCompletion) TableName() string {
	return "user_section_completions"
}
