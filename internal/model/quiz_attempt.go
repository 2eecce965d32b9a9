package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// UserSectionQuizAttempt 测验提交记录，写入后不再修改
// Snapshot 保存评分时使用的题库，题目后续被修改也能复现
// swagger:model UserSectionQuizAttempt
type UserSectionQuizAttempt struct {
	ID              string                   `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID          uint                     `gorm:"not null;uniqueIndex:idx_user_section_attempt_no" json:"userId"`
	SectionID       string                   `gorm:"type:varchar(36);not null;uniqueIndex:idx_user_section_attempt_no" json:"sectionId"`
	AttemptNo       int                      `gorm:"not null;uniqueIndex:idx_user_section_attempt_no" json:"attemptNo"`
	Locale          string                   `gorm:"size:16;not null;default:''" json:"locale"`
	SelectedIndexes datatypes.JSONSlice[int] `json:"selectedIndexes"`
	CorrectCount    int                      `json:"correctCount"`
	TotalQuestions  int                      `json:"totalQuestions"`
	ScorePct        float64                  `json:"scorePct"`
	Passed          bool                     `json:"passed"`
	Snapshot        datatypes.JSON           `json:"snapshot"`
	CreatedAt       time.Time                `json:"submittedAt"`
}

func (UserSectionQuizAttempt) TableName() string {
	return "user_section_quiz_attempts"
}

func (a *UserSectionQuizAttempt) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = GenerateUUID()
	}
	return nil
}
