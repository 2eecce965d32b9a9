package model

import (
	"time"

	"gorm.io/gorm"
)

// UserSectionReflection 每个用户、章节、语言只保留最新的一条反思
// swagger:model UserSectionReflection
type UserSectionReflection struct {
	ID               string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID           uint      `gorm:"not null;uniqueIndex:idx_user_section_reflection" json:"userId"`
	SectionID        string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_user_section_reflection" json:"sectionId"`
	Locale           string    `gorm:"size:16;not null;default:'';uniqueIndex:idx_user_section_reflection" json:"locale"`
	ResponseText     string    `gorm:"type:text" json:"responseText"`
	CharCount        int       `json:"charCount"`
	PromptSnapshot   string    `gorm:"type:text" json:"promptSnapshot"`
	GuidanceSnapshot string    `gorm:"type:text" json:"guidanceSnapshot"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

func (UserSectionReflection) TableName() string {
	return "user_section_reflections"
}

func (r *UserSectionReflection) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = GenerateUUID()
	}
	return nil
}
