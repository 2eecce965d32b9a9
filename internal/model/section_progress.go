package model

import (
	"time"

	"gorm.io/datatypes"
)

// UserSectionProgress 用户在某个章节（某种语言）上的交互快照
// Locale 为空字符串表示默认语言
// swagger:model UserSectionProgress
type UserSectionProgress struct {
	ID                uint                                    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID            uint                                    `gorm:"not null;uniqueIndex:idx_user_section_locale" json:"userId"`
	SectionID         string                                  `gorm:"type:varchar(36);not null;uniqueIndex:idx_user_section_locale" json:"sectionId"`
	Locale            string                                  `gorm:"size:16;not null;default:'';uniqueIndex:idx_user_section_locale" json:"locale"`
	Completed         bool                                    `gorm:"default:false" json:"completed"`
	ProgressPct       int                                     `gorm:"default:0" json:"progressPct"`
	LastVisited       *time.Time                              `json:"lastVisited"`
	LastScorePct      *float64                                `json:"lastScorePct"`
	Passed            bool                                    `gorm:"default:false" json:"passed"`
	LastQuizAttemptID *string                                 `gorm:"type:varchar(36)" json:"lastQuizAttemptId"`
	LastReflectionID  *string                                 `gorm:"type:varchar(36)" json:"lastReflectionId"`
	Data              datatypes.JSONType[SectionProgressData] `json:"data"`
	CreatedAt         time.Time                               `json:"createdAt"`
	UpdatedAt         time.Time                               `json:"updatedAt"`
}

func (UserSectionProgress) TableName() string {
	return "user_section_progress"
}

// SectionProgressData 扩展记录，只包含下列固定的可选子结构
//
//	lastAttempt    最近一次测验提交的摘要
//	lastReflection 最近一次保存的反思摘要
//
// 写入时按字段合并，未涉及的字段保持原值。
type SectionProgressData struct {
	LastAttempt    *LastAttemptSummary    `json:"lastAttempt,omitempty"`
	LastReflection *LastReflectionSummary `json:"lastReflection,omitempty"`
}

type LastAttemptSummary struct {
	AttemptNo       int       `json:"attemptNo"`
	SelectedIndexes []int     `json:"selectedIndexes"`
	CorrectCount    int       `json:"correctCount"`
	Total           int       `json:"total"`
	ScorePct        float64   `json:"scorePct"`
	Passed          bool      `json:"passed"`
	SubmittedAt     time.Time `json:"submittedAt"`
}

type LastReflectionSummary struct {
	ResponseText string    `json:"responseText"`
	CharCount    int       `json:"charCount"`
	SavedAt      time.Time `json:"savedAt"`
}

// Merge 用 patch 中非空的子结构覆盖当前值
func (d SectionProgressData) Merge(patch SectionProgressData) SectionProgressData {
	if patch.LastAttempt != nil {
		d.LastAttempt = patch.LastAttempt
	}
	if patch.LastReflection != nil {
		d.LastReflection = patch.LastReflection
	}
	return d
}
