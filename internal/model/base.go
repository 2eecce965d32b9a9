package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// swagger:model
type UUIDBase struct {
	ID        string         `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (b *UUIDBase) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	return
}

// TranslationBase 翻译表公共字段，(ownerId, locale) 唯一约束在各自的表上声明
type TranslationBase struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func GenerateUUID() string {
	return uuid.New().String()
}

// All 返回需要迁移的全部模型
func All() []interface{} {
	return []interface{}{
		&Group{},
		&GroupTranslation{},
		&Course{},
		&CourseTranslation{},
		&CourseModule{},
		&ModuleTranslation{},
		&Section{},
		&SectionTranslation{},
		&UserCourseProgress{},
		&UserSectionCompletion{},
		&UserSectionProgress{},
		&UserSectionQuizAttempt{},
		&UserSectionReflection{},
	}
}
