package model

// Group 社区，课程的归属方
// swagger:model Group
type Group struct {
	UUIDBase
	Name        string   `gorm:"size:255;not null" json:"name"`
	Description string   `gorm:"type:text" json:"description"`
	OwnerID     uint     `gorm:"index" json:"ownerId"`
	Courses     []Course `gorm:"foreignKey:GroupID" json:"courses,omitempty"`
}

func (Group) TableName() string {
	return "course_groups"
}

type GroupTranslation struct {
	TranslationBase
	GroupID     string  `gorm:"type:varchar(36);not null;uniqueIndex:idx_group_translation_locale" json:"groupId"`
	Locale      string  `gorm:"size:16;not null;uniqueIndex:idx_group_translation_locale" json:"locale"`
	Name        *string `gorm:"size:255" json:"name"`
	Description *string `gorm:"type:text" json:"description"`
}

func (GroupTranslation) TableName() string {
	return "group_translations"
}
