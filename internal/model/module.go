package model

// CourseModule 课程下的模块，Order 为课程内的排序键
// swagger:model CourseModule
type CourseModule struct {
	UUIDBase
	CourseID string    `gorm:"type:varchar(36);index;not null" json:"courseId"`
	Title    string    `gorm:"size:255;not null" json:"title"`
	Order    int       `gorm:"column:sort_order;default:0" json:"order"`
	Sections []Section `gorm:"foreignKey:ModuleID" json:"sections,omitempty"`
}

func (CourseModule) TableName() string {
	return "course_modules"
}

type ModuleTranslation struct {
	TranslationBase
	ModuleID string  `gorm:"type:varchar(36);not null;uniqueIndex:idx_module_translation_locale" json:"moduleId"`
	Locale   string  `gorm:"size:16;not null;uniqueIndex:idx_module_translation_locale" json:"locale"`
	Title    *string `gorm:"size:255" json:"title"`
}

func (ModuleTranslation) TableName() string {
	return "module_translations"
}
