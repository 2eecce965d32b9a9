package model

type SectionType string

const (
	SectionConcept     SectionType = "concept"
	SectionQuiz        SectionType = "quiz"
	SectionCaseStudy   SectionType = "case_study"
	SectionExample     SectionType = "example"
	SectionReflection  SectionType = "reflection"
	SectionInteractive SectionType = "interactive"
	SectionCallout     SectionType = "callout"
)

var SectionTypes = []SectionType{
	SectionConcept,
	SectionQuiz,
	SectionCaseStudy,
	SectionExample,
	SectionReflection,
	SectionInteractive,
	SectionCallout,
}

func (t SectionType) Valid() bool {
	for _, st := range SectionTypes {
		if st == t {
			return true
		}
	}
	return false
}

// HasBlockPayload concept 直接存富文本，其余类型存 blockPayload
func (t SectionType) HasBlockPayload() bool {
	return t.Valid() && t != SectionConcept
}

// swagger:model Section
type Section struct {
	UUIDBase
	ModuleID     string      `gorm:"type:varchar(36);index;not null" json:"moduleId"`
	Name         string      `gorm:"size:255;not null" json:"name"`
	Icon         string      `gorm:"size:64" json:"icon"`
	Order        int         `gorm:"column:sort_order;default:0" json:"order"`
	Type         SectionType `gorm:"size:32;not null" json:"type"`
	JSONContent  RawJSON     `gorm:"column:json_content" json:"jsonContent,omitempty"`
	HTMLContent  string      `gorm:"column:html_content;type:text" json:"htmlContent,omitempty"`
	TextContent  string      `gorm:"column:text_content;type:text" json:"textContent,omitempty"`
	BlockPayload RawJSON     `gorm:"column:block_payload" json:"blockPayload,omitempty"`
}

func (Section) TableName() string {
	return "sections"
}

// SectionTranslation 字段为空表示沿用默认语言的值
type SectionTranslation struct {
	TranslationBase
	SectionID    string  `gorm:"type:varchar(36);not null;uniqueIndex:idx_section_translation_locale" json:"sectionId"`
	Locale       string  `gorm:"size:16;not null;uniqueIndex:idx_section_translation_locale" json:"locale"`
	Name         *string `gorm:"size:255" json:"name"`
	JSONContent  RawJSON `gorm:"column:json_content" json:"jsonContent,omitempty"`
	HTMLContent  *string `gorm:"column:html_content;type:text" json:"htmlContent,omitempty"`
	TextContent  *string `gorm:"column:text_content;type:text" json:"textContent,omitempty"`
	BlockPayload RawJSON `gorm:"column:block_payload" json:"blockPayload,omitempty"`
}

func (SectionTranslation) TableName() string {
	return "section_translations"
}
