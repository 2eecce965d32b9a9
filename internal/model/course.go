package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

const (
	PrivacyPublic  = "public"
	PrivacyPrivate = "private"
)

const (
	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"
)

// swagger:model Course
type Course struct {
	UUIDBase
	GroupID       string         `gorm:"type:varchar(36);index;not null" json:"groupId"`
	Name          string         `gorm:"size:255;not null" json:"name"`
	Description   string         `gorm:"type:text" json:"description"`
	Thumbnail     string         `gorm:"size:512" json:"thumbnail"`
	Privacy       string         `gorm:"size:16;default:'public'" json:"privacy"`
	Published     bool           `gorm:"default:false" json:"published"`
	Level         string         `gorm:"size:32" json:"level"`
	LearnOutcomes LearnOutcomes  `json:"learnOutcomes"`
	FAQ           FAQList        `gorm:"column:faq" json:"faq"`
	Modules       []CourseModule `gorm:"foreignKey:CourseID" json:"modules,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}

type CourseTranslation struct {
	TranslationBase
	CourseID      string        `gorm:"type:varchar(36);not null;uniqueIndex:idx_course_translation_locale" json:"courseId"`
	Locale        string        `gorm:"size:16;not null;uniqueIndex:idx_course_translation_locale" json:"locale"`
	Name          *string       `gorm:"size:255" json:"name"`
	Description   *string       `gorm:"type:text" json:"description"`
	LearnOutcomes LearnOutcomes `json:"learnOutcomes"`
	FAQ           FAQList       `gorm:"column:faq" json:"faq"`
}

func (CourseTranslation) TableName() string {
	return "course_translations"
}

// LearnOutcomes 学习成果列表，兼容旧数据中的 {"outcome": "..."} 结构
type LearnOutcomes []string

func (o *LearnOutcomes) UnmarshalJSON(b []byte) error {
	if strings.TrimSpace(string(b)) == "null" {
		*o = nil
		return nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("learnOutcomes: %w", err)
	}

	out := make(LearnOutcomes, 0, len(raw))
	for _, item := range raw {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
			continue
		}

		var legacy struct {
			Outcome string `json:"outcome"`
		}
		if err := json.Unmarshal(item, &legacy); err != nil {
			return fmt.Errorf("learnOutcomes: unsupported item %s", string(item))
		}
		if s := strings.TrimSpace(legacy.Outcome); s != "" {
			out = append(out, s)
		}
	}
	*o = out
	return nil
}

func (o LearnOutcomes) Value() (driver.Value, error) {
	if o == nil {
		return nil, nil
	}
	b, err := json.Marshal([]string(o))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (o *LearnOutcomes) Scan(value interface{}) error {
	b, ok := scanBytes(value)
	if !ok {
		return fmt.Errorf("learnOutcomes: unsupported scan type %T", value)
	}
	if b == nil {
		*o = nil
		return nil
	}
	return o.UnmarshalJSON(b)
}

func (LearnOutcomes) GormDataType() string {
	return "json"
}

type FAQItem struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// FAQList nil 表示“未设置”，在翻译行中用于回退到默认语言
type FAQList []FAQItem

func (f FAQList) Value() (driver.Value, error) {
	if f == nil {
		return nil, nil
	}
	b, err := json.Marshal([]FAQItem(f))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (f *FAQList) Scan(value interface{}) error {
	b, ok := scanBytes(value)
	if !ok {
		return fmt.Errorf("faq: unsupported scan type %T", value)
	}
	if b == nil {
		*f = nil
		return nil
	}
	var items []FAQItem
	if err := json.Unmarshal(b, &items); err != nil {
		return err
	}
	*f = items
	return nil
}

func (FAQList) GormDataType() string {
	return "json"
}

func scanBytes(value interface{}) ([]byte, bool) {
	switch v := value.(type) {
	case nil:
		return nil, true
	case []byte:
		return v, true
	case string:
		return []byte(v), true
	default:
		return nil, false
	}
}
