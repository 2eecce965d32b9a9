package service

import (
	"coursehub_backend/internal/locale"
	"coursehub_backend/internal/model"
)

// SectionView 解析后的章节及调用方在该章节上的状态
type SectionView struct {
	ID           string                     `json:"id"`
	CourseID     string                     `json:"courseId"`
	ModuleID     string                     `json:"moduleId"`
	Name         string                     `json:"name"`
	Icon         string                     `json:"icon"`
	Order        int                        `json:"order"`
	Type         model.SectionType          `json:"type"`
	Locale       string                     `json:"locale"`
	JSONContent  model.RawJSON              `json:"jsonContent,omitempty"`
	HTMLContent  string                     `json:"htmlContent,omitempty"`
	TextContent  string                     `json:"textContent,omitempty"`
	BlockPayload model.RawJSON              `json:"blockPayload,omitempty"`
	Completed    bool                       `json:"completed"`
	UserProgress *model.UserSectionProgress `json:"userProgress"`
}

type SectionSummary struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Icon      string            `json:"icon"`
	Order     int               `json:"order"`
	Type      model.SectionType `json:"type"`
	Completed bool              `json:"completed"`
}

type ModuleView struct {
	ID       string           `json:"id"`
	Title    string           `json:"title"`
	Order    int              `json:"order"`
	Sections []SectionSummary `json:"sections"`
}

type CourseView struct {
	ID            string              `json:"id"`
	GroupID       string              `json:"groupId"`
	Name          string              `json:"name"`
	Description   string              `json:"description"`
	Thumbnail     string              `json:"thumbnail"`
	Privacy       string              `json:"privacy"`
	Published     bool                `json:"published"`
	Level         string              `json:"level"`
	LearnOutcomes model.LearnOutcomes `json:"learnOutcomes"`
	FAQ           model.FAQList       `json:"faq"`
	Locale        string              `json:"locale"`
	Modules       []ModuleView        `json:"modules"`
	Progress      *ProgressSnapshot   `json:"progress"`
}

type CourseSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Thumbnail   string `json:"thumbnail"`
	Level       string `json:"level"`
	Privacy     string `json:"privacy"`
}

type GroupView struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	OwnerID     uint            `json:"ownerId"`
	Locale      string          `json:"locale"`
	Courses     []CourseSummary `json:"courses"`
}

// ---- 各层级的覆盖字段 ----

var groupFields = []locale.Field[model.Group, model.GroupTranslation]{
	locale.Ptr(func(g *model.Group) *string { return &g.Name }, func(t *model.GroupTranslation) *string { return t.Name }),
	locale.Ptr(func(g *model.Group) *string { return &g.Description }, func(t *model.GroupTranslation) *string { return t.Description }),
}

var courseFields = []locale.Field[model.Course, model.CourseTranslation]{
	locale.Ptr(func(c *model.Course) *string { return &c.Name }, func(t *model.CourseTranslation) *string { return t.Name }),
	locale.Ptr(func(c *model.Course) *string { return &c.Description }, func(t *model.CourseTranslation) *string { return t.Description }),
	locale.Slice(func(c *model.Course) *model.LearnOutcomes { return &c.LearnOutcomes }, func(t *model.CourseTranslation) model.LearnOutcomes { return t.LearnOutcomes }),
	locale.Slice(func(c *model.Course) *model.FAQList { return &c.FAQ }, func(t *model.CourseTranslation) model.FAQList { return t.FAQ }),
}

var moduleFields = []locale.Field[model.CourseModule, model.ModuleTranslation]{
	locale.Ptr(func(m *model.CourseModule) *string { return &m.Title }, func(t *model.ModuleTranslation) *string { return t.Title }),
}

var sectionNameField = locale.Ptr(
	func(s *model.Section) *string { return &s.Name },
	func(t *model.SectionTranslation) *string { return t.Name },
)

// concept 覆盖名称和三种正文；其他类型覆盖名称和 blockPayload
var conceptFields = []locale.Field[model.Section, model.SectionTranslation]{
	sectionNameField,
	locale.Nullable(func(s *model.Section) *model.RawJSON { return &s.JSONContent }, func(t *model.SectionTranslation) model.RawJSON { return t.JSONContent }),
	locale.Ptr(func(s *model.Section) *string { return &s.HTMLContent }, func(t *model.SectionTranslation) *string { return t.HTMLContent }),
	locale.Ptr(func(s *model.Section) *string { return &s.TextContent }, func(t *model.SectionTranslation) *string { return t.TextContent }),
}

var payloadFields = []locale.Field[model.Section, model.SectionTranslation]{
	sectionNameField,
	locale.Nullable(func(s *model.Section) *model.RawJSON { return &s.BlockPayload }, func(t *model.SectionTranslation) model.RawJSON { return t.BlockPayload }),
}

func sectionFields(t model.SectionType) []locale.Field[model.Section, model.SectionTranslation] {
	if t == model.SectionConcept {
		return conceptFields
	}
	return payloadFields
}
