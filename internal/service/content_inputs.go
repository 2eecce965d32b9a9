package service

import "coursehub_backend/internal/model"

type GroupInput struct {
	Name        string `json:"name" binding:"required,max=255"`
	Description string `json:"description"`
}

// GroupTranslationInput 字段为 nil 表示该语言沿用默认语言的值
type GroupTranslationInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type CourseInput struct {
	Name          string              `json:"name" binding:"required,max=255"`
	Description   string              `json:"description"`
	Privacy       string              `json:"privacy" binding:"omitempty,oneof=public private"`
	Published     bool                `json:"published"`
	Level         string              `json:"level" binding:"omitempty,oneof=beginner intermediate advanced"`
	LearnOutcomes model.LearnOutcomes `json:"learnOutcomes"`
	FAQ           model.FAQList       `json:"faq"`
}

// CoursePatch 只更新非 nil 字段
type CoursePatch struct {
	Name          *string             `json:"name" binding:"omitempty,max=255"`
	Description   *string             `json:"description"`
	Privacy       *string             `json:"privacy" binding:"omitempty,oneof=public private"`
	Published     *bool               `json:"published"`
	Level         *string             `json:"level" binding:"omitempty,oneof=beginner intermediate advanced"`
	LearnOutcomes model.LearnOutcomes `json:"learnOutcomes"`
	FAQ           model.FAQList       `json:"faq"`
}

type CourseTranslationInput struct {
	Name          *string             `json:"name"`
	Description   *string             `json:"description"`
	LearnOutcomes model.LearnOutcomes `json:"learnOutcomes"`
	FAQ           model.FAQList       `json:"faq"`
}

// ModulePatch Locale 非默认语言时 Title 写入翻译
type ModulePatch struct {
	Locale string  `json:"locale"`
	Title  *string `json:"title" binding:"omitempty,max=255"`
}

type SectionInput struct {
	Name string            `json:"name" binding:"required,max=255"`
	Icon string            `json:"icon" binding:"max=64"`
	Type model.SectionType `json:"type" binding:"required"`
}

// SectionPatch Locale 非默认语言时 Name 写入翻译，Icon 不区分语言
type SectionPatch struct {
	Locale string  `json:"locale"`
	Name   *string `json:"name" binding:"omitempty,max=255"`
	Icon   *string `json:"icon" binding:"omitempty,max=64"`
}

// ConceptContentInput 只写入非 nil 的字段
type ConceptContentInput struct {
	Locale      string        `json:"locale"`
	JSONContent model.RawJSON `json:"jsonContent"`
	HTMLContent *string       `json:"htmlContent"`
	TextContent *string       `json:"textContent"`
}

type ReorderInput struct {
	IDs []string `json:"ids" binding:"required"`
}
