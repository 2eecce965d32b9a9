package repository

import (
	"context"

	"coursehub_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReflectionRepository struct {
	DB *gorm.DB
}

func NewReflectionRepository(db *gorm.DB) *ReflectionRepository {
	return &ReflectionRepository{DB: db}
}

// Upsert 同一用户、章节、语言只保留最新的反思，返回落库后的记录
func (r *ReflectionRepository) Upsert(ctx context.Context, ref *model.UserSectionReflection) (*model.UserSectionReflection, error) {
	err := r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "section_id"}, {Name: "locale"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"response_text",
			"char_count",
			"prompt_snapshot",
			"guidance_snapshot",
			"updated_at",
		}),
	}).Create(ref).Error
	if err != nil {
		return nil, err
	}
	// 冲突更新时主键仍是旧行的，重新读取
	return r.Find(ctx, ref.UserID, ref.SectionID, ref.Locale)
}

// Find 不存在时返回 nil, nil
func (r *ReflectionRepository) Find(ctx context.Context, userID uint, sectionID, locale string) (*model.UserSectionReflection, error) {
	return findOptional[model.UserSectionReflection](ctx, r.DB,
		"user_id = ? AND section_id = ? AND locale = ?", userID, sectionID, locale)
}
