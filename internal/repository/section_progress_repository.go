package repository

import (
	"context"

	"coursehub_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SectionProgressRepository 章节交互快照（按用户、章节、语言）
type SectionProgressRepository struct {
	DB *gorm.DB
}

func NewSectionProgressRepository(db *gorm.DB) *SectionProgressRepository {
	return &SectionProgressRepository{DB: db}
}

// Find 不存在时返回 nil, nil
func (r *SectionProgressRepository) Find(ctx context.Context, userID uint, sectionID, locale string) (*model.UserSectionProgress, error) {
	return findOptional[model.UserSectionProgress](ctx, r.DB,
		"user_id = ? AND section_id = ? AND locale = ?", userID, sectionID, locale)
}

// Apply 在一个事务内确保快照行存在、加锁读取、交给 mutate 修改后写回。
// 并发写同一行时后到者会看到先到者的修改。
func (r *SectionProgressRepository) Apply(ctx context.Context, userID uint, sectionID, locale string, mutate func(p *model.UserSectionProgress)) (*model.UserSectionProgress, error) {
	var out model.UserSectionProgress
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seed := &model.UserSectionProgress{UserID: userID, SectionID: sectionID, Locale: locale}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(seed).Error; err != nil {
			return err
		}

		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND section_id = ? AND locale = ?", userID, sectionID, locale).
			Take(&out).Error; err != nil {
			return err
		}

		mutate(&out)
		return tx.Save(&out).Error
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
