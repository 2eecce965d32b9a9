package repository

import (
	"context"

	"coursehub_backend/internal/model"

	"gorm.io/gorm"
)

type QuizAttemptRepository struct {
	DB *gorm.DB
}

func NewQuizAttemptRepository(db *gorm.DB) *QuizAttemptRepository {
	return &QuizAttemptRepository{DB: db}
}

func (r *QuizAttemptRepository) CountByUserSection(ctx context.Context, userID uint, sectionID string) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.UserSectionQuizAttempt{}).
		Where("user_id = ? AND section_id = ?", userID, sectionID).
		Count(&n).Error
	return n, err
}

// Create 写入一次提交；AttemptNo 冲突时返回 gorm.ErrDuplicatedKey
func (r *QuizAttemptRepository) Create(ctx context.Context, a *model.UserSectionQuizAttempt) error {
	return r.DB.WithContext(ctx).Create(a).Error
}

// ListByUserSection 最新的提交在前
func (r *QuizAttemptRepository) ListByUserSection(ctx context.Context, userID uint, sectionID string) ([]model.UserSectionQuizAttempt, error) {
	var attempts []model.UserSectionQuizAttempt
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND section_id = ?", userID, sectionID).
		Order("attempt_no DESC").
		Find(&attempts).Error
	return attempts, err
}
