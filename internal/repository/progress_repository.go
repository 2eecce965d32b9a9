package repository

import (
	"context"
	"time"

	"coursehub_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProgressRepository 课程进度缓存行与完成集合
type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

func (r *ProgressRepository) WithTx(tx *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: tx}
}

// FindCourseProgress 不存在时返回 nil, nil
func (r *ProgressRepository) FindCourseProgress(ctx context.Context, userID uint, courseID string) (*model.UserCourseProgress, error) {
	return findOptional[model.UserCourseProgress](ctx, r.DB, "user_id = ? AND course_id = ?", userID, courseID)
}

// TouchLastVisited 记录最近访问的模块与章节；行不存在时以 0 进度创建
func (r *ProgressRepository) TouchLastVisited(ctx context.Context, userID uint, courseID, moduleID, sectionID string) error {
	row := &model.UserCourseProgress{
		UserID:        userID,
		CourseID:      courseID,
		LastModuleID:  &moduleID,
		LastSectionID: &sectionID,
	}
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"last_module_id", "last_section_id", "updated_at"}),
	}).Create(row).Error
}

// AddCompletion 把章节加入完成集合，已存在时不做任何事。返回是否新增。
func (r *ProgressRepository) AddCompletion(ctx context.Context, userID uint, courseID, moduleID, sectionID string) (bool, error) {
	row := &model.UserSectionCompletion{
		UserID:      userID,
		CourseID:    courseID,
		SectionID:   sectionID,
		ModuleID:    moduleID,
		CompletedAt: time.Now(),
	}
	res := r.DB.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(row)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// CountLiveSections 课程下存活的章节数（章节及所属模块均未删除）
func (r *ProgressRepository) CountLiveSections(ctx context.Context, courseID string) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.Section{}).
		Joins("JOIN course_modules ON course_modules.id = sections.module_id AND course_modules.deleted_at IS NULL").
		Where("course_modules.course_id = ?", courseID).
		Count(&n).Error
	return n, err
}

// CountCompletedLive 完成集合与存活章节的交集大小
func (r *ProgressRepository) CountCompletedLive(ctx context.Context, userID uint, courseID string) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.UserSectionCompletion{}).
		Joins("JOIN sections ON sections.id = user_section_completions.section_id AND sections.deleted_at IS NULL").
		Joins("JOIN course_modules ON course_modules.id = sections.module_id AND course_modules.deleted_at IS NULL").
		Where("user_section_completions.user_id = ? AND user_section_completions.course_id = ?", userID, courseID).
		Where("course_modules.course_id = ?", courseID).
		Count(&n).Error
	return n, err
}

// CompletedSectionIDs 完成集合（含已删除章节），按完成时间排序
func (r *ProgressRepository) CompletedSectionIDs(ctx context.Context, userID uint, courseID string) ([]string, error) {
	var ids []string
	err := r.DB.WithContext(ctx).Model(&model.UserSectionCompletion{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Order("completed_at ASC, id ASC").
		Pluck("section_id", &ids).Error
	return ids, err
}

func (r *ProgressRepository) IsCompleted(ctx context.Context, userID uint, courseID, sectionID string) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.UserSectionCompletion{}).
		Where("user_id = ? AND course_id = ? AND section_id = ?", userID, courseID, sectionID).
		Count(&n).Error
	return n > 0, err
}

// SaveCourseProgress 写入重新计算后的汇总值及最近访问位置
func (r *ProgressRepository) SaveCourseProgress(ctx context.Context, p *model.UserCourseProgress) error {
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"progress",
			"is_complete",
			"completed_count",
			"last_module_id",
			"last_section_id",
			"updated_at",
		}),
	}).Create(p).Error
}

// RefreshCachedProgress 只更新缓存的汇总值，不动最近访问位置
func (r *ProgressRepository) RefreshCachedProgress(ctx context.Context, userID uint, courseID string, progress, completedCount int, isComplete bool) error {
	return r.DB.WithContext(ctx).Model(&model.UserCourseProgress{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Updates(map[string]interface{}{
			"progress":        progress,
			"completed_count": completedCount,
			"is_complete":     isComplete,
		}).Error
}
