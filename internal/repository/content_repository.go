package repository

import (
	"context"

	"coursehub_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ContentRepository 群组、课程、模块、章节及其翻译
type ContentRepository struct {
	DB *gorm.DB
}

func NewContentRepository(db *gorm.DB) *ContentRepository {
	return &ContentRepository{DB: db}
}

// WithTx 返回在事务 tx 上执行的副本
func (r *ContentRepository) WithTx(tx *gorm.DB) *ContentRepository {
	return &ContentRepository{DB: tx}
}

func (r *ContentRepository) Transaction(ctx context.Context, fn func(repo *ContentRepository) error) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(r.WithTx(tx))
	})
}

func upsertTranslation(ctx context.Context, db *gorm.DB, ownerColumn string, row interface{}, columns []string) error {
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: ownerColumn}, {Name: "locale"}},
		DoUpdates: clause.AssignmentColumns(append(append([]string{}, columns...), "updated_at")),
	}).Create(row).Error
}

// ---- groups ----

func (r *ContentRepository) CreateGroup(ctx context.Context, g *model.Group) error {
	return r.DB.WithContext(ctx).Create(g).Error
}

func (r *ContentRepository) FindGroup(ctx context.Context, id string) (*model.Group, error) {
	var g model.Group
	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&g).Error
	return &g, err
}

func (r *ContentRepository) FindGroupTranslation(ctx context.Context, groupID, locale string) (*model.GroupTranslation, error) {
	return findTranslation[model.GroupTranslation](ctx, r.DB, "group_id", groupID, locale)
}

func (r *ContentRepository) UpsertGroupTranslation(ctx context.Context, tr *model.GroupTranslation) error {
	return upsertTranslation(ctx, r.DB, "group_id", tr, []string{"name", "description"})
}

// ---- courses ----

func (r *ContentRepository) CreateCourse(ctx context.Context, c *model.Course) error {
	return r.DB.WithContext(ctx).Create(c).Error
}

func (r *ContentRepository) FindCourse(ctx context.Context, id string) (*model.Course, error) {
	var c model.Course
	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&c).Error
	return &c, err
}

func (r *ContentRepository) UpdateCourse(ctx context.Context, c *model.Course) error {
	return r.DB.WithContext(ctx).Omit("Modules").Save(c).Error
}

func (r *ContentRepository) UpdateCourseThumbnail(ctx context.Context, courseID, thumbnail string) error {
	return r.DB.WithContext(ctx).Model(&model.Course{}).
		Where("id = ?", courseID).
		Update("thumbnail", thumbnail).Error
}

// DeleteCourse 软删除课程
func (r *ContentRepository) DeleteCourse(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Where("id = ?", id).Delete(&model.Course{}).Error
}

func (r *ContentRepository) ListPublishedCourses(ctx context.Context, groupID string) ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.WithContext(ctx).
		Where("group_id = ? AND published = ?", groupID, true).
		Order("created_at ASC").
		Find(&courses).Error
	return courses, err
}

func (r *ContentRepository) FindCourseTranslation(ctx context.Context, courseID, locale string) (*model.CourseTranslation, error) {
	return findTranslation[model.CourseTranslation](ctx, r.DB, "course_id", courseID, locale)
}

func (r *ContentRepository) FindCourseTranslations(ctx context.Context, courseIDs []string, locale string) (map[string]*model.CourseTranslation, error) {
	rows, err := findTranslations[model.CourseTranslation](ctx, r.DB, "course_id", courseIDs, locale)
	if err != nil {
		return nil, err
	}
	out := make(map[string]*model.CourseTranslation, len(rows))
	for i := range rows {
		out[rows[i].CourseID] = &rows[i]
	}
	return out, nil
}

func (r *ContentRepository) UpsertCourseTranslation(ctx context.Context, tr *model.CourseTranslation) error {
	return upsertTranslation(ctx, r.DB, "course_id", tr, []string{"name", "description", "learn_outcomes", "faq"})
}

// ---- modules ----

func (r *ContentRepository) CreateModule(ctx context.Context, m *model.CourseModule) error {
	return r.DB.WithContext(ctx).Create(m).Error
}

func (r *ContentRepository) FindModule(ctx context.Context, id string) (*model.CourseModule, error) {
	var m model.CourseModule
	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&m).Error
	return &m, err
}

func (r *ContentRepository) UpdateModuleTitle(ctx context.Context, id, title string) error {
	return r.DB.WithContext(ctx).Model(&model.CourseModule{}).
		Where("id = ?", id).
		Update("title", title).Error
}

// DeleteModule 软删除模块及其下的章节
func (r *ContentRepository) DeleteModule(ctx context.Context, id string) error {
	db := r.DB.WithContext(ctx)
	if err := db.Where("module_id = ?", id).Delete(&model.Section{}).Error; err != nil {
		return err
	}
	return db.Where("id = ?", id).Delete(&model.CourseModule{}).Error
}

func (r *ContentRepository) ListModules(ctx context.Context, courseID string) ([]model.CourseModule, error) {
	var modules []model.CourseModule
	err := r.DB.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("sort_order ASC, created_at ASC").
		Find(&modules).Error
	return modules, err
}

func (r *ContentRepository) NextModuleOrder(ctx context.Context, courseID string) (int, error) {
	var max int
	err := r.DB.WithContext(ctx).Model(&model.CourseModule{}).
		Where("course_id = ?", courseID).
		Select("COALESCE(MAX(sort_order), -1)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	return max + 1, nil
}

func (r *ContentRepository) UpdateModuleOrder(ctx context.Context, id string, order int) error {
	return r.DB.WithContext(ctx).Model(&model.CourseModule{}).
		Where("id = ?", id).
		Update("sort_order", order).Error
}

func (r *ContentRepository) FindModuleTranslations(ctx context.Context, moduleIDs []string, locale string) (map[string]*model.ModuleTranslation, error) {
	rows, err := findTranslations[model.ModuleTranslation](ctx, r.DB, "module_id", moduleIDs, locale)
	if err != nil {
		return nil, err
	}
	out := make(map[string]*model.ModuleTranslation, len(rows))
	for i := range rows {
		out[rows[i].ModuleID] = &rows[i]
	}
	return out, nil
}

func (r *ContentRepository) UpsertModuleTranslation(ctx context.Context, tr *model.ModuleTranslation) error {
	return upsertTranslation(ctx, r.DB, "module_id", tr, []string{"title"})
}

// ---- sections ----

func (r *ContentRepository) CreateSection(ctx context.Context, s *model.Section) error {
	return r.DB.WithContext(ctx).Create(s).Error
}

func (r *ContentRepository) FindSection(ctx context.Context, id string) (*model.Section, error) {
	var s model.Section
	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&s).Error
	return &s, err
}

// UpdateSectionColumns 只更新指定列，零值也会写入
func (r *ContentRepository) UpdateSectionColumns(ctx context.Context, id string, columns map[string]interface{}) error {
	if len(columns) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).Model(&model.Section{}).
		Where("id = ?", id).
		Updates(columns).Error
}

func (r *ContentRepository) DeleteSection(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Where("id = ?", id).Delete(&model.Section{}).Error
}

// ListSections 按模块返回存活章节，模块内按排序键排列
func (r *ContentRepository) ListSections(ctx context.Context, moduleIDs ...string) ([]model.Section, error) {
	if len(moduleIDs) == 0 {
		return nil, nil
	}
	var sections []model.Section
	err := r.DB.WithContext(ctx).
		Where("module_id IN ?", moduleIDs).
		Order("sort_order ASC, created_at ASC").
		Find(&sections).Error
	return sections, err
}

func (r *ContentRepository) NextSectionOrder(ctx context.Context, moduleID string) (int, error) {
	var max int
	err := r.DB.WithContext(ctx).Model(&model.Section{}).
		Where("module_id = ?", moduleID).
		Select("COALESCE(MAX(sort_order), -1)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	return max + 1, nil
}

func (r *ContentRepository) UpdateSectionOrder(ctx context.Context, id string, order int) error {
	return r.DB.WithContext(ctx).Model(&model.Section{}).
		Where("id = ?", id).
		Update("sort_order", order).Error
}

func (r *ContentRepository) FindSectionTranslation(ctx context.Context, sectionID, locale string) (*model.SectionTranslation, error) {
	return findTranslation[model.SectionTranslation](ctx, r.DB, "section_id", sectionID, locale)
}

func (r *ContentRepository) FindSectionTranslations(ctx context.Context, sectionIDs []string, locale string) (map[string]*model.SectionTranslation, error) {
	rows, err := findTranslations[model.SectionTranslation](ctx, r.DB, "section_id", sectionIDs, locale)
	if err != nil {
		return nil, err
	}
	out := make(map[string]*model.SectionTranslation, len(rows))
	for i := range rows {
		out[rows[i].SectionID] = &rows[i]
	}
	return out, nil
}

// UpsertSectionTranslation 只覆盖 columns 中列出的列，其余翻译字段保持不变
func (r *ContentRepository) UpsertSectionTranslation(ctx context.Context, tr *model.SectionTranslation, columns []string) error {
	return upsertTranslation(ctx, r.DB, "section_id", tr, columns)
}
