package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"coursehub_backend/internal/locale"
	"coursehub_backend/internal/model"
	"coursehub_backend/internal/payload"
	"coursehub_backend/internal/repository"
	"coursehub_backend/internal/util"
	"coursehub_backend/pkg/logger"
	"coursehub_backend/pkg/monitoring"
	"coursehub_backend/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

type ContentService struct {
	Repo     *repository.ContentRepository
	Locales  *locale.Resolver
	Payloads *payload.Validator
	Auth     Authorizer
	Progress *ProgressService
	Sections *repository.SectionProgressRepository
	Storage  StorageProvider
}

func NewContentService(
	repo *repository.ContentRepository,
	locales *locale.Resolver,
	payloads *payload.Validator,
	auth Authorizer,
	progress *ProgressService,
	sections *repository.SectionProgressRepository,
	storage StorageProvider,
) *ContentService {
	return &ContentService{
		Repo:     repo,
		Locales:  locales,
		Payloads: payloads,
		Auth:     auth,
		Progress: progress,
		Sections: sections,
		Storage:  storage,
	}
}

// localeCode 对外展示的语言代码，"" 即默认语言
func (s *ContentService) localeCode(loc string) string {
	if loc == "" {
		return s.Locales.Default()
	}
	return loc
}

// writeLocale 写操作的语言，不支持的语言直接拒绝
func (s *ContentService) writeLocale(requested string) (string, error) {
	loc, ok := s.Locales.ForWrite(requested)
	if !ok {
		return "", util.Invalid("locale", "unsupported locale %q", requested)
	}
	return loc, nil
}

// effectiveSection 按语言覆盖章节字段
func (s *ContentService) effectiveSection(ctx context.Context, section *model.Section, loc string) (model.Section, error) {
	tr, err := s.Repo.FindSectionTranslation(ctx, section.ID, loc)
	if err != nil {
		return model.Section{}, util.StoreError(err)
	}
	return locale.Overlay(*section, tr, sectionFields(section.Type)...), nil
}

// ---- 读取 ----

// ResolveSection 返回按语言覆盖后的章节以及调用方的章节状态，并记录一次访问
func (s *ContentService) ResolveSection(ctx context.Context, caller Caller, sectionID, requestedLocale string) (*SectionView, error) {
	ctx, span := tracing.Start(ctx, "ContentService.ResolveSection", attribute.String("section.id", sectionID))
	defer span.End()

	sc, err := loadSectionContext(ctx, s.Repo, sectionID)
	if err != nil {
		return nil, err
	}
	if err := authorizeCourse(ctx, s.Auth, caller, sc.Course, ActionView); err != nil {
		return nil, err
	}

	loc := s.Locales.Resolve(requestedLocale)
	eff, err := s.effectiveSection(ctx, sc.Section, loc)
	if err != nil {
		tracing.Fail(span, err)
		return nil, err
	}

	s.Progress.recordSectionVisit(ctx, caller.UserID, sc, loc)

	view := &SectionView{
		ID:       eff.ID,
		CourseID: sc.Course.ID,
		ModuleID: eff.ModuleID,
		Name:     eff.Name,
		Icon:     eff.Icon,
		Order:    eff.Order,
		Type:     eff.Type,
		Locale:   s.localeCode(loc),
	}
	if eff.Type == model.SectionConcept {
		view.JSONContent = eff.JSONContent
		view.HTMLContent = eff.HTMLContent
		view.TextContent = eff.TextContent
	} else {
		view.BlockPayload = eff.BlockPayload
	}

	view.UserProgress, err = s.Sections.Find(ctx, caller.UserID, sc.Section.ID, loc)
	if err != nil {
		return nil, util.StoreError(err)
	}
	view.Completed, err = s.Progress.Progress.IsCompleted(ctx, caller.UserID, sc.Course.ID, sc.Section.ID)
	if err != nil {
		return nil, util.StoreError(err)
	}
	return view, nil
}

// ResolveCourse 课程、有序模块和章节列表，以及调用方的进度
func (s *ContentService) ResolveCourse(ctx context.Context, caller Caller, courseID, requestedLocale string) (*CourseView, error) {
	ctx, span := tracing.Start(ctx, "ContentService.ResolveCourse", attribute.String("course.id", courseID))
	defer span.End()

	course, err := s.Repo.FindCourse(ctx, courseID)
	if err != nil {
		return nil, util.StoreError(err)
	}
	if err := authorizeCourse(ctx, s.Auth, caller, course, ActionView); err != nil {
		return nil, err
	}

	loc := s.Locales.Resolve(requestedLocale)
	tr, err := s.Repo.FindCourseTranslation(ctx, course.ID, loc)
	if err != nil {
		return nil, util.StoreError(err)
	}
	eff := locale.Overlay(*course, tr, courseFields...)

	modules, err := s.Repo.ListModules(ctx, course.ID)
	if err != nil {
		return nil, util.StoreError(err)
	}
	moduleIDs := make([]string, len(modules))
	for i, m := range modules {
		moduleIDs[i] = m.ID
	}
	moduleTr, err := s.Repo.FindModuleTranslations(ctx, moduleIDs, loc)
	if err != nil {
		return nil, util.StoreError(err)
	}
	sections, err := s.Repo.ListSections(ctx, moduleIDs...)
	if err != nil {
		return nil, util.StoreError(err)
	}
	sectionIDs := make([]string, len(sections))
	for i, sec := range sections {
		sectionIDs[i] = sec.ID
	}
	sectionTr, err := s.Repo.FindSectionTranslations(ctx, sectionIDs, loc)
	if err != nil {
		return nil, util.StoreError(err)
	}

	progress, err := s.Progress.snapshot(ctx, caller.UserID, course.ID)
	if err != nil {
		tracing.Fail(span, err)
		return nil, err
	}
	done := make(map[string]bool, len(progress.CompletedSections))
	for _, id := range progress.CompletedSections {
		done[id] = true
	}

	byModule := make(map[string][]SectionSummary, len(modules))
	for _, sec := range sections {
		named := locale.Overlay(sec, sectionTr[sec.ID], sectionNameField)
		byModule[sec.ModuleID] = append(byModule[sec.ModuleID], SectionSummary{
			ID:        sec.ID,
			Name:      named.Name,
			Icon:      sec.Icon,
			Order:     sec.Order,
			Type:      sec.Type,
			Completed: done[sec.ID],
		})
	}

	view := &CourseView{
		ID:            eff.ID,
		GroupID:       eff.GroupID,
		Name:          eff.Name,
		Description:   eff.Description,
		Thumbnail:     eff.Thumbnail,
		Privacy:       eff.Privacy,
		Published:     eff.Published,
		Level:         eff.Level,
		LearnOutcomes: eff.LearnOutcomes,
		FAQ:           eff.FAQ,
		Locale:        s.localeCode(loc),
		Modules:       make([]ModuleView, 0, len(modules)),
		Progress:      progress,
	}
	for _, m := range modules {
		titled := locale.Overlay(m, moduleTr[m.ID], moduleFields...)
		secs := byModule[m.ID]
		if secs == nil {
			secs = []SectionSummary{}
		}
		view.Modules = append(view.Modules, ModuleView{
			ID:       m.ID,
			Title:    titled.Title,
			Order:    m.Order,
			Sections: secs,
		})
	}
	return view, nil
}

// ResolveGroup 群组及其已发布的课程
func (s *ContentService) ResolveGroup(ctx context.Context, caller Caller, groupID, requestedLocale string) (*GroupView, error) {
	group, err := s.Repo.FindGroup(ctx, groupID)
	if err != nil {
		return nil, util.StoreError(err)
	}
	if err := authorize(ctx, s.Auth, caller, group.ID, ActionView); err != nil {
		return nil, err
	}

	loc := s.Locales.Resolve(requestedLocale)
	tr, err := s.Repo.FindGroupTranslation(ctx, group.ID, loc)
	if err != nil {
		return nil, util.StoreError(err)
	}
	eff := locale.Overlay(*group, tr, groupFields...)

	courses, err := s.Repo.ListPublishedCourses(ctx, group.ID)
	if err != nil {
		return nil, util.StoreError(err)
	}
	ids := make([]string, len(courses))
	for i, c := range courses {
		ids[i] = c.ID
	}
	courseTr, err := s.Repo.FindCourseTranslations(ctx, ids, loc)
	if err != nil {
		return nil, util.StoreError(err)
	}

	view := &GroupView{
		ID:          eff.ID,
		Name:        eff.Name,
		Description: eff.Description,
		OwnerID:     eff.OwnerID,
		Locale:      s.localeCode(loc),
		Courses:     make([]CourseSummary, 0, len(courses)),
	}
	for _, c := range courses {
		ec := locale.Overlay(c, courseTr[c.ID], courseFields...)
		view.Courses = append(view.Courses, CourseSummary{
			ID:          ec.ID,
			Name:        ec.Name,
			Description: ec.Description,
			Thumbnail:   ec.Thumbnail,
			Level:       ec.Level,
			Privacy:     ec.Privacy,
		})
	}
	return view, nil
}

// ---- 群组 ----

func (s *ContentService) CreateGroup(ctx context.Context, caller Caller, in GroupInput) (*model.Group, error) {
	if !caller.Authenticated() {
		return nil, util.ErrUnauthorized
	}
	if caller.Role != RoleAdmin && caller.Role != RoleTeacher {
		return nil, util.ErrForbidden
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, util.Invalid("name", "is required")
	}

	group := &model.Group{
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		OwnerID:     caller.UserID,
	}
	if err := s.Repo.CreateGroup(ctx, group); err != nil {
		return nil, util.StoreError(err)
	}
	return group, nil
}

// translationLocales 校验批量翻译的语言键，返回规范化后的 locale -> 原始键
func (s *ContentService) translationLocales(keys []string) (map[string]string, error) {
	ve := &util.ValidationError{}
	out := make(map[string]string, len(keys))
	for _, key := range keys {
		loc, ok := s.Locales.ForWrite(key)
		switch {
		case !ok:
			ve.Add("translations."+key, "unsupported locale")
		case loc == "":
			ve.Add("translations."+key, "default locale is edited through the base fields")
		default:
			out[loc] = key
		}
	}
	if err := ve.OrNil(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, util.Invalid("translations", "at least one locale is required")
	}
	return out, nil
}

// SaveGroupTranslations 多语言翻译在一个事务内写入，任何一条失败都不落库
func (s *ContentService) SaveGroupTranslations(ctx context.Context, caller Caller, groupID string, translations map[string]GroupTranslationInput) error {
	group, err := s.Repo.FindGroup(ctx, groupID)
	if err != nil {
		return util.StoreError(err)
	}
	if err := authorize(ctx, s.Auth, caller, group.ID, ActionAuthor); err != nil {
		return err
	}
	locales, err := s.translationLocales(mapKeys(translations))
	if err != nil {
		return err
	}

	err = s.Repo.Transaction(ctx, func(repo *repository.ContentRepository) error {
		for loc, key := range locales {
			in := translations[key]
			tr := &model.GroupTranslation{
				GroupID:     group.ID,
				Locale:      loc,
				Name:        in.Name,
				Description: in.Description,
			}
			if err := repo.UpsertGroupTranslation(ctx, tr); err != nil {
				return err
			}
		}
		return nil
	})
	return util.StoreError(err)
}

// ---- 课程 ----

func (s *ContentService) CreateCourse(ctx context.Context, caller Caller, groupID string, in CourseInput) (*model.Course, error) {
	group, err := s.Repo.FindGroup(ctx, groupID)
	if err != nil {
		return nil, util.StoreError(err)
	}
	if err := authorize(ctx, s.Auth, caller, group.ID, ActionAuthor); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, util.Invalid("name", "is required")
	}
	privacy := in.Privacy
	if privacy == "" {
		privacy = model.PrivacyPublic
	}

	course := &model.Course{
		GroupID:       group.ID,
		Name:          name,
		Description:   in.Description,
		Privacy:       privacy,
		Published:     in.Published,
		Level:         in.Level,
		LearnOutcomes: in.LearnOutcomes,
		FAQ:           in.FAQ,
	}
	if err := s.Repo.CreateCourse(ctx, course); err != nil {
		return nil, util.StoreError(err)
	}
	return course, nil
}

// authorCourse 加载课程并校验编辑权限
func (s *ContentService) authorCourse(ctx context.Context, caller Caller, courseID string) (*model.Course, error) {
	course, err := s.Repo.FindCourse(ctx, courseID)
	if err != nil {
		return nil, util.StoreError(err)
	}
	if err := authorize(ctx, s.Auth, caller, course.GroupID, ActionAuthor); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *ContentService) UpdateCourse(ctx context.Context, caller Caller, courseID string, patch CoursePatch) (*model.Course, error) {
	course, err := s.authorCourse(ctx, caller, courseID)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, util.Invalid("name", "must not be empty")
		}
		course.Name = name
	}
	if patch.Description != nil {
		course.Description = *patch.Description
	}
	if patch.Privacy != nil {
		course.Privacy = *patch.Privacy
	}
	if patch.Published != nil {
		course.Published = *patch.Published
	}
	if patch.Level != nil {
		course.Level = *patch.Level
	}
	if patch.LearnOutcomes != nil {
		course.LearnOutcomes = patch.LearnOutcomes
	}
	if patch.FAQ != nil {
		course.FAQ = patch.FAQ
	}

	if err := s.Repo.UpdateCourse(ctx, course); err != nil {
		return nil, util.StoreError(err)
	}
	return course, nil
}

func (s *ContentService) DeleteCourse(ctx context.Context, caller Caller, courseID string) error {
	course, err := s.authorCourse(ctx, caller, courseID)
	if err != nil {
		return err
	}
	return util.StoreError(s.Repo.DeleteCourse(ctx, course.ID))
}

func (s *ContentService) SaveCourseTranslations(ctx context.Context, caller Caller, courseID string, translations map[string]CourseTranslationInput) error {
	course, err := s.authorCourse(ctx, caller, courseID)
	if err != nil {
		return err
	}
	locales, err := s.translationLocales(mapKeys(translations))
	if err != nil {
		return err
	}

	err = s.Repo.Transaction(ctx, func(repo *repository.ContentRepository) error {
		for loc, key := range locales {
			in := translations[key]
			tr := &model.CourseTranslation{
				CourseID:      course.ID,
				Locale:        loc,
				Name:          in.Name,
				Description:   in.Description,
				LearnOutcomes: in.LearnOutcomes,
				FAQ:           in.FAQ,
			}
			if err := repo.UpsertCourseTranslation(ctx, tr); err != nil {
				return err
			}
		}
		return nil
	})
	return util.StoreError(err)
}

// UploadCourseThumbnail 校验图片类型和大小后交给存储，记录返回的地址
func (s *ContentService) UploadCourseThumbnail(ctx context.Context, caller Caller, courseID, filename string, file io.ReadSeeker, size int64) (string, error) {
	course, err := s.authorCourse(ctx, caller, courseID)
	if err != nil {
		return "", err
	}
	if size <= 0 || size > util.MaxThumbnailBytes {
		return "", util.Invalid("file", "must be between 1 byte and %d bytes", util.MaxThumbnailBytes)
	}
	if !util.HasAllowedExtension(filename, util.AllowedImageExtensions) {
		return "", util.Invalid("file", "extension must be one of %s", strings.Join(util.AllowedImageExtensions, ", "))
	}
	mimeType, err := util.ValidateMimeType(file, []string{util.MimeImage})
	if err != nil {
		return "", util.Invalid("file", "%s", err.Error())
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	key := fmt.Sprintf("thumbnails/%s/%s%s", course.ID, model.GenerateUUID(), strings.ToLower(filepath.Ext(filename)))
	url, err := s.Storage.Upload(ctx, key, file, size, mimeType)
	if err != nil {
		logger.Log.Error("thumbnail upload failed", zap.String("courseId", course.ID), zap.Error(err))
		return "", fmt.Errorf("%w: %v", util.ErrStorageUnavailable, err)
	}
	if err := s.Repo.UpdateCourseThumbnail(ctx, course.ID, url); err != nil {
		return "", util.StoreError(err)
	}
	return url, nil
}

// ---- 模块 ----

func (s *ContentService) CreateModule(ctx context.Context, caller Caller, courseID, title string) (*model.CourseModule, error) {
	course, err := s.authorCourse(ctx, caller, courseID)
	if err != nil {
		return nil, err
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, util.Invalid("title", "is required")
	}

	order, err := s.Repo.NextModuleOrder(ctx, course.ID)
	if err != nil {
		return nil, util.StoreError(err)
	}
	m := &model.CourseModule{CourseID: course.ID, Title: title, Order: order}
	if err := s.Repo.CreateModule(ctx, m); err != nil {
		return nil, util.StoreError(err)
	}
	return m, nil
}

// authorModule 加载模块及其课程并校验编辑权限
func (s *ContentService) authorModule(ctx context.Context, caller Caller, moduleID string) (*model.CourseModule, error) {
	m, err := s.Repo.FindModule(ctx, moduleID)
	if err != nil {
		return nil, util.StoreError(err)
	}
	if _, err := s.authorCourse(ctx, caller, m.CourseID); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *ContentService) UpdateModule(ctx context.Context, caller Caller, moduleID string, patch ModulePatch) error {
	m, err := s.authorModule(ctx, caller, moduleID)
	if err != nil {
		return err
	}
	loc, err := s.writeLocale(patch.Locale)
	if err != nil {
		return err
	}
	if patch.Title == nil {
		return nil
	}
	title := strings.TrimSpace(*patch.Title)
	if title == "" {
		return util.Invalid("title", "must not be empty")
	}

	if loc == "" {
		return util.StoreError(s.Repo.UpdateModuleTitle(ctx, m.ID, title))
	}
	tr := &model.ModuleTranslation{ModuleID: m.ID, Locale: loc, Title: &title}
	return util.StoreError(s.Repo.UpsertModuleTranslation(ctx, tr))
}

// DeleteModule 软删除模块及其章节，课程进度在下次读取时按存活章节重算
func (s *ContentService) DeleteModule(ctx context.Context, caller Caller, moduleID string) error {
	m, err := s.authorModule(ctx, caller, moduleID)
	if err != nil {
		return err
	}
	err = s.Repo.Transaction(ctx, func(repo *repository.ContentRepository) error {
		return repo.DeleteModule(ctx, m.ID)
	})
	return util.StoreError(err)
}

func (s *ContentService) ReorderModules(ctx context.Context, caller Caller, courseID string, ids []string) error {
	course, err := s.authorCourse(ctx, caller, courseID)
	if err != nil {
		return err
	}
	modules, err := s.Repo.ListModules(ctx, course.ID)
	if err != nil {
		return util.StoreError(err)
	}
	current := make([]string, len(modules))
	for i, m := range modules {
		current[i] = m.ID
	}
	if err := checkPermutation(current, ids); err != nil {
		return err
	}

	err = s.Repo.Transaction(ctx, func(repo *repository.ContentRepository) error {
		for i, id := range ids {
			if err := repo.UpdateModuleOrder(ctx, id, i); err != nil {
				return err
			}
		}
		return nil
	})
	return util.StoreError(err)
}

// ---- 章节 ----

func (s *ContentService) CreateSection(ctx context.Context, caller Caller, moduleID string, in SectionInput) (*model.Section, error) {
	m, err := s.authorModule(ctx, caller, moduleID)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	ve := &util.ValidationError{}
	if name == "" {
		ve.Add("name", "is required")
	}
	if !in.Type.Valid() {
		ve.Add("type", fmt.Sprintf("unknown section type %q", in.Type))
	}
	if err := ve.OrNil(); err != nil {
		return nil, err
	}

	order, err := s.Repo.NextSectionOrder(ctx, m.ID)
	if err != nil {
		return nil, util.StoreError(err)
	}
	sec := &model.Section{
		ModuleID: m.ID,
		Name:     name,
		Icon:     strings.TrimSpace(in.Icon),
		Order:    order,
		Type:     in.Type,
	}
	if err := s.Repo.CreateSection(ctx, sec); err != nil {
		return nil, util.StoreError(err)
	}
	return sec, nil
}

// authorSection 加载章节上下文并校验编辑权限
func (s *ContentService) authorSection(ctx context.Context, caller Caller, sectionID string) (*SectionContext, error) {
	sc, err := loadSectionContext(ctx, s.Repo, sectionID)
	if err != nil {
		return nil, err
	}
	if err := authorize(ctx, s.Auth, caller, sc.Course.GroupID, ActionAuthor); err != nil {
		return nil, err
	}
	return sc, nil
}

func (s *ContentService) UpdateSection(ctx context.Context, caller Caller, sectionID string, patch SectionPatch) error {
	sc, err := s.authorSection(ctx, caller, sectionID)
	if err != nil {
		return err
	}
	loc, err := s.writeLocale(patch.Locale)
	if err != nil {
		return err
	}

	var name *string
	if patch.Name != nil {
		n := strings.TrimSpace(*patch.Name)
		if n == "" {
			return util.Invalid("name", "must not be empty")
		}
		name = &n
	}

	base := map[string]interface{}{}
	if patch.Icon != nil {
		base["icon"] = strings.TrimSpace(*patch.Icon)
	}
	if name != nil && loc == "" {
		base["name"] = *name
	}

	return util.StoreError(s.Repo.Transaction(ctx, func(repo *repository.ContentRepository) error {
		if err := repo.UpdateSectionColumns(ctx, sc.Section.ID, base); err != nil {
			return err
		}
		if name == nil || loc == "" {
			return nil
		}
		tr := &model.SectionTranslation{SectionID: sc.Section.ID, Locale: loc, Name: name}
		return repo.UpsertSectionTranslation(ctx, tr, []string{"name"})
	}))
}

func (s *ContentService) DeleteSection(ctx context.Context, caller Caller, sectionID string) error {
	sc, err := s.authorSection(ctx, caller, sectionID)
	if err != nil {
		return err
	}
	return util.StoreError(s.Repo.DeleteSection(ctx, sc.Section.ID))
}

func (s *ContentService) ReorderSections(ctx context.Context, caller Caller, moduleID string, ids []string) error {
	m, err := s.authorModule(ctx, caller, moduleID)
	if err != nil {
		return err
	}
	sections, err := s.Repo.ListSections(ctx, m.ID)
	if err != nil {
		return util.StoreError(err)
	}
	current := make([]string, len(sections))
	for i, sec := range sections {
		current[i] = sec.ID
	}
	if err := checkPermutation(current, ids); err != nil {
		return err
	}

	err = s.Repo.Transaction(ctx, func(repo *repository.ContentRepository) error {
		for i, id := range ids {
			if err := repo.UpdateSectionOrder(ctx, id, i); err != nil {
				return err
			}
		}
		return nil
	})
	return util.StoreError(err)
}

// SaveConceptContent 写入 concept 章节正文，默认语言写基础字段，其他语言写翻译
func (s *ContentService) SaveConceptContent(ctx context.Context, caller Caller, sectionID string, in ConceptContentInput) error {
	sc, err := s.authorSection(ctx, caller, sectionID)
	if err != nil {
		return err
	}
	if sc.Section.Type != model.SectionConcept {
		return util.Invalid("type", "section is %s, rich content is only stored on concept sections", sc.Section.Type)
	}
	loc, err := s.writeLocale(in.Locale)
	if err != nil {
		return err
	}
	if !in.JSONContent.IsNull() && !json.Valid(in.JSONContent) {
		return util.Invalid("jsonContent", "must be valid JSON")
	}

	if loc == "" {
		cols := map[string]interface{}{}
		if !in.JSONContent.IsNull() {
			cols["json_content"] = in.JSONContent
		}
		if in.HTMLContent != nil {
			cols["html_content"] = *in.HTMLContent
		}
		if in.TextContent != nil {
			cols["text_content"] = *in.TextContent
		}
		return util.StoreError(s.Repo.UpdateSectionColumns(ctx, sc.Section.ID, cols))
	}

	tr := &model.SectionTranslation{SectionID: sc.Section.ID, Locale: loc}
	var cols []string
	if !in.JSONContent.IsNull() {
		tr.JSONContent = in.JSONContent
		cols = append(cols, "json_content")
	}
	if in.HTMLContent != nil {
		tr.HTMLContent = in.HTMLContent
		cols = append(cols, "html_content")
	}
	if in.TextContent != nil {
		tr.TextContent = in.TextContent
		cols = append(cols, "text_content")
	}
	if len(cols) == 0 {
		return nil
	}
	return util.StoreError(s.Repo.UpsertSectionTranslation(ctx, tr, cols))
}

// ValidateAndSaveTypedPayload 校验载荷后写入；校验失败时什么都不写
func (s *ContentService) ValidateAndSaveTypedPayload(ctx context.Context, caller Caller, sectionID string, declared model.SectionType, raw []byte, requestedLocale string) (payload.Payload, error) {
	ctx, span := tracing.Start(ctx, "ContentService.ValidateAndSaveTypedPayload",
		attribute.String("section.id", sectionID),
		attribute.String("section.type", string(declared)))
	defer span.End()

	sc, err := s.authorSection(ctx, caller, sectionID)
	if err != nil {
		return nil, err
	}
	loc, err := s.writeLocale(requestedLocale)
	if err != nil {
		return nil, err
	}
	if !declared.HasBlockPayload() {
		monitoring.PayloadRejections.WithLabelValues(string(declared)).Inc()
		return nil, util.Invalid("type", "section type %q has no block payload", declared)
	}
	if declared != sc.Section.Type {
		monitoring.PayloadRejections.WithLabelValues(string(declared)).Inc()
		return nil, util.Invalid("type", "section is %s, payload declared as %s", sc.Section.Type, declared)
	}

	p, err := s.Payloads.Validate(declared, raw)
	if err != nil {
		monitoring.PayloadRejections.WithLabelValues(string(declared)).Inc()
		return nil, err
	}
	encoded, err := payload.Encode(p)
	if err != nil {
		return nil, err
	}

	if loc == "" {
		err = s.Repo.UpdateSectionColumns(ctx, sc.Section.ID, map[string]interface{}{"block_payload": encoded})
	} else {
		tr := &model.SectionTranslation{SectionID: sc.Section.ID, Locale: loc, BlockPayload: encoded}
		err = s.Repo.UpsertSectionTranslation(ctx, tr, []string{"block_payload"})
	}
	if err != nil {
		tracing.Fail(span, err)
		return nil, util.StoreError(err)
	}
	return p, nil
}

// checkPermutation ids 必须恰好是当前子项的一个排列
func checkPermutation(current, ids []string) error {
	if len(current) != len(ids) {
		return util.Invalid("ids", "expected %d ids, got %d", len(current), len(ids))
	}
	want := make(map[string]bool, len(current))
	for _, id := range current {
		want[id] = true
	}
	seen := make(map[string]bool, len(ids))
	for i, id := range ids {
		if !want[id] {
			return util.Invalid(fmt.Sprintf("ids[%d]", i), "unknown id %q", id)
		}
		if seen[id] {
			return util.Invalid(fmt.Sprintf("ids[%d]", i), "duplicate id %q", id)
		}
		seen[id] = true
	}
	return nil
}

func mapKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
