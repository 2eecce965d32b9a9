package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"coursehub_backend/internal/model"
	"coursehub_backend/internal/payload"
	"coursehub_backend/internal/repository"
	"coursehub_backend/internal/util"
	"coursehub_backend/pkg/monitoring"
	"coursehub_backend/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/datatypes"
)

type ReflectionResult struct {
	Saved        bool              `json:"saved"`
	CharCount    int               `json:"charCount"`
	ReflectionID string            `json:"reflectionId"`
	Progress     *ProgressSnapshot `json:"progress,omitempty"`
}

type ReflectionService struct {
	Content     *ContentService
	Reflections *repository.ReflectionRepository
	Sections    *repository.SectionProgressRepository
	Progress    *ProgressService
}

func NewReflectionService(
	content *ContentService,
	reflections *repository.ReflectionRepository,
	sections *repository.SectionProgressRepository,
	progress *ProgressService,
) *ReflectionService {
	return &ReflectionService{Content: content, Reflections: reflections, Sections: sections, Progress: progress}
}

// countChars 去掉首尾空白后的字符数（按 Unicode 码点）
func countChars(text string) int {
	return utf8.RuneCountInString(strings.TrimSpace(text))
}

// SaveReflection 达到最少字数后保存反思并把章节标记为完成
func (s *ReflectionService) SaveReflection(ctx context.Context, caller Caller, sectionID, requestedLocale, text string) (*ReflectionResult, error) {
	ctx, span := tracing.Start(ctx, "ReflectionService.SaveReflection", attribute.String("section.id", sectionID))
	defer span.End()

	sc, err := loadSectionContext(ctx, s.Content.Repo, sectionID)
	if err != nil {
		return nil, err
	}
	if err := authorizeCourse(ctx, s.Content.Auth, caller, sc.Course, ActionLearn); err != nil {
		return nil, err
	}
	if sc.Section.Type != model.SectionReflection {
		return nil, util.Invalid("type", "section is %s, not a reflection", sc.Section.Type)
	}

	loc := s.Content.Locales.Resolve(requestedLocale)
	eff, err := s.Content.effectiveSection(ctx, sc.Section, loc)
	if err != nil {
		return nil, err
	}
	prompt := &payload.Reflection{}
	if !eff.BlockPayload.IsNull() {
		if prompt, err = payload.DecodeReflection(eff.BlockPayload); err != nil {
			tracing.Fail(span, err)
			return nil, err
		}
	}
	minChars := prompt.MinChars
	if minChars <= 0 {
		minChars = s.Content.Payloads.DefaultMinChars()
	}

	text = strings.TrimSpace(text)
	chars := countChars(text)
	if chars < minChars {
		return nil, util.Invalid("text", "min %d characters required", minChars)
	}

	saved, err := s.Reflections.Upsert(ctx, &model.UserSectionReflection{
		UserID:           caller.UserID,
		SectionID:        sc.Section.ID,
		Locale:           loc,
		ResponseText:     text,
		CharCount:        chars,
		PromptSnapshot:   prompt.Prompt,
		GuidanceSnapshot: prompt.Guidance,
	})
	if err != nil {
		tracing.Fail(span, err)
		return nil, util.StoreError(err)
	}
	monitoring.ReflectionsSaved.Inc()

	summary := &model.LastReflectionSummary{
		ResponseText: text,
		CharCount:    chars,
		SavedAt:      saved.UpdatedAt,
	}
	_, err = s.Sections.Apply(ctx, caller.UserID, sc.Section.ID, loc, func(p *model.UserSectionProgress) {
		now := time.Now()
		p.LastReflectionID = &saved.ID
		p.LastVisited = &now
		p.Completed = true
		p.ProgressPct = 100
		p.Data = datatypes.NewJSONType(p.Data.Data().Merge(model.SectionProgressData{LastReflection: summary}))
	})
	if err != nil {
		return nil, util.StoreError(err)
	}

	snap, err := s.Progress.MarkSectionComplete(ctx, caller.UserID, sc.Course.ID, sc.Module.ID, sc.Section.ID)
	if err != nil {
		return nil, err
	}
	return &ReflectionResult{
		Saved:        true,
		CharCount:    chars,
		ReflectionID: saved.ID,
		Progress:     snap,
	}, nil
}

// GetReflection 调用方在该语言下保存的反思
func (s *ReflectionService) GetReflection(ctx context.Context, caller Caller, sectionID, requestedLocale string) (*model.UserSectionReflection, error) {
	sc, err := loadSectionContext(ctx, s.Content.Repo, sectionID)
	if err != nil {
		return nil, err
	}
	if err := authorizeCourse(ctx, s.Content.Auth, caller, sc.Course, ActionLearn); err != nil {
		return nil, err
	}
	ref, err := s.Reflections.Find(ctx, caller.UserID, sc.Section.ID, s.Content.Locales.Resolve(requestedLocale))
	if err != nil {
		return nil, util.StoreError(err)
	}
	if ref == nil {
		return nil, util.ErrNotFound
	}
	return ref, nil
}
