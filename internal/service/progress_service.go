package service

import (
	"context"
	"math"
	"time"

	"coursehub_backend/internal/model"
	"coursehub_backend/internal/repository"
	"coursehub_backend/internal/util"
	"coursehub_backend/pkg/logger"
	"coursehub_backend/pkg/monitoring"
	"coursehub_backend/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ProgressSnapshot 课程进度，总是按当前存活的章节重新计算
type ProgressSnapshot struct {
	CourseID          string   `json:"courseId"`
	Progress          int      `json:"progress"`
	CompletedCount    int      `json:"completedCount"`
	TotalCount        int      `json:"totalCount"`
	IsComplete        bool     `json:"isComplete"`
	LastModuleID      *string  `json:"lastModuleId"`
	LastSectionID     *string  `json:"lastSectionId"`
	CompletedSections []string `json:"completedSections"`
}

type ProgressService struct {
	Content      *repository.ContentRepository
	Progress     *repository.ProgressRepository
	Sections     *repository.SectionProgressRepository
	Auth         Authorizer
	VisitTimeout time.Duration
}

func NewProgressService(
	content *repository.ContentRepository,
	progress *repository.ProgressRepository,
	sections *repository.SectionProgressRepository,
	auth Authorizer,
	visitTimeout time.Duration,
) *ProgressService {
	return &ProgressService{
		Content:      content,
		Progress:     progress,
		Sections:     sections,
		Auth:         auth,
		VisitTimeout: visitTimeout,
	}
}

// computeProgress round(done/total*100)，没有章节时为 0
func computeProgress(done, total int64) int {
	if total <= 0 {
		return 0
	}
	if done > total {
		done = total
	}
	if done < 0 {
		done = 0
	}
	return int(math.Round(float64(done) / float64(total) * 100))
}

// RecordVisit 更新最近访问位置，不改变完成集合
func (s *ProgressService) RecordVisit(ctx context.Context, userID uint, courseID, moduleID, sectionID string) error {
	return util.StoreError(s.Progress.TouchLastVisited(ctx, userID, courseID, moduleID, sectionID))
}

// recordSectionVisit 读取章节时的附带写入：失败只记日志，且有超时上限
func (s *ProgressService) recordSectionVisit(ctx context.Context, userID uint, sc *SectionContext, locale string) {
	timeout := s.VisitTimeout
	if timeout <= 0 {
		timeout = 500 * time.Millisecond
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	err := s.RecordVisit(ctx, userID, sc.Course.ID, sc.Module.ID, sc.Section.ID)
	if err == nil {
		now := time.Now()
		_, err = s.Sections.Apply(ctx, userID, sc.Section.ID, locale, func(p *model.UserSectionProgress) {
			p.LastVisited = &now
		})
	}
	if err != nil {
		monitoring.VisitFailures.Inc()
		logger.Log.Warn("record visit failed",
			zap.Uint("userId", userID),
			zap.String("sectionId", sc.Section.ID),
			zap.Error(err))
	}
}

// MarkSectionComplete 把章节加入完成集合并重算课程进度，整个过程在一个事务内。
// 重复调用是幂等的。
func (s *ProgressService) MarkSectionComplete(ctx context.Context, userID uint, courseID, moduleID, sectionID string) (*ProgressSnapshot, error) {
	ctx, span := tracing.Start(ctx, "ProgressService.MarkSectionComplete",
		attribute.String("course.id", courseID),
		attribute.String("section.id", sectionID))
	defer span.End()

	var snap *ProgressSnapshot
	err := s.Progress.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.Progress.WithTx(tx)

		added, err := repo.AddCompletion(ctx, userID, courseID, moduleID, sectionID)
		if err != nil {
			return err
		}
		if added {
			monitoring.SectionCompletions.Inc()
		}

		total, err := repo.CountLiveSections(ctx, courseID)
		if err != nil {
			return err
		}
		done, err := repo.CountCompletedLive(ctx, userID, courseID)
		if err != nil {
			return err
		}

		pct := computeProgress(done, total)
		row := &model.UserCourseProgress{
			UserID:         userID,
			CourseID:       courseID,
			Progress:       pct,
			IsComplete:     pct >= 100,
			CompletedCount: int(done),
			LastModuleID:   &moduleID,
			LastSectionID:  &sectionID,
		}
		if err := repo.SaveCourseProgress(ctx, row); err != nil {
			return err
		}

		completed, err := repo.CompletedSectionIDs(ctx, userID, courseID)
		if err != nil {
			return err
		}
		snap = &ProgressSnapshot{
			CourseID:          courseID,
			Progress:          pct,
			CompletedCount:    int(done),
			TotalCount:        int(total),
			IsComplete:        pct >= 100,
			LastModuleID:      row.LastModuleID,
			LastSectionID:     row.LastSectionID,
			CompletedSections: completed,
		}
		return nil
	})
	if err != nil {
		tracing.Fail(span, err)
		return nil, util.StoreError(err)
	}
	return snap, nil
}

// CompleteSection 学习者手动标记章节完成，locale 为已解析的语言键
func (s *ProgressService) CompleteSection(ctx context.Context, caller Caller, sectionID, locale string) (*ProgressSnapshot, error) {
	sc, err := loadSectionContext(ctx, s.Content, sectionID)
	if err != nil {
		return nil, err
	}
	if err := authorizeCourse(ctx, s.Auth, caller, sc.Course, ActionLearn); err != nil {
		return nil, err
	}

	snap, err := s.MarkSectionComplete(ctx, caller.UserID, sc.Course.ID, sc.Module.ID, sc.Section.ID)
	if err != nil {
		return nil, err
	}
	if _, err := s.Sections.Apply(ctx, caller.UserID, sc.Section.ID, locale, func(p *model.UserSectionProgress) {
		p.Completed = true
		p.ProgressPct = 100
	}); err != nil {
		return nil, util.StoreError(err)
	}
	return snap, nil
}

// CurrentProgress 重新计算调用方在课程上的进度；缓存行不一致时顺便修正
func (s *ProgressService) CurrentProgress(ctx context.Context, caller Caller, courseID string) (*ProgressSnapshot, error) {
	course, err := s.Content.FindCourse(ctx, courseID)
	if err != nil {
		return nil, util.StoreError(err)
	}
	if err := authorizeCourse(ctx, s.Auth, caller, course, ActionView); err != nil {
		return nil, err
	}
	return s.snapshot(ctx, caller.UserID, course.ID)
}

func (s *ProgressService) snapshot(ctx context.Context, userID uint, courseID string) (*ProgressSnapshot, error) {
	total, err := s.Progress.CountLiveSections(ctx, courseID)
	if err != nil {
		return nil, util.StoreError(err)
	}
	done, err := s.Progress.CountCompletedLive(ctx, userID, courseID)
	if err != nil {
		return nil, util.StoreError(err)
	}
	completed, err := s.Progress.CompletedSectionIDs(ctx, userID, courseID)
	if err != nil {
		return nil, util.StoreError(err)
	}
	row, err := s.Progress.FindCourseProgress(ctx, userID, courseID)
	if err != nil {
		return nil, util.StoreError(err)
	}

	pct := computeProgress(done, total)
	snap := &ProgressSnapshot{
		CourseID:          courseID,
		Progress:          pct,
		CompletedCount:    int(done),
		TotalCount:        int(total),
		IsComplete:        pct >= 100,
		CompletedSections: completed,
	}
	if snap.CompletedSections == nil {
		snap.CompletedSections = []string{}
	}
	if row == nil {
		return snap, nil
	}

	snap.LastModuleID = row.LastModuleID
	snap.LastSectionID = row.LastSectionID
	if row.Progress != pct || row.CompletedCount != int(done) || row.IsComplete != snap.IsComplete {
		if err := s.Progress.RefreshCachedProgress(ctx, userID, courseID, pct, int(done), snap.IsComplete); err != nil {
			logger.Log.Warn("refresh cached progress failed",
				zap.Uint("userId", userID),
				zap.String("courseId", courseID),
				zap.Error(err))
		}
	}
	return snap, nil
}
