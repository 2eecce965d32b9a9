package service

import (
	"context"
	"errors"
	"math"
	"strconv"
	"time"

	"coursehub_backend/internal/model"
	"coursehub_backend/internal/payload"
	"coursehub_backend/internal/repository"
	"coursehub_backend/internal/util"
	"coursehub_backend/pkg/logger"
	"coursehub_backend/pkg/monitoring"
	"coursehub_backend/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// 并发提交导致 attemptNo 冲突时的重试次数
const maxAttemptNoRetries = 3

type QuizResult struct {
	AttemptID string            `json:"attemptId"`
	AttemptNo int               `json:"attemptNo"`
	Correct   int               `json:"correct"`
	Total     int               `json:"total"`
	ScorePct  float64           `json:"scorePct"`
	Passed    bool              `json:"passed"`
	Progress  *ProgressSnapshot `json:"progress,omitempty"`
}

type QuizService struct {
	Content  *ContentService
	Attempts *repository.QuizAttemptRepository
	Sections *repository.SectionProgressRepository
	Progress *ProgressService
}

func NewQuizService(
	content *ContentService,
	attempts *repository.QuizAttemptRepository,
	sections *repository.SectionProgressRepository,
	progress *ProgressService,
) *QuizService {
	return &QuizService{Content: content, Attempts: attempts, Sections: sections, Progress: progress}
}

// grade 越界或负数的选项按答错处理
func grade(q *payload.Quiz, answers []int) (correct int) {
	for i, item := range q.Items {
		idx := answers[i]
		if idx < 0 || idx >= len(item.Choices) {
			continue
		}
		if item.Choices[idx].Correct {
			correct++
		}
	}
	return correct
}

// SubmitAttempt 用服务端保存的题库评分；请求里不接受题目或答案
func (s *QuizService) SubmitAttempt(ctx context.Context, caller Caller, sectionID, requestedLocale string, answers []int) (*QuizResult, error) {
	ctx, span := tracing.Start(ctx, "QuizService.SubmitAttempt", attribute.String("section.id", sectionID))
	defer span.End()

	sc, err := loadSectionContext(ctx, s.Content.Repo, sectionID)
	if err != nil {
		return nil, err
	}
	if err := authorizeCourse(ctx, s.Content.Auth, caller, sc.Course, ActionLearn); err != nil {
		return nil, err
	}
	if sc.Section.Type != model.SectionQuiz {
		return nil, util.Invalid("type", "section is %s, not a quiz", sc.Section.Type)
	}

	loc := s.Content.Locales.Resolve(requestedLocale)
	eff, err := s.Content.effectiveSection(ctx, sc.Section, loc)
	if err != nil {
		return nil, err
	}
	if eff.BlockPayload.IsNull() {
		return nil, util.Invalid("payload", "quiz has no questions yet")
	}
	quiz, err := payload.DecodeQuiz(eff.BlockPayload)
	if err != nil {
		tracing.Fail(span, err)
		return nil, err
	}
	total := len(quiz.Items)
	if total == 0 {
		return nil, util.Invalid("payload", "quiz has no questions yet")
	}
	if len(answers) != total {
		return nil, util.Invalid("answers", "expected %d answers, got %d", total, len(answers))
	}

	correct := grade(quiz, answers)
	scorePct := math.Round(float64(correct)/float64(total)*100*100) / 100
	passed := correct*100 >= quiz.Threshold()*total

	snapshot, err := payload.Encode(quiz)
	if err != nil {
		return nil, err
	}
	attempt, err := s.createAttempt(ctx, &model.UserSectionQuizAttempt{
		UserID:          caller.UserID,
		SectionID:       sc.Section.ID,
		Locale:          loc,
		SelectedIndexes: datatypes.JSONSlice[int](answers),
		CorrectCount:    correct,
		TotalQuestions:  total,
		ScorePct:        scorePct,
		Passed:          passed,
		Snapshot:        datatypes.JSON(snapshot),
	})
	if err != nil {
		tracing.Fail(span, err)
		return nil, err
	}
	monitoring.QuizAttempts.WithLabelValues(strconv.FormatBool(passed)).Inc()

	summary := &model.LastAttemptSummary{
		AttemptNo:       attempt.AttemptNo,
		SelectedIndexes: answers,
		CorrectCount:    correct,
		Total:           total,
		ScorePct:        scorePct,
		Passed:          passed,
		SubmittedAt:     attempt.CreatedAt,
	}
	_, err = s.Sections.Apply(ctx, caller.UserID, sc.Section.ID, loc, func(p *model.UserSectionProgress) {
		now := time.Now()
		p.LastScorePct = &scorePct
		// passed 反映最近一次作答，completed 一旦置位不再回退
		p.Passed = passed
		p.LastQuizAttemptID = &attempt.ID
		p.LastVisited = &now
		p.Data = datatypes.NewJSONType(p.Data.Data().Merge(model.SectionProgressData{LastAttempt: summary}))
		if passed {
			p.Completed = true
			p.ProgressPct = 100
		}
	})
	if err != nil {
		return nil, util.StoreError(err)
	}

	result := &QuizResult{
		AttemptID: attempt.ID,
		AttemptNo: attempt.AttemptNo,
		Correct:   correct,
		Total:     total,
		ScorePct:  scorePct,
		Passed:    passed,
	}
	if passed {
		result.Progress, err = s.Progress.MarkSectionComplete(ctx, caller.UserID, sc.Course.ID, sc.Module.ID, sc.Section.ID)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

// createAttempt attemptNo = 已有提交数 + 1，唯一索引冲突时重新计数
func (s *QuizService) createAttempt(ctx context.Context, a *model.UserSectionQuizAttempt) (*model.UserSectionQuizAttempt, error) {
	for try := 0; ; try++ {
		n, err := s.Attempts.CountByUserSection(ctx, a.UserID, a.SectionID)
		if err != nil {
			return nil, util.StoreError(err)
		}
		a.ID = ""
		a.AttemptNo = int(n) + 1

		err = s.Attempts.Create(ctx, a)
		if err == nil {
			return a, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) || try+1 >= maxAttemptNoRetries {
			return nil, util.StoreError(err)
		}
		logger.Log.Debug("attempt number taken, retrying",
			zap.Uint("userId", a.UserID),
			zap.String("sectionId", a.SectionID),
			zap.Int("attemptNo", a.AttemptNo))
	}
}

// ListAttempts 调用方在章节上的全部提交，最新的在前
func (s *QuizService) ListAttempts(ctx context.Context, caller Caller, sectionID string) ([]model.UserSectionQuizAttempt, error) {
	sc, err := loadSectionContext(ctx, s.Content.Repo, sectionID)
	if err != nil {
		return nil, err
	}
	if err := authorizeCourse(ctx, s.Content.Auth, caller, sc.Course, ActionLearn); err != nil {
		return nil, err
	}
	attempts, err := s.Attempts.ListByUserSection(ctx, caller.UserID, sc.Section.ID)
	if err != nil {
		return nil, util.StoreError(err)
	}
	if attempts == nil {
		attempts = []model.UserSectionQuizAttempt{}
	}
	return attempts, nil
}
