package service

import (
	"context"
	"testing"
	"time"

	"coursehub_backend/internal/locale"
	"coursehub_backend/internal/model"
	"coursehub_backend/internal/payload"
	"coursehub_backend/internal/repository"
	"coursehub_backend/internal/testutil"

	"gorm.io/gorm"
)

const (
	ownerID   uint = 1
	learnerID uint = 2
)

var (
	owner   = Caller{UserID: ownerID, Role: RoleTeacher}
	learner = Caller{UserID: learnerID, Role: RoleStudent}
)

type testEnv struct {
	db         *gorm.DB
	ctx        context.Context
	content    *ContentService
	progress   *ProgressService
	quiz       *QuizService
	reflection *ReflectionService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.NewDB(t)

	contentRepo := repository.NewContentRepository(db)
	progressRepo := repository.NewProgressRepository(db)
	sectionRepo := repository.NewSectionProgressRepository(db)
	auth := NewGroupRoleAuthorizer(contentRepo)

	progress := NewProgressService(contentRepo, progressRepo, sectionRepo, auth, time.Second)
	content := NewContentService(
		contentRepo,
		locale.NewResolver("en", []string{"es"}),
		payload.NewValidator(20),
		auth,
		progress,
		sectionRepo,
		&LocalStorageProvider{},
	)

	return &testEnv{
		db:         db,
		ctx:        context.Background(),
		content:    content,
		progress:   progress,
		quiz:       NewQuizService(content, repository.NewQuizAttemptRepository(db), sectionRepo, progress),
		reflection: NewReflectionService(content, repository.NewReflectionRepository(db), sectionRepo, progress),
	}
}

// quizPayload n 道题，每道题的第 0 个选项正确
func quizPayload(n int, threshold *int) *payload.Quiz {
	q := &payload.Quiz{Kind: "knowledge_check", PassThreshold: threshold}
	for i := 0; i < n; i++ {
		q.Items = append(q.Items, payload.QuizItem{
			Question:   "question",
			Difficulty: "medium",
			Choices: []payload.QuizChoice{
				{Text: "right", Correct: true},
				{Text: "wrong"},
			},
		})
	}
	return q
}

func (e *testEnv) sectionProgress(t *testing.T, userID uint, sectionID, loc string) *model.UserSectionProgress {
	t.Helper()
	p, err := repository.NewSectionProgressRepository(e.db).Find(e.ctx, userID, sectionID, loc)
	if err != nil {
		t.Fatalf("find section progress: %v", err)
	}
	if p == nil {
		t.Fatalf("no section progress for %s/%q", sectionID, loc)
	}
	return p
}

func intPtr(v int) *int { return &v }

func strPtr(s string) *string { return &s }
