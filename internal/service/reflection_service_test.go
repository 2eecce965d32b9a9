package service

import (
	"errors"
	"strings"
	"testing"

	"coursehub_backend/internal/model"
	"coursehub_backend/internal/payload"
	"coursehub_backend/internal/testutil"
	"coursehub_backend/internal/util"

	"gorm.io/datatypes"
)

func seedReflection(t *testing.T, env *testEnv, minChars int) (*testutil.Course, *model.Section) {
	t.Helper()
	fx := testutil.SeedCourse(t, env.db, ownerID, 1, 1)
	sec := testutil.CreateSection(t, env.db, fx.Modules[0].ID, model.SectionReflection, 1, &payload.Reflection{
		Kind:     "journal",
		Prompt:   "What did you learn?",
		Guidance: "Be specific",
		MinChars: minChars,
	})
	return fx, sec
}

func TestCountChars(t *testing.T) {
	if n := countChars("  héllo  "); n != 5 {
		t.Fatalf("countChars = %d, want 5", n)
	}
	if n := countChars("学习笔记"); n != 4 {
		t.Fatalf("countChars = %d, want 4", n)
	}
}

func TestSaveReflectionMinChars(t *testing.T) {
	env := newTestEnv(t)
	_, sec := seedReflection(t, env, 30)

	_, err := env.reflection.SaveReflection(env.ctx, learner, sec.ID, "", strings.Repeat("a", 29))
	var ve *util.ValidationError
	if !errors.As(err, &ve) || ve.Issues[0].Field != "text" || ve.Issues[0].Message != "min 30 characters required" {
		t.Fatalf("expected min chars error, got %v", err)
	}

	_, err = env.reflection.SaveReflection(env.ctx, learner, sec.ID, "", "   "+strings.Repeat("a", 29)+"\n\n")
	if !errors.As(err, &ve) {
		t.Fatalf("padded text should still be rejected, got %v", err)
	}

	// 首尾空白不计入
	res, err := env.reflection.SaveReflection(env.ctx, learner, sec.ID, "", "  "+strings.Repeat("a", 30)+"\n")
	if err != nil {
		t.Fatalf("SaveReflection: %v", err)
	}
	if !res.Saved || res.CharCount != 30 {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.Progress == nil || res.Progress.Progress != 50 {
		t.Fatalf("progress = %+v, want 50", res.Progress)
	}
}

func TestSaveReflectionDefaultMinChars(t *testing.T) {
	env := newTestEnv(t)
	_, sec := seedReflection(t, env, 0)

	if _, err := env.reflection.SaveReflection(env.ctx, learner, sec.ID, "", strings.Repeat("b", 19)); !util.IsValidation(err) {
		t.Fatalf("expected validation error below default 20, got %v", err)
	}

	env.content.Payloads.SetDefaultMinChars(10)
	if _, err := env.reflection.SaveReflection(env.ctx, learner, sec.ID, "", strings.Repeat("b", 19)); err != nil {
		t.Fatalf("default lowered to 10: %v", err)
	}
}

func TestSaveReflectionUpserts(t *testing.T) {
	env := newTestEnv(t)
	_, sec := seedReflection(t, env, 5)

	first, err := env.reflection.SaveReflection(env.ctx, learner, sec.ID, "", "first answer")
	if err != nil {
		t.Fatalf("SaveReflection: %v", err)
	}
	second, err := env.reflection.SaveReflection(env.ctx, learner, sec.ID, "", "second answer")
	if err != nil {
		t.Fatalf("SaveReflection: %v", err)
	}
	if first.ReflectionID != second.ReflectionID {
		t.Fatalf("reflection id changed: %s -> %s", first.ReflectionID, second.ReflectionID)
	}

	got, err := env.reflection.GetReflection(env.ctx, learner, sec.ID, "")
	if err != nil {
		t.Fatalf("GetReflection: %v", err)
	}
	if got.ResponseText != "second answer" || got.PromptSnapshot != "What did you learn?" {
		t.Fatalf("unexpected reflection %+v", got)
	}

	var n int64
	env.db.Model(&model.UserSectionReflection{}).Count(&n)
	if n != 1 {
		t.Fatalf("reflection rows = %d, want 1", n)
	}
}

func TestSaveReflectionKeepsLastAttempt(t *testing.T) {
	env := newTestEnv(t)
	_, sec := seedReflection(t, env, 5)

	// 先写入一个测验摘要，保存反思后它应该还在
	seedAttempt(t, env, sec.ID)

	if _, err := env.reflection.SaveReflection(env.ctx, learner, sec.ID, "", "reflection text"); err != nil {
		t.Fatalf("SaveReflection: %v", err)
	}

	p := env.sectionProgress(t, learnerID, sec.ID, "")
	data := p.Data.Data()
	if data.LastAttempt == nil || data.LastAttempt.AttemptNo != 7 {
		t.Fatalf("lastAttempt lost: %+v", data.LastAttempt)
	}
	if data.LastReflection == nil || data.LastReflection.CharCount != len("reflection text") {
		t.Fatalf("lastReflection = %+v", data.LastReflection)
	}
	if !p.Completed || p.LastReflectionID == nil {
		t.Fatalf("tracker = %+v", p)
	}
}

func seedAttempt(t *testing.T, env *testEnv, sectionID string) {
	t.Helper()
	_, err := env.content.Sections.Apply(env.ctx, learnerID, sectionID, "", func(p *model.UserSectionProgress) {
		p.Data = datatypes.NewJSONType(p.Data.Data().Merge(model.SectionProgressData{
			LastAttempt: &model.LastAttemptSummary{AttemptNo: 7, CorrectCount: 1, Total: 2},
		}))
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
}

func TestGetReflectionNotFound(t *testing.T) {
	env := newTestEnv(t)
	_, sec := seedReflection(t, env, 5)

	if _, err := env.reflection.GetReflection(env.ctx, learner, sec.ID, ""); !errors.Is(err, util.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSaveReflectionWrongType(t *testing.T) {
	env := newTestEnv(t)
	fx := testutil.SeedCourse(t, env.db, ownerID, 1, 1)

	_, err := env.reflection.SaveReflection(env.ctx, learner, fx.Sections[0].ID, "", "some long enough reflection text")
	if !util.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
