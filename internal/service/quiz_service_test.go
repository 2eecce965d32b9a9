package service

import (
	"errors"
	"testing"

	"coursehub_backend/internal/model"
	"coursehub_backend/internal/payload"
	"coursehub_backend/internal/testutil"
	"coursehub_backend/internal/util"
)

// seedQuiz 一个 concept 章节加一个 quiz 章节
func seedQuiz(t *testing.T, env *testEnv, q *payload.Quiz) (*testutil.Course, *model.Section) {
	t.Helper()
	fx := testutil.SeedCourse(t, env.db, ownerID, 1, 1)
	sec := testutil.CreateSection(t, env.db, fx.Modules[0].ID, model.SectionQuiz, 1, q)
	return fx, sec
}

func TestGrade(t *testing.T) {
	q := quizPayload(4, nil)
	cases := []struct {
		name    string
		answers []int
		want    int
	}{
		{"all right", []int{0, 0, 0, 0}, 4},
		{"one wrong", []int{0, 0, 0, 1}, 3},
		{"out of range", []int{0, 0, 0, 7}, 3},
		{"negative", []int{-1, 0, 0, 0}, 3},
	}
	for _, c := range cases {
		if got := grade(q, c.answers); got != c.want {
			t.Errorf("%s: grade = %d, want %d", c.name, got, c.want)
		}
	}
}

func TestSubmitAttemptPassesAndCompletes(t *testing.T) {
	env := newTestEnv(t)
	fx, sec := seedQuiz(t, env, quizPayload(4, nil))

	res, err := env.quiz.SubmitAttempt(env.ctx, learner, sec.ID, "", []int{0, 0, 0, 1})
	if err != nil {
		t.Fatalf("SubmitAttempt: %v", err)
	}
	if res.Correct != 3 || res.Total != 4 || res.ScorePct != 75 || !res.Passed {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.AttemptNo != 1 {
		t.Fatalf("attemptNo = %d", res.AttemptNo)
	}
	if res.Progress == nil || res.Progress.Progress != 50 {
		t.Fatalf("progress = %+v, want 50", res.Progress)
	}

	p := env.sectionProgress(t, learnerID, sec.ID, "")
	if !p.Completed || !p.Passed || p.LastScorePct == nil || *p.LastScorePct != 75 {
		t.Fatalf("tracker = %+v", p)
	}
	last := p.Data.Data().LastAttempt
	if last == nil || last.AttemptNo != 1 || last.CorrectCount != 3 {
		t.Fatalf("lastAttempt = %+v", last)
	}

	snap, err := env.progress.CurrentProgress(env.ctx, learner, fx.Course.ID)
	if err != nil {
		t.Fatalf("CurrentProgress: %v", err)
	}
	if len(snap.CompletedSections) != 1 || snap.CompletedSections[0] != sec.ID {
		t.Fatalf("completed = %v", snap.CompletedSections)
	}
}

func TestSubmitAttemptFailDoesNotComplete(t *testing.T) {
	env := newTestEnv(t)
	fx, sec := seedQuiz(t, env, quizPayload(4, nil))

	res, err := env.quiz.SubmitAttempt(env.ctx, learner, sec.ID, "", []int{0, 0, 1, 1})
	if err != nil {
		t.Fatalf("SubmitAttempt: %v", err)
	}
	if res.Passed || res.ScorePct != 50 || res.Progress != nil {
		t.Fatalf("unexpected result %+v", res)
	}

	snap, err := env.progress.CurrentProgress(env.ctx, learner, fx.Course.ID)
	if err != nil {
		t.Fatalf("CurrentProgress: %v", err)
	}
	if snap.CompletedCount != 0 {
		t.Fatalf("failed attempt completed the section: %+v", snap)
	}
}

func TestSubmitAttemptNumbering(t *testing.T) {
	env := newTestEnv(t)
	_, sec := seedQuiz(t, env, quizPayload(2, nil))

	for want := 1; want <= 2; want++ {
		res, err := env.quiz.SubmitAttempt(env.ctx, learner, sec.ID, "", []int{1, 1})
		if err != nil {
			t.Fatalf("SubmitAttempt: %v", err)
		}
		if res.AttemptNo != want {
			t.Fatalf("attemptNo = %d, want %d", res.AttemptNo, want)
		}
	}

	// 其他用户从 1 开始编号
	other := Caller{UserID: 3, Role: RoleStudent}
	res, err := env.quiz.SubmitAttempt(env.ctx, other, sec.ID, "", []int{1, 1})
	if err != nil {
		t.Fatalf("SubmitAttempt: %v", err)
	}
	if res.AttemptNo != 1 {
		t.Fatalf("other user attemptNo = %d", res.AttemptNo)
	}

	attempts, err := env.quiz.ListAttempts(env.ctx, learner, sec.ID)
	if err != nil {
		t.Fatalf("ListAttempts: %v", err)
	}
	if len(attempts) != 2 || attempts[0].AttemptNo != 2 || attempts[1].AttemptNo != 1 {
		t.Fatalf("attempts not newest first: %+v", attempts)
	}
	if len(attempts[0].Snapshot) == 0 {
		t.Fatal("attempt must keep a snapshot of the graded quiz")
	}
}

func TestSubmitAttemptFailAfterPassKeepsCompletion(t *testing.T) {
	env := newTestEnv(t)
	fx, sec := seedQuiz(t, env, quizPayload(2, nil))

	if _, err := env.quiz.SubmitAttempt(env.ctx, learner, sec.ID, "", []int{0, 0}); err != nil {
		t.Fatalf("SubmitAttempt: %v", err)
	}
	res, err := env.quiz.SubmitAttempt(env.ctx, learner, sec.ID, "", []int{1, 1})
	if err != nil {
		t.Fatalf("SubmitAttempt: %v", err)
	}
	if res.Passed {
		t.Fatal("second attempt should fail")
	}

	p := env.sectionProgress(t, learnerID, sec.ID, "")
	if p.Passed {
		t.Fatalf("passed should follow the latest attempt: %+v", p)
	}
	if !p.Completed || p.ProgressPct != 100 {
		t.Fatalf("completion must survive a failed attempt: %+v", p)
	}
	last := p.Data.Data().LastAttempt
	if last == nil || last.Passed || last.AttemptNo != 2 {
		t.Fatalf("lastAttempt = %+v, want attempt 2 failed", last)
	}

	snap, err := env.progress.CurrentProgress(env.ctx, learner, fx.Course.ID)
	if err != nil {
		t.Fatalf("CurrentProgress: %v", err)
	}
	if snap.CompletedCount != 1 || snap.Progress != 50 {
		t.Fatalf("progress = %+v, want 1 of 2 completed", snap)
	}
	if p.LastScorePct == nil || *p.LastScorePct != 0 {
		t.Fatalf("lastScorePct = %v, want latest score 0", p.LastScorePct)
	}
}

func TestSubmitAttemptZeroThreshold(t *testing.T) {
	env := newTestEnv(t)
	_, sec := seedQuiz(t, env, quizPayload(3, intPtr(0)))

	res, err := env.quiz.SubmitAttempt(env.ctx, learner, sec.ID, "", []int{1, 1, 1})
	if err != nil {
		t.Fatalf("SubmitAttempt: %v", err)
	}
	if !res.Passed {
		t.Fatalf("threshold 0 always passes: %+v", res)
	}
}

func TestSubmitAttemptScoreRounding(t *testing.T) {
	env := newTestEnv(t)
	_, sec := seedQuiz(t, env, quizPayload(3, nil))

	res, err := env.quiz.SubmitAttempt(env.ctx, learner, sec.ID, "", []int{0, 0, 1})
	if err != nil {
		t.Fatalf("SubmitAttempt: %v", err)
	}
	if res.ScorePct != 66.67 || res.Passed {
		t.Fatalf("got %+v, want 66.67 and not passed", res)
	}
}

func TestSubmitAttemptRejectsBadInput(t *testing.T) {
	env := newTestEnv(t)
	fx, sec := seedQuiz(t, env, quizPayload(4, nil))

	_, err := env.quiz.SubmitAttempt(env.ctx, learner, sec.ID, "", []int{0, 0})
	var ve *util.ValidationError
	if !errors.As(err, &ve) || ve.Issues[0].Field != "answers" {
		t.Fatalf("count mismatch: got %v", err)
	}

	_, err = env.quiz.SubmitAttempt(env.ctx, learner, fx.Sections[0].ID, "", []int{0})
	if !errors.As(err, &ve) || ve.Issues[0].Field != "type" {
		t.Fatalf("non-quiz section: got %v", err)
	}

	empty := testutil.CreateSection(t, env.db, fx.Modules[0].ID, model.SectionQuiz, 2, nil)
	_, err = env.quiz.SubmitAttempt(env.ctx, learner, empty.ID, "", []int{0})
	if !errors.As(err, &ve) || ve.Issues[0].Field != "payload" {
		t.Fatalf("quiz without payload: got %v", err)
	}

	if _, err := env.quiz.SubmitAttempt(env.ctx, learner, "missing", "", []int{0}); !errors.Is(err, util.ErrNotFound) {
		t.Fatalf("missing section: got %v", err)
	}

	attempts, err := env.quiz.ListAttempts(env.ctx, learner, sec.ID)
	if err != nil {
		t.Fatalf("ListAttempts: %v", err)
	}
	if len(attempts) != 0 {
		t.Fatalf("rejected submissions must not be stored, got %d", len(attempts))
	}
}

func TestSubmitAttemptUsesLocalizedBank(t *testing.T) {
	env := newTestEnv(t)
	_, sec := seedQuiz(t, env, quizPayload(1, nil))

	// es 版本中正确答案是第 1 个选项
	raw := []byte(`{"items":[{"question":"pregunta","choices":[{"text":"a"},{"text":"b","correct":true}]}]}`)
	if _, err := env.content.ValidateAndSaveTypedPayload(env.ctx, owner, sec.ID, model.SectionQuiz, raw, "es"); err != nil {
		t.Fatalf("ValidateAndSaveTypedPayload: %v", err)
	}

	res, err := env.quiz.SubmitAttempt(env.ctx, learner, sec.ID, "es", []int{1})
	if err != nil {
		t.Fatalf("SubmitAttempt es: %v", err)
	}
	if !res.Passed {
		t.Fatalf("es attempt should be graded against the es bank: %+v", res)
	}

	res, err = env.quiz.SubmitAttempt(env.ctx, learner, sec.ID, "", []int{1})
	if err != nil {
		t.Fatalf("SubmitAttempt default: %v", err)
	}
	if res.Passed {
		t.Fatalf("default attempt should be graded against the base bank: %+v", res)
	}

	// 两种语言各有一份章节状态
	env.sectionProgress(t, learnerID, sec.ID, "es")
	env.sectionProgress(t, learnerID, sec.ID, "")
}
