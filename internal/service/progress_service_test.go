package service

import (
	"errors"
	"testing"

	"coursehub_backend/internal/testutil"
	"coursehub_backend/internal/util"
)

func TestComputeProgress(t *testing.T) {
	cases := []struct {
		done, total int64
		want        int
	}{
		{0, 0, 0},
		{3, 0, 0},
		{0, 4, 0},
		{1, 3, 33},
		{2, 3, 67},
		{1, 8, 13},
		{4, 4, 100},
		{5, 4, 100},
		{-1, 4, 0},
	}
	for _, c := range cases {
		if got := computeProgress(c.done, c.total); got != c.want {
			t.Errorf("computeProgress(%d, %d) = %d, want %d", c.done, c.total, got, c.want)
		}
	}
}

func TestMarkSectionCompleteIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	fx := testutil.SeedCourse(t, env.db, ownerID, 1, 4)
	sec := fx.Sections[0]

	first, err := env.progress.MarkSectionComplete(env.ctx, learnerID, fx.Course.ID, sec.ModuleID, sec.ID)
	if err != nil {
		t.Fatalf("MarkSectionComplete: %v", err)
	}
	second, err := env.progress.MarkSectionComplete(env.ctx, learnerID, fx.Course.ID, sec.ModuleID, sec.ID)
	if err != nil {
		t.Fatalf("MarkSectionComplete again: %v", err)
	}

	if first.Progress != 25 || second.Progress != 25 {
		t.Fatalf("progress = %d then %d, want 25", first.Progress, second.Progress)
	}
	if second.CompletedCount != 1 || len(second.CompletedSections) != 1 {
		t.Fatalf("completion set grew on repeat: %+v", second)
	}
	if second.LastSectionID == nil || *second.LastSectionID != sec.ID {
		t.Fatalf("lastSectionId = %v", second.LastSectionID)
	}
}

func TestProgressTracksLiveSections(t *testing.T) {
	env := newTestEnv(t)
	fx := testutil.SeedCourse(t, env.db, ownerID, 2, 5)

	// 完成第一个模块的全部 5 个章节
	for _, sec := range fx.Sections[:5] {
		if _, err := env.progress.MarkSectionComplete(env.ctx, learnerID, fx.Course.ID, sec.ModuleID, sec.ID); err != nil {
			t.Fatalf("MarkSectionComplete: %v", err)
		}
	}

	snap, err := env.progress.CurrentProgress(env.ctx, learner, fx.Course.ID)
	if err != nil {
		t.Fatalf("CurrentProgress: %v", err)
	}
	if snap.Progress != 50 || snap.TotalCount != 10 || snap.IsComplete {
		t.Fatalf("got %+v, want 50%% of 10", snap)
	}

	// 删除全部未完成的章节后，剩余章节都已完成
	for _, sec := range fx.Sections[5:] {
		if err := env.content.DeleteSection(env.ctx, owner, sec.ID); err != nil {
			t.Fatalf("DeleteSection: %v", err)
		}
	}
	snap, err = env.progress.CurrentProgress(env.ctx, learner, fx.Course.ID)
	if err != nil {
		t.Fatalf("CurrentProgress: %v", err)
	}
	if snap.Progress != 100 || !snap.IsComplete || snap.TotalCount != 5 {
		t.Fatalf("got %+v, want 100%% complete", snap)
	}
}

func TestDeletedModuleDropsFromProgress(t *testing.T) {
	env := newTestEnv(t)
	fx := testutil.SeedCourse(t, env.db, ownerID, 2, 2)

	// 完成第一个模块的一个章节
	sec := fx.Sections[0]
	if _, err := env.progress.MarkSectionComplete(env.ctx, learnerID, fx.Course.ID, sec.ModuleID, sec.ID); err != nil {
		t.Fatalf("MarkSectionComplete: %v", err)
	}

	if err := env.content.DeleteModule(env.ctx, owner, fx.Modules[0].ID); err != nil {
		t.Fatalf("DeleteModule: %v", err)
	}

	snap, err := env.progress.CurrentProgress(env.ctx, learner, fx.Course.ID)
	if err != nil {
		t.Fatalf("CurrentProgress: %v", err)
	}
	if snap.Progress != 0 || snap.TotalCount != 2 || snap.CompletedCount != 0 {
		t.Fatalf("got %+v, want 0 of 2", snap)
	}
	// 完成集合本身不缩小
	if len(snap.CompletedSections) != 1 {
		t.Fatalf("completion set = %v", snap.CompletedSections)
	}
}

func TestCurrentProgressWithoutActivity(t *testing.T) {
	env := newTestEnv(t)
	fx := testutil.SeedCourse(t, env.db, ownerID, 1, 3)

	snap, err := env.progress.CurrentProgress(env.ctx, learner, fx.Course.ID)
	if err != nil {
		t.Fatalf("CurrentProgress: %v", err)
	}
	if snap.Progress != 0 || snap.CompletedSections == nil || snap.LastSectionID != nil {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
}

func TestCompleteSectionRequiresLogin(t *testing.T) {
	env := newTestEnv(t)
	fx := testutil.SeedCourse(t, env.db, ownerID, 1, 1)

	_, err := env.progress.CompleteSection(env.ctx, Caller{}, fx.Sections[0].ID, "")
	if !errors.Is(err, util.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestCompleteSectionMarksTracker(t *testing.T) {
	env := newTestEnv(t)
	fx := testutil.SeedCourse(t, env.db, ownerID, 1, 2)
	sec := fx.Sections[1]

	snap, err := env.progress.CompleteSection(env.ctx, learner, sec.ID, "es")
	if err != nil {
		t.Fatalf("CompleteSection: %v", err)
	}
	if snap.Progress != 50 {
		t.Fatalf("progress = %d", snap.Progress)
	}
	p := env.sectionProgress(t, learnerID, sec.ID, "es")
	if !p.Completed || p.ProgressPct != 100 {
		t.Fatalf("tracker not completed: %+v", p)
	}
}

func TestUnpublishedCourseHiddenFromLearners(t *testing.T) {
	env := newTestEnv(t)
	g := testutil.CreateGroup(t, env.db, ownerID)
	c := testutil.CreateCourse(t, env.db, g.ID, false)

	if _, err := env.progress.CurrentProgress(env.ctx, learner, c.ID); !errors.Is(err, util.ErrNotFound) {
		t.Fatalf("learner: expected ErrNotFound, got %v", err)
	}
	if _, err := env.progress.CurrentProgress(env.ctx, owner, c.ID); err != nil {
		t.Fatalf("owner: %v", err)
	}
	admin := Caller{UserID: 99, Role: RoleAdmin}
	if _, err := env.progress.CurrentProgress(env.ctx, admin, c.ID); err != nil {
		t.Fatalf("admin: %v", err)
	}
}
