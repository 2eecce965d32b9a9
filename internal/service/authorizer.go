package service

import (
	"context"

	"coursehub_backend/internal/model"
	"coursehub_backend/internal/repository"
	"coursehub_backend/internal/util"
	"coursehub_backend/pkg/logger"

	"go.uber.org/zap"
)

type Action string

const (
	ActionView   Action = "view"
	ActionLearn  Action = "learn"
	ActionAuthor Action = "author"
)

// Authorizer 权限判定，只回答"能/不能"
type Authorizer interface {
	MayPerform(ctx context.Context, caller Caller, groupID string, action Action) bool
}

// GroupRoleAuthorizer 已登录用户可以浏览和学习；管理员和群组所有者可以编辑内容
type GroupRoleAuthorizer struct {
	Repo *repository.ContentRepository
}

func NewGroupRoleAuthorizer(repo *repository.ContentRepository) *GroupRoleAuthorizer {
	return &GroupRoleAuthorizer{Repo: repo}
}

func (a *GroupRoleAuthorizer) MayPerform(ctx context.Context, caller Caller, groupID string, action Action) bool {
	if !caller.Authenticated() {
		return false
	}
	switch action {
	case ActionView, ActionLearn:
		return true
	case ActionAuthor:
		if caller.Role == RoleAdmin {
			return true
		}
		group, err := a.Repo.FindGroup(ctx, groupID)
		if err != nil {
			logger.Log.Debug("authorize: group lookup failed", zap.String("groupId", groupID), zap.Error(err))
			return false
		}
		return group.OwnerID == caller.UserID
	default:
		return false
	}
}

func authorize(ctx context.Context, auth Authorizer, caller Caller, groupID string, action Action) error {
	if !caller.Authenticated() {
		return util.ErrUnauthorized
	}
	if !auth.MayPerform(ctx, caller, groupID, action) {
		return util.ErrForbidden
	}
	return nil
}

// authorizeCourse 未发布的课程只对有编辑权限的人可见，其他人看到的是 NotFound
func authorizeCourse(ctx context.Context, auth Authorizer, caller Caller, course *model.Course, action Action) error {
	if err := authorize(ctx, auth, caller, course.GroupID, action); err != nil {
		return err
	}
	if !course.Published && action != ActionAuthor && !auth.MayPerform(ctx, caller, course.GroupID, ActionAuthor) {
		return util.ErrNotFound
	}
	return nil
}
