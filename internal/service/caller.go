package service

import (
	"context"

	"coursehub_backend/internal/model"
	"coursehub_backend/internal/repository"
	"coursehub_backend/internal/util"
)

const (
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
	RoleStudent = "student"
)

// Caller 请求方身份，由认证中间件从令牌中解析，显式传给每个服务方法
type Caller struct {
	UserID uint
	Role   string
}

func CallerFromClaims(claims *util.Claims) Caller {
	if claims == nil {
		return Caller{}
	}
	return Caller{UserID: claims.UserID, Role: claims.Role}
}

func (c Caller) Authenticated() bool {
	return c.UserID != 0
}

// SectionContext 一次请求内解析一次的章节及其所属模块、课程
type SectionContext struct {
	Section *model.Section
	Module  *model.CourseModule
	Course  *model.Course
}

// loadSectionContext 章节、模块、课程任一不存在或已删除都视为 NotFound
func loadSectionContext(ctx context.Context, repo *repository.ContentRepository, sectionID string) (*SectionContext, error) {
	section, err := repo.FindSection(ctx, sectionID)
	if err != nil {
		return nil, util.StoreError(err)
	}
	module, err := repo.FindModule(ctx, section.ModuleID)
	if err != nil {
		return nil, util.StoreError(err)
	}
	course, err := repo.FindCourse(ctx, module.CourseID)
	if err != nil {
		return nil, util.StoreError(err)
	}
	return &SectionContext{Section: section, Module: module, Course: course}, nil
}
