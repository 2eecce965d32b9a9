package controller

import (
	"coursehub_backend/internal/service"
	"coursehub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type GroupController struct {
	service *service.ContentService
}

func NewGroupController(s *service.ContentService) *GroupController {
	return &GroupController{service: s}
}

// CreateGroup godoc
// @Summary 创建群组
// @Tags 群组
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.GroupInput true "群组信息"
// @Success 201 {object} util.Response{data=model.Group}
// @Failure 422 {object} util.Response
// @Router /api/groups [post]
func (c *GroupController) CreateGroup(ctx *gin.Context) {
	var req service.GroupInput
	if !bindJSON(ctx, &req) {
		return
	}

	group, err := c.service.CreateGroup(ctx.Request.Context(), callerFrom(ctx), req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Created(ctx, group)
}

// GetGroup godoc
// @Summary 获取群组及其已发布课程
// @Tags 群组
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "群组ID"
// @Param locale query string false "语言"
// @Success 200 {object} util.Response{data=service.GroupView}
// @Failure 404 {object} util.Response
// @Router /api/groups/{id} [get]
func (c *GroupController) GetGroup(ctx *gin.Context) {
	view, err := c.service.ResolveGroup(ctx.Request.Context(), callerFrom(ctx), ctx.Param("id"), ctx.Query("locale"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// SaveTranslations godoc
// @Summary 批量保存群组翻译
// @Description 所有语言在一个事务内写入，任一失败则全部不生效
// @Tags 群组
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "群组ID"
// @Param body body map[string]service.GroupTranslationInput true "locale -> 翻译"
// @Success 200 {object} util.Response
// @Failure 422 {object} util.Response
// @Router /api/groups/{id}/translations [put]
func (c *GroupController) SaveTranslations(ctx *gin.Context) {
	var req map[string]service.GroupTranslationInput
	if !bindJSON(ctx, &req) {
		return
	}

	if err := c.service.SaveGroupTranslations(ctx.Request.Context(), callerFrom(ctx), ctx.Param("id"), req); err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
