package controller

import (
	"coursehub_backend/internal/service"
	"coursehub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ModuleController struct {
	service *service.ContentService
}

func NewModuleController(s *service.ContentService) *ModuleController {
	return &ModuleController{service: s}
}

// UpdateModule godoc
// @Summary 修改模块标题
// @Description locale 为非默认语言时写入翻译
// @Tags 模块
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "模块ID"
// @Param body body service.ModulePatch true "修改内容"
// @Success 200 {object} util.Response
// @Router /api/modules/{id} [put]
func (c *ModuleController) UpdateModule(ctx *gin.Context) {
	var req service.ModulePatch
	if !bindJSON(ctx, &req) {
		return
	}

	if err := c.service.UpdateModule(ctx.Request.Context(), callerFrom(ctx), ctx.Param("id"), req); err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// DeleteModule godoc
// @Summary 删除模块及其章节（软删除）
// @Tags 模块
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "模块ID"
// @Success 200 {object} util.Response
// @Router /api/modules/{id} [delete]
func (c *ModuleController) DeleteModule(ctx *gin.Context) {
	if err := c.service.DeleteModule(ctx.Request.Context(), callerFrom(ctx), ctx.Param("id")); err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// CreateSection godoc
// @Summary 在模块下创建章节
// @Tags 章节
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "模块ID"
// @Param body body service.SectionInput true "章节信息"
// @Success 201 {object} util.Response{data=model.Section}
// @Failure 422 {object} util.Response
// @Router /api/modules/{id}/sections [post]
func (c *ModuleController) CreateSection(ctx *gin.Context) {
	var req service.SectionInput
	if !bindJSON(ctx, &req) {
		return
	}

	sec, err := c.service.CreateSection(ctx.Request.Context(), callerFrom(ctx), ctx.Param("id"), req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Created(ctx, sec)
}

// ReorderSections godoc
// @Summary 调整章节顺序
// @Tags 章节
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "模块ID"
// @Param body body service.ReorderInput true "新的顺序"
// @Success 200 {object} util.Response
// @Router /api/modules/{id}/sections/order [put]
func (c *ModuleController) ReorderSections(ctx *gin.Context) {
	var req service.ReorderInput
	if !bindJSON(ctx, &req) {
		return
	}

	if err := c.service.ReorderSections(ctx.Request.Context(), callerFrom(ctx), ctx.Param("id"), req.IDs); err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
