package controller

import (
	"encoding/json"

	"coursehub_backend/internal/model"
	"coursehub_backend/internal/service"
	"coursehub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SectionController struct {
	content     *service.ContentService
	progress    *service.ProgressService
	quiz        *service.QuizService
	reflections *service.ReflectionService
}

func NewSectionController(
	content *service.ContentService,
	progress *service.ProgressService,
	quiz *service.QuizService,
	reflections *service.ReflectionService,
) *SectionController {
	return &SectionController{content: content, progress: progress, quiz: quiz, reflections: reflections}
}

// GetSection godoc
// @Summary 获取章节内容
// @Description 按语言逐字段覆盖，同时返回当前用户在该章节上的状态，并记录一次访问
// @Tags 章节
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "章节ID"
// @Param locale query string false "语言"
// @Success 200 {object} util.Response{data=service.SectionView}
// @Failure 404 {object} util.Response
// @Router /api/sections/{id} [get]
func (c *SectionController) GetSection(ctx *gin.Context) {
	view, err := c.content.ResolveSection(ctx.Request.Context(), callerFrom(ctx), ctx.Param("id"), ctx.Query("locale"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// UpdateSection godoc
// @Summary 修改章节名称或图标
// @Tags 章节
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "章节ID"
// @Param body body service.SectionPatch true "修改内容"
// @Success 200 {object} util.Response
// @Router /api/sections/{id} [put]
func (c *SectionController) UpdateSection(ctx *gin.Context) {
	var req service.SectionPatch
	if !bindJSON(ctx, &req) {
		return
	}

	if err := c.content.UpdateSection(ctx.Request.Context(), callerFrom(ctx), ctx.Param("id"), req); err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// DeleteSection godoc
// @Summary 删除章节（软删除）
// @Tags 章节
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "章节ID"
// @Success 200 {object} util.Response
// @Router /api/sections/{id} [delete]
func (c *SectionController) DeleteSection(ctx *gin.Context) {
	if err := c.content.DeleteSection(ctx.Request.Context(), callerFrom(ctx), ctx.Param("id")); err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// SaveContent godoc
// @Summary 保存 concept 章节正文
// @Tags 章节
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "章节ID"
// @Param body body service.ConceptContentInput true "正文"
// @Success 200 {object} util.Response
// @Failure 422 {object} util.Response
// @Router /api/sections/{id}/content [put]
func (c *SectionController) SaveContent(ctx *gin.Context) {
	var req service.ConceptContentInput
	if !bindJSON(ctx, &req) {
		return
	}

	if err := c.content.SaveConceptContent(ctx.Request.Context(), callerFrom(ctx), ctx.Param("id"), req); err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

type savePayloadRequest struct {
	Type    model.SectionType `json:"type" binding:"required"`
	Locale  string            `json:"locale"`
	Payload json.RawMessage   `json:"payload" swaggertype:"object"`
}

// SavePayload godoc
// @Summary 校验并保存章节载荷
// @Description type 必须与章节类型一致；校验失败时不写入任何数据
// @Tags 章节
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "章节ID"
// @Param body body savePayloadRequest true "载荷"
// @Success 200 {object} util.Response
// @Failure 422 {object} util.Response
// @Router /api/sections/{id}/payload [put]
func (c *SectionController) SavePayload(ctx *gin.Context) {
	var req savePayloadRequest
	if !bindJSON(ctx, &req) {
		return
	}

	p, err := c.content.ValidateAndSaveTypedPayload(ctx.Request.Context(), callerFrom(ctx), ctx.Param("id"), req.Type, req.Payload, req.Locale)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"type": p.Type(), "payload": p})
}

// 请求中只有答案；题目从服务端读取，客户端附带的题库会被忽略
type submitAttemptRequest struct {
	Locale  string `json:"locale"`
	Answers []int  `json:"answers" binding:"required"`
}

// SubmitQuizAttempt godoc
// @Summary 提交测验
// @Description 按服务端保存的题库评分；通过后自动标记章节完成
// @Tags 测验
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "章节ID"
// @Param body body submitAttemptRequest true "每题选择的选项下标"
// @Success 200 {object} util.Response{data=service.QuizResult}
// @Failure 422 {object} util.Response
// @Router /api/sections/{id}/quiz-attempts [post]
func (c *SectionController) SubmitQuizAttempt(ctx *gin.Context) {
	var req submitAttemptRequest
	if !bindJSON(ctx, &req) {
		return
	}

	result, err := c.quiz.SubmitAttempt(ctx.Request.Context(), callerFrom(ctx), ctx.Param("id"), req.Locale, req.Answers)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// ListQuizAttempts godoc
// @Summary 我的测验提交记录
// @Tags 测验
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "章节ID"
// @Success 200 {object} util.Response{data=[]model.UserSectionQuizAttempt}
// @Router /api/sections/{id}/quiz-attempts [get]
func (c *SectionController) ListQuizAttempts(ctx *gin.Context) {
	attempts, err := c.quiz.ListAttempts(ctx.Request.Context(), callerFrom(ctx), ctx.Param("id"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, attempts)
}

type saveReflectionRequest struct {
	Locale string `json:"locale"`
	Text   string `json:"text"`
}

// SaveReflection godoc
// @Summary 保存反思
// @Description 去掉首尾空白后达到最少字数才会保存，保存后章节标记为完成
// @Tags 反思
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "章节ID"
// @Param body body saveReflectionRequest true "反思内容"
// @Success 200 {object} util.Response{data=service.ReflectionResult}
// @Failure 422 {object} util.Response
// @Router /api/sections/{id}/reflection [put]
func (c *SectionController) SaveReflection(ctx *gin.Context) {
	var req saveReflectionRequest
	if !bindJSON(ctx, &req) {
		return
	}

	result, err := c.reflections.SaveReflection(ctx.Request.Context(), callerFrom(ctx), ctx.Param("id"), req.Locale, req.Text)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// GetReflection godoc
// @Summary 获取我的反思
// @Tags 反思
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "章节ID"
// @Param locale query string false "语言"
// @Success 200 {object} util.Response{data=model.UserSectionReflection}
// @Failure 404 {object} util.Response
// @Router /api/sections/{id}/reflection [get]
func (c *SectionController) GetReflection(ctx *gin.Context) {
	ref, err := c.reflections.GetReflection(ctx.Request.Context(), callerFrom(ctx), ctx.Param("id"), ctx.Query("locale"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, ref)
}

type completeSectionRequest struct {
	Locale string `json:"locale"`
}

// CompleteSection godoc
// @Summary 手动标记章节完成
// @Description 重复调用是幂等的
// @Tags 学习进度
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "章节ID"
// @Param body body completeSectionRequest false "语言"
// @Success 200 {object} util.Response{data=service.ProgressSnapshot}
// @Router /api/sections/{id}/complete [post]
func (c *SectionController) CompleteSection(ctx *gin.Context) {
	var req completeSectionRequest
	if ctx.Request.ContentLength > 0 && !bindJSON(ctx, &req) {
		return
	}
	loc := c.content.Locales.Resolve(req.Locale)

	snap, err := c.progress.CompleteSection(ctx.Request.Context(), callerFrom(ctx), ctx.Param("id"), loc)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, snap)
}
