package controller

import (
	"coursehub_backend/internal/service"
	"coursehub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	content  *service.ContentService
	progress *service.ProgressService
}

func NewCourseController(content *service.ContentService, progress *service.ProgressService) *CourseController {
	return &CourseController{content: content, progress: progress}
}

// CreateCourse godoc
// @Summary 在群组下创建课程
// @Tags 课程
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "群组ID"
// @Param body body service.CourseInput true "课程信息"
// @Success 201 {object} util.Response{data=model.Course}
// @Failure 403 {object} util.Response
// @Failure 422 {object} util.Response
// @Router /api/groups/{id}/courses [post]
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	var req service.CourseInput
	if !bindJSON(ctx, &req) {
		return
	}

	course, err := c.content.CreateCourse(ctx.Request.Context(), callerFrom(ctx), ctx.Param("id"), req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Created(ctx, course)
}

// GetCourse godoc
// @Summary 获取课程（含模块、章节列表和当前用户进度）
// @Tags 课程
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "课程ID"
// @Param locale query string false "语言"
// @Success 200 {object} util.Response{data=service.CourseView}
// @Failure 404 {object} util.Response
// @Router /api/courses/{id} [get]
func (c *CourseController) GetCourse(ctx *gin.Context) {
	view, err := c.content.ResolveCourse(ctx.Request.Context(), callerFrom(ctx), ctx.Param("id"), ctx.Query("locale"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// UpdateCourse godoc
// @Summary 更新课程
// @Tags 课程
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "课程ID"
// @Param body body service.CoursePatch true "需要修改的字段"
// @Success 200 {object} util.Response{data=model.Course}
// @Router /api/courses/{id} [put]
func (c *CourseController) UpdateCourse(ctx *gin.Context) {
	var req service.CoursePatch
	if !bindJSON(ctx, &req) {
		return
	}

	course, err := c.content.UpdateCourse(ctx.Request.Context(), callerFrom(ctx), ctx.Param("id"), req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, course)
}

// DeleteCourse godoc
// @Summary 删除课程（软删除）
// @Tags 课程
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "课程ID"
// @Success 200 {object} util.Response
// @Router /api/courses/{id} [delete]
func (c *CourseController) DeleteCourse(ctx *gin.Context) {
	if err := c.content.DeleteCourse(ctx.Request.Context(), callerFrom(ctx), ctx.Param("id")); err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// SaveTranslations godoc
// @Summary 批量保存课程翻译
// @Tags 课程
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "课程ID"
// @Param body body map[string]service.CourseTranslationInput true "locale -> 翻译"
// @Success 200 {object} util.Response
// @Failure 422 {object} util.Response
// @Router /api/courses/{id}/translations [put]
func (c *CourseController) SaveTranslations(ctx *gin.Context) {
	var req map[string]service.CourseTranslationInput
	if !bindJSON(ctx, &req) {
		return
	}

	if err := c.content.SaveCourseTranslations(ctx.Request.Context(), callerFrom(ctx), ctx.Param("id"), req); err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// UploadThumbnail godoc
// @Summary 上传课程缩略图
// @Tags 课程
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "课程ID"
// @Param file formData file true "图片文件"
// @Success 200 {object} util.Response
// @Failure 422 {object} util.Response
// @Router /api/courses/{id}/thumbnail [post]
func (c *CourseController) UploadThumbnail(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.RespondError(ctx, util.Invalid("file", "is required"))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	defer file.Close()

	url, err := c.content.UploadCourseThumbnail(ctx.Request.Context(), callerFrom(ctx), ctx.Param("id"), fileHeader.Filename, file, fileHeader.Size)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"thumbnail": url})
}

// GetProgress godoc
// @Summary 当前用户的课程进度
// @Description 按当前存活的章节实时计算
// @Tags 学习进度
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "课程ID"
// @Success 200 {object} util.Response{data=service.ProgressSnapshot}
// @Failure 404 {object} util.Response
// @Router /api/courses/{id}/progress [get]
func (c *CourseController) GetProgress(ctx *gin.Context) {
	snap, err := c.progress.CurrentProgress(ctx.Request.Context(), callerFrom(ctx), ctx.Param("id"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, snap)
}

type createModuleRequest struct {
	Title string `json:"title" binding:"required,max=255"`
}

// CreateModule godoc
// @Summary 在课程下创建模块
// @Tags 模块
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "课程ID"
// @Param body body createModuleRequest true "模块标题"
// @Success 201 {object} util.Response{data=model.CourseModule}
// @Router /api/courses/{id}/modules [post]
func (c *CourseController) CreateModule(ctx *gin.Context) {
	var req createModuleRequest
	if !bindJSON(ctx, &req) {
		return
	}

	m, err := c.content.CreateModule(ctx.Request.Context(), callerFrom(ctx), ctx.Param("id"), req.Title)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Created(ctx, m)
}

// ReorderModules godoc
// @Summary 调整模块顺序
// @Description ids 必须是课程当前全部模块的一个排列
// @Tags 模块
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "课程ID"
// @Param body body service.ReorderInput true "新的顺序"
// @Success 200 {object} util.Response
// @Router /api/courses/{id}/modules/order [put]
func (c *CourseController) ReorderModules(ctx *gin.Context) {
	var req service.ReorderInput
	if !bindJSON(ctx, &req) {
		return
	}

	if err := c.content.ReorderModules(ctx.Request.Context(), callerFrom(ctx), ctx.Param("id"), req.IDs); err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
