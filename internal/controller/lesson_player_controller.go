package controller

import (
	"strconv"

	"tutorhub_backend/internal/service"
	"tutorhub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// LessonPlayerController 自学课件的播放与进度接口。
// 所有接口都以 childId 指明学习主体，监护人只能代表自己的学员。
type LessonPlayerController struct {
	Lessons  *service.LessonService
	Progress *service.ProgressService
	Children *service.ChildService
}

func NewLessonPlayerController(lessons *service.LessonService, progress *service.ProgressService,
	children *service.ChildService) *LessonPlayerController {
	return &LessonPlayerController{Lessons: lessons, Progress: progress, Children: children}
}

func (c *LessonPlayerController) authorizeChild(ctx *gin.Context, childID uint) bool {
	if childID == 0 {
		util.BadRequest(ctx, "childId is required")
		return false
	}
	if _, err := c.Children.Authorize(util.GetUserFromContext(ctx), childID); err != nil {
		respondError(ctx, err)
		return false
	}
	return true
}

// @Summary 已发布课件列表
// @Tags 课件播放
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} util.Response
// @Router /api/player/lessons [get]
func (c *LessonPlayerController) ListLessons(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	lessons, total, err := c.Lessons.ListPublished(page, limit)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: lessons, Total: total, Page: page, Limit: limit})
}

// @Summary 课件播放内容
// @Tags 课件播放
// @Produce json
// @Security BearerAuth
// @Param id path int true "课件ID"
// @Param childId query int true "学员ID"
// @Success 200 {object} util.Response
// @Router /api/player/lessons/{id} [get]
func (c *LessonPlayerController) PlayerContent(ctx *gin.Context) {
	lessonID := util.MustParseUint(ctx.Param("id"))
	childID := util.MustParseUint(ctx.Query("childId"))
	if !c.authorizeChild(ctx, childID) {
		return
	}

	view, err := c.Lessons.PlayerContent(childID, lessonID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

type startRequest struct {
	ChildID uint `json:"childId" binding:"required"`
}

// @Summary 开始学习课件
// @Tags 课件播放
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "课件ID"
// @Param body body startRequest true "学员"
// @Success 200 {object} util.Response
// @Router /api/player/lessons/{id}/start [post]
func (c *LessonPlayerController) Start(ctx *gin.Context) {
	lessonID := util.MustParseUint(ctx.Param("id"))
	var req startRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if !c.authorizeChild(ctx, req.ChildID) {
		return
	}

	progress, created, err := c.Progress.Start(req.ChildID, lessonID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	if created {
		util.Created(ctx, progress)
		return
	}
	util.Success(ctx, progress)
}

type slideViewRequest struct {
	ChildID uint `json:"childId" binding:"required"`
	service.SlideViewInput
}

// @Summary 记录幻灯片浏览
// @Tags 课件播放
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "课件ID"
// @Param body body slideViewRequest true "浏览信息"
// @Success 200 {object} util.Response
// @Router /api/player/lessons/{id}/slides/view [post]
func (c *LessonPlayerController) RecordSlideView(ctx *gin.Context) {
	lessonID := util.MustParseUint(ctx.Param("id"))
	var req slideViewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if !c.authorizeChild(ctx, req.ChildID) {
		return
	}

	progress, err := c.Progress.RecordSlideView(req.ChildID, lessonID, req.SlideViewInput)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}

type heartbeatRequest struct {
	ChildID uint `json:"childId" binding:"required"`
	service.HeartbeatInput
}

// @Summary 学习心跳
// @Description 累计停留时长并记录续播位置
// @Tags 课件播放
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "课件ID"
// @Param body body heartbeatRequest true "心跳信息"
// @Success 200 {object} util.Response
// @Router /api/player/lessons/{id}/progress [post]
func (c *LessonPlayerController) UpdateProgress(ctx *gin.Context) {
	lessonID := util.MustParseUint(ctx.Param("id"))
	var req heartbeatRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if !c.authorizeChild(ctx, req.ChildID) {
		return
	}

	progress, err := c.Progress.UpdateProgress(req.ChildID, lessonID, req.HeartbeatInput)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}

type interactionRequest struct {
	ChildID uint `json:"childId" binding:"required"`
	service.InteractionInput
}

// @Summary 记录幻灯片交互
// @Tags 课件播放
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "课件ID"
// @Param body body interactionRequest true "交互信息"
// @Success 200 {object} util.Response
// @Router /api/player/lessons/{id}/interactions [post]
func (c *LessonPlayerController) RecordInteraction(ctx *gin.Context) {
	lessonID := util.MustParseUint(ctx.Param("id"))
	var req interactionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if !c.authorizeChild(ctx, req.ChildID) {
		return
	}

	inter, err := c.Progress.RecordInteraction(req.ChildID, lessonID, req.InteractionInput)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, inter)
}

type confidenceRequest struct {
	ChildID uint `json:"childId" binding:"required"`
	SlideID uint `json:"slideId" binding:"required"`
	Rating  int  `json:"rating" binding:"required"`
}

// @Summary 提交自信度评分
// @Tags 课件播放
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "课件ID"
// @Param body body confidenceRequest true "评分信息"
// @Success 200 {object} util.Response
// @Router /api/player/lessons/{id}/confidence [post]
func (c *LessonPlayerController) SubmitConfidence(ctx *gin.Context) {
	lessonID := util.MustParseUint(ctx.Param("id"))
	var req confidenceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if !c.authorizeChild(ctx, req.ChildID) {
		return
	}

	inter, err := c.Progress.SubmitConfidence(req.ChildID, lessonID, req.SlideID, req.Rating)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, inter)
}

// @Summary 完成判定
// @Tags 课件播放
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "课件ID"
// @Param body body startRequest true "学员"
// @Success 200 {object} util.Response
// @Router /api/player/lessons/{id}/check-completion [post]
func (c *LessonPlayerController) CheckCompletion(ctx *gin.Context) {
	lessonID := util.MustParseUint(ctx.Param("id"))
	var req startRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if !c.authorizeChild(ctx, req.ChildID) {
		return
	}

	progress, completed, err := c.Progress.CheckCompletion(req.ChildID, lessonID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"completed": completed, "progress": progress})
}

// @Summary 学习概览
// @Tags 课件播放
// @Produce json
// @Security BearerAuth
// @Param id path int true "课件ID"
// @Param childId query int true "学员ID"
// @Success 200 {object} util.Response
// @Router /api/player/lessons/{id}/summary [get]
func (c *LessonPlayerController) Summary(ctx *gin.Context) {
	lessonID := util.MustParseUint(ctx.Param("id"))
	childID := util.MustParseUint(ctx.Query("childId"))
	if !c.authorizeChild(ctx, childID) {
		return
	}

	summary, err := c.Progress.Summary(childID, lessonID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, summary)
}
