package controller

import (
	"tutorhub_backend/internal/service"
	"tutorhub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type LessonQuestionController struct {
	Service  *service.QuestionService
	Children *service.ChildService
}

func NewLessonQuestionController(svc *service.QuestionService, children *service.ChildService) *LessonQuestionController {
	return &LessonQuestionController{Service: svc, Children: children}
}

type submitAnswerRequest struct {
	ChildID uint `json:"childId" binding:"required"`
	service.SubmitAnswerInput
}

// @Summary 提交答案并判分
// @Tags 课件答题
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "课件ID"
// @Param body body submitAnswerRequest true "答案"
// @Success 200 {object} util.Response
// @Router /api/player/lessons/{id}/questions/submit [post]
func (c *LessonQuestionController) Submit(ctx *gin.Context) {
	lessonID := util.MustParseUint(ctx.Param("id"))
	var req submitAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if _, err := c.Children.Authorize(util.GetUserFromContext(ctx), req.ChildID); err != nil {
		respondError(ctx, err)
		return
	}

	result, err := c.Service.SubmitResponse(req.ChildID, lessonID, req.SubmitAnswerInput)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary 课件答题记录
// @Tags 课件答题
// @Produce json
// @Security BearerAuth
// @Param id path int true "课件ID"
// @Param childId query int true "学员ID"
// @Success 200 {object} util.Response
// @Router /api/player/lessons/{id}/questions/responses [get]
func (c *LessonQuestionController) Responses(ctx *gin.Context) {
	lessonID := util.MustParseUint(ctx.Param("id"))
	childID := util.MustParseUint(ctx.Query("childId"))
	if _, err := c.Children.Authorize(util.GetUserFromContext(ctx), childID); err != nil {
		respondError(ctx, err)
		return
	}

	rows, err := c.Service.GetResponses(childID, lessonID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, rows)
}

// @Summary 单页答题记录
// @Tags 课件答题
// @Produce json
// @Security BearerAuth
// @Param id path int true "课件ID"
// @Param slideId path int true "幻灯片ID"
// @Param childId query int true "学员ID"
// @Success 200 {object} util.Response
// @Router /api/player/lessons/{id}/slides/{slideId}/responses [get]
func (c *LessonQuestionController) SlideResponses(ctx *gin.Context) {
	lessonID := util.MustParseUint(ctx.Param("id"))
	slideID := util.MustParseUint(ctx.Param("slideId"))
	childID := util.MustParseUint(ctx.Query("childId"))
	if _, err := c.Children.Authorize(util.GetUserFromContext(ctx), childID); err != nil {
		respondError(ctx, err)
		return
	}

	rows, err := c.Service.GetSlideResponses(childID, lessonID, slideID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, rows)
}
