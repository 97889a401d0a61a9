package controller

import (
	"strconv"

	"tutorhub_backend/internal/model"
	"tutorhub_backend/internal/service"
	"tutorhub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// LessonController 排课、课件、幻灯片与题库的内容管理，导师/管理员使用
type LessonController struct {
	Service *service.LessonService
}

func NewLessonController(svc *service.LessonService) *LessonController {
	return &LessonController{Service: svc}
}

func pagination(ctx *gin.Context) (int, int) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	return page, limit
}

// ---- 直播排课 ----

// @Summary 创建排课
// @Tags 课程管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body model.Lesson true "排课信息"
// @Success 201 {object} util.Response
// @Router /api/tutor/lessons [post]
func (c *LessonController) CreateLesson(ctx *gin.Context) {
	var lesson model.Lesson
	if err := ctx.ShouldBindJSON(&lesson); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if claims := util.GetUserFromContext(ctx); claims != nil && lesson.TutorID == 0 {
		lesson.TutorID = claims.UserID
	}

	if err := c.Service.CreateLesson(&lesson); err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, lesson)
}

// @Summary 排课列表
// @Tags 课程管理
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/lessons [get]
func (c *LessonController) ListLessons(ctx *gin.Context) {
	page, limit := pagination(ctx)
	lessons, total, err := c.Service.ListLessons(page, limit)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: lessons, Total: total, Page: page, Limit: limit})
}

// @Summary 排课详情
// @Tags 课程管理
// @Produce json
// @Security BearerAuth
// @Param id path int true "课次ID"
// @Success 200 {object} util.Response
// @Router /api/lessons/{id} [get]
func (c *LessonController) GetLesson(ctx *gin.Context) {
	lesson, err := c.Service.GetLesson(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, lesson)
}

// @Summary 更新排课
// @Tags 课程管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "课次ID"
// @Param body body model.Lesson true "排课信息"
// @Success 200 {object} util.Response
// @Router /api/tutor/lessons/{id} [put]
func (c *LessonController) UpdateLesson(ctx *gin.Context) {
	var lesson model.Lesson
	if err := ctx.ShouldBindJSON(&lesson); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	lesson.ID = util.MustParseUint(ctx.Param("id"))

	if err := c.Service.UpdateLesson(&lesson); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, lesson)
}

// @Summary 删除排课
// @Tags 课程管理
// @Produce json
// @Security BearerAuth
// @Param id path int true "课次ID"
// @Success 200 {object} util.Response
// @Router /api/tutor/lessons/{id} [delete]
func (c *LessonController) DeleteLesson(ctx *gin.Context) {
	if err := c.Service.DeleteLesson(util.MustParseUint(ctx.Param("id"))); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// ---- 自学课件 ----

// @Summary 创建课件
// @Tags 课程管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body model.ContentLesson true "课件信息"
// @Success 201 {object} util.Response
// @Router /api/tutor/content-lessons [post]
func (c *LessonController) CreateContentLesson(ctx *gin.Context) {
	var lesson model.ContentLesson
	if err := ctx.ShouldBindJSON(&lesson); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.Service.CreateContentLesson(&lesson); err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, lesson)
}

// @Summary 课件详情
// @Tags 课程管理
// @Produce json
// @Security BearerAuth
// @Param id path int true "课件ID"
// @Success 200 {object} util.Response
// @Router /api/tutor/content-lessons/{id} [get]
func (c *LessonController) GetContentLesson(ctx *gin.Context) {
	lesson, err := c.Service.GetContentLesson(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, lesson)
}

// @Summary 更新课件
// @Tags 课程管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "课件ID"
// @Param body body model.ContentLesson true "课件信息"
// @Success 200 {object} util.Response
// @Router /api/tutor/content-lessons/{id} [put]
func (c *LessonController) UpdateContentLesson(ctx *gin.Context) {
	var lesson model.ContentLesson
	if err := ctx.ShouldBindJSON(&lesson); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	lesson.ID = util.MustParseUint(ctx.Param("id"))

	if err := c.Service.UpdateContentLesson(&lesson); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, lesson)
}

// @Summary 删除课件
// @Tags 课程管理
// @Produce json
// @Security BearerAuth
// @Param id path int true "课件ID"
// @Success 200 {object} util.Response
// @Router /api/tutor/content-lessons/{id} [delete]
func (c *LessonController) DeleteContentLesson(ctx *gin.Context) {
	if err := c.Service.DeleteContentLesson(util.MustParseUint(ctx.Param("id"))); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// ---- 幻灯片 ----

// @Summary 创建幻灯片
// @Tags 课程管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "课件ID"
// @Param body body model.LessonSlide true "幻灯片信息"
// @Success 201 {object} util.Response
// @Router /api/tutor/content-lessons/{id}/slides [post]
func (c *LessonController) CreateSlide(ctx *gin.Context) {
	var slide model.LessonSlide
	if err := ctx.ShouldBindJSON(&slide); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	slide.ContentLessonID = util.MustParseUint(ctx.Param("id"))

	if err := c.Service.CreateSlide(&slide); err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, slide)
}

// @Summary 更新幻灯片
// @Tags 课程管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "幻灯片ID"
// @Param body body model.LessonSlide true "幻灯片信息"
// @Success 200 {object} util.Response
// @Router /api/tutor/slides/{id} [put]
func (c *LessonController) UpdateSlide(ctx *gin.Context) {
	var slide model.LessonSlide
	if err := ctx.ShouldBindJSON(&slide); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	slide.ID = util.MustParseUint(ctx.Param("id"))

	if err := c.Service.UpdateSlide(&slide); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, slide)
}

// @Summary 删除幻灯片
// @Tags 课程管理
// @Produce json
// @Security BearerAuth
// @Param id path int true "幻灯片ID"
// @Success 200 {object} util.Response
// @Router /api/tutor/slides/{id} [delete]
func (c *LessonController) DeleteSlide(ctx *gin.Context) {
	if err := c.Service.DeleteSlide(util.MustParseUint(ctx.Param("id"))); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// ---- 题库 ----

// @Summary 创建题目
// @Tags 题库
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body model.Question true "题目信息"
// @Success 201 {object} util.Response
// @Router /api/tutor/questions [post]
func (c *LessonController) CreateQuestion(ctx *gin.Context) {
	var q model.Question
	if err := ctx.ShouldBindJSON(&q); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if claims := util.GetUserFromContext(ctx); claims != nil {
		q.CreatorID = claims.UserID
	}

	if err := c.Service.CreateQuestion(&q); err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, q)
}

// @Summary 题目列表
// @Tags 题库
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/tutor/questions [get]
func (c *LessonController) ListQuestions(ctx *gin.Context) {
	page, limit := pagination(ctx)
	questions, total, err := c.Service.ListQuestions(page, limit)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: questions, Total: total, Page: page, Limit: limit})
}

// @Summary 题目详情
// @Tags 题库
// @Produce json
// @Security BearerAuth
// @Param id path int true "题目ID"
// @Success 200 {object} util.Response
// @Router /api/tutor/questions/{id} [get]
func (c *LessonController) GetQuestion(ctx *gin.Context) {
	q, err := c.Service.GetQuestion(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, q)
}

// @Summary 更新题目
// @Tags 题库
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "题目ID"
// @Param body body model.Question true "题目信息"
// @Success 200 {object} util.Response
// @Router /api/tutor/questions/{id} [put]
func (c *LessonController) UpdateQuestion(ctx *gin.Context) {
	var q model.Question
	if err := ctx.ShouldBindJSON(&q); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	q.ID = util.MustParseUint(ctx.Param("id"))

	if err := c.Service.UpdateQuestion(&q); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, q)
}

// @Summary 删除题目
// @Tags 题库
// @Produce json
// @Security BearerAuth
// @Param id path int true "题目ID"
// @Success 200 {object} util.Response
// @Router /api/tutor/questions/{id} [delete]
func (c *LessonController) DeleteQuestion(ctx *gin.Context) {
	if err := c.Service.DeleteQuestion(util.MustParseUint(ctx.Param("id"))); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
