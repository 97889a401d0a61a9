package controller

import (
	"tutorhub_backend/internal/model"
	"tutorhub_backend/internal/service"
	"tutorhub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AttendanceController struct {
	Service  *service.AttendanceService
	Roster   *service.RosterService
	Children *service.ChildService
}

func NewAttendanceController(svc *service.AttendanceService, roster *service.RosterService, children *service.ChildService) *AttendanceController {
	return &AttendanceController{Service: svc, Roster: roster, Children: children}
}

// @Summary 课次点名名单
// @Tags 考勤
// @Produce json
// @Security BearerAuth
// @Param id path int true "课次ID"
// @Success 200 {object} util.Response
// @Router /api/lessons/{id}/roster [get]
func (c *AttendanceController) LessonRoster(ctx *gin.Context) {
	lessonID := util.MustParseUint(ctx.Param("id"))
	if lessonID == 0 {
		util.BadRequest(ctx, "invalid lesson id")
		return
	}

	roster, err := c.Roster.LessonRoster(ctx.Request.Context(), lessonID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, roster)
}

// @Summary 记录单条考勤
// @Tags 考勤
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.RecordAttendanceInput true "考勤信息"
// @Success 200 {object} util.Response
// @Router /api/attendance [post]
func (c *AttendanceController) Record(ctx *gin.Context) {
	var input service.RecordAttendanceInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	att, warning, err := c.Service.RecordOne(util.GetUserFromContext(ctx), input)
	if err != nil {
		respondError(ctx, err)
		return
	}
	if warning != "" {
		util.SuccessWithWarning(ctx, att, warning)
		return
	}
	util.Success(ctx, att)
}

// @Summary 整课次批量点名
// @Tags 考勤
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.MarkAllInput true "点名信息"
// @Success 200 {object} util.Response
// @Router /api/attendance/mark-all [post]
func (c *AttendanceController) MarkAll(ctx *gin.Context) {
	var input service.MarkAllInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.Service.MarkAll(ctx.Request.Context(), util.GetUserFromContext(ctx), input)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

type approveRequest struct {
	Status  model.AttendanceStatus `json:"status" binding:"required"`
	Approve *bool                  `json:"approve" binding:"required"`
}

// @Summary 审批单条考勤
// @Description 落定状态并设置审批标记；approve=false 撤销审批
// @Tags 考勤
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "考勤ID"
// @Param body body approveRequest true "审批信息"
// @Success 200 {object} util.Response
// @Router /api/admin/attendance/{id}/approve [post]
func (c *AttendanceController) Approve(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "invalid attendance id")
		return
	}
	var req approveRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	att, err := c.Service.Approve(util.GetUserFromContext(ctx), id, req.Status, *req.Approve)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, att)
}

// @Summary 批量审批课次考勤
// @Tags 考勤
// @Produce json
// @Security BearerAuth
// @Param id path int true "课次ID"
// @Success 200 {object} util.Response
// @Router /api/admin/lessons/{id}/attendance/approve-all [post]
func (c *AttendanceController) ApproveAll(ctx *gin.Context) {
	lessonID := util.MustParseUint(ctx.Param("id"))
	if lessonID == 0 {
		util.BadRequest(ctx, "invalid lesson id")
		return
	}

	count, err := c.Service.ApproveAll(util.GetUserFromContext(ctx), lessonID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"approved": count})
}

// @Summary 课次点名表
// @Tags 考勤
// @Produce json
// @Security BearerAuth
// @Param id path int true "课次ID"
// @Param date query string false "日期 YYYY-MM-DD，缺省取开课日"
// @Success 200 {object} util.Response
// @Router /api/lessons/{id}/attendance/sheet [get]
func (c *AttendanceController) Sheet(ctx *gin.Context) {
	lessonID := util.MustParseUint(ctx.Param("id"))
	if lessonID == 0 {
		util.BadRequest(ctx, "invalid lesson id")
		return
	}

	sheet, err := c.Service.Sheet(ctx.Request.Context(), lessonID, ctx.Query("date"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, sheet)
}

// @Summary 课次考勤汇总
// @Tags 考勤
// @Produce json
// @Security BearerAuth
// @Param id path int true "课次ID"
// @Success 200 {object} util.Response
// @Router /api/lessons/{id}/attendance/overview [get]
func (c *AttendanceController) Overview(ctx *gin.Context) {
	lessonID := util.MustParseUint(ctx.Param("id"))
	if lessonID == 0 {
		util.BadRequest(ctx, "invalid lesson id")
		return
	}

	overview, err := c.Service.LessonOverview(lessonID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, overview)
}

// @Summary 学员考勤历史
// @Tags 考勤
// @Produce json
// @Security BearerAuth
// @Param id path int true "学员ID"
// @Success 200 {object} util.Response
// @Router /api/children/{id}/attendance [get]
func (c *AttendanceController) ChildHistory(ctx *gin.Context) {
	childID := util.MustParseUint(ctx.Param("id"))
	if childID == 0 {
		util.BadRequest(ctx, "invalid child id")
		return
	}

	if _, err := c.Children.Authorize(util.GetUserFromContext(ctx), childID); err != nil {
		respondError(ctx, err)
		return
	}

	rows, err := c.Service.ChildHistory(childID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, rows)
}
