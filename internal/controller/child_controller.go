package controller

import (
	"tutorhub_backend/internal/model"
	"tutorhub_backend/internal/service"
	"tutorhub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ChildController struct {
	Service *service.ChildService
}

func NewChildController(svc *service.ChildService) *ChildController {
	return &ChildController{Service: svc}
}

type childRequest struct {
	ChildName   string `json:"childName" binding:"required"`
	DateOfBirth string `json:"dateOfBirth"`
	YearGroup   string `json:"yearGroup"`
}

// @Summary 添加学员
// @Tags 学员
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body childRequest true "学员信息"
// @Success 201 {object} util.Response
// @Router /api/children [post]
func (c *ChildController) Create(ctx *gin.Context) {
	var req childRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	child := &model.Child{
		ChildName: req.ChildName,
		YearGroup: req.YearGroup,
	}
	if req.DateOfBirth != "" {
		dob, err := util.ParseDay(req.DateOfBirth)
		if err != nil {
			util.BadRequest(ctx, "日期格式错误，应为 YYYY-MM-DD")
			return
		}
		child.DateOfBirth = &dob
	}
	if err := c.Service.Create(util.GetUserFromContext(ctx), child); err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, child)
}

// @Summary 我的学员列表
// @Tags 学员
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/children [get]
func (c *ChildController) List(ctx *gin.Context) {
	children, err := c.Service.ListMine(util.GetUserFromContext(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, children)
}

// @Summary 学员详情
// @Tags 学员
// @Produce json
// @Security BearerAuth
// @Param id path int true "学员ID"
// @Success 200 {object} util.Response
// @Router /api/children/{id} [get]
func (c *ChildController) Get(ctx *gin.Context) {
	childID := util.MustParseUint(ctx.Param("id"))
	child, err := c.Service.Authorize(util.GetUserFromContext(ctx), childID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, child)
}

// @Summary 更新学员信息
// @Tags 学员
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "学员ID"
// @Param body body childRequest true "学员信息"
// @Success 200 {object} util.Response
// @Router /api/children/{id} [put]
func (c *ChildController) Update(ctx *gin.Context) {
	childID := util.MustParseUint(ctx.Param("id"))
	var req childRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	child, err := c.Service.Update(util.GetUserFromContext(ctx), childID, req.ChildName, req.YearGroup)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, child)
}

// @Summary 删除学员
// @Tags 学员
// @Produce json
// @Security BearerAuth
// @Param id path int true "学员ID"
// @Success 200 {object} util.Response
// @Router /api/children/{id} [delete]
func (c *ChildController) Delete(ctx *gin.Context) {
	childID := util.MustParseUint(ctx.Param("id"))
	if err := c.Service.Delete(util.GetUserFromContext(ctx), childID); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
