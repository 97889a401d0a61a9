package controller

import (
	"strconv"

	"tutorhub_backend/internal/model"
	"tutorhub_backend/internal/service"
	"tutorhub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// AccessController 授权记录管理，仅管理员
type AccessController struct {
	Service *service.AccessService
}

func NewAccessController(svc *service.AccessService) *AccessController {
	return &AccessController{Service: svc}
}

// @Summary 创建授权
// @Tags 授权管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body model.AccessGrant true "授权信息"
// @Success 201 {object} util.Response
// @Router /api/admin/access-grants [post]
func (c *AccessController) Create(ctx *gin.Context) {
	var grant model.AccessGrant
	if err := ctx.ShouldBindJSON(&grant); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.Service.CreateGrant(ctx.Request.Context(), &grant); err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, grant)
}

// @Summary 授权列表
// @Tags 授权管理
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} util.Response
// @Router /api/admin/access-grants [get]
func (c *AccessController) List(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	grants, total, err := c.Service.ListGrants(page, limit)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: grants, Total: total, Page: page, Limit: limit})
}

// @Summary 授权详情
// @Tags 授权管理
// @Produce json
// @Security BearerAuth
// @Param id path int true "授权ID"
// @Success 200 {object} util.Response
// @Router /api/admin/access-grants/{id} [get]
func (c *AccessController) Get(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	grant, err := c.Service.GetGrant(id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, grant)
}

// @Summary 更新授权
// @Tags 授权管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "授权ID"
// @Param body body model.AccessGrant true "授权信息"
// @Success 200 {object} util.Response
// @Router /api/admin/access-grants/{id} [put]
func (c *AccessController) Update(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	var grant model.AccessGrant
	if err := ctx.ShouldBindJSON(&grant); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	grant.ID = id

	if err := c.Service.UpdateGrant(ctx.Request.Context(), &grant); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, grant)
}

// @Summary 删除授权
// @Tags 授权管理
// @Produce json
// @Security BearerAuth
// @Param id path int true "授权ID"
// @Success 200 {object} util.Response
// @Router /api/admin/access-grants/{id} [delete]
func (c *AccessController) Delete(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if err := c.Service.DeleteGrant(ctx.Request.Context(), id); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// @Summary 学员授权列表
// @Tags 授权管理
// @Produce json
// @Security BearerAuth
// @Param id path int true "学员ID"
// @Success 200 {object} util.Response
// @Router /api/admin/children/{id}/access-grants [get]
func (c *AccessController) ListByChild(ctx *gin.Context) {
	childID := util.MustParseUint(ctx.Param("id"))
	grants, err := c.Service.ListGrantsByChild(childID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, grants)
}
