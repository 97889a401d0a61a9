package controller

import (
	"tutorhub_backend/internal/service"
	"tutorhub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UploadController struct {
	Service  *service.UploadService
	Children *service.ChildService
}

func NewUploadController(svc *service.UploadService, children *service.ChildService) *UploadController {
	return &UploadController{Service: svc, Children: children}
}

// @Summary 提交课件附件
// @Tags 附件
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "课件ID"
// @Param childId formData int true "学员ID"
// @Param file formData file true "附件"
// @Success 201 {object} util.Response
// @Router /api/player/lessons/{id}/uploads [post]
func (c *UploadController) Submit(ctx *gin.Context) {
	lessonID := util.MustParseUint(ctx.Param("id"))
	childID := util.MustParseUint(ctx.PostForm("childId"))
	if _, err := c.Children.Authorize(util.GetUserFromContext(ctx), childID); err != nil {
		respondError(ctx, err)
		return
	}

	header, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "缺少上传文件")
		return
	}

	upload, err := c.Service.Submit(ctx.Request.Context(), childID, lessonID, header)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, upload)
}

// @Summary 课件附件列表
// @Tags 附件
// @Produce json
// @Security BearerAuth
// @Param id path int true "课件ID"
// @Param childId query int true "学员ID"
// @Success 200 {object} util.Response
// @Router /api/player/lessons/{id}/uploads [get]
func (c *UploadController) List(ctx *gin.Context) {
	lessonID := util.MustParseUint(ctx.Param("id"))
	childID := util.MustParseUint(ctx.Query("childId"))
	if _, err := c.Children.Authorize(util.GetUserFromContext(ctx), childID); err != nil {
		respondError(ctx, err)
		return
	}

	uploads, err := c.Service.List(childID, lessonID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, uploads)
}

// @Summary 删除附件
// @Tags 附件
// @Produce json
// @Security BearerAuth
// @Param uuid path string true "附件UUID"
// @Param childId query int true "学员ID"
// @Success 200 {object} util.Response
// @Router /api/uploads/{uuid} [delete]
func (c *UploadController) Delete(ctx *gin.Context) {
	childID := util.MustParseUint(ctx.Query("childId"))
	if _, err := c.Children.Authorize(util.GetUserFromContext(ctx), childID); err != nil {
		respondError(ctx, err)
		return
	}

	if err := c.Service.Delete(ctx.Request.Context(), childID, ctx.Param("uuid")); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
