package controller

import (
	"errors"
	"net/http"

	"tutorhub_backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// respondError 把服务层错误翻译成 HTTP 状态码。
// 未识别的错误一律按 500 处理并记日志。
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(c)
	case errors.Is(err, util.ErrAttendanceApproved):
		util.Error(c, http.StatusForbidden, err.Error())
	case errors.Is(err, util.ErrUserNotFound),
		errors.Is(err, util.ErrChildNotFound),
		errors.Is(err, util.ErrLessonNotFound),
		errors.Is(err, util.ErrSlideNotFound),
		errors.Is(err, util.ErrQuestionNotFound),
		errors.Is(err, util.ErrProgressNotFound),
		errors.Is(err, util.ErrAttendanceNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		util.Error(c, http.StatusNotFound, err.Error())
	case errors.Is(err, util.ErrNoLessonAccess):
		util.Error(c, http.StatusForbidden, err.Error())
	case errors.Is(err, util.ErrInvalidStatus),
		errors.Is(err, util.ErrInvalidRating),
		errors.Is(err, util.ErrBlockNotFound):
		util.BadRequest(c, err.Error())
	case errors.Is(err, util.ErrRetryNotAllowed),
		errors.Is(err, util.ErrMaxAttemptsReached):
		util.Error(c, http.StatusConflict, err.Error())
	case errors.Is(err, util.ErrUploadTooLarge):
		util.Error(c, http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, util.ErrEmailRegistered):
		util.Error(c, http.StatusConflict, err.Error())
	default:
		util.LogInternalError(c, err)
	}
}
