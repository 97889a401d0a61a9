package util

import "errors"

var (
	ErrUserNotFound        = errors.New("用户不存在")
	ErrEmailRegistered     = errors.New("该邮箱已被注册")
	ErrPermissionDenied    = errors.New("permission denied")
	ErrChildNotFound       = errors.New("child not found")
	ErrLessonNotFound      = errors.New("lesson not found")
	ErrSlideNotFound       = errors.New("slide not found")
	ErrQuestionNotFound    = errors.New("question not found")
	ErrProgressNotFound    = errors.New("progress not found")
	ErrAttendanceNotFound  = errors.New("attendance record not found")
	ErrAttendanceApproved  = errors.New("attendance already approved and cannot be changed")
	ErrInvalidStatus       = errors.New("invalid attendance status")
	ErrInvalidRating       = errors.New("confidence rating must be between 1 and 5")
	ErrNoLessonAccess      = errors.New("no valid access for this lesson")
	ErrRetryNotAllowed     = errors.New("retries not allowed for this question")
	ErrMaxAttemptsReached  = errors.New("maximum attempts reached")
	ErrBlockNotFound       = errors.New("question block not found")
	ErrUploadTooLarge      = errors.New("upload exceeds size limit")
)
