package model

import "time"

// LessonUpload 学员为课件提交的附件（作业照片、音视频等）。
// 视频文件在上传时用 ffprobe 补全时长和分辨率。
type LessonUpload struct {
	UUIDBase
	ContentLessonID uint      `gorm:"index;type:bigint unsigned;not null" json:"contentLessonId"`
	ChildID         uint      `gorm:"index;type:bigint unsigned;not null" json:"childId"`
	FileName        string    `gorm:"size:255;not null" json:"fileName"`
	ObjectKey       string    `gorm:"size:255;not null" json:"objectKey"`
	MimeType        string    `gorm:"size:100" json:"mimeType"`
	Kind            string    `gorm:"size:20;index" json:"kind"`
	SizeBytes       int64     `gorm:"default:0" json:"sizeBytes"`
	DurationSeconds float64   `gorm:"default:0" json:"durationSeconds"`
	Width           int       `gorm:"default:0" json:"width"`
	Height          int       `gorm:"default:0" json:"height"`
	URL             string    `gorm:"size:500" json:"url"`
	UploadedAt      time.Time `json:"uploadedAt"`
}

func (LessonUpload) TableName() string {
	return "lesson_uploads"
}
