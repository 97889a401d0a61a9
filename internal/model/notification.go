package model

import "time"

// 通知类型
const (
	NotificationGraded = "submission_graded"
)

// Notification 判分完成等事件产生的站内通知，写入即忘
type Notification struct {
	BaseModel
	UserID uint       `gorm:"index;type:bigint unsigned;not null" json:"userId"`
	Type   string     `gorm:"size:50;not null" json:"type"`
	Title  string     `gorm:"size:255" json:"title"`
	Body   string     `gorm:"type:text" json:"body"`
	RefID  string     `gorm:"size:64" json:"refId"`
	ReadAt *time.Time `json:"readAt,omitempty"`
}

func (Notification) TableName() string {
	return "notifications"
}
