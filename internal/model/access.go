package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// 支付状态
const (
	PaymentPaid     = "paid"
	PaymentPending  = "pending"
	PaymentRefunded = "refunded"
)

// AccessMetadata 购买套餐时写入的附加授权信息
type AccessMetadata struct {
	LiveLessonSessionIDs IDList `json:"live_lesson_session_ids,omitempty"`
	ContentLessonIDs     IDList `json:"content_lesson_ids,omitempty"`
	PackageCode          string `json:"package_code,omitempty"`
}

func (m AccessMetadata) Value() (driver.Value, error) {
	return json.Marshal(m)
}

func (m *AccessMetadata) Scan(value interface{}) error {
	return scanJSON(value, m)
}

// AccessGrant 购买完成后生成的授权记录；进度/考勤逻辑只读不写
type AccessGrant struct {
	BaseModel
	ChildID         uint           `gorm:"index;type:bigint unsigned;not null" json:"childId"`
	LessonID        *uint          `gorm:"index;type:bigint unsigned" json:"lessonId,omitempty"`
	ContentLessonID *uint          `gorm:"index;type:bigint unsigned" json:"contentLessonId,omitempty"`
	AssessmentID    *uint          `gorm:"index;type:bigint unsigned" json:"assessmentId,omitempty"`
	LessonIDs       IDList         `gorm:"type:json" json:"lessonIds"`
	AssessmentIDs   IDList         `gorm:"type:json" json:"assessmentIds"`
	Metadata        AccessMetadata `gorm:"type:json" json:"metadata"`
	TransactionID   string         `gorm:"size:100;index" json:"transactionId"`
	InvoiceID       string         `gorm:"size:100" json:"invoiceId"`
	PurchaseDate    time.Time      `json:"purchaseDate"`
	DueDate         *time.Time     `gorm:"type:date" json:"dueDate,omitempty"`
	Access          bool           `gorm:"default:false;index" json:"access"`
	PaymentStatus   string         `gorm:"size:20;default:'pending';index" json:"paymentStatus"`
}

func (AccessGrant) TableName() string {
	return "access_grants"
}

// Valid 授权是否当前有效
func (g *AccessGrant) Valid() bool {
	return g.Access && g.PaymentStatus == PaymentPaid
}

// CoversLesson 直接引用、lesson_ids 列表或套餐元数据包含该排课
func (g *AccessGrant) CoversLesson(lessonID uint) bool {
	if g.LessonID != nil && *g.LessonID == lessonID {
		return true
	}
	if g.LessonIDs.Contains(lessonID) {
		return true
	}
	return g.Metadata.LiveLessonSessionIDs.Contains(lessonID)
}

// CoversContentLesson 自学课件授权
func (g *AccessGrant) CoversContentLesson(contentLessonID uint) bool {
	if g.ContentLessonID != nil && *g.ContentLessonID == contentLessonID {
		return true
	}
	return g.Metadata.ContentLessonIDs.Contains(contentLessonID)
}

// CoversAssessment 测评授权
func (g *AccessGrant) CoversAssessment(assessmentID uint) bool {
	if g.AssessmentID != nil && *g.AssessmentID == assessmentID {
		return true
	}
	return g.AssessmentIDs.Contains(assessmentID)
}
