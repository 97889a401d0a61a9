package model

import "time"

// Child 监护人名下的学员
type Child struct {
	BaseModel
	GuardianID  uint       `gorm:"index;type:bigint unsigned" json:"guardianId"`
	ChildName   string     `gorm:"size:100;not null" json:"childName"`
	DateOfBirth *time.Time `gorm:"type:date" json:"dateOfBirth,omitempty"`
	YearGroup   string     `gorm:"size:20" json:"yearGroup"`
}

func (Child) TableName() string {
	return "children"
}
