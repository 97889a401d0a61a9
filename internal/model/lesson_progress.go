package model

import "time"

type ProgressStatus string

const (
	ProgressNotStarted ProgressStatus = "not_started"
	ProgressInProgress ProgressStatus = "in_progress"
	ProgressCompleted  ProgressStatus = "completed"
)

// LessonProgress 学员对一个课件的累计学习进度，(child_id, lesson_id) 唯一。
// completion_percentage 只由 slides_viewed 重新计算得出，客户端不可直写。
type LessonProgress struct {
	BaseModel
	ChildID              uint           `gorm:"type:bigint unsigned;not null;uniqueIndex:idx_child_lesson" json:"childId"`
	LessonID             uint           `gorm:"type:bigint unsigned;not null;uniqueIndex:idx_child_lesson" json:"lessonId"`
	Status               ProgressStatus `gorm:"size:20;default:'in_progress'" json:"status"`
	SlidesViewed         IDList         `gorm:"type:json" json:"slidesViewed"`
	LastSlideID          *uint          `gorm:"type:bigint unsigned" json:"lastSlideId,omitempty"`
	CompletionPercentage int            `gorm:"default:0" json:"completionPercentage"`
	TimeSpentSeconds     int            `gorm:"default:0" json:"timeSpentSeconds"`
	QuestionsAttempted   int            `gorm:"default:0" json:"questionsAttempted"`
	QuestionsCorrect     int            `gorm:"default:0" json:"questionsCorrect"`
	QuestionsScore       float64        `gorm:"type:decimal(5,2);default:0" json:"questionsScore"`
	UploadsSubmitted     int            `gorm:"default:0" json:"uploadsSubmitted"`
	UploadsRequired      int            `gorm:"default:0" json:"uploadsRequired"`
	StartedAt            *time.Time     `json:"startedAt,omitempty"`
	CompletedAt          *time.Time     `json:"completedAt,omitempty"`
	LastAccessedAt       *time.Time     `json:"lastAccessedAt,omitempty"`
}

func (LessonProgress) TableName() string {
	return "lesson_progress"
}

// MarkSlideViewed 集合语义记录浏览；重复浏览不改变进度。
// totalSlides 为课件总页数，返回是否有新增。
func (p *LessonProgress) MarkSlideViewed(slideID uint, totalSlides int, now time.Time) bool {
	if !p.SlidesViewed.Add(slideID) {
		return false
	}
	p.LastSlideID = &slideID
	p.LastAccessedAt = &now
	if totalSlides > 0 {
		p.CompletionPercentage = len(p.SlidesViewed) * 100 / totalSlides
	} else {
		p.CompletionPercentage = 0
	}
	return true
}

// Accuracy 已答题正确率（百分比）
func (p *LessonProgress) Accuracy() float64 {
	if p.QuestionsAttempted == 0 {
		return 0
	}
	return float64(p.QuestionsCorrect) / float64(p.QuestionsAttempted) * 100
}

// MeetsCompletion 按课件规则判断是否达成完成条件
func (p *LessonProgress) MeetsCompletion(rules CompletionRules) bool {
	if rules.MinSlidesViewed > 0 && len(p.SlidesViewed) < rules.MinSlidesViewed {
		return false
	}
	if rules.MinScore > 0 && p.QuestionsScore < rules.MinScore {
		return false
	}
	if rules.AllUploadsRequired && p.UploadsSubmitted < p.UploadsRequired {
		return false
	}
	return true
}
