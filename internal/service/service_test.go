package service

import (
	"os"
	"testing"
	"time"

	"tutorhub_backend/internal/config"
	"tutorhub_backend/internal/model"
	"tutorhub_backend/internal/repository"
	"tutorhub_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

// newTestDB 内存sqlite，每个用例独立建库
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	err = db.AutoMigrate(
		&model.Child{},
		&model.Lesson{},
		&model.ContentLesson{},
		&model.LessonSlide{},
		&model.AccessGrant{},
		&model.Attendance{},
		&model.LessonProgress{},
		&model.SlideInteraction{},
		&model.Question{},
		&model.LessonQuestionResponse{},
		&model.LessonUpload{},
		&model.Notification{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

type testEnv struct {
	db           *gorm.DB
	children     *repository.ChildRepository
	access       *repository.AccessRepository
	lessons      *repository.LessonRepository
	content      *repository.ContentLessonRepository
	attendance   *repository.AttendanceRepository
	progress     *repository.ProgressRepository
	questions    *repository.QuestionRepository
	notification *repository.NotificationRepository
	uploads      *repository.UploadRepository

	roster       *RosterService
	attendanceSv *AttendanceService
	progressSv   *ProgressService
	questionSv   *QuestionService
	childSv      *ChildService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newTestDB(t)
	cfg := &config.Config{Roster: config.RosterConfig{CacheTTLSeconds: 60}}

	e := &testEnv{
		db:           db,
		children:     repository.NewChildRepository(db),
		access:       repository.NewAccessRepository(db),
		lessons:      repository.NewLessonRepository(db),
		content:      repository.NewContentLessonRepository(db),
		attendance:   repository.NewAttendanceRepository(db),
		progress:     repository.NewProgressRepository(db),
		questions:    repository.NewQuestionRepository(db),
		notification: repository.NewNotificationRepository(db),
		uploads:      repository.NewUploadRepository(db),
	}

	e.roster = NewRosterService(e.access, e.children, e.lessons, nil, cfg)
	e.attendanceSv = NewAttendanceService(e.attendance, e.lessons, e.roster)
	e.progressSv = NewProgressService(e.progress, e.content, e.uploads, e.roster)
	notificationSv := NewNotificationService(e.notification, e.children)
	e.questionSv = NewQuestionService(e.questions, e.progress, e.content, e.progressSv, notificationSv)
	e.childSv = NewChildService(e.children)
	return e
}

func (e *testEnv) mustCreateChild(t *testing.T, guardianID uint, name string) *model.Child {
	t.Helper()
	child := &model.Child{GuardianID: guardianID, ChildName: name, YearGroup: "Y4"}
	if err := e.children.Create(child); err != nil {
		t.Fatalf("create child: %v", err)
	}
	return child
}

func (e *testEnv) mustCreateLesson(t *testing.T, title string, start time.Time) *model.Lesson {
	t.Helper()
	lesson := &model.Lesson{Title: title, TutorID: 1, StartTime: start}
	if err := e.lessons.Create(lesson); err != nil {
		t.Fatalf("create lesson: %v", err)
	}
	return lesson
}

func (e *testEnv) mustCreateGrant(t *testing.T, grant *model.AccessGrant) *model.AccessGrant {
	t.Helper()
	if grant.PurchaseDate.IsZero() {
		grant.PurchaseDate = time.Now()
	}
	if err := e.access.Create(grant); err != nil {
		t.Fatalf("create grant: %v", err)
	}
	return grant
}

// mustCreateContentLesson 建课件并附带若干空白页
func (e *testEnv) mustCreateContentLesson(t *testing.T, slideCount int, rules model.CompletionRules) (*model.ContentLesson, []model.LessonSlide) {
	t.Helper()
	lesson := &model.ContentLesson{
		UID:             model.GenerateUUID(),
		Title:           "分数入门",
		IsPublished:     true,
		CompletionRules: rules,
	}
	if err := e.content.Create(lesson); err != nil {
		t.Fatalf("create content lesson: %v", err)
	}

	slides := make([]model.LessonSlide, 0, slideCount)
	for i := 0; i < slideCount; i++ {
		slide := model.LessonSlide{
			ContentLessonID: lesson.ID,
			UID:             model.GenerateUUID(),
			OrderPosition:   i,
			Blocks:          model.SlideBlockList{},
		}
		if err := e.content.CreateSlide(&slide); err != nil {
			t.Fatalf("create slide: %v", err)
		}
		slides = append(slides, slide)
	}
	return lesson, slides
}

func grantForContentLesson(childID, contentLessonID uint) *model.AccessGrant {
	return &model.AccessGrant{
		ChildID:         childID,
		ContentLessonID: &contentLessonID,
		Access:          true,
		PaymentStatus:   model.PaymentPaid,
		PurchaseDate:    time.Now(),
	}
}
