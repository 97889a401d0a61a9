package service

import (
	"errors"

	"tutorhub_backend/internal/model"
	"tutorhub_backend/internal/repository"
	"tutorhub_backend/internal/util"

	"gorm.io/gorm"
)

// LessonService 课件播放与内容管理。
// 播放视图把 question 块展开为完整题面，但剥离 is_correct 标记，
// 正确答案不下发到客户端。
type LessonService struct {
	ContentRepo  *repository.ContentLessonRepository
	LessonRepo   *repository.LessonRepository
	QuestionRepo *repository.QuestionRepository
	Roster       *RosterService
}

func NewLessonService(contentRepo *repository.ContentLessonRepository, lessonRepo *repository.LessonRepository,
	questionRepo *repository.QuestionRepository, roster *RosterService) *LessonService {
	return &LessonService{
		ContentRepo:  contentRepo,
		LessonRepo:   lessonRepo,
		QuestionRepo: questionRepo,
		Roster:       roster,
	}
}

// PlayerOption 下发给播放器的选项，不含正确性标记
type PlayerOption struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// PlayerQuestion 播放器视角的题面
type PlayerQuestion struct {
	ID            uint               `json:"id"`
	QuestionText  string             `json:"questionText"`
	QuestionType  model.QuestionType `json:"questionType"`
	Marks         float64            `json:"marks"`
	Options       []PlayerOption     `json:"options,omitempty"`
	AllowMultiple bool               `json:"allowMultiple,omitempty"`
}

// PlayerBlock 播放器视角的内容块；question 块携带展开后的题面
type PlayerBlock struct {
	ID           string          `json:"id"`
	Type         string          `json:"type"`
	HTML         string          `json:"html,omitempty"`
	MediaURL     string          `json:"mediaUrl,omitempty"`
	Question     *PlayerQuestion `json:"question,omitempty"`
	RetryAllowed bool            `json:"retryAllowed,omitempty"`
	MaxAttempts  int             `json:"maxAttempts,omitempty"`
}

type PlayerSlide struct {
	ID            uint          `json:"id"`
	UID           string        `json:"uid"`
	Title         string        `json:"title"`
	OrderPosition int           `json:"orderPosition"`
	Blocks        []PlayerBlock `json:"blocks"`
}

type PlayerView struct {
	Lesson *model.ContentLesson `json:"lesson"`
	Slides []PlayerSlide        `json:"slides"`
}

// PlayerContent 组装课件播放内容。学员必须持有效授权且课件已发布。
func (s *LessonService) PlayerContent(childID, contentLessonID uint) (*PlayerView, error) {
	lesson, err := s.ContentRepo.FindByID(contentLessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}
	if !lesson.IsPublished {
		return nil, util.ErrLessonNotFound
	}

	ok, err := s.Roster.HasContentLessonAccess(childID, contentLessonID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, util.ErrNoLessonAccess
	}

	slides, err := s.ContentRepo.SlidesByLesson(contentLessonID)
	if err != nil {
		return nil, err
	}

	// 收集全部题目ID一次查出
	var questionIDs []uint
	for i := range slides {
		for _, block := range slides[i].Blocks {
			if block.Type == model.BlockTypeQuestion && block.Content.QuestionID != 0 {
				questionIDs = append(questionIDs, block.Content.QuestionID)
			}
		}
	}
	questions, err := s.QuestionRepo.FindByIDs(questionIDs)
	if err != nil {
		return nil, err
	}

	view := &PlayerView{Lesson: lesson, Slides: make([]PlayerSlide, 0, len(slides))}
	for i := range slides {
		ps := PlayerSlide{
			ID:            slides[i].ID,
			UID:           slides[i].UID,
			Title:         slides[i].Title,
			OrderPosition: slides[i].OrderPosition,
			Blocks:        make([]PlayerBlock, 0, len(slides[i].Blocks)),
		}
		for _, block := range slides[i].Blocks {
			pb := PlayerBlock{
				ID:       block.ID,
				Type:     block.Type,
				HTML:     block.Content.HTML,
				MediaURL: block.Content.MediaURL,
			}
			if block.Type == model.BlockTypeQuestion {
				pb.RetryAllowed = block.Content.RetryAllowed
				pb.MaxAttempts = block.Content.MaxAttempts
				if q, found := questions[block.Content.QuestionID]; found {
					pb.Question = playerQuestion(q)
				}
			}
			ps.Blocks = append(ps.Blocks, pb)
		}
		view.Slides = append(view.Slides, ps)
	}
	return view, nil
}

func playerQuestion(q *model.Question) *PlayerQuestion {
	pq := &PlayerQuestion{
		ID:            q.ID,
		QuestionText:  q.QuestionText,
		QuestionType:  q.QuestionType,
		Marks:         q.Marks,
		AllowMultiple: q.Data.AllowMultiple,
	}
	for _, opt := range q.Data.Options {
		pq.Options = append(pq.Options, PlayerOption{ID: opt.ID, Text: opt.Text})
	}
	return pq
}

// ---- 内容管理（管理员/导师） ----

func (s *LessonService) CreateContentLesson(lesson *model.ContentLesson) error {
	if lesson.UID == "" {
		lesson.UID = model.GenerateUUID()
	}
	return s.ContentRepo.Create(lesson)
}

func (s *LessonService) GetContentLesson(id uint) (*model.ContentLesson, error) {
	lesson, err := s.ContentRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}
	return lesson, nil
}

func (s *LessonService) ListPublished(page, pageSize int) ([]model.ContentLesson, int64, error) {
	return s.ContentRepo.ListPublished(page, pageSize)
}

func (s *LessonService) UpdateContentLesson(lesson *model.ContentLesson) error {
	return s.ContentRepo.Save(lesson)
}

func (s *LessonService) DeleteContentLesson(id uint) error {
	return s.ContentRepo.Delete(id)
}

func (s *LessonService) CreateSlide(slide *model.LessonSlide) error {
	if _, err := s.GetContentLesson(slide.ContentLessonID); err != nil {
		return err
	}
	if slide.UID == "" {
		slide.UID = model.GenerateUUID()
	}
	return s.ContentRepo.CreateSlide(slide)
}

func (s *LessonService) UpdateSlide(slide *model.LessonSlide) error {
	return s.ContentRepo.SaveSlide(slide)
}

func (s *LessonService) DeleteSlide(id uint) error {
	return s.ContentRepo.DeleteSlide(id)
}

// ---- 直播排课 ----

func (s *LessonService) CreateLesson(lesson *model.Lesson) error {
	return s.LessonRepo.Create(lesson)
}

func (s *LessonService) GetLesson(id uint) (*model.Lesson, error) {
	lesson, err := s.LessonRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}
	return lesson, nil
}

func (s *LessonService) ListLessons(page, pageSize int) ([]model.Lesson, int64, error) {
	return s.LessonRepo.List(page, pageSize)
}

func (s *LessonService) UpdateLesson(lesson *model.Lesson) error {
	return s.LessonRepo.Save(lesson)
}

func (s *LessonService) DeleteLesson(id uint) error {
	return s.LessonRepo.Delete(id)
}

// ---- 题库 ----

func (s *LessonService) CreateQuestion(q *model.Question) error {
	return s.QuestionRepo.Create(q)
}

func (s *LessonService) GetQuestion(id uint) (*model.Question, error) {
	q, err := s.QuestionRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuestionNotFound
		}
		return nil, err
	}
	return q, nil
}

func (s *LessonService) ListQuestions(page, pageSize int) ([]model.Question, int64, error) {
	return s.QuestionRepo.List(page, pageSize)
}

func (s *LessonService) UpdateQuestion(q *model.Question) error {
	return s.QuestionRepo.Save(q)
}

func (s *LessonService) DeleteQuestion(id uint) error {
	return s.QuestionRepo.Delete(id)
}
