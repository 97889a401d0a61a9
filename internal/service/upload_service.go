package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"time"

	"tutorhub_backend/internal/model"
	"tutorhub_backend/internal/repository"
	"tutorhub_backend/internal/util"
	"tutorhub_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MaxUploadSize 单个附件上限 100MB
const MaxUploadSize = 100 << 20

var allowedUploadTypes = []string{"image/", "video/", "audio/", "application/pdf"}

// UploadService 课件作业附件上传。
// 视频文件上传后用 ffprobe 补全时长与分辨率；
// 成功提交会累加进度上的 uploads_submitted 并触发一次完成判定。
type UploadService struct {
	UploadRepo   *repository.UploadRepository
	ProgressRepo *repository.ProgressRepository
	Progress     *ProgressService
	Storage      StorageProvider
}

func NewUploadService(uploadRepo *repository.UploadRepository, progressRepo *repository.ProgressRepository,
	progress *ProgressService, storage StorageProvider) *UploadService {
	return &UploadService{
		UploadRepo:   uploadRepo,
		ProgressRepo: progressRepo,
		Progress:     progress,
		Storage:      storage,
	}
}

// Submit 为课件提交一个附件
func (s *UploadService) Submit(ctx context.Context, childID, contentLessonID uint, header *multipart.FileHeader) (*model.LessonUpload, error) {
	if header.Size > MaxUploadSize {
		return nil, util.ErrUploadTooLarge
	}

	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	mimeType, err := util.ValidateMimeType(file, allowedUploadTypes)
	if err != nil {
		return nil, err
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	ext := util.SafeExt(header.Filename)
	objectKey := fmt.Sprintf("lesson-uploads/%d/%d/%s%s", contentLessonID, childID, model.GenerateUUID(), ext)

	url, err := s.Storage.Upload(ctx, objectKey, file, header.Size, mimeType)
	if err != nil {
		return nil, err
	}

	upload := &model.LessonUpload{
		ContentLessonID: contentLessonID,
		ChildID:         childID,
		FileName:        header.Filename,
		ObjectKey:       objectKey,
		MimeType:        mimeType,
		Kind:            uploadKind(mimeType),
		SizeBytes:       header.Size,
		URL:             url,
		UploadedAt:      time.Now(),
	}

	if util.IsVideo(mimeType) {
		if info, err := s.probeVideo(file, ext); err != nil {
			logger.Log.Warn("视频探测失败", zap.String("file", header.Filename), zap.Error(err))
		} else {
			upload.DurationSeconds = info.Duration
			upload.Width = info.Width
			upload.Height = info.Height
		}
	}

	if err := s.UploadRepo.Create(upload); err != nil {
		return nil, err
	}

	if err := s.bumpProgress(childID, contentLessonID); err != nil {
		logger.Log.Warn("更新附件提交计数失败", zap.Uint("childID", childID), zap.Error(err))
	}
	return upload, nil
}

func uploadKind(mimeType string) string {
	switch {
	case util.IsImage(mimeType):
		return "image"
	case util.IsVideo(mimeType):
		return "video"
	case util.IsAudio(mimeType):
		return "audio"
	default:
		return "document"
	}
}

// probeVideo 将上传流落到临时文件后交给 ffprobe
func (s *UploadService) probeVideo(file multipart.File, ext string) (*util.VideoInfo, error) {
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	tmp, err := os.CreateTemp("", "upload-probe-*"+ext)
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	if _, err := io.Copy(tmp, file); err != nil {
		return nil, err
	}
	return util.GetVideoInfo(tmp.Name())
}

func (s *UploadService) bumpProgress(childID, contentLessonID uint) error {
	progress, err := s.ProgressRepo.Find(childID, contentLessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 尚未开始学习时允许先交附件，不动进度
			return nil
		}
		return err
	}
	progress.UploadsSubmitted++
	if err := s.ProgressRepo.Save(progress); err != nil {
		return err
	}
	_, _, err = s.Progress.CheckCompletion(childID, contentLessonID)
	return err
}

func (s *UploadService) List(childID, contentLessonID uint) ([]model.LessonUpload, error) {
	return s.UploadRepo.ListByChildAndLesson(childID, contentLessonID)
}

func (s *UploadService) Delete(ctx context.Context, childID uint, uuid string) error {
	upload, err := s.UploadRepo.FindByUUID(uuid)
	if err != nil {
		return err
	}
	if upload.ChildID != childID {
		return util.ErrPermissionDenied
	}
	if err := s.Storage.Delete(ctx, upload.ObjectKey); err != nil {
		logger.Log.Warn("删除存储对象失败", zap.String("objectKey", upload.ObjectKey), zap.Error(err))
	}
	return s.UploadRepo.Delete(uuid)
}
