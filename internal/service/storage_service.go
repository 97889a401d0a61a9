package service

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"tutorhub_backend/internal/config"
	"tutorhub_backend/pkg/logger"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// StorageProvider 文件存储后端抽象
type StorageProvider interface {
	Upload(ctx context.Context, objectKey string, file multipart.File, size int64, contentType string) (string, error)
	Delete(ctx context.Context, objectKey string) error
	URL(objectKey string) string
}

// NewStorageProvider 按配置选择存储后端，默认本地磁盘
func NewStorageProvider(cfg *config.Config) (StorageProvider, error) {
	switch cfg.Storage.Type {
	case "minio":
		return newMinioProvider(cfg)
	case "local", "":
		return &localProvider{basePath: cfg.Storage.LocalPath}, nil
	default:
		return nil, fmt.Errorf("未知的存储类型: %s", cfg.Storage.Type)
	}
}

type localProvider struct {
	basePath string
}

func (p *localProvider) Upload(ctx context.Context, objectKey string, file multipart.File, size int64, contentType string) (string, error) {
	fullPath := filepath.Join(p.basePath, objectKey)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", err
	}

	dst, err := os.Create(fullPath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		return "", err
	}
	return p.URL(objectKey), nil
}

func (p *localProvider) Delete(ctx context.Context, objectKey string) error {
	return os.Remove(filepath.Join(p.basePath, objectKey))
}

func (p *localProvider) URL(objectKey string) string {
	return "/uploads/" + strings.TrimPrefix(objectKey, "/")
}

type minioProvider struct {
	client *minio.Client
	bucket string
}

func newMinioProvider(cfg *config.Config) (*minioProvider, error) {
	client, err := minio.New(cfg.Storage.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Storage.MinioAccessID, cfg.Storage.MinioSecret, ""),
		Secure: false,
	})
	if err != nil {
		return nil, fmt.Errorf("初始化 MinIO 客户端失败: %w", err)
	}

	p := &minioProvider{client: client, bucket: cfg.Storage.MinioBucket}

	exists, err := client.BucketExists(context.Background(), p.bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := client.MakeBucket(context.Background(), p.bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, err
		}
		logger.Log.Info("已创建存储桶", zap.String("bucket", p.bucket))
	}
	return p, nil
}

func (p *minioProvider) Upload(ctx context.Context, objectKey string, file multipart.File, size int64, contentType string) (string, error) {
	_, err := p.client.PutObject(ctx, p.bucket, objectKey, file, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return p.URL(objectKey), nil
}

func (p *minioProvider) Delete(ctx context.Context, objectKey string) error {
	return p.client.RemoveObject(ctx, p.bucket, objectKey, minio.RemoveObjectOptions{})
}

func (p *minioProvider) URL(objectKey string) string {
	return fmt.Sprintf("%s/%s/%s", p.client.EndpointURL().String(), p.bucket, objectKey)
}
