package service

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"bdshop_dev_v1_202608/pkg/utils"
)

// ==================== 接口定义 ====================

// StorageProvider 存储提供者接口
// 商品图、分类图、付款凭证统一走这里
type StorageProvider interface {
	// Upload 上传文件，返回公开访问 URL 与对象 key
	Upload(ctx context.Context, data []byte, filename string, contentType string) (url, key string, err error)

	// Delete 按对象 key 删除文件
	Delete(ctx context.Context, key string) error
}

// ==================== 配置 ====================

// StorageConfig 存储配置
type StorageConfig struct {
	Provider  string // "s3" | "local"
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
	Endpoint  string
	CDNDomain string // CDN 域名（可选）
	BasePath  string // 基础路径前缀
	LocalDir  string // local: 落盘目录
	LocalBase string // local: 对外 URL 前缀
}

// ==================== 工厂方法 ====================

// NewStorageProvider 按配置创建存储提供者
func NewStorageProvider(cfg *StorageConfig) (StorageProvider, error) {
	switch cfg.Provider {
	case "s3":
		return NewS3Storage(cfg)
	case "local":
		return NewLocalStorage(cfg)
	default:
		return nil, fmt.Errorf("不支持的存储提供者: %s", cfg.Provider)
	}
}

// generateKey 生成对象 key：前缀/日期/uuid.ext
func generateKey(basePath, filename string) string {
	ext := filepath.Ext(filename)
	if ext == "" {
		ext = ".jpg"
	}
	newFilename := fmt.Sprintf("%s%s", uuid.New().String(), ext)

	datePath := time.Now().Format("2006/01/02")
	if basePath != "" {
		return fmt.Sprintf("%s/%s/%s", basePath, datePath, newFilename)
	}
	return fmt.Sprintf("%s/%s", datePath, newFilename)
}

// ==================== S3 实现 ====================

// S3Storage S3 存储
type S3Storage struct {
	client    *s3.Client
	bucket    string
	region    string
	cdnDomain string
	basePath  string
}

// NewS3Storage 创建 S3 存储
func NewS3Storage(cfg *StorageConfig) (*S3Storage, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("加载AWS配置失败: %v", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Storage{
		client:    client,
		bucket:    cfg.Bucket,
		region:    cfg.Region,
		cdnDomain: cfg.CDNDomain,
		basePath:  cfg.BasePath,
	}, nil
}

func (s *S3Storage) Upload(ctx context.Context, data []byte, filename string, contentType string) (string, string, error) {
	key := generateKey(s.basePath, filename)

	if contentType == "" {
		contentType = utils.DetectContentType(data)
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", "", fmt.Errorf("上传S3失败: %v", err)
	}

	return s.getPublicURL(key), key, nil
}

func (s *S3Storage) Delete(ctx context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("对象 key 为空")
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err
}

func (s *S3Storage) getPublicURL(key string) string {
	if s.cdnDomain != "" {
		return fmt.Sprintf("https://%s/%s", s.cdnDomain, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}

// ==================== 本地磁盘实现 ====================

// LocalStorage 本地磁盘存储（开发/单机部署用）
type LocalStorage struct {
	dir      string
	baseURL  string
	basePath string
}

// NewLocalStorage 创建本地存储
func NewLocalStorage(cfg *StorageConfig) (*LocalStorage, error) {
	dir := cfg.LocalDir
	if dir == "" {
		dir = "./uploads"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("创建上传目录失败: %v", err)
	}

	return &LocalStorage{
		dir:      dir,
		baseURL:  strings.TrimSuffix(cfg.LocalBase, "/"),
		basePath: cfg.BasePath,
	}, nil
}

func (s *LocalStorage) Upload(ctx context.Context, data []byte, filename string, contentType string) (string, string, error) {
	key := generateKey(s.basePath, filename)

	path := filepath.Join(s.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", "", fmt.Errorf("创建目录失败: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", "", fmt.Errorf("写入文件失败: %v", err)
	}

	return fmt.Sprintf("%s/%s", s.baseURL, key), key, nil
}

func (s *LocalStorage) Delete(ctx context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("对象 key 为空")
	}
	return os.Remove(filepath.Join(s.dir, filepath.FromSlash(key)))
}

// ==================== StorageService 包装层 ====================

// StorageService 存储服务（包装 StorageProvider，附带暂存落盘语义）
type StorageService struct {
	provider StorageProvider
	config   *StorageConfig
}

// NewStorageService 创建存储服务
func NewStorageService(cfg *StorageConfig) (*StorageService, error) {
	provider, err := NewStorageProvider(cfg)
	if err != nil {
		return nil, err
	}
	return &StorageService{
		provider: provider,
		config:   cfg,
	}, nil
}

// UploadStaged 先落临时盘再转存，成功失败都清掉暂存文件
func (s *StorageService) UploadStaged(ctx context.Context, file *utils.UploadedFile) (url, key string, err error) {
	tmpPath, err := utils.StageTempFile(file.Data, file.Filename)
	if err != nil {
		return "", "", err
	}
	defer utils.RemoveTempFile(tmpPath)

	data, err := os.ReadFile(tmpPath)
	if err != nil {
		return "", "", fmt.Errorf("读取暂存文件失败: %w", err)
	}

	return s.provider.Upload(ctx, data, file.Filename, file.ContentType)
}

// Delete 删除对象
func (s *StorageService) Delete(ctx context.Context, key string) error {
	return s.provider.Delete(ctx, key)
}
