package utils

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// TempUploadDir 上传文件的本地暂存目录
// 正常路径用完即删；异常残留由 task.CleanupTask 定期回收
var TempUploadDir = filepath.Join(os.TempDir(), "bdshop-uploads")

// UploadedFile 进入业务层的上传文件
type UploadedFile struct {
	Data        []byte
	Filename    string
	ContentType string
}

// ReadMultipartFile 读取 multipart 文件字段
func ReadMultipartFile(fh *multipart.FileHeader) (*UploadedFile, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("打开上传文件失败: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("读取上传文件失败: %w", err)
	}

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = DetectContentType(data)
	}

	return &UploadedFile{
		Data:        data,
		Filename:    fh.Filename,
		ContentType: contentType,
	}, nil
}

// StageTempFile 把上传内容暂存到本地临时目录，返回路径
// 调用方必须 defer RemoveTempFile，保证成功失败都清掉
func StageTempFile(data []byte, filename string) (string, error) {
	if err := os.MkdirAll(TempUploadDir, 0o755); err != nil {
		return "", fmt.Errorf("创建暂存目录失败: %w", err)
	}

	ext := filepath.Ext(filename)
	path := filepath.Join(TempUploadDir, uuid.New().String()+ext)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("写入暂存文件失败: %w", err)
	}
	return path, nil
}

// RemoveTempFile 删除暂存文件（容忍已不存在）
func RemoveTempFile(path string) {
	if path == "" {
		return
	}
	_ = os.Remove(path)
}

// DetectContentType 嗅探内容类型
func DetectContentType(data []byte) string {
	return http.DetectContentType(data)
}

// IsImageContentType 是否图片类型（商品图/付款凭证只收图片）
func IsImageContentType(ct string) bool {
	switch ct {
	case "image/jpeg", "image/png", "image/gif", "image/webp":
		return true
	}
	return false
}
