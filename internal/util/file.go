package util

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
)

// sniffLen 与 http.DetectContentType 的窗口保持一致
const sniffLen = 512

// ValidateMimeType 按文件头嗅探 MIME 类型并与白名单比对。
// allowedTypes 可以是前缀（"image/"）或完整类型（"application/pdf"）。
// 读掉了文件开头，调用方需要自行 Seek 回起点。
func ValidateMimeType(reader io.Reader, allowedTypes []string) (string, error) {
	head := make([]byte, sniffLen)
	n, err := reader.Read(head)
	if err != nil && err != io.EOF {
		return "", err
	}
	mimeType := http.DetectContentType(head[:n])

	for _, allowed := range allowedTypes {
		if mimeType == allowed || strings.HasPrefix(mimeType, allowed) {
			return mimeType, nil
		}
	}
	return mimeType, fmt.Errorf("不支持的文件类型: %s", mimeType)
}

// SafeExt 返回净化后的小写扩展名（含点），异常文件名返回空串
func SafeExt(filename string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(filename)))
	if len(ext) > 10 || strings.ContainsAny(ext, "/\\") {
		return ""
	}
	return ext
}

func IsImage(mimeType string) bool {
	return strings.HasPrefix(mimeType, "image/")
}

func IsVideo(mimeType string) bool {
	return strings.HasPrefix(mimeType, "video/")
}

func IsAudio(mimeType string) bool {
	return strings.HasPrefix(mimeType, "audio/")
}
