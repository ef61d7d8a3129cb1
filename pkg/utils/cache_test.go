package utils

import (
	"testing"
	"time"
)

func TestCacheSetGet(t *testing.T) {
	SetCache("k1", "v1", time.Minute)

	got, ok := GetCache("k1")
	if !ok || got.(string) != "v1" {
		t.Errorf("GetCache = %v, %v", got, ok)
	}

	DeleteCache("k1")
	if _, ok := GetCache("k1"); ok {
		t.Error("删除后仍命中")
	}
}

func TestCacheExpiration(t *testing.T) {
	SetCache("k2", 42, -time.Second) // 已过期

	if _, ok := GetCache("k2"); ok {
		t.Error("过期缓存仍命中")
	}
}

func TestDetectContentType(t *testing.T) {
	// JPEG 魔数
	jpeg := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0, 0, 0, 0}
	if ct := DetectContentType(jpeg); ct != "image/jpeg" {
		t.Errorf("content type = %s", ct)
	}

	if !IsImageContentType("image/png") {
		t.Error("image/png 应是图片")
	}
	if IsImageContentType("application/pdf") {
		t.Error("pdf 不该当图片收")
	}
}
