package service

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"coursehub_backend/internal/config"
	"coursehub_backend/internal/model"
	"coursehub_backend/internal/testutil"
	"coursehub_backend/internal/util"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestLocalStorageUpload(t *testing.T) {
	dir := t.TempDir()
	p := &LocalStorageProvider{Config: &config.StorageConfig{LocalPath: dir}}

	url, err := p.Upload(context.Background(), "thumbnails/c1/a.png", bytes.NewReader(pngHeader), int64(len(pngHeader)), "image/png")
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if url != "/uploads/thumbnails/c1/a.png" {
		t.Fatalf("url = %q", url)
	}
	got, err := os.ReadFile(filepath.Join(dir, "thumbnails", "c1", "a.png"))
	if err != nil || !bytes.Equal(got, pngHeader) {
		t.Fatalf("stored file = %q, %v", got, err)
	}

	// 相对路径不能逃出存储目录
	if _, err := p.Upload(context.Background(), "../../escape.png", bytes.NewReader(pngHeader), int64(len(pngHeader)), "image/png"); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "escape.png")); err != nil {
		t.Fatalf("key should be confined to the storage dir: %v", err)
	}
}

func TestUploadCourseThumbnail(t *testing.T) {
	env := newTestEnv(t)
	dir := t.TempDir()
	env.content.Storage = &LocalStorageProvider{Config: &config.StorageConfig{LocalPath: dir}}
	fx := testutil.SeedCourse(t, env.db, ownerID, 0, 0)

	_, err := env.content.UploadCourseThumbnail(env.ctx, owner, fx.Course.ID, "notes.txt", strings.NewReader("hello"), 5)
	if !util.IsValidation(err) {
		t.Fatalf("txt upload: expected validation error, got %v", err)
	}
	_, err = env.content.UploadCourseThumbnail(env.ctx, owner, fx.Course.ID, "fake.png", strings.NewReader("plain text, not an image"), 24)
	if !util.IsValidation(err) {
		t.Fatalf("disguised upload: expected validation error, got %v", err)
	}
	_, err = env.content.UploadCourseThumbnail(env.ctx, learner, fx.Course.ID, "a.png", bytes.NewReader(pngHeader), int64(len(pngHeader)))
	if !errors.Is(err, util.ErrForbidden) {
		t.Fatalf("learner upload: expected ErrForbidden, got %v", err)
	}

	url, err := env.content.UploadCourseThumbnail(env.ctx, owner, fx.Course.ID, "Cover.PNG", bytes.NewReader(pngHeader), int64(len(pngHeader)))
	if err != nil {
		t.Fatalf("UploadCourseThumbnail: %v", err)
	}
	if !strings.HasPrefix(url, "/uploads/thumbnails/"+fx.Course.ID+"/") || !strings.HasSuffix(url, ".png") {
		t.Fatalf("url = %q", url)
	}

	var stored model.Course
	if err := env.db.First(&stored, "id = ?", fx.Course.ID).Error; err != nil {
		t.Fatalf("load course: %v", err)
	}
	if stored.Thumbnail != url {
		t.Fatalf("thumbnail = %q, want %q", stored.Thumbnail, url)
	}
}
