package service

import (
	"errors"
	"fmt"
	"image"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

var ErrFileTooLarge = errors.New("file exceeds the upload size limit")

// StoredFile describes a successfully uploaded blob.
type StoredFile struct {
	URL    string
	Name   string
	Width  int
	Height int
}

// UploadService 把上传文件保存到本地目录并返回可公开访问的 URL。
// 只在投稿阶段使用，核心调度器不依赖它。
type UploadService struct {
	dir      string
	urlPath  string
	maxBytes int64
}

// NewUploadService creates an upload channel rooted at dir, served under
// urlPath, rejecting files larger than maxBytes.
func NewUploadService(dir, urlPath string, maxBytes int64) *UploadService {
	return &UploadService{dir: dir, urlPath: urlPath, maxBytes: maxBytes}
}

// Save validates the size ceiling before writing, stores the file under a
// date-uuid name namespaced by user and returns its public URL. Image files
// additionally get their dimensions probed; a probe failure is not an error,
// the file is stored either way.
func (u *UploadService) Save(userID string, file *multipart.FileHeader) (*StoredFile, error) {
	if file.Size > u.maxBytes {
		return nil, ErrFileTooLarge
	}

	userDir := filepath.Join(u.dir, userID)
	if err := os.MkdirAll(userDir, 0o755); err != nil {
		return nil, err
	}

	ext := filepath.Ext(file.Filename)
	newName := fmt.Sprintf("%s-%s%s", time.Now().Format("20060102"), uuid.New().String(), ext)
	dst := filepath.Join(userDir, newName)

	if err := saveUploadedFile(file, dst); err != nil {
		return nil, err
	}

	stored := &StoredFile{
		URL:  fmt.Sprintf("%s/%s/%s", u.urlPath, userID, newName),
		Name: file.Filename,
	}

	if f, err := os.Open(dst); err == nil {
		if cfg, _, err := image.DecodeConfig(f); err == nil {
			stored.Width = cfg.Width
			stored.Height = cfg.Height
		}
		f.Close()
	}

	return stored, nil
}

func saveUploadedFile(file *multipart.FileHeader, dst string) error {
	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, src)
	return err
}
