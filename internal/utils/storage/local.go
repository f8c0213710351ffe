package storage

import (
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
)

type localStorage struct {
	baseDir string
	baseURL string
}

// NewLocalStorage stores uploads on disk under baseDir. Object keys are
// paths relative to baseDir, so records stay valid if the directory moves.
func NewLocalStorage(baseDir, baseURL string) (Storage, error) {
	if err := os.MkdirAll(baseDir, os.ModePerm); err != nil {
		return nil, err
	}
	return &localStorage{
		baseDir: baseDir,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}, nil
}

func (s *localStorage) UploadFile(fileName string, file *multipart.FileHeader, folder string, allowedTypes ...string) (string, error) {
	ext, err := checkFileType(file, allowedTypes)
	if err != nil {
		return "", err
	}
	if ext == "" {
		ext = filepath.Ext(file.Filename)
	}

	key := objectKey(folder, fileName, ext)
	dst := filepath.Join(s.baseDir, filepath.FromSlash(key))

	if err := os.MkdirAll(filepath.Dir(dst), os.ModePerm); err != nil {
		return "", err
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		_ = os.Remove(dst)
		return "", err
	}

	return key, nil
}

func (s *localStorage) DeleteFile(objectKey string) error {
	if objectKey == "" {
		return nil
	}
	return os.Remove(filepath.Join(s.baseDir, filepath.FromSlash(objectKey)))
}

func (s *localStorage) PublicLink(objectKey string) string {
	if objectKey == "" {
		return ""
	}
	return s.baseURL + "/" + objectKey
}
