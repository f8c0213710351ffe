package storage

import (
	"errors"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// AllowImage is the mimetype whitelist for uploaded recipe images.
var AllowImage = []string{"image/jpeg", "image/png", "image/webp"}

var ErrFileTypeNotAllowed = errors.New("file type not allowed")

type Storage interface {
	// UploadFile stages the uploaded file under folder and returns the
	// object key the record should reference.
	UploadFile(fileName string, file *multipart.FileHeader, folder string, allowedTypes ...string) (string, error)
	// DeleteFile removes a previously stored object. Callers treat
	// failures as best-effort cleanup.
	DeleteFile(objectKey string) error
	// PublicLink resolves an object key to the URL served to clients.
	PublicLink(objectKey string) string
}

func checkFileType(file *multipart.FileHeader, allowedTypes []string) (string, error) {
	if len(allowedTypes) == 0 {
		return "", nil
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	mime, err := mimetype.DetectReader(src)
	if err != nil {
		return "", err
	}

	for _, allowed := range allowedTypes {
		if mime.Is(allowed) {
			return mime.Extension(), nil
		}
	}
	return "", ErrFileTypeNotAllowed
}

func objectKey(folder, fileName, ext string) string {
	name := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	return filepath.ToSlash(filepath.Join(folder, name+ext))
}
