package menu

import (
	"errors"
	"path/filepath"
	"strings"
)

// MaxUploadSize caps menu uploads at 10MB.
const MaxUploadSize = 10 << 20

var (
	ErrMissingExtension = errors.New("file extension missing")
	ErrFileType         = errors.New("file type not allowed")
	ErrFileTooLarge     = errors.New("file size must be less than 10MB")
	ErrEmptyFile        = errors.New("file is empty")
)

var allowedExt = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

func ValidateFileExtension(filename string) error {
	ext := strings.ToLower(filepath.Ext(filename))

	if ext == "" {
		return ErrMissingExtension
	}

	if _, ok := allowedExt[ext]; !ok {
		return ErrFileType
	}

	return nil
}

// ValidateUpload checks name and size of an incoming menu file.
func ValidateUpload(filename string, size int64) error {
	if err := ValidateFileExtension(filename); err != nil {
		return err
	}
	if size <= 0 {
		return ErrEmptyFile
	}
	if size > MaxUploadSize {
		return ErrFileTooLarge
	}
	return nil
}

// ContentType maps an allowed extension to its MIME type.
func ContentType(filename string) string {
	if ct, ok := allowedExt[strings.ToLower(filepath.Ext(filename))]; ok {
		return ct
	}
	return "application/octet-stream"
}
