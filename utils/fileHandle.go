package utils

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fportal/config"

	"github.com/google/uuid"
)

// SaveUploadedFile stores an uploaded file under
// <uploadDir>/<category>/<field>-<timestamp>-<random><ext> and returns the
// public URL path.
func SaveUploadedFile(file *multipart.FileHeader, category, field string) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	destDir := filepath.Join(config.AppConfig.UploadDir, category)
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", err
	}

	ext := filepath.Ext(file.Filename)
	newFilename := fmt.Sprintf("%s-%d-%s%s", field, time.Now().UnixMilli(), uuid.NewString()[:8], ext)
	filePath := filepath.Join(destDir, newFilename)

	dst, err := os.Create(filePath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}

	return "/uploads/" + category + "/" + newFilename, nil
}

// FileTypeAllowed checks a filename extension against a comma-separated
// allow list such as ".pdf,.zip". An empty list allows everything.
func FileTypeAllowed(filename, allowedTypes string) bool {
	if strings.TrimSpace(allowedTypes) == "" {
		return true
	}
	ext := strings.ToLower(filepath.Ext(filename))
	for _, t := range strings.Split(allowedTypes, ",") {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" && !strings.HasPrefix(t, ".") {
			t = "." + t
		}
		if t == ext {
			return true
		}
	}
	return false
}
