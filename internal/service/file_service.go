package service

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

var (
	ErrFileMissing        = errors.New("no file uploaded")
	ErrFileTooLarge       = errors.New("file size exceeds maximum allowed size")
	ErrFileTypeNotAllowed = errors.New("file type is not allowed")
)

const maxUploadSize = 10 * 1024 * 1024 // 10MB

var allowedMimeTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"text/plain": true,
	"image/png":  true,
	"image/jpeg": true,
	"image/jpg":  true,
}

// FileService guarda adjuntos en disco local y expone su URL pública.
type FileService struct {
	logger    *zap.Logger
	uploadDir string
	baseURL   string
}

func NewFileService(logger *zap.Logger, uploadDir, baseURL string) (*FileService, error) {
	if strings.TrimSpace(uploadDir) == "" {
		uploadDir = "uploads"
	}
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &FileService{
		logger:    logger,
		uploadDir: uploadDir,
		baseURL:   strings.TrimRight(baseURL, "/"),
	}, nil
}

type UploadedFile struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

// Save valida tamaño y mime type, y escribe el archivo con un nombre único
// {userID}_{timestamp}_{rand}{ext}.
func (s *FileService) Save(userID, originalName, mimeType string, size int64, r io.Reader) (UploadedFile, error) {
	if size > maxUploadSize {
		return UploadedFile{}, ErrFileTooLarge
	}
	if !allowedMimeTypes[mimeType] {
		return UploadedFile{}, fmt.Errorf("%w: %s", ErrFileTypeNotAllowed, mimeType)
	}

	ext := filepath.Ext(originalName)
	filename := fmt.Sprintf("%s_%d_%s%s", userID, time.Now().UnixMilli(), randomSuffix(), ext)
	path := filepath.Join(s.uploadDir, filename)

	f, err := os.Create(path)
	if err != nil {
		return UploadedFile{}, fmt.Errorf("create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, io.LimitReader(r, maxUploadSize+1)); err != nil {
		return UploadedFile{}, fmt.Errorf("write file: %w", err)
	}

	return UploadedFile{
		URL:      s.baseURL + "/uploads/" + filename,
		Filename: filename,
	}, nil
}

// Delete es best-effort: un archivo huérfano no rompe nada.
func (s *FileService) Delete(filename string) {
	path := filepath.Join(s.uploadDir, filepath.Base(filename))
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.logger.Warn("delete file failed", zap.String("filename", filename), zap.Error(err))
	}
}

func randomSuffix() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "00000000"
	}
	return hex.EncodeToString(b)
}
