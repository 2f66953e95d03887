package service

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/mcherifi/quizforge/config"
	"github.com/rs/zerolog/log"
)

// StorageService stores uploaded source documents on local disk and hands
// paths back to the pipeline. Where the files ultimately live is a
// deployment concern; the pipeline only needs Save, Exists and Open.
type StorageService interface {
	Save(file *multipart.FileHeader) (string, error)
	Exists(path string) bool
	Open(path string) (io.ReadCloser, error)
}

type localStorageService struct {
	uploadDir string
}

func NewStorageService(cfg *config.Config) (StorageService, error) {
	if err := os.MkdirAll(cfg.Storage.UploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", cfg.Storage.UploadDir, err)
	}
	return &localStorageService{uploadDir: cfg.Storage.UploadDir}, nil
}

func (s *localStorageService) Save(file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	// uuid prefix keeps concurrent uploads of identically named files apart
	name := uuid.New().String() + "_" + filepath.Base(file.Filename)
	dst := filepath.Join(s.uploadDir, name)

	out, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", dst, err)
	}

	log.Info().Str("path", dst).Int64("size", file.Size).Msg("Source file stored")
	return dst, nil
}

func (s *localStorageService) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func (s *localStorageService) Open(path string) (io.ReadCloser, error) {
	return os.Open(path)
}
