package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/medcare-solutions/repair-api/internal/config"
	"go.uber.org/zap"
)

// ErrObjectNotFound is returned when a key does not exist in the backend
var ErrObjectNotFound = errors.New("object not found")

// ErrInvalidKey is returned for keys that escape the storage root
var ErrInvalidKey = errors.New("invalid object key")

// Storage defines the interface for file storage operations
type Storage interface {
	// Put writes data under key, replacing any existing object, and returns the byte count
	Put(ctx context.Context, key string, data io.Reader, opts PutOptions) (int64, error)
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	// URL returns the address clients use to fetch the object
	URL(key string) string
}

// PutOptions are the HTTP headers stored with an object
type PutOptions struct {
	ContentType        string
	ContentDisposition string
}

// NewStorage creates a new storage instance based on configuration.
// "local" keeps files on disk, "azure" uses Blob Storage and "s3" an S3 bucket.
func NewStorage(ctx context.Context, cfg *config.StorageConfig, logger *zap.Logger) (Storage, error) {
	switch cfg.Mode {
	case "local", "":
		return NewLocalStorage(cfg.LocalBasePath, cfg.PublicBaseURL)
	case "cloud", "azure":
		if cfg.CloudConnectionString == "" {
			return nil, fmt.Errorf("cloud connection string required for azure storage")
		}
		return NewAzureBlobStorage(ctx, cfg.CloudConnectionString, cfg.CloudContainer, logger)
	case "s3":
		return NewS3Storage(ctx, &cfg.S3, logger)
	default:
		return nil, fmt.Errorf("unsupported storage mode: %s", cfg.Mode)
	}
}

// NewObjectKey builds a unique key under prefix that keeps the file extension
func NewObjectKey(prefix, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	id := uuid.New().String()
	if prefix == "" {
		return id + ext
	}
	return path.Join(prefix, id+ext)
}

// cleanKey normalises a key and rejects absolute or parent-relative paths
func cleanKey(key string) (string, error) {
	key = strings.TrimPrefix(path.Clean("/"+strings.ReplaceAll(key, "\\", "/")), "/")
	if key == "" || key == "." || strings.HasPrefix(key, "..") {
		return "", ErrInvalidKey
	}
	return key, nil
}

// LocalStorage implements Storage interface for local filesystem
type LocalStorage struct {
	basePath      string
	publicBaseURL string
}

// NewLocalStorage creates a new local storage instance
func NewLocalStorage(basePath, publicBaseURL string) (*LocalStorage, error) {
	// Create base path if it doesn't exist
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	if publicBaseURL == "" {
		publicBaseURL = "/api/v1/files"
	}

	return &LocalStorage{
		basePath:      basePath,
		publicBaseURL: strings.TrimSuffix(publicBaseURL, "/"),
	}, nil
}

func (s *LocalStorage) fullPath(key string) (string, error) {
	clean, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.basePath, filepath.FromSlash(clean)), nil
}

// Put writes a file to local storage
func (s *LocalStorage) Put(ctx context.Context, key string, data io.Reader, opts PutOptions) (int64, error) {
	fullPath, err := s.fullPath(key)
	if err != nil {
		return 0, err
	}

	// Create directory structure
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return 0, fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return 0, fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	size, err := io.Copy(file, data)
	if err != nil {
		os.Remove(fullPath) // Cleanup on error
		return 0, fmt.Errorf("failed to write file: %w", err)
	}

	return size, nil
}

// Download opens a file from local storage
func (s *LocalStorage) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	fullPath, err := s.fullPath(key)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, key)
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	return file, nil
}

// Delete deletes a file from local storage
func (s *LocalStorage) Delete(ctx context.Context, key string) error {
	fullPath, err := s.fullPath(key)
	if err != nil {
		return err
	}

	if err := os.Remove(fullPath); err != nil {
		if os.IsNotExist(err) {
			return nil // Already deleted
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}

	return nil
}

// URL returns the API path that serves the file
func (s *LocalStorage) URL(key string) string {
	return s.publicBaseURL + "/" + strings.TrimPrefix(key, "/")
}
