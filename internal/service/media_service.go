package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/medcare-solutions/repair-api/internal/auth"
	"github.com/medcare-solutions/repair-api/internal/domain"
	"github.com/medcare-solutions/repair-api/internal/mapper"
	"github.com/medcare-solutions/repair-api/internal/repository"
	"github.com/medcare-solutions/repair-api/internal/storage"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrMediaNotFound is returned when a media record does not exist
var ErrMediaNotFound = errors.New("media not found")

// mediaPrefix is the storage folder for uploads
const mediaPrefix = "media"

// MediaService stores uploaded files in the configured backend
type MediaService struct {
	mediaRepo *repository.MediaRepository
	storage   storage.Storage
	logger    *zap.Logger
}

func NewMediaService(mediaRepo *repository.MediaRepository, store storage.Storage, logger *zap.Logger) *MediaService {
	return &MediaService{mediaRepo: mediaRepo, storage: store, logger: logger}
}

// Upload writes the file to storage and records it
func (s *MediaService) Upload(ctx context.Context, alt, filename, contentType string, data io.Reader) (*domain.MediaDTO, error) {
	key := storage.NewObjectKey(mediaPrefix, filename)

	size, err := s.storage.Put(ctx, key, data, storage.PutOptions{ContentType: contentType})
	if err != nil {
		return nil, fmt.Errorf("failed to upload file: %w", err)
	}

	media := &domain.Media{
		Alt:         alt,
		Filename:    filename,
		ContentType: contentType,
		Size:        size,
		StoragePath: key,
		URL:         s.storage.URL(key),
	}
	if userCtx, ok := auth.FromContext(ctx); ok {
		media.UploadedByID = userCtx.UserIDPtr()
	}

	if err := s.mediaRepo.Create(ctx, media); err != nil {
		if delErr := s.storage.Delete(ctx, key); delErr != nil {
			s.logger.Warn("failed to cleanup file from storage after DB error",
				zap.Error(delErr),
				zap.String("storagePath", key),
			)
		}
		return nil, fmt.Errorf("failed to create media record: %w", err)
	}

	s.logger.Info("media uploaded",
		zap.String("mediaID", media.ID.String()),
		zap.String("filename", filename),
		zap.Int64("size", size))

	dto := mapper.ToMediaDTO(media)
	return &dto, nil
}

func (s *MediaService) get(ctx context.Context, id uuid.UUID) (*domain.Media, error) {
	media, err := s.mediaRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMediaNotFound
		}
		return nil, fmt.Errorf("failed to get media: %w", err)
	}
	return media, nil
}

func (s *MediaService) GetByID(ctx context.Context, id uuid.UUID) (*domain.MediaDTO, error) {
	media, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := mapper.ToMediaDTO(media)
	return &dto, nil
}

func (s *MediaService) List(ctx context.Context, page, pageSize int, search string) (*domain.PaginatedResponse, error) {
	page, pageSize = repository.NormalizePage(page, pageSize)

	items, total, err := s.mediaRepo.List(ctx, page, pageSize, search)
	if err != nil {
		return nil, fmt.Errorf("failed to list media: %w", err)
	}
	dtos := make([]domain.MediaDTO, len(items))
	for i := range items {
		dtos[i] = mapper.ToMediaDTO(&items[i])
	}
	return domain.NewPaginatedResponse(dtos, total, page, pageSize), nil
}

// Download opens the stored file.
// Returns: reader, filename, content-type, error
func (s *MediaService) Download(ctx context.Context, id uuid.UUID) (io.ReadCloser, string, string, error) {
	media, err := s.get(ctx, id)
	if err != nil {
		return nil, "", "", err
	}

	reader, err := s.storage.Download(ctx, media.StoragePath)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, "", "", ErrMediaNotFound
		}
		return nil, "", "", fmt.Errorf("failed to download file: %w", err)
	}
	return reader, media.Filename, media.ContentType, nil
}

// Delete removes the record and then the stored object
func (s *MediaService) Delete(ctx context.Context, id uuid.UUID) error {
	media, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.mediaRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete media record: %w", err)
	}
	if err := s.storage.Delete(ctx, media.StoragePath); err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
		s.logger.Warn("failed to delete file from storage",
			zap.String("storagePath", media.StoragePath),
			zap.Error(err))
	}
	return nil
}
