package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/medcare-solutions/repair-api/internal/service"
	"github.com/medcare-solutions/repair-api/internal/storage"
	"go.uber.org/zap"
)

type MediaHandler struct {
	mediaService *service.MediaService
	maxUploadMB  int64
	logger       *zap.Logger
}

func NewMediaHandler(mediaService *service.MediaService, maxUploadMB int64, logger *zap.Logger) *MediaHandler {
	if maxUploadMB <= 0 {
		maxUploadMB = 10
	}
	return &MediaHandler{
		mediaService: mediaService,
		maxUploadMB:  maxUploadMB,
		logger:       logger,
	}
}

// @Summary Upload media
// @Tags Media
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "File to upload"
// @Param alt formData string false "Alternative text"
// @Success 201 {object} domain.MediaDTO
// @Failure 400 {object} domain.APIError
// @Failure 413 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /media [post]
func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadMB*1024*1024)

	if err := r.ParseMultipartForm(h.maxUploadMB * 1024 * 1024); err != nil {
		respondWithError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("File too large: maximum size is %dMB", h.maxUploadMB))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid file upload: file field is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	media, err := h.mediaService.Upload(r.Context(), r.FormValue("alt"), header.Filename, contentType, file)
	if err != nil {
		respondServiceError(w, h.logger, err, "upload file")
		return
	}
	respondCreated(w, "media", media.ID, media)
}

// @Summary List media
// @Tags Media
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page (max 200)" default(10)
// @Param search query string false "Search by filename or alt text"
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.MediaDTO}
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /media [get]
func (h *MediaHandler) List(w http.ResponseWriter, r *http.Request) {
	p := parseListParams(r)
	result, err := h.mediaService.List(r.Context(), p.Page, p.PageSize, p.Search)
	if err != nil {
		respondServiceError(w, h.logger, err, "list media")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// @Summary Get media metadata
// @Tags Media
// @Produce json
// @Param id path string true "Media ID" format(uuid)
// @Success 200 {object} domain.MediaDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /media/{id} [get]
func (h *MediaHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id", "media")
	if !ok {
		return
	}
	media, err := h.mediaService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "get media")
		return
	}
	respondJSON(w, http.StatusOK, media)
}

// @Summary Download media
// @Tags Media
// @Produce application/octet-stream
// @Param id path string true "Media ID" format(uuid)
// @Success 200
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /media/{id}/download [get]
func (h *MediaHandler) Download(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id", "media")
	if !ok {
		return
	}

	reader, filename, contentType, err := h.mediaService.Download(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "download file")
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Disposition", "attachment; filename=\""+filename+"\"")
	w.Header().Set("Content-Type", contentType)
	_, _ = io.Copy(w, reader)
}

// @Summary Delete media
// @Tags Media
// @Param id path string true "Media ID" format(uuid)
// @Success 204
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /media/{id} [delete]
func (h *MediaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id", "media")
	if !ok {
		return
	}
	if err := h.mediaService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "delete media")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// FileHandler serves objects from the storage backend by key.
// It backs the public URLs handed out by local storage.
type FileHandler struct {
	storage storage.Storage
	logger  *zap.Logger
}

func NewFileHandler(store storage.Storage, logger *zap.Logger) *FileHandler {
	return &FileHandler{storage: store, logger: logger}
}

// @Summary Fetch a stored file
// @Tags Media
// @Produce application/octet-stream
// @Param key path string true "Object key"
// @Success 200
// @Failure 404 {object} domain.APIError
// @Router /files/{key} [get]
func (h *FileHandler) Serve(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")
	reader, err := h.storage.Download(r.Context(), key)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrObjectNotFound), errors.Is(err, storage.ErrInvalidKey):
			respondWithError(w, http.StatusNotFound, "File not found")
		default:
			h.logger.Error("failed to read file", zap.Error(err), zap.String("key", key))
			respondWithError(w, http.StatusInternalServerError, "Failed to read file")
		}
		return
	}
	defer reader.Close()

	if strings.EqualFold(path.Ext(key), ".pdf") {
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", "inline; filename=\""+path.Base(key)+"\"")
	} else {
		w.Header().Set("Content-Type", "application/octet-stream")
	}
	_, _ = io.Copy(w, reader)
}
