package handler

import (
	"fmt"

	"github.com/labstack/echo/v4"

	"mahto/internal/infrastructure/storage"
	"mahto/pkg/errors"
	"mahto/pkg/logger"
	"mahto/pkg/response"
)

type FileHandler struct {
	storageClient *storage.CloudStorageClient
	maxFileSize   int64
}

func NewFileHandler(storageClient *storage.CloudStorageClient) *FileHandler {
	return &FileHandler{
		storageClient: storageClient,
		maxFileSize:   5 * 1024 * 1024,
	}
}

func isAllowedImageType(fileType string) bool {
	switch fileType {
	case "image/jpeg", "image/jpg", "image/png", "image/webp":
		return true
	}
	return false
}

func (h *FileHandler) upload(c echo.Context, folder string) error {
	userID := getUserIDFromContext(c)
	if userID == "" {
		return response.Error(c, errors.Unauthorized("Authentication required", nil))
	}

	file, err := c.FormFile("file")
	if err != nil {
		return response.Error(c, errors.BadRequest("Missing or invalid file", err))
	}

	if file.Size > h.maxFileSize {
		return response.Error(c, errors.BadRequest(fmt.Sprintf("File size exceeds maximum allowed (%dMB)", h.maxFileSize/(1024*1024)), nil))
	}

	fileType := file.Header.Get("Content-Type")
	if !isAllowedImageType(fileType) {
		return response.Error(c, errors.BadRequest("File type not supported", nil))
	}

	src, err := file.Open()
	if err != nil {
		return response.Error(c, errors.Internal("Unable to read file", err))
	}
	defer src.Close()

	url, err := h.storageClient.UploadFile(c.Request().Context(), src, fileType, folder)
	if err != nil {
		logger.Error("Upload to %s failed for user %s: %v", folder, userID, err)
		return response.Error(c, errors.Internal("Failed to upload file", err))
	}

	return response.Success(c, map[string]string{
		"url": url,
	})
}

// UploadListingImage stores a listing photo and returns its URL for use in
// the listing's images field.
func (h *FileHandler) UploadListingImage(c echo.Context) error {
	return h.upload(c, "listings")
}

// UploadAvatar stores a profile photo and returns its URL for the profile's
// image field.
func (h *FileHandler) UploadAvatar(c echo.Context) error {
	return h.upload(c, "avatars")
}
