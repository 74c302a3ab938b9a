package app

import (
	"fmt"
	"net/http"

	"chatapp/internal/repository"
	"chatapp/internal/util"

	"github.com/gin-gonic/gin"
)

type UploadHandler struct {
	cloudinary    *util.CloudinaryClient
	userRepo      repository.UserRepository
	uploadMaxSize int64
}

func NewUploadHandler(cloudinary *util.CloudinaryClient, userRepo repository.UserRepository, uploadMaxSize int64) *UploadHandler {
	return &UploadHandler{
		cloudinary:    cloudinary,
		userRepo:      userRepo,
		uploadMaxSize: uploadMaxSize,
	}
}

// UploadFile handles uploading a message attachment
// POST /api/v1/uploads
func (h *UploadHandler) UploadFile(c *gin.Context) {
	if _, exists := c.Get("userID"); !exists {
		util.Unauthorized(c, "User not authenticated")
		return
	}

	if h.cloudinary == nil {
		util.ErrorResponse(c, http.StatusServiceUnavailable, "File uploads are not configured", nil)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		util.BadRequest(c, "File is required")
		return
	}

	if fileHeader.Size > h.uploadMaxSize {
		util.BadRequest(c, fmt.Sprintf("File exceeds maximum size of %d bytes", h.uploadMaxSize))
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !util.IsAllowedFileType(contentType) {
		util.BadRequest(c, "File type not allowed: "+contentType)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.ErrorResponse(c, http.StatusInternalServerError, "Failed to read uploaded file", nil)
		return
	}
	defer file.Close()

	result, err := h.cloudinary.UploadFile(c.Request.Context(), file, fileHeader.Filename)
	if err != nil {
		util.ErrorResponse(c, http.StatusInternalServerError, "Failed to upload file", nil)
		return
	}

	util.SuccessResponse(c, http.StatusCreated, "File uploaded successfully", gin.H{
		"file_url":  result.URL,
		"file_name": result.FileName,
		"file_size": fileHeader.Size,
		"file_type": contentType,
	})
}

// UploadAvatar handles uploading and setting the user's avatar
// POST /api/v1/uploads/avatar
func (h *UploadHandler) UploadAvatar(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		util.Unauthorized(c, "User not authenticated")
		return
	}

	if h.cloudinary == nil {
		util.ErrorResponse(c, http.StatusServiceUnavailable, "File uploads are not configured", nil)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		util.BadRequest(c, "File is required")
		return
	}

	if fileHeader.Size > h.uploadMaxSize {
		util.BadRequest(c, fmt.Sprintf("File exceeds maximum size of %d bytes", h.uploadMaxSize))
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	switch contentType {
	case "image/jpeg", "image/png", "image/gif", "image/webp":
	default:
		util.BadRequest(c, "Avatar must be an image")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.ErrorResponse(c, http.StatusInternalServerError, "Failed to read uploaded file", nil)
		return
	}
	defer file.Close()

	avatarURL, err := h.cloudinary.UploadAvatar(c.Request.Context(), file, fileHeader.Filename)
	if err != nil {
		util.ErrorResponse(c, http.StatusInternalServerError, "Failed to upload avatar", nil)
		return
	}

	if err := h.userRepo.UpdateAvatar(userID.(string), avatarURL); err != nil {
		util.ErrorResponse(c, http.StatusInternalServerError, "Failed to update avatar", nil)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Avatar updated successfully", gin.H{"avatar_url": avatarURL})
}
