package util

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"chatapp/internal/config"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

// Mime types accepted for message attachments
var allowedFileTypes = map[string]bool{
	"image/jpeg": true, "image/png": true, "image/gif": true,
	"image/webp": true, "image/bmp": true, "image/tiff": true,
	"video/mp4": true, "video/avi": true, "video/mov": true,
	"video/wmv": true, "video/webm": true, "video/mkv": true,
	"audio/mpeg": true, "audio/wav": true, "audio/ogg": true,
	"audio/mp3": true, "audio/mp4": true,
	"application/pdf": true, "application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document":   true,
	"application/vnd.ms-excel": true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":         true,
	"application/vnd.ms-powerpoint": true,
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": true,
	"text/plain": true, "text/csv": true,
	"application/zip": true, "application/rar": true, "application/x-rar-compressed": true,
}

// IsAllowedFileType reports whether a mime type may be attached to a message
func IsAllowedFileType(mimeType string) bool {
	return allowedFileTypes[mimeType]
}

type CloudinaryClient struct {
	cld *cloudinary.Cloudinary
	cfg *config.Config
}

func NewCloudinaryClient(cfg *config.Config) (*CloudinaryClient, error) {
	if cfg.CloudinaryCloudName == "" || cfg.CloudinaryAPIKey == "" || cfg.CloudinaryAPISecret == "" {
		return nil, fmt.Errorf("cloudinary credentials not configured")
	}

	cld, err := cloudinary.NewFromParams(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}

	return &CloudinaryClient{
		cld: cld,
		cfg: cfg,
	}, nil
}

// UploadResult describes a stored file
type UploadResult struct {
	URL      string `json:"file_url"`
	FileName string `json:"file_name"`
}

// UploadFile stores a message attachment and returns its URL. The caller
// has already validated mime type and size.
func (c *CloudinaryClient) UploadFile(ctx context.Context, file io.Reader, fileName string) (*UploadResult, error) {
	publicID := publicIDFor(fileName)

	resp, err := c.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:       "chatapp/files",
		PublicID:     publicID,
		ResourceType: "auto",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload file: %w", err)
	}

	return &UploadResult{
		URL:      resp.SecureURL,
		FileName: fileName,
	}, nil
}

// UploadAvatar stores a profile image and returns its URL
func (c *CloudinaryClient) UploadAvatar(ctx context.Context, file io.Reader, fileName string) (string, error) {
	resp, err := c.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:       "chatapp/avatars",
		PublicID:     publicIDFor(fileName),
		ResourceType: "image",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload avatar: %w", err)
	}
	return resp.SecureURL, nil
}

// publicIDFor builds a unique public ID keeping the original base name
func publicIDFor(fileName string) string {
	base := strings.TrimSuffix(filepath.Base(fileName), filepath.Ext(fileName))
	if base == "" {
		base = "file"
	}
	return fmt.Sprintf("%s-%s", uuid.New().String()[:8], base)
}
