package storage

import (
	"fmt"
	"strings"
)

// AllowedContentTypes lists the MIME types accepted for evidence photos.
var AllowedContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/webp": true,
	"image/heic": true,
	"image/heif": true,
}

// ValidateContentType checks if the content type is allowed for upload.
func (s *MinIOService) ValidateContentType(contentType string) error {
	// Strip parameters like "; charset=utf-8".
	normalized := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))

	if !AllowedContentTypes[normalized] {
		return fmt.Errorf("content type %q is not allowed: only image uploads are accepted", contentType)
	}
	return nil
}

// ValidateFileSize checks if the file size is within the configured limit.
func (s *MinIOService) ValidateFileSize(sizeBytes int64) error {
	if sizeBytes <= 0 {
		return fmt.Errorf("file size must be greater than 0")
	}
	if sizeBytes > s.maxFileSize {
		return fmt.Errorf("file size %d bytes exceeds maximum of %d bytes", sizeBytes, s.maxFileSize)
	}
	return nil
}
