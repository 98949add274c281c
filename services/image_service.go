package services

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/brightwash/carwash-api/utils"
)

// ImageService handles car photo upload, retrieval and deletion
type ImageService interface {
	// UploadImage validates and uploads an image file, returns the storage key
	UploadImage(fileHeader *multipart.FileHeader) (string, error)

	// GetImageURL generates a URL for accessing an uploaded image
	GetImageURL(imageKey string) (string, error)

	// DeleteImage removes an image from storage
	DeleteImage(imageKey string) error
}

var imageServiceInstance ImageService

// InitImageService initializes the image service with the given backend
func InitImageService(service ImageService) ImageService {
	imageServiceInstance = service
	return imageServiceInstance
}

// GetImageService returns the initialized image service instance
func GetImageService() ImageService {
	return imageServiceInstance
}

// SetImageService sets the image service instance (primarily for testing)
func SetImageService(service ImageService) {
	imageServiceInstance = service
}

// S3ImageService implements ImageService using AWS S3 for storage.
// Used in production where media is served through presigned URLs.
type S3ImageService struct {
	s3Service S3Interface
}

// NewS3ImageService creates an image service backed by S3
func NewS3ImageService(s3Service S3Interface) *S3ImageService {
	return &S3ImageService{s3Service: s3Service}
}

// UploadImage validates and uploads an image file to S3
func (s *S3ImageService) UploadImage(fileHeader *multipart.FileHeader) (string, error) {
	// Validate the image file
	if err := utils.ValidateImageFile(fileHeader); err != nil {
		return "", err
	}

	// Upload to S3
	s3Key, err := s.s3Service.UploadFile(fileHeader)
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	return s3Key, nil
}

// GetImageURL generates a presigned URL for accessing an image
func (s *S3ImageService) GetImageURL(imageKey string) (string, error) {
	if imageKey == "" {
		return "", nil
	}

	url, err := s.s3Service.GetPresignedURL(imageKey)
	if err != nil {
		return "", fmt.Errorf("failed to generate image URL: %w", err)
	}

	return url, nil
}

// DeleteImage deletes an image from S3
func (s *S3ImageService) DeleteImage(imageKey string) error {
	if imageKey == "" {
		return nil
	}

	if err := s.s3Service.DeleteFile(imageKey); err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}

	return nil
}

// LocalImageService implements ImageService on the local filesystem.
// Used outside production; files land in the media dir and are served
// by the router under the media URL.
type LocalImageService struct {
	mediaDir string
	mediaURL string
}

// NewLocalImageService creates an image service storing files under mediaDir
func NewLocalImageService(mediaDir, mediaURL string) *LocalImageService {
	return &LocalImageService{
		mediaDir: mediaDir,
		mediaURL: mediaURL,
	}
}

// UploadImage validates and saves an image file to the media directory
func (s *LocalImageService) UploadImage(fileHeader *multipart.FileHeader) (string, error) {
	if err := utils.ValidateImageFile(fileHeader); err != nil {
		return "", err
	}

	filename, err := utils.SaveUploadedFile(fileHeader, s.mediaDir)
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	return filename, nil
}

// GetImageURL returns the media URL path for a stored image
func (s *LocalImageService) GetImageURL(imageKey string) (string, error) {
	if imageKey == "" {
		return "", nil
	}
	return fmt.Sprintf("%s/%s", s.mediaURL, imageKey), nil
}

// DeleteImage removes an image from the media directory
func (s *LocalImageService) DeleteImage(imageKey string) error {
	if imageKey == "" {
		return nil
	}

	fullPath := filepath.Join(s.mediaDir, filepath.Base(imageKey))
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete image: %w", err)
	}

	return nil
}
