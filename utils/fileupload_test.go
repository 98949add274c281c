package utils

import (
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateImageFile(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		size        int64
		expectedErr string
	}{
		{"valid png", "car.png", 1024, ""},
		{"valid jpg", "car.jpg", 1024, ""},
		{"valid jpeg", "car.jpeg", 1024, ""},
		{"uppercase extension", "CAR.PNG", 1024, ""},
		{"invalid gif", "car.gif", 1024, "INVALID_FILE_FORMAT"},
		{"invalid pdf", "document.pdf", 1024, "INVALID_FILE_FORMAT"},
		{"no extension", "car", 1024, "INVALID_FILE_FORMAT"},
		{"too large", "car.png", MaxFileSize + 1, "FILE_TOO_LARGE"},
		{"exactly max size", "car.png", MaxFileSize, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fileHeader := &multipart.FileHeader{
				Filename: tt.filename,
				Size:     tt.size,
			}

			err := ValidateImageFile(fileHeader)

			if tt.expectedErr == "" {
				assert.NoError(t, err)
				return
			}

			assert.Error(t, err)
			uploadErr, ok := err.(*FileUploadError)
			assert.True(t, ok, "Error should be a FileUploadError")
			assert.Equal(t, tt.expectedErr, uploadErr.Code)
		})
	}
}
