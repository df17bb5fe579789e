package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/recipehub/backend/config"
	"github.com/recipehub/backend/internal/models"
	"github.com/recipehub/backend/internal/types"
)

var imageContentTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// ImageService handles recipe image uploads to S3.
type ImageService struct {
	db       *gorm.DB
	s3Config *config.S3Config
}

func NewImageService(db *gorm.DB, s3Config *config.S3Config) *ImageService {
	return &ImageService{db: db, s3Config: s3Config}
}

// UploadRecipeImage stores the image under recipe-images/ and saves the
// resulting URL on the recipe. Only the recipe's author may upload.
func (s *ImageService) UploadRecipeImage(ctx context.Context, principal types.Principal, recipeID uuid.UUID, fileName string, imageData []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	contentType, ok := imageContentTypes[ext]
	if !ok {
		return "", types.NewValidationError("unsupported image type %q", ext)
	}
	if len(imageData) == 0 {
		return "", types.NewValidationError("image file is empty")
	}

	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", types.NewNotFoundError("recipe")
		}
		return "", err
	}
	if recipe.AuthorID != principal.ID {
		return "", types.NewForbiddenError("only the author can upload images for this recipe")
	}

	key := fmt.Sprintf("recipe-images/%s%s", uuid.New().String(), ext)
	imageURL, err := s.uploadToS3(ctx, imageData, key, contentType)
	if err != nil {
		return "", err
	}

	if err := s.db.WithContext(ctx).Model(&recipe).Update("image_url", imageURL).Error; err != nil {
		return "", err
	}
	return imageURL, nil
}

func (s *ImageService) uploadToS3(ctx context.Context, imageData []byte, key, contentType string) (string, error) {
	_, err := s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(imageData),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.s3Config.BucketName, key), nil
}
