package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/platewise/backend/config"
)

// ImageService stores recipe photos in S3. The recipe row keeps only
// the URL; the bytes live in object storage.
type ImageService struct {
	s3Config *config.S3Config
}

// NewImageService creates a new ImageService instance
func NewImageService(s3Config *config.S3Config) *ImageService {
	return &ImageService{
		s3Config: s3Config,
	}
}

// UploadRecipeImage stores the image under a key derived from the
// recipe id and returns the URL to record on the recipe.
func (s *ImageService) UploadRecipeImage(ctx context.Context, recipeID uuid.UUID, contentType string, body io.Reader) (string, error) {
	if s.s3Config == nil {
		return "", fmt.Errorf("image storage is not configured")
	}

	key := fmt.Sprintf("recipes/%s/%s", recipeID, uuid.New().String())

	_, err := s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	url, err := s.s3Config.GeneratePresignedURL(ctx, key, 7*24*time.Hour)
	if err != nil {
		// The object is stored; fall back to the plain bucket URL.
		log.Printf("failed to presign image URL for %s: %v", key, err)
		url = fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.s3Config.BucketName, key)
	}

	return url, nil
}
