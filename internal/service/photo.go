package service

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pageza/weekplate/backend/config"
)

// PhotoPrefix is the bucket folder that holds recipe photos
const PhotoPrefix = "recipe-photos/"

// MaxPhotoBytes bounds a single upload
const MaxPhotoBytes = 10 << 20

// objectPutter is the part of the S3 client PhotoService writes through
type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// PhotoService stores recipe photos in S3
type PhotoService struct {
	store  *config.S3Config
	client objectPutter
	logger *zap.Logger
}

// NewPhotoService returns a service backed by store. A nil store disables uploads.
func NewPhotoService(store *config.S3Config, logger *zap.Logger) *PhotoService {
	s := &PhotoService{store: store, logger: logger}
	if store != nil {
		s.client = store.Client
	}
	return s
}

// Upload stores the photo under a fresh key and returns its public URL
func (s *PhotoService) Upload(ctx context.Context, data []byte, filename, contentType string) (string, error) {
	if s.store == nil || s.client == nil {
		return "", ErrStorageUnavailable
	}
	if len(data) == 0 {
		return "", invalidf("photo is empty")
	}
	if len(data) > MaxPhotoBytes {
		return "", invalidf("photo exceeds %d bytes", MaxPhotoBytes)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return "", invalidf("unsupported content type %q", contentType)
	}

	key := PhotoPrefix + uuid.New().String() + photoExtension(filename, contentType)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.store.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload photo: %w", err)
	}

	s.logger.Info("Recipe photo uploaded", zap.String("key", key), zap.Int("bytes", len(data)))
	return s.store.PublicURL(key), nil
}

// PresignedURL returns a temporary read URL for a stored photo
func (s *PhotoService) PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if s.store == nil {
		return "", ErrStorageUnavailable
	}
	if !strings.HasPrefix(key, PhotoPrefix) {
		return "", invalidf("key must start with %s", PhotoPrefix)
	}
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	url, err := s.store.GeneratePresignedURL(ctx, key, ttl)
	if err != nil {
		return "", fmt.Errorf("failed to presign photo url: %w", err)
	}
	return url, nil
}

func photoExtension(filename, contentType string) string {
	if ext := strings.ToLower(path.Ext(filename)); ext != "" {
		return ext
	}
	switch contentType {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/heic":
		return ".heic"
	default:
		return ".jpg"
	}
}
