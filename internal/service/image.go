package service

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"mime"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"

	"github.com/foodfriend/backend/config"
)

// S3PutAPI is the part of the S3 client the image store needs.
type S3PutAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3ImageStore keeps uploaded food photos in a bucket under a content
// derived key, so the same photo uploaded twice maps to one object.
type S3ImageStore struct {
	client S3PutAPI
	bucket string
	logger *zap.Logger
}

// NewS3ImageStore creates a new S3ImageStore instance
func NewS3ImageStore(s3Config *config.S3Config, logger *zap.Logger) *S3ImageStore {
	return &S3ImageStore{
		client: s3Config.Client,
		bucket: s3Config.BucketName,
		logger: logger,
	}
}

// Put uploads data below prefix and returns the public URL of the object.
func (s *S3ImageStore) Put(ctx context.Context, prefix string, data []byte, contentType string) (string, error) {
	key := ObjectKey(prefix, data, contentType)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	publicURL := fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, key)
	s.logger.Debug("image uploaded", zap.String("url", publicURL), zap.Int("bytes", len(data)))
	return publicURL, nil
}

// ObjectKey derives the object key from a BLAKE2b digest of the content.
func ObjectKey(prefix string, data []byte, contentType string) string {
	sum := blake2b.Sum256(data)
	ext := ".jpg"
	if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
		ext = preferredExtension(exts)
	}
	return fmt.Sprintf("%s/%s%s", prefix, hex.EncodeToString(sum[:16]), ext)
}

func preferredExtension(exts []string) string {
	for _, e := range exts {
		switch e {
		case ".jpg", ".jpeg", ".png", ".webp", ".gif":
			return e
		}
	}
	return exts[0]
}
