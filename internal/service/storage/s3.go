package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"brainbank/video-ingestion/internal/config"
	"brainbank/video-ingestion/pkg/logger"
)

// S3Storage stores video media in an S3 bucket under
// {prefix}/{videoID}.mp4, tagging each object with its owner id so
// downstream consumers can attribute it without a database lookup.
type S3Storage struct {
	client    *s3.Client
	bucket    string
	keyPrefix string
	endpoint  string
	region    string
}

// NewS3Storage creates a storage client from the shared AWS configuration
// chain (env, shared credentials, instance role).
func NewS3Storage(ctx context.Context, cfg *config.StorageConfig) (*S3Storage, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Storage{
		client:    client,
		bucket:    cfg.Bucket,
		keyPrefix: strings.Trim(cfg.KeyPrefix, "/"),
		endpoint:  strings.TrimSuffix(cfg.Endpoint, "/"),
		region:    cfg.Region,
	}, nil
}

func (s *S3Storage) Key(videoID string) string {
	if s.keyPrefix == "" {
		return videoID + ".mp4"
	}
	return s.keyPrefix + "/" + videoID + ".mp4"
}

func (s *S3Storage) Upload(ctx context.Context, videoID, ownerID string, body io.Reader, size int64, progress ProgressFunc) (string, error) {
	key := s.Key(videoID)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          newProgressReader(body, size, progress),
		ContentType:   aws.String("video/mp4"),
		ContentLength: aws.Int64(size),
		Metadata: map[string]string{
			"owner-id": ownerID,
		},
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}

	url := s.objectURL(key)
	logger.Named("storage").Debug("object stored",
		zap.String("key", key),
		zap.Int64("bytes", size),
	)

	return url, nil
}

func (s *S3Storage) Fetch(ctx context.Context, videoID string) (io.ReadCloser, error) {
	key := s.Key(videoID)

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("get object %s: %w", key, err)
	}

	return out.Body, nil
}

func (s *S3Storage) objectURL(key string) string {
	if s.endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", s.endpoint, s.bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}
