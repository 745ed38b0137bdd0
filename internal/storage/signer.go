package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/immxrtalbeast/classroom_live/internal/config"
)

//go:generate mockgen -source=signer.go -destination=mocks/mock_signer.go -package=mocks

// URLSigner hands out time-limited URLs for direct object uploads and
// downloads.
type URLSigner interface {
	UploadURL(ctx context.Context, key string, contentType string) (string, error)
	DownloadURL(ctx context.Context, key string) (string, error)
}

type S3Signer struct {
	presign *s3.PresignClient
	bucket  string
	ttl     time.Duration
}

// NewS3Signer loads AWS credentials from the environment. A custom endpoint
// switches to path-style addressing for S3-compatible stores.
func NewS3Signer(ctx context.Context, cfg config.StorageConfig) (*S3Signer, error) {
	const op = "storage.s3.new"

	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is empty")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Signer{
		presign: s3.NewPresignClient(client),
		bucket:  cfg.Bucket,
		ttl:     cfg.PresignTTL,
	}, nil
}

func (s *S3Signer) UploadURL(ctx context.Context, key string, contentType string) (string, error) {
	const op = "storage.s3.uploadURL"

	req, err := s.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(s.ttl))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return req.URL, nil
}

func (s *S3Signer) DownloadURL(ctx context.Context, key string) (string, error) {
	const op = "storage.s3.downloadURL"

	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.ttl))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return req.URL, nil
}
