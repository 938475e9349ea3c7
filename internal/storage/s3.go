package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/medcare-solutions/repair-api/internal/config"
	"go.uber.org/zap"
)

// S3API is the subset of the S3 client used by S3Storage
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Storage implements Storage interface for S3 and S3-compatible buckets
type S3Storage struct {
	client   S3API
	bucket   string
	region   string
	endpoint string
	logger   *zap.Logger
}

// NewS3Storage builds an S3 client from config. Static credentials are used when
// both keys are set, otherwise the default AWS credential chain applies.
func NewS3Storage(ctx context.Context, cfg *config.S3Config, logger *zap.Logger) (*S3Storage, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required for s3 storage")
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.ForcePathStyle
	})

	logger.Info("S3 storage initialized",
		zap.String("bucket", cfg.Bucket),
		zap.String("region", cfg.Region),
		zap.Bool("customEndpoint", cfg.Endpoint != ""),
	)

	return NewS3StorageWithClient(client, cfg, logger), nil
}

// NewS3StorageWithClient wraps an existing client
func NewS3StorageWithClient(client S3API, cfg *config.S3Config, logger *zap.Logger) *S3Storage {
	return &S3Storage{
		client:   client,
		bucket:   cfg.Bucket,
		region:   cfg.Region,
		endpoint: strings.TrimSuffix(cfg.Endpoint, "/"),
		logger:   logger,
	}
}

// Put uploads an object to the bucket under key
func (s *S3Storage) Put(ctx context.Context, key string, data io.Reader, opts PutOptions) (int64, error) {
	key, err := cleanKey(key)
	if err != nil {
		return 0, err
	}

	reader := &countingReader{r: data}
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   reader,
	}
	if opts.ContentType != "" {
		input.ContentType = aws.String(opts.ContentType)
	}
	if opts.ContentDisposition != "" {
		input.ContentDisposition = aws.String(opts.ContentDisposition)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return 0, fmt.Errorf("failed to upload object to s3: %w", err)
	}

	s.logger.Info("object uploaded to S3",
		zap.String("bucket", s.bucket),
		zap.String("key", key),
		zap.Int64("size", reader.count),
	)

	return reader.count, nil
}

// Download streams an object from the bucket
func (s *S3Storage) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, key)
		}
		return nil, fmt.Errorf("failed to download object from s3: %w", err)
	}
	return out.Body, nil
}

// Delete removes an object. S3 does not report missing keys on delete.
func (s *S3Storage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object from s3: %w", err)
	}
	return nil
}

// URL returns endpoint/bucket/key for custom endpoints, otherwise the virtual-hosted AWS URL
func (s *S3Storage) URL(key string) string {
	key = strings.TrimPrefix(key, "/")
	if s.endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", s.endpoint, s.bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}
