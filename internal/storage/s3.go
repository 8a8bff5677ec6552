package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	appconfig "github.com/s3drop/service/internal/config"
)

// S3API is the subset of the AWS S3 client this service uses. Narrowing the
// dependency to one method keeps the mock in tests trivial.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

var _ S3API = (*s3.Client)(nil)

// S3Storage implements Storage backed by an Amazon S3 bucket. One instance is
// created at startup and shared by all requests; it holds no per-request
// state.
type S3Storage struct {
	client S3API
	bucket string
	region string
}

// NewS3Storage builds the single long-lived S3 client. When the config
// carries a static key pair it overrides the credentials provider; otherwise
// the SDK's default chain (instance role, web identity, shared config)
// applies. No network call is made here — credential and bucket problems
// surface on the first upload.
func NewS3Storage(ctx context.Context, cfg *appconfig.Config) (*S3Storage, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.HasStaticCredentials() {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &S3Storage{
		client: s3.NewFromConfig(awsCfg),
		bucket: cfg.Bucket,
		region: cfg.Region,
	}, nil
}

// NewS3StorageWithClient wires a custom S3API implementation. Used by tests.
func NewS3StorageWithClient(client S3API, bucket, region string) *S3Storage {
	return &S3Storage{client: client, bucket: bucket, region: region}
}

// Upload writes reader's content to the bucket under key with a single
// PutObject call. There is no retry: a failed attempt is a failed upload.
func (s *S3Storage) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          reader,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("put object %q: %w", key, classify(err))
	}
	return nil
}

// ObjectURL returns the virtual-hosted-style URL for the given key.
func (s *S3Storage) ObjectURL(key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}

// classify maps AWS API error codes onto the package sentinels so handlers
// can pick a status code without importing the SDK.
func classify(err error) error {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return err
	}

	switch apiErr.ErrorCode() {
	case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch",
		"ExpiredToken", "TokenRefreshRequired":
		return fmt.Errorf("%w: %s", ErrAccessDenied, apiErr.ErrorCode())
	case "NoSuchBucket", "PermanentRedirect":
		return fmt.Errorf("%w: %s", ErrBucketNotFound, apiErr.ErrorCode())
	}
	return err
}
