package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockS3 records PutObject calls and returns a canned error.
type mockS3 struct {
	calls []s3.PutObjectInput
	err   error
}

func (m *mockS3) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	m.calls = append(m.calls, *params)
	if m.err != nil {
		return nil, m.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestUploadBuildsPutObjectInput(t *testing.T) {
	mock := &mockS3{}
	store := NewS3StorageWithClient(mock, "my-bucket", "eu-west-1")

	content := []byte("hello world")
	err := store.Upload(context.Background(), "uploads/x.txt", bytes.NewReader(content), int64(len(content)), "text/plain")
	require.NoError(t, err)

	require.Len(t, mock.calls, 1)
	call := mock.calls[0]
	assert.Equal(t, "my-bucket", *call.Bucket)
	assert.Equal(t, "uploads/x.txt", *call.Key)
	assert.Equal(t, int64(len(content)), *call.ContentLength)
	assert.Equal(t, "text/plain", *call.ContentType)

	body, err := io.ReadAll(call.Body)
	require.NoError(t, err)
	assert.Equal(t, content, body)
}

func TestUploadClassifiesProviderErrors(t *testing.T) {
	tests := []struct {
		code string
		want error
	}{
		{"AccessDenied", ErrAccessDenied},
		{"InvalidAccessKeyId", ErrAccessDenied},
		{"SignatureDoesNotMatch", ErrAccessDenied},
		{"ExpiredToken", ErrAccessDenied},
		{"NoSuchBucket", ErrBucketNotFound},
		{"PermanentRedirect", ErrBucketNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			mock := &mockS3{err: &smithy.GenericAPIError{Code: tt.code, Message: "denied"}}
			store := NewS3StorageWithClient(mock, "my-bucket", "eu-west-1")

			err := store.Upload(context.Background(), "uploads/x.txt", bytes.NewReader(nil), 0, "text/plain")
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestUploadPassesThroughUnknownErrors(t *testing.T) {
	boom := errors.New("connection reset")
	mock := &mockS3{err: boom}
	store := NewS3StorageWithClient(mock, "my-bucket", "eu-west-1")

	err := store.Upload(context.Background(), "uploads/x.txt", bytes.NewReader(nil), 0, "text/plain")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrAccessDenied)
	assert.NotErrorIs(t, err, ErrBucketNotFound)
}

func TestObjectURL(t *testing.T) {
	store := NewS3StorageWithClient(&mockS3{}, "my-bucket", "eu-west-1")
	assert.Equal(t,
		"https://my-bucket.s3.eu-west-1.amazonaws.com/uploads/20240101-000000-abc123-x.txt",
		store.ObjectURL("uploads/20240101-000000-abc123-x.txt"))
}
