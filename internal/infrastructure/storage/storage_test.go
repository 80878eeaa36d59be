package storage

import (
	"context"
	"testing"
	"time"

	"github.com/hyperflow/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewS3ObjectStorage_Validation(t *testing.T) {
	ctx := context.Background()

	_, err := NewS3ObjectStorage(ctx, config.StorageConfig{AccessKeyID: "k", SecretAccessKey: "s"}, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket is required")

	_, err = NewS3ObjectStorage(ctx, config.StorageConfig{Bucket: "hf"}, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "credentials are required")
}

func TestNewS3ObjectStorage_Valid(t *testing.T) {
	s, err := NewS3ObjectStorage(context.Background(), config.StorageConfig{
		Bucket:          "hyperflow",
		Endpoint:        "localhost:9000",
		AccessKeyID:     "minio",
		SecretAccessKey: "minio123",
		UsePathStyle:    true,
		Prefix:          "/agency/",
	}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "hyperflow", s.Bucket())
	assert.Equal(t, "agency/resumes/t1/cv.pdf", s.Key("resumes", "t1", "/cv.pdf"))
}

func TestS3ObjectStorage_DownloadURL(t *testing.T) {
	s, err := NewS3ObjectStorage(context.Background(), config.StorageConfig{
		Bucket:          "hyperflow",
		Endpoint:        "http://localhost:9000",
		AccessKeyID:     "minio",
		SecretAccessKey: "minio123",
		UsePathStyle:    true,
	}, zap.NewNop())
	require.NoError(t, err)

	url, err := s.DownloadURL(context.Background(), "invoices/INV-1.pdf", time.Minute)
	require.NoError(t, err)
	assert.Contains(t, url, "localhost:9000/hyperflow/invoices/INV-1.pdf")
	assert.Contains(t, url, "X-Amz-Signature")
}

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "a/b", objectKey("", "a", "", "/b/"))
	assert.Equal(t, "p/a", objectKey("p", "a"))
}

func TestDisabledStorage(t *testing.T) {
	var s DisabledStorage
	ctx := context.Background()

	assert.ErrorIs(t, s.Upload(ctx, "k", []byte("x"), "text/plain"), ErrStorageDisabled)
	_, err := s.Download(ctx, "k")
	assert.ErrorIs(t, err, ErrStorageDisabled)
	_, err = s.DownloadURL(ctx, "k", time.Minute)
	assert.ErrorIs(t, err, ErrStorageDisabled)
	assert.ErrorIs(t, s.Delete(ctx, "k"), ErrStorageDisabled)
	assert.Equal(t, "resumes/x.pdf", s.Key("resumes", "x.pdf"))
}
