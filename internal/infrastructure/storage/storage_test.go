package storage

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/logistics/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestS3(t *testing.T) *S3ObjectStorage {
	t.Helper()
	s, err := NewS3ObjectStorage(context.Background(), config.StorageConfig{
		Bucket:            "logistics",
		Endpoint:          "localhost:9000",
		Region:            "us-east-1",
		AccessKeyID:       "key",
		SecretAccessKey:   "secret",
		UsePathStyle:      true,
		PresignExpiration: 5 * time.Minute,
	}, zap.NewNop())
	require.NoError(t, err)
	return s
}

func TestNewS3ObjectStorage(t *testing.T) {
	t.Run("missing bucket", func(t *testing.T) {
		_, err := NewS3ObjectStorage(context.Background(), config.StorageConfig{}, zap.NewNop())
		assert.ErrorContains(t, err, "bucket is required")
	})

	t.Run("default presign expiration", func(t *testing.T) {
		s, err := NewS3ObjectStorage(context.Background(), config.StorageConfig{
			Bucket: "b", Region: "us-east-1", AccessKeyID: "k", SecretAccessKey: "s",
		}, zap.NewNop())
		require.NoError(t, err)
		assert.Equal(t, 15*time.Minute, s.presignExpiration)
	})
}

func TestS3ObjectStorage_DownloadURL(t *testing.T) {
	s := newTestS3(t)
	key := "logistic/requests/t1/r1/invoice.pdf"

	url, expiresAt, err := s.DownloadURL(context.Background(), key, "invoice.pdf")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(url, "https://localhost:9000/logistics/"+key))
	assert.Contains(t, url, "X-Amz-Signature")
	assert.Contains(t, url, "response-content-disposition")
	assert.WithinDuration(t, time.Now().Add(5*time.Minute), expiresAt, time.Minute)

	_, _, err = s.DownloadURL(context.Background(), "", "x")
	assert.Error(t, err)
}

func TestS3ObjectStorage_EmptyKey(t *testing.T) {
	s := newTestS3(t)
	assert.ErrorIs(t, s.Put(context.Background(), "", strings.NewReader("x"), 1, "text/plain"), errEmptyKey)
	assert.ErrorIs(t, s.Delete(context.Background(), ""), errEmptyKey)
}

func TestMemoryObjectStorage(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryObjectStorage()

	require.NoError(t, m.Put(ctx, "a/b.txt", strings.NewReader("hello"), 5, "text/plain"))
	b, ok := m.Get("a/b.txt")
	require.True(t, ok)
	assert.Equal(t, "hello", string(b))

	url, _, err := m.DownloadURL(ctx, "a/b.txt", "b.txt")
	require.NoError(t, err)
	assert.Contains(t, url, "a/b.txt")

	require.NoError(t, m.Delete(ctx, "a/b.txt"))
	assert.Equal(t, 0, m.Len())

	m.FailPut = errors.New("down")
	assert.Error(t, m.Put(ctx, "c", strings.NewReader("x"), 1, ""))
	assert.ErrorIs(t, m.Put(ctx, "", strings.NewReader("x"), 1, ""), errEmptyKey)
}
