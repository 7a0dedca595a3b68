package storage

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockStorageService_Lifecycle(t *testing.T) {
	s, err := NewMockStorageService("http://localhost:8080", t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()
	key := "appliances/app-1/photo.jpg"

	url, err := s.Upload(ctx, key, "image/jpeg", strings.NewReader("jpeg-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/api/v1/storage/download?key=appliances%2Fapp-1%2Fphoto.jpg", url)

	exists, size, err := s.FileExists(ctx, key)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, int64(10), size)

	rc, err := s.ReadFile(key)
	require.NoError(t, err)
	data, _ := io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, "jpeg-bytes", string(data))

	require.NoError(t, s.DeleteFile(ctx, key))
	exists, _, err = s.FileExists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)

	// deleting twice is not an error
	assert.NoError(t, s.DeleteFile(ctx, key))
}

func TestMockStorageService_PresignedURLs(t *testing.T) {
	s, err := NewMockStorageService("http://localhost:8080", t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	upload, err := s.GeneratePresignedUploadURL(ctx, "a/b.png", "image/png", time.Minute)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(upload, "http://localhost:8080/api/v1/storage/upload/"))
	assert.Contains(t, upload, "key=a%2Fb.png")

	download, err := s.GeneratePresignedDownloadURL(ctx, "a/b.png", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, s.PublicURL("a/b.png"), download)
}

func TestCleanKey(t *testing.T) {
	for _, bad := range []string{"", "/etc/passwd", "../secret", "a/../../b", `a\b`, ".."} {
		_, err := CleanKey(bad)
		assert.ErrorIs(t, err, ErrInvalidKey, bad)
	}
	k, err := CleanKey("a/./b.jpg")
	require.NoError(t, err)
	assert.Equal(t, "a/b.jpg", k)
}
