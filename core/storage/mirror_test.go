package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"itemdex/core/storage"
	"itemdex/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMirror_Upload(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "items", "1", "1", "1001", "metadata.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(`{"id":1001}`), 0o644))

	client := new(mocks.Client)
	client.On("PutObject", mock.Anything, "exports", "items/1/1/1001/metadata.json",
		mock.Anything, int64(11), mock.Anything).
		Return(minio.UploadInfo{}, nil)

	m := storage.NewMirror(client, "exports", zap.NewNop())
	m.Upload(context.Background(), root, path)

	client.AssertExpectations(t)
}

func TestMirror_UploadFailureIsSwallowed(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "history", "1", "history_20240101_000000.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o644))

	client := new(mocks.Client)
	client.On("PutObject", mock.Anything, "exports", mock.Anything,
		mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, assert.AnError)

	m := storage.NewMirror(client, "exports", zap.NewNop())

	// Must not panic or surface the error.
	m.Upload(context.Background(), root, path)
	client.AssertExpectations(t)
}

func TestMirror_NilReceiverIsNoop(t *testing.T) {
	var m *storage.Mirror
	m.Upload(context.Background(), "/data", "/data/items/1/0/10/metadata.json")
	assert.NoError(t, m.EnsureBucket(context.Background()))
}

func TestMirror_MissingFileIsSwallowed(t *testing.T) {
	client := new(mocks.Client)
	m := storage.NewMirror(client, "exports", zap.NewNop())

	m.Upload(context.Background(), t.TempDir(), filepath.Join(t.TempDir(), "gone.json"))
	client.AssertNotCalled(t, "PutObject")
}

func TestMirror_EnsureBucket(t *testing.T) {
	t.Run("Creates missing bucket", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "exports").Return(false, nil)
		client.On("MakeBucket", mock.Anything, "exports", mock.Anything).Return(nil)

		m := storage.NewMirror(client, "exports", zap.NewNop())
		assert.NoError(t, m.EnsureBucket(context.Background()))
		client.AssertExpectations(t)
	})

	t.Run("Existing bucket untouched", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "exports").Return(true, nil)

		m := storage.NewMirror(client, "exports", zap.NewNop())
		assert.NoError(t, m.EnsureBucket(context.Background()))
		client.AssertNotCalled(t, "MakeBucket")
	})
}
