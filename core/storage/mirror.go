package storage

import (
	"context"
	"os"
	"path/filepath"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// Mirror replicates exported files into an S3-compatible bucket so remote
// consumers can read the export tree without filesystem access to the game
// host. Every upload is best-effort: failures are logged and counted, never
// propagated, so a broken mirror cannot break the local export.
//
// A nil *Mirror is valid and does nothing; callers hold one without checking
// whether mirroring is configured.
type Mirror struct {
	client Client
	bucket string
	logger *zap.Logger
}

// NewMirror creates a mirror writing into the given bucket.
func NewMirror(client Client, bucket string, logger *zap.Logger) *Mirror {
	return &Mirror{client: client, bucket: bucket, logger: logger}
}

// EnsureBucket creates the target bucket if it does not exist yet.
func (m *Mirror) EnsureBucket(ctx context.Context) error {
	if m == nil {
		return nil
	}
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{})
}

// Upload copies one exported file into the bucket. The object key is the
// file's path relative to the data root, with forward slashes, so the bucket
// layout matches the local tree exactly.
func (m *Mirror) Upload(ctx context.Context, root, path string) {
	if m == nil {
		return
	}

	rel, err := filepath.Rel(root, path)
	if err != nil {
		m.logger.Error("Mirror upload skipped, path outside data root",
			zap.String("path", path), zap.Error(err))
		return
	}
	objectName := filepath.ToSlash(rel)

	file, err := os.Open(path)
	if err != nil {
		m.logger.Error("Mirror upload failed to open file",
			zap.String("path", path), zap.Error(err))
		return
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		m.logger.Error("Mirror upload failed to stat file",
			zap.String("path", path), zap.Error(err))
		return
	}

	contentType := "application/json"
	if filepath.Ext(path) == ".png" {
		contentType = "image/png"
	}

	_, err = m.client.PutObject(ctx, m.bucket, objectName, file, info.Size(),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		m.logger.Error("Mirror upload failed",
			zap.String("object", objectName), zap.Error(err))
		return
	}

	m.logger.Debug("Mirrored file", zap.String("object", objectName))
}
