// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client to provide a simplified interface for common operations
// like checking bucket existence, uploading files, and listing objects. This abstraction
// supports both AWS S3 and self-hosted MinIO instances.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it easier
// to mock storage interactions for unit testing (as seen in core/storage/mocks).
//
// # Mirror
//
// Mirror replicates the exporter's on-disk output tree into a bucket, key for
// key, so out-of-process consumers can read it remotely. Mirroring is strictly
// best-effort: the local filesystem stays the source of truth and upload
// failures are logged, never propagated.
//
// # Usage
//
//	client, err := storage.NewClient(config)
//	mirror := storage.NewMirror(client, config.Bucket, logger)
//	mirror.Upload(ctx, dataRoot, writtenFile)
package storage
