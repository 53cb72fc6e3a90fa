// Package filestore abstracts the object storage holding uploaded file bytes.
// The intake service only bookkeeps paths; streaming uploads happen elsewhere.
package filestore

import (
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"intake/internal/platform/config"
)

// Minio removes document objects from a MinIO/S3 bucket.
type Minio struct {
	client *minio.Client
	bucket string
	region string
}

// NewMinio creates a MinIO-backed file store from the Config.
// Returns nil if no endpoint is configured (object cleanup disabled).
func NewMinio(cfg config.S3Config) (*Minio, error) {
	if cfg.Endpoint == "" {
		return nil, nil
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio: %w", err)
	}
	return &Minio{client: client, bucket: cfg.Bucket, region: cfg.Region}, nil
}

// EnsureBucket makes sure the documents bucket exists before use.
func (s *Minio) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", s.bucket, err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region}); err != nil {
			return fmt.Errorf("make bucket %s: %w", s.bucket, err)
		}
	}
	return nil
}

// Remove deletes the object at path. Removing an absent object is not an
// error on S3 semantics, which suits the best-effort cleanup contract.
func (s *Minio) Remove(ctx context.Context, path string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, path, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object %s: %w", path, err)
	}
	return nil
}
