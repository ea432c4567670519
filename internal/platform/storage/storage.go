package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"pointage/internal/platform/config"
)

// Uploader stores generated documents. The documents service depends on this
// rather than the concrete client so tests can substitute a fake.
type Uploader interface {
	Upload(ctx context.Context, objectName, contentType string, data []byte) (string, error)
}

// Disabled returns an uploader that rejects every call, for deployments
// without an object store.
func Disabled() Uploader {
	return disabledUploader{}
}

type disabledUploader struct{}

func (disabledUploader) Upload(ctx context.Context, objectName, contentType string, data []byte) (string, error) {
	return "", errors.New("object storage is not configured")
}

type ObjectStore struct {
	client *minio.Client
	bucket string
}

func New(cfg config.Config) (*ObjectStore, error) {
	client, err := minio.New(cfg.StorageEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.StorageAccessKey, cfg.StorageSecretKey, ""),
		Secure: cfg.StorageUseSSL,
	})
	if err != nil {
		return nil, err
	}
	return &ObjectStore{client: client, bucket: cfg.StorageBucket}, nil
}

func (s *ObjectStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return err
	}
	if !exists {
		return s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
	}
	return nil
}

// Upload writes data and returns the bucket-qualified object reference.
func (s *ObjectStore) Upload(ctx context.Context, objectName, contentType string, data []byte) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, objectName, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/%s", s.bucket, objectName), nil
}
