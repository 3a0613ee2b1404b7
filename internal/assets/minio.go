package assets

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/princekumarofficial/tubely-service/internal/config"
)

// MinIO stores assets in a MinIO (or other S3-compatible) bucket.
type MinIO struct {
	client     *minio.Client
	bucketName string
	useSSL     bool
}

var _ Sink = (*MinIO)(nil)

// NewMinIO creates the client and makes sure the bucket exists.
func NewMinIO(ctx context.Context, cfg config.MinIO) (*MinIO, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	m := &MinIO{
		client:     client,
		bucketName: cfg.BucketName,
		useSSL:     cfg.UseSSL,
	}

	if err := m.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure bucket exists: %w", err)
	}

	return m, nil
}

// ensureBucket creates the bucket if it doesn't exist
func (m *MinIO) ensureBucket(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucketName)
	if err != nil {
		return fmt.Errorf("failed to check if bucket exists: %w", err)
	}

	if !exists {
		err = m.client.MakeBucket(ctx, m.bucketName, minio.MakeBucketOptions{})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return nil
}

func (m *MinIO) Put(ctx context.Context, obj Object, body io.Reader) error {
	size := obj.Size
	if size <= 0 {
		size = -1
	}

	_, err := m.client.PutObject(ctx, m.bucketName, obj.Key, body, size, minio.PutObjectOptions{
		ContentType: obj.ContentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload to MinIO: %w", err)
	}

	return nil
}

// URL returns the path-style URL of the object; the bucket is expected to
// allow anonymous reads.
func (m *MinIO) URL(obj Object) string {
	u := m.client.EndpointURL()
	return fmt.Sprintf("%s://%s/%s/%s", u.Scheme, u.Host, m.bucketName, obj.Key)
}
