// Package s3 stores document blobs in an S3-compatible bucket (AWS S3,
// MinIO, and the like).
package s3

import (
	"context"
	"io"

	"github.com/m-mizutani/goerr/v2"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/docket-hq/docket/pkg/domain/interfaces"
)

type Storage struct {
	client *minio.Client
	bucket string
}

var _ interfaces.Storage = &Storage{}

type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// New creates an S3-compatible storage client and ensures the bucket
// exists, creating it if missing.
func New(ctx context.Context, cfg Config) (*Storage, error) {
	if cfg.Endpoint == "" {
		return nil, goerr.New("s3 endpoint is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, goerr.New("s3 credentials are required")
	}
	if cfg.Bucket == "" {
		return nil, goerr.New("s3 bucket is required")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create s3 client")
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to check bucket", goerr.V("bucket", cfg.Bucket))
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, goerr.Wrap(err, "failed to create bucket", goerr.V("bucket", cfg.Bucket))
		}
	}

	return &Storage{client: client, bucket: cfg.Bucket}, nil
}

func (s *Storage) Put(ctx context.Context, name string, r io.Reader) (int64, error) {
	if name == "" {
		return 0, goerr.New("blob name is empty")
	}

	// Object keys embed unique document IDs, so an existing key means a
	// duplicate upload. Refuse it.
	if _, err := s.client.StatObject(ctx, s.bucket, name, minio.StatObjectOptions{}); err == nil {
		return 0, goerr.New("blob already exists", goerr.V("name", name))
	} else if resp := minio.ToErrorResponse(err); resp.Code != "NoSuchKey" && resp.Code != "NotFound" {
		return 0, goerr.Wrap(err, "failed to stat s3 object", goerr.V("name", name))
	}

	info, err := s.client.PutObject(ctx, s.bucket, name, r, -1, minio.PutObjectOptions{})
	if err != nil {
		return 0, goerr.Wrap(err, "failed to put s3 object", goerr.V("name", name))
	}
	return info.Size, nil
}

func (s *Storage) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if name == "" {
		return nil, goerr.New("blob name is empty")
	}

	obj, err := s.client.GetObject(ctx, s.bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get s3 object", goerr.V("name", name))
	}

	// GetObject is lazy; surface a missing object here rather than on the
	// caller's first Read.
	if _, err := obj.Stat(); err != nil {
		_ = obj.Close()
		return nil, goerr.Wrap(err, "failed to stat s3 object", goerr.V("name", name))
	}
	return obj, nil
}

func (s *Storage) Delete(ctx context.Context, name string) error {
	if name == "" {
		return goerr.New("blob name is empty")
	}

	// RemoveObject on a missing key is already a no-op for S3.
	if err := s.client.RemoveObject(ctx, s.bucket, name, minio.RemoveObjectOptions{}); err != nil {
		return goerr.Wrap(err, "failed to delete s3 object", goerr.V("name", name))
	}
	return nil
}
