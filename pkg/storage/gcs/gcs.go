// Package gcs stores document blobs as objects in a Google Cloud Storage
// bucket, optionally under a key prefix.
package gcs

import (
	"context"
	"errors"
	"io"
	"path"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/option"

	"github.com/docket-hq/docket/pkg/domain/interfaces"
)

type Storage struct {
	client *storage.Client
	bucket string
	prefix string
}

var _ interfaces.Storage = &Storage{}

type Option func(*Storage)

// WithPrefix places all objects under the given key prefix.
func WithPrefix(prefix string) Option {
	return func(s *Storage) {
		s.prefix = prefix
	}
}

func New(ctx context.Context, bucket string, options ...Option) (*Storage, error) {
	if bucket == "" {
		return nil, goerr.New("gcs bucket is required")
	}

	client, err := storage.NewClient(ctx, []option.ClientOption{}...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create gcs client")
	}

	s := &Storage{client: client, bucket: bucket}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

func (s *Storage) object(name string) *storage.ObjectHandle {
	return s.client.Bucket(s.bucket).Object(path.Join(s.prefix, name))
}

func (s *Storage) Put(ctx context.Context, name string, r io.Reader) (int64, error) {
	if name == "" {
		return 0, goerr.New("blob name is empty")
	}

	// DoesNotExist makes the write fail on collision instead of
	// silently replacing another record's blob.
	w := s.object(name).If(storage.Conditions{DoesNotExist: true}).NewWriter(ctx)

	size, err := io.Copy(w, r)
	if err != nil {
		_ = w.Close()
		return 0, goerr.Wrap(err, "failed to write gcs object", goerr.V("name", name))
	}
	if err := w.Close(); err != nil {
		return 0, goerr.Wrap(err, "failed to finalize gcs object", goerr.V("name", name))
	}

	return size, nil
}

func (s *Storage) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if name == "" {
		return nil, goerr.New("blob name is empty")
	}

	r, err := s.object(name).NewReader(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open gcs object", goerr.V("name", name))
	}
	return r, nil
}

func (s *Storage) Delete(ctx context.Context, name string) error {
	if name == "" {
		return goerr.New("blob name is empty")
	}

	if err := s.object(name).Delete(ctx); err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil
		}
		return goerr.Wrap(err, "failed to delete gcs object", goerr.V("name", name))
	}
	return nil
}

func (s *Storage) Close() error {
	return s.client.Close()
}
