package config

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/docket-hq/docket/pkg/domain/interfaces"
	"github.com/docket-hq/docket/pkg/storage/fs"
	"github.com/docket-hq/docket/pkg/storage/gcs"
	"github.com/docket-hq/docket/pkg/storage/s3"
	"github.com/docket-hq/docket/pkg/utils/logging"
)

// Storage holds CLI flags for blob storage configuration
type Storage struct {
	backend string

	fsRoot string

	gcsBucket string
	gcsPrefix string

	s3Endpoint  string
	s3AccessKey string
	s3SecretKey string
	s3Bucket    string
	s3UseSSL    bool
}

// Flags returns CLI flags for storage configuration
func (s *Storage) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "storage-backend",
			Category:    "Storage",
			Usage:       "Blob storage backend type (fs, gcs or s3)",
			Value:       "fs",
			Sources:     cli.EnvVars("DOCKET_STORAGE_BACKEND"),
			Destination: &s.backend,
		},
		&cli.StringFlag{
			Name:        "storage-root",
			Category:    "Storage",
			Usage:       "Directory for document blobs (fs backend)",
			Value:       "./data/documents",
			Sources:     cli.EnvVars("DOCKET_STORAGE_ROOT"),
			Destination: &s.fsRoot,
		},
		&cli.StringFlag{
			Name:        "gcs-bucket",
			Category:    "Storage",
			Usage:       "Google Cloud Storage bucket name (gcs backend)",
			Sources:     cli.EnvVars("DOCKET_GCS_BUCKET"),
			Destination: &s.gcsBucket,
		},
		&cli.StringFlag{
			Name:        "gcs-prefix",
			Category:    "Storage",
			Usage:       "Key prefix for objects in the GCS bucket",
			Sources:     cli.EnvVars("DOCKET_GCS_PREFIX"),
			Destination: &s.gcsPrefix,
		},
		&cli.StringFlag{
			Name:        "s3-endpoint",
			Category:    "Storage",
			Usage:       "S3-compatible endpoint (s3 backend)",
			Sources:     cli.EnvVars("DOCKET_S3_ENDPOINT"),
			Destination: &s.s3Endpoint,
		},
		&cli.StringFlag{
			Name:        "s3-access-key",
			Category:    "Storage",
			Usage:       "S3 access key",
			Sources:     cli.EnvVars("DOCKET_S3_ACCESS_KEY"),
			Destination: &s.s3AccessKey,
		},
		&cli.StringFlag{
			Name:        "s3-secret-key",
			Category:    "Storage",
			Usage:       "S3 secret key",
			Sources:     cli.EnvVars("DOCKET_S3_SECRET_KEY"),
			Destination: &s.s3SecretKey,
		},
		&cli.StringFlag{
			Name:        "s3-bucket",
			Category:    "Storage",
			Usage:       "S3 bucket name",
			Sources:     cli.EnvVars("DOCKET_S3_BUCKET"),
			Destination: &s.s3Bucket,
		},
		&cli.BoolFlag{
			Name:        "s3-use-ssl",
			Category:    "Storage",
			Usage:       "Use TLS for the S3 endpoint",
			Value:       true,
			Sources:     cli.EnvVars("DOCKET_S3_USE_SSL"),
			Destination: &s.s3UseSSL,
		},
	}
}

// Backend returns the configured backend type
func (s *Storage) Backend() string {
	return s.backend
}

// Configure initializes and returns the blob storage for the configured
// backend.
func (s *Storage) Configure(ctx context.Context) (interfaces.Storage, error) {
	switch s.backend {
	case "fs":
		st, err := fs.New(s.fsRoot)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize fs storage")
		}
		logging.Default().Info("Using filesystem blob storage", "root", s.fsRoot)
		return st, nil

	case "gcs":
		if s.gcsBucket == "" {
			return nil, goerr.New("gcs-bucket is required when using gcs backend")
		}
		var opts []gcs.Option
		if s.gcsPrefix != "" {
			opts = append(opts, gcs.WithPrefix(s.gcsPrefix))
		}
		st, err := gcs.New(ctx, s.gcsBucket, opts...)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize gcs storage")
		}
		logging.Default().Info("Using GCS blob storage", "bucket", s.gcsBucket, "prefix", s.gcsPrefix)
		return st, nil

	case "s3":
		st, err := s3.New(ctx, s3.Config{
			Endpoint:  s.s3Endpoint,
			AccessKey: s.s3AccessKey,
			SecretKey: s.s3SecretKey,
			Bucket:    s.s3Bucket,
			UseSSL:    s.s3UseSSL,
		})
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize s3 storage")
		}
		logging.Default().Info("Using S3 blob storage", "endpoint", s.s3Endpoint, "bucket", s.s3Bucket)
		return st, nil

	default:
		return nil, goerr.Wrap(ErrInvalidConfig, "invalid storage backend", goerr.V(BackendKey, s.backend))
	}
}
